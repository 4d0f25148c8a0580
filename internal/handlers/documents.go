package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jpcloudkit/sponsormap/internal/billing"
	"github.com/jpcloudkit/sponsormap/internal/httpx"
	"github.com/jpcloudkit/sponsormap/internal/i18n"
	"github.com/jpcloudkit/sponsormap/internal/models"
	"github.com/jpcloudkit/sponsormap/internal/webhook"
)

type DocumentsHandler struct {
	Store   RecordStore
	Billing *billing.Service
	Log     *zap.Logger
}

func NewDocumentsHandler(store RecordStore, svc *billing.Service, log *zap.Logger) *DocumentsHandler {
	return &DocumentsHandler{Store: store, Billing: svc, Log: log}
}

func (h *DocumentsHandler) lookup(w http.ResponseWriter, r *http.Request, cat models.Category, entityID string) (models.Entity, *models.TrackingRecord, bool) {
	entities, err := h.Store.ListEntities(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return models.Entity{}, nil, false
	}
	var entity *models.Entity
	for i := range entities {
		if entities[i].ID.String() == entityID {
			entity = &entities[i]
			break
		}
	}
	if entity == nil {
		httpx.JSONError(w, http.StatusNotFound, "entity_not_found", nil)
		return models.Entity{}, nil, false
	}
	records, err := h.Store.ListTrackingForEntity(r.Context(), cat, entityID)
	if err != nil {
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return models.Entity{}, nil, false
	}
	return *entity, models.FindTracking(records, entityID), true
}

// InvoicePrefill returns a pre-seeded invoice form for an entity.
func (h *DocumentsHandler) InvoicePrefill(w http.ResponseWriter, r *http.Request) {
	cat, ok := parseCategoryParam(w, r.URL.Query().Get("category"))
	if !ok {
		return
	}
	entity, tracking, ok := h.lookup(w, r, cat, r.URL.Query().Get("entity"))
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, h.Billing.PrefillInvoice(entity, tracking, cat))
}

type invoiceRequest struct {
	Category string              `json:"category"`
	EntityID string              `json:"entityId"`
	Generate bool                `json:"generate"`
	Form     billing.InvoiceForm `json:"form"`
}

// Invoice saves the invoice fields; with generate set it also triggers
// the document workflow after a successful save.
func (h *DocumentsHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	cat, ok := parseCategoryParam(w, req.Category)
	if !ok {
		return
	}
	entity, tracking, ok := h.lookup(w, r, cat, req.EntityID)
	if !ok {
		return
	}
	lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
	if !req.Generate {
		if err := h.Billing.SaveInvoice(r.Context(), cat, entity, tracking, req.Form); err != nil {
			h.documentError(w, lang, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]bool{"saved": true})
		return
	}
	if err := h.Billing.GenerateInvoice(r.Context(), cat, entity, tracking, req.Form); err != nil {
		h.documentError(w, lang, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": i18n.T(lang, "invoice_generated")})
}

// ReceiptPrefill returns a pre-seeded patronage-receipt form.
func (h *DocumentsHandler) ReceiptPrefill(w http.ResponseWriter, r *http.Request) {
	entity, tracking, ok := h.lookup(w, r, models.CategoryMecenat, r.URL.Query().Get("entity"))
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, h.Billing.PrefillReceipt(entity, tracking))
}

type receiptRequest struct {
	EntityID string              `json:"entityId"`
	Generate bool                `json:"generate"`
	Form     billing.ReceiptForm `json:"form"`
}

// Receipt saves the receipt fields; with generate set it also triggers
// the document workflow.
func (h *DocumentsHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	var req receiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	entity, tracking, ok := h.lookup(w, r, models.CategoryMecenat, req.EntityID)
	if !ok {
		return
	}
	lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
	if !req.Generate {
		if err := h.Billing.SaveReceipt(r.Context(), entity, tracking, req.Form); err != nil {
			h.documentError(w, lang, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]bool{"saved": true})
		return
	}
	if err := h.Billing.GenerateReceipt(r.Context(), entity, tracking, req.Form); err != nil {
		h.documentError(w, lang, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": i18n.T(lang, "receipt_generated")})
}

func (h *DocumentsHandler) documentError(w http.ResponseWriter, lang string, err error) {
	var verr *billing.ValidationError
	if errors.As(err, &verr) {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "missing_fields"), verr.Fields)
		return
	}
	if errors.Is(err, webhook.ErrNotConfigured) {
		httpx.JSONError(w, http.StatusInternalServerError, i18n.T(lang, "webhook_failed"), nil)
		return
	}
	h.Log.Error("document flow failed", zap.Error(err))
	httpx.JSONError(w, http.StatusBadGateway, i18n.T(lang, "webhook_failed"), nil)
}
