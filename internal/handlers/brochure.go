package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jpcloudkit/sponsormap/internal/httpx"
	"github.com/jpcloudkit/sponsormap/internal/models"
	"github.com/jpcloudkit/sponsormap/internal/prefs"
	"github.com/jpcloudkit/sponsormap/internal/report"
)

type BrochureHandler struct {
	Store RecordStore
	Prefs *prefs.Store
	Log   *zap.Logger
}

func NewBrochureHandler(store RecordStore, prefStore *prefs.Store, log *zap.Logger) *BrochureHandler {
	return &BrochureHandler{Store: store, Prefs: prefStore, Log: log}
}

// brochureRow is one sheet item with its resolved filename and layout
// snippet.
type brochureRow struct {
	report.BrochureItem
	Filename string `json:"filename"`
	Snippet  string `json:"snippet"`
}

// Sheet returns the placement sheet: filtered entities, buckets,
// per-size stats and the copy-paste snippet for each slot.
func (h *BrochureHandler) Sheet(w http.ResponseWriter, r *http.Request) {
	entities, err := h.Store.ListEntities(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	partenaires, err := h.Store.ListTracking(r.Context(), models.CategoryPartenaires)
	if err != nil {
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	encarts, err := h.Store.ListTracking(r.Context(), models.CategoryEncartPub)
	if err != nil {
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	stored, err := h.Prefs.All()
	if err != nil {
		h.Log.Error("load brochure prefs failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "prefs_unavailable", nil)
		return
	}

	sheet := report.BuildBrochureSheet(entities, partenaires, encarts, stored)
	rows := make([]brochureRow, len(sheet.Items))
	for i, item := range sheet.Items {
		rows[i] = brochureRow{
			BrochureItem: item,
			Filename:     item.Filename(stored),
			Snippet:      item.HTMLSnippet(stored),
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":     rows,
		"total":     sheet.Total,
		"validated": sheet.Validated,
		"ready":     sheet.Ready,
		"missing":   sheet.Missing,
		"bySize":    sheet.BySize,
	})
}

type savePrefsRequest struct {
	EntityID       string `json:"entityId"`
	Page           string `json:"page"`
	CustomFilename string `json:"customFilename"`
	Size           string `json:"size"`
	Position       string `json:"position"`
	Extension      string `json:"extension"`
	// Tracking coordinates of the slot, for writing the validated page
	// back to the store.
	TrackingCategory string `json:"trackingCategory"`
	TrackingID       string `json:"trackingId"`
}

// SavePrefs stores the operator's layout choices and mirrors the page
// number onto the tracking record when the slot is known. An empty
// page clears the store column.
func (h *BrochureHandler) SavePrefs(w http.ResponseWriter, r *http.Request) {
	var req savePrefsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.EntityID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Prefs.Put(req.EntityID, report.PlacementPrefs{
		Page:           req.Page,
		CustomFilename: req.CustomFilename,
		Size:           req.Size,
		Position:       req.Position,
		Extension:      req.Extension,
	}); err != nil {
		h.Log.Error("save brochure prefs failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "prefs_unavailable", nil)
		return
	}

	if req.TrackingCategory != "" && req.TrackingID != "" {
		cat, ok := models.ParseCategory(req.TrackingCategory)
		if ok && cat.Trackable() {
			if err := h.syncPage(r, cat, req.TrackingID, req.Page); err != nil {
				h.Log.Warn("page sync to store failed",
					zap.String("tracking", req.TrackingID), zap.Error(err))
			}
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (h *BrochureHandler) syncPage(r *http.Request, cat models.Category, trackingID, page string) error {
	var value any
	if strings.TrimSpace(page) == "" {
		value = nil
	} else {
		n, err := strconv.Atoi(strings.TrimSpace(page))
		if err != nil {
			// Not a number, keep it local only.
			return nil
		}
		value = n
	}
	return h.Store.UpdateTracking(r.Context(), cat, trackingID, map[string]any{"Page_Brochure": value})
}
