package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jpcloudkit/sponsormap/internal/httpx"
	"github.com/jpcloudkit/sponsormap/internal/models"
	"github.com/jpcloudkit/sponsormap/internal/progress"
	tracksync "github.com/jpcloudkit/sponsormap/internal/sync"
)

type TrackingHandler struct {
	Store RecordStore
	Sync  *tracksync.Synchronizer
	Log   *zap.Logger
}

func NewTrackingHandler(store RecordStore, sync *tracksync.Synchronizer, log *zap.Logger) *TrackingHandler {
	return &TrackingHandler{Store: store, Sync: sync, Log: log}
}

func parseCategoryParam(w http.ResponseWriter, raw string) (models.Category, bool) {
	cat, ok := models.ParseCategory(raw)
	if !ok || !cat.Trackable() {
		httpx.JSONError(w, http.StatusBadRequest, "unknown_category", map[string]string{"category": raw})
		return "", false
	}
	return cat, true
}

// List returns one category's tracking records, optionally narrowed to
// a single entity with ?entity=.
func (h *TrackingHandler) List(w http.ResponseWriter, r *http.Request) {
	cat, ok := parseCategoryParam(w, r.URL.Query().Get("category"))
	if !ok {
		return
	}
	var (
		records []models.TrackingRecord
		err     error
	)
	if entityID := r.URL.Query().Get("entity"); entityID != "" {
		records, err = h.Store.ListTrackingForEntity(r.Context(), cat, entityID)
	} else {
		records, err = h.Store.ListTracking(r.Context(), cat)
	}
	if err != nil {
		h.Log.Error("list tracking failed", zap.String("category", cat.String()), zap.Error(err))
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, records)
}

type updateTrackingRequest struct {
	Category string         `json:"category"`
	ID       string         `json:"id"`
	EntityID string         `json:"entityId"`
	Fields   map[string]any `json:"fields"`
}

// Update patches a tracking record. When no record id is given the
// record is created on the fly and linked to the entity, so the first
// checklist edit works without an init step.
func (h *TrackingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateTrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	cat, ok := parseCategoryParam(w, req.Category)
	if !ok {
		return
	}
	if len(req.Fields) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "missing_fields", nil)
		return
	}

	if req.ID != "" {
		if err := h.Store.UpdateTracking(r.Context(), cat, req.ID, req.Fields); err != nil {
			h.Log.Error("update tracking failed", zap.String("id", req.ID), zap.Error(err))
			httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]bool{"updated": true})
		return
	}

	if req.EntityID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id_or_entity", nil)
		return
	}
	fields := req.Fields
	if _, ok := fields["Titre"]; !ok {
		fields["Titre"] = h.entityTitle(r, req.EntityID)
	}
	created, err := h.Store.CreateAndLinkTracking(r.Context(), cat, fields, req.EntityID)
	if err != nil {
		h.Log.Error("create tracking failed", zap.String("entity", req.EntityID), zap.Error(err))
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *TrackingHandler) entityTitle(r *http.Request, entityID string) string {
	entities, err := h.Store.ListEntities(r.Context())
	if err == nil {
		for _, e := range entities {
			if e.ID.String() == entityID && e.Title != "" {
				return e.Title
			}
		}
	}
	return "Suivi"
}

type initTrackingRequest struct {
	Category string `json:"category"`
}

// Init backfills skeletal tracking records for every relevant entity
// of a category that has none yet. Failures are per-entity and do not
// abort the pass.
func (h *TrackingHandler) Init(w http.ResponseWriter, r *http.Request) {
	var req initTrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	cat, ok := parseCategoryParam(w, req.Category)
	if !ok {
		return
	}
	entities, err := h.Store.ListEntities(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	records, err := h.Store.ListTracking(r.Context(), cat)
	if err != nil {
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	idx := models.TrackingIndex(records)

	created := 0
	for _, e := range entities {
		if !progress.Relevant(e, cat, idx) {
			continue
		}
		if idx[e.ID.String()] != nil {
			continue
		}
		title := e.Title
		if title == "" {
			title = "Suivi"
		}
		if _, err := h.Store.CreateAndLinkTracking(r.Context(), cat, map[string]any{"Titre": title}, e.ID.String()); err != nil {
			h.Log.Warn("init tracking failed", zap.String("entity", e.ID.String()), zap.Error(err))
			continue
		}
		created++
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"created": created})
}

type packToggleRequest struct {
	EntityID   string `json:"entityId"`
	TrackingID string `json:"trackingId"`
	Selected   bool   `json:"selected"`
}

// PackToggle selects or deselects the Stand 3x3m pack on a partner and
// keeps the companion Stand record in step.
func (h *TrackingHandler) PackToggle(w http.ResponseWriter, r *http.Request) {
	var req packToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.EntityID == "" || req.TrackingID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}

	entities, err := h.Store.ListEntities(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	var entity *models.Entity
	for i := range entities {
		if entities[i].ID.String() == req.EntityID {
			entity = &entities[i]
			break
		}
	}
	if entity == nil {
		httpx.JSONError(w, http.StatusNotFound, "entity_not_found", nil)
		return
	}

	records, err := h.Store.ListTrackingForEntity(r.Context(), models.CategoryPartenaires, req.EntityID)
	if err != nil {
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	var rec *models.TrackingRecord
	for i := range records {
		if records[i].ID.String() == req.TrackingID {
			rec = &records[i]
			break
		}
	}
	if rec == nil {
		httpx.JSONError(w, http.StatusNotFound, "tracking_not_found", nil)
		return
	}

	if err := h.Sync.ToggleStandPack(r.Context(), *entity, *rec, req.Selected); err != nil {
		h.Log.Error("pack toggle failed", zap.String("entity", req.EntityID), zap.Error(err))
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"updated": true})
}
