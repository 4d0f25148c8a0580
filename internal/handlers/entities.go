package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jpcloudkit/sponsormap/internal/httpx"
	"github.com/jpcloudkit/sponsormap/internal/i18n"
	"github.com/jpcloudkit/sponsormap/internal/models"
	"github.com/jpcloudkit/sponsormap/internal/report"
	tracksync "github.com/jpcloudkit/sponsormap/internal/sync"
)

type EntityHandler struct {
	Store RecordStore
	Sync  *tracksync.Synchronizer
	Log   *zap.Logger
}

func NewEntityHandler(store RecordStore, sync *tracksync.Synchronizer, log *zap.Logger) *EntityHandler {
	return &EntityHandler{Store: store, Sync: sync, Log: log}
}

// List returns the main table, narrowed by the optional ?statut, ?type,
// ?referent and ?q filters. Filtering happens in memory after the
// fetch; ?referent=Non attribué selects unassigned entities.
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	entities, err := h.Store.ListEntities(r.Context())
	if err != nil {
		h.Log.Error("list entities failed", zap.Error(err))
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, filterEntities(entities, r.URL.Query()))
}

func filterEntities(entities []models.Entity, q url.Values) []models.Entity {
	statut := q.Get("statut")
	typ := q.Get("type")
	referent := q.Get("referent")
	search := strings.ToLower(q.Get("q"))
	if statut == "" && typ == "" && referent == "" && search == "" {
		return entities
	}
	out := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		if statut != "" && e.Statuts != statut {
			continue
		}
		if typ != "" && e.Type != typ {
			continue
		}
		if referent == "Non attribué" {
			if e.Assigned() {
				continue
			}
		} else if referent != "" && e.Referent != referent {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Title), search) &&
			!strings.Contains(strings.ToLower(e.Address), search) &&
			!strings.Contains(strings.ToLower(e.Place), search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
	if s, _ := fields["title"].(string); strings.TrimSpace(s) == "" {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "missing_title"), nil)
		return
	}
	if !hasCoordinates(fields) {
		httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang, "missing_gps"), nil)
		return
	}
	created, err := h.Store.CreateEntity(r.Context(), fields)
	if err != nil {
		h.Log.Error("create entity failed", zap.Error(err))
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

// hasCoordinates accepts either a filled gps string or a numeric
// latitude/longitude pair.
func hasCoordinates(fields map[string]any) bool {
	if s, _ := fields["gps"].(string); strings.TrimSpace(s) != "" {
		return true
	}
	_, hasLat := fields["Latitude"].(float64)
	_, hasLng := fields["Longitude"].(float64)
	return hasLat && hasLng
}

type updateEntityRequest struct {
	ID           string         `json:"id"`
	Fields       map[string]any `json:"fields"`
	PreviousType string         `json:"previousType"`
}

// Update patches an entity. When the update changes its Type, the
// tracking tables are realigned afterwards; sync failures are logged
// and do not fail the request, the checklist catches up on the next
// pass.
func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.ID == "" || len(req.Fields) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id_or_fields", nil)
		return
	}
	if err := h.Store.UpdateEntity(r.Context(), req.ID, req.Fields); err != nil {
		h.Log.Error("update entity failed", zap.String("id", req.ID), zap.Error(err))
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	if newType, ok := req.Fields["Type"].(string); ok {
		if err := h.Sync.Synchronize(r.Context(), req.ID, newType, req.PreviousType); err != nil {
			h.Log.Warn("tracking sync incomplete", zap.String("id", req.ID), zap.Error(err))
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"updated": true})
}

type addCommentRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// AddComment stamps a prospection note and prepends it to the entity's
// Comments log. The log is append-only, existing notes are never
// rewritten.
func (h *EntityHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.ID == "" || strings.TrimSpace(req.Text) == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id_or_fields", nil)
		return
	}
	entities, err := h.Store.ListEntities(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	var current string
	found := false
	for _, e := range entities {
		if e.ID.String() == req.ID {
			current = e.Comments
			found = true
			break
		}
	}
	if !found {
		httpx.JSONError(w, http.StatusNotFound, "entity_not_found", nil)
		return
	}
	comments := report.AppendLogEntry(current, time.Now(), req.Text)
	if err := h.Store.UpdateEntity(r.Context(), req.ID, map[string]any{"Comments": comments}); err != nil {
		h.Log.Error("add comment failed", zap.String("id", req.ID), zap.Error(err))
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"comments": comments})
}

type updateRevenueRequest struct {
	ID      string  `json:"id"`
	Recette float64 `json:"recette"`
}

// UpdateRevenue is the inline revenue edit; the client applies the
// value optimistically before calling here.
func (h *EntityHandler) UpdateRevenue(w http.ResponseWriter, r *http.Request) {
	var req updateRevenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Store.UpdateEntity(r.Context(), req.ID, map[string]any{"Recette": req.Recette}); err != nil {
		h.Log.Error("update revenue failed", zap.String("id", req.ID), zap.Error(err))
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"updated": true})
}
