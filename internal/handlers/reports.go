package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jpcloudkit/sponsormap/internal/httpx"
	"github.com/jpcloudkit/sponsormap/internal/models"
	"github.com/jpcloudkit/sponsormap/internal/progress"
	"github.com/jpcloudkit/sponsormap/internal/report"
)

type ReportHandler struct {
	Store       RecordStore
	RevenueGoal float64
	Log         *zap.Logger
}

func NewReportHandler(store RecordStore, goal float64, log *zap.Logger) *ReportHandler {
	return &ReportHandler{Store: store, RevenueGoal: goal, Log: log}
}

func (h *ReportHandler) entities(w http.ResponseWriter, r *http.Request) ([]models.Entity, bool) {
	entities, err := h.Store.ListEntities(r.Context())
	if err != nil {
		h.Log.Error("list entities failed", zap.Error(err))
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return nil, false
	}
	return entities, true
}

// Financial returns the three-section revenue summary plus the lot
// inventory.
func (h *ReportHandler) Financial(w http.ResponseWriter, r *http.Request) {
	entities, ok := h.entities(w, r)
	if !ok {
		return
	}
	tracking := map[models.Category][]models.TrackingRecord{}
	for _, cat := range []models.Category{models.CategoryEncartPub, models.CategoryPartenaires, models.CategoryTombola} {
		records, err := h.Store.ListTracking(r.Context(), cat)
		if err != nil {
			h.Log.Warn("tracking fetch failed, summary rows lose their details",
				zap.String("category", cat.String()), zap.Error(err))
			continue
		}
		tracking[cat] = records
	}
	httpx.JSON(w, http.StatusOK, report.BuildFinancialSummary(entities, tracking))
}

// Dashboard returns global stats and the referent leaderboard.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	entities, ok := h.entities(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, report.BuildDashboard(entities, h.RevenueGoal))
}

// History returns the flattened prospection log, newest first.
func (h *ReportHandler) History(w http.ResponseWriter, r *http.Request) {
	entities, ok := h.entities(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, report.BuildHistory(entities))
}

// Progress returns the checklist board of one category view.
func (h *ReportHandler) Progress(w http.ResponseWriter, r *http.Request) {
	cat, ok := parseCategoryParam(w, r.URL.Query().Get("category"))
	if !ok {
		return
	}
	entities, ok2 := h.entities(w, r)
	if !ok2 {
		return
	}
	records, err := h.Store.ListTracking(r.Context(), cat)
	if err != nil {
		h.Log.Error("list tracking failed", zap.String("category", cat.String()), zap.Error(err))
		httpx.JSONError(w, http.StatusBadGateway, "store_unavailable", nil)
		return
	}
	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = progress.FilterAll
	}
	httpx.JSON(w, http.StatusOK, progress.BuildBoard(entities, records, cat, filter))
}
