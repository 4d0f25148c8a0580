package report

import (
	"sort"

	"github.com/jpcloudkit/sponsormap/internal/models"
)

// ReferentStats is one leaderboard row.
type ReferentStats struct {
	Name         string
	Revenue      float64
	SignedCount  int
	RefusedCount int
	TotalCount   int
	// GoalPct is this referent's revenue against the shared goal.
	GoalPct float64
}

type DashboardStats struct {
	TotalEntities  int
	TotalRevenue   float64
	SignedDeals    int
	ConversionRate float64
	GoalPct        float64
	Leaderboard    []ReferentStats
}

// BuildDashboard computes the global prospection stats and the
// per-referent leaderboard. Entities with no assigned referent count
// in the global figures but are left off the leaderboard. The
// leaderboard sorts by revenue descending, name ascending on ties.
func BuildDashboard(entities []models.Entity, goal float64) DashboardStats {
	stats := DashboardStats{TotalEntities: len(entities)}
	byRef := map[string]*ReferentStats{}

	for _, e := range entities {
		revenue := e.Revenue()
		stats.TotalRevenue += revenue
		signed := models.IsFinanciallyValid(e.Statuts)
		if signed {
			stats.SignedDeals++
		}
		if !e.Assigned() {
			continue
		}
		ref := byRef[e.Referent]
		if ref == nil {
			ref = &ReferentStats{Name: e.Referent}
			byRef[e.Referent] = ref
		}
		ref.Revenue += revenue
		ref.TotalCount++
		switch {
		case signed:
			ref.SignedCount++
		case e.Statuts == models.StatusRefused:
			ref.RefusedCount++
		}
	}

	if stats.TotalEntities > 0 {
		stats.ConversionRate = float64(stats.SignedDeals) / float64(stats.TotalEntities) * 100
	}
	if goal > 0 {
		stats.GoalPct = stats.TotalRevenue / goal * 100
	}

	for _, ref := range byRef {
		if goal > 0 {
			ref.GoalPct = ref.Revenue / goal * 100
		}
		stats.Leaderboard = append(stats.Leaderboard, *ref)
	}
	sort.Slice(stats.Leaderboard, func(i, j int) bool {
		a, b := stats.Leaderboard[i], stats.Leaderboard[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Name < b.Name
	})
	return stats
}
