// Package report holds the pure aggregation functions behind the
// financial summary, the dashboard leaderboard, the brochure placement
// sheet and the prospection history. None of them touch the network;
// they fold over entity and tracking slices already fetched.
package report

import (
	"sort"

	"github.com/jpcloudkit/sponsormap/internal/models"
)

// mainTypes are the core sponsorship categories of the first summary
// section. Subvention and Tombola get sections of their own.
var mainTypes = map[string]bool{
	string(models.CategoryEncartPub):   true,
	string(models.CategoryPartenaires): true,
	string(models.CategoryMecenat):     true,
	string(models.CategoryStand):       true,
}

// FinancialItem is one row of a monetary section.
type FinancialItem struct {
	Entity  models.Entity
	Details string
	Amount  float64
}

// LotItem is one row of the tombola section. Lots count toward the
// raffle, not toward revenue totals.
type LotItem struct {
	Entity      models.Entity
	Description string
	Count       int
	Value       float64
}

type FinancialSummary struct {
	Main       []FinancialItem
	MainByType map[string]float64
	MainTotal  float64

	Subventions     []FinancialItem
	SubventionTotal float64

	// Others collects entities outside every named section that still
	// carry revenue; zero-revenue strays stay invisible.
	Others      []FinancialItem
	OthersTotal float64

	Lots []LotItem

	// GrandTotal excludes the tombola section.
	GrandTotal float64
}

// BuildFinancialSummary folds the entity list into the three monetary
// sections plus the lot inventory. Only entities in a valid financial
// status are counted. Tracking records decorate rows with the ad format
// or chosen pack.
func BuildFinancialSummary(entities []models.Entity, tracking map[models.Category][]models.TrackingRecord) FinancialSummary {
	s := FinancialSummary{MainByType: map[string]float64{}}
	encarts := models.TrackingIndex(tracking[models.CategoryEncartPub])
	partners := models.TrackingIndex(tracking[models.CategoryPartenaires])
	lots := models.TrackingIndex(tracking[models.CategoryTombola])

	for _, e := range entities {
		if !models.IsFinanciallyValid(e.Statuts) {
			continue
		}
		cat, _ := models.ParseCategory(e.Type)
		amount := e.Revenue()
		switch {
		case mainTypes[e.Type]:
			details := e.Type
			if cat == models.CategoryEncartPub {
				if t := encarts[e.ID.String()]; t != nil && t.FormatPub != "" {
					details += " (" + t.FormatPub + ")"
				}
			}
			if cat == models.CategoryPartenaires {
				if t := partners[e.ID.String()]; t != nil && !t.PackChoisi.Blank() {
					details += " (" + t.PackChoisi.String() + ")"
				}
			}
			s.Main = append(s.Main, FinancialItem{Entity: e, Details: details, Amount: amount})
			s.MainByType[e.Type] += amount
			s.MainTotal += amount
		case cat == models.CategorySubvention:
			s.Subventions = append(s.Subventions, FinancialItem{Entity: e, Details: e.Type, Amount: amount})
			s.SubventionTotal += amount
		case cat == models.CategoryTombola:
			item := LotItem{Entity: e, Description: "N/A", Count: 1, Value: amount}
			if t := lots[e.ID.String()]; t != nil {
				if t.DescriptionLot != "" {
					item.Description = t.DescriptionLot
				}
				if int(t.NbLot) > 0 {
					item.Count = int(t.NbLot)
				}
			}
			s.Lots = append(s.Lots, item)
		default:
			if amount > 0 {
				s.Others = append(s.Others, FinancialItem{Entity: e, Details: e.Type, Amount: amount})
				s.OthersTotal += amount
			}
		}
	}

	sortByAmountDesc(s.Main)
	sortByAmountDesc(s.Subventions)
	sortByAmountDesc(s.Others)
	s.GrandTotal = s.MainTotal + s.SubventionTotal + s.OthersTotal
	return s
}

func sortByAmountDesc(items []FinancialItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Amount > items[j].Amount
	})
}
