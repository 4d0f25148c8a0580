package progress

import (
	"sort"

	"github.com/jpcloudkit/sponsormap/internal/models"
)

// Filter modes of the progress board.
const (
	FilterAll  = "all"
	FilterTodo = "todo"
	FilterDone = "done"
)

// BoardItem pairs an entity with its checklist evaluation.
type BoardItem struct {
	Entity   models.Entity
	Tracking *models.TrackingRecord
	Complete bool
	Missing  []string
}

type BoardStats struct {
	Total int
	Todo  int
	Done  int
	// RevenuePromise sums the revenue of the listed entities. Partners
	// surfacing under the Stand view are skipped so their revenue is
	// not counted twice.
	RevenuePromise float64
}

type Board struct {
	Items []BoardItem
	Stats BoardStats
}

// Relevant reports whether the entity belongs on the board of the
// given category view. Signed statuses qualify; Tombola tracks
// everything not dead; recorded revenue always qualifies. The Stand
// view additionally pulls in partners owning a linked Stand record.
func Relevant(e models.Entity, view models.Category, standIdx map[string]*models.TrackingRecord) bool {
	active := models.IsFinanciallyValid(e.Statuts)
	if view == models.CategoryTombola {
		active = e.Statuts != models.StatusRefused && e.Statuts != models.StatusNoReply
	}
	if e.Revenue() > 0 {
		active = true
	}
	if !active {
		return false
	}
	cat, _ := e.Category()
	if view == models.CategoryStand {
		if cat == models.CategoryStand {
			return true
		}
		return standIdx[e.ID.String()] != nil
	}
	return cat == view
}

// BuildBoard assembles the progress board for one category view.
// filter is one of FilterAll/FilterTodo/FilterDone; FilterAll lists
// incomplete entities first, preserving entity order otherwise. Stats
// always cover the unfiltered board.
func BuildBoard(entities []models.Entity, records []models.TrackingRecord, view models.Category, filter string) Board {
	idx := models.TrackingIndex(records)

	var all []BoardItem
	var stats BoardStats
	for _, e := range entities {
		if !Relevant(e, view, idx) {
			continue
		}
		tracking := idx[e.ID.String()]
		missing := MissingActions(e, tracking, view)
		item := BoardItem{
			Entity:   e,
			Tracking: tracking,
			Complete: len(missing) == 0,
			Missing:  missing,
		}
		all = append(all, item)
		stats.Total++
		if item.Complete {
			stats.Done++
		} else {
			stats.Todo++
		}
		if view == models.CategoryStand && e.Type != string(models.CategoryStand) {
			continue
		}
		stats.RevenuePromise += e.Revenue()
	}

	items := all
	switch filter {
	case FilterTodo:
		items = nil
		for _, it := range all {
			if !it.Complete {
				items = append(items, it)
			}
		}
	case FilterDone:
		items = nil
		for _, it := range all {
			if it.Complete {
				items = append(items, it)
			}
		}
	default:
		items = make([]BoardItem, len(all))
		copy(items, all)
		sort.SliceStable(items, func(i, j int) bool {
			return !items[i].Complete && items[j].Complete
		})
	}
	return Board{Items: items, Stats: stats}
}
