package progress

import (
	"testing"

	"github.com/jpcloudkit/sponsormap/internal/models"
)

func boardEntity(id, title, typ, status string, revenue float64) models.Entity {
	return models.Entity{
		ID:      models.RecordID(id),
		Title:   title,
		Type:    typ,
		Statuts: status,
		Recette: models.FlexFloat(revenue),
	}
}

func TestRelevantStatuses(t *testing.T) {
	cases := []struct {
		name   string
		entity models.Entity
		view   models.Category
		want   bool
	}{
		{"signed encart", boardEntity("1", "A", "Encart Pub", models.StatusConfirmed, 0), models.CategoryEncartPub, true},
		{"paid encart", boardEntity("1", "A", "Encart Pub", models.StatusPaid, 0), models.CategoryEncartPub, true},
		{"prospect encart", boardEntity("1", "A", "Encart Pub", models.StatusToContact, 0), models.CategoryEncartPub, false},
		{"prospect with revenue", boardEntity("1", "A", "Encart Pub", models.StatusToContact, 85), models.CategoryEncartPub, true},
		{"wrong type", boardEntity("1", "A", "Stand", models.StatusPaid, 0), models.CategoryEncartPub, false},
		{"tombola in discussion", boardEntity("1", "A", "Tombola (Lots)", models.StatusInDiscussion, 0), models.CategoryTombola, true},
		{"tombola alias to contact", boardEntity("1", "A", "Tombola", models.StatusToContact, 0), models.CategoryTombola, true},
		{"tombola refused", boardEntity("1", "A", "Tombola (Lots)", models.StatusRefused, 0), models.CategoryTombola, false},
		{"tombola no reply", boardEntity("1", "A", "Tombola (Lots)", models.StatusNoReply, 0), models.CategoryTombola, false},
	}
	for _, tc := range cases {
		if got := Relevant(tc.entity, tc.view, nil); got != tc.want {
			t.Errorf("%s: relevant = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRelevantStandViewIncludesLinkedPartners(t *testing.T) {
	partner := boardEntity("7", "Partner", "Partenaires", models.StatusPaid, 500)
	standRec := models.TrackingRecord{ID: "300", LinkAnnonceur: models.LinkRef{ID: "7"}}
	idx := models.TrackingIndex([]models.TrackingRecord{standRec})

	if !Relevant(partner, models.CategoryStand, idx) {
		t.Error("partner with linked stand record should appear in Stand view")
	}
	if Relevant(partner, models.CategoryStand, nil) {
		t.Error("partner without linked stand record should not appear")
	}
}

func TestBuildBoardStatsAndRevenue(t *testing.T) {
	entities := []models.Entity{
		boardEntity("1", "Direct Stand", "Stand", models.StatusPaid, 200),
		boardEntity("2", "Partner", "Partenaires", models.StatusPaid, 500),
	}
	records := []models.TrackingRecord{
		{ID: "10", LinkAnnonceur: models.LinkRef{ID: "1"}, TypePaiement: "Virement"},
		{ID: "11", LinkAnnonceur: models.LinkRef{ID: "2"},
			NombreTables: flex("1"), NombreChaises: flex("2"), BesoinElectricite: "Non"},
	}

	board := BuildBoard(entities, records, models.CategoryStand, FilterAll)

	if board.Stats.Total != 2 || board.Stats.Done != 2 || board.Stats.Todo != 0 {
		t.Errorf("stats = %+v", board.Stats)
	}
	// Partner revenue is excluded from the Stand view promise.
	if board.Stats.RevenuePromise != 200 {
		t.Errorf("revenue promise = %v", board.Stats.RevenuePromise)
	}
}

func TestBuildBoardFilterAndOrder(t *testing.T) {
	entities := []models.Entity{
		boardEntity("1", "Done first in input", "Mécénat", models.StatusPaid, 0),
		boardEntity("2", "Todo", "Mécénat", models.StatusPaid, 0),
	}
	records := []models.TrackingRecord{
		{ID: "10", LinkAnnonceur: models.LinkRef{ID: "1"}, CerfaEnvoye: true},
	}

	all := BuildBoard(entities, records, models.CategoryMecenat, FilterAll)
	if len(all.Items) != 2 || all.Items[0].Entity.ID != "2" {
		t.Errorf("incomplete items must sort first: %+v", all.Items)
	}

	todo := BuildBoard(entities, records, models.CategoryMecenat, FilterTodo)
	if len(todo.Items) != 1 || todo.Items[0].Entity.ID != "2" {
		t.Errorf("todo filter = %+v", todo.Items)
	}
	if todo.Stats.Total != 2 {
		t.Errorf("stats must cover the unfiltered board, got %+v", todo.Stats)
	}

	done := BuildBoard(entities, records, models.CategoryMecenat, FilterDone)
	if len(done.Items) != 1 || done.Items[0].Entity.ID != "1" {
		t.Errorf("done filter = %+v", done.Items)
	}
}

func TestBuildBoardMissingTrackingIsTodo(t *testing.T) {
	entities := []models.Entity{boardEntity("1", "A", "Encart Pub", models.StatusConfirmed, 0)}
	board := BuildBoard(entities, nil, models.CategoryEncartPub, FilterAll)
	if len(board.Items) != 1 {
		t.Fatalf("items = %d", len(board.Items))
	}
	if board.Items[0].Complete || board.Items[0].Tracking != nil {
		t.Errorf("entity without tracking must be incomplete: %+v", board.Items[0])
	}
}
