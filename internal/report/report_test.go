package report

import (
	"strings"
	"testing"
	"time"

	"github.com/jpcloudkit/sponsormap/internal/models"
)

func entity(id, title, typ, status string, revenue float64) models.Entity {
	return models.Entity{
		ID:      models.RecordID(id),
		Title:   title,
		Type:    typ,
		Statuts: status,
		Recette: models.FlexFloat(revenue),
	}
}

func linked(id, entityID string) models.TrackingRecord {
	return models.TrackingRecord{
		ID:            models.RecordID(id),
		LinkAnnonceur: models.LinkRef{ID: models.RecordID(entityID)},
	}
}

func TestFinancialSummarySections(t *testing.T) {
	entities := []models.Entity{
		entity("1", "Banque Centrale", "Encart Pub", models.StatusPaid, 300),
		entity("2", "Garage Dupont", "Partenaires", models.StatusConfirmed, 800),
		entity("3", "Mairie", "Subvention", models.StatusPaid, 2000),
		entity("4", "Primeur", "Tombola (Lots)", models.StatusConfirmed, 50),
		entity("5", "Boucherie", "Tombola", models.StatusPaid, 0),
		entity("6", "Kiné du coin", "", models.StatusPaid, 120),
		entity("7", "Sans le sou", "", models.StatusPaid, 0),
		entity("8", "Refusé SA", "Encart Pub", models.StatusRefused, 999),
		entity("9", "En discussion", "Mécénat", models.StatusInDiscussion, 500),
	}
	encart := linked("t1", "1")
	encart.FormatPub = "1/4 page"
	partner := linked("t2", "2")
	partner.PackChoisi = models.FlexString(models.Pack4eCouverture)
	lot := linked("t3", "4")
	lot.DescriptionLot = "Panier garni"
	lot.NbLot = 3
	tracking := map[models.Category][]models.TrackingRecord{
		models.CategoryEncartPub:   {encart},
		models.CategoryPartenaires: {partner},
		models.CategoryTombola:     {lot},
	}

	s := BuildFinancialSummary(entities, tracking)

	if len(s.Main) != 2 {
		t.Fatalf("main rows = %d, want 2", len(s.Main))
	}
	// Sorted by amount descending.
	if s.Main[0].Entity.Title != "Garage Dupont" {
		t.Errorf("first main row = %s", s.Main[0].Entity.Title)
	}
	if got := s.Main[1].Details; got != "Encart Pub (1/4 page)" {
		t.Errorf("encart details = %q", got)
	}
	if got := s.Main[0].Details; got != "Partenaires ("+models.Pack4eCouverture+")" {
		t.Errorf("partner details = %q", got)
	}
	if s.MainTotal != 1100 {
		t.Errorf("main total = %v", s.MainTotal)
	}
	if s.MainByType["Partenaires"] != 800 {
		t.Errorf("partner subtotal = %v", s.MainByType["Partenaires"])
	}
	if s.SubventionTotal != 2000 {
		t.Errorf("subvention total = %v", s.SubventionTotal)
	}
	// Others requires positive revenue.
	if len(s.Others) != 1 || s.Others[0].Entity.Title != "Kiné du coin" {
		t.Errorf("others = %+v", s.Others)
	}
	// Both tombola spellings land in the lot section; lots never touch
	// the grand total.
	if len(s.Lots) != 2 {
		t.Fatalf("lots = %d, want 2", len(s.Lots))
	}
	if s.Lots[0].Description != "Panier garni" || s.Lots[0].Count != 3 {
		t.Errorf("lot row = %+v", s.Lots[0])
	}
	if s.Lots[1].Description != "N/A" || s.Lots[1].Count != 1 {
		t.Errorf("default lot row = %+v", s.Lots[1])
	}
	if s.GrandTotal != 3220 {
		t.Errorf("grand total = %v", s.GrandTotal)
	}
}

func TestFinancialSummaryExcludesRefused(t *testing.T) {
	entities := []models.Entity{
		entity("1", "Refusé SA", "Encart Pub", models.StatusRefused, 500),
		entity("2", "Muet SARL", "Subvention", models.StatusNoReply, 500),
	}
	s := BuildFinancialSummary(entities, nil)
	if s.GrandTotal != 0 || len(s.Main) != 0 || len(s.Subventions) != 0 {
		t.Errorf("refused/no-reply revenue leaked into summary: %+v", s)
	}
}

func TestDashboardLeaderboard(t *testing.T) {
	entities := []models.Entity{
		func() models.Entity {
			e := entity("1", "A", "Stand", models.StatusPaid, 600)
			e.Referent = "Claire"
			return e
		}(),
		func() models.Entity {
			e := entity("2", "B", "Stand", models.StatusRefused, 0)
			e.Referent = "Claire"
			return e
		}(),
		func() models.Entity {
			e := entity("3", "C", "Mécénat", models.StatusConfirmed, 1000)
			e.Referent = "Marc"
			return e
		}(),
		entity("4", "D", "Stand", models.StatusToContact, 50),
	}

	stats := BuildDashboard(entities, 8000)

	if stats.TotalEntities != 4 || stats.SignedDeals != 2 {
		t.Errorf("global stats = %+v", stats)
	}
	if stats.TotalRevenue != 1650 {
		t.Errorf("total revenue = %v", stats.TotalRevenue)
	}
	if stats.ConversionRate != 50 {
		t.Errorf("conversion = %v", stats.ConversionRate)
	}
	if len(stats.Leaderboard) != 2 {
		t.Fatalf("leaderboard rows = %d, want 2 (unassigned excluded)", len(stats.Leaderboard))
	}
	if stats.Leaderboard[0].Name != "Marc" {
		t.Errorf("leader = %s", stats.Leaderboard[0].Name)
	}
	claire := stats.Leaderboard[1]
	if claire.SignedCount != 1 || claire.RefusedCount != 1 || claire.TotalCount != 2 {
		t.Errorf("claire stats = %+v", claire)
	}
	if claire.GoalPct != 7.5 {
		t.Errorf("claire goal pct = %v", claire.GoalPct)
	}
}

func TestBrochureSheetFilterAndOrder(t *testing.T) {
	entities := []models.Entity{
		entity("1", "Zèbre Pub", "Encart Pub", models.StatusPaid, 100),       // ready (visual, no page)
		entity("2", "Aligre Pub", "Encart Pub", models.StatusConfirmed, 100), // missing visual
		entity("3", "Couverture SA", "Partenaires", models.StatusPaid, 900),  // validated via store page
		entity("4", "Sans pack", "Partenaires", models.StatusPaid, 100),      // excluded, no back cover
		entity("5", "Refusé Pub", "Encart Pub", models.StatusRefused, 100),   // excluded, status
	}
	visual := linked("e1", "1")
	visual.VisuelEnvoye = true
	visual.FormatPub = "Page entière"
	novisual := linked("e2", "2")
	backCover := linked("p3", "3")
	backCover.PackChoisi = models.FlexString("quatrième de couverture")
	backCover.PageBrochure = 12
	plain := linked("p4", "4")
	excluded := linked("e5", "5")

	sheet := BuildBrochureSheet(entities,
		[]models.TrackingRecord{backCover, plain},
		[]models.TrackingRecord{visual, novisual, excluded},
		nil)

	if sheet.Total != 3 {
		t.Fatalf("total = %d, want 3", sheet.Total)
	}
	got := []string{sheet.Items[0].Entity.Title, sheet.Items[1].Entity.Title, sheet.Items[2].Entity.Title}
	want := []string{"Zèbre Pub", "Aligre Pub", "Couverture SA"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if sheet.Ready != 1 || sheet.Missing != 1 || sheet.Validated != 1 {
		t.Errorf("counts = %+v", sheet)
	}
	if sheet.Items[0].Size != "1/1" {
		t.Errorf("derived size = %q", sheet.Items[0].Size)
	}
	if sheet.Items[2].Page != "12" {
		t.Errorf("store page = %q", sheet.Items[2].Page)
	}
	if sheet.Items[2].Size != "1/2" {
		t.Errorf("back cover size = %q", sheet.Items[2].Size)
	}
	if stat := sheet.BySize["1/1"]; stat.Total != 1 || stat.Validated != 0 {
		t.Errorf("1/1 stat = %+v", stat)
	}
}

func TestBrochureAlphabeticalWithinBucket(t *testing.T) {
	entities := []models.Entity{
		entity("1", "zoo pub", "Encart Pub", models.StatusPaid, 0),
		entity("2", "Bar pub", "Encart Pub", models.StatusPaid, 0),
	}
	a := linked("e1", "1")
	a.VisuelEnvoye = true
	b := linked("e2", "2")
	b.VisuelEnvoye = true

	sheet := BuildBrochureSheet(entities, nil, []models.TrackingRecord{a, b}, nil)
	if sheet.Items[0].Entity.Title != "Bar pub" {
		t.Errorf("order = %s, %s", sheet.Items[0].Entity.Title, sheet.Items[1].Entity.Title)
	}
}

func TestBrochureFilenameAndSnippet(t *testing.T) {
	e := entity("1", "Café de l'Église 2024", "Encart Pub", models.StatusPaid, 0)
	rec := linked("e1", "1")
	rec.FormatPub = "1/4"
	sheet := BuildBrochureSheet([]models.Entity{e}, nil, []models.TrackingRecord{rec}, nil)
	item := sheet.Items[0]

	if got := item.Filename(nil); got != "caf-de-lglise-2024" {
		t.Errorf("slug = %q", got)
	}
	prefs := map[string]PlacementPrefs{"1": {CustomFilename: "cafe-eglise", Extension: ".png"}}
	sheet = BuildBrochureSheet([]models.Entity{e}, nil, []models.TrackingRecord{rec}, prefs)
	item = sheet.Items[0]
	if got := item.Filename(prefs); got != "cafe-eglise" {
		t.Errorf("custom filename = %q", got)
	}
	snippet := item.HTMLSnippet(prefs)
	if !strings.Contains(snippet, `src="pub/0.25/cafe-eglise.png"`) {
		t.Errorf("snippet = %s", snippet)
	}
	if !strings.Contains(snippet, "ad-row-1-4") {
		t.Errorf("snippet wrapper = %s", snippet)
	}
}

func TestParseLogContinuationAndOrder(t *testing.T) {
	e := entity("1", "Boulangerie", "Stand", models.StatusPaid, 0)
	e.Comments = "[01/03/2026 10:00] Premier contact\nsuite de la note\n\n[15/04/2026 09:30] Relance téléphonique"

	entries := ParseLog(e)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Text != "Premier contact\nsuite de la note" {
		t.Errorf("continuation text = %q", entries[0].Text)
	}

	history := BuildHistory([]models.Entity{e})
	if history[0].RawStamp != "15/04/2026 09:30" {
		t.Errorf("newest first, got %s", history[0].RawStamp)
	}
	if history[0].EntityTitle != "Boulangerie" {
		t.Errorf("entity title = %q", history[0].EntityTitle)
	}
}

func TestParseLogBadTimestampSortsLast(t *testing.T) {
	e := entity("1", "X", "Stand", models.StatusPaid, 0)
	e.Comments = "[pas une date] note orpheline\n[01/01/2026 08:00] vraie note"
	history := BuildHistory([]models.Entity{e})
	if len(history) != 2 {
		t.Fatalf("entries = %d", len(history))
	}
	if history[0].RawStamp != "01/01/2026 08:00" {
		t.Errorf("order = %v", history)
	}
	if !history[1].Timestamp.IsZero() {
		t.Errorf("bad stamp should parse to zero time")
	}
}

func TestParseLogEmptyComments(t *testing.T) {
	e := entity("1", "X", "Stand", models.StatusPaid, 0)
	if got := ParseLog(e); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestAppendLogEntryRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	comments := AppendLogEntry("", at, "Premier contact")
	if comments != "[14/03/2026 09:30] Premier contact" {
		t.Fatalf("first entry = %q", comments)
	}
	comments = AppendLogEntry(comments, at.Add(48*time.Hour), "  Relance  ")

	e := entity("1", "Fromagerie", "Stand", models.StatusPaid, 0)
	e.Comments = comments
	entries := ParseLog(e)
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].Text != "Relance" || entries[1].Text != "Premier contact" {
		t.Errorf("texts = %q / %q", entries[0].Text, entries[1].Text)
	}
	if !entries[0].Timestamp.After(entries[1].Timestamp) {
		t.Error("stamps did not round-trip")
	}
}
