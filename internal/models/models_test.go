package models

import (
	"encoding/json"
	"testing"
)

func TestRecordIDUnmarshalNumberAndString(t *testing.T) {
	var a, b RecordID
	if err := json.Unmarshal([]byte(`42`), &a); err != nil {
		t.Fatalf("number: %v", err)
	}
	if err := json.Unmarshal([]byte(`"42"`), &b); err != nil {
		t.Fatalf("string: %v", err)
	}
	if a != b || a != "42" {
		t.Errorf("expected both forms to normalize to \"42\", got %q / %q", a, b)
	}
}

func TestLinkRefNormalization(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare number", `42`, "42"},
		{"bare string", `"42"`, "42"},
		{"expanded object", `{"Id": 42, "title": "x"}`, "42"},
		{"array of objects", `[{"Id": "42"}]`, "42"},
		{"null", `null`, ""},
		{"empty array", `[]`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l LinkRef
			if err := json.Unmarshal([]byte(tt.in), &l); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if string(l.ID) != tt.want {
				t.Errorf("got %q want %q", l.ID, tt.want)
			}
		})
	}
}

func TestFindTrackingMatchesBothLinkForms(t *testing.T) {
	var scalar, expanded TrackingRecord
	if err := json.Unmarshal([]byte(`{"Id":1,"Link_Annonceur":"42"}`), &scalar); err != nil {
		t.Fatalf("scalar: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"Id":2,"Link_Annonceur":{"Id":42}}`), &expanded); err != nil {
		t.Fatalf("expanded: %v", err)
	}
	for _, rec := range []TrackingRecord{scalar, expanded} {
		if got := FindTracking([]TrackingRecord{rec}, "42"); got == nil {
			t.Errorf("record %s not found for entity 42", rec.ID)
		}
	}
	if got := FindTracking([]TrackingRecord{scalar}, "43"); got != nil {
		t.Errorf("expected no match for entity 43")
	}
}

func TestFlexStringAcceptsNumbersAndArrays(t *testing.T) {
	var f FlexString
	if err := json.Unmarshal([]byte(`0`), &f); err != nil {
		t.Fatalf("number: %v", err)
	}
	if f.Blank() {
		t.Errorf("literal 0 must not read as blank")
	}
	if err := json.Unmarshal([]byte(`["4e de couverture","Stand 3x3m"]`), &f); err != nil {
		t.Fatalf("array: %v", err)
	}
	if string(f) != "4e de couverture,Stand 3x3m" {
		t.Errorf("array join: got %q", f)
	}
}

func TestFlexFloatTolerantParsing(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{`150.5`, 150.5},
		{`"200"`, 200},
		{`null`, 0},
		{`"n/a"`, 0},
	}
	for _, tt := range tests {
		var f FlexFloat
		if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if float64(f) != tt.want {
			t.Errorf("%s: got %v want %v", tt.in, float64(f), tt.want)
		}
	}
}

func TestParseCategoryFoldsTombolaAlias(t *testing.T) {
	c, ok := ParseCategory("Tombola")
	if !ok || c != CategoryTombola {
		t.Fatalf("alias: got %v ok=%v", c, ok)
	}
	if c.TableID() == "" || c.LinkFieldID() == "" {
		t.Errorf("tombola must carry table and link ids")
	}
	if _, ok := ParseCategory(""); ok {
		t.Errorf("empty type must not parse")
	}
}

func TestSubventionIsNotTrackable(t *testing.T) {
	if CategorySubvention.Trackable() {
		t.Fatalf("Subvention has no tracking table")
	}
	for _, c := range TrackableCategories() {
		if c == CategorySubvention {
			t.Fatalf("Subvention must not be enumerated as trackable")
		}
		if !c.Trackable() {
			t.Errorf("%s enumerated but not trackable", c)
		}
	}
	if n := len(TrackableCategories()); n != 5 {
		t.Errorf("expected 5 trackable categories (alias folded), got %d", n)
	}
}

func TestPackHelpers(t *testing.T) {
	var rec TrackingRecord
	rec.PackChoisi = "4e de couverture,Stand 3x3m"
	if !rec.HasPack(Pack4eCouverture) || !rec.HasPack(PackStand3x3) {
		t.Fatalf("expected both packs selected")
	}
	if rec.HasPack(PackAffichageMur) {
		t.Fatalf("unexpected pack")
	}
	if got := JoinPacks(SplitPacks("")); got != "" {
		t.Errorf("empty round trip: got %q", got)
	}
}

func TestStatusPredicates(t *testing.T) {
	if !IsFinanciallyValid(StatusConfirmed) || !IsFinanciallyValid(StatusPaid) {
		t.Fatalf("confirmed/paid must count")
	}
	for _, s := range []string{StatusToContact, StatusInDiscussion, StatusRefused, StatusNoReply} {
		if IsFinanciallyValid(s) {
			t.Errorf("%s must not count toward revenue", s)
		}
	}
}
