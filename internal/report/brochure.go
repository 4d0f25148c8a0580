package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jpcloudkit/sponsormap/internal/models"
)

// BrochureStatus orders the placement sheet: slots awaiting validation
// first, missing visuals second, validated pages last.
type BrochureStatus int

const (
	BrochureReady BrochureStatus = iota
	BrochureMissingVisual
	BrochureValidated
)

func (s BrochureStatus) String() string {
	switch s {
	case BrochureReady:
		return "ready"
	case BrochureMissingVisual:
		return "missing_visual"
	case BrochureValidated:
		return "validated"
	}
	return "unknown"
}

// PlacementPrefs is the operator's local layout choices for one ad
// slot, persisted outside the record store.
type PlacementPrefs struct {
	Page           string
	CustomFilename string
	Size           string
	Position       string
	Extension      string
}

// BrochureItem is one resolved ad slot of the sheet.
type BrochureItem struct {
	Entity           models.Entity
	TrackingID       string
	TrackingCategory models.Category
	HasVisual        bool
	// Page is empty until the slot is validated. Store pages win over
	// local ones.
	Page      string
	Size      string
	Position  string
	Extension string
	Status    BrochureStatus
}

type SizeStat struct {
	Total     int
	Validated int
}

type BrochureSheet struct {
	Items     []BrochureItem
	Total     int
	Validated int
	Ready     int
	Missing   int
	BySize    map[string]SizeStat
}

// BuildBrochureSheet resolves which entities occupy a brochure slot:
// paying advertisers with an Encart Pub record, plus partners whose
// pack includes the back cover. Layout preferences fill the gaps the
// store does not model.
func BuildBrochureSheet(entities []models.Entity, partenaires, encarts []models.TrackingRecord, prefs map[string]PlacementPrefs) BrochureSheet {
	sheet := BrochureSheet{BySize: map[string]SizeStat{}}
	encartIdx := models.TrackingIndex(encarts)
	partnerIdx := models.TrackingIndex(partenaires)

	for _, e := range entities {
		if !models.IsFinanciallyValid(e.Statuts) {
			continue
		}
		id := e.ID.String()
		encart := encartIdx[id]
		partner := partnerIdx[id]
		if encart == nil && !hasBackCoverPack(partner) {
			continue
		}

		item := BrochureItem{Entity: e}
		pref := prefs[id]
		derivedSize := ""
		storePage := 0

		if encart != nil {
			item.HasVisual = encart.VisuelEnvoye
			derivedSize = sizeFromFormat(encart.FormatPub)
			storePage = int(encart.PageBrochure)
			item.TrackingID = encart.ID.String()
			item.TrackingCategory = models.CategoryEncartPub
		}
		if partner != nil && hasBackCoverPack(partner) {
			if partner.LogoRecu {
				item.HasVisual = true
			}
			derivedSize = "1/2"
			if int(partner.PageBrochure) > 0 {
				storePage = int(partner.PageBrochure)
			}
			item.TrackingID = partner.ID.String()
			item.TrackingCategory = models.CategoryPartenaires
		}

		item.Page = pref.Page
		if storePage > 0 {
			item.Page = fmt.Sprint(storePage)
		}
		item.Size = pref.Size
		if derivedSize != "" {
			item.Size = derivedSize
		}
		if item.Size == "" {
			item.Size = "1/4"
		}
		item.Position = pref.Position
		if item.Position == "" {
			item.Position = "left"
		}
		item.Extension = pref.Extension
		if item.Extension == "" {
			item.Extension = ".jpg"
		}

		switch {
		case strings.TrimSpace(item.Page) != "":
			item.Status = BrochureValidated
		case item.HasVisual:
			item.Status = BrochureReady
		default:
			item.Status = BrochureMissingVisual
		}
		sheet.Items = append(sheet.Items, item)
	}

	sort.SliceStable(sheet.Items, func(i, j int) bool {
		a, b := sheet.Items[i], sheet.Items[j]
		if a.Status != b.Status {
			return a.Status < b.Status
		}
		return strings.ToLower(a.Entity.Title) < strings.ToLower(b.Entity.Title)
	})

	sheet.Total = len(sheet.Items)
	for _, item := range sheet.Items {
		switch item.Status {
		case BrochureValidated:
			sheet.Validated++
		case BrochureReady:
			sheet.Ready++
		case BrochureMissingVisual:
			sheet.Missing++
		}
		stat := sheet.BySize[item.Size]
		stat.Total++
		if item.Status == BrochureValidated {
			stat.Validated++
		}
		sheet.BySize[item.Size] = stat
	}
	return sheet
}

func hasBackCoverPack(partner *models.TrackingRecord) bool {
	if partner == nil {
		return false
	}
	packs := strings.ToLower(partner.PackChoisi.String())
	return strings.Contains(packs, strings.ToLower(models.Pack4eCouverture)) ||
		strings.Contains(packs, "quatrième de couverture")
}

// sizeFromFormat maps the free-form Format_Pub column to a canonical
// fraction, empty when unrecognized.
func sizeFromFormat(format string) string {
	f := strings.ToLower(format)
	switch {
	case strings.Contains(f, "1/8"):
		return "1/8"
	case strings.Contains(f, "1/4"):
		return "1/4"
	case strings.Contains(f, "1/2"):
		return "1/2"
	case strings.Contains(f, "page"), strings.Contains(f, "entier"), strings.Contains(f, "full"):
		return "1/1"
	}
	return ""
}

// Filename returns the image basename for the slot: the custom name
// when set, otherwise the entity title slugged down to ascii.
func (b BrochureItem) Filename(prefs map[string]PlacementPrefs) string {
	if custom := prefs[b.Entity.ID.String()].CustomFilename; custom != "" {
		return custom
	}
	return Slugify(b.Entity.Title)
}

// Slugify lowercases, turns whitespace runs into single dashes and
// strips everything outside [a-z0-9-]. Accented characters are dropped
// rather than transliterated.
func Slugify(title string) string {
	if title == "" {
		title = "sans-titre"
	}
	lower := strings.ToLower(title)
	var sb strings.Builder
	lastDash := false
	for _, r := range lower {
		switch {
		case r == ' ' || r == '\t' || r == '\n':
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
			sb.WriteRune(r)
			lastDash = r == '-'
		}
	}
	return sb.String()
}

var snippetDirs = map[string]string{
	"1/1": "1",
	"1/2": "0.5",
	"1/4": "0.25",
	"1/8": "0.125",
}

// HTMLSnippet renders the copy-paste block the brochure layout file
// expects for this slot.
func (b BrochureItem) HTMLSnippet(prefs map[string]PlacementPrefs) string {
	filename := b.Filename(prefs)
	title := b.Entity.Title
	if title == "" {
		title = "Publicité"
	}
	src := "pub/" + snippetDirs[b.Size] + "/" + filename + b.Extension

	switch b.Size {
	case "1/1":
		return "<div class=\"ad-page\">\n" +
			"  <img src=\"" + src + "\" alt=\"" + title + "\" style=\"width:100%; height:100%; object-fit:cover;\" />\n" +
			"</div>"
	case "1/8":
		if b.Position == "left" {
			return "<div class=\"ad-row-1-4\">\n" +
				"  <div class=\"ad-slot w-half\"><img src=\"" + src + "\" alt=\"" + title + "\" /></div>\n" +
				"  <!-- <div class=\"ad-slot w-half\">...</div> -->\n" +
				"</div>"
		}
		return "<div class=\"ad-row-1-4\">\n" +
			"  <!-- <div class=\"ad-slot w-half\">...</div> -->\n" +
			"  <div class=\"ad-slot w-half\"><img src=\"" + src + "\" alt=\"" + title + "\" /></div>\n" +
			"</div>"
	case "1/4":
		return "<div class=\"ad-row-1-4\">\n" +
			"  <div class=\"ad-slot w-full\"><img src=\"" + src + "\" alt=\"" + title + "\" /></div>\n" +
			"</div>"
	case "1/2":
		return "<div class=\"ad-row-1-2\">\n" +
			"  <div class=\"ad-slot w-full\"><img src=\"" + src + "\" alt=\"" + title + "\" /></div>\n" +
			"</div>"
	}
	return "<!-- Format inconnu -->"
}
