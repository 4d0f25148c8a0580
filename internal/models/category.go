package models

// Category is the sponsorship product an entity is pursuing. Each
// trackable category carries the id of its tracking table and of the
// link field that ties tracking records back to the main table.
type Category string

const (
	CategoryEncartPub   Category = "Encart Pub"
	CategoryTombola     Category = "Tombola (Lots)"
	CategoryPartenaires Category = "Partenaires"
	CategoryMecenat     Category = "Mécénat"
	CategoryStand       Category = "Stand"
	// Subvention has no tracking table and no link field; it exists
	// only as an entity Type and a financial-summary section.
	CategorySubvention Category = "Subvention"
)

// tombolaAlias is the legacy short form still present on some entities.
const tombolaAlias = "Tombola"

type categoryTable struct {
	tableID     string
	linkFieldID string
}

var categoryTables = map[Category]categoryTable{
	CategoryEncartPub:   {tableID: "m5bbut4uy8toxt5", linkFieldID: "cyl94cin0jr44gs"},
	CategoryTombola:     {tableID: "mm0pgifcf72rnoj", linkFieldID: "cng8iswsgb2q60o"},
	CategoryPartenaires: {tableID: "megvc314571rznb", linkFieldID: "calv2cwh9dp92bi"},
	CategoryMecenat:     {tableID: "m80f7gykd2ubrfk", linkFieldID: "cfjurax08wyyvyr"},
	CategoryStand:       {tableID: "midotel4vypc65e", linkFieldID: "csvaotykbbr6jed"},
}

// trackableOrder fixes iteration order for synchronization and reports.
var trackableOrder = []Category{
	CategoryEncartPub,
	CategoryTombola,
	CategoryPartenaires,
	CategoryMecenat,
	CategoryStand,
}

// ParseCategory resolves a raw Type value to its category, folding the
// legacy "Tombola" alias onto the lots table. ok is false for empty or
// unknown values.
func ParseCategory(raw string) (Category, bool) {
	switch raw {
	case string(CategoryEncartPub), string(CategoryTombola), string(CategoryPartenaires),
		string(CategoryMecenat), string(CategoryStand), string(CategorySubvention):
		return Category(raw), true
	case tombolaAlias:
		return CategoryTombola, true
	}
	return "", false
}

// TrackableCategories lists the categories that own a tracking table,
// one entry per underlying table (the alias is already folded).
func TrackableCategories() []Category {
	out := make([]Category, len(trackableOrder))
	copy(out, trackableOrder)
	return out
}

// Trackable reports whether the category owns a tracking table.
func (c Category) Trackable() bool {
	_, ok := categoryTables[c]
	return ok
}

// TableID returns the tracking-table id, empty for untracked categories.
func (c Category) TableID() string { return categoryTables[c].tableID }

// LinkFieldID returns the main-table link field id tying tracking
// records of this category to entities.
func (c Category) LinkFieldID() string { return categoryTables[c].linkFieldID }

func (c Category) String() string { return string(c) }
