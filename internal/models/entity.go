package models

// Pipeline statuses of an entity.
const (
	StatusToContact    = "À contacter"
	StatusInDiscussion = "En discussion"
	StatusConfirmed    = "Confirmé (en attente de paiement)"
	StatusPaid         = "Paiement effectué"
	StatusRefused      = "Refusé"
	StatusNoReply      = "Sans réponse"
)

// Statuses enumerates every pipeline status in display order.
var Statuses = []string{
	StatusToContact,
	StatusInDiscussion,
	StatusConfirmed,
	StatusPaid,
	StatusRefused,
	StatusNoReply,
}

// IsFinanciallyValid reports whether revenue attached to an entity in
// this status counts toward totals.
func IsFinanciallyValid(status string) bool {
	return status == StatusConfirmed || status == StatusPaid
}

// Entity is a prospect/venue row of the main table.
type Entity struct {
	ID          RecordID `json:"Id"`
	Title       string   `json:"title"`
	Address     string   `json:"address"`
	PhoneNumber string   `json:"phoneNumber"`
	Website     string   `json:"website"`
	Place       string   `json:"Place"`
	GPS         string   `json:"gps"`
	Latitude    *float64 `json:"Latitude,omitempty"`
	Longitude   *float64 `json:"Longitude,omitempty"`

	Statuts  string    `json:"Statuts"`
	Type     string    `json:"Type"`
	Referent string    `json:"Référent_partenariat_club"`
	Recette  FlexFloat `json:"Recette"`

	// Append-only timestamped prospection log.
	Comments string `json:"Comments"`

	// Outreach details shown on the entity sheet.
	Objet         string `json:"Objet,omitempty"`
	Message       string `json:"Message,omitempty"`
	DateEnvoiMail string `json:"dateEnvoiMail,omitempty"`

	// Invoicing identity.
	Siret     string `json:"Siret"`
	Juridique string `json:"juridique"`
}

// Category resolves the entity's Type, folding aliases.
func (e Entity) Category() (Category, bool) {
	return ParseCategory(e.Type)
}

// Revenue returns the numeric revenue, zero when unset.
func (e Entity) Revenue() float64 { return float64(e.Recette) }

// Assigned reports whether a referent is set.
func (e Entity) Assigned() bool { return e.Referent != "" }
