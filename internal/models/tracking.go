package models

import "strings"

// Partenaires pack option tags, as stored in Pack_Choisi.
const (
	Pack4eCouverture = "4e de couverture"
	PackAffichageMur = "Affichage Mur"
	PackLogoBackdrop = "Logo Backdrop"
	PackLogoAffiche  = "Logo Affiche"
	PackStand3x3     = "Stand 3x3m"
)

// TrackingRecord is a category-specific child record holding the
// onboarding checklist of one entity. The struct is the union of every
// tracking table's columns; absent columns simply unmarshal to zero
// values.
type TrackingRecord struct {
	ID            RecordID `json:"Id"`
	Titre         string   `json:"Titre"`
	LinkAnnonceur LinkRef  `json:"Link_Annonceur"`

	// Common to all categories
	EmailContact string `json:"Email_Contact"`
	TypePaiement string `json:"Type_Paiement"`
	TypePreuve   string `json:"Type_Preuve"`
	DatePaiement string `json:"Date_Paiement"`
	Commentaires string `json:"Commentaires"`

	// Encart Pub
	FormatPub               string  `json:"Format_Pub"`
	VisuelEnvoye            bool    `json:"Visuel_Envoye"`
	PageBrochure            FlexInt `json:"Page_Brochure"`
	PreuvePaiementTransmise bool    `json:"Preuve_Paiement_Transmise"`

	// Partenaires
	PackChoisi   FlexString `json:"Pack_Choisi"`
	LogoRecu     bool       `json:"Logo_Recu"`
	EncartPub    bool       `json:"Encart_Pub"`
	PancarteRecu bool       `json:"Pancarte_Recu"`
	StandInscrit bool       `json:"Stand_Inscrit"`
	Stand        LinkRef    `json:"Stand"`

	// Tombola
	DescriptionLot string  `json:"Description_Lot"`
	NbLot          FlexInt `json:"Nb_Lot"`
	LotRecupere    bool    `json:"Lot_Recupere"`

	// Mécénat
	CerfaEnvoye bool `json:"Cerfa_Envoye"`

	// Stand
	NombreTables      *FlexString `json:"Nombre_Tables"`
	NombreChaises     *FlexString `json:"Nombre_Chaises"`
	BesoinElectricite string      `json:"Besoin_Electricite"`
	NbJour            FlexInt     `json:"nb_jour"`
}

// Packs splits Pack_Choisi into its selected option tags.
func (t TrackingRecord) Packs() []string {
	return SplitPacks(string(t.PackChoisi))
}

// HasPack reports whether the given option tag is selected.
func (t TrackingRecord) HasPack(tag string) bool {
	for _, p := range t.Packs() {
		if p == tag {
			return true
		}
	}
	return false
}

// SplitPacks splits a comma-encoded pack set, dropping empty segments.
func SplitPacks(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinPacks is the inverse of SplitPacks.
func JoinPacks(tags []string) string { return strings.Join(tags, ",") }

// FindTracking returns the tracking record linked to the given entity,
// or nil. Link values are compared in their normalized string form, so
// a bare id and an expanded {Id} object find the same record.
func FindTracking(records []TrackingRecord, entityID string) *TrackingRecord {
	for i := range records {
		if records[i].LinkAnnonceur.Is(entityID) {
			return &records[i]
		}
	}
	return nil
}

// FilterTracking returns every record linked to the given entity.
func FilterTracking(records []TrackingRecord, entityID string) []TrackingRecord {
	var out []TrackingRecord
	for _, r := range records {
		if r.LinkAnnonceur.Is(entityID) {
			out = append(out, r)
		}
	}
	return out
}

// TrackingIndex builds an entity-id -> record lookup for one category's
// records, mirroring the inverse maps the brochure sheet is built from.
func TrackingIndex(records []TrackingRecord) map[string]*TrackingRecord {
	idx := make(map[string]*TrackingRecord, len(records))
	for i := range records {
		if id := records[i].LinkAnnonceur.ID; id != "" {
			idx[string(id)] = &records[i]
		}
	}
	return idx
}
