// Package progress derives the onboarding checklist of an entity from
// its tracking record: whether it is complete, and which actions are
// still missing.
package progress

import (
	"github.com/jpcloudkit/sponsormap/internal/models"
)

// Missing-action labels. The i18n package translates them for display;
// tests and API payloads carry these canonical forms.
const (
	LabelPaymentMissing      = "Payment missing"
	LabelPaymentProofMissing = "Payment/Proof missing"
	LabelVisualMissing       = "Visual missing"
	LabelProofMissing        = "Proof missing"
	LabelLotToRetrieve       = "Lot to retrieve"
	LabelLogoMissing         = "Logo missing"
	LabelEncartPubMissing    = "Encart Pub missing"
	LabelPancarteMissing     = "Pancarte missing"
	LabelStandNotRegistered  = "Stand not registered"
	LabelCerfaMissing        = "Cerfa missing"
	LabelTablesMissing       = "Tables missing"
	LabelChairsMissing       = "Chairs missing"
	LabelElecUnanswered      = "Electricity unanswered"
)

// rule builds the ordered missing-action list for one category. A nil
// tracking record reads as all-falsy, so every rule must accept the
// zero record.
type rule func(rec models.TrackingRecord) []string

// rules dispatches per category. Stand-via-Partenaires is not a
// category of its own and is resolved in MissingActions.
var rules = map[models.Category]rule{
	models.CategoryEncartPub:   encartPubRule,
	models.CategoryTombola:     tombolaRule,
	models.CategoryPartenaires: partenairesRule,
	models.CategoryMecenat:     mecenatRule,
	models.CategoryStand:       paymentOnlyRule,
}

// MissingActions returns the ordered missing-action labels for an
// entity inspected under the given category view. The view matters for
// one sub-case: a Partenaires entity surfacing under the Stand view
// through its linked Stand record is checked on the stand logistics
// fields, never on payment.
func MissingActions(entity models.Entity, tracking *models.TrackingRecord, view models.Category) []string {
	var rec models.TrackingRecord
	if tracking != nil {
		rec = *tracking
	}
	if view == models.CategoryStand && entity.Type != string(models.CategoryStand) {
		return partnerStandRule(rec)
	}
	r, ok := rules[view]
	if !ok {
		r = paymentOnlyRule
	}
	return r(rec)
}

// IsComplete reports whether the checklist is fully satisfied. It is
// defined as MissingActions being empty, which keeps the two views of
// completion consistent by construction.
func IsComplete(entity models.Entity, tracking *models.TrackingRecord, view models.Category) bool {
	return len(MissingActions(entity, tracking, view)) == 0
}

// moneyOK is the shared payment condition: a payment type is recorded
// or a proof of payment was transmitted.
func moneyOK(rec models.TrackingRecord) bool {
	return rec.TypePaiement != "" || rec.PreuvePaiementTransmise
}

func encartPubRule(rec models.TrackingRecord) []string {
	var actions []string
	if !moneyOK(rec) {
		actions = append(actions, LabelPaymentMissing)
	}
	if !rec.VisuelEnvoye {
		actions = append(actions, LabelVisualMissing)
	}
	if !rec.PreuvePaiementTransmise {
		actions = append(actions, LabelProofMissing)
	}
	return actions
}

func tombolaRule(rec models.TrackingRecord) []string {
	var actions []string
	if !rec.LotRecupere {
		actions = append(actions, LabelLotToRetrieve)
	}
	if !rec.LogoRecu {
		actions = append(actions, LabelLogoMissing)
	}
	return actions
}

func partenairesRule(rec models.TrackingRecord) []string {
	var actions []string
	ok := moneyOK(rec)
	if !ok {
		actions = append(actions, LabelPaymentMissing)
	}
	if rec.HasPack(models.Pack4eCouverture) && !rec.EncartPub {
		actions = append(actions, LabelEncartPubMissing)
	}
	if rec.HasPack(models.PackAffichageMur) && !rec.PancarteRecu {
		actions = append(actions, LabelPancarteMissing)
	}
	if (rec.HasPack(models.PackLogoBackdrop) || rec.HasPack(models.PackLogoAffiche)) && !rec.LogoRecu {
		actions = append(actions, LabelLogoMissing)
	}
	if rec.HasPack(models.PackStand3x3) && !rec.StandInscrit {
		actions = append(actions, LabelStandNotRegistered)
	}
	if !ok {
		actions = append(actions, LabelPaymentProofMissing)
	}
	return actions
}

func mecenatRule(rec models.TrackingRecord) []string {
	var actions []string
	if !(moneyOK(rec) || rec.CerfaEnvoye) {
		actions = append(actions, LabelPaymentMissing)
	}
	if !rec.CerfaEnvoye {
		actions = append(actions, LabelCerfaMissing)
	}
	return actions
}

func paymentOnlyRule(rec models.TrackingRecord) []string {
	if moneyOK(rec) {
		return nil
	}
	return []string{LabelPaymentMissing}
}

// partnerStandRule checks the stand logistics filled in on the partner's
// auto-created Stand record. Zero is a valid answer for tables and
// chairs; only an absent or blank value fails. Electricity must be an
// explicit "Oui" or "Non".
func partnerStandRule(rec models.TrackingRecord) []string {
	var actions []string
	if !present(rec.NombreTables) {
		actions = append(actions, LabelTablesMissing)
	}
	if !present(rec.NombreChaises) {
		actions = append(actions, LabelChairsMissing)
	}
	if rec.BesoinElectricite != "Oui" && rec.BesoinElectricite != "Non" {
		actions = append(actions, LabelElecUnanswered)
	}
	return actions
}

func present(v *models.FlexString) bool {
	return v != nil && !v.Blank()
}
