// Package billing drives the invoice and patronage-receipt flows:
// prefill from the entity and its tracking record, validate the form,
// persist the fields back to the store, then hand the payload to the
// document workflow.
package billing

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jpcloudkit/sponsormap/internal/models"
)

// eventHeader opens every generated invoice description.
const eventHeader = "Championnat de France d'escalade de difficultés jeunes\n16 et 17 Mai 2026 - SAINT PIERRE EN FAUCIGNY\n\n"

// Store is the slice of the record-store client the billing flows use.
type Store interface {
	UpdateEntity(ctx context.Context, id string, fields map[string]any) error
	UpdateTracking(ctx context.Context, cat models.Category, id string, fields map[string]any) error
	CreateAndLinkTracking(ctx context.Context, cat models.Category, fields map[string]any, entityID string) (models.TrackingRecord, error)
}

// Workflow is the outbound document-generation webhook.
type Workflow interface {
	TriggerInvoice(ctx context.Context, payload any) error
	TriggerReceipt(ctx context.Context, payload any) error
}

// ValidationError lists the required fields the form left empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// InvoiceForm carries the invoice fields; JSON names match the payload
// the workflow template expects.
type InvoiceForm struct {
	FactureNom         string `json:"Facture_Nom"`
	FactureAdresse     string `json:"Facture_Adresse"`
	Siret              string `json:"Siret"`
	FactureEmail       string `json:"Facture_Email"`
	FactureMontant     string `json:"Facture_Montant"`
	FactureDescription string `json:"Facture_Description"`
	DatePaiement       string `json:"Date_Paiement"`
	TypePaiement       string `json:"Type_Paiement"`
}

// ReceiptForm carries the patronage-receipt fields.
type ReceiptForm struct {
	Denomination   string `json:"Dénomination"`
	Adresse        string `json:"Adresse"`
	Email          string `json:"Email"`
	Siret          string `json:"SIRET"`
	FormeJuridique string `json:"Forme_Juridique"`
	Montant        string `json:"Montant"`
	DatePaiement   string `json:"Date_Paiement"`
}

type Service struct {
	store    Store
	workflow Workflow
	log      *zap.Logger
}

func NewService(store Store, workflow Workflow, log *zap.Logger) *Service {
	return &Service{store: store, workflow: workflow, log: log}
}

// PrefillInvoice seeds the form from the entity and its tracking
// record, building a default description from the category when none
// was written yet.
func (s *Service) PrefillInvoice(entity models.Entity, tracking *models.TrackingRecord, view models.Category) InvoiceForm {
	form := InvoiceForm{
		FactureNom:         entity.Title,
		FactureAdresse:     entity.Address,
		Siret:              entity.Siret,
		FactureDescription: eventHeader + invoiceSpecifics(entity, tracking, view),
	}
	if entity.Revenue() > 0 {
		form.FactureMontant = trimFloat(entity.Revenue())
	}
	if tracking != nil {
		form.FactureEmail = tracking.EmailContact
		form.DatePaiement = tracking.DatePaiement
		form.TypePaiement = tracking.TypePaiement
	}
	return form
}

func invoiceSpecifics(entity models.Entity, tracking *models.TrackingRecord, view models.Category) string {
	var rec models.TrackingRecord
	if tracking != nil {
		rec = *tracking
	}
	switch view {
	case models.CategoryEncartPub:
		format := rec.FormatPub
		if format == "" {
			format = rec.PackChoisi.String()
		}
		if format == "" {
			format = "Format non spécifié"
		}
		return "Encart Publicitaire - " + format
	case models.CategoryPartenaires:
		packs := rec.PackChoisi.String()
		if packs == "" {
			packs = "Aucun pack"
		}
		return "Partenariat - Options: " + packs
	case models.CategoryStand:
		days := "?"
		if int(rec.NbJour) > 0 {
			days = fmt.Sprint(int(rec.NbJour))
		}
		return "Stand - " + days + " jours"
	}
	return "Facturation pour " + entity.Title
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// ValidateInvoice enforces the required invoice fields.
func ValidateInvoice(form InvoiceForm) error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"Facture_Nom", form.FactureNom},
		{"Facture_Adresse", form.FactureAdresse},
		{"Facture_Email", form.FactureEmail},
		{"Facture_Description", form.FactureDescription},
		{"Facture_Montant", form.FactureMontant},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// ValidateReceipt enforces the required receipt fields.
func ValidateReceipt(form ReceiptForm) error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"Dénomination", form.Denomination},
		{"Adresse", form.Adresse},
		{"Email", form.Email},
		{"Montant", form.Montant},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// SaveInvoice writes the invoice fields back to the store: contact and
// payment details on the tracking record (created and linked when
// absent), billing identity on the entity.
func (s *Service) SaveInvoice(ctx context.Context, view models.Category, entity models.Entity, tracking *models.TrackingRecord, form InvoiceForm) error {
	trackingFields := map[string]any{
		"Email_Contact": form.FactureEmail,
		"date_paiement": form.DatePaiement,
		"Date_Paiement": form.DatePaiement,
		"Type_Paiement": form.TypePaiement,
	}
	if err := s.upsertTracking(ctx, view, entity, tracking, trackingFields); err != nil {
		return err
	}
	return s.store.UpdateEntity(ctx, entity.ID.String(), map[string]any{
		"Siret":   form.Siret,
		"Recette": form.FactureMontant,
		"address": form.FactureAdresse,
		"title":   form.FactureNom,
	})
}

// GenerateInvoice saves the form, then triggers the workflow. A failed
// save blocks generation.
func (s *Service) GenerateInvoice(ctx context.Context, view models.Category, entity models.Entity, tracking *models.TrackingRecord, form InvoiceForm) error {
	if err := ValidateInvoice(form); err != nil {
		return err
	}
	if err := s.SaveInvoice(ctx, view, entity, tracking, form); err != nil {
		return err
	}
	return s.workflow.TriggerInvoice(ctx, form)
}

// PrefillReceipt seeds the patronage form from the entity and its
// Mécénat tracking record.
func (s *Service) PrefillReceipt(entity models.Entity, tracking *models.TrackingRecord) ReceiptForm {
	form := ReceiptForm{
		Denomination:   entity.Title,
		Adresse:        entity.Address,
		Siret:          entity.Siret,
		FormeJuridique: entity.Juridique,
	}
	if entity.Revenue() > 0 {
		form.Montant = trimFloat(entity.Revenue())
	}
	if tracking != nil {
		form.Email = tracking.EmailContact
		form.DatePaiement = tracking.DatePaiement
	}
	return form
}

// SaveReceipt mirrors SaveInvoice for the Mécénat category.
func (s *Service) SaveReceipt(ctx context.Context, entity models.Entity, tracking *models.TrackingRecord, form ReceiptForm) error {
	trackingFields := map[string]any{
		"Email_Contact": form.Email,
		"date_paiement": form.DatePaiement,
		"Date_Paiement": form.DatePaiement,
	}
	if err := s.upsertTracking(ctx, models.CategoryMecenat, entity, tracking, trackingFields); err != nil {
		return err
	}
	return s.store.UpdateEntity(ctx, entity.ID.String(), map[string]any{
		"Siret":     form.Siret,
		"Recette":   form.Montant,
		"address":   form.Adresse,
		"title":     form.Denomination,
		"juridique": form.FormeJuridique,
	})
}

// GenerateReceipt saves, then triggers the workflow.
func (s *Service) GenerateReceipt(ctx context.Context, entity models.Entity, tracking *models.TrackingRecord, form ReceiptForm) error {
	if err := ValidateReceipt(form); err != nil {
		return err
	}
	if err := s.SaveReceipt(ctx, entity, tracking, form); err != nil {
		return err
	}
	return s.workflow.TriggerReceipt(ctx, form)
}

func (s *Service) upsertTracking(ctx context.Context, view models.Category, entity models.Entity, tracking *models.TrackingRecord, fields map[string]any) error {
	if tracking != nil && tracking.ID != "" {
		return s.store.UpdateTracking(ctx, view, tracking.ID.String(), fields)
	}
	title := entity.Title
	if title == "" {
		title = "Suivi"
	}
	fields["Titre"] = title
	_, err := s.store.CreateAndLinkTracking(ctx, view, fields, entity.ID.String())
	return err
}
