// Package i18n holds the small fr/en message catalog used by the API
// layer. Codes are returned verbatim when no translation exists, so the
// canonical English checklist labels can be passed through T directly.
package i18n

import "strings"

var translations = map[string]map[string]string{
	"fr": {
		// API messages
		"unauthorized":        "Non autorisé",
		"invalid_password":    "Mot de passe incorrect",
		"missing_title":       "Le titre est obligatoire",
		"missing_gps":         "La coordonnée GPS est obligatoire",
		"missing_fields":      "Veuillez remplir les champs obligatoires",
		"invoice_generated":   "Facture générée avec succès !",
		"receipt_generated":   "Reçu Mécénat généré avec succès !",
		"webhook_failed":      "Erreur lors de la génération du document.",
		"update_failed":       "Erreur lors de la mise à jour",
		"store_unavailable":   "Le magasin de données est injoignable",
		"required":            "Requis",
		// Checklist labels (keyed by their canonical English form)
		"Payment missing":       "Paiement manquant",
		"Payment/Proof missing": "Paiement/Preuve manquant",
		"Visual missing":        "Visuel manquant",
		"Proof missing":         "Preuve manquante",
		"Lot to retrieve":       "Lot à récupérer",
		"Logo missing":          "Logo manquant",
		"Encart Pub missing":    "Encart Pub manquant",
		"Pancarte missing":      "Pancarte manquante",
		"Stand not registered":  "Stand non inscrit",
		"Tables missing":        "Nb Tables ?",
		"Chairs missing":        "Nb Chaises ?",
		"Electricity unanswered": "Besoin Élec ?",
		"Cerfa missing":          "Cerfa manquant",
	},
	"en": {
		"unauthorized":      "Unauthorized",
		"invalid_password":  "Invalid password",
		"missing_title":     "Title is required",
		"missing_gps":       "A GPS coordinate is required",
		"missing_fields":    "Please fill in the required fields",
		"invoice_generated": "Invoice generated successfully!",
		"receipt_generated": "Sponsorship receipt generated successfully!",
		"webhook_failed":    "Document generation failed.",
		"update_failed":     "Update failed",
		"store_unavailable": "The record store is unreachable",
		"required":          "Required",
	},
}

// T translates a code for the given language. Unknown languages fall
// back to French, unknown codes fall back to the code itself.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if v, ok := m[code]; ok {
			return v
		}
	}
	if lang != "fr" {
		if v, ok := translations["fr"][code]; ok && lang != "en" {
			return v
		}
	}
	return code
}

// DetectLanguage picks fr or en from an Accept-Language header value.
// French is the default for this application.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if i := strings.IndexAny(tag, "-;"); i > 0 {
			tag = tag[:i]
		}
		switch tag {
		case "en":
			return "en"
		case "fr":
			return "fr"
		}
	}
	return "fr"
}
