package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port string
	Env  string

	// Record store (hosted table database)
	StoreBaseURL string
	StoreToken   string
	MainTableID  string
	MainViewID   string

	// Document generation webhooks
	InvoiceWebhookURL string
	ReceiptWebhookURL string

	// Shared-password access
	AppPassword   string
	SessionSecret string

	// Local sidecar database (brochure preferences)
	PrefsDBPath string

	// Fundraising goal used by the leaderboard
	RevenueGoal float64
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.StoreBaseURL = getEnv("STORE_BASE_URL", "https://nocodb.jpcloudkit.fr/api/v2")
	cfg.StoreToken = os.Getenv("STORE_API_TOKEN")
	cfg.MainTableID = getEnv("STORE_MAIN_TABLE_ID", "mz7t9hogvz3ynsm")
	cfg.MainViewID = getEnv("STORE_MAIN_VIEW_ID", "vwu3wskjhi5iatpc")
	cfg.InvoiceWebhookURL = os.Getenv("INVOICE_WEBHOOK_URL")
	cfg.ReceiptWebhookURL = os.Getenv("RECEIPT_WEBHOOK_URL")
	cfg.AppPassword = os.Getenv("APP_PASSWORD")
	cfg.SessionSecret = getEnv("SESSION_SECRET", "devsessionsecret")
	cfg.PrefsDBPath = getEnv("PREFS_DB_PATH", "prefs.db")
	cfg.RevenueGoal = ParseFloat("REVENUE_GOAL", 8000)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseFloat reads an env var as float64 with default.
func ParseFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Printf("invalid number for %s: %s", key, v)
			return def
		}
		return f
	}
	return def
}
