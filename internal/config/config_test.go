package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.StoreBaseURL == "" || cfg.MainTableID == "" {
		t.Error("store defaults missing")
	}
	if cfg.RevenueGoal != 8000 {
		t.Errorf("RevenueGoal = %v", cfg.RevenueGoal)
	}
	if cfg.PrefsDBPath != "prefs.db" {
		t.Errorf("PrefsDBPath = %q", cfg.PrefsDBPath)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_API_TOKEN", "tok")
	t.Setenv("REVENUE_GOAL", "12500")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.StoreToken != "tok" {
		t.Errorf("StoreToken = %q", cfg.StoreToken)
	}
	if cfg.RevenueGoal != 12500 {
		t.Errorf("RevenueGoal = %v", cfg.RevenueGoal)
	}
}

func TestParseFloatInvalid(t *testing.T) {
	t.Setenv("REVENUE_GOAL", "beaucoup")
	if got := ParseFloat("REVENUE_GOAL", 8000); got != 8000 {
		t.Errorf("got %v, want default", got)
	}
}
