package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[general]
default_period = "last90days"

[finance]
monthly_marketing_costs = 75000.5
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.DefaultPeriod != "last90days" {
		t.Errorf("DefaultPeriod = %q", cfg.General.DefaultPeriod)
	}
	if cfg.Finance.MonthlyMarketingCosts != 75000.5 {
		t.Errorf("MonthlyMarketingCosts = %v", cfg.Finance.MonthlyMarketingCosts)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" || cfg.Charts.Width != 1200 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Client.ServerURL = "http://10.0.0.5:8080"
	cfg.Appearance.Theme = "tokyo-night"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got != cfg {
		t.Fatalf("got %+v, want %+v", got, cfg)
	}
}

func TestDBPath(t *testing.T) {
	cfg := DefaultConfig()

	t.Setenv(EnvDBPath, "")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DBPath(cfg); got != filepath.Join("/data", "edupulse", "edupulse.db") {
		t.Errorf("default DBPath = %s", got)
	}

	cfg.General.DBPath = "/srv/edu.db"
	if got := DBPath(cfg); got != "/srv/edu.db" {
		t.Errorf("configured DBPath = %s", got)
	}

	t.Setenv(EnvDBPath, "/tmp/override.db")
	if got := DBPath(cfg); got != "/tmp/override.db" {
		t.Errorf("env DBPath = %s", got)
	}
}
