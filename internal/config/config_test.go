package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// viper treats empty variables as unset
	for k := range defaults {
		t.Setenv(k, "")
	}

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Port != "3001" || c.Store.Kind != "sqlite" || c.Store.DatabasePath != "./data/flaggle.db" {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.Daily.Variant != "classic" || c.Log.Pretty || c.Catalog.File != "" {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.Share.TTL != 720*time.Hour || c.Quiz.AdvanceDelay != 2*time.Second {
		t.Fatalf("durations: %+v %+v", c.Share, c.Quiz)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORE", "SQLite")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("DAILY_VARIANT", "Enhanced")
	t.Setenv("QUIZ_ADVANCE_DELAY", "500ms")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Port != "8080" || c.Store.Kind != "sqlite" || !c.Log.Pretty {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.Daily.Variant != "enhanced" || c.Quiz.AdvanceDelay != 500*time.Millisecond {
		t.Fatalf("unexpected config %+v", c)
	}
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("STORE", "postgres")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown store")
	}
}
