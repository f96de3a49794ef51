package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 7482 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 7482)
	}
	if cfg.Gamification.DailyQuestCount != 3 {
		t.Errorf("DailyQuestCount = %d, want 3", cfg.Gamification.DailyQuestCount)
	}
	if cfg.Telemetry.Prometheus {
		t.Error("Prometheus should default to off")
	}
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	t.Setenv("QUESTIFY_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != 7482 {
		t.Errorf("Port = %d, want default 7482", cfg.API.Port)
	}
}

func TestLoadConfig_File(t *testing.T) {
	home := t.TempDir()
	t.Setenv("QUESTIFY_HOME", home)

	content := `
[api]
host = "0.0.0.0"
port = 9000

[gamification]
daily_quest_count = 5

[telemetry]
prometheus = true
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Host != "0.0.0.0" || cfg.API.Port != 9000 {
		t.Errorf("api = %s:%d, want 0.0.0.0:9000", cfg.API.Host, cfg.API.Port)
	}
	if cfg.Gamification.DailyQuestCount != 5 {
		t.Errorf("DailyQuestCount = %d, want 5", cfg.Gamification.DailyQuestCount)
	}
	if !cfg.Telemetry.Prometheus {
		t.Error("Prometheus should be enabled")
	}
	// Unset sections keep their defaults.
	if cfg.Storage.Dir == "" {
		t.Error("Storage.Dir should keep its default")
	}
}

func TestLoadConfig_InvalidQuestCountFallsBack(t *testing.T) {
	home := t.TempDir()
	t.Setenv("QUESTIFY_HOME", home)

	content := "[gamification]\ndaily_quest_count = -2\n"
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Gamification.DailyQuestCount != 3 {
		t.Errorf("DailyQuestCount = %d, want fallback 3", cfg.Gamification.DailyQuestCount)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("QUESTIFY_HOME", t.TempDir())

	want := DefaultConfig()
	want.API.Port = 8123
	if err := SaveConfig(want); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if got.API.Port != 8123 {
		t.Errorf("Port = %d, want 8123", got.API.Port)
	}
}
