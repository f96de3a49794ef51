// Package daemon manages the Questify daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API          APIConfig          `toml:"api"`
	Storage      StorageConfig      `toml:"storage"`
	Gamification GamificationConfig `toml:"gamification"`
	Telemetry    TelemetryConfig    `toml:"telemetry"`
	Logging      LoggingConfig      `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// StorageConfig controls where persistent state lives.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// GamificationConfig tunes the engine.
type GamificationConfig struct {
	DailyQuestCount int `toml:"daily_quest_count"`
}

// TelemetryConfig controls observability surfaces.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := questifyHome()
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        7482,
			CORSOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Dir: filepath.Join(homeDir, "data"),
		},
		Gamification: GamificationConfig{
			DailyQuestCount: 3,
		},
		Telemetry: TelemetryConfig{
			Prometheus: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "questify.log"),
		},
	}
}

// LoadConfig reads config from ~/.questify/config.toml, falling back to
// defaults when the file does not exist.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(questifyHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Gamification.DailyQuestCount <= 0 {
		cfg.Gamification.DailyQuestCount = 3
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.questify/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(questifyHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// questifyHome returns the Questify data directory.
func questifyHome() string {
	if env := os.Getenv("QUESTIFY_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".questify")
}
