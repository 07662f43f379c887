// Package config loads the lint tool's configuration from the
// environment. A .env file in the working directory is honored when
// present.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds the CLI's configuration.
type Config struct {
	// DBPath is where the run-history database lives.
	DBPath string
	// RecordRuns persists each lint run to the history database.
	RecordRuns bool
	// SortDiagnostics orders messages by severity, then location.
	SortDiagnostics bool
	// ShowInfo includes info-level messages in the report.
	ShowInfo bool
	// StrictGlobals validates global initializers with the older
	// runtime's literal-only rule.
	StrictGlobals bool
}

// Load reads configuration from environment variables, after merging in
// a .env file if one exists. Missing variables fall back to defaults.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:          os.Getenv("LSLINT_DB_PATH"),
		RecordRuns:      boolEnv("LSLINT_RECORD_RUNS", false),
		SortDiagnostics: boolEnv("LSLINT_SORT_DIAGNOSTICS", true),
		ShowInfo:        boolEnv("LSLINT_SHOW_INFO", false),
		StrictGlobals:   boolEnv("LSLINT_STRICT_GLOBALS", false),
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.DBPath = filepath.Join(home, ".lslint", "runs.db")
	}
	return cfg
}

func boolEnv(name string, def bool) bool {
	switch os.Getenv(name) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
