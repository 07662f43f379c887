package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	t.Setenv("LSLINT_DB_PATH", "")
	t.Setenv("LSLINT_RECORD_RUNS", "")
	t.Setenv("LSLINT_SORT_DIAGNOSTICS", "")

	cfg := Load()
	assert.NotEmpty(t, cfg.DBPath)
	assert.False(t, cfg.RecordRuns)
	assert.True(t, cfg.SortDiagnostics)
	assert.False(t, cfg.ShowInfo)
	assert.False(t, cfg.StrictGlobals)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LSLINT_DB_PATH", "/tmp/x.db")
	t.Setenv("LSLINT_RECORD_RUNS", "true")
	t.Setenv("LSLINT_SORT_DIAGNOSTICS", "off")
	t.Setenv("LSLINT_STRICT_GLOBALS", "1")

	cfg := Load()
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.True(t, cfg.RecordRuns)
	assert.False(t, cfg.SortDiagnostics)
	assert.True(t, cfg.StrictGlobals)
}

func TestBoolEnvValues(t *testing.T) {
	t.Setenv("LSLINT_TEST_BOOL", "yes")
	assert.True(t, boolEnv("LSLINT_TEST_BOOL", false))

	t.Setenv("LSLINT_TEST_BOOL", "no")
	assert.False(t, boolEnv("LSLINT_TEST_BOOL", true))

	t.Setenv("LSLINT_TEST_BOOL", "garbage")
	assert.True(t, boolEnv("LSLINT_TEST_BOOL", true))
}
