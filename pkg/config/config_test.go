package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ModeLocal, cfg.Extraction.Mode)
	assert.Equal(t, "pdf", cfg.Extraction.Engine)
	assert.Equal(t, 100, cfg.Extraction.MinTextLength)
	assert.Equal(t, int64(20<<20), cfg.Extraction.MaxUploadBytes())
	assert.Equal(t, 60*time.Second, cfg.Extraction.Timeout)
	assert.Equal(t, 6, cfg.History.MaxEntries)
	assert.False(t, cfg.History.OverwriteMissingFields)
	assert.False(t, cfg.History.DeriveTrend)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
}

func TestLoad_ValidYAML_PopulatesAllFields(t *testing.T) {
	// Given
	dir := t.TempDir()
	path := filepath.Join(dir, "valid.yaml")
	content := `server:
  host: "0.0.0.0"
  port: 9000
log:
  level: debug
  format: console
extraction:
  mode: remote
  remote_url: "http://extractor:8000/extract"
  timeout: 15s
  engine: fitz
history:
  max_entries: 4
  overwrite_missing_fields: true
  derive_trend: true
catalog:
  ranges_file: "/etc/ranges.ini"
export:
  s3_bucket: reports`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// When
	cfg, err := Load(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, ModeRemote, cfg.Extraction.Mode)
	assert.Equal(t, "http://extractor:8000/extract", cfg.Extraction.RemoteURL)
	assert.Equal(t, 15*time.Second, cfg.Extraction.Timeout)
	assert.Equal(t, "fitz", cfg.Extraction.Engine)
	assert.Equal(t, 4, cfg.History.MaxEntries)
	assert.True(t, cfg.History.OverwriteMissingFields)
	assert.True(t, cfg.History.DeriveTrend)
	assert.Equal(t, "/etc/ranges.ini", cfg.Catalog.RangesFile)
	assert.Equal(t, "reports", cfg.Export.S3Bucket)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("BIOMARKERS_SERVER_PORT", "7070")
	t.Setenv("BIOMARKERS_HISTORY_MAX_ENTRIES", "3")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 3, cfg.History.MaxEntries)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: port: : bad"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RemoteModeRequiresURL(t *testing.T) {
	t.Setenv("BIOMARKERS_EXTRACTION_MODE", "remote")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote_url")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: ServerConfig{Port: 8080},
			Extraction: ExtractionConfig{
				Mode:          ModeLocal,
				Engine:        "pdf",
				MinTextLength: 100,
				MaxUploadMB:   20,
				PageWorkers:   4,
				Timeout:       time.Minute,
			},
			History: HistoryConfig{MaxEntries: 6},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "unknown mode", mutate: func(c *Config) { c.Extraction.Mode = "cloud" }},
		{name: "unknown engine", mutate: func(c *Config) { c.Extraction.Engine = "tesseract" }},
		{name: "zero workers", mutate: func(c *Config) { c.Extraction.PageWorkers = 0 }},
		{name: "zero history", mutate: func(c *Config) { c.History.MaxEntries = 0 }},
		{name: "zero timeout", mutate: func(c *Config) { c.Extraction.Timeout = 0 }},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
