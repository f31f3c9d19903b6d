package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
storage:
  data_dir: "/tmp/cpdlog-test"
  backend: "memory"

cpd:
  target_hours: 50

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("CPDLOG_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.DataDir != "/tmp/cpdlog-test" {
		t.Errorf("storage.data_dir = %q", cfg.Storage.DataDir)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("storage.backend = %q", cfg.Storage.Backend)
	}
	if cfg.CPD.TargetHours != 50 {
		t.Errorf("cpd.target_hours = %v, want 50", cfg.CPD.TargetHours)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("CPDLOG_CONFIG", path)
	t.Setenv("CPDLOG_TARGET_HOURS", "35")
	t.Setenv("CPDLOG_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.CPD.TargetHours != 35 {
		t.Errorf("cpd.target_hours = %v, want 35 (ENV override)", cfg.CPD.TargetHours)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want warn (ENV override)", cfg.Log.Level)
	}
}

func TestLoad_NoFile_Defaults(t *testing.T) {
	t.Setenv("CPDLOG_CONFIG", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.CPD.TargetHours != 35 {
		t.Errorf("cpd.target_hours = %v, want default 35", cfg.CPD.TargetHours)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("storage.backend = %q, want default sqlite", cfg.Storage.Backend)
	}
	if cfg.Storage.DataDir == "" {
		t.Error("data_dir not resolved to a default")
	}
	if !strings.HasSuffix(cfg.Storage.DataDir, ".cpdlog") {
		t.Errorf("data_dir = %q, want ~/.cpdlog", cfg.Storage.DataDir)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CPDLOG_CONFIG", "/nonexistent/config.yaml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), `{{{invalid yaml`)
	t.Setenv("CPDLOG_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := Config{Storage: StorageConfig{DataDir: "/data"}}
	if got := cfg.DatabasePath(); got != filepath.Join("/data", "cpdlog.db") {
		t.Errorf("DatabasePath = %q", got)
	}
}

func validConfig() Config {
	return Config{
		Storage: StorageConfig{DataDir: "/tmp/x", Backend: "sqlite"},
		CPD:     CPDConfig{TargetHours: 35},
		Log:     LogConfig{Level: "info", Format: "json"},
	}
}

func TestValidate_TargetHours(t *testing.T) {
	for _, h := range []float64{0, -5} {
		cfg := validConfig()
		cfg.CPD.TargetHours = h
		if err := cfg.Validate(); err == nil {
			t.Errorf("target_hours %v: expected error", h)
		}
	}
}

func TestValidate_Backend(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Backend = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestValidate_LogSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}

	cfg = validConfig()
	cfg.Log.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}
