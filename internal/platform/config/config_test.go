package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chalkup/internal/platform/config"
	apperrors "chalkup/internal/platform/errors"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Parallel()
	data := t.TempDir()
	cfg, err := config.Load(data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WeightUnit != "kg" {
		t.Fatalf("expected kg default, got %q", cfg.WeightUnit)
	}
	if !cfg.AutoRest.Enabled || cfg.AutoRest.Seconds != 120 {
		t.Fatalf("unexpected auto rest defaults: %+v", cfg.AutoRest)
	}
	if len(cfg.RestPresets) != 3 || cfg.RestPresets[0] != 60 || cfg.RestPresets[2] != 180 {
		t.Fatalf("unexpected rest presets: %v", cfg.RestPresets)
	}
	if cfg.DBPath != filepath.Join(data, ".chalkup", "chalkup.db") {
		t.Fatalf("unexpected db path: %s", cfg.DBPath)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("expected warn log level, got %q", cfg.Log.Level)
	}
}

func TestLoadReadsFile(t *testing.T) {
	t.Parallel()
	data := t.TempDir()
	raw := "weight_unit: lbs\nauto_rest:\n  enabled: false\n  seconds: 90\nrest_presets: [30, 90]\ncue:\n  bell: false\n"
	if err := os.WriteFile(filepath.Join(data, config.FileName), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.Load(data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WeightUnit != "lbs" || cfg.AutoRest.Enabled || cfg.AutoRest.Seconds != 90 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if len(cfg.RestPresets) != 2 || cfg.RestPresets[1] != 90 {
		t.Fatalf("unexpected presets: %v", cfg.RestPresets)
	}
	if cfg.Cue.Bell || !cfg.Cue.Enabled {
		t.Fatalf("unexpected cue config: %+v", cfg.Cue)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CHALKUP_AUTO_REST_SECONDS", "45")
	t.Setenv("CHALKUP_LOG_LEVEL", "debug")
	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AutoRest.Seconds != 45 {
		t.Fatalf("expected env override 45, got %d", cfg.AutoRest.Seconds)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected debug level, got %q", cfg.Log.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()
	if _, err := config.Load(""); err == nil {
		t.Fatalf("empty data path should fail")
	}
	data := t.TempDir()
	if err := os.WriteFile(filepath.Join(data, config.FileName), []byte("weight_unit: stone\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.Load(data); !errors.Is(err, apperrors.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration, got %v", err)
	}
}
