package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load with missing file: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Gesture.CommitDistancePX != 50 || cfg.Gesture.CommitVelocity != 0.5 {
		t.Fatalf("unexpected gesture defaults: %+v", cfg.Gesture)
	}
	if cfg.Gesture.CommitCooldown != 300*time.Millisecond {
		t.Fatalf("unexpected default commit cooldown: %v", cfg.Gesture.CommitCooldown)
	}
	if cfg.Trade.UndoCapacity != 10 {
		t.Fatalf("unexpected default undo capacity: %d", cfg.Trade.UndoCapacity)
	}
}

func TestLoadAppliesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
env: prod
http:
  addr: ":9090"
gesture:
  commit_distance_px: 80
  commit_cooldown: 500ms
trade:
  undo_capacity: 5
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Env != "prod" || cfg.HTTP.Addr != ":9090" {
		t.Fatalf("yaml overrides not applied: env=%s addr=%s", cfg.Env, cfg.HTTP.Addr)
	}
	if cfg.Gesture.CommitDistancePX != 80 {
		t.Fatalf("gesture yaml override not applied: %v", cfg.Gesture.CommitDistancePX)
	}
	if cfg.Gesture.CommitCooldown != 500*time.Millisecond {
		t.Fatalf("cooldown yaml override not applied: %v", cfg.Gesture.CommitCooldown)
	}
	if cfg.Trade.UndoCapacity != 5 {
		t.Fatalf("trade yaml override not applied: %d", cfg.Trade.UndoCapacity)
	}
	// Untouched sections keep their defaults.
	if cfg.Gesture.VerticalCancelPX != 30 {
		t.Fatalf("unrelated gesture default lost: %v", cfg.Gesture.VerticalCancelPX)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("GESTURE_COMMIT_COOLDOWN", "250ms")
	t.Setenv("TRADE_UNDO_CAPACITY", "3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("env override not applied: %s", cfg.HTTP.Addr)
	}
	if cfg.Gesture.CommitCooldown != 250*time.Millisecond {
		t.Fatalf("cooldown env override not applied: %v", cfg.Gesture.CommitCooldown)
	}
	if cfg.Trade.UndoCapacity != 3 {
		t.Fatalf("capacity env override not applied: %d", cfg.Trade.UndoCapacity)
	}
}

func TestLoadRejectsMalformedEnvDuration(t *testing.T) {
	t.Setenv("GESTURE_EXIT_DURATION", "soon")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for malformed duration override")
	}
}
