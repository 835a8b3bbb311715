package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_ENV", "test")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.Mode != "release" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.Secret != "s3cret" {
		t.Fatalf("secret = %q, want env value", cfg.Secret)
	}
	if cfg.RoomRetention != 24*time.Hour || cfg.SweepInterval != time.Hour {
		t.Fatalf("retention defaults: %v / %v", cfg.RoomRetention, cfg.SweepInterval)
	}
	if len(cfg.ICEServers) != 1 || len(cfg.ICEServers[0].URLs) != 1 {
		t.Fatalf("ice defaults: %+v", cfg.ICEServers)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CONFIG_ENV", "test")
	t.Setenv("JWT_SECRET", "s3cret")

	yaml := `
mode: debug
port: 9999
database_path: /tmp/clinic-test.db
room_retention: 1h
ice_servers:
  - urls: ["stun:stun.example.com:3478"]
  - urls: ["turn:turn.example.com:3478"]
    username: u
    credential: p
`
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "debug" || cfg.Port != 9999 {
		t.Fatalf("overrides ignored: %+v", cfg)
	}
	if cfg.RoomRetention != time.Hour {
		t.Fatalf("room_retention = %v", cfg.RoomRetention)
	}
	if len(cfg.ICEServers) != 2 || cfg.ICEServers[1].Username != "u" {
		t.Fatalf("ice servers: %+v", cfg.ICEServers)
	}
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_ENV", "test")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("Load succeeded without a secret")
	}
}
