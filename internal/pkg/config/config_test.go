package config

import (
	"context"
	"testing"
	"time"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), map[string]string{})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Store.Driver != DriverSQLite {
		t.Errorf("default driver = %q", cfg.Store.Driver)
	}
	if cfg.Store.Timeout != 0 {
		t.Errorf("store timeout must default to disabled, got %s", cfg.Store.Timeout)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis must be disabled by default, got %q", cfg.Redis.Addr)
	}
	if cfg.UI.FullScreenExitKey != "ESCAPE" {
		t.Errorf("default exit key = %q", cfg.UI.FullScreenExitKey)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("expected development env by default")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), map[string]string{
		"STORE_DRIVER":         "mongo",
		"STORE_TIMEOUT":        "2s",
		"PASSWORD_MODE":        "bcrypt",
		"REDIS_ADDR":           "localhost:6379",
		"STUDENT_IDLE_TIMEOUT": "90s",
		"ENV":                  "production",
	})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Store.Driver != DriverMongo || cfg.Store.Timeout != 2*time.Second {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.UI.StudentIdleTimeout != 90*time.Second {
		t.Errorf("unexpected idle timeout %s", cfg.UI.StudentIdleTimeout)
	}
	if cfg.IsDevelopment() {
		t.Errorf("production must not be development")
	}
}

func TestLoadFrom_Rejects(t *testing.T) {
	for name, env := range map[string]map[string]string{
		"driver":   {"STORE_DRIVER": "postgres"},
		"password": {"PASSWORD_MODE": "rot13"},
		"timeout":  {"STORE_TIMEOUT": "-1s"},
	} {
		if _, err := LoadFrom(context.Background(), env); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
