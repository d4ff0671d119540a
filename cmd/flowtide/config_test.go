package main

import "testing"

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("FLOWTIDE_DATA_DIR", "/tmp/flowtide-test")
	t.Setenv("FLOWTIDE_BACKEND", "SQLite")
	t.Setenv("FLOWTIDE_DEBOUNCE_MS", "250")

	cfg := ConfigFromEnv(DefaultConfig())
	if cfg.DataDir != "/tmp/flowtide-test" {
		t.Fatalf("data dir = %q", cfg.DataDir)
	}
	if cfg.Backend != backendSQLite {
		t.Fatalf("backend = %q", cfg.Backend)
	}
	if cfg.DebounceMS != 250 {
		t.Fatalf("debounce = %d", cfg.DebounceMS)
	}
}

func TestConfigFromEnvIgnoresInvalid(t *testing.T) {
	t.Setenv("FLOWTIDE_BACKEND", "postgres")
	t.Setenv("FLOWTIDE_DEBOUNCE_MS", "soon")

	base := DefaultConfig()
	cfg := ConfigFromEnv(base)
	if cfg.Backend != base.Backend {
		t.Fatalf("unknown backend must be ignored, got %q", cfg.Backend)
	}
	if cfg.DebounceMS != base.DebounceMS {
		t.Fatalf("bad debounce must be ignored, got %d", cfg.DebounceMS)
	}
}
