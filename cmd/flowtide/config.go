package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	backendJSON   = "json"
	backendSQLite = "sqlite"
)

type Config struct {
	DataDir    string
	Backend    string
	DebounceMS int
}

func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:    filepath.Join(home, ".flowtide"),
		Backend:    backendJSON,
		DebounceMS: 400,
	}
}

func ConfigFromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("FLOWTIDE_DATA_DIR")); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(strings.ToLower(os.Getenv("FLOWTIDE_BACKEND"))); v == backendJSON || v == backendSQLite {
		cfg.Backend = v
	}
	if v, ok := getEnvInt("FLOWTIDE_DEBOUNCE_MS"); ok && v >= 0 {
		cfg.DebounceMS = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
