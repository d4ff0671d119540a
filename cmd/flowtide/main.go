package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowtide/flowtide/internal/storage"
	"github.com/flowtide/flowtide/internal/store"
	"github.com/flowtide/flowtide/internal/tui"
)

func main() {
	cfg := ConfigFromEnv(DefaultConfig())

	stg, cleanup, err := openStorage(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flowtide: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	s, err := store.Open(stg, store.Options{
		Debounce: time.Duration(cfg.DebounceMS) * time.Millisecond,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "flowtide: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	program := tea.NewProgram(tui.NewModel(s))
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "flowtide failed: %v\n", err)
		os.Exit(1)
	}
}

func openStorage(cfg Config) (storage.Storage, func(), error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	switch cfg.Backend {
	case backendSQLite:
		db, err := storage.OpenSQLite(filepath.Join(cfg.DataDir, "flowtide.db"))
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	default:
		return storage.NewJSONFile(filepath.Join(cfg.DataDir, "flowtide.json")), func() {}, nil
	}
}
