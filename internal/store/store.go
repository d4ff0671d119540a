// Package store is the mutation engine: it owns the full record collections
// (including tombstones), applies every mutation serially, maintains the
// UI-facing visible projection, and schedules debounced snapshot writes.
//
// Mutations never return errors. Validation failures and persistence
// failures land in a shared error string readable via Err; not-found ids are
// silent no-ops. Callers drive the store from a single goroutine.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/flowtide/flowtide/internal/model"
	"github.com/flowtide/flowtide/internal/persist"
	"github.com/flowtide/flowtide/internal/storage"
)

// Options tunes a Store. The zero value is usable: no debounce window means
// every mutation saves synchronously.
type Options struct {
	Debounce time.Duration
}

type Store struct {
	stg  storage.Storage
	gate *persist.Gate

	state State
	epoch int64

	visible visibleState

	taskOrders    orderCache
	projectOrders orderCache

	editLocks int

	errMu   sync.Mutex
	lastErr string
}

// Open loads the snapshot from stg and builds a store around it.
func Open(stg storage.Storage, opts Options) (*Store, error) {
	snap, err := stg.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	s := &Store{stg: stg, state: stateFromSnapshot(snap)}
	s.gate = persist.NewGate(opts.Debounce, stg.Save, func(err error) {
		s.setErr("save failed: %v", err)
	})
	s.visible = project(s.state)
	return s, nil
}

// commit installs the mutated state: it advances the order-cache epoch,
// recomputes the visible projection, and schedules one snapshot write.
func (s *Store) commit() {
	s.epoch++
	s.visible = project(s.state)
	s.gate.Schedule(s.state.snapshot())
}

// deviceID resolves the per-process device identifier, creating and storing
// one on first use. The updated settings ride along with the next snapshot.
func (s *Store) deviceID() string {
	settings, created := EnsureDeviceID(s.state.Settings)
	if created {
		s.state.Settings = settings
	}
	return settings.DeviceID
}

// Reload replaces in-memory state with the stored snapshot. Refused while an
// edit is in progress so a background refresh cannot clobber a live edit.
func (s *Store) Reload() bool {
	if s.editLocks > 0 {
		return false
	}
	snap, err := s.stg.Load()
	if err != nil {
		s.setErr("reload failed: %v", err)
		return false
	}
	s.state = stateFromSnapshot(snap)
	s.epoch++
	s.visible = project(s.state)
	return true
}

// BeginEdit marks a multi-step edit in progress; Reload is refused until the
// matching EndEdit. Advisory only — it does not block mutations.
func (s *Store) BeginEdit() {
	s.editLocks++
}

func (s *Store) EndEdit() {
	if s.editLocks > 0 {
		s.editLocks--
	}
}

// Flush writes any pending snapshot immediately.
func (s *Store) Flush() {
	s.gate.Flush()
}

// Close flushes pending writes and stops the persistence gate.
func (s *Store) Close() {
	s.gate.Close()
}

// Settings returns the current settings record.
func (s *Store) Settings() model.Settings {
	return s.state.Settings
}

// UpdateSettings merges the given settings and persists them.
func (s *Store) UpdateSettings(settings model.Settings) {
	s.state.Settings = settings
	s.commit()
}

// Err returns the latest error message, empty when none.
func (s *Store) Err() string {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.lastErr
}

func (s *Store) ClearErr() {
	s.errMu.Lock()
	s.lastErr = ""
	s.errMu.Unlock()
}

func (s *Store) setErr(format string, args ...any) {
	s.errMu.Lock()
	s.lastErr = fmt.Sprintf(format, args...)
	s.errMu.Unlock()
}
