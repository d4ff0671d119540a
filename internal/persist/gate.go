// Package persist schedules snapshot writes. Rapid successive mutations
// coalesce into a single trailing write of the latest snapshot.
package persist

import (
	"sync"
	"time"

	"github.com/flowtide/flowtide/internal/storage"
)

// SaveFunc writes a snapshot to durable storage.
type SaveFunc func(storage.Snapshot) error

// Gate debounces snapshot saves. Each Schedule call replaces any pending
// snapshot and restarts the window; only the latest state reaches the
// SaveFunc. Saves are serialized and stamped with a generation, so a slow
// in-flight save can never land after a newer one. Failures go to the error
// callback and are not retried — the next scheduled snapshot is full-state
// and supersedes the failed one.
type Gate struct {
	mu         sync.Mutex
	window     time.Duration
	save       SaveFunc
	onError    func(error)
	timer      *time.Timer
	pending    *storage.Snapshot
	pendingGen uint64
	gen        uint64
	savedGen   uint64
	closed     bool

	// saveMu serializes calls to save; it is never taken while holding mu.
	saveMu sync.Mutex
}

// NewGate builds a gate with the given debounce window. A window of zero or
// less disables debouncing and makes Schedule save synchronously.
func NewGate(window time.Duration, save SaveFunc, onError func(error)) *Gate {
	if onError == nil {
		onError = func(error) {}
	}
	return &Gate{window: window, save: save, onError: onError}
}

// Schedule queues snap for writing at the trailing edge of the window.
func (g *Gate) Schedule(snap storage.Snapshot) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.gen++
	gen := g.gen
	if g.window <= 0 {
		g.mu.Unlock()
		g.write(snap, gen)
		return
	}
	g.pending = &snap
	g.pendingGen = gen
	if g.timer == nil {
		g.timer = time.AfterFunc(g.window, g.fire)
	} else {
		g.timer.Reset(g.window)
	}
	g.mu.Unlock()
}

func (g *Gate) fire() {
	g.mu.Lock()
	snap, gen := g.pending, g.pendingGen
	g.pending = nil
	g.mu.Unlock()
	if snap == nil {
		return
	}
	g.write(*snap, gen)
}

// write performs one serialized save. A snapshot that was superseded by a
// newer completed save while waiting its turn is dropped.
func (g *Gate) write(snap storage.Snapshot, gen uint64) {
	g.saveMu.Lock()
	defer g.saveMu.Unlock()
	g.mu.Lock()
	stale := gen <= g.savedGen
	if !stale {
		g.savedGen = gen
	}
	g.mu.Unlock()
	if stale {
		return
	}
	if err := g.save(snap); err != nil {
		g.onError(err)
	}
}

// Flush writes any pending snapshot immediately.
func (g *Gate) Flush() {
	g.mu.Lock()
	if g.timer != nil {
		g.timer.Stop()
	}
	snap, gen := g.pending, g.pendingGen
	g.pending = nil
	g.mu.Unlock()
	if snap == nil {
		return
	}
	g.write(*snap, gen)
}

// Close flushes and stops accepting further snapshots.
func (g *Gate) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.Flush()
}
