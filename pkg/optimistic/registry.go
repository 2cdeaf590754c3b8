package optimistic

import (
	"fmt"
	"sync"
	"time"
)

// Key identifies one logical in-flight operation. Structured fields keep keys
// collision-free across entity types without string concatenation at call
// sites.
type Key struct {
	Entity string
	ID     string
	Op     string
}

func KeyFor(entity, id, op string) Key {
	return Key{Entity: entity, ID: id, Op: op}
}

func (k Key) String() string {
	if k == (Key{}) {
		return ""
	}
	return fmt.Sprintf("%s:%s:%s", k.Entity, k.ID, k.Op)
}

type entry struct {
	busy    bool
	stopped time.Time
}

// Registry tracks which keys have an operation in flight. It is handed to the
// components that need it rather than living as a package singleton, and
// finished entries can be swept so the map does not grow without bound.
type Registry struct {
	mu      sync.Mutex
	entries map[Key]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[Key]entry)}
}

func (r *Registry) Start(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = entry{busy: true}
}

func (r *Registry) Stop(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = entry{busy: false, stopped: time.Now()}
}

// Busy reports whether key has an operation in flight. Unknown keys are idle.
func (r *Registry) Busy(key Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[key].busy
}

// Evict drops a single entry regardless of state.
func (r *Registry) Evict(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

// Sweep removes idle entries that finished more than maxIdle ago and returns
// how many were dropped.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for k, e := range r.entries {
		if !e.busy && e.stopped.Before(cutoff) {
			delete(r.entries, k)
			dropped++
		}
	}
	return dropped
}

// Len is exposed for tests and diagnostics.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
