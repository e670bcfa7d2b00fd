// Package mirror keeps in-memory replicas of remote collections current.
// Each Mirror tracks exactly one collection; every snapshot notification
// replaces the previous copy wholesale, so the replica after notification
// N is exactly snapshot N with no residue from N-1.
package mirror

import (
	"sync"

	"fleetdesk/internal/store"
)

// Mirror is the replica of one collection.
type Mirror struct {
	name string

	mu     sync.Mutex
	docs   store.Snapshot
	closed bool
	unsub  func()
}

// Watch subscribes to the collection and returns a live mirror. The store
// delivers the current snapshot during Subscribe, so the mirror is
// populated before Watch returns.
func Watch(col store.Collection) (*Mirror, error) {
	m := &Mirror{name: col.Name()}
	unsub, err := col.Subscribe(m.apply)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.unsub = unsub
	m.mu.Unlock()
	return m, nil
}

// apply installs a full replacement snapshot. Notifications arriving after
// Close are dropped so consumer-visible state stops mutating.
func (m *Mirror) apply(snap store.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	next := make(store.Snapshot, len(snap))
	copy(next, snap)
	m.docs = next
}

// Name returns the mirrored collection's name.
func (m *Mirror) Name() string { return m.name }

// Snapshot returns the current replica contents.
func (m *Mirror) Snapshot() store.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(store.Snapshot, len(m.docs))
	copy(out, m.docs)
	return out
}

// Close unsubscribes and freezes the mirror. Idempotent.
func (m *Mirror) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	unsub := m.unsub
	m.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}
