package store

import (
	"context"
	"sort"
	"sync"

	"fleetdesk/internal/domain"
)

// Memory is an in-process Store. It is the default backend when no
// database is configured and the fixture backend for tests. Writes and
// snapshot fan-out happen under one lock, so subscribers of a collection
// observe notifications in write order.
type Memory struct {
	mu   sync.Mutex
	cols map[string]*memCollection
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{cols: make(map[string]*memCollection)}
}

func (m *Memory) Collection(name string) Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cols[name]
	if !ok {
		c = &memCollection{
			store: m,
			name:  name,
			docs:  make(map[string]Document),
			subs:  make(map[int]SnapshotFunc),
		}
		m.cols[name] = c
	}
	return c
}

func (m *Memory) Close() error { return nil }

type memCollection struct {
	store   *Memory
	name    string
	docs    map[string]Document
	seq     []string // doc ids in insertion order
	subs    map[int]SnapshotFunc
	nextSub int
}

func (c *memCollection) Name() string { return c.name }

func (c *memCollection) List(ctx context.Context) (Snapshot, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.snapshotLocked(), nil
}

func (c *memCollection) Add(ctx context.Context, data any) (string, error) {
	id := NewDocID()
	if err := c.Set(ctx, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (c *memCollection) Set(ctx context.Context, id string, data any) error {
	body, err := EncodeWithID(id, data)
	if err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if _, exists := c.docs[id]; !exists {
		c.seq = append(c.seq, id)
	}
	c.docs[id] = Document{ID: id, Data: body}
	c.notifyLocked()
	return nil
}

func (c *memCollection) Update(ctx context.Context, id string, fields map[string]any) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	doc, ok := c.docs[id]
	if !ok {
		return errNotFound(c.name, id)
	}
	body, err := MergeFields(doc.Data, fields)
	if err != nil {
		return err
	}
	c.docs[id] = Document{ID: id, Data: body}
	c.notifyLocked()
	return nil
}

func (c *memCollection) Delete(ctx context.Context, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return errNotFound(c.name, id)
	}
	delete(c.docs, id)
	for i, v := range c.seq {
		if v == id {
			c.seq = append(c.seq[:i], c.seq[i+1:]...)
			break
		}
	}
	c.notifyLocked()
	return nil
}

func (c *memCollection) Subscribe(fn SnapshotFunc) (func(), error) {
	c.store.mu.Lock()
	key := c.nextSub
	c.nextSub++
	c.subs[key] = fn

	// initial full snapshot, delivered under the lock so a concurrent
	// write cannot fan out its newer snapshot first
	fn(c.snapshotLocked())
	c.store.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			c.store.mu.Lock()
			delete(c.subs, key)
			c.store.mu.Unlock()
		})
	}
	return unsubscribe, nil
}

func (c *memCollection) snapshotLocked() Snapshot {
	snap := make(Snapshot, 0, len(c.docs))
	for _, id := range c.seq {
		snap = append(snap, c.docs[id])
	}
	return snap
}

func (c *memCollection) notifyLocked() {
	snap := c.snapshotLocked()
	keys := make([]int, 0, len(c.subs))
	for k := range c.subs {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		c.subs[k](snap)
	}
}

func errNotFound(col, id string) error {
	return domain.NotFoundError{Resource: col, ID: id}
}
