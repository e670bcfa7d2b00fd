// Package mysqlstore backs the document-store contract with MySQL. Every
// application document lives as one JSON row in a single `documents`
// table, namespaced by app id and collection; after each write the full
// collection is re-read and pushed to subscribers, preserving the
// full-replace snapshot contract.
package mysqlstore

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/store"
)

// Schema kept in db/schema.sql:
//
//	CREATE TABLE documents (
//	    app_id     VARCHAR(64)  NOT NULL,
//	    collection VARCHAR(64)  NOT NULL,
//	    doc_id     VARCHAR(64)  NOT NULL,
//	    body       JSON         NOT NULL,
//	    updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
//	        ON UPDATE CURRENT_TIMESTAMP,
//	    PRIMARY KEY (app_id, collection, doc_id)
//	);

// Store implements store.Store on a *sql.DB.
type Store struct {
	db    *sql.DB
	appID string

	mu      sync.Mutex
	subs    map[string]map[int]store.SnapshotFunc
	nextSub int
}

// New wraps db under the given application namespace.
func New(db *sql.DB, appID string) *Store {
	return &Store{
		db:    db,
		appID: appID,
		subs:  make(map[string]map[int]store.SnapshotFunc),
	}
}

func (s *Store) Collection(name string) store.Collection {
	return collection{s: s, name: name}
}

func (s *Store) Close() error { return s.db.Close() }

type collection struct {
	s    *Store
	name string
}

func (c collection) Name() string { return c.name }

func (c collection) List(ctx context.Context) (store.Snapshot, error) {
	rows, err := c.s.db.QueryContext(ctx, `
        SELECT doc_id, body
        FROM documents
        WHERE app_id = ? AND collection = ?
        ORDER BY doc_id
    `, c.s.appID, c.name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snap store.Snapshot
	for rows.Next() {
		var (
			id   string
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		snap = append(snap, store.Document{ID: id, Data: body})
	}
	return snap, rows.Err()
}

func (c collection) Add(ctx context.Context, data any) (string, error) {
	id := store.NewDocID()
	if err := c.Set(ctx, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (c collection) Set(ctx context.Context, id string, data any) error {
	body, err := store.EncodeWithID(id, data)
	if err != nil {
		return err
	}
	_, err = c.s.db.ExecContext(ctx, `
        INSERT INTO documents (app_id, collection, doc_id, body)
        VALUES (?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE body = VALUES(body)
    `, c.s.appID, c.name, id, []byte(body))
	if err != nil {
		return err
	}
	return c.s.notify(ctx, c.name)
}

func (c collection) Update(ctx context.Context, id string, fields map[string]any) error {
	var body []byte
	err := c.s.db.QueryRowContext(ctx, `
        SELECT body FROM documents
        WHERE app_id = ? AND collection = ? AND doc_id = ?
    `, c.s.appID, c.name, id).Scan(&body)
	if err == sql.ErrNoRows {
		return domain.NotFoundError{Resource: c.name, ID: id}
	}
	if err != nil {
		return err
	}

	merged, err := store.MergeFields(body, fields)
	if err != nil {
		return err
	}
	_, err = c.s.db.ExecContext(ctx, `
        UPDATE documents SET body = ?
        WHERE app_id = ? AND collection = ? AND doc_id = ?
    `, []byte(merged), c.s.appID, c.name, id)
	if err != nil {
		return err
	}
	return c.s.notify(ctx, c.name)
}

func (c collection) Delete(ctx context.Context, id string) error {
	res, err := c.s.db.ExecContext(ctx, `
        DELETE FROM documents
        WHERE app_id = ? AND collection = ? AND doc_id = ?
    `, c.s.appID, c.name, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: c.name, ID: id}
	}
	return c.s.notify(ctx, c.name)
}

func (c collection) Subscribe(fn store.SnapshotFunc) (func(), error) {
	c.s.mu.Lock()

	snap, err := c.List(context.Background())
	if err != nil {
		c.s.mu.Unlock()
		return nil, err
	}

	key := c.s.nextSub
	c.s.nextSub++
	if c.s.subs[c.name] == nil {
		c.s.subs[c.name] = make(map[int]store.SnapshotFunc)
	}
	c.s.subs[c.name][key] = fn

	// initial snapshot delivered under mu, so no concurrent write can slip
	// its newer snapshot in ahead of this one
	fn(snap)
	c.s.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			c.s.mu.Lock()
			delete(c.s.subs[c.name], key)
			c.s.mu.Unlock()
		})
	}
	return unsubscribe, nil
}

// notify re-reads the collection and fans the fresh snapshot out to its
// subscribers. The re-read happens under mu together with the callbacks:
// whoever holds the lock reads current state and delivers it before the
// next writer can, so same-collection subscribers never see a snapshot
// older than one already delivered.
func (s *Store) notify(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := (collection{s: s, name: name}).List(ctx)
	if err != nil {
		return err
	}

	keys := make([]int, 0, len(s.subs[name]))
	for k := range s.subs[name] {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		s.subs[name][k](snap)
	}
	return nil
}
