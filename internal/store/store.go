// Package store defines the remote document-store contract the session
// engine is built against: named collections of opaque-id JSON documents,
// per-document writes, and full-snapshot push notifications. Every
// notification carries the complete current state of the collection; there
// is no diff protocol.
package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Collection names used by the application namespace.
const (
	ColAccounts    = "accounts"
	ColVehicles    = "vehicles"
	ColDrivers     = "drivers"
	ColCustomers   = "customers"
	ColTrips       = "trips"
	ColCredentials = "credentials"
)

// Document is one entry of a snapshot. Data always contains the document
// id under the "id" key, mirroring how consumers see remote documents.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Snapshot is the complete state of a collection at one point in time.
type Snapshot []Document

// SnapshotFunc receives the full replacement state of a collection.
// Handlers for the same collection are invoked in delivery order and must
// treat every call as authoritative and total.
type SnapshotFunc func(Snapshot)

// Collection is one remote collection.
type Collection interface {
	Name() string

	// List returns the current full snapshot.
	List(ctx context.Context) (Snapshot, error)

	// Add stores data under a newly generated id and returns the id.
	Add(ctx context.Context, data any) (string, error)

	// Set stores data under the given id, creating or replacing.
	Set(ctx context.Context, id string, data any) error

	// Update merges the given fields into an existing document.
	Update(ctx context.Context, id string, fields map[string]any) error

	Delete(ctx context.Context, id string) error

	// Subscribe registers fn for snapshot notifications. The current
	// snapshot is delivered immediately, then again after every write.
	// The returned unsubscribe func is idempotent.
	Subscribe(fn SnapshotFunc) (func(), error)
}

// Store groups the collections of one application namespace.
type Store interface {
	Collection(name string) Collection
	Close() error
}

// NewDocID generates an opaque document id.
func NewDocID() string {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("store: id generation: %v", err))
	}
	return hex.EncodeToString(b)
}

// Decode unmarshals every document of a snapshot into T.
func Decode[T any](snap Snapshot) ([]T, error) {
	out := make([]T, 0, len(snap))
	for _, d := range snap {
		var v T
		if err := json.Unmarshal(d.Data, &v); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", d.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// EncodeWithID marshals data and stamps the document id into the body, so
// decoded values carry their own id the way snapshot consumers expect.
func EncodeWithID(id string, data any) (json.RawMessage, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	m["id"] = id
	return json.Marshal(m)
}

// MergeFields applies a partial update onto an existing document body.
func MergeFields(body json.RawMessage, fields map[string]any) (json.RawMessage, error) {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, err
	}
	for k, v := range fields {
		m[k] = v
	}
	return json.Marshal(m)
}
