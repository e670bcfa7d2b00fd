package mirror

import (
	"context"
	"testing"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/store"
)

func TestMirrorIsPopulatedBeforeWatchReturns(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	col := st.Collection(store.ColVehicles)
	if _, err := col.Add(ctx, domain.Vehicle{Name: "Bus 01"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	m, err := Watch(col)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer m.Close()

	if len(m.Snapshot()) != 1 {
		t.Fatalf("mirror not populated, got %d docs", len(m.Snapshot()))
	}
}

func TestMirrorReplacesStateWholesale(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	col := st.Collection(store.ColVehicles)

	m, err := Watch(col)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer m.Close()

	id1, _ := col.Add(ctx, domain.Vehicle{Name: "Bus 01"})
	id2, _ := col.Add(ctx, domain.Vehicle{Name: "Bus 02"})
	if err := col.Delete(ctx, id1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// no residue from earlier snapshots
	snap := m.Snapshot()
	if len(snap) != 1 || snap[0].ID != id2 {
		t.Fatalf("expected only %s to survive, got %+v", id2, snap)
	}
}

func TestMirrorCloseFreezesStateAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	col := st.Collection(store.ColVehicles)

	m, err := Watch(col)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	if _, err := col.Add(ctx, domain.Vehicle{Name: "Bus 01"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	before := len(m.Snapshot())

	m.Close()
	m.Close() // idempotent

	if _, err := col.Add(ctx, domain.Vehicle{Name: "Bus 02"}); err != nil {
		t.Fatalf("add after close: %v", err)
	}
	if len(m.Snapshot()) != before {
		t.Fatalf("closed mirror kept mutating: %d -> %d", before, len(m.Snapshot()))
	}
}

func TestSessionWatchesAccountsOnlyForOwner(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	if err := st.Collection(store.ColAccounts).Set(ctx, "a1", domain.Account{Name: "Boss", Role: domain.RoleOwner}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	owner, err := Open(st, domain.Actor{ID: "a1", Role: domain.RoleOwner})
	if err != nil {
		t.Fatalf("open owner: %v", err)
	}
	defer owner.Close()
	accounts, err := owner.AllAccounts()
	if err != nil {
		t.Fatalf("accounts: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("owner should see the roster, got %d", len(accounts))
	}

	driver, err := Open(st, domain.Actor{ID: "d1", Role: domain.RoleDriver})
	if err != nil {
		t.Fatalf("open driver: %v", err)
	}
	defer driver.Close()
	accounts, err = driver.AllAccounts()
	if err != nil {
		t.Fatalf("accounts: %v", err)
	}
	if len(accounts) != 0 {
		t.Fatalf("driver session must not watch accounts, got %d", len(accounts))
	}
}

func TestSessionTripsSortedNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	trips := st.Collection(store.ColTrips)

	older := domain.Trip{CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	newer := domain.Trip{CreatedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)}
	if err := trips.Set(ctx, "t-old", older); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := trips.Set(ctx, "t-new", newer); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s, err := Open(st, domain.Actor{ID: "a1", Role: domain.RoleOwner})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	got, err := s.AllTrips()
	if err != nil {
		t.Fatalf("trips: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t-new" || got[1].ID != "t-old" {
		t.Fatalf("trips not sorted newest first: %+v", got)
	}
}

func TestRegistryReusesAndDropsSessions(t *testing.T) {
	st := store.NewMemory()
	reg := NewRegistry(st)
	defer reg.CloseAll()

	actor := domain.Actor{ID: "a1", Role: domain.RoleOwner}
	s1, err := reg.Get(actor)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	s2, err := reg.Get(actor)
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if s1 != s2 {
		t.Fatalf("expected the same session instance")
	}

	reg.Drop(actor.ID)
	s3, err := reg.Get(actor)
	if err != nil {
		t.Fatalf("get after drop: %v", err)
	}
	if s3 == s1 {
		t.Fatalf("dropped session was reused")
	}
}
