package mirror

import (
	"sort"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/scope"
	"fleetdesk/internal/store"
)

// Session owns the mirrors of one authenticated session. It is the single
// state container the ledger, reports and debt tracker read from; nothing
// in this package is ambient global state. One subscription per collection
// lives for the session's lifetime and is torn down by Close (logout).
//
// Accessors return unfiltered decoded collections; role filtering is the
// scope package's job. The accounts collection is only watched for owners,
// matching the remote listener set of the dashboard.
type Session struct {
	Actor domain.Actor

	accounts  *Mirror
	vehicles  *Mirror
	drivers   *Mirror
	customers *Mirror
	trips     *Mirror
}

// Open watches the session's collections. On any subscription failure the
// partially opened mirrors are closed again.
func Open(st store.Store, actor domain.Actor) (*Session, error) {
	s := &Session{Actor: actor}

	watch := func(name string) (*Mirror, error) {
		return Watch(st.Collection(name))
	}

	var err error
	if s.vehicles, err = watch(store.ColVehicles); err != nil {
		return nil, err
	}
	if s.drivers, err = watch(store.ColDrivers); err != nil {
		s.Close()
		return nil, err
	}
	if s.customers, err = watch(store.ColCustomers); err != nil {
		s.Close()
		return nil, err
	}
	if s.trips, err = watch(store.ColTrips); err != nil {
		s.Close()
		return nil, err
	}
	if scope.CanRead(actor.Role, store.ColAccounts) {
		if s.accounts, err = watch(store.ColAccounts); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Close tears down every mirror subscription. Idempotent.
func (s *Session) Close() {
	for _, m := range []*Mirror{s.accounts, s.vehicles, s.drivers, s.customers, s.trips} {
		if m != nil {
			m.Close()
		}
	}
}

// AllVehicles returns the unfiltered vehicle replica.
func (s *Session) AllVehicles() ([]domain.Vehicle, error) {
	return store.Decode[domain.Vehicle](s.vehicles.Snapshot())
}

// AllDrivers returns the unfiltered driver replica.
func (s *Session) AllDrivers() ([]domain.Driver, error) {
	return store.Decode[domain.Driver](s.drivers.Snapshot())
}

// AllCustomers returns the unfiltered customer replica.
func (s *Session) AllCustomers() ([]domain.Customer, error) {
	return store.Decode[domain.Customer](s.customers.Snapshot())
}

// AllAccounts returns the account replica; empty for sessions that do not
// watch the accounts collection.
func (s *Session) AllAccounts() ([]domain.Account, error) {
	if s.accounts == nil {
		return nil, nil
	}
	return store.Decode[domain.Account](s.accounts.Snapshot())
}

// AllTrips returns the unfiltered trip replica, newest first.
func (s *Session) AllTrips() ([]domain.Trip, error) {
	trips, err := store.Decode[domain.Trip](s.trips.Snapshot())
	if err != nil {
		return nil, err
	}
	sort.SliceStable(trips, func(i, j int) bool {
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})
	return trips, nil
}
