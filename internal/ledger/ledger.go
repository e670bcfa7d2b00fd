// Package ledger exposes typed, role-filtered views over the mirrored
// collections and the narrow set of validated write operations: trip
// creation, fare approval, payment collection, and reference-entity
// management. Every write is authorized and validated before the store is
// touched; store failures come back as RemoteWriteError with the mirrors
// untouched.
package ledger

import (
	"fleetdesk/internal/domain"
	"fleetdesk/internal/mirror"
	"fleetdesk/internal/scope"
	"fleetdesk/internal/store"
)

// Ledger binds one session's mirrors to the remote store for writes.
type Ledger struct {
	Store   store.Store
	Session *mirror.Session
}

// Actor returns the identity this ledger acts as.
func (l Ledger) Actor() domain.Actor { return l.Session.Actor }

// Trips returns the trips visible to the actor, newest first.
func (l Ledger) Trips() ([]domain.Trip, error) {
	all, err := l.Session.AllTrips()
	if err != nil {
		return nil, err
	}
	return scope.VisibleTrips(l.Actor(), all), nil
}

// Vehicles returns the vehicles visible to the actor.
func (l Ledger) Vehicles() ([]domain.Vehicle, error) {
	all, err := l.Session.AllVehicles()
	if err != nil {
		return nil, err
	}
	return scope.VisibleVehicles(l.Actor(), all), nil
}

// Drivers returns the driver roster visible to the actor.
func (l Ledger) Drivers() ([]domain.Driver, error) {
	all, err := l.Session.AllDrivers()
	if err != nil {
		return nil, err
	}
	return scope.VisibleDrivers(l.Actor(), all), nil
}

// Customers returns the customers visible to the actor.
func (l Ledger) Customers() ([]domain.Customer, error) {
	all, err := l.Session.AllCustomers()
	if err != nil {
		return nil, err
	}
	return scope.VisibleCustomers(l.Actor(), all), nil
}

// Accounts returns the staff roster; empty unless the actor is an owner.
func (l Ledger) Accounts() ([]domain.Account, error) {
	all, err := l.Session.AllAccounts()
	if err != nil {
		return nil, err
	}
	return scope.VisibleAccounts(l.Actor(), all), nil
}

// tripByID finds a trip in the actor's visible set.
func (l Ledger) tripByID(id string) (domain.Trip, error) {
	trips, err := l.Trips()
	if err != nil {
		return domain.Trip{}, err
	}
	for _, t := range trips {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Trip{}, domain.NotFoundError{Resource: "trip", ID: id}
}
