// Package scope derives per-actor visibility over mirrored collections and
// the matching write authorizations. Read filters and write checks are
// pure functions over domain values; enforcement happens in the ledger
// before any store call, and again at the HTTP layer for route gating.
package scope

import (
	"fleetdesk/internal/domain"
	"fleetdesk/internal/store"
)

// CanRead reports whether the role may see the collection at all.
func CanRead(role domain.Role, collection string) bool {
	switch collection {
	case store.ColAccounts:
		return role == domain.RoleOwner
	case store.ColDrivers:
		return role != domain.RolePartner
	case store.ColVehicles, store.ColCustomers, store.ColTrips:
		return true
	}
	return false
}

// VisibleVehicles filters the vehicle replica for the actor. Partners see
// only vehicles they created; everyone else sees the full set.
func VisibleVehicles(actor domain.Actor, all []domain.Vehicle) []domain.Vehicle {
	if actor.Role != domain.RolePartner {
		return all
	}
	out := make([]domain.Vehicle, 0, len(all))
	for _, v := range all {
		if v.CreatedBy == actor.ID {
			out = append(out, v)
		}
	}
	return out
}

// VisibleCustomers filters the customer replica the same way as vehicles.
func VisibleCustomers(actor domain.Actor, all []domain.Customer) []domain.Customer {
	if actor.Role != domain.RolePartner {
		return all
	}
	out := make([]domain.Customer, 0, len(all))
	for _, c := range all {
		if c.CreatedBy == actor.ID {
			out = append(out, c)
		}
	}
	return out
}

// VisibleDrivers hides the driver roster from partners entirely.
func VisibleDrivers(actor domain.Actor, all []domain.Driver) []domain.Driver {
	if actor.Role == domain.RolePartner {
		return []domain.Driver{}
	}
	return all
}

// VisibleAccounts restricts the staff roster to owners.
func VisibleAccounts(actor domain.Actor, all []domain.Account) []domain.Account {
	if actor.Role != domain.RoleOwner {
		return []domain.Account{}
	}
	return all
}

// VisibleTrips filters the trip ledger: partners see only trips they
// referred, owners and drivers see everything.
func VisibleTrips(actor domain.Actor, all []domain.Trip) []domain.Trip {
	if actor.Role != domain.RolePartner {
		return all
	}
	out := make([]domain.Trip, 0, len(all))
	for _, t := range all {
		if t.ReferrerID == actor.ID {
			out = append(out, t)
		}
	}
	return out
}

// CanCreateEntity reports whether the role may create a record in the
// given reference collection. Drivers are owner-managed; vehicles and
// customers may also be created by partners.
func CanCreateEntity(role domain.Role, collection string) bool {
	switch collection {
	case store.ColVehicles, store.ColCustomers:
		return role == domain.RoleOwner || role == domain.RolePartner
	case store.ColDrivers:
		return role == domain.RoleOwner
	}
	return false
}

// CanDeleteEntity checks the ownership rules for deleting a record whose
// creator is createdBy. Owners delete anything; partners only vehicles and
// customers they created themselves.
func CanDeleteEntity(actor domain.Actor, collection, createdBy string) bool {
	if actor.Role == domain.RoleOwner {
		return true
	}
	if actor.Role == domain.RolePartner {
		switch collection {
		case store.ColVehicles, store.ColCustomers:
			return createdBy == actor.ID
		}
	}
	return false
}

// CanSetFare: fare approval is an owner transition.
func CanSetFare(role domain.Role) bool { return role == domain.RoleOwner }

// CanMarkPaid: collecting payment is an owner transition.
func CanMarkPaid(role domain.Role) bool { return role == domain.RoleOwner }

// CanDeleteTrip: ledger entries are removed by owners only.
func CanDeleteTrip(role domain.Role) bool { return role == domain.RoleOwner }

// CanManageAccounts covers staff onboarding, edits and deletion.
func CanManageAccounts(role domain.Role) bool { return role == domain.RoleOwner }

// CanViewFinance gates financial reports and debt tracking. Drivers keep
// operational visibility without financial administration; partners have
// no reporting surface at all.
func CanViewFinance(role domain.Role) bool { return role == domain.RoleOwner }
