package ledger

import (
	"context"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/scope"
	"fleetdesk/internal/store"
	"fleetdesk/internal/utils"
)

// CreateVehicle adds a vehicle to the fleet. Owners and partners may
// create; partner-created vehicles stay private to their creator.
func (l Ledger) CreateVehicle(ctx context.Context, name string) (domain.Vehicle, error) {
	if err := l.checkEntityCreate(store.ColVehicles, &name); err != nil {
		return domain.Vehicle{}, err
	}
	v := domain.Vehicle{Name: name, CreatedAt: time.Now(), CreatedBy: l.Actor().ID}
	id, err := l.Store.Collection(store.ColVehicles).Add(ctx, v)
	if err != nil {
		return domain.Vehicle{}, domain.RemoteWriteError{Op: "create vehicle", Err: err}
	}
	v.ID = id
	return v, nil
}

// CreateDriver adds a driver to the roster. Owner only.
func (l Ledger) CreateDriver(ctx context.Context, name string) (domain.Driver, error) {
	if err := l.checkEntityCreate(store.ColDrivers, &name); err != nil {
		return domain.Driver{}, err
	}
	d := domain.Driver{Name: name, CreatedAt: time.Now(), CreatedBy: l.Actor().ID}
	id, err := l.Store.Collection(store.ColDrivers).Add(ctx, d)
	if err != nil {
		return domain.Driver{}, domain.RemoteWriteError{Op: "create driver", Err: err}
	}
	d.ID = id
	return d, nil
}

// CreateCustomer adds a customer. Owners and partners may create.
func (l Ledger) CreateCustomer(ctx context.Context, name string) (domain.Customer, error) {
	if err := l.checkEntityCreate(store.ColCustomers, &name); err != nil {
		return domain.Customer{}, err
	}
	c := domain.Customer{Name: name, CreatedAt: time.Now(), CreatedBy: l.Actor().ID}
	id, err := l.Store.Collection(store.ColCustomers).Add(ctx, c)
	if err != nil {
		return domain.Customer{}, domain.RemoteWriteError{Op: "create customer", Err: err}
	}
	c.ID = id
	return c, nil
}

// DeleteEntity removes a reference entity, enforcing ownership: owners
// delete anything, partners only vehicles/customers they created.
func (l Ledger) DeleteEntity(ctx context.Context, collection, id string) error {
	createdBy, err := l.entityCreator(collection, id)
	if err != nil {
		return err
	}
	if !scope.CanDeleteEntity(l.Actor(), collection, createdBy) {
		return domain.AuthorizationError{Op: "delete " + collection, Msg: "only your own records"}
	}
	if err := l.Store.Collection(collection).Delete(ctx, id); err != nil {
		return domain.RemoteWriteError{Op: "delete " + collection, Err: err}
	}
	return nil
}

func (l Ledger) checkEntityCreate(collection string, name *string) error {
	if !scope.CanCreateEntity(l.Actor().Role, collection) {
		return domain.AuthorizationError{Op: "create " + collection}
	}
	*name = utils.NormalizeSpace(*name)
	if *name == "" {
		return domain.ValidationError{Field: "name", Msg: "required"}
	}
	return nil
}

// entityCreator resolves the createdBy field of a reference entity from
// the actor's visible mirrors. An id outside the actor's visible set is
// reported as not found rather than leaking its existence.
func (l Ledger) entityCreator(collection, id string) (string, error) {
	switch collection {
	case store.ColVehicles:
		vehicles, err := l.Vehicles()
		if err != nil {
			return "", err
		}
		for _, v := range vehicles {
			if v.ID == id {
				return v.CreatedBy, nil
			}
		}
	case store.ColDrivers:
		drivers, err := l.Drivers()
		if err != nil {
			return "", err
		}
		for _, d := range drivers {
			if d.ID == id {
				return d.CreatedBy, nil
			}
		}
	case store.ColCustomers:
		customers, err := l.Customers()
		if err != nil {
			return "", err
		}
		for _, c := range customers {
			if c.ID == id {
				return c.CreatedBy, nil
			}
		}
	default:
		return "", domain.ValidationError{Field: "collection", Msg: "unknown collection " + collection}
	}
	return "", domain.NotFoundError{Resource: collection, ID: id}
}
