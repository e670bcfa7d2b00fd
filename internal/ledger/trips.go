package ledger

import (
	"context"
	"strings"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/scope"
	"fleetdesk/internal/store"
)

// TripInput carries the caller-supplied fields for a new trip. Which
// fields are required depends on the actor's role: owners and drivers file
// the standard shape, partners file the referral shape. Fields outside the
// actor's shape are ignored.
type TripInput struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	VehicleID string    `json:"vehicleId"`

	// standard shape
	DriverID        string `json:"driverId"`
	PickupLocation  string `json:"pickupLocation"`
	DropoffLocation string `json:"dropoffLocation"`
	FuelCost        int64  `json:"fuelCost"`
	Fare            int64  `json:"fare"`
	Paid            bool   `json:"paid"`

	// referral shape
	Content string `json:"content"`

	// both shapes
	CustomerID    string `json:"customerId"`
	StartOdometer int64  `json:"startOdometer"`
	EndOdometer   int64  `json:"endOdometer"`
	TicketCost    int64  `json:"ticketCost"`
}

// CreateTrip validates the shape for the actor's role, denormalizes the
// referenced entity names at call time and writes the new ledger entry.
// The name snapshots are intentionally frozen: renaming a vehicle, driver
// or customer later never rewrites existing trips.
func (l Ledger) CreateTrip(ctx context.Context, in TripInput) (domain.Trip, error) {
	actor := l.Actor()

	if in.StartDate.IsZero() {
		return domain.Trip{}, domain.ValidationError{Field: "startDate", Msg: "required"}
	}
	if in.EndDate.IsZero() {
		return domain.Trip{}, domain.ValidationError{Field: "endDate", Msg: "required"}
	}
	if in.EndDate.Before(in.StartDate) {
		return domain.Trip{}, domain.ValidationError{Field: "endDate", Msg: "before start date"}
	}

	vehicle, err := l.lookupVehicle(in.VehicleID)
	if err != nil {
		return domain.Trip{}, err
	}

	trip := domain.Trip{
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		VehicleID:     vehicle.ID,
		VehicleName:   vehicle.Name,
		CreatedBy:     actor.ID,
		CreatorRole:   actor.Role,
		CreatedAt:     time.Now(),
		StartOdometer: in.StartOdometer,
		EndOdometer:   in.EndOdometer,
		TicketCost:    in.TicketCost,
	}

	if actor.Role == domain.RolePartner {
		if strings.TrimSpace(in.Content) == "" {
			return domain.Trip{}, domain.ValidationError{Field: "content", Msg: "required"}
		}
		customer, err := l.lookupCustomer(in.CustomerID)
		if err != nil {
			return domain.Trip{}, err
		}
		trip.Content = strings.TrimSpace(in.Content)
		trip.ReferrerID = actor.ID
		trip.ReferrerName = actor.Name
		trip.CustomerID = customer.ID
		trip.CustomerName = customer.Name
		// fare is approved later by an owner; a partner never files one
		trip.Fare = 0
		trip.Paid = false
	} else {
		if strings.TrimSpace(in.PickupLocation) == "" {
			return domain.Trip{}, domain.ValidationError{Field: "pickupLocation", Msg: "required"}
		}
		if strings.TrimSpace(in.DropoffLocation) == "" {
			return domain.Trip{}, domain.ValidationError{Field: "dropoffLocation", Msg: "required"}
		}
		if in.Fare < 0 {
			return domain.Trip{}, domain.ValidationError{Field: "fare", Msg: "must not be negative"}
		}
		driver, err := l.lookupDriver(in.DriverID)
		if err != nil {
			return domain.Trip{}, err
		}
		customer, err := l.lookupCustomer(in.CustomerID)
		if err != nil {
			return domain.Trip{}, err
		}
		trip.DriverID = driver.ID
		trip.DriverName = driver.Name
		trip.CustomerID = customer.ID
		trip.CustomerName = customer.Name
		trip.PickupLocation = strings.TrimSpace(in.PickupLocation)
		trip.DropoffLocation = strings.TrimSpace(in.DropoffLocation)
		trip.FuelCost = in.FuelCost
		trip.Fare = in.Fare
		if in.Paid && in.Fare <= 0 {
			return domain.Trip{}, domain.StateError{Msg: "cannot mark paid before a fare is set"}
		}
		trip.Paid = in.Paid
	}

	id, err := l.Store.Collection(store.ColTrips).Add(ctx, trip)
	if err != nil {
		return domain.Trip{}, domain.RemoteWriteError{Op: "create trip", Err: err}
	}
	trip.ID = id
	return trip, nil
}

// SetFare approves (or re-approves) a trip's fare. Owner only; the amount
// must be positive. Overwriting an already-set fare is allowed.
func (l Ledger) SetFare(ctx context.Context, tripID string, amount int64) error {
	if !scope.CanSetFare(l.Actor().Role) {
		return domain.AuthorizationError{Op: "set fare", Msg: "owner role required"}
	}
	if amount <= 0 {
		return domain.ValidationError{Field: "fare", Msg: "must be positive"}
	}
	if _, err := l.tripByID(tripID); err != nil {
		return err
	}
	err := l.Store.Collection(store.ColTrips).Update(ctx, tripID, map[string]any{"fare": amount})
	if err != nil {
		return domain.RemoteWriteError{Op: "set fare", Err: err}
	}
	return nil
}

// MarkPaid records payment collection for a fare-approved trip. Owner
// only; paid is a one-way transition and marking an already-paid trip is a
// no-op.
func (l Ledger) MarkPaid(ctx context.Context, tripID string) error {
	if !scope.CanMarkPaid(l.Actor().Role) {
		return domain.AuthorizationError{Op: "mark paid", Msg: "owner role required"}
	}
	trip, err := l.tripByID(tripID)
	if err != nil {
		return err
	}
	if trip.Fare <= 0 {
		return domain.StateError{Msg: "fare not set yet"}
	}
	if trip.Paid {
		return nil
	}
	err = l.Store.Collection(store.ColTrips).Update(ctx, tripID, map[string]any{"paid": true})
	if err != nil {
		return domain.RemoteWriteError{Op: "mark paid", Err: err}
	}
	return nil
}

// DeleteTrip removes a ledger entry. Owner only.
func (l Ledger) DeleteTrip(ctx context.Context, tripID string) error {
	if !scope.CanDeleteTrip(l.Actor().Role) {
		return domain.AuthorizationError{Op: "delete trip", Msg: "owner role required"}
	}
	if _, err := l.tripByID(tripID); err != nil {
		return err
	}
	if err := l.Store.Collection(store.ColTrips).Delete(ctx, tripID); err != nil {
		return domain.RemoteWriteError{Op: "delete trip", Err: err}
	}
	return nil
}

// lookup helpers resolve references against the actor's visible mirrors,
// so a partner cannot attach someone else's vehicle or customer.

func (l Ledger) lookupVehicle(id string) (domain.Vehicle, error) {
	if id == "" {
		return domain.Vehicle{}, domain.ValidationError{Field: "vehicleId", Msg: "required"}
	}
	vehicles, err := l.Vehicles()
	if err != nil {
		return domain.Vehicle{}, err
	}
	for _, v := range vehicles {
		if v.ID == id {
			return v, nil
		}
	}
	return domain.Vehicle{}, domain.ValidationError{Field: "vehicleId", Msg: "unknown vehicle"}
}

func (l Ledger) lookupDriver(id string) (domain.Driver, error) {
	if id == "" {
		return domain.Driver{}, domain.ValidationError{Field: "driverId", Msg: "required"}
	}
	drivers, err := l.Drivers()
	if err != nil {
		return domain.Driver{}, err
	}
	for _, d := range drivers {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Driver{}, domain.ValidationError{Field: "driverId", Msg: "unknown driver"}
}

func (l Ledger) lookupCustomer(id string) (domain.Customer, error) {
	if id == "" {
		return domain.Customer{}, domain.ValidationError{Field: "customerId", Msg: "required"}
	}
	customers, err := l.Customers()
	if err != nil {
		return domain.Customer{}, err
	}
	for _, c := range customers {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Customer{}, domain.ValidationError{Field: "customerId", Msg: "unknown customer"}
}
