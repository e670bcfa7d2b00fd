package domain

import "time"

// TripStatus is derived from the fare/paid fields; there is no separate
// status column in the stored document.
type TripStatus string

const (
	TripPending TripStatus = "pending"  // fare not approved yet
	TripFareSet TripStatus = "fare_set" // fare approved, payment outstanding
	TripPaid    TripStatus = "paid"     // terminal
)

// Trip is the ledger entry. A trip is exactly one of two shapes, decided by
// CreatorRole at creation and never converted:
//
//   - standard (owner/driver): driver, customer, pickup/dropoff, fuel cost,
//     fare and paid flag
//   - referral (partner): free-text content, referrer, customer; fare is
//     set later by an owner
//
// All *Name fields are denormalized snapshots of the referenced entity's
// name at creation time. They are intentionally never updated when the
// entity is renamed, so the ledger keeps its historical labels.
type Trip struct {
	ID        string    `json:"id"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	VehicleID   string `json:"vehicleId"`
	VehicleName string `json:"vehicleName"`

	CreatedBy   string    `json:"createdBy"`
	CreatorRole Role      `json:"creatorRole"`
	CreatedAt   time.Time `json:"createdAt"`

	// standard shape
	DriverID        string `json:"driverId,omitempty"`
	DriverName      string `json:"driverName,omitempty"`
	PickupLocation  string `json:"pickupLocation,omitempty"`
	DropoffLocation string `json:"dropoffLocation,omitempty"`
	FuelCost        int64  `json:"fuelCost,omitempty"`

	// referral shape
	Content      string `json:"content,omitempty"`
	ReferrerID   string `json:"referrerId,omitempty"`
	ReferrerName string `json:"referrerName,omitempty"`

	// both shapes
	CustomerID    string `json:"customerId,omitempty"`
	CustomerName  string `json:"customerName,omitempty"`
	StartOdometer int64  `json:"startOdometer"`
	EndOdometer   int64  `json:"endOdometer"`
	TicketCost    int64  `json:"ticketCost,omitempty"`

	// Fare == 0 means "pending fare approval"; only an owner moves it to a
	// positive value, and only then may Paid become true.
	Fare int64 `json:"fare"`
	Paid bool  `json:"paid"`
}

// IsReferral reports whether the trip carries the partner-created shape.
func (t Trip) IsReferral() bool {
	return t.CreatorRole == RolePartner
}

// Status derives the trip's position in the one-way pending → fare set →
// paid lifecycle.
func (t Trip) Status() TripStatus {
	switch {
	case t.Fare <= 0:
		return TripPending
	case t.Paid:
		return TripPaid
	default:
		return TripFareSet
	}
}

// RouteLabel is the human label for the trip: the free-text content on
// referral trips, the pickup → dropoff pair otherwise.
func (t Trip) RouteLabel() string {
	if t.Content != "" {
		return t.Content
	}
	return t.PickupLocation + " - " + t.DropoffLocation
}
