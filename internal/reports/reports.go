// Package reports derives the monthly and per-entity financial summaries
// from the trip ledger. The aggregation itself is pure functions over trip
// slices; Engine wires them to a session's ledger and gates them to the
// owner role.
package reports

import (
	"time"

	"fleetdesk/internal/domain"
)

// DriverCommissionRate is the fixed driver commission on each trip's fare.
const DriverCommissionRate = 0.20

// MonthlySlice returns the trips whose start date falls in the given
// calendar year and 1-indexed month. One consistent calendar (the one the
// dates were recorded in) is assumed; there is no timezone normalization.
func MonthlySlice(trips []domain.Trip, year int, month time.Month) []domain.Trip {
	out := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if t.StartDate.Year() == year && t.StartDate.Month() == month {
			out = append(out, t)
		}
	}
	return out
}

// Summary is the monthly financial rollup.
type Summary struct {
	Revenue     int64 `json:"revenue"`
	FuelTotal   int64 `json:"fuelTotal"`
	TicketTotal int64 `json:"ticketTotal"`
	Profit      int64 `json:"profit"`
	Count       int   `json:"count"`
}

// Summarize folds a trip slice into revenue, cost totals and profit.
// Unset fares count as zero.
func Summarize(trips []domain.Trip) Summary {
	var s Summary
	for _, t := range trips {
		s.Revenue += t.Fare
		s.FuelTotal += t.FuelCost
		s.TicketTotal += t.TicketCost
	}
	s.Profit = s.Revenue - s.FuelTotal - s.TicketTotal
	s.Count = len(trips)
	return s
}

// Row is one per-trip line of a detail report. Cost is only meaningful on
// vehicle reports, Commission only on driver reports.
type Row struct {
	Date       time.Time `json:"date"`
	Label      string    `json:"label"`
	Fare       int64     `json:"fare"`
	Cost       int64     `json:"cost,omitempty"`
	Commission float64   `json:"commission,omitempty"`
}

// VehicleReport details one vehicle's month. Empty Rows means the vehicle
// ran no trips that month, which callers must present differently from a
// month of zero-fare trips.
type VehicleReport struct {
	VehicleID   string `json:"vehicleId"`
	VehicleName string `json:"vehicleName"`
	Revenue     int64  `json:"revenue"`
	Cost        int64  `json:"cost"`
	Rows        []Row  `json:"rows"`
}

func (r VehicleReport) Empty() bool { return len(r.Rows) == 0 }

// DriverReport details one driver's month; Salary is the summed 20%
// commission.
type DriverReport struct {
	DriverID   string  `json:"driverId"`
	DriverName string  `json:"driverName"`
	TripCount  int     `json:"tripCount"`
	Salary     float64 `json:"salary"`
	Rows       []Row   `json:"rows"`
}

func (r DriverReport) Empty() bool { return len(r.Rows) == 0 }

// PartnerReport sums the fares of one partner's referred trips.
type PartnerReport struct {
	PartnerID   string `json:"partnerId"`
	PartnerName string `json:"partnerName"`
	Revenue     int64  `json:"revenue"`
	Rows        []Row  `json:"rows"`
}

func (r PartnerReport) Empty() bool { return len(r.Rows) == 0 }

// CustomerReport sums one customer's spend.
type CustomerReport struct {
	CustomerID   string `json:"customerId"`
	CustomerName string `json:"customerName"`
	TotalSpend   int64  `json:"totalSpend"`
	Rows         []Row  `json:"rows"`
}

func (r CustomerReport) Empty() bool { return len(r.Rows) == 0 }

// VehicleDetail builds the month report for one vehicle.
func VehicleDetail(trips []domain.Trip, year int, month time.Month, vehicleID string) VehicleReport {
	r := VehicleReport{VehicleID: vehicleID}
	for _, t := range MonthlySlice(trips, year, month) {
		if t.VehicleID != vehicleID {
			continue
		}
		cost := t.FuelCost + t.TicketCost
		r.Revenue += t.Fare
		r.Cost += cost
		r.Rows = append(r.Rows, Row{Date: t.StartDate, Label: t.RouteLabel(), Fare: t.Fare, Cost: cost})
	}
	return r
}

// DriverDetail builds the month report for one driver, with the fixed 20%
// commission per trip.
func DriverDetail(trips []domain.Trip, year int, month time.Month, driverID string) DriverReport {
	r := DriverReport{DriverID: driverID}
	for _, t := range MonthlySlice(trips, year, month) {
		if t.DriverID != driverID {
			continue
		}
		commission := float64(t.Fare) * DriverCommissionRate
		r.Salary += commission
		r.Rows = append(r.Rows, Row{Date: t.StartDate, Label: t.RouteLabel(), Fare: t.Fare, Commission: commission})
	}
	r.TripCount = len(r.Rows)
	return r
}

// PartnerDetail builds the month report for one referring partner.
func PartnerDetail(trips []domain.Trip, year int, month time.Month, partnerID string) PartnerReport {
	r := PartnerReport{PartnerID: partnerID}
	for _, t := range MonthlySlice(trips, year, month) {
		if t.ReferrerID != partnerID {
			continue
		}
		r.Revenue += t.Fare
		r.Rows = append(r.Rows, Row{Date: t.StartDate, Label: t.RouteLabel(), Fare: t.Fare})
	}
	return r
}

// CustomerDetail builds the month report for one customer.
func CustomerDetail(trips []domain.Trip, year int, month time.Month, customerID string) CustomerReport {
	r := CustomerReport{CustomerID: customerID}
	for _, t := range MonthlySlice(trips, year, month) {
		if t.CustomerID != customerID {
			continue
		}
		r.TotalSpend += t.Fare
		r.Rows = append(r.Rows, Row{Date: t.StartDate, Label: t.RouteLabel(), Fare: t.Fare})
	}
	return r
}
