package reports

import (
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/ledger"
	"fleetdesk/internal/scope"
)

// Engine serves reports over one session's ledger. Financial reporting is
// an owner capability; every method checks the role before touching the
// mirrors.
type Engine struct {
	Ledger ledger.Ledger
}

func (e Engine) authorize() error {
	if !scope.CanViewFinance(e.Ledger.Actor().Role) {
		return domain.AuthorizationError{Op: "reports", Msg: "owner role required"}
	}
	return nil
}

// Monthly returns the month's rollup over all visible trips.
func (e Engine) Monthly(year int, month time.Month) (Summary, error) {
	if err := e.authorize(); err != nil {
		return Summary{}, err
	}
	trips, err := e.Ledger.Trips()
	if err != nil {
		return Summary{}, err
	}
	return Summarize(MonthlySlice(trips, year, month)), nil
}

// Vehicle returns one vehicle's month report. The header carries the
// vehicle's current name; the rows keep the denormalized labels the trips
// were filed with.
func (e Engine) Vehicle(year int, month time.Month, vehicleID string) (VehicleReport, error) {
	if err := e.authorize(); err != nil {
		return VehicleReport{}, err
	}
	vehicles, err := e.Ledger.Vehicles()
	if err != nil {
		return VehicleReport{}, err
	}
	var name string
	for _, v := range vehicles {
		if v.ID == vehicleID {
			name = v.Name
			break
		}
	}
	if name == "" {
		return VehicleReport{}, domain.NotFoundError{Resource: "vehicle", ID: vehicleID}
	}
	trips, err := e.Ledger.Trips()
	if err != nil {
		return VehicleReport{}, err
	}
	r := VehicleDetail(trips, year, month, vehicleID)
	r.VehicleName = name
	return r, nil
}

// Driver returns one driver's month report with the summed commission.
func (e Engine) Driver(year int, month time.Month, driverID string) (DriverReport, error) {
	if err := e.authorize(); err != nil {
		return DriverReport{}, err
	}
	drivers, err := e.Ledger.Drivers()
	if err != nil {
		return DriverReport{}, err
	}
	var name string
	for _, d := range drivers {
		if d.ID == driverID {
			name = d.Name
			break
		}
	}
	if name == "" {
		return DriverReport{}, domain.NotFoundError{Resource: "driver", ID: driverID}
	}
	trips, err := e.Ledger.Trips()
	if err != nil {
		return DriverReport{}, err
	}
	r := DriverDetail(trips, year, month, driverID)
	r.DriverName = name
	return r, nil
}

// Partner returns one referring partner's month report. Partner identities
// come from the staff roster.
func (e Engine) Partner(year int, month time.Month, partnerID string) (PartnerReport, error) {
	if err := e.authorize(); err != nil {
		return PartnerReport{}, err
	}
	accounts, err := e.Ledger.Accounts()
	if err != nil {
		return PartnerReport{}, err
	}
	var name string
	for _, a := range accounts {
		if a.ID == partnerID && a.Role == domain.RolePartner {
			name = a.Name
			break
		}
	}
	if name == "" {
		return PartnerReport{}, domain.NotFoundError{Resource: "partner", ID: partnerID}
	}
	trips, err := e.Ledger.Trips()
	if err != nil {
		return PartnerReport{}, err
	}
	r := PartnerDetail(trips, year, month, partnerID)
	r.PartnerName = name
	return r, nil
}

// Customer returns one customer's month report.
func (e Engine) Customer(year int, month time.Month, customerID string) (CustomerReport, error) {
	if err := e.authorize(); err != nil {
		return CustomerReport{}, err
	}
	customers, err := e.Ledger.Customers()
	if err != nil {
		return CustomerReport{}, err
	}
	var name string
	for _, c := range customers {
		if c.ID == customerID {
			name = c.Name
			break
		}
	}
	if name == "" {
		return CustomerReport{}, domain.NotFoundError{Resource: "customer", ID: customerID}
	}
	trips, err := e.Ledger.Trips()
	if err != nil {
		return CustomerReport{}, err
	}
	r := CustomerDetail(trips, year, month, customerID)
	r.CustomerName = name
	return r, nil
}
