package ledger

import (
	"context"
	"testing"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/mirror"
	"fleetdesk/internal/store"
)

var (
	owner   = domain.Actor{ID: "o1", Name: "Boss", Role: domain.RoleOwner}
	driver  = domain.Actor{ID: "d-acc", Name: "Nam", Role: domain.RoleDriver}
	partner = domain.Actor{ID: "p1", Name: "Partner A", Role: domain.RolePartner}
)

func newLedger(t *testing.T, st store.Store, actor domain.Actor) Ledger {
	t.Helper()
	s, err := mirror.Open(st, actor)
	if err != nil {
		t.Fatalf("open session for %s: %v", actor.ID, err)
	}
	t.Cleanup(s.Close)
	return Ledger{Store: st, Session: s}
}

// seedFleet creates a vehicle, driver and customer through the owner's
// ledger and returns their ids.
func seedFleet(t *testing.T, l Ledger) (vehicleID, driverID, customerID string) {
	t.Helper()
	ctx := context.Background()
	v, err := l.CreateVehicle(ctx, "Bus 01")
	if err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	d, err := l.CreateDriver(ctx, "Nam")
	if err != nil {
		t.Fatalf("seed driver: %v", err)
	}
	c, err := l.CreateCustomer(ctx, "Linh")
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return v.ID, d.ID, c.ID
}

func stdTripInput(vehicleID, driverID, customerID string) TripInput {
	return TripInput{
		StartDate:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		VehicleID:       vehicleID,
		DriverID:        driverID,
		CustomerID:      customerID,
		PickupLocation:  "Hanoi",
		DropoffLocation: "Haiphong",
		FuelCost:        150000,
		Fare:            500000,
	}
}

func TestCreateTripStandardShapeDenormalizesNames(t *testing.T) {
	st := store.NewMemory()
	l := newLedger(t, st, owner)
	vID, dID, cID := seedFleet(t, l)

	trip, err := l.CreateTrip(context.Background(), stdTripInput(vID, dID, cID))
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}
	if trip.VehicleName != "Bus 01" || trip.DriverName != "Nam" || trip.CustomerName != "Linh" {
		t.Fatalf("names not denormalized: %+v", trip)
	}
	if trip.CreatorRole != domain.RoleOwner || trip.IsReferral() {
		t.Fatalf("owner trip misclassified: %+v", trip)
	}
	if trip.Status() != domain.TripFareSet {
		t.Fatalf("fare filed at creation should be fare-set, got %s", trip.Status())
	}
}

func TestCreateTripReferralShapeIgnoresFareInput(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	ownerL := newLedger(t, st, owner)
	seedFleet(t, ownerL)

	partnerL := newLedger(t, st, partner)
	v, err := partnerL.CreateVehicle(ctx, "Partner van")
	if err != nil {
		t.Fatalf("partner vehicle: %v", err)
	}
	c, err := partnerL.CreateCustomer(ctx, "Referred Co")
	if err != nil {
		t.Fatalf("partner customer: %v", err)
	}

	in := TripInput{
		StartDate:  time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		VehicleID:  v.ID,
		CustomerID: c.ID,
		Content:    "Airport shuttle, 2 ways",
		Fare:       999999, // must be ignored for referrals
		Paid:       true,   // likewise
	}
	trip, err := partnerL.CreateTrip(ctx, in)
	if err != nil {
		t.Fatalf("create referral: %v", err)
	}
	if !trip.IsReferral() {
		t.Fatalf("partner trip must be a referral: %+v", trip)
	}
	if trip.Fare != 0 || trip.Paid {
		t.Fatalf("referral must start unpriced and unpaid, got fare=%d paid=%v", trip.Fare, trip.Paid)
	}
	if trip.ReferrerID != partner.ID || trip.ReferrerName != partner.Name {
		t.Fatalf("referrer not stamped: %+v", trip)
	}
	if trip.Status() != domain.TripPending {
		t.Fatalf("referral should be pending, got %s", trip.Status())
	}
}

func TestPartnerCannotAttachForeignEntities(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	ownerL := newLedger(t, st, owner)
	vID, _, cID := seedFleet(t, ownerL)

	partnerL := newLedger(t, st, partner)
	in := TripInput{
		StartDate:  time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		VehicleID:  vID, // owner's vehicle, invisible to the partner
		CustomerID: cID,
		Content:    "x",
	}
	if _, err := partnerL.CreateTrip(ctx, in); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for foreign vehicle, got %v", err)
	}
}

func TestSetFareIsOwnerOnlyAndLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	ownerL := newLedger(t, st, owner)
	vID, dID, cID := seedFleet(t, ownerL)

	in := stdTripInput(vID, dID, cID)
	in.Fare = 0
	trip, err := ownerL.CreateTrip(ctx, in)
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	driverL := newLedger(t, st, driver)
	if err := driverL.SetFare(ctx, trip.ID, 700000); !domain.IsAuthorization(err) {
		t.Fatalf("expected authorization error, got %v", err)
	}

	got, err := ownerL.tripByID(trip.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Fare != 0 {
		t.Fatalf("denied attempt changed state: fare=%d", got.Fare)
	}
}

func TestSetFareValidatesAndAllowsReapproval(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	l := newLedger(t, st, owner)
	vID, dID, cID := seedFleet(t, l)

	in := stdTripInput(vID, dID, cID)
	in.Fare = 0
	trip, err := l.CreateTrip(ctx, in)
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	if err := l.SetFare(ctx, trip.ID, 0); !domain.IsValidation(err) {
		t.Fatalf("zero fare must be rejected, got %v", err)
	}
	if err := l.SetFare(ctx, trip.ID, -5); !domain.IsValidation(err) {
		t.Fatalf("negative fare must be rejected, got %v", err)
	}

	if err := l.SetFare(ctx, trip.ID, 500000); err != nil {
		t.Fatalf("set fare: %v", err)
	}
	if err := l.SetFare(ctx, trip.ID, 650000); err != nil {
		t.Fatalf("re-approve fare: %v", err)
	}
	got, _ := l.tripByID(trip.ID)
	if got.Fare != 650000 {
		t.Fatalf("fare not overwritten, got %d", got.Fare)
	}
}

func TestMarkPaidLifecycle(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	l := newLedger(t, st, owner)
	vID, dID, cID := seedFleet(t, l)

	in := stdTripInput(vID, dID, cID)
	in.Fare = 0
	trip, err := l.CreateTrip(ctx, in)
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	// paying before a fare exists is a state error
	if err := l.MarkPaid(ctx, trip.ID); !domain.IsState(err) {
		t.Fatalf("expected state error, got %v", err)
	}

	if err := l.SetFare(ctx, trip.ID, 500000); err != nil {
		t.Fatalf("set fare: %v", err)
	}
	if err := l.MarkPaid(ctx, trip.ID); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	// idempotent
	if err := l.MarkPaid(ctx, trip.ID); err != nil {
		t.Fatalf("second mark paid should be a no-op, got %v", err)
	}

	got, _ := l.tripByID(trip.ID)
	if !got.Paid || got.Status() != domain.TripPaid {
		t.Fatalf("trip not settled: %+v", got)
	}

	driverL := newLedger(t, st, driver)
	if err := driverL.MarkPaid(ctx, trip.ID); !domain.IsAuthorization(err) {
		t.Fatalf("driver must not mark paid, got %v", err)
	}
}

func TestRenamingEntityLeavesTripSnapshotsFrozen(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	l := newLedger(t, st, owner)
	vID, dID, cID := seedFleet(t, l)

	trip, err := l.CreateTrip(ctx, stdTripInput(vID, dID, cID))
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	if err := st.Collection(store.ColVehicles).Update(ctx, vID, map[string]any{"name": "Bus 01 (retired)"}); err != nil {
		t.Fatalf("rename vehicle: %v", err)
	}

	got, err := l.tripByID(trip.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.VehicleName != "Bus 01" {
		t.Fatalf("denormalized name must stay frozen, got %q", got.VehicleName)
	}
}

func TestDriverCannotCreateEntities(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	l := newLedger(t, st, driver)

	if _, err := l.CreateVehicle(ctx, "Bus X"); !domain.IsAuthorization(err) {
		t.Fatalf("driver vehicle create must be denied, got %v", err)
	}
	if _, err := l.CreateDriver(ctx, "Someone"); !domain.IsAuthorization(err) {
		t.Fatalf("driver roster create must be denied, got %v", err)
	}
}

func TestPartnerDeletesOnlyOwnRecords(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	ownerL := newLedger(t, st, owner)
	vID, _, _ := seedFleet(t, ownerL)

	partnerL := newLedger(t, st, partner)
	own, err := partnerL.CreateVehicle(ctx, "Partner van")
	if err != nil {
		t.Fatalf("partner vehicle: %v", err)
	}

	if err := partnerL.DeleteEntity(ctx, store.ColVehicles, own.ID); err != nil {
		t.Fatalf("partner should delete own vehicle: %v", err)
	}
	// the owner's vehicle is outside the partner's visible set
	if err := partnerL.DeleteEntity(ctx, store.ColVehicles, vID); !domain.IsNotFound(err) {
		t.Fatalf("foreign vehicle should read as not found, got %v", err)
	}
}

func TestEntityNameValidation(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	l := newLedger(t, st, owner)

	if _, err := l.CreateCustomer(ctx, "   "); !domain.IsValidation(err) {
		t.Fatalf("blank name must be rejected, got %v", err)
	}
	c, err := l.CreateCustomer(ctx, "  Linh   Tran ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Name != "Linh Tran" {
		t.Fatalf("name not normalized, got %q", c.Name)
	}
}

func TestAccountManagementIsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	if err := st.Collection(store.ColAccounts).Set(ctx, "staff1", domain.Account{Name: "Staff", Role: domain.RoleDriver}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	driverL := newLedger(t, st, driver)
	err := driverL.UpdateAccount(ctx, "staff1", AccountUpdate{Name: "X", Role: "driver"})
	if !domain.IsAuthorization(err) {
		t.Fatalf("driver must not manage accounts, got %v", err)
	}

	ownerL := newLedger(t, st, owner)
	if err := ownerL.UpdateAccount(ctx, "staff1", AccountUpdate{Name: "Staff Two", Role: "partner"}); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	accounts, err := ownerL.Accounts()
	if err != nil {
		t.Fatalf("accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Name != "Staff Two" || accounts[0].Role != domain.RolePartner {
		t.Fatalf("update not applied: %+v", accounts)
	}
}

func TestDeleteAccountRemovesCredentialToo(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	if err := st.Collection(store.ColAccounts).Set(ctx, "staff1", domain.Account{Name: "Staff", Role: domain.RoleDriver}); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	if err := st.Collection(store.ColCredentials).Set(ctx, "staff1", map[string]any{"email": "s@x.vn"}); err != nil {
		t.Fatalf("seed credential: %v", err)
	}

	l := newLedger(t, st, owner)
	if err := l.DeleteAccount(ctx, "staff1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	snap, err := st.Collection(store.ColCredentials).List(ctx)
	if err != nil {
		t.Fatalf("list credentials: %v", err)
	}
	if len(snap) != 0 {
		t.Fatalf("credential not removed with the account")
	}
}
