// Package debts groups unpaid, fare-approved trips by debtor and computes
// the outstanding balance per group. Groups are keyed by debtor id; the
// denormalized name snapshots on the trips are carried for display only,
// so two debtors who ever shared a name are never merged.
package debts

import (
	"sort"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/ledger"
	"fleetdesk/internal/reports"
	"fleetdesk/internal/scope"
)

// Kind selects which party owes: the customer on the trip or the partner
// who referred it.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindPartner  Kind = "partner"
)

// Filter narrows the outstanding set. Year == 0 disables the month filter;
// DebtorID == "" keeps all debtors of the kind.
type Filter struct {
	Kind     Kind
	Year     int
	Month    time.Month
	DebtorID string
}

// Group is one debtor's outstanding trips and their summed balance.
type Group struct {
	DebtorID   string        `json:"debtorId"`
	DebtorName string        `json:"debtorName"`
	Total      int64         `json:"total"`
	Trips      []domain.Trip `json:"trips"`
}

// Outstanding returns the trips that still owe money: fare approved but
// not collected. Zero-fare trips are pending approval, not debt.
func Outstanding(trips []domain.Trip) []domain.Trip {
	out := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if !t.Paid && t.Fare > 0 {
			out = append(out, t)
		}
	}
	return out
}

// GroupOutstanding partitions the outstanding set per the filter. Trips
// without the selected key (e.g. a standard trip when grouping by
// referrer) drop out. Groups come back sorted by display name, then id.
func GroupOutstanding(trips []domain.Trip, f Filter) []Group {
	list := Outstanding(trips)
	if f.Year != 0 {
		list = reports.MonthlySlice(list, f.Year, f.Month)
	}

	keyOf := func(t domain.Trip) (id, name string) {
		if f.Kind == KindPartner {
			return t.ReferrerID, t.ReferrerName
		}
		return t.CustomerID, t.CustomerName
	}

	byID := make(map[string]*Group)
	var order []string
	for _, t := range list {
		id, name := keyOf(t)
		if id == "" {
			continue
		}
		if f.DebtorID != "" && id != f.DebtorID {
			continue
		}
		g, ok := byID[id]
		if !ok {
			g = &Group{DebtorID: id, DebtorName: name}
			byID[id] = g
			order = append(order, id)
		}
		g.Total += t.Fare
		g.Trips = append(g.Trips, t)
	}

	out := make([]Group, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DebtorName != out[j].DebtorName {
			return out[i].DebtorName < out[j].DebtorName
		}
		return out[i].DebtorID < out[j].DebtorID
	})
	return out
}

// Tracker serves debt groupings over one session's ledger, gated to the
// owner role like the rest of the financial surface.
type Tracker struct {
	Ledger ledger.Ledger
}

// Groups returns the filtered outstanding-debt groups.
func (tr Tracker) Groups(f Filter) ([]Group, error) {
	if !scope.CanViewFinance(tr.Ledger.Actor().Role) {
		return nil, domain.AuthorizationError{Op: "debts", Msg: "owner role required"}
	}
	if f.Kind != KindCustomer && f.Kind != KindPartner {
		return nil, domain.ValidationError{Field: "type", Msg: "must be customer or partner"}
	}
	trips, err := tr.Ledger.Trips()
	if err != nil {
		return nil, err
	}
	return GroupOutstanding(trips, f), nil
}
