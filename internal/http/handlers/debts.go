package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetdesk/internal/debts"
	"fleetdesk/internal/export"
	"fleetdesk/internal/utils"
)

// debtFilter builds the filter from query params: type=customer|partner,
// optional month=YYYY-MM and debtor=<id>. On failure it has written the
// 400 response.
func debtFilter(c *gin.Context) (debts.Filter, bool) {
	f := debts.Filter{
		Kind:     debts.Kind(c.DefaultQuery("type", string(debts.KindCustomer))),
		DebtorID: c.Query("debtor"),
	}
	if m := c.Query("month"); m != "" {
		year, month, err := utils.ParseMonth(m)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
			return debts.Filter{}, false
		}
		f.Year, f.Month = year, month
	}
	return f, true
}

// GET /api/debts
func (a API) ListDebts(c *gin.Context) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	f, ok := debtFilter(c)
	if !ok {
		return
	}
	groups, err := debts.Tracker{Ledger: l}.Groups(f)
	if err != nil {
		writeError(c, err)
		return
	}
	var total int64
	for _, g := range groups {
		total += g.Total
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups, "total": total})
}

// GET /api/debts/export
func (a API) DebtsPDF(c *gin.Context) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	f, ok := debtFilter(c)
	if !ok {
		return
	}
	groups, err := debts.Tracker{Ledger: l}.Groups(f)
	if err != nil {
		writeError(c, err)
		return
	}
	data, name, err := export.DebtStatementPDF(groups)
	writePDF(c, data, name, err)
}
