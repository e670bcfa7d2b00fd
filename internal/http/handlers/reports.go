package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleetdesk/internal/export"
	"fleetdesk/internal/reports"
	"fleetdesk/internal/utils"
)

// monthQuery parses the ?month=YYYY-MM query. On failure it has already
// written the 400 response.
func monthQuery(c *gin.Context) (int, time.Month, bool) {
	year, month, err := utils.ParseMonth(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return 0, 0, false
	}
	return year, month, true
}

func (a API) reportEngine(c *gin.Context) (reports.Engine, bool) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return reports.Engine{}, false
	}
	return reports.Engine{Ledger: l}, true
}

func writePDF(c *gin.Context, data []byte, filename string, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// GET /api/reports/monthly
func (a API) MonthlyReport(c *gin.Context) {
	e, ok := a.reportEngine(c)
	if !ok {
		return
	}
	year, month, ok := monthQuery(c)
	if !ok {
		return
	}
	s, err := e.Monthly(year, month)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": s})
}

// GET /api/reports/monthly/export
func (a API) MonthlyReportPDF(c *gin.Context) {
	e, ok := a.reportEngine(c)
	if !ok {
		return
	}
	year, month, ok := monthQuery(c)
	if !ok {
		return
	}
	s, err := e.Monthly(year, month)
	if err != nil {
		writeError(c, err)
		return
	}
	data, name, err := export.MonthlySummaryPDF(year, month, s)
	writePDF(c, data, name, err)
}

// GET /api/reports/vehicles/:id
func (a API) VehicleReport(c *gin.Context) {
	e, ok := a.reportEngine(c)
	if !ok {
		return
	}
	year, month, ok := monthQuery(c)
	if !ok {
		return
	}
	r, err := e.Vehicle(year, month, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": r})
}

// GET /api/reports/vehicles/:id/export
func (a API) VehicleReportPDF(c *gin.Context) {
	e, ok := a.reportEngine(c)
	if !ok {
		return
	}
	year, month, ok := monthQuery(c)
	if !ok {
		return
	}
	r, err := e.Vehicle(year, month, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	data, name, err := export.VehicleReportPDF(year, month, r)
	writePDF(c, data, name, err)
}

// GET /api/reports/drivers/:id
func (a API) DriverReport(c *gin.Context) {
	e, ok := a.reportEngine(c)
	if !ok {
		return
	}
	year, month, ok := monthQuery(c)
	if !ok {
		return
	}
	r, err := e.Driver(year, month, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": r})
}

// GET /api/reports/drivers/:id/export
func (a API) DriverReportPDF(c *gin.Context) {
	e, ok := a.reportEngine(c)
	if !ok {
		return
	}
	year, month, ok := monthQuery(c)
	if !ok {
		return
	}
	r, err := e.Driver(year, month, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	data, name, err := export.DriverReportPDF(year, month, r)
	writePDF(c, data, name, err)
}

// GET /api/reports/partners/:id
func (a API) PartnerReport(c *gin.Context) {
	e, ok := a.reportEngine(c)
	if !ok {
		return
	}
	year, month, ok := monthQuery(c)
	if !ok {
		return
	}
	r, err := e.Partner(year, month, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": r})
}

// GET /api/reports/partners/:id/export
func (a API) PartnerReportPDF(c *gin.Context) {
	e, ok := a.reportEngine(c)
	if !ok {
		return
	}
	year, month, ok := monthQuery(c)
	if !ok {
		return
	}
	r, err := e.Partner(year, month, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	data, name, err := export.PartnerReportPDF(year, month, r)
	writePDF(c, data, name, err)
}

// GET /api/reports/customers/:id
func (a API) CustomerReport(c *gin.Context) {
	e, ok := a.reportEngine(c)
	if !ok {
		return
	}
	year, month, ok := monthQuery(c)
	if !ok {
		return
	}
	r, err := e.Customer(year, month, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": r})
}

// GET /api/reports/customers/:id/export
func (a API) CustomerReportPDF(c *gin.Context) {
	e, ok := a.reportEngine(c)
	if !ok {
		return
	}
	year, month, ok := monthQuery(c)
	if !ok {
		return
	}
	r, err := e.Customer(year, month, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	data, name, err := export.CustomerReportPDF(year, month, r)
	writePDF(c, data, name, err)
}
