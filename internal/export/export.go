// Package export renders finished reports into printable PDFs. It
// receives already-computed report data and adds no aggregation logic of
// its own.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"fleetdesk/internal/debts"
	"fleetdesk/internal/reports"
	"fleetdesk/internal/utils"
)

// CompanyName appears on every report header. Overridable via config.
var CompanyName = "Fleetdesk Transport"

func newReportPDF(title, subtitle string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 9, CompanyName)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, strings.ToUpper(title))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, subtitle)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Printed: "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)
	return pdf
}

func tableHeader(pdf *gofpdf.Fpdf, widths []float64, labels []string) {
	pdf.SetFont("Helvetica", "B", 10)
	for i, lbl := range labels {
		pdf.CellFormat(widths[i], 7, lbl, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
}

func finishPDF(pdf *gofpdf.Fpdf, filename string) ([]byte, string, error) {
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Prepared by", "", 1, "R", false, 0, "")
	pdf.Ln(16)
	pdf.CellFormat(0, 6, "(signature)", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), filename, nil
}

func monthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%02d/%d", int(month), year)
}

// MonthlySummaryPDF renders the month rollup.
func MonthlySummaryPDF(year int, month time.Month, s reports.Summary) ([]byte, string, error) {
	pdf := newReportPDF("Monthly Report", "Period: "+monthLabel(year, month))

	lines := []string{
		"Total trips    : " + fmt.Sprintf("%d", s.Count),
		"Revenue        : " + utils.FormatVND(s.Revenue),
		"Fuel cost      : " + utils.FormatVND(s.FuelTotal),
		"Ticket cost    : " + utils.FormatVND(s.TicketTotal),
		"Profit         : " + utils.FormatVND(s.Profit),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	name := fmt.Sprintf("MONTHLY_%d-%02d.pdf", year, int(month))
	return finishPDF(pdf, name)
}

// VehicleReportPDF renders one vehicle's month detail.
func VehicleReportPDF(year int, month time.Month, r reports.VehicleReport) ([]byte, string, error) {
	pdf := newReportPDF("Vehicle Report", fmt.Sprintf("Vehicle: %s  -  Period: %s", r.VehicleName, monthLabel(year, month)))

	pdf.Cell(0, 7, "Revenue: "+utils.FormatVND(r.Revenue)+"   Cost: "+utils.FormatVND(r.Cost))
	pdf.Ln(9)

	widths := []float64{20, 90, 40, 40}
	tableHeader(pdf, widths, []string{"Date", "Route", "Revenue", "Cost"})
	for _, row := range r.Rows {
		pdf.CellFormat(widths[0], 7, utils.FormatDayMonth(row.Date), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, clip(row.Label, 52), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, utils.FormatVND(row.Fare), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, utils.FormatVND(row.Cost), "1", 0, "R", false, 0, "")
		pdf.Ln(7)
	}

	name := fmt.Sprintf("VEHICLE_%s_%d-%02d.pdf", safeFilenamePart(r.VehicleName), year, int(month))
	return finishPDF(pdf, name)
}

// DriverReportPDF renders one driver's month detail with commissions.
func DriverReportPDF(year int, month time.Month, r reports.DriverReport) ([]byte, string, error) {
	pdf := newReportPDF("Driver Salary Report", fmt.Sprintf("Driver: %s  -  Period: %s", r.DriverName, monthLabel(year, month)))

	pdf.Cell(0, 7, fmt.Sprintf("Trips: %d   Salary (20%%): %s VND", r.TripCount, utils.FormatMoney(r.Salary)))
	pdf.Ln(9)

	widths := []float64{20, 90, 40, 40}
	tableHeader(pdf, widths, []string{"Date", "Route", "Fare", "Commission"})
	for _, row := range r.Rows {
		pdf.CellFormat(widths[0], 7, utils.FormatDayMonth(row.Date), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, clip(row.Label, 52), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, utils.FormatVND(row.Fare), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, utils.FormatMoney(row.Commission), "1", 0, "R", false, 0, "")
		pdf.Ln(7)
	}

	name := fmt.Sprintf("DRIVER_%s_%d-%02d.pdf", safeFilenamePart(r.DriverName), year, int(month))
	return finishPDF(pdf, name)
}

// PartnerReportPDF renders one partner's referred-trip revenue.
func PartnerReportPDF(year int, month time.Month, r reports.PartnerReport) ([]byte, string, error) {
	pdf := newReportPDF("Partner Report", fmt.Sprintf("Partner: %s  -  Period: %s", r.PartnerName, monthLabel(year, month)))

	pdf.Cell(0, 7, "Total revenue: "+utils.FormatVND(r.Revenue))
	pdf.Ln(9)

	widths := []float64{20, 120, 50}
	tableHeader(pdf, widths, []string{"Date", "Description", "Revenue"})
	for _, row := range r.Rows {
		pdf.CellFormat(widths[0], 7, utils.FormatDayMonth(row.Date), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, clip(row.Label, 70), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, utils.FormatVND(row.Fare), "1", 0, "R", false, 0, "")
		pdf.Ln(7)
	}

	name := fmt.Sprintf("PARTNER_%s_%d-%02d.pdf", safeFilenamePart(r.PartnerName), year, int(month))
	return finishPDF(pdf, name)
}

// CustomerReportPDF renders one customer's month spend.
func CustomerReportPDF(year int, month time.Month, r reports.CustomerReport) ([]byte, string, error) {
	pdf := newReportPDF("Customer Report", fmt.Sprintf("Customer: %s  -  Period: %s", r.CustomerName, monthLabel(year, month)))

	pdf.Cell(0, 7, "Total spend: "+utils.FormatVND(r.TotalSpend))
	pdf.Ln(9)

	widths := []float64{20, 120, 50}
	tableHeader(pdf, widths, []string{"Date", "Route", "Amount"})
	for _, row := range r.Rows {
		pdf.CellFormat(widths[0], 7, utils.FormatDayMonth(row.Date), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, clip(row.Label, 70), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, utils.FormatVND(row.Fare), "1", 0, "R", false, 0, "")
		pdf.Ln(7)
	}

	name := fmt.Sprintf("CUSTOMER_%s_%d-%02d.pdf", safeFilenamePart(r.CustomerName), year, int(month))
	return finishPDF(pdf, name)
}

// DebtStatementPDF renders the outstanding-debt groups.
func DebtStatementPDF(groups []debts.Group) ([]byte, string, error) {
	pdf := newReportPDF("Outstanding Debt Statement", fmt.Sprintf("Debtors: %d", len(groups)))

	for _, g := range groups {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, fmt.Sprintf("%s  -  total %s", g.DebtorName, utils.FormatVND(g.Total)))
		pdf.Ln(8)

		widths := []float64{20, 120, 50}
		tableHeader(pdf, widths, []string{"Date", "Route", "Owed"})
		for _, t := range g.Trips {
			pdf.CellFormat(widths[0], 7, utils.FormatDayMonth(t.StartDate), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 7, clip(t.RouteLabel(), 70), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[2], 7, utils.FormatVND(t.Fare), "1", 0, "R", false, 0, "")
			pdf.Ln(7)
		}
		pdf.Ln(4)
	}

	name := fmt.Sprintf("DEBTS_%s.pdf", utils.FormatDate(time.Now()))
	return finishPDF(pdf, name)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
