package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/warp/solarwork/payroll"
	"github.com/warp/solarwork/worklog"
	"github.com/xuri/excelize/v2"
)

const payrollSheet = "Payroll"

// PayrollHeader is the column layout shared by the XLSX and PDF sheets.
var PayrollHeader = []string{
	"Worker",
	"Hours",
	"Hourly EUR",
	"Construction EUR",
	"Panels",
	"Paneling EUR",
	"Tables",
	"Cables EUR",
	"Total EUR",
	"Avg EUR/h",
}

// PayrollRow formats one worker in PayrollHeader order.
func PayrollRow(s payroll.WorkerStats) []string {
	return []string{
		s.Name,
		s.TotalHours.StringFixed(2),
		s.Hourly.Earnings.StringFixed(2),
		s.Construction.Earnings.StringFixed(2),
		s.Paneling.Panels.StringFixed(1),
		s.Paneling.Earnings.StringFixed(2),
		s.Cables.Tables.Total.StringFixed(1),
		s.Cables.Earnings.StringFixed(2),
		s.TotalEarnings.StringFixed(2),
		s.AvgHourlyWage.StringFixed(2),
	}
}

// WritePayrollXLSX writes a workbook with one row per worker and a totals
// row. Amounts are written as numbers.
func WritePayrollXLSX(w io.Writer, title string, stats []payroll.WorkerStats) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), payrollSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetCellValue(payrollSheet, "A1", title); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("style: %w", err)
	}
	if err := f.SetCellStyle(payrollSheet, "A1", "A1", bold); err != nil {
		return err
	}

	header := make([]any, len(PayrollHeader))
	for i, h := range PayrollHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(payrollSheet, "A3", &header); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(PayrollHeader))
	if err := f.SetCellStyle(payrollSheet, "A3", lastCol+"3", bold); err != nil {
		return err
	}

	row := 4
	for _, s := range stats {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []any{
			s.Name,
			num(s.TotalHours, 2),
			num(s.Hourly.Earnings, 2),
			num(s.Construction.Earnings, 2),
			num(s.Paneling.Panels, 1),
			num(s.Paneling.Earnings, 2),
			num(s.Cables.Tables.Total, 1),
			num(s.Cables.Earnings, 2),
			num(s.TotalEarnings, 2),
			num(s.AvgHourlyWage, 2),
		}
		if err := f.SetSheetRow(payrollSheet, cell, &values); err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
		row++
	}

	sum := payroll.Summarize(stats)
	cell, _ := excelize.CoordinatesToCellName(1, row+1)
	totals := []any{
		"Total",
		num(sum.TotalHours, 2),
		num(kindEarnings(sum, worklog.KindHourly), 2),
		num(kindEarnings(sum, worklog.KindConstruction), 2),
		num(sum.Panels, 1),
		num(kindEarnings(sum, worklog.KindPaneling), 2),
		num(sum.Tables, 1),
		num(kindEarnings(sum, worklog.KindCables), 2),
		num(sum.TotalEarnings, 2),
	}
	if err := f.SetSheetRow(payrollSheet, cell, &totals); err != nil {
		return fmt.Errorf("totals: %w", err)
	}
	lastCell, _ := excelize.CoordinatesToCellName(len(PayrollHeader), row+1)
	if err := f.SetCellStyle(payrollSheet, cell, lastCell, bold); err != nil {
		return err
	}

	if err := f.SetColWidth(payrollSheet, "A", "A", 24); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func num(d decimal.Decimal, places int32) float64 {
	return d.Round(places).InexactFloat64()
}

func kindEarnings(sum payroll.Summary, kind worklog.WorkKind) decimal.Decimal {
	for _, kt := range sum.ByKind {
		if kt.Kind == kind {
			return kt.Earnings
		}
	}
	return decimal.Zero
}
