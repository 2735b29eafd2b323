package report

import (
	"fmt"
	"io"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
	"github.com/warp/solarwork/payroll"
)

// Column widths in PayrollHeader order, out of 12.
var pdfGrid = []uint{2, 1, 1, 1, 1, 1, 1, 1, 2, 1}

// WritePayrollPDF renders the payroll table on landscape A4 pages.
func WritePayrollPDF(w io.Writer, title, subtitle string, stats []payroll.WorkerStats) error {
	m := pdf.NewMaroto(consts.Landscape, consts.A4)
	m.SetPageMargins(15, 10, 15)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(title, props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		if subtitle != "" {
			m.Row(8, func() {
				m.Col(12, func() {
					m.Text(subtitle, props.Text{
						Top:   2,
						Align: consts.Center,
						Size:  11,
					})
				})
			})
		}
	})

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, PayrollRow(s))
	}
	sum := payroll.Summarize(stats)

	if len(rows) == 0 {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("No earnings in this period.", props.Text{Top: 5, Size: 11})
			})
		})
	} else {
		m.TableList(PayrollHeader, rows, props.TableList{
			HeaderProp: props.TableListContent{
				Size:      9,
				GridSizes: pdfGrid,
			},
			ContentProp: props.TableListContent{
				Size:      9,
				GridSizes: pdfGrid,
			},
			Align:                consts.Center,
			AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
			HeaderContentSpace:   1,
			Line:                 false,
		})
	}

	m.Row(12, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("Total: %s h, %s EUR, %s tables, %s panels",
				sum.TotalHours.StringFixed(2), sum.TotalEarnings.StringFixed(2),
				sum.Tables.StringFixed(1), sum.Panels.StringFixed(1)),
				props.Text{
					Top:   5,
					Style: consts.Bold,
					Align: consts.Right,
					Size:  11,
				})
		})
	})

	buf, err := m.Output()
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
