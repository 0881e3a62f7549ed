// Package export writes report and revenue listings as XLSX workbooks.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/YusovID/agency-backoffice/internal/domain"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	reportsSheet = "Reports"
	revenueSheet = "Revenue"
	timeLayout   = "2006-01-02 15:04"
	dayLayout    = "2006-01-02"
)

var (
	reportHeaders = []string{
		"ID", "Title", "Type", "Project", "Period Start", "Period End",
		"Generated At", "Sent At", "Completion Rate", "Revenue", "Net Profit",
	}
	revenueHeaders = []string{
		"Date", "Source", "Amount", "Costs", "Net", "Project ID", "Contact ID", "Description",
	}
)

// Reports builds a workbook with one row per report.
func Reports(reports []domain.Report) ([]byte, error) {
	const op = "internal.export.Reports"

	rows := make([][]any, 0, len(reports))
	for _, r := range reports {
		c := r.Content

		var rate, revenue, net any
		if t := c.Sections.Tasks; t != nil && t.Has("completionRate") {
			rate = t.CompletionRate
		}
		if rev := c.Sections.Revenue; rev != nil && rev.Data != nil {
			if rev.Data.Has("totalRevenue") {
				revenue = rev.Data.TotalRevenue.InexactFloat64()
			}
			if rev.Data.Has("netProfit") {
				net = rev.Data.NetProfit.InexactFloat64()
			}
		}

		sent := ""
		if r.SentAt != nil {
			sent = r.SentAt.UTC().Format(timeLayout)
		}

		project := r.ProjectName
		if project == "" {
			project = c.Project.Name
		}

		rows = append(rows, []any{
			r.ID,
			r.Title,
			string(r.Type),
			project,
			c.Period.StartDate.UTC().Format(dayLayout),
			c.Period.EndDate.UTC().Format(dayLayout),
			r.GeneratedAt.UTC().Format(timeLayout),
			sent,
			rate,
			revenue,
			net,
		})
	}

	b, err := workbook(reportsSheet, reportHeaders, rows, []float64{38, 60, 12, 30, 14, 14, 18, 18, 16, 14, 14})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// Revenue builds a workbook with one row per entry plus a totals row.
func Revenue(entries []domain.RevenueEntry) ([]byte, error) {
	const op = "internal.export.Revenue"

	rows := make([][]any, 0, len(entries)+1)
	var totals domain.MoneyTotals

	for _, e := range entries {
		totals.Revenue = totals.Revenue.Add(e.Amount)
		totals.Costs = totals.Costs.Add(e.Costs)

		rows = append(rows, []any{
			e.Date.UTC().Format(dayLayout),
			e.Source,
			e.Amount.InexactFloat64(),
			e.Costs.InexactFloat64(),
			e.Amount.Sub(e.Costs).InexactFloat64(),
			deref(e.ProjectID),
			deref(e.ContactID),
			e.Description,
		})
	}

	rows = append(rows, []any{
		"Total", "",
		totals.Revenue.InexactFloat64(),
		totals.Costs.InexactFloat64(),
		totals.Revenue.Sub(totals.Costs).InexactFloat64(),
	})

	b, err := workbook(revenueSheet, revenueHeaders, rows, []float64{12, 20, 14, 14, 14, 38, 38, 40})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// Filename is the download name for an export created at now.
func Filename(kind string, now time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", kind, now.UTC().Format("20060102-150405"))
}

func workbook(sheet string, headers []string, rows [][]any, widths []float64) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, err
	}

	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}

		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}

		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
