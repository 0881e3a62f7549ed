package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/report"
)

const (
	pageMargin = 15.0
	lineHeight = 7.0
	fontFamily = "Helvetica"
)

// Agency identifies the sender on rendered documents.
type Agency struct {
	Name    string
	SiteURL string
}

// Renderer turns stored reports and leads into PDFs and emails. It never
// reads from the database; now is used only for the PDF footer.
type Renderer struct {
	agency Agency
	now    func() time.Time
}

func New(agency Agency, now func() time.Time) *Renderer {
	if now == nil {
		now = time.Now
	}

	return &Renderer{agency: agency, now: now}
}

// Filename is the attachment name used for a report's PDF.
func Filename(rep *domain.Report) string {
	return fmt.Sprintf("report-%s-%s.pdf",
		slug(rep.Content.Project.Name),
		rep.Content.Period.StartDate.Format("2006-01-02"),
	)
}

// PDF renders rep. Output depends only on rep and the renderer's clock.
func (r *Renderer) PDF(rep *domain.Report) ([]byte, error) {
	const op = "internal.render.PDF"

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(rep.GeneratedAt)
	pdf.SetModificationDate(rep.GeneratedAt)
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	w := &pdfWriter{pdf: pdf, tr: tr}

	pdf.SetTitle(tr(rep.Title), false)
	pdf.SetAuthor(tr(r.agency.Name), false)
	pdf.SetCreator(tr(r.agency.Name), false)

	generated := r.now().Format("Jan 2, 2006 15:04 MST")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10,
			tr(fmt.Sprintf("Generated on %s | Page %d of {nb}", generated, pdf.PageNo())),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	w.header(r.agency.Name, rep)
	w.project(rep.Content)

	sections := rep.Content.Sections
	if sections.Tasks != nil {
		w.tasks(sections.Tasks)
	}

	if sections.Metrics != nil {
		w.metrics(sections.Metrics)
	}

	if sections.Revenue != nil {
		w.revenue(sections.Revenue)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w *pdfWriter) header(agency string, rep *domain.Report) {
	w.pdf.SetFont(fontFamily, "B", 10)
	w.pdf.SetTextColor(37, 99, 235)
	w.pdf.CellFormat(0, 6, w.tr(agency), "", 1, "L", false, 0, "")

	w.pdf.SetFont(fontFamily, "B", 16)
	w.pdf.SetTextColor(17, 24, 39)
	w.pdf.MultiCell(0, 8, w.tr(rep.Title), "", "L", false)

	w.pdf.SetFont(fontFamily, "", 9)
	w.pdf.SetTextColor(107, 114, 128)
	w.pdf.CellFormat(0, 6, w.tr(fmt.Sprintf("%s report | generated %s",
		report.TypeLabel(rep.Type), date(rep.GeneratedAt))), "", 1, "L", false, 0, "")
	w.pdf.Ln(4)
}

func (w *pdfWriter) heading(title string) {
	w.pdf.Ln(3)
	w.pdf.SetFont(fontFamily, "B", 12)
	w.pdf.SetTextColor(17, 24, 39)
	w.pdf.SetFillColor(243, 244, 246)
	w.pdf.CellFormat(0, 8, w.tr(title), "", 1, "L", true, 0, "")
	w.pdf.Ln(1)
}

func (w *pdfWriter) keyValues(rows [][2]string) {
	for _, row := range rows {
		w.pdf.SetFont(fontFamily, "B", 10)
		w.pdf.SetTextColor(75, 85, 99)
		w.pdf.CellFormat(55, lineHeight, w.tr(row[0]), "", 0, "L", false, 0, "")
		w.pdf.SetFont(fontFamily, "", 10)
		w.pdf.SetTextColor(17, 24, 39)
		w.pdf.CellFormat(0, lineHeight, w.tr(row[1]), "", 1, "L", false, 0, "")
	}
}

func (w *pdfWriter) note(text string, failed bool) {
	w.pdf.SetFont(fontFamily, "I", 10)
	if failed {
		w.pdf.SetTextColor(185, 28, 28)
	} else {
		w.pdf.SetTextColor(107, 114, 128)
	}
	w.pdf.MultiCell(0, lineHeight, w.tr(text), "", "L", false)
}

func (w *pdfWriter) table(widths []float64, header []string, rows [][]string) {
	w.pdf.SetFont(fontFamily, "B", 9)
	w.pdf.SetTextColor(255, 255, 255)
	w.pdf.SetFillColor(37, 99, 235)
	for i, h := range header {
		w.pdf.CellFormat(widths[i], lineHeight, w.tr(h), "1", 0, "L", true, 0, "")
	}
	w.pdf.Ln(-1)

	w.pdf.SetFont(fontFamily, "", 9)
	w.pdf.SetTextColor(17, 24, 39)
	for n, row := range rows {
		fill := n%2 == 1
		w.pdf.SetFillColor(249, 250, 251)
		for i, cell := range row {
			w.pdf.CellFormat(widths[i], lineHeight, w.tr(truncate(cell, widths[i])), "1", 0, "L", fill, 0, "")
		}
		w.pdf.Ln(-1)
	}
}

func (w *pdfWriter) project(c domain.Content) {
	p := c.Project
	w.heading("Project Overview")

	contact := notAvailable
	if p.Contact != nil {
		contact = p.Contact.Name
		if p.Contact.Company != "" {
			contact += " (" + p.Contact.Company + ")"
		}
	}

	w.keyValues([][2]string{
		{"Project", orNA(p.Name)},
		{"Status", orNA(string(p.Status))},
		{"Progress", percent(float64(p.Progress))},
		{"Budget", moneyPtr(p.Budget)},
		{"Website", orNA(p.URL)},
		{"Manager", orNA(p.ManagerName)},
		{"Client", contact},
		{"Timeline", datePtr(p.StartDate) + " - " + datePtr(p.EndDate)},
		{"Reporting period", date(c.Period.StartDate) + " - " + date(c.Period.EndDate)},
	})
}

func (w *pdfWriter) tasks(s *domain.TasksSummary) {
	w.heading("Tasks")
	w.keyValues([][2]string{
		{"Total tasks", known(s.Has("total"), number(int64(s.Total)))},
		{"Completed", known(s.Has("completed"), number(int64(s.Completed)))},
		{"In progress", known(s.Has("inProgress"), number(int64(s.InProgress)))},
		{"In review", known(s.Has("review"), number(int64(s.Review)))},
		{"To do / pending", known(s.Has("todo"), number(int64(s.Todo))) + " / " + known(s.Has("pending"), number(int64(s.Pending)))},
		{"Completion rate", known(s.Has("completionRate"), percent(s.CompletionRate))},
	})

	if len(s.Tasks) == 0 {
		w.note("No tasks were created in this period.", false)
		return
	}

	rows := make([][]string, len(s.Tasks))
	for i, t := range s.Tasks {
		rows[i] = []string{t.Title, string(t.Status), string(t.Priority), orNA(t.Assignee), date(t.CreatedAt), datePtr(t.DueDate)}
	}

	w.pdf.Ln(2)
	w.table([]float64{60, 26, 20, 28, 23, 23},
		[]string{"Task", "Status", "Priority", "Assignee", "Created", "Due"}, rows)
}

func (w *pdfWriter) metrics(s *domain.Section[domain.MetricsSummary]) {
	w.heading("Website Metrics")

	switch {
	case s.Failed():
		w.note(s.Error, true)
	case s.Data == nil:
		w.note(orNA(s.Message), false)
	default:
		m := s.Data
		w.keyValues([][2]string{
			{"Page views", known(m.Has("totalPageViews"), number(m.TotalPageViews))},
			{"Sessions", known(m.Has("totalSessions"), number(m.TotalSessions))},
			{"Pages per session", known(m.Has("pagesPerSession"), fixed2(m.PagesPerSession))},
			{"Average bounce rate", known(m.Has("avgBounceRate"), percent(m.AvgBounceRate))},
			{"Snapshots", known(m.Has("dataPoints"), number(int64(m.DataPoints)))},
			{"Covering", date(m.FirstSnapshotAt) + " - " + date(m.LastSnapshotAt)},
		})
	}
}

func (w *pdfWriter) revenue(s *domain.Section[domain.RevenueSummary]) {
	w.heading("Revenue")

	switch {
	case s.Failed():
		w.note(s.Error, true)
		return
	case s.Data == nil:
		w.note(orNA(s.Message), false)
		return
	}

	rev := s.Data
	w.keyValues([][2]string{
		{"Total revenue", known(rev.Has("totalRevenue"), money(rev.TotalRevenue))},
		{"Total costs", known(rev.Has("totalCosts"), money(rev.TotalCosts))},
		{"Net profit", known(rev.Has("netProfit"), money(rev.NetProfit))},
		{"Profit margin", known(rev.Has("profitMargin"), percent(rev.ProfitMargin))},
		{"Entries", known(rev.Has("entryCount"), number(int64(rev.EntryCount)))},
	})

	if len(rev.BySource) == 0 {
		return
	}

	rows := make([][]string, len(rev.BySource))
	for i, src := range rev.BySource {
		rows[i] = []string{orNA(src.Source), money(src.Revenue), money(src.Costs), money(src.Revenue.Sub(src.Costs))}
	}

	w.pdf.Ln(2)
	w.table([]float64{60, 40, 40, 40}, []string{"Source", "Revenue", "Costs", "Net"}, rows)
}

// truncate keeps a table cell on one line, roughly two characters per mm.
func truncate(s string, width float64) string {
	limit := int(width / 2)
	runes := []rune(s)

	if len(runes) <= limit || limit < 4 {
		return s
	}

	return string(runes[:limit-3]) + "..."
}
