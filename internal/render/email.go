package render

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/report"
)

//go:embed templates/*
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

// Email is a rendered message body pair.
type Email struct {
	Subject string
	HTML    string
	Text    string
}

type reportEmailData struct {
	Agency      Agency
	Title       string
	TypeLabel   string
	Project     string
	Period      string
	ContactName string
	Tasks       *tasksView
	Metrics     *sectionView
	Revenue     *sectionView
}

type tasksView struct {
	Total     string
	Completed string
	Rate      string
}

type sectionView struct {
	Note string
	Rows [][2]string
}

// ReportEmail renders the summary email sent with a report's PDF.
func (r *Renderer) ReportEmail(rep *domain.Report) (Email, error) {
	c := rep.Content

	data := reportEmailData{
		Agency:      r.agency,
		Title:       rep.Title,
		TypeLabel:   report.TypeLabel(rep.Type),
		Project:     orNA(c.Project.Name),
		Period:      date(c.Period.StartDate) + " - " + date(c.Period.EndDate),
		ContactName: "there",
	}

	if c.Project.Contact != nil && c.Project.Contact.Name != "" {
		data.ContactName = c.Project.Contact.Name
	}

	if t := c.Sections.Tasks; t != nil {
		data.Tasks = &tasksView{
			Total:     known(t.Has("total"), number(int64(t.Total))),
			Completed: known(t.Has("completed"), number(int64(t.Completed))),
			Rate:      known(t.Has("completionRate"), percent(t.CompletionRate)),
		}
	}

	if m := c.Sections.Metrics; m != nil {
		data.Metrics = metricsView(m)
	}

	if rev := c.Sections.Revenue; rev != nil {
		data.Revenue = revenueView(rev)
	}

	return execute(rep.Title, "report", data)
}

type leadData struct {
	Agency  Agency
	Name    string
	Email   string
	Phone   string
	Company string
	Service string
	Budget  string
	Source  string
	Message string
	Score   int
}

func (r *Renderer) lead(c *domain.Contact) leadData {
	return leadData{
		Agency:  r.agency,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   orNA(c.Phone),
		Company: orNA(c.Company),
		Service: c.ServiceInterest,
		Budget:  orNA(c.BudgetRange),
		Source:  orNA(c.Source),
		Message: c.Message,
		Score:   c.Score,
	}
}

// LeadNotification renders the internal alert about a new lead.
func (r *Renderer) LeadNotification(c *domain.Contact) (Email, error) {
	subject := fmt.Sprintf("New lead: %s (score %d)", c.Name, c.Score)

	return execute(subject, "lead_notification", r.lead(c))
}

// LeadAutoReply renders the acknowledgement sent to the lead.
func (r *Renderer) LeadAutoReply(c *domain.Contact) (Email, error) {
	subject := fmt.Sprintf("Thanks for contacting %s", r.agency.Name)

	return execute(subject, "lead_reply", r.lead(c))
}

func execute(subject, name string, data any) (Email, error) {
	const op = "internal.render.execute"

	var html, text bytes.Buffer

	if err := htmlTemplates.ExecuteTemplate(&html, name+".html", data); err != nil {
		return Email{}, fmt.Errorf("%s: %s.html: %w", op, name, err)
	}

	if err := textTemplates.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return Email{}, fmt.Errorf("%s: %s.txt: %w", op, name, err)
	}

	return Email{Subject: subject, HTML: html.String(), Text: text.String()}, nil
}

func metricsView(s *domain.Section[domain.MetricsSummary]) *sectionView {
	switch {
	case s.Failed():
		return &sectionView{Note: s.Error}
	case s.Data == nil:
		return &sectionView{Note: orNA(s.Message)}
	}

	m := s.Data

	return &sectionView{Rows: [][2]string{
		{"Page views", known(m.Has("totalPageViews"), number(m.TotalPageViews))},
		{"Sessions", known(m.Has("totalSessions"), number(m.TotalSessions))},
		{"Pages per session", known(m.Has("pagesPerSession"), fixed2(m.PagesPerSession))},
		{"Average bounce rate", known(m.Has("avgBounceRate"), percent(m.AvgBounceRate))},
	}}
}

func revenueView(s *domain.Section[domain.RevenueSummary]) *sectionView {
	switch {
	case s.Failed():
		return &sectionView{Note: s.Error}
	case s.Data == nil:
		return &sectionView{Note: orNA(s.Message)}
	}

	rev := s.Data

	return &sectionView{Rows: [][2]string{
		{"Total revenue", known(rev.Has("totalRevenue"), money(rev.TotalRevenue))},
		{"Total costs", known(rev.Has("totalCosts"), money(rev.TotalCosts))},
		{"Net profit", known(rev.Has("netProfit"), money(rev.NetProfit))},
		{"Profit margin", known(rev.Has("profitMargin"), percent(rev.ProfitMargin))},
	}}
}
