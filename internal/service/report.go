package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/YusovID/agency-backoffice/internal/apperrors"
	"github.com/YusovID/agency-backoffice/internal/cache"
	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/export"
	"github.com/YusovID/agency-backoffice/internal/mailer"
	"github.com/YusovID/agency-backoffice/internal/render"
	"github.com/YusovID/agency-backoffice/internal/report"
	"github.com/YusovID/agency-backoffice/internal/repository"
	"github.com/YusovID/agency-backoffice/pkg/logger/sl"
)

const (
	triggerManual   = "manual"
	triggerSchedule = "schedule"

	pdfContentType = "application/pdf"
)

// GenerateParams selects the project, the window and the sections of a new report.
type GenerateParams struct {
	ProjectID      string
	Type           domain.ReportType
	Period         report.PeriodSelector
	IncludeTasks   bool
	IncludeMetrics bool
	IncludeRevenue bool
}

type RenderedPDF struct {
	Filename string
	Content  []byte
}

type EmailReceipt struct {
	EmailID string
	// FirstSend is false when the report had already been marked as sent.
	FirstSend bool
}

type ReportService interface {
	Generate(ctx context.Context, p GenerateParams) (*domain.Report, error)
	Get(ctx context.Context, id string) (*domain.Report, error)
	List(ctx context.Context, f domain.ReportFilter) (*domain.Page[domain.Report], error)
	Delete(ctx context.Context, id string) error
	RenderPDF(ctx context.Context, id string) (*RenderedPDF, error)
	SendEmail(ctx context.Context, id string) (*EmailReceipt, error)
	Export(ctx context.Context, f domain.ReportFilter) ([]byte, error)
	GenerateForActiveProjects(ctx context.Context) (int, error)
}

// ReportRenderer is implemented by render.Renderer.
type ReportRenderer interface {
	PDF(rep *domain.Report) ([]byte, error)
	ReportEmail(rep *domain.Report) (render.Email, error)
}

type ReportServiceImpl struct {
	log      *slog.Logger
	now      Clock
	projects repository.ProjectRepository
	metrics  repository.MetricRepository
	revenue  repository.RevenueRepository
	reports  repository.ReportRepository
	renderer ReportRenderer
	pdfCache cache.PDFCache
	mailer   mailer.Mailer
}

func NewReportService(
	log *slog.Logger,
	now Clock,
	projects repository.ProjectRepository,
	metrics repository.MetricRepository,
	revenue repository.RevenueRepository,
	reports repository.ReportRepository,
	renderer ReportRenderer,
	pdfCache cache.PDFCache,
	m mailer.Mailer,
) *ReportServiceImpl {
	if pdfCache == nil {
		pdfCache = cache.Nop{}
	}

	return &ReportServiceImpl{
		log:      log,
		now:      now,
		projects: projects,
		metrics:  metrics,
		revenue:  revenue,
		reports:  reports,
		renderer: renderer,
		pdfCache: pdfCache,
		mailer:   m,
	}
}

func (s *ReportServiceImpl) Generate(ctx context.Context, p GenerateParams) (*domain.Report, error) {
	return s.generate(ctx, p, triggerManual)
}

func (s *ReportServiceImpl) generate(ctx context.Context, p GenerateParams, trigger string) (*domain.Report, error) {
	const op = "internal.service.report.Generate"
	log := s.log.With(slog.String("op", op), slog.String("project_id", p.ProjectID), slog.String("type", string(p.Type)))

	details, err := s.projects.GetProjectDetails(ctx, p.ProjectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%s: failed to load project: %w", op, err)
	}

	now := s.now()
	window := report.ResolvePeriod(p.Type, p.Period, now)

	rep := &domain.Report{
		Title: report.Title(p.Type, details.Name, window),
		Type:  p.Type,
		Content: domain.Content{
			Project: snapshot(details),
			Period: domain.Period{
				StartDate: window.Start,
				EndDate:   window.End,
				Type:      p.Type,
			},
			Sections: s.aggregate(ctx, log, details, window, p),
		},
		GeneratedAt: now,
		ProjectID:   details.ID,
		ProjectName: details.Name,
	}

	stored, err := s.reports.CreateReport(ctx, rep)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%s: failed to store report: %w", op, err)
	}

	reportsGenerated.WithLabelValues(string(p.Type), trigger).Inc()
	log.Info("report generated", slog.String("report_id", stored.ID), slog.String("trigger", trigger))

	return stored, nil
}

// aggregate runs the requested aggregators concurrently. A failing aggregator
// only turns its own section into an error entry.
func (s *ReportServiceImpl) aggregate(
	ctx context.Context,
	log *slog.Logger,
	details *domain.ProjectDetails,
	w report.Window,
	p GenerateParams,
) domain.Sections {
	var (
		sections domain.Sections
		wg       sync.WaitGroup
	)

	if p.IncludeMetrics {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sections.Metrics = fenced(log, "metrics", report.MetricsFailedMessage, func() (*domain.Section[domain.MetricsSummary], error) {
				return s.metricsSection(ctx, details.URL, w)
			})
		}()
	}

	if p.IncludeRevenue {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sections.Revenue = fenced(log, "revenue", report.RevenueFailedMessage, func() (*domain.Section[domain.RevenueSummary], error) {
				return s.revenueSection(ctx, details.ID, w)
			})
		}()
	}

	if p.IncludeTasks {
		summary := report.AggregateTasks(details.Tasks, w)
		sections.Tasks = &summary
	}

	wg.Wait()

	return sections
}

func (s *ReportServiceImpl) metricsSection(ctx context.Context, url string, w report.Window) (*domain.Section[domain.MetricsSummary], error) {
	if url == "" {
		return domain.SectionMessage[domain.MetricsSummary](report.NoMetricsMessage), nil
	}

	rows, err := s.metrics.ListMetricsByURL(ctx, url, w.Start, w.End)
	if err != nil {
		return nil, err
	}

	return report.AggregateMetrics(rows), nil
}

func (s *ReportServiceImpl) revenueSection(ctx context.Context, projectID string, w report.Window) (*domain.Section[domain.RevenueSummary], error) {
	rows, err := s.revenue.ListProjectRevenue(ctx, projectID, w.Start, w.End)
	if err != nil {
		return nil, err
	}

	return domain.SectionOK(report.AggregateRevenue(rows)), nil
}

// fenced runs one aggregator and converts an error or a panic into a section error.
func fenced[T any](log *slog.Logger, section, failMsg string, fn func() (*domain.Section[T], error)) (out *domain.Section[T]) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("section aggregator panicked", slog.String("section", section), slog.Any("panic", r))
			reportSectionFailures.WithLabelValues(section).Inc()
			out = domain.SectionError[T](failMsg)
		}
	}()

	res, err := fn()
	if err != nil {
		log.Error("section aggregator failed", slog.String("section", section), sl.Err(err))
		reportSectionFailures.WithLabelValues(section).Inc()

		return domain.SectionError[T](failMsg)
	}

	return res
}

func snapshot(d *domain.ProjectDetails) domain.ProjectSnapshot {
	snap := domain.ProjectSnapshot{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Status:      d.Status,
		Progress:    d.Progress,
		URL:         d.URL,
		ManagerName: d.ManagerName,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
	}

	if d.Budget.Valid {
		budget := d.Budget.Decimal
		snap.Budget = &budget
	}

	if d.Contact != nil {
		snap.Contact = &domain.ContactSnapshot{
			Name:    d.Contact.Name,
			Email:   d.Contact.Email,
			Company: d.Contact.Company,
		}
	}

	return snap
}

func (s *ReportServiceImpl) Get(ctx context.Context, id string) (*domain.Report, error) {
	const op = "internal.service.report.Get"

	rep, err := s.reports.GetReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rep, nil
}

func (s *ReportServiceImpl) List(ctx context.Context, f domain.ReportFilter) (*domain.Page[domain.Report], error) {
	const op = "internal.service.report.List"

	reports, total, err := s.reports.ListReports(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &domain.Page[domain.Report]{Items: reports, Pagination: f.Paginate(total)}, nil
}

func (s *ReportServiceImpl) Delete(ctx context.Context, id string) error {
	const op = "internal.service.report.Delete"

	if err := s.reports.DeleteReport(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.pdfCache.Delete(ctx, id); err != nil {
		s.log.Warn("failed to evict cached pdf", slog.String("op", op), slog.String("report_id", id), sl.Err(err))
	}

	return nil
}

func (s *ReportServiceImpl) RenderPDF(ctx context.Context, id string) (*RenderedPDF, error) {
	rep, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	pdf, err := s.pdf(ctx, rep)
	if err != nil {
		return nil, err
	}

	return &RenderedPDF{Filename: render.Filename(rep), Content: pdf}, nil
}

// pdf renders rep, going through the cache. Cache failures are logged and
// never fail the request.
func (s *ReportServiceImpl) pdf(ctx context.Context, rep *domain.Report) ([]byte, error) {
	const op = "internal.service.report.pdf"
	log := s.log.With(slog.String("op", op), slog.String("report_id", rep.ID))

	cached, ok, err := s.pdfCache.Get(ctx, rep.ID)
	if err != nil {
		log.Warn("pdf cache read failed", sl.Err(err))
	}
	if ok {
		return cached, nil
	}

	pdf, err := s.renderer.PDF(rep)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to render pdf: %w", op, err)
	}

	if err := s.pdfCache.Set(ctx, rep.ID, pdf); err != nil {
		log.Warn("pdf cache write failed", sl.Err(err))
	}

	return pdf, nil
}

// SendEmail mails the report PDF to the project's contact and then marks the
// report as sent. When the provider rejects the message sent_at is untouched.
func (s *ReportServiceImpl) SendEmail(ctx context.Context, id string) (*EmailReceipt, error) {
	const op = "internal.service.report.SendEmail"
	log := s.log.With(slog.String("op", op), slog.String("report_id", id))

	rep, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	contact := rep.Content.Project.Contact
	if contact == nil || contact.Email == "" {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrNoRecipient)
	}

	pdf, err := s.pdf(ctx, rep)
	if err != nil {
		return nil, err
	}

	body, err := s.renderer.ReportEmail(rep)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to render email: %w", op, err)
	}

	emailID, err := s.mailer.Send(ctx, mailer.Message{
		To:      []mailer.Address{{Name: contact.Name, Email: contact.Email}},
		Subject: body.Subject,
		HTML:    body.HTML,
		Text:    body.Text,
		Attachments: []mailer.Attachment{{
			Filename:    render.Filename(rep),
			ContentType: pdfContentType,
			Content:     pdf,
		}},
	})
	emailsSent.WithLabelValues("report", resultLabel(err)).Inc()

	if err != nil {
		log.Error("mail provider rejected report email", sl.Err(err))
		return nil, &apperrors.MailDeliveryError{Reason: err.Error()}
	}

	first, err := s.reports.MarkReportSent(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%s: email %s accepted but report not marked as sent: %w", op, emailID, err)
	}

	log.Info("report emailed", slog.String("email_id", emailID), slog.Bool("first_send", first))

	return &EmailReceipt{EmailID: emailID, FirstSend: first}, nil
}

func (s *ReportServiceImpl) Export(ctx context.Context, f domain.ReportFilter) ([]byte, error) {
	const op = "internal.service.report.Export"

	reports, err := s.reports.ExportReports(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b, err := export.Reports(reports)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// GenerateForActiveProjects stores a MONTHLY report for the previous month,
// with every section, for each project in progress. A failing project does
// not stop the others; their errors are joined.
func (s *ReportServiceImpl) GenerateForActiveProjects(ctx context.Context) (int, error) {
	const op = "internal.service.report.GenerateForActiveProjects"

	projects, err := s.projects.ListProjectsByStatus(ctx, domain.ProjectStatusInProgress)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to list active projects: %w", op, err)
	}

	var (
		generated int
		errs      []error
	)

	for _, p := range projects {
		_, err := s.generate(ctx, GenerateParams{
			ProjectID:      p.ID,
			Type:           domain.ReportTypeMonthly,
			Period:         report.PeriodPrevious,
			IncludeTasks:   true,
			IncludeMetrics: true,
			IncludeRevenue: true,
		}, triggerSchedule)
		if err != nil {
			errs = append(errs, fmt.Errorf("project %s: %w", p.ID, err))
			continue
		}

		generated++
	}

	if len(errs) > 0 {
		return generated, fmt.Errorf("%s: %w", op, errors.Join(errs...))
	}

	return generated, nil
}
