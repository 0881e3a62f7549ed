package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/YusovID/agency-backoffice/internal/apperrors"
	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/mailer"
	"github.com/YusovID/agency-backoffice/internal/render"
	"github.com/YusovID/agency-backoffice/internal/report"
)

type reportMocks struct {
	projects *ProjectRepositoryMock
	metrics  *MetricRepositoryMock
	revenue  *RevenueRepositoryMock
	reports  *ReportRepositoryMock
	renderer *RendererMock
	cache    *PDFCacheMock
	mailer   *MailerMock
}

func newReportService() (*ReportServiceImpl, *reportMocks) {
	m := &reportMocks{
		projects: new(ProjectRepositoryMock),
		metrics:  new(MetricRepositoryMock),
		revenue:  new(RevenueRepositoryMock),
		reports:  new(ReportRepositoryMock),
		renderer: new(RendererMock),
		cache:    new(PDFCacheMock),
		mailer:   new(MailerMock),
	}

	svc := NewReportService(discardLogger(), fixedClock, m.projects, m.metrics, m.revenue, m.reports, m.renderer, m.cache, m.mailer)

	return svc, m
}

func (m *reportMocks) assertExpectations(t *testing.T) {
	m.projects.AssertExpectations(t)
	m.metrics.AssertExpectations(t)
	m.revenue.AssertExpectations(t)
	m.reports.AssertExpectations(t)
	m.renderer.AssertExpectations(t)
	m.cache.AssertExpectations(t)
	m.mailer.AssertExpectations(t)
}

// expectCreate stores whatever report the service builds and returns it with an id.
func (m *reportMocks) expectCreate(ctx context.Context) *domain.Report {
	stored := &domain.Report{}

	m.reports.On("CreateReport", ctx, mock.AnythingOfType("*domain.Report")).
		Run(func(args mock.Arguments) {
			*stored = *args.Get(1).(*domain.Report)
			stored.ID = "r-1"
		}).
		Return(stored, nil).Once()

	return stored
}

func projectDetails(url string, tasks []domain.Task) *domain.ProjectDetails {
	contactID := "c-1"

	return &domain.ProjectDetails{
		Project: domain.Project{
			ID:        "p-1",
			Name:      "Acme Site",
			Status:    domain.ProjectStatusInProgress,
			Progress:  40,
			Budget:    decimal.NewNullDecimal(decimal.RequireFromString("5000")),
			URL:       url,
			ContactID: &contactID,
		},
		Contact: &domain.Contact{ID: contactID, Name: "Jane Roe", Email: "jane@acme.example", Company: "Acme"},
		Tasks:   tasks,
	}
}

func tasksInOctober(total, completed int) []domain.Task {
	tasks := make([]domain.Task, total)
	for i := range tasks {
		status := domain.TaskStatusTodo
		if i < completed {
			status = domain.TaskStatusCompleted
		}

		tasks[i] = domain.Task{
			ID:        fmt.Sprintf("t-%d", i),
			Title:     fmt.Sprintf("Task %d", i),
			Status:    status,
			Priority:  domain.TaskPriorityMedium,
			CreatedAt: time.Date(2026, 10, 1+i, 9, 0, 0, 0, time.UTC),
		}
	}

	return tasks
}

func TestReportService_Generate(t *testing.T) {
	ctx := context.Background()
	currentMonth := report.ResolvePeriod(domain.ReportTypeMonthly, report.PeriodCurrent, testNow)

	t.Run("project not found aborts before aggregation", func(t *testing.T) {
		svc, m := newReportService()
		m.projects.On("GetProjectDetails", ctx, "missing").Return(nil, apperrors.NotFound("project", "missing")).Once()

		_, err := svc.Generate(ctx, GenerateParams{ProjectID: "missing", Type: domain.ReportTypeMonthly, IncludeRevenue: true})

		require.ErrorIs(t, err, apperrors.ErrNotFound)
		m.reports.AssertNotCalled(t, "CreateReport", mock.Anything, mock.Anything)
		m.revenue.AssertNotCalled(t, "ListProjectRevenue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("tasks only omits other sections", func(t *testing.T) {
		svc, m := newReportService()
		m.projects.On("GetProjectDetails", ctx, "p-1").Return(projectDetails("https://acme.example", tasksInOctober(10, 6)), nil).Once()
		stored := m.expectCreate(ctx)

		rep, err := svc.Generate(ctx, GenerateParams{
			ProjectID:    "p-1",
			Type:         domain.ReportTypeMonthly,
			Period:       report.PeriodCurrent,
			IncludeTasks: true,
		})
		require.NoError(t, err)

		assert.Equal(t, "r-1", rep.ID)
		assert.Equal(t, "Acme Site", rep.ProjectName)
		assert.Equal(t, "Monthly Report - Acme Site (Oct 1, 2026 - Oct 19, 2026)", stored.Title)
		assert.Equal(t, testNow, stored.GeneratedAt)
		assert.Equal(t, "p-1", stored.ProjectID)

		sections := stored.Content.Sections
		require.NotNil(t, sections.Tasks)
		assert.Equal(t, 10, sections.Tasks.Total)
		assert.Equal(t, 6, sections.Tasks.Completed)
		assert.Equal(t, 60.0, sections.Tasks.CompletionRate)
		assert.Nil(t, sections.Metrics)
		assert.Nil(t, sections.Revenue)

		assert.Equal(t, currentMonth.Start, stored.Content.Period.StartDate)
		assert.Equal(t, testNow, stored.Content.Period.EndDate)
		require.NotNil(t, stored.Content.Project.Contact)
		assert.Equal(t, "jane@acme.example", stored.Content.Project.Contact.Email)
		require.NotNil(t, stored.Content.Project.Budget)
		assert.Equal(t, "5000", stored.Content.Project.Budget.String())

		m.assertExpectations(t)
	})

	t.Run("failing aggregator is isolated", func(t *testing.T) {
		svc, m := newReportService()
		m.projects.On("GetProjectDetails", ctx, "p-1").Return(projectDetails("https://acme.example", nil), nil).Once()
		m.metrics.On("ListMetricsByURL", ctx, "https://acme.example", currentMonth.Start, currentMonth.End).
			Return(nil, errors.New("connection reset")).Once()
		m.revenue.On("ListProjectRevenue", ctx, "p-1", currentMonth.Start, currentMonth.End).
			Return([]domain.RevenueEntry{
				{Amount: decimal.RequireFromString("1000"), Costs: decimal.RequireFromString("1100.16"), Source: "retainer"},
			}, nil).Once()
		stored := m.expectCreate(ctx)

		_, err := svc.Generate(ctx, GenerateParams{
			ProjectID:      "p-1",
			Type:           domain.ReportTypeMonthly,
			IncludeMetrics: true,
			IncludeRevenue: true,
		})
		require.NoError(t, err)

		sections := stored.Content.Sections
		require.NotNil(t, sections.Metrics)
		assert.Equal(t, report.MetricsFailedMessage, sections.Metrics.Error)

		require.NotNil(t, sections.Revenue)
		require.NotNil(t, sections.Revenue.Data)
		assert.Equal(t, "-100.16", sections.Revenue.Data.NetProfit.String())
		assert.Nil(t, sections.Tasks)

		m.assertExpectations(t)
	})

	t.Run("panicking aggregator is isolated", func(t *testing.T) {
		svc, m := newReportService()
		m.projects.On("GetProjectDetails", ctx, "p-1").Return(projectDetails("", nil), nil).Once()
		m.revenue.On("ListProjectRevenue", ctx, "p-1", mock.Anything, mock.Anything).
			Panic("driver bug").Once()
		stored := m.expectCreate(ctx)

		_, err := svc.Generate(ctx, GenerateParams{
			ProjectID:      "p-1",
			Type:           domain.ReportTypeMonthly,
			IncludeMetrics: true,
			IncludeRevenue: true,
		})
		require.NoError(t, err)

		require.NotNil(t, stored.Content.Sections.Revenue)
		assert.Equal(t, report.RevenueFailedMessage, stored.Content.Sections.Revenue.Error)

		require.NotNil(t, stored.Content.Sections.Metrics)
		assert.Equal(t, report.NoMetricsMessage, stored.Content.Sections.Metrics.Message)
		m.metrics.AssertNotCalled(t, "ListMetricsByURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		m.assertExpectations(t)
	})

	t.Run("empty metrics produce a message", func(t *testing.T) {
		svc, m := newReportService()
		m.projects.On("GetProjectDetails", ctx, "p-1").Return(projectDetails("https://acme.example", nil), nil).Once()
		m.metrics.On("ListMetricsByURL", ctx, "https://acme.example", mock.Anything, mock.Anything).
			Return([]domain.WebsiteMetric{}, nil).Once()
		stored := m.expectCreate(ctx)

		_, err := svc.Generate(ctx, GenerateParams{ProjectID: "p-1", Type: domain.ReportTypeMonthly, IncludeMetrics: true})
		require.NoError(t, err)

		metrics := stored.Content.Sections.Metrics
		require.NotNil(t, metrics)
		assert.False(t, metrics.Failed())
		assert.Nil(t, metrics.Data)
		assert.Equal(t, "No website metrics data available for this period", metrics.Message)

		m.assertExpectations(t)
	})

	t.Run("previous quarter", func(t *testing.T) {
		svc, m := newReportService()
		m.projects.On("GetProjectDetails", ctx, "p-1").Return(projectDetails("", nil), nil).Once()
		stored := m.expectCreate(ctx)

		_, err := svc.Generate(ctx, GenerateParams{ProjectID: "p-1", Type: domain.ReportTypeQuarterly, Period: report.PeriodPrevious})
		require.NoError(t, err)

		assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), stored.Content.Period.StartDate)
		assert.Equal(t, time.Date(2026, 9, 30, 23, 59, 59, 999999999, time.UTC), stored.Content.Period.EndDate)
		assert.Equal(t, "Quarterly Report - Acme Site (Jul 1, 2026 - Sep 30, 2026)", stored.Title)
		assert.Equal(t, domain.Sections{}, stored.Content.Sections)

		m.assertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, m := newReportService()
		m.projects.On("GetProjectDetails", ctx, "p-1").Return(projectDetails("", nil), nil).Once()
		m.reports.On("CreateReport", ctx, mock.Anything).Return(nil, errors.New("disk full")).Once()

		_, err := svc.Generate(ctx, GenerateParams{ProjectID: "p-1", Type: domain.ReportTypeMonthly})
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)

		m.assertExpectations(t)
	})
}

func sentReport(contact *domain.ContactSnapshot) *domain.Report {
	return &domain.Report{
		ID:    "r-1",
		Title: "Monthly Report - Acme Site (Sep 1, 2026 - Sep 30, 2026)",
		Type:  domain.ReportTypeMonthly,
		Content: domain.Content{
			Project: domain.ProjectSnapshot{ID: "p-1", Name: "Acme Site", Contact: contact},
			Period:  domain.Period{StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		},
		ProjectID: "p-1",
	}
}

func TestReportService_SendEmail(t *testing.T) {
	ctx := context.Background()
	jane := &domain.ContactSnapshot{Name: "Jane Roe", Email: "jane@acme.example"}
	pdf := []byte("%PDF-1.3 test")
	body := render.Email{Subject: "subject", HTML: "<p>hi</p>", Text: "hi"}

	t.Run("success marks the report as sent", func(t *testing.T) {
		svc, m := newReportService()
		rep := sentReport(jane)

		m.reports.On("GetReportByID", ctx, "r-1").Return(rep, nil).Once()
		m.cache.On("Get", ctx, "r-1").Return(pdf, true, nil).Once()
		m.renderer.On("ReportEmail", rep).Return(body, nil).Once()
		m.mailer.On("Send", ctx, mock.MatchedBy(func(msg mailer.Message) bool {
			return len(msg.To) == 1 && msg.To[0].Email == "jane@acme.example" &&
				len(msg.Attachments) == 1 &&
				msg.Attachments[0].Filename == "report-acme-site-2026-09-01.pdf" &&
				msg.Attachments[0].ContentType == "application/pdf" &&
				string(msg.Attachments[0].Content) == string(pdf)
		})).Return("msg-42", nil).Once()
		m.reports.On("MarkReportSent", ctx, "r-1", testNow).Return(true, nil).Once()

		receipt, err := svc.SendEmail(ctx, "r-1")
		require.NoError(t, err)
		assert.Equal(t, "msg-42", receipt.EmailID)
		assert.True(t, receipt.FirstSend)

		m.renderer.AssertNotCalled(t, "PDF", mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("provider failure leaves sentAt untouched", func(t *testing.T) {
		svc, m := newReportService()
		rep := sentReport(jane)

		m.reports.On("GetReportByID", ctx, "r-1").Return(rep, nil).Once()
		m.cache.On("Get", ctx, "r-1").Return(nil, false, nil).Once()
		m.renderer.On("PDF", rep).Return(pdf, nil).Once()
		m.cache.On("Set", ctx, "r-1", pdf).Return(nil).Once()
		m.renderer.On("ReportEmail", rep).Return(body, nil).Once()
		m.mailer.On("Send", ctx, mock.Anything).Return("", errors.New("sendgrid: status 401: bad key")).Once()

		_, err := svc.SendEmail(ctx, "r-1")

		require.ErrorIs(t, err, apperrors.ErrMailDelivery)
		var deliveryErr *apperrors.MailDeliveryError
		require.ErrorAs(t, err, &deliveryErr)
		assert.Contains(t, deliveryErr.Reason, "401")

		m.reports.AssertNotCalled(t, "MarkReportSent", mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("resend keeps the first sentAt", func(t *testing.T) {
		svc, m := newReportService()
		rep := sentReport(jane)

		m.reports.On("GetReportByID", ctx, "r-1").Return(rep, nil).Once()
		m.cache.On("Get", ctx, "r-1").Return(pdf, true, nil).Once()
		m.renderer.On("ReportEmail", rep).Return(body, nil).Once()
		m.mailer.On("Send", ctx, mock.Anything).Return("msg-43", nil).Once()
		m.reports.On("MarkReportSent", ctx, "r-1", testNow).Return(false, nil).Once()

		receipt, err := svc.SendEmail(ctx, "r-1")
		require.NoError(t, err)
		assert.False(t, receipt.FirstSend)

		m.assertExpectations(t)
	})

	t.Run("no recipient", func(t *testing.T) {
		svc, m := newReportService()
		m.reports.On("GetReportByID", ctx, "r-1").Return(sentReport(nil), nil).Once()

		_, err := svc.SendEmail(ctx, "r-1")
		require.ErrorIs(t, err, apperrors.ErrNoRecipient)

		m.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("report not found", func(t *testing.T) {
		svc, m := newReportService()
		m.reports.On("GetReportByID", ctx, "nope").Return(nil, apperrors.NotFound("report", "nope")).Once()

		_, err := svc.SendEmail(ctx, "nope")
		require.ErrorIs(t, err, apperrors.ErrNotFound)

		m.assertExpectations(t)
	})
}

func TestReportService_RenderPDF(t *testing.T) {
	ctx := context.Background()
	pdf := []byte("%PDF-1.3 test")

	t.Run("cache miss renders and stores", func(t *testing.T) {
		svc, m := newReportService()
		rep := sentReport(nil)

		m.reports.On("GetReportByID", ctx, "r-1").Return(rep, nil).Once()
		m.cache.On("Get", ctx, "r-1").Return(nil, false, nil).Once()
		m.renderer.On("PDF", rep).Return(pdf, nil).Once()
		m.cache.On("Set", ctx, "r-1", pdf).Return(errors.New("redis down")).Once()

		out, err := svc.RenderPDF(ctx, "r-1")
		require.NoError(t, err)
		assert.Equal(t, pdf, out.Content)
		assert.Equal(t, "report-acme-site-2026-09-01.pdf", out.Filename)

		m.assertExpectations(t)
	})

	t.Run("cache read error falls back to rendering", func(t *testing.T) {
		svc, m := newReportService()
		rep := sentReport(nil)

		m.reports.On("GetReportByID", ctx, "r-1").Return(rep, nil).Once()
		m.cache.On("Get", ctx, "r-1").Return(nil, false, errors.New("redis down")).Once()
		m.renderer.On("PDF", rep).Return(pdf, nil).Once()
		m.cache.On("Set", ctx, "r-1", pdf).Return(nil).Once()

		out, err := svc.RenderPDF(ctx, "r-1")
		require.NoError(t, err)
		assert.Equal(t, pdf, out.Content)

		m.assertExpectations(t)
	})
}

func TestReportService_Delete(t *testing.T) {
	ctx := context.Background()

	svc, m := newReportService()
	m.reports.On("DeleteReport", ctx, "r-1").Return(nil).Once()
	m.cache.On("Delete", ctx, "r-1").Return(nil).Once()
	require.NoError(t, svc.Delete(ctx, "r-1"))
	m.assertExpectations(t)

	svc, m = newReportService()
	m.reports.On("DeleteReport", ctx, "r-2").Return(apperrors.NotFound("report", "r-2")).Once()
	require.ErrorIs(t, svc.Delete(ctx, "r-2"), apperrors.ErrNotFound)
	m.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestReportService_List(t *testing.T) {
	ctx := context.Background()
	svc, m := newReportService()

	f := domain.ReportFilter{PageRequest: domain.NewPageRequest(2, 10), Type: domain.ReportTypeMonthly}
	m.reports.On("ListReports", ctx, f).Return([]domain.Report{{ID: "r-11"}}, 11, nil).Once()

	page, err := svc.List(ctx, f)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, domain.Pagination{Page: 2, Limit: 10, Total: 11, TotalPages: 2, HasPrev: true}, page.Pagination)

	m.assertExpectations(t)
}

func TestReportService_GenerateForActiveProjects(t *testing.T) {
	ctx := context.Background()
	svc, m := newReportService()

	m.projects.On("ListProjectsByStatus", ctx, domain.ProjectStatusInProgress).
		Return([]domain.Project{{ID: "p-1"}, {ID: "p-gone"}}, nil).Once()
	m.projects.On("GetProjectDetails", ctx, "p-1").Return(projectDetails("", nil), nil).Once()
	m.projects.On("GetProjectDetails", ctx, "p-gone").Return(nil, apperrors.NotFound("project", "p-gone")).Once()
	m.revenue.On("ListProjectRevenue", ctx, "p-1", mock.Anything, mock.Anything).Return([]domain.RevenueEntry{}, nil).Once()
	stored := m.expectCreate(ctx)

	n, err := svc.GenerateForActiveProjects(ctx)

	assert.Equal(t, 1, n)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), stored.Content.Period.StartDate)
	assert.NotNil(t, stored.Content.Sections.Tasks)
	assert.NotNil(t, stored.Content.Sections.Metrics)
	assert.NotNil(t, stored.Content.Sections.Revenue)

	m.assertExpectations(t)
}
