package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/YusovID/agency-backoffice/internal/cache"
	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/mailer"
	"github.com/YusovID/agency-backoffice/internal/render"
	"github.com/YusovID/agency-backoffice/internal/repository"
)

type TransactorMock struct {
	mock.Mock
}

func (m *TransactorMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	var tx *sqlx.Tx

	args := m.Called(ctx, opts)
	if args.Get(0) != nil {
		tx = args.Get(0).(*sqlx.Tx)
	}

	return tx, args.Error(1)
}

type ContactRepositoryMock struct {
	mock.Mock
}

var _ repository.ContactRepository = (*ContactRepositoryMock)(nil)

func (m *ContactRepositoryMock) CreateContact(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *ContactRepositoryMock) GetContactByID(ctx context.Context, id string) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *ContactRepositoryMock) GetContactByIDWithLock(ctx context.Context, tx *sqlx.Tx, id string) (*domain.Contact, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *ContactRepositoryMock) ListContacts(ctx context.Context, f domain.ContactFilter) ([]domain.Contact, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]domain.Contact), args.Int(1), args.Error(2)
}

func (m *ContactRepositoryMock) UpdateContact(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *ContactRepositoryMock) UpdateContactStatus(ctx context.Context, tx *sqlx.Tx, id string, status domain.ContactStatus) (*domain.Contact, error) {
	args := m.Called(ctx, tx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *ContactRepositoryMock) DeleteContact(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ContactRepositoryMock) CountContactsByStatus(ctx context.Context) ([]domain.CountByStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.CountByStatus), args.Error(1)
}

func (m *ContactRepositoryMock) CountContactsSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

type ProjectRepositoryMock struct {
	mock.Mock
}

var _ repository.ProjectRepository = (*ProjectRepositoryMock)(nil)

func (m *ProjectRepositoryMock) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *ProjectRepositoryMock) GetProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *ProjectRepositoryMock) GetProjectDetails(ctx context.Context, id string) (*domain.ProjectDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ProjectDetails), args.Error(1)
}

func (m *ProjectRepositoryMock) ListProjects(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]domain.Project), args.Int(1), args.Error(2)
}

func (m *ProjectRepositoryMock) ListProjectsByStatus(ctx context.Context, status domain.ProjectStatus) ([]domain.Project, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *ProjectRepositoryMock) UpdateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *ProjectRepositoryMock) DeleteProject(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepositoryMock) CountProjectsByStatus(ctx context.Context, status domain.ProjectStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

type TaskRepositoryMock struct {
	mock.Mock
}

var _ repository.TaskRepository = (*TaskRepositoryMock)(nil)

func (m *TaskRepositoryMock) CreateTask(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *TaskRepositoryMock) GetTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *TaskRepositoryMock) ListTasksByProject(ctx context.Context, ext sqlx.ExtContext, projectID string) ([]domain.Task, error) {
	args := m.Called(ctx, ext, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *TaskRepositoryMock) UpdateTask(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *TaskRepositoryMock) DeleteTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TaskRepositoryMock) CountOpenTasks(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type RevenueRepositoryMock struct {
	mock.Mock
}

var _ repository.RevenueRepository = (*RevenueRepositoryMock)(nil)

func (m *RevenueRepositoryMock) CreateRevenue(ctx context.Context, e *domain.RevenueEntry) (*domain.RevenueEntry, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.RevenueEntry), args.Error(1)
}

func (m *RevenueRepositoryMock) ListRevenue(ctx context.Context, f domain.RevenueFilter) ([]domain.RevenueEntry, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]domain.RevenueEntry), args.Int(1), args.Error(2)
}

func (m *RevenueRepositoryMock) ListAllRevenue(ctx context.Context, f domain.RevenueFilter) ([]domain.RevenueEntry, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.RevenueEntry), args.Error(1)
}

func (m *RevenueRepositoryMock) ListProjectRevenue(ctx context.Context, projectID string, from, to time.Time) ([]domain.RevenueEntry, error) {
	args := m.Called(ctx, projectID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.RevenueEntry), args.Error(1)
}

func (m *RevenueRepositoryMock) SumRevenue(ctx context.Context, from, to time.Time) (domain.MoneyTotals, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(domain.MoneyTotals), args.Error(1)
}

func (m *RevenueRepositoryMock) DeleteRevenue(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MetricRepositoryMock struct {
	mock.Mock
}

var _ repository.MetricRepository = (*MetricRepositoryMock)(nil)

func (m *MetricRepositoryMock) CreateMetric(ctx context.Context, wm *domain.WebsiteMetric) (*domain.WebsiteMetric, error) {
	args := m.Called(ctx, wm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.WebsiteMetric), args.Error(1)
}

func (m *MetricRepositoryMock) ListMetrics(ctx context.Context, f domain.MetricFilter) ([]domain.WebsiteMetric, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]domain.WebsiteMetric), args.Int(1), args.Error(2)
}

func (m *MetricRepositoryMock) ListMetricsByURL(ctx context.Context, url string, from, to time.Time) ([]domain.WebsiteMetric, error) {
	args := m.Called(ctx, url, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.WebsiteMetric), args.Error(1)
}

type ReportRepositoryMock struct {
	mock.Mock
}

var _ repository.ReportRepository = (*ReportRepositoryMock)(nil)

func (m *ReportRepositoryMock) CreateReport(ctx context.Context, r *domain.Report) (*domain.Report, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *ReportRepositoryMock) GetReportByID(ctx context.Context, id string) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *ReportRepositoryMock) ListReports(ctx context.Context, f domain.ReportFilter) ([]domain.Report, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]domain.Report), args.Int(1), args.Error(2)
}

func (m *ReportRepositoryMock) ExportReports(ctx context.Context, f domain.ReportFilter) ([]domain.Report, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *ReportRepositoryMock) MarkReportSent(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	args := m.Called(ctx, id, sentAt)
	return args.Bool(0), args.Error(1)
}

func (m *ReportRepositoryMock) DeleteReport(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MailerMock struct {
	mock.Mock
}

var _ mailer.Mailer = (*MailerMock)(nil)

func (m *MailerMock) Send(ctx context.Context, msg mailer.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

type PDFCacheMock struct {
	mock.Mock
}

var _ cache.PDFCache = (*PDFCacheMock)(nil)

func (m *PDFCacheMock) Get(ctx context.Context, reportID string) ([]byte, bool, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}

	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *PDFCacheMock) Set(ctx context.Context, reportID string, pdf []byte) error {
	args := m.Called(ctx, reportID, pdf)
	return args.Error(0)
}

func (m *PDFCacheMock) Delete(ctx context.Context, reportID string) error {
	args := m.Called(ctx, reportID)
	return args.Error(0)
}

type RendererMock struct {
	mock.Mock
}

var (
	_ ReportRenderer = (*RendererMock)(nil)
	_ LeadRenderer   = (*RendererMock)(nil)
)

func (m *RendererMock) PDF(rep *domain.Report) ([]byte, error) {
	args := m.Called(rep)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *RendererMock) ReportEmail(rep *domain.Report) (render.Email, error) {
	args := m.Called(rep)
	return args.Get(0).(render.Email), args.Error(1)
}

func (m *RendererMock) LeadNotification(c *domain.Contact) (render.Email, error) {
	args := m.Called(c)
	return args.Get(0).(render.Email), args.Error(1)
}

func (m *RendererMock) LeadAutoReply(c *domain.Contact) (render.Email, error) {
	args := m.Called(c)
	return args.Get(0).(render.Email), args.Error(1)
}
