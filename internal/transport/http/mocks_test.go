package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/YusovID/agency-backoffice/internal/auth"
	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/service"
)

var (
	_ service.ReportService    = (*ReportServiceMock)(nil)
	_ service.ContactService   = (*ContactServiceMock)(nil)
	_ service.ProjectService   = (*ProjectServiceMock)(nil)
	_ service.TaskService      = (*TaskServiceMock)(nil)
	_ service.RevenueService   = (*RevenueServiceMock)(nil)
	_ service.MetricService    = (*MetricServiceMock)(nil)
	_ service.DashboardService = (*DashboardServiceMock)(nil)
	_ Authenticator            = (*AuthenticatorMock)(nil)
	_ Pinger                   = (*PingerMock)(nil)
)

// result unpacks a (pointer, error) mock return.
func result[T any](args mock.Arguments) (*T, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*T), args.Error(1)
}

type ReportServiceMock struct {
	mock.Mock
}

func (m *ReportServiceMock) Generate(ctx context.Context, p service.GenerateParams) (*domain.Report, error) {
	return result[domain.Report](m.Called(ctx, p))
}

func (m *ReportServiceMock) Get(ctx context.Context, id string) (*domain.Report, error) {
	return result[domain.Report](m.Called(ctx, id))
}

func (m *ReportServiceMock) List(ctx context.Context, f domain.ReportFilter) (*domain.Page[domain.Report], error) {
	return result[domain.Page[domain.Report]](m.Called(ctx, f))
}

func (m *ReportServiceMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ReportServiceMock) RenderPDF(ctx context.Context, id string) (*service.RenderedPDF, error) {
	return result[service.RenderedPDF](m.Called(ctx, id))
}

func (m *ReportServiceMock) SendEmail(ctx context.Context, id string) (*service.EmailReceipt, error) {
	return result[service.EmailReceipt](m.Called(ctx, id))
}

func (m *ReportServiceMock) Export(ctx context.Context, f domain.ReportFilter) ([]byte, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *ReportServiceMock) GenerateForActiveProjects(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type ContactServiceMock struct {
	mock.Mock
}

func (m *ContactServiceMock) SubmitLead(ctx context.Context, in domain.ContactInput) (*service.LeadResult, error) {
	return result[service.LeadResult](m.Called(ctx, in))
}

func (m *ContactServiceMock) Create(ctx context.Context, in domain.ContactInput) (*domain.Contact, error) {
	return result[domain.Contact](m.Called(ctx, in))
}

func (m *ContactServiceMock) Get(ctx context.Context, id string) (*domain.Contact, error) {
	return result[domain.Contact](m.Called(ctx, id))
}

func (m *ContactServiceMock) List(ctx context.Context, f domain.ContactFilter) (*domain.Page[domain.Contact], error) {
	return result[domain.Page[domain.Contact]](m.Called(ctx, f))
}

func (m *ContactServiceMock) Update(ctx context.Context, id string, in domain.ContactInput) (*domain.Contact, error) {
	return result[domain.Contact](m.Called(ctx, id, in))
}

func (m *ContactServiceMock) UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) (*domain.Contact, error) {
	return result[domain.Contact](m.Called(ctx, id, status))
}

func (m *ContactServiceMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type ProjectServiceMock struct {
	mock.Mock
}

func (m *ProjectServiceMock) Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	return result[domain.Project](m.Called(ctx, in))
}

func (m *ProjectServiceMock) Get(ctx context.Context, id string) (*domain.ProjectDetails, error) {
	return result[domain.ProjectDetails](m.Called(ctx, id))
}

func (m *ProjectServiceMock) List(ctx context.Context, f domain.ProjectFilter) (*domain.Page[domain.Project], error) {
	return result[domain.Page[domain.Project]](m.Called(ctx, f))
}

func (m *ProjectServiceMock) Update(ctx context.Context, id string, in domain.ProjectInput) (*domain.Project, error) {
	return result[domain.Project](m.Called(ctx, id, in))
}

func (m *ProjectServiceMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type TaskServiceMock struct {
	mock.Mock
}

func (m *TaskServiceMock) Create(ctx context.Context, projectID string, in domain.TaskInput) (*domain.Task, error) {
	return result[domain.Task](m.Called(ctx, projectID, in))
}

func (m *TaskServiceMock) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *TaskServiceMock) Update(ctx context.Context, id string, in domain.TaskInput) (*domain.Task, error) {
	return result[domain.Task](m.Called(ctx, id, in))
}

func (m *TaskServiceMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type RevenueServiceMock struct {
	mock.Mock
}

func (m *RevenueServiceMock) Create(ctx context.Context, in domain.RevenueInput) (*domain.RevenueEntry, error) {
	return result[domain.RevenueEntry](m.Called(ctx, in))
}

func (m *RevenueServiceMock) List(ctx context.Context, f domain.RevenueFilter) (*domain.Page[domain.RevenueEntry], error) {
	return result[domain.Page[domain.RevenueEntry]](m.Called(ctx, f))
}

func (m *RevenueServiceMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *RevenueServiceMock) Export(ctx context.Context, f domain.RevenueFilter) ([]byte, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

type MetricServiceMock struct {
	mock.Mock
}

func (m *MetricServiceMock) Record(ctx context.Context, in domain.MetricInput) (*domain.WebsiteMetric, error) {
	return result[domain.WebsiteMetric](m.Called(ctx, in))
}

func (m *MetricServiceMock) List(ctx context.Context, f domain.MetricFilter) (*domain.Page[domain.WebsiteMetric], error) {
	return result[domain.Page[domain.WebsiteMetric]](m.Called(ctx, f))
}

type DashboardServiceMock struct {
	mock.Mock
}

func (m *DashboardServiceMock) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	return result[domain.DashboardSummary](m.Called(ctx))
}

type AuthenticatorMock struct {
	mock.Mock
}

func (m *AuthenticatorMock) Login(email, password string) (*auth.Token, error) {
	return result[auth.Token](m.Called(email, password))
}

func (m *AuthenticatorMock) Verify(token string) (*auth.Claims, error) {
	return result[auth.Claims](m.Called(token))
}

type PingerMock struct {
	mock.Mock
}

func (m *PingerMock) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
