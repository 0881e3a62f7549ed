// package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the service layer.
package repository

import (
	"context"
	"time"

	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/jmoiron/sqlx"
)

// ContactRepository defines the contract for lead (contact) data.
type ContactRepository interface {
	// CreateContact inserts a contact and returns the stored row.
	CreateContact(ctx context.Context, c *domain.Contact) (*domain.Contact, error)

	// GetContactByID returns apperrors.ErrNotFound if the contact does not exist.
	GetContactByID(ctx context.Context, id string) (*domain.Contact, error)

	// GetContactByIDWithLock retrieves a contact and acquires a row-level lock ("FOR UPDATE").
	// It returns apperrors.ErrNotFound if the contact does not exist.
	GetContactByIDWithLock(ctx context.Context, tx *sqlx.Tx, id string) (*domain.Contact, error)

	// ListContacts returns one page of contacts and the total number of matches.
	ListContacts(ctx context.Context, f domain.ContactFilter) ([]domain.Contact, int, error)

	// UpdateContact overwrites the editable fields. Status is changed only through UpdateContactStatus.
	UpdateContact(ctx context.Context, c *domain.Contact) (*domain.Contact, error)

	// UpdateContactStatus is intended to run in the transaction holding the row lock.
	UpdateContactStatus(ctx context.Context, tx *sqlx.Tx, id string, status domain.ContactStatus) (*domain.Contact, error)

	DeleteContact(ctx context.Context, id string) error

	CountContactsByStatus(ctx context.Context) ([]domain.CountByStatus, error)
	CountContactsSince(ctx context.Context, since time.Time) (int, error)
}

// ProjectRepository defines the contract for project data.
type ProjectRepository interface {
	CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error)

	// GetProjectByID returns apperrors.ErrNotFound if the project does not exist.
	GetProjectByID(ctx context.Context, id string) (*domain.Project, error)

	// GetProjectDetails loads a project with its contact and every task from one
	// consistent snapshot. It returns apperrors.ErrNotFound if the project does not exist.
	GetProjectDetails(ctx context.Context, id string) (*domain.ProjectDetails, error)

	ListProjects(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, int, error)
	ListProjectsByStatus(ctx context.Context, status domain.ProjectStatus) ([]domain.Project, error)
	UpdateProject(ctx context.Context, p *domain.Project) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
	CountProjectsByStatus(ctx context.Context, status domain.ProjectStatus) (int, error)
}

// TaskRepository defines the contract for project task data.
type TaskRepository interface {
	// CreateTask returns apperrors.ErrNotFound if the owning project does not exist.
	CreateTask(ctx context.Context, t *domain.Task) (*domain.Task, error)
	GetTaskByID(ctx context.Context, id string) (*domain.Task, error)

	// ListTasksByProject can run inside a transaction or directly on the DB connection.
	ListTasksByProject(ctx context.Context, ext sqlx.ExtContext, projectID string) ([]domain.Task, error)

	UpdateTask(ctx context.Context, t *domain.Task) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error

	// CountOpenTasks counts tasks that are not COMPLETED.
	CountOpenTasks(ctx context.Context) (int, error)
}

// RevenueRepository defines the contract for revenue entries.
type RevenueRepository interface {
	CreateRevenue(ctx context.Context, e *domain.RevenueEntry) (*domain.RevenueEntry, error)
	ListRevenue(ctx context.Context, f domain.RevenueFilter) ([]domain.RevenueEntry, int, error)

	// ListAllRevenue applies the filter without pagination.
	ListAllRevenue(ctx context.Context, f domain.RevenueFilter) ([]domain.RevenueEntry, error)

	// ListProjectRevenue returns the project's entries dated within [from, to].
	ListProjectRevenue(ctx context.Context, projectID string, from, to time.Time) ([]domain.RevenueEntry, error)

	// SumRevenue totals amounts and costs of all entries dated within [from, to].
	SumRevenue(ctx context.Context, from, to time.Time) (domain.MoneyTotals, error)

	DeleteRevenue(ctx context.Context, id string) error
}

// MetricRepository defines the contract for website metric snapshots.
type MetricRepository interface {
	CreateMetric(ctx context.Context, m *domain.WebsiteMetric) (*domain.WebsiteMetric, error)
	ListMetrics(ctx context.Context, f domain.MetricFilter) ([]domain.WebsiteMetric, int, error)

	// ListMetricsByURL returns snapshots for url created within [from, to], oldest first.
	ListMetricsByURL(ctx context.Context, url string, from, to time.Time) ([]domain.WebsiteMetric, error)
}

// ReportRepository defines the contract for generated reports.
// Report content is never updated; the only mutation is MarkReportSent.
type ReportRepository interface {
	CreateReport(ctx context.Context, r *domain.Report) (*domain.Report, error)

	// GetReportByID returns apperrors.ErrNotFound if the report does not exist.
	GetReportByID(ctx context.Context, id string) (*domain.Report, error)

	ListReports(ctx context.Context, f domain.ReportFilter) ([]domain.Report, int, error)

	// ExportReports applies the filter without pagination.
	ExportReports(ctx context.Context, f domain.ReportFilter) ([]domain.Report, error)

	// MarkReportSent sets sent_at only if it is still NULL and reports whether it did.
	// It returns apperrors.ErrNotFound if the report does not exist.
	MarkReportSent(ctx context.Context, id string, sentAt time.Time) (bool, error)

	DeleteReport(ctx context.Context, id string) error
}
