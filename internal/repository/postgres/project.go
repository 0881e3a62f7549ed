package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/agency-backoffice/internal/apperrors"
	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/pkg/logger/sl"
	"github.com/jmoiron/sqlx"
)

var projectColumns = []string{
	"id", "name", "description", "status", "progress", "budget", "url",
	"start_date", "end_date", "contact_id", "manager_name", "created_at", "updated_at",
}

const projectReturning = "RETURNING id, name, description, status, progress, budget, url, " +
	"start_date, end_date, contact_id, manager_name, created_at, updated_at"

type ProjectRepository struct {
	db    *sqlx.DB
	log   *slog.Logger
	sq    sq.StatementBuilderType
	tasks *TaskRepository
}

func NewProjectRepository(db *sqlx.DB, log *slog.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:    db,
		log:   log,
		sq:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		tasks: NewTaskRepository(db, log),
	}
}

func (r *ProjectRepository) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	const op = "internal.repository.postgres.CreateProject"

	query, args, err := r.sq.Insert("projects").
		Columns("name", "description", "status", "progress", "budget", "url",
			"start_date", "end_date", "contact_id", "manager_name").
		Values(p.Name, p.Description, p.Status, p.Progress, p.Budget, p.URL,
			p.StartDate, p.EndDate, p.ContactID, p.ManagerName).
		Suffix(projectReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.Project
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return nil, apperrors.NotFound("contact", deref(p.ContactID))
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (r *ProjectRepository) GetProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	return r.getProject(ctx, r.db, id)
}

func (r *ProjectRepository) getProject(ctx context.Context, q sqlx.QueryerContext, id string) (*domain.Project, error) {
	const op = "internal.repository.postgres.GetProjectByID"

	query, args, err := r.sq.Select(projectColumns...).
		From("projects").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var p domain.Project
	if err := sqlx.GetContext(ctx, q, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("project", id)
		}

		return nil, fmt.Errorf("%s: failed to get project: %w", op, err)
	}

	return &p, nil
}

func (r *ProjectRepository) GetProjectDetails(ctx context.Context, id string) (*domain.ProjectDetails, error) {
	const op = "internal.repository.postgres.GetProjectDetails"
	log := r.log.With(slog.String("op", op), slog.String("project_id", id))

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Error("failed to rollback transaction", sl.Err(err))
		}
	}()

	project, err := r.getProject(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	details := &domain.ProjectDetails{Project: *project}

	if project.ContactID != nil {
		query, args, err := r.sq.Select(contactColumns...).
			From("contacts").
			Where(sq.Eq{"id": *project.ContactID}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to build contact query: %w", op, err)
		}

		var contact domain.Contact
		switch err := tx.GetContext(ctx, &contact, query, args...); {
		case err == nil:
			details.Contact = &contact
		case errors.Is(err, sql.ErrNoRows):
			log.Warn("project references a missing contact", slog.String("contact_id", *project.ContactID))
		default:
			return nil, fmt.Errorf("%s: failed to get contact: %w", op, err)
		}
	}

	details.Tasks, err = r.tasks.ListTasksByProject(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return details, nil
}

func (r *ProjectRepository) ListProjects(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, int, error) {
	const op = "internal.repository.postgres.ListProjects"

	base := r.sq.Select().From("projects")

	if f.Status != "" {
		base = base.Where(sq.Eq{"status": f.Status})
	}

	if f.Search != "" {
		base = base.Where(sq.ILike{"name": "%" + f.Search + "%"})
	}

	projects, total, err := countAndSelect[domain.Project](ctx, r.db, base, projectColumns,
		"created_at DESC", f.Limit, f.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return projects, total, nil
}

func (r *ProjectRepository) ListProjectsByStatus(ctx context.Context, status domain.ProjectStatus) ([]domain.Project, error) {
	const op = "internal.repository.postgres.ListProjectsByStatus"

	query, args, err := r.sq.Select(projectColumns...).
		From("projects").
		Where(sq.Eq{"status": status}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	projects := []domain.Project{}
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return projects, nil
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	const op = "internal.repository.postgres.UpdateProject"

	query, args, err := r.sq.Update("projects").
		SetMap(map[string]any{
			"name":         p.Name,
			"description":  p.Description,
			"status":       p.Status,
			"progress":     p.Progress,
			"budget":       p.Budget,
			"url":          p.URL,
			"start_date":   p.StartDate,
			"end_date":     p.EndDate,
			"contact_id":   p.ContactID,
			"manager_name": p.ManagerName,
			"updated_at":   sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": p.ID}).
		Suffix(projectReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var updated domain.Project
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("project", p.ID)
		}

		if pgCode(err) == pgForeignKeyViolation {
			return nil, apperrors.NotFound("contact", deref(p.ContactID))
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return &updated, nil
}

func (r *ProjectRepository) DeleteProject(ctx context.Context, id string) error {
	const op = "internal.repository.postgres.DeleteProject"

	return deleteByID(ctx, r.db, r.sq, op, "projects", "project", id)
}

func (r *ProjectRepository) CountProjectsByStatus(ctx context.Context, status domain.ProjectStatus) (int, error) {
	const op = "internal.repository.postgres.CountProjectsByStatus"

	query, args, err := r.sq.Select("COUNT(*)").
		From("projects").
		Where(sq.Eq{"status": status}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return n, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
