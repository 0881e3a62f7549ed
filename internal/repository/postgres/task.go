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
	"github.com/jmoiron/sqlx"
)

var taskColumns = []string{
	"id", "project_id", "title", "description", "status", "priority",
	"assignee_name", "due_date", "created_at", "updated_at",
}

const taskReturning = "RETURNING id, project_id, title, description, status, priority, " +
	"assignee_name, due_date, created_at, updated_at"

type TaskRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewTaskRepository(db *sqlx.DB, log *slog.Logger) *TaskRepository {
	return &TaskRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *TaskRepository) CreateTask(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	const op = "internal.repository.postgres.CreateTask"

	query, args, err := r.sq.Insert("tasks").
		Columns("project_id", "title", "description", "status", "priority", "assignee_name", "due_date").
		Values(t.ProjectID, t.Title, t.Description, t.Status, t.Priority, t.AssigneeName, t.DueDate).
		Suffix(taskReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.Task
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return nil, apperrors.NotFound("project", t.ProjectID)
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (r *TaskRepository) GetTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	const op = "internal.repository.postgres.GetTaskByID"

	query, args, err := r.sq.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var t domain.Task
	if err := r.db.GetContext(ctx, &t, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("task", id)
		}

		return nil, fmt.Errorf("%s: failed to get task: %w", op, err)
	}

	return &t, nil
}

func (r *TaskRepository) ListTasksByProject(ctx context.Context, ext sqlx.ExtContext, projectID string) ([]domain.Task, error) {
	const op = "internal.repository.postgres.ListTasksByProject"

	query, args, err := r.sq.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	tasks := []domain.Task{}
	if err := sqlx.SelectContext(ctx, ext, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to select tasks: %w", op, err)
	}

	return tasks, nil
}

func (r *TaskRepository) UpdateTask(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	const op = "internal.repository.postgres.UpdateTask"

	query, args, err := r.sq.Update("tasks").
		SetMap(map[string]any{
			"title":         t.Title,
			"description":   t.Description,
			"status":        t.Status,
			"priority":      t.Priority,
			"assignee_name": t.AssigneeName,
			"due_date":      t.DueDate,
			"updated_at":    sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": t.ID}).
		Suffix(taskReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var updated domain.Task
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("task", t.ID)
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return &updated, nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id string) error {
	const op = "internal.repository.postgres.DeleteTask"

	return deleteByID(ctx, r.db, r.sq, op, "tasks", "task", id)
}

func (r *TaskRepository) CountOpenTasks(ctx context.Context) (int, error) {
	const op = "internal.repository.postgres.CountOpenTasks"

	query, args, err := r.sq.Select("COUNT(*)").
		From("tasks").
		Where(sq.NotEq{"status": domain.TaskStatusCompleted}).
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
