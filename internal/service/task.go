package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/YusovID/agency-backoffice/internal/apperrors"
	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/repository"
)

type TaskService interface {
	Create(ctx context.Context, projectID string, in domain.TaskInput) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Task, error)
	Update(ctx context.Context, id string, in domain.TaskInput) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

type TaskServiceImpl struct {
	db       sqlx.ExtContext
	log      *slog.Logger
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
}

func NewTaskService(
	db sqlx.ExtContext,
	log *slog.Logger,
	tasks repository.TaskRepository,
	projects repository.ProjectRepository,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		db:       db,
		log:      log,
		tasks:    tasks,
		projects: projects,
	}
}

func (s *TaskServiceImpl) Create(ctx context.Context, projectID string, in domain.TaskInput) (*domain.Task, error) {
	const op = "internal.service.task.Create"

	t := &domain.Task{ProjectID: projectID}
	applyTaskInput(t, in)

	created, err := s.tasks.CreateTask(ctx, t)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

// ListByProject returns apperrors.ErrNotFound for an unknown project rather
// than an empty list.
func (s *TaskServiceImpl) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	const op = "internal.service.task.ListByProject"

	if _, err := s.projects.GetProjectByID(ctx, projectID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%s: failed to get project: %w", op, err)
	}

	tasks, err := s.tasks.ListTasksByProject(ctx, s.db, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tasks, nil
}

func (s *TaskServiceImpl) Update(ctx context.Context, id string, in domain.TaskInput) (*domain.Task, error) {
	const op = "internal.service.task.Update"

	t, err := s.tasks.GetTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%s: failed to get task: %w", op, err)
	}

	applyTaskInput(t, in)

	updated, err := s.tasks.UpdateTask(ctx, t)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

func (s *TaskServiceImpl) Delete(ctx context.Context, id string) error {
	const op = "internal.service.task.Delete"

	if err := s.tasks.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func applyTaskInput(t *domain.Task, in domain.TaskInput) {
	t.Title = in.Title
	t.Description = in.Description
	t.Status = in.Status
	t.Priority = in.Priority
	t.AssigneeName = in.AssigneeName
	t.DueDate = in.DueDate

	if t.Status == "" {
		t.Status = domain.TaskStatusTodo
	}

	if t.Priority == "" {
		t.Priority = domain.TaskPriorityMedium
	}
}
