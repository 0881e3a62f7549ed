package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/YusovID/agency-backoffice/internal/apperrors"
	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/repository"
	"github.com/YusovID/agency-backoffice/internal/validation"
)

type ProjectService interface {
	Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.ProjectDetails, error)
	List(ctx context.Context, f domain.ProjectFilter) (*domain.Page[domain.Project], error)
	Update(ctx context.Context, id string, in domain.ProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

type ProjectServiceImpl struct {
	log      *slog.Logger
	projects repository.ProjectRepository
}

func NewProjectService(log *slog.Logger, projects repository.ProjectRepository) *ProjectServiceImpl {
	return &ProjectServiceImpl{
		log:      log,
		projects: projects,
	}
}

func (s *ProjectServiceImpl) Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	const op = "internal.service.project.Create"

	p := &domain.Project{}
	if err := applyProjectInput(p, in); err != nil {
		return nil, err
	}

	created, err := s.projects.CreateProject(ctx, p)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("project created", slog.String("op", op), slog.String("project_id", created.ID))

	return created, nil
}

func (s *ProjectServiceImpl) Get(ctx context.Context, id string) (*domain.ProjectDetails, error) {
	const op = "internal.service.project.Get"

	details, err := s.projects.GetProjectDetails(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return details, nil
}

func (s *ProjectServiceImpl) List(ctx context.Context, f domain.ProjectFilter) (*domain.Page[domain.Project], error) {
	const op = "internal.service.project.List"

	projects, total, err := s.projects.ListProjects(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &domain.Page[domain.Project]{Items: projects, Pagination: f.Paginate(total)}, nil
}

func (s *ProjectServiceImpl) Update(ctx context.Context, id string, in domain.ProjectInput) (*domain.Project, error) {
	const op = "internal.service.project.Update"

	p := &domain.Project{ID: id}
	if err := applyProjectInput(p, in); err != nil {
		return nil, err
	}

	updated, err := s.projects.UpdateProject(ctx, p)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

func (s *ProjectServiceImpl) Delete(ctx context.Context, id string) error {
	const op = "internal.service.project.Delete"

	if err := s.projects.DeleteProject(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func applyProjectInput(p *domain.Project, in domain.ProjectInput) error {
	var problems []string

	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		problems = append(problems, "field 'endDate' must not be before 'startDate'")
	}

	if in.Budget != nil && in.Budget.IsNegative() {
		problems = append(problems, "field 'budget' must not be negative")
	}

	if len(problems) > 0 {
		return &validation.ValidationError{Errors: problems}
	}

	status := in.Status
	if status == "" {
		status = domain.ProjectStatusPlanning
	}

	p.Name = in.Name
	p.Description = in.Description
	p.Status = status
	p.Progress = in.Progress
	p.URL = in.URL
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
	p.ContactID = in.ContactID
	p.ManagerName = in.ManagerName
	p.Budget = decimal.NullDecimal{}

	if in.Budget != nil {
		p.Budget = decimal.NewNullDecimal(*in.Budget)
	}

	return nil
}
