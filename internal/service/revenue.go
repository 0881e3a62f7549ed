package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/YusovID/agency-backoffice/internal/apperrors"
	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/export"
	"github.com/YusovID/agency-backoffice/internal/repository"
	"github.com/YusovID/agency-backoffice/internal/validation"
)

type RevenueService interface {
	Create(ctx context.Context, in domain.RevenueInput) (*domain.RevenueEntry, error)
	List(ctx context.Context, f domain.RevenueFilter) (*domain.Page[domain.RevenueEntry], error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, f domain.RevenueFilter) ([]byte, error)
}

type RevenueServiceImpl struct {
	log     *slog.Logger
	revenue repository.RevenueRepository
}

func NewRevenueService(log *slog.Logger, revenue repository.RevenueRepository) *RevenueServiceImpl {
	return &RevenueServiceImpl{
		log:     log,
		revenue: revenue,
	}
}

// Create stores an entry owned by a project or by a contact, never both.
func (s *RevenueServiceImpl) Create(ctx context.Context, in domain.RevenueInput) (*domain.RevenueEntry, error) {
	const op = "internal.service.revenue.Create"

	var problems []string

	if in.ProjectID != nil && in.ContactID != nil {
		problems = append(problems, "only one of 'projectId' and 'contactId' may be set")
	}

	if in.Amount.IsNegative() {
		problems = append(problems, "field 'amount' must not be negative")
	}

	if in.Costs.IsNegative() {
		problems = append(problems, "field 'costs' must not be negative")
	}

	if len(problems) > 0 {
		return nil, &validation.ValidationError{Errors: problems}
	}

	created, err := s.revenue.CreateRevenue(ctx, &domain.RevenueEntry{
		Amount:      in.Amount,
		Costs:       in.Costs,
		Date:        in.Date,
		Source:      in.Source,
		Description: in.Description,
		ProjectID:   in.ProjectID,
		ContactID:   in.ContactID,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (s *RevenueServiceImpl) List(ctx context.Context, f domain.RevenueFilter) (*domain.Page[domain.RevenueEntry], error) {
	const op = "internal.service.revenue.List"

	entries, total, err := s.revenue.ListRevenue(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &domain.Page[domain.RevenueEntry]{Items: entries, Pagination: f.Paginate(total)}, nil
}

func (s *RevenueServiceImpl) Delete(ctx context.Context, id string) error {
	const op = "internal.service.revenue.Delete"

	if err := s.revenue.DeleteRevenue(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *RevenueServiceImpl) Export(ctx context.Context, f domain.RevenueFilter) ([]byte, error) {
	const op = "internal.service.revenue.Export"

	entries, err := s.revenue.ListAllRevenue(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b, err := export.Revenue(entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}
