package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/repository"
)

type MetricService interface {
	Record(ctx context.Context, in domain.MetricInput) (*domain.WebsiteMetric, error)
	List(ctx context.Context, f domain.MetricFilter) (*domain.Page[domain.WebsiteMetric], error)
}

type MetricServiceImpl struct {
	log     *slog.Logger
	now     Clock
	metrics repository.MetricRepository
}

func NewMetricService(log *slog.Logger, now Clock, metrics repository.MetricRepository) *MetricServiceImpl {
	return &MetricServiceImpl{
		log:     log,
		now:     now,
		metrics: metrics,
	}
}

// Record stores a traffic snapshot, stamped now unless RecordedAt is given.
func (s *MetricServiceImpl) Record(ctx context.Context, in domain.MetricInput) (*domain.WebsiteMetric, error) {
	const op = "internal.service.metric.Record"

	recordedAt := s.now()
	if in.RecordedAt != nil {
		recordedAt = *in.RecordedAt
	}

	m, err := s.metrics.CreateMetric(ctx, &domain.WebsiteMetric{
		URL:        in.URL,
		PageViews:  in.PageViews,
		Sessions:   in.Sessions,
		BounceRate: in.BounceRate,
		CreatedAt:  recordedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return m, nil
}

func (s *MetricServiceImpl) List(ctx context.Context, f domain.MetricFilter) (*domain.Page[domain.WebsiteMetric], error) {
	const op = "internal.service.metric.List"

	metrics, total, err := s.metrics.ListMetrics(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &domain.Page[domain.WebsiteMetric]{Items: metrics, Pagination: f.Paginate(total)}, nil
}
