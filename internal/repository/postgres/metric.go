package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/jmoiron/sqlx"
)

var metricColumns = []string{"id", "url", "page_views", "sessions", "bounce_rate", "created_at"}

type MetricRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewMetricRepository(db *sqlx.DB, log *slog.Logger) *MetricRepository {
	return &MetricRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *MetricRepository) CreateMetric(ctx context.Context, m *domain.WebsiteMetric) (*domain.WebsiteMetric, error) {
	const op = "internal.repository.postgres.CreateMetric"

	builder := r.sq.Insert("website_metrics")
	if m.CreatedAt.IsZero() {
		builder = builder.Columns("url", "page_views", "sessions", "bounce_rate").
			Values(m.URL, m.PageViews, m.Sessions, m.BounceRate)
	} else {
		builder = builder.Columns("url", "page_views", "sessions", "bounce_rate", "created_at").
			Values(m.URL, m.PageViews, m.Sessions, m.BounceRate, m.CreatedAt)
	}

	query, args, err := builder.
		Suffix("RETURNING id, url, page_views, sessions, bounce_rate, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.WebsiteMetric
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (r *MetricRepository) ListMetrics(ctx context.Context, f domain.MetricFilter) ([]domain.WebsiteMetric, int, error) {
	const op = "internal.repository.postgres.ListMetrics"

	base := r.sq.Select().From("website_metrics")
	if f.URL != "" {
		base = base.Where(sq.Eq{"url": f.URL})
	}

	metrics, total, err := countAndSelect[domain.WebsiteMetric](ctx, r.db, base, metricColumns,
		"created_at DESC", f.Limit, f.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return metrics, total, nil
}

func (r *MetricRepository) ListMetricsByURL(ctx context.Context, url string, from, to time.Time) ([]domain.WebsiteMetric, error) {
	const op = "internal.repository.postgres.ListMetricsByURL"

	query, args, err := r.sq.Select(metricColumns...).
		From("website_metrics").
		Where(sq.Eq{"url": url}).
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.LtOrEq{"created_at": to}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	metrics := []domain.WebsiteMetric{}
	if err := r.db.SelectContext(ctx, &metrics, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return metrics, nil
}
