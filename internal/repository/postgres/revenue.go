package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/agency-backoffice/internal/apperrors"
	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/jmoiron/sqlx"
)

var revenueColumns = []string{
	"id", "amount", "costs", "date", "source", "description", "project_id", "contact_id", "created_at",
}

type RevenueRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewRevenueRepository(db *sqlx.DB, log *slog.Logger) *RevenueRepository {
	return &RevenueRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *RevenueRepository) CreateRevenue(ctx context.Context, e *domain.RevenueEntry) (*domain.RevenueEntry, error) {
	const op = "internal.repository.postgres.CreateRevenue"

	query, args, err := r.sq.Insert("revenue_entries").
		Columns("amount", "costs", "date", "source", "description", "project_id", "contact_id").
		Values(e.Amount, e.Costs, e.Date, e.Source, e.Description, e.ProjectID, e.ContactID).
		Suffix("RETURNING id, amount, costs, date, source, description, project_id, contact_id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.RevenueEntry
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			if e.ProjectID != nil {
				return nil, apperrors.NotFound("project", *e.ProjectID)
			}

			return nil, apperrors.NotFound("contact", deref(e.ContactID))
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (r *RevenueRepository) filtered(f domain.RevenueFilter) sq.SelectBuilder {
	base := r.sq.Select().From("revenue_entries")

	if f.ProjectID != "" {
		base = base.Where(sq.Eq{"project_id": f.ProjectID})
	}

	if f.Source != "" {
		base = base.Where(sq.Eq{"source": f.Source})
	}

	if f.From != nil {
		base = base.Where(sq.GtOrEq{"date": *f.From})
	}

	if f.To != nil {
		base = base.Where(sq.LtOrEq{"date": *f.To})
	}

	return base
}

func (r *RevenueRepository) ListRevenue(ctx context.Context, f domain.RevenueFilter) ([]domain.RevenueEntry, int, error) {
	const op = "internal.repository.postgres.ListRevenue"

	entries, total, err := countAndSelect[domain.RevenueEntry](ctx, r.db, r.filtered(f), revenueColumns,
		"date DESC", f.Limit, f.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return entries, total, nil
}

func (r *RevenueRepository) ListAllRevenue(ctx context.Context, f domain.RevenueFilter) ([]domain.RevenueEntry, error) {
	const op = "internal.repository.postgres.ListAllRevenue"

	query, args, err := r.filtered(f).
		Columns(revenueColumns...).
		OrderBy("date", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	entries := []domain.RevenueEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return entries, nil
}

func (r *RevenueRepository) ListProjectRevenue(ctx context.Context, projectID string, from, to time.Time) ([]domain.RevenueEntry, error) {
	return r.ListAllRevenue(ctx, domain.RevenueFilter{ProjectID: projectID, From: &from, To: &to})
}

func (r *RevenueRepository) SumRevenue(ctx context.Context, from, to time.Time) (domain.MoneyTotals, error) {
	const op = "internal.repository.postgres.SumRevenue"

	query, args, err := r.sq.Select("COALESCE(SUM(amount), 0) AS revenue", "COALESCE(SUM(costs), 0) AS costs").
		From("revenue_entries").
		Where(sq.GtOrEq{"date": from}).
		Where(sq.LtOrEq{"date": to}).
		ToSql()
	if err != nil {
		return domain.MoneyTotals{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var totals domain.MoneyTotals
	if err := r.db.GetContext(ctx, &totals, query, args...); err != nil {
		return domain.MoneyTotals{}, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return totals, nil
}

func (r *RevenueRepository) DeleteRevenue(ctx context.Context, id string) error {
	const op = "internal.repository.postgres.DeleteRevenue"

	return deleteByID(ctx, r.db, r.sq, op, "revenue_entries", "revenue entry", id)
}
