package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/agency-backoffice/internal/apperrors"
	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var reportColumns = []string{
	"r.id", "r.title", "r.type", "r.content", "r.generated_at", "r.sent_at", "r.project_id",
	"p.name AS project_name",
}

type ReportRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewReportRepository(db *sqlx.DB, log *slog.Logger) *ReportRepository {
	return &ReportRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ReportRepository) CreateReport(ctx context.Context, rep *domain.Report) (*domain.Report, error) {
	const op = "internal.repository.postgres.CreateReport"

	query, args, err := r.sq.Insert("reports").
		Columns("title", "type", "content", "generated_at", "project_id").
		Values(rep.Title, rep.Type, rep.Content, rep.GeneratedAt, rep.ProjectID).
		Suffix("RETURNING id, title, type, content, generated_at, sent_at, project_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.Report
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return nil, apperrors.NotFound("project", rep.ProjectID)
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	created.ProjectName = rep.ProjectName

	return &created, nil
}

func (r *ReportRepository) GetReportByID(ctx context.Context, id string) (*domain.Report, error) {
	const op = "internal.repository.postgres.GetReportByID"

	query, args, err := r.sq.Select(reportColumns...).
		From("reports r").
		Join("projects p ON p.id = r.project_id").
		Where(sq.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var rep domain.Report
	if err := r.db.GetContext(ctx, &rep, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("report", id)
		}

		return nil, fmt.Errorf("%s: failed to get report: %w", op, err)
	}

	return &rep, nil
}

// filtered matches Project against the project id when it is a UUID and
// against the project name otherwise.
func (r *ReportRepository) filtered(f domain.ReportFilter) sq.SelectBuilder {
	base := r.sq.Select().
		From("reports r").
		Join("projects p ON p.id = r.project_id")

	if f.Type != "" {
		base = base.Where(sq.Eq{"r.type": f.Type})
	}

	if f.Project != "" {
		if _, err := uuid.Parse(f.Project); err == nil {
			base = base.Where(sq.Eq{"r.project_id": f.Project})
		} else {
			base = base.Where(sq.ILike{"p.name": "%" + f.Project + "%"})
		}
	}

	if f.Search != "" {
		base = base.Where(sq.ILike{"r.title": "%" + f.Search + "%"})
	}

	return base
}

func (r *ReportRepository) ListReports(ctx context.Context, f domain.ReportFilter) ([]domain.Report, int, error) {
	const op = "internal.repository.postgres.ListReports"

	reports, total, err := countAndSelect[domain.Report](ctx, r.db, r.filtered(f), reportColumns,
		"r.generated_at DESC", f.Limit, f.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return reports, total, nil
}

func (r *ReportRepository) ExportReports(ctx context.Context, f domain.ReportFilter) ([]domain.Report, error) {
	const op = "internal.repository.postgres.ExportReports"

	query, args, err := r.filtered(f).
		Columns(reportColumns...).
		OrderBy("r.generated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	reports := []domain.Report{}
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return reports, nil
}

func (r *ReportRepository) MarkReportSent(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	const op = "internal.repository.postgres.MarkReportSent"

	query, args, err := r.sq.Update("reports").
		Set("sent_at", sentAt).
		Where(sq.Eq{"id": id}).
		Where("sent_at IS NULL").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: failed to read affected rows: %w", op, err)
	}

	if rowsAffected > 0 {
		return true, nil
	}

	existsQuery, existsArgs, err := r.sq.Select("1").
		Prefix("SELECT EXISTS (").
		From("reports").
		Where(sq.Eq{"id": id}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: failed to build exists query: %w", op, err)
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, existsQuery, existsArgs...); err != nil {
		return false, fmt.Errorf("%s: failed to check report: %w", op, err)
	}

	if !exists {
		return false, apperrors.NotFound("report", id)
	}

	return false, nil
}

func (r *ReportRepository) DeleteReport(ctx context.Context, id string) error {
	const op = "internal.repository.postgres.DeleteReport"

	return deleteByID(ctx, r.db, r.sq, op, "reports", "report", id)
}
