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
	"github.com/jmoiron/sqlx"
)

var contactColumns = []string{
	"id", "name", "email", "phone", "company", "service_interest", "budget_range",
	"message", "source", "status", "score", "notes", "created_at", "updated_at",
}

const contactReturning = "RETURNING id, name, email, phone, company, service_interest, budget_range, " +
	"message, source, status, score, notes, created_at, updated_at"

type ContactRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewContactRepository(db *sqlx.DB, log *slog.Logger) *ContactRepository {
	return &ContactRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ContactRepository) CreateContact(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	const op = "internal.repository.postgres.CreateContact"

	query, args, err := r.sq.Insert("contacts").
		Columns("name", "email", "phone", "company", "service_interest", "budget_range",
			"message", "source", "status", "score", "notes").
		Values(c.Name, c.Email, c.Phone, c.Company, c.ServiceInterest, c.BudgetRange,
			c.Message, c.Source, c.Status, c.Score, c.Notes).
		Suffix(contactReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.Contact
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (r *ContactRepository) GetContactByID(ctx context.Context, id string) (*domain.Contact, error) {
	return r.getContact(ctx, r.db, id, false)
}

func (r *ContactRepository) GetContactByIDWithLock(ctx context.Context, tx *sqlx.Tx, id string) (*domain.Contact, error) {
	return r.getContact(ctx, tx, id, true)
}

func (r *ContactRepository) getContact(ctx context.Context, q sqlx.QueryerContext, id string, lock bool) (*domain.Contact, error) {
	const op = "internal.repository.postgres.GetContactByID"

	builder := r.sq.Select(contactColumns...).
		From("contacts").
		Where(sq.Eq{"id": id})

	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var c domain.Contact
	if err := sqlx.GetContext(ctx, q, &c, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("contact", id)
		}

		return nil, fmt.Errorf("%s: failed to get contact: %w", op, err)
	}

	return &c, nil
}

func (r *ContactRepository) ListContacts(ctx context.Context, f domain.ContactFilter) ([]domain.Contact, int, error) {
	const op = "internal.repository.postgres.ListContacts"

	base := r.sq.Select().From("contacts")

	if f.Status != "" {
		base = base.Where(sq.Eq{"status": f.Status})
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"company": pattern},
		})
	}

	contacts, total, err := countAndSelect[domain.Contact](ctx, r.db, base, contactColumns,
		"created_at DESC", f.Limit, f.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return contacts, total, nil
}

func (r *ContactRepository) UpdateContact(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	const op = "internal.repository.postgres.UpdateContact"

	query, args, err := r.sq.Update("contacts").
		SetMap(map[string]any{
			"name":             c.Name,
			"email":            c.Email,
			"phone":            c.Phone,
			"company":          c.Company,
			"service_interest": c.ServiceInterest,
			"budget_range":     c.BudgetRange,
			"message":          c.Message,
			"source":           c.Source,
			"score":            c.Score,
			"notes":            c.Notes,
			"updated_at":       sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": c.ID}).
		Suffix(contactReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var updated domain.Contact
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("contact", c.ID)
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return &updated, nil
}

func (r *ContactRepository) UpdateContactStatus(ctx context.Context, tx *sqlx.Tx, id string, status domain.ContactStatus) (*domain.Contact, error) {
	const op = "internal.repository.postgres.UpdateContactStatus"

	query, args, err := r.sq.Update("contacts").
		Set("status", status).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix(contactReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var updated domain.Contact
	if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("contact", id)
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return &updated, nil
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id string) error {
	const op = "internal.repository.postgres.DeleteContact"

	return deleteByID(ctx, r.db, r.sq, op, "contacts", "contact", id)
}

func (r *ContactRepository) CountContactsByStatus(ctx context.Context) ([]domain.CountByStatus, error) {
	const op = "internal.repository.postgres.CountContactsByStatus"

	query, args, err := r.sq.Select("status", "COUNT(*) AS count").
		From("contacts").
		GroupBy("status").
		OrderBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	counts := []domain.CountByStatus{}
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return counts, nil
}

func (r *ContactRepository) CountContactsSince(ctx context.Context, since time.Time) (int, error) {
	const op = "internal.repository.postgres.CountContactsSince"

	query, args, err := r.sq.Select("COUNT(*)").
		From("contacts").
		Where(sq.GtOrEq{"created_at": since}).
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

// deleteByID removes one row and maps "nothing deleted" to a NotFoundError.
func deleteByID(ctx context.Context, db *sqlx.DB, b sq.StatementBuilderType, op, table, resource, id string) error {
	query, args, err := b.Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build delete query: %w", op, err)
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute delete: %w", op, err)
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return apperrors.NotFound(resource, id)
	}

	return nil
}
