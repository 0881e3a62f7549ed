package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/YusovID/agency-backoffice/internal/config"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pgForeignKeyViolation = "23503"

type Postgres struct {
	db *sqlx.DB
}

func NewDB(cfg config.Postgres, log *slog.Logger) (*Postgres, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("can't connect to database: %v", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	log.Info("connected to postgres",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
	)

	return &Postgres{db: db}, nil
}

func (p *Postgres) DB() *sqlx.DB {
	return p.db
}

// Ping is used by the health endpoint.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func pgCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

// countAndSelect runs the COUNT(*) form of base followed by the paged select.
func countAndSelect[T any](ctx context.Context, db *sqlx.DB, base squirrel.SelectBuilder, columns []string, orderBy string, limit, offset int) ([]T, int, error) {
	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count rows: %w", err)
	}

	items := []T{}
	if total == 0 {
		return items, 0, nil
	}

	query, args, err := base.Columns(columns...).
		OrderBy(orderBy).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build select query: %w", err)
	}

	if err := db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to select rows: %w", err)
	}

	return items, total, nil
}
