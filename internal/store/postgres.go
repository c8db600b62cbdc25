package store

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/claims-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store needs. Kept as an interface
// so tests can substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements ReviewStore using pgxpool. Write serialization
// is delegated to Postgres transactional guarantees.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool and applies
// the schema idempotently.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, storageErr("open", eris.Wrap(err, "postgres: parse config"))
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, storageErr("open", eris.Wrap(err, "postgres: create pool"))
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, storageErr("open", eris.Wrap(err, "postgres: ping"))
	}

	s := &PostgresStore{pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS hitl_claims (
	id         BIGSERIAL PRIMARY KEY,
	claim_id   TEXT NOT NULL,
	amount     DOUBLE PRECISION,
	claim_date TEXT,
	errors     TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'Pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_hitl_claims_status ON hitl_claims(status);
CREATE INDEX IF NOT EXISTS idx_hitl_claims_claim_id ON hitl_claims(claim_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return storageErr("migrate", eris.Wrap(err, "postgres: migrate"))
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, entry model.ReviewEntry) (int64, error) {
	status := entry.Status
	if status == "" {
		status = model.ReviewPending
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO hitl_claims (claim_id, amount, claim_date, errors, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		entry.ClaimID, entry.Amount, entry.IncidentDate,
		strings.Join(entry.Errors, ", "), string(status), createdAt,
	).Scan(&id)
	if err != nil {
		return 0, storageErr("insert", eris.Wrapf(err, "postgres: insert claim %s", entry.ClaimID))
	}
	return id, nil
}

func (s *PostgresStore) Query(ctx context.Context, filter Filter) ([]model.ReviewEntry, error) {
	query := `SELECT id, claim_id, amount, claim_date, errors, status, created_at FROM hitl_claims`
	var args []any

	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(args) == 0 {
		query += ` LIMIT $1`
	} else {
		query += ` LIMIT $2`
	}
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query", eris.Wrap(err, "postgres: query review entries"))
	}
	defer rows.Close()

	var entries []model.ReviewEntry
	for rows.Next() {
		var e model.ReviewEntry
		var claimDate *string
		var errs string
		var status string
		if err := rows.Scan(&e.ID, &e.ClaimID, &e.Amount, &claimDate, &errs, &status, &e.CreatedAt); err != nil {
			return nil, storageErr("query", eris.Wrap(err, "postgres: scan review entry"))
		}
		if claimDate != nil {
			e.IncidentDate = *claimDate
		}
		if errs != "" {
			e.Errors = strings.Split(errs, ", ")
		}
		e.Status = model.ReviewWorkflowStatus(status)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query", eris.Wrap(err, "postgres: iterate review entries"))
	}
	return entries, nil
}

func (s *PostgresStore) Resolve(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE hitl_claims SET status = $1 WHERE id = $2`,
		string(model.ReviewResolved), id,
	)
	if err != nil {
		return storageErr("resolve", eris.Wrapf(err, "postgres: resolve entry %d", id))
	}
	if tag.RowsAffected() == 0 {
		return storageErr("resolve", eris.Errorf("review entry not found: %d", id))
	}
	return nil
}
