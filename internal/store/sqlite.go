package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/claims-cli/internal/model"
)

// SQLiteStore implements ReviewStore using modernc.org/sqlite. Writes are
// serialized through a single connection so concurrent batch workers never
// interleave partial inserts; WAL mode keeps reads from blocking on them.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) a SQLite review queue at the given path and
// applies the schema idempotently.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, storageErr("open", eris.Wrap(err, "sqlite: open"))
	}
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, storageErr("open", eris.Wrapf(err, "sqlite: exec %s", pragma))
		}
	}
	s := &SQLiteStore{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS hitl_claims (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	claim_id   TEXT NOT NULL,
	amount     REAL,
	claim_date TEXT,
	errors     TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'Pending',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_hitl_claims_status ON hitl_claims(status);
CREATE INDEX IF NOT EXISTS idx_hitl_claims_claim_id ON hitl_claims(claim_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return storageErr("migrate", eris.Wrap(err, "sqlite: migrate"))
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Insert(ctx context.Context, entry model.ReviewEntry) (int64, error) {
	status := entry.Status
	if status == "" {
		status = model.ReviewPending
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO hitl_claims (claim_id, amount, claim_date, errors, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ClaimID, nullableAmount(entry.Amount), entry.IncidentDate,
		strings.Join(entry.Errors, ", "), string(status), createdAt,
	)
	if err != nil {
		return 0, storageErr("insert", eris.Wrapf(err, "sqlite: insert claim %s", entry.ClaimID))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("insert", eris.Wrap(err, "sqlite: last insert id"))
	}
	return id, nil
}

func (s *SQLiteStore) Query(ctx context.Context, filter Filter) ([]model.ReviewEntry, error) {
	query := `SELECT id, claim_id, amount, claim_date, errors, status, created_at FROM hitl_claims WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query", eris.Wrap(err, "sqlite: query review entries"))
	}
	defer rows.Close()

	var entries []model.ReviewEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, storageErr("query", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query", eris.Wrap(err, "sqlite: iterate review entries"))
	}
	return entries, nil
}

func (s *SQLiteStore) Resolve(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE hitl_claims SET status = ? WHERE id = ?`,
		string(model.ReviewResolved), id,
	)
	if err != nil {
		return storageErr("resolve", eris.Wrapf(err, "sqlite: resolve entry %d", id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("resolve", eris.Wrap(err, "sqlite: rows affected"))
	}
	if n == 0 {
		return storageErr("resolve", eris.Errorf("review entry not found: %d", id))
	}
	return nil
}

// helpers

func nullableAmount(amount *float64) any {
	if amount == nil {
		return nil
	}
	return *amount
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (*model.ReviewEntry, error) {
	var e model.ReviewEntry
	var amount sql.NullFloat64
	var claimDate sql.NullString
	var errs string
	var status string

	if err := row.Scan(&e.ID, &e.ClaimID, &amount, &claimDate, &errs, &status, &e.CreatedAt); err != nil {
		return nil, eris.Wrap(err, "scan review entry")
	}
	if amount.Valid {
		e.Amount = &amount.Float64
	}
	e.IncidentDate = claimDate.String
	if errs != "" {
		e.Errors = strings.Split(errs, ", ")
	}
	e.Status = model.ReviewWorkflowStatus(status)
	return &e, nil
}
