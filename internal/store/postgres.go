package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/weldcount/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	project    TEXT NOT NULL,
	listings   TEXT NOT NULL,
	spec_table TEXT,
	status     TEXT NOT NULL,
	tally      JSONB,
	error      TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// SaveRun upserts a run record.
func (s *PostgresStore) SaveRun(ctx context.Context, run model.Run) error {
	var tally any
	if run.Tally != nil {
		data, err := json.Marshal(run.Tally)
		if err != nil {
			return eris.Wrap(err, "postgres: encode tally")
		}
		tally = string(data)
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, project, listings, spec_table, status, tally, error, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, tally = EXCLUDED.tally, error = EXCLUDED.error`,
		run.ID, run.Project, strings.Join(run.Listings, "\n"), run.SpecTable,
		string(run.Status), tally, run.Error, run.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: save run")
	}
	return nil
}

// GetRun fetches one run by id. Returns nil if not found.
func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, project, listings, spec_table, status, tally, error, created_at FROM runs WHERE id = $1`,
		runID,
	)
	run, err := scanPGRun(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get run")
	}
	return run, nil
}

// ListRuns returns runs matching the filter, newest first.
func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var rows pgx.Rows
	var err error
	if filter.Project != "" {
		rows, err = s.pool.Query(ctx,
			`SELECT id, project, listings, spec_table, status, tally, error, created_at FROM runs
			 WHERE project = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
			filter.Project, limit, filter.Offset)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT id, project, listings, spec_table, status, tally, error, created_at FROM runs
			 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
			limit, filter.Offset)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanPGRun(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// scanPGRun decodes one runs row. The tally column arrives as JSONB text.
func scanPGRun(scan func(dest ...any) error) (*model.Run, error) {
	var run model.Run
	var listings string
	var tally *string
	var errMsg *string
	var status string
	if err := scan(&run.ID, &run.Project, &listings, &run.SpecTable, &status, &tally, &errMsg, &run.CreatedAt); err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	if listings != "" {
		run.Listings = strings.Split(listings, "\n")
	}
	if errMsg != nil {
		run.Error = *errMsg
	}
	if tally != nil && *tally != "" {
		var t model.WeldTally
		if err := json.Unmarshal([]byte(*tally), &t); err != nil {
			return nil, eris.Wrap(err, "store: decode tally")
		}
		run.Tally = &t
	}
	return &run, nil
}
