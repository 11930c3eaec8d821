package ormbridge

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"
)

// Connection is the minimal surface the query layer needs from a backend.
type Connection interface {
	Query(ctx context.Context, query string, args ...interface{}) (Rows, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	// BindVar renders the placeholder for the i-th (1-based) argument.
	BindVar(i int) string
}

// Rows is a backend-neutral result cursor.
type Rows interface {
	Columns() []string
	Next() bool
	Scan(dest ...interface{}) error
	Close()
	Err() error
}

func openConnection(ctx context.Context, spec connSpec) (Connection, error) {
	switch spec.backend {
	case backendPostgres:
		return openPostgres(ctx, spec)
	case backendSQLite:
		return openSQLite(ctx, spec)
	}
	return nil, fmt.Errorf("%w: database %q", ErrUnsupportedBackend, spec.alias)
}

type pgxConnection struct {
	pool *pgxpool.Pool
}

func openPostgres(ctx context.Context, spec connSpec) (Connection, error) {
	cfg, err := pgxpool.ParseConfig(spec.dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn for %q: %w", spec.alias, err)
	}

	if spec.pool.MaxConns > 0 {
		cfg.MaxConns = spec.pool.MaxConns
	}
	if spec.pool.MinConns > 0 {
		cfg.MinConns = spec.pool.MinConns
	}
	if spec.pool.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = spec.pool.MaxConnLifetime
	}
	if spec.pool.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = spec.pool.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &pgxConnection{pool: pool}, nil
}

func (c *pgxConnection) Query(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &pgxRows{rows: rows}, nil
}

func (c *pgxConnection) Ping(ctx context.Context) error { return c.pool.Ping(ctx) }

func (c *pgxConnection) Close(ctx context.Context) error {
	c.pool.Close()
	return nil
}

func (c *pgxConnection) BindVar(i int) string { return fmt.Sprintf("$%d", i) }

type pgxRows struct {
	rows pgx.Rows
}

func (r *pgxRows) Columns() []string {
	fields := r.rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}
	return cols
}

func (r *pgxRows) Next() bool                     { return r.rows.Next() }
func (r *pgxRows) Scan(dest ...interface{}) error { return r.rows.Scan(dest...) }
func (r *pgxRows) Close()                         { r.rows.Close() }
func (r *pgxRows) Err() error                     { return r.rows.Err() }

type sqliteConnection struct {
	db *sql.DB
}

func openSQLite(ctx context.Context, spec connSpec) (Connection, error) {
	db, err := sql.Open("sqlite", spec.dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteConnection{db: db}, nil
}

func (c *sqliteConnection) Query(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows}, nil
}

func (c *sqliteConnection) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *sqliteConnection) Close(ctx context.Context) error { return c.db.Close() }

func (c *sqliteConnection) BindVar(i int) string { return "?" }

type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Columns() []string {
	cols, err := r.rows.Columns()
	if err != nil {
		return nil
	}
	return cols
}

func (r *sqlRows) Next() bool                     { return r.rows.Next() }
func (r *sqlRows) Scan(dest ...interface{}) error { return r.rows.Scan(dest...) }
func (r *sqlRows) Close()                         { r.rows.Close() }
func (r *sqlRows) Err() error                     { return r.rows.Err() }
