// Package-level note: the Postgres driver keeps the spreadsheet shape — one
// relational table holding (tab, row index, jsonb cells) — so the Store
// contract stays a row store rather than growing into a schema per tab.

package rowstore

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var embedMigrations embed.FS

// Connect opens a PostgreSQL connection pool using the provided DSN.
// It verifies the connection with a ping before returning.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected")
	return db, nil
}

// Migrate runs all pending goose migrations from the embedded SQL files.
// Migrations are embedded at compile time so no external files are needed
// at runtime.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("database migrations applied")
	return nil
}

// Postgres is the PostgreSQL-backed Store.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres store over an existing connection pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// List returns all rows of a table in index order.
func (p *Postgres) List(ctx context.Context, table string) ([]Record, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT data FROM sheet_rows WHERE tab = $1 ORDER BY idx
	`, table)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrStoreUnavailable, table, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrStoreUnavailable, table, err)
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrStoreUnavailable, table, err)
	}
	return out, nil
}

// Append adds one row after the current last index of the table. The index
// assignment is not serialized against concurrent appends, mirroring the
// spreadsheet's semantics.
func (p *Postgres) Append(ctx context.Context, table string, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO sheet_rows (tab, idx, data)
		VALUES ($1, (SELECT COALESCE(MAX(idx), 0) + 1 FROM sheet_rows WHERE tab = $1), $2)
	`, table, raw)
	if err != nil {
		return fmt.Errorf("%w: append %s: %v", ErrStoreUnavailable, table, err)
	}
	return nil
}

// Find returns the first row whose column equals value.
func (p *Postgres) Find(ctx context.Context, table, column, value string) (RowRef, Record, error) {
	var idx int
	var raw []byte
	err := p.db.QueryRowContext(ctx, `
		SELECT idx, data FROM sheet_rows
		WHERE tab = $1 AND data->>$2 = $3
		ORDER BY idx LIMIT 1
	`, table, column, value).Scan(&idx, &raw)
	if err == sql.ErrNoRows {
		return RowRef{}, nil, ErrNotFound
	}
	if err != nil {
		return RowRef{}, nil, fmt.Errorf("%w: find in %s: %v", ErrStoreUnavailable, table, err)
	}

	rec, err := decodeRecord(raw)
	if err != nil {
		return RowRef{}, nil, err
	}
	return RowRef{Table: table, Index: idx}, rec, nil
}

// UpdateCell overwrites a single cell of an existing row.
func (p *Postgres) UpdateCell(ctx context.Context, ref RowRef, column, value string) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE sheet_rows
		SET data = jsonb_set(data, ARRAY[$1], to_jsonb($2::text))
		WHERE tab = $3 AND idx = $4
	`, column, value, ref.Table, ref.Index)
	if err != nil {
		return fmt.Errorf("%w: update cell in %s: %v", ErrStoreUnavailable, ref.Table, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update cell in %s: %v", ErrStoreUnavailable, ref.Table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeRecord(raw []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}
