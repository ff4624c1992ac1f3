package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/keytag/pkg/keytag/internalerr"
	"github.com/cognicore/keytag/pkg/keytag/store"
	"github.com/cognicore/keytag/pkg/keytag/weights"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB

	mu  sync.Mutex // guards ids
	ids *store.IDSource
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db, ids: store.NewIDSource()}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS weight_tables (
	id TEXT PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	measure TEXT,
	docs INTEGER DEFAULT 0,
	tokens INTEGER DEFAULT 0,
	stems INTEGER DEFAULT 0,
	created_at TEXT
);

CREATE TABLE IF NOT EXISTS weight_entries (
	table_id TEXT NOT NULL,
	stem TEXT NOT NULL,
	weight REAL NOT NULL,
	PRIMARY KEY(table_id, stem),
	FOREIGN KEY(table_id) REFERENCES weight_tables(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveTable replaces the table stored under info.Name
func (s *sqliteStore) SaveTable(ctx context.Context, info store.TableInfo, table weights.Table) (store.TableInfo, error) {
	if strings.TrimSpace(info.Name) == "" {
		return store.TableInfo{}, fmt.Errorf("table name is required: %w", internalerr.ErrInvalidInput)
	}
	if info.CreatedAt.IsZero() {
		info.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	info.ID = s.ids.Next(info.CreatedAt)
	s.mu.Unlock()
	info.Stems = table.Len()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.TableInfo{}, err
	}
	defer tx.Rollback()

	if _, err := deleteByName(ctx, tx, info.Name); err != nil {
		return store.TableInfo{}, err
	}

	const insertTable = `
INSERT INTO weight_tables (id, name, measure, docs, tokens, stems, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`
	_, err = tx.ExecContext(ctx, insertTable,
		info.ID,
		info.Name,
		info.Measure,
		info.Docs,
		info.Tokens,
		info.Stems,
		info.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return store.TableInfo{}, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO weight_entries (table_id, stem, weight) VALUES (?, ?, ?)`)
	if err != nil {
		return store.TableInfo{}, err
	}
	defer stmt.Close()

	for _, stem := range table.Stems() {
		if _, err := stmt.ExecContext(ctx, info.ID, stem, table.Weight(stem)); err != nil {
			return store.TableInfo{}, fmt.Errorf("insert %q: %w", stem, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return store.TableInfo{}, err
	}
	return info, nil
}

// LoadTable reads the table stored under name
func (s *sqliteStore) LoadTable(ctx context.Context, name string) (weights.Table, store.TableInfo, error) {
	const q = `
SELECT id, name, measure, docs, tokens, stems, created_at
FROM weight_tables WHERE name = ?
`
	info, err := scanInfo(s.db.QueryRowContext(ctx, q, name))
	if errors.Is(err, sql.ErrNoRows) {
		return weights.Table{}, store.TableInfo{}, fmt.Errorf("table %q: %w", name, internalerr.ErrNotFound)
	}
	if err != nil {
		return weights.Table{}, store.TableInfo{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT stem, weight FROM weight_entries WHERE table_id = ?`, info.ID)
	if err != nil {
		return weights.Table{}, store.TableInfo{}, err
	}
	defer rows.Close()

	m := make(map[string]float64, info.Stems)
	for rows.Next() {
		var stem string
		var w float64
		if err := rows.Scan(&stem, &w); err != nil {
			return weights.Table{}, store.TableInfo{}, err
		}
		m[stem] = w
	}
	if err := rows.Err(); err != nil {
		return weights.Table{}, store.TableInfo{}, err
	}

	return weights.New(m), info, nil
}

// ListTables returns stored tables ordered by name
func (s *sqliteStore) ListTables(ctx context.Context) ([]store.TableInfo, error) {
	const q = `
SELECT id, name, measure, docs, tokens, stems, created_at
FROM weight_tables ORDER BY name
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.TableInfo
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteTable removes a table and its entries
func (s *sqliteStore) DeleteTable(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	n, err := deleteByName(ctx, tx, name)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("table %q: %w", name, internalerr.ErrNotFound)
	}
	return tx.Commit()
}

// deleteByName removes a table and its entries. Entries are deleted
// explicitly since foreign keys are only enforced on the connection that
// enabled them.
func deleteByName(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	const entries = `
DELETE FROM weight_entries
WHERE table_id IN (SELECT id FROM weight_tables WHERE name = ?)
`
	if _, err := tx.ExecContext(ctx, entries, name); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM weight_tables WHERE name = ?`, name)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInfo(row scanner) (store.TableInfo, error) {
	var (
		info    store.TableInfo
		measure sql.NullString
		created sql.NullString
	)
	if err := row.Scan(&info.ID, &info.Name, &measure, &info.Docs, &info.Tokens, &info.Stems, &created); err != nil {
		return store.TableInfo{}, err
	}
	info.Measure = measure.String
	if created.Valid {
		if t, err := time.Parse(time.RFC3339Nano, created.String); err == nil {
			info.CreatedAt = t
		}
	}
	return info, nil
}
