// Package snapshot stores fetched entities in a local SQLite file so they
// can be inspected or diffed offline. Rows are keyed by kind and reference;
// writing the same object again replaces the earlier row.
//
// The client never reads from a snapshot.
package snapshot

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jroosing/mmws/internal/entity"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed migrations/*.sql
var migrations embed.FS

// Snapshot wraps a SQLite database holding captured entities.
type Snapshot struct {
	conn *sql.DB
	mu   sync.Mutex // serializes writers
	now  func() time.Time
}

// Row is one captured entity.
type Row struct {
	Kind       string
	Ref        string
	Name       string
	Body       json.RawMessage // sparse wire form
	CapturedAt time.Time
}

// Entity decodes the row body with schema.
func (r Row) Entity(schema *entity.Schema) (*entity.Entity, error) {
	return entity.DecodeJSON(schema, r.Body)
}

// Open opens or creates the snapshot at path and migrates it to the
// current schema.
func Open(path string) (*Snapshot, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := migrateUp(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &Snapshot{conn: conn, now: time.Now}, nil
}

func migrateUp(conn *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Snapshot) Close() error {
	return s.conn.Close()
}

// Write stores entities under kind in one transaction and returns the
// number of rows written. Every entity must carry a reference.
func (s *Snapshot) Write(ctx context.Context, kind string, entities []*entity.Entity) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entities (kind, ref, name, body, captured_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (kind, ref) DO UPDATE SET
			name = excluded.name,
			body = excluded.body,
			captured_at = excluded.captured_at
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	captured := s.now().UTC().Format(time.RFC3339Nano)
	for _, e := range entities {
		ref, err := entity.Resolve(e)
		if err != nil {
			return 0, err
		}
		body, err := json.Marshal(e)
		if err != nil {
			return 0, fmt.Errorf("encode %s: %w", ref, err)
		}
		if _, err := stmt.ExecContext(ctx, kind, ref, nameOf(e), string(body), captured); err != nil {
			return 0, fmt.Errorf("insert %s: %w", ref, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(entities), nil
}

// List returns the rows of kind ordered by reference.
func (s *Snapshot) List(ctx context.Context, kind string) ([]Row, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT kind, ref, name, body, captured_at
		FROM entities WHERE kind = ? ORDER BY ref
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var body, captured string
		if err := rows.Scan(&r.Kind, &r.Ref, &r.Name, &body, &captured); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		r.Body = json.RawMessage(body)
		if r.CapturedAt, err = time.Parse(time.RFC3339Nano, captured); err != nil {
			return nil, fmt.Errorf("captured_at of %s: %w", r.Ref, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Kinds returns the distinct kinds present, sorted.
func (s *Snapshot) Kinds(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT DISTINCT kind FROM entities ORDER BY kind`)
	if err != nil {
		return nil, fmt.Errorf("query kinds: %w", err)
	}
	defer rows.Close()

	var kinds []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, rows.Err()
}

// Count returns the total number of stored rows.
func (s *Snapshot) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM entities`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func nameOf(e *entity.Entity) string {
	if _, ok := e.Schema().Field("name"); !ok {
		return ""
	}
	return e.String("name")
}
