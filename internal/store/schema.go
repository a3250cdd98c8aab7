// Package store provides the SQLite-backed resource repository.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	"golang.org/x/text/cases"
)

//go:embed migrations/*.sql
var migrations embed.FS

const dsnParams = "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// driverName is go-sqlite3 with a Unicode case-folding SQL function, fold(s).
// SQLite's own lower() only folds ASCII.
const driverName = "sqlite3_resources"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(c *sqlite3.SQLiteConn) error {
			return c.RegisterFunc("fold", fold, true)
		},
	})
}

// fold maps s to its Unicode case-folded form, so "ÉCOLE" and "école" compare
// equal. A Caser is stateful, hence one per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Store wraps a sql.DB with resource operations.
type Store struct {
	conn  *sql.DB
	now   func() time.Time
	newID func() string
}

// Open opens (or creates) the SQLite database at dsn and applies pending
// migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	s, err := Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Connect opens the database at dsn without touching the schema.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	conn, err := sql.Open(driverName, dsn+sep+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := ping(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return New(conn), nil
}

// ping retries while the database file is locked by another process.
func ping(ctx context.Context, conn *sql.DB) error {
	backoff := retry.WithMaxRetries(4, retry.NewExponential(50*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := conn.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// New wraps an existing connection without touching the schema.
func New(conn *sql.DB) *Store {
	return &Store{
		conn: conn,
		now:  func() time.Time { return time.Now().UTC() },
		newID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
	}
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// MigrationRecord reports one migration and whether it is applied.
type MigrationRecord struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

func (s *Store) provider() (*goose.Provider, error) {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("store: migrations fs: %w", err)
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, s.conn, sub)
	if err != nil {
		return nil, fmt.Errorf("store: migration provider: %w", err)
	}
	return p, nil
}

// Migrate applies every pending migration and returns those applied.
func (s *Store) Migrate(ctx context.Context) ([]MigrationRecord, error) {
	p, err := s.provider()
	if err != nil {
		return nil, err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: migrate up: %w", err)
	}
	out := make([]MigrationRecord, 0, len(results))
	for _, r := range results {
		out = append(out, MigrationRecord{
			Version:   r.Source.Version,
			Path:      r.Source.Path,
			Applied:   true,
			AppliedAt: s.now(),
		})
	}
	return out, nil
}

// MigrationStatus lists every known migration.
func (s *Store) MigrationStatus(ctx context.Context) ([]MigrationRecord, error) {
	p, err := s.provider()
	if err != nil {
		return nil, err
	}
	statuses, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: migration status: %w", err)
	}
	out := make([]MigrationRecord, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, MigrationRecord{
			Version:   st.Source.Version,
			Path:      st.Source.Path,
			Applied:   st.State == goose.StateApplied,
			AppliedAt: st.AppliedAt,
		})
	}
	return out, nil
}
