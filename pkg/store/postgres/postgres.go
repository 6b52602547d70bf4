// Package postgres implements the entity store on PostgreSQL, holding each
// entity as a JSONB document with unique expression indexes for the fields
// the data model requires to be unique.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/taskhive/taskd/pkg/apperr"
	"github.com/taskhive/taskd/pkg/store"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

// Store is a PostgreSQL-backed store.Store.
type Store struct {
	db     *sql.DB
	config store.Config
}

// New connects to PostgreSQL, verifies the connection, and ensures the
// schema exists.
func New(config store.Config) (*Store, error) {
	db, err := sql.Open("postgres", config.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(config.PostgresMaxConns)
	db.SetMaxIdleConns(config.PostgresMinConns)
	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), config.PostgresTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &Store{db: db, config: config}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return s, nil
}

// NewWithDB wraps an existing database handle. The caller owns schema setup.
// Used by tests with sqlmock.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() store.UserStore       { return &userStore{db: s.db} }
func (s *Store) Projects() store.ProjectStore { return &projectStore{db: s.db} }
func (s *Store) Tasks() store.TaskStore       { return &taskStore{db: s.db} }
func (s *Store) Labels() store.LabelStore     { return &labelStore{db: s.db} }

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL,
		password_hash TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_username_idx ON users (lower(doc->>'username'))`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_idx ON users (lower(doc->>'email'))`,
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS projects_owner_name_idx ON projects ((doc->>'owner_id'), (doc->>'name'))`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS tasks_owner_idx ON tasks ((doc->>'owner_id'))`,
	`CREATE INDEX IF NOT EXISTS tasks_project_idx ON tasks ((doc->>'project_id'))`,
	`CREATE TABLE IF NOT EXISTS labels (
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS labels_user_idx ON labels ((doc->>'user_id'))`,
}

func (s *Store) ensureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

// classifyInsertErr maps a unique violation to Conflict, wrapping anything
// else as internal.
func classifyInsertErr(err error, field string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperr.Newf(apperr.KindConflict, "duplicate value for %s", field)
	}
	return apperr.Wrap(apperr.KindInternal, "server error", err)
}
