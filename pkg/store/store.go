// Package store defines the entity-store abstraction: one collection per
// entity type, queried by filter, with create/find/update/delete operations.
//
// Implementations return errors classified by pkg/apperr: absent entities
// (or entities hidden from the requesting user) are KindNotFound, unique
// constraint violations are KindConflict. Everything else is an internal
// error wrapped with context.
package store

import (
	"context"
	"time"

	"github.com/taskhive/taskd/pkg/models"
)

// Store bundles the per-entity collections behind a single handle.
type Store interface {
	Users() UserStore
	Projects() ProjectStore
	Tasks() TaskStore
	Labels() LabelStore

	HealthCheck(ctx context.Context) error
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	// Create inserts a user. Duplicate username or email fails Conflict.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// ProjectStore persists projects and their membership sets.
type ProjectStore interface {
	// Create inserts a project. A duplicate name for the same owner fails
	// Conflict.
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	// ListForUser returns projects the user owns or is a member of,
	// sorted by name.
	ListForUser(ctx context.Context, userID string) ([]*models.Project, error)
	// Update replaces the stored document. Last write wins; concurrent
	// membership edits may lose an update.
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) error
}

// TaskStore persists tasks. All single-task reads and writes are scoped to
// the owning user; a task owned by someone else is NotFound, not Forbidden.
type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	GetForOwner(ctx context.Context, id, ownerID string) (*models.Task, error)
	// ListByOwner returns the user's tasks, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id, ownerID string) error
	// DeleteByProject removes every task attached to the project and
	// returns how many were deleted. Used by the cascading project delete.
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
}

// LabelStore persists labels, strictly scoped to their owning user.
type LabelStore interface {
	Create(ctx context.Context, label *models.Label) error
	GetForUser(ctx context.Context, id, userID string) (*models.Label, error)
	// ListByUser returns the user's labels sorted by name.
	ListByUser(ctx context.Context, userID string) ([]*models.Label, error)
	// Update replaces the document matched by (label.ID, label.UserID).
	Update(ctx context.Context, label *models.Label) error
	Delete(ctx context.Context, id, userID string) error
}

// Config selects and configures a store backend.
type Config struct {
	Type string // "memory" or "postgres"

	PostgresURL      string
	PostgresMaxConns int
	PostgresMinConns int
	PostgresTimeout  time.Duration
}

// DefaultConfig returns sensible defaults for local development.
func DefaultConfig() Config {
	return Config{
		Type:             "memory",
		PostgresMaxConns: 20,
		PostgresMinConns: 2,
		PostgresTimeout:  10 * time.Second,
	}
}
