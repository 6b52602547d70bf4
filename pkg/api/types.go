package api

import (
	"context"

	"github.com/taskhive/taskd/pkg/access"
	"github.com/taskhive/taskd/pkg/labels"
	"github.com/taskhive/taskd/pkg/models"
	"github.com/taskhive/taskd/pkg/tasks"
)

// UserService is the account surface the auth handlers consume.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
}

// ProjectService is the access-controlled project surface.
type ProjectService interface {
	CreateProject(ctx context.Context, ownerID, name, description string) (*models.Project, error)
	GetProject(ctx context.Context, projectID, requesterID string) (*models.Project, error)
	ListProjects(ctx context.Context, userID string) ([]*models.Project, error)
	UpdateProject(ctx context.Context, projectID, requesterID string, update access.ProjectUpdate) (*models.Project, error)
	DeleteProject(ctx context.Context, projectID, requesterID string) error
	AddMember(ctx context.Context, projectID, requesterID, memberID string) ([]string, error)
	RemoveMember(ctx context.Context, projectID, requesterID, memberID string) ([]string, error)
}

// TaskService is the owner-scoped task surface.
type TaskService interface {
	Create(ctx context.Context, ownerID string, req tasks.CreateRequest) (*models.Task, error)
	Get(ctx context.Context, id, ownerID string) (*models.Task, error)
	List(ctx context.Context, ownerID string) ([]*models.Task, error)
	Update(ctx context.Context, id, ownerID string, req tasks.UpdateRequest) (*models.Task, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// LabelService is the user-scoped label surface.
type LabelService interface {
	Create(ctx context.Context, userID string, req labels.CreateRequest) (*models.Label, error)
	Get(ctx context.Context, id, userID string) (*models.Label, error)
	List(ctx context.Context, userID string) ([]*models.Label, error)
	Update(ctx context.Context, id, userID string, req labels.UpdateRequest) (*models.Label, error)
	Delete(ctx context.Context, id, userID string) error
}
