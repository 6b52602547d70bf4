// Package tasks implements owner-scoped task CRUD. Every operation takes
// the caller's identity explicitly; a task belonging to someone else reads
// as absent.
package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/taskhive/taskd/pkg/apperr"
	"github.com/taskhive/taskd/pkg/models"
	"github.com/taskhive/taskd/pkg/store"
)

// Service implements task management over the entity store.
type Service struct {
	store  store.Store
	logger logrus.FieldLogger
}

// NewService creates a task service.
func NewService(st store.Store, logger logrus.FieldLogger) *Service {
	return &Service{store: st, logger: logger}
}

// CreateRequest carries the fields a caller may set on a new task.
type CreateRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	ProjectID   string            `json:"project_id"`
}

// UpdateRequest carries the fields a caller may change. Nil fields are left
// untouched.
type UpdateRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Status      *models.TaskStatus `json:"status"`
	ProjectID   *string            `json:"project_id"`
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperr.New(apperr.KindValidation, "title is required")
	}
	if len(title) > models.MaxTaskTitleLength {
		return "", apperr.Newf(apperr.KindValidation, "title cannot be more than %d characters", models.MaxTaskTitleLength)
	}
	return title, nil
}

// Create stores a new task owned by ownerID. Status defaults to Pending.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (*models.Task, error) {
	title, err := validateTitle(req.Title)
	if err != nil {
		return nil, err
	}
	if len(req.Description) > models.MaxDescriptionLength {
		return nil, apperr.Newf(apperr.KindValidation, "description cannot be more than %d characters", models.MaxDescriptionLength)
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "invalid status %q", string(req.Status))
	}

	now := time.Now().UTC()
	task := &models.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: req.Description,
		Status:      status,
		ProjectID:   req.ProjectID,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Tasks().Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"task_id":  task.ID,
		"owner_id": ownerID,
	}).Info("task created")
	return task, nil
}

// Get returns the task if ownerID owns it.
func (s *Service) Get(ctx context.Context, id, ownerID string) (*models.Task, error) {
	return s.store.Tasks().GetForOwner(ctx, id, ownerID)
}

// List returns the caller's tasks, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]*models.Task, error) {
	return s.store.Tasks().ListByOwner(ctx, ownerID)
}

// Update changes the supplied fields on an owned task.
func (s *Service) Update(ctx context.Context, id, ownerID string, req UpdateRequest) (*models.Task, error) {
	task, err := s.store.Tasks().GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title, err := validateTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if req.Description != nil {
		if len(*req.Description) > models.MaxDescriptionLength {
			return nil, apperr.Newf(apperr.KindValidation, "description cannot be more than %d characters", models.MaxDescriptionLength)
		}
		task.Description = *req.Description
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperr.Newf(apperr.KindValidation, "invalid status %q", string(*req.Status))
		}
		task.Status = *req.Status
	}
	if req.ProjectID != nil {
		task.ProjectID = *req.ProjectID
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.store.Tasks().Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes an owned task.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	return s.store.Tasks().Delete(ctx, id, ownerID)
}
