// Package labels implements user-scoped label CRUD. A label belonging to
// another user is indistinguishable from an absent one: NotFound, never
// Forbidden.
package labels

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/taskhive/taskd/pkg/apperr"
	"github.com/taskhive/taskd/pkg/models"
	"github.com/taskhive/taskd/pkg/store"
)

// Service implements label management over the entity store.
type Service struct {
	store  store.Store
	logger logrus.FieldLogger
}

// NewService creates a label service.
func NewService(st store.Store, logger logrus.FieldLogger) *Service {
	return &Service{store: st, logger: logger}
}

// CreateRequest carries the fields a caller may set on a new label.
type CreateRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// UpdateRequest carries the fields a caller may change. The owning user can
// never be reassigned.
type UpdateRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// Create stores a new label for userID. Color defaults to neutral gray.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*models.Label, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.New(apperr.KindValidation, "please provide a label name")
	}

	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = models.DefaultLabelColor
	}
	if !models.ValidHexColor(color) {
		return nil, apperr.New(apperr.KindValidation, "please provide a valid hex color code (e.g., #ff0000)")
	}

	label := &models.Label{
		ID:     uuid.NewString(),
		Name:   name,
		Color:  color,
		UserID: userID,
	}
	if err := s.store.Labels().Create(ctx, label); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"label_id": label.ID,
		"user_id":  userID,
	}).Info("label created")
	return label, nil
}

// Get returns the label if userID owns it.
func (s *Service) Get(ctx context.Context, id, userID string) (*models.Label, error) {
	return s.store.Labels().GetForUser(ctx, id, userID)
}

// List returns the user's labels sorted by name.
func (s *Service) List(ctx context.Context, userID string) ([]*models.Label, error) {
	return s.store.Labels().ListByUser(ctx, userID)
}

// Update changes the supplied fields on an owned label with a single
// ownership-checked write.
func (s *Service) Update(ctx context.Context, id, userID string, req UpdateRequest) (*models.Label, error) {
	label, err := s.store.Labels().GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.New(apperr.KindValidation, "please provide a label name")
		}
		label.Name = name
	}
	if req.Color != nil {
		if !models.ValidHexColor(*req.Color) {
			return nil, apperr.New(apperr.KindValidation, "please provide a valid hex color code (e.g., #ff0000)")
		}
		label.Color = *req.Color
	}

	if err := s.store.Labels().Update(ctx, label); err != nil {
		return nil, err
	}
	return label, nil
}

// Delete removes an owned label. Tasks keep any reference they held; the
// dangling id simply resolves to nothing.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	return s.store.Labels().Delete(ctx, id, userID)
}
