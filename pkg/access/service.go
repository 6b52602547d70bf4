package access

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/taskhive/taskd/pkg/apperr"
	"github.com/taskhive/taskd/pkg/models"
	"github.com/taskhive/taskd/pkg/store"
)

// Service orchestrates project operations against the entity store.
type Service struct {
	store  store.Store
	logger logrus.FieldLogger
}

// NewService creates a project access service.
func NewService(st store.Store, logger logrus.FieldLogger) *Service {
	return &Service{store: st, logger: logger}
}

// Resolve loads the project and classifies the requester. A requester with
// no role at all is rejected with Forbidden; an absent project is NotFound.
// Every mutation calls this before touching anything.
func (s *Service) Resolve(ctx context.Context, projectID, requesterID string) (*models.Project, Role, error) {
	project, err := s.store.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, RoleNone, err
	}

	role := Classify(project, requesterID)
	if role == RoleNone {
		return nil, RoleNone, apperr.New(apperr.KindForbidden, "not authorized to access this project")
	}
	return project, role, nil
}

// CreateProject creates a project owned by ownerID. The creator becomes the
// first member.
func (s *Service) CreateProject(ctx context.Context, ownerID, name, description string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.KindValidation, "please provide a project name")
	}
	if len(name) > models.MaxProjectNameLength {
		return nil, apperr.Newf(apperr.KindValidation, "project name cannot be more than %d characters", models.MaxProjectNameLength)
	}
	if len(description) > models.MaxDescriptionLength {
		return nil, apperr.Newf(apperr.KindValidation, "project description cannot be more than %d characters", models.MaxDescriptionLength)
	}

	project := &models.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}
	project.EnsureOwnerMember()

	if err := s.store.Projects().Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"project_id": project.ID,
		"owner_id":   ownerID,
	}).Info("project created")
	return project, nil
}

// GetProject returns the project if the requester is owner or member.
func (s *Service) GetProject(ctx context.Context, projectID, requesterID string) (*models.Project, error) {
	project, _, err := s.Resolve(ctx, projectID, requesterID)
	return project, err
}

// ListProjects returns every project the user owns or belongs to.
func (s *Service) ListProjects(ctx context.Context, userID string) ([]*models.Project, error) {
	return s.store.Projects().ListForUser(ctx, userID)
}

// UpdateProject applies a generic field update under the role policy and
// returns the updated project.
func (s *Service) UpdateProject(ctx context.Context, projectID, requesterID string, update ProjectUpdate) (*models.Project, error) {
	project, role, err := s.Resolve(ctx, projectID, requesterID)
	if err != nil {
		return nil, err
	}

	sanitized, err := SanitizeUpdate(role, update)
	if err != nil {
		return nil, err
	}

	if err := applyUpdate(project, sanitized); err != nil {
		return nil, err
	}
	project.EnsureOwnerMember()

	if err := s.store.Projects().Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// applyUpdate writes the sanitized fields onto the project, validating as
// the data model requires. Unknown fields are ignored, matching the
// original store's behavior for non-schema fields.
func applyUpdate(project *models.Project, update ProjectUpdate) error {
	if raw, ok := update["name"]; ok {
		name, ok := raw.(string)
		if !ok {
			return apperr.New(apperr.KindValidation, "name must be a string")
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return apperr.New(apperr.KindValidation, "please provide a project name")
		}
		if len(name) > models.MaxProjectNameLength {
			return apperr.Newf(apperr.KindValidation, "project name cannot be more than %d characters", models.MaxProjectNameLength)
		}
		project.Name = name
	}
	if raw, ok := update["description"]; ok {
		description, ok := raw.(string)
		if !ok {
			return apperr.New(apperr.KindValidation, "description must be a string")
		}
		if len(description) > models.MaxDescriptionLength {
			return apperr.Newf(apperr.KindValidation, "project description cannot be more than %d characters", models.MaxDescriptionLength)
		}
		project.Description = description
	}
	return nil
}

// DeleteProject removes the project and every task attached to it. Only the
// owner may delete. The two deletes are not atomic: tasks go first, in a
// fixed order, so a failure in between leaves a retryable still-present
// project rather than orphaned tasks.
func (s *Service) DeleteProject(ctx context.Context, projectID, requesterID string) error {
	_, role, err := s.Resolve(ctx, projectID, requesterID)
	if err != nil {
		return err
	}
	if role != RoleOwner {
		return apperr.New(apperr.KindForbidden, "only the project owner can delete this project")
	}

	deleted, err := s.store.Tasks().DeleteByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("cascade task delete: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"project_id":    projectID,
		"tasks_deleted": deleted,
	}).Info("deleted project tasks")

	return s.store.Projects().Delete(ctx, projectID)
}

// AddMember adds a user to the project's membership set. Owner-only. The
// candidate must exist, and re-adding an existing member is a Conflict, not
// a silent success.
func (s *Service) AddMember(ctx context.Context, projectID, requesterID, memberID string) ([]string, error) {
	project, role, err := s.Resolve(ctx, projectID, requesterID)
	if err != nil {
		return nil, err
	}
	if role != RoleOwner {
		return nil, apperr.New(apperr.KindForbidden, "only the project owner can add members")
	}

	if _, err := s.store.Users().GetByID(ctx, memberID); err != nil {
		return nil, err
	}

	if project.IsMember(memberID) {
		return nil, apperr.New(apperr.KindConflict, "user is already a member of this project")
	}

	project.MemberIDs = append(project.MemberIDs, memberID)
	project.EnsureOwnerMember()

	if err := s.store.Projects().Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"project_id": projectID,
		"member_id":  memberID,
	}).Info("member added")
	return project.MemberIDs, nil
}

// RemoveMember removes a user from the membership set. Owner-only. The
// owner can never be removed, and removing a non-member is NotFound rather
// than a silent no-op.
//
// Tasks owned by the removed member stay attached to them. Intentional: no
// reassignment policy exists yet.
func (s *Service) RemoveMember(ctx context.Context, projectID, requesterID, memberID string) ([]string, error) {
	project, role, err := s.Resolve(ctx, projectID, requesterID)
	if err != nil {
		return nil, err
	}
	if role != RoleOwner {
		return nil, apperr.New(apperr.KindForbidden, "only the project owner can remove members")
	}

	if memberID == project.OwnerID {
		return nil, apperr.New(apperr.KindInvalidOperation, "the project owner cannot be removed from the project")
	}

	before := len(project.MemberIDs)
	filtered := project.MemberIDs[:0:0]
	for _, id := range project.MemberIDs {
		if id != memberID {
			filtered = append(filtered, id)
		}
	}
	if len(filtered) == before {
		return nil, apperr.New(apperr.KindNotFound, "user is not a member of this project")
	}

	project.MemberIDs = filtered
	project.EnsureOwnerMember()

	if err := s.store.Projects().Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"project_id": projectID,
		"member_id":  memberID,
	}).Info("member removed")
	return project.MemberIDs, nil
}
