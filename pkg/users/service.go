// Package users handles registration, login, and account lookup.
package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/taskhive/taskd/pkg/apperr"
	"github.com/taskhive/taskd/pkg/auth"
	"github.com/taskhive/taskd/pkg/models"
	"github.com/taskhive/taskd/pkg/store"
)

// Service implements account management over the entity store.
type Service struct {
	store  store.Store
	logger logrus.FieldLogger
}

// NewService creates a user service.
func NewService(st store.Store, logger logrus.FieldLogger) *Service {
	return &Service{store: st, logger: logger}
}

// Register creates an account. Username and email must be unique; the
// password is hashed before it ever reaches the store.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, apperr.New(apperr.KindValidation, "please provide username, email, and password")
	}
	if len(username) > models.MaxUsernameLength {
		return nil, apperr.Newf(apperr.KindValidation, "username cannot be more than %d characters", models.MaxUsernameLength)
	}
	if !models.ValidEmail(email) {
		return nil, apperr.New(apperr.KindValidation, "please provide a valid email")
	}
	if len(password) < models.MinPasswordLength {
		return nil, apperr.Newf(apperr.KindValidation, "password must be at least %d characters", models.MinPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// Login verifies credentials and returns the account. A missing account and
// a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperr.New(apperr.KindValidation, "please provide email and password")
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.New(apperr.KindUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.New(apperr.KindUnauthorized, "invalid credentials")
	}
	return user, nil
}

// Get returns the account for id.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.store.Users().GetByID(ctx, id)
}
