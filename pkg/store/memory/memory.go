// Package memory provides an in-process implementation of the entity store,
// used for local development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/taskhive/taskd/pkg/apperr"
	"github.com/taskhive/taskd/pkg/models"
	"github.com/taskhive/taskd/pkg/store"
)

// Store is an in-memory store.Store. Documents are deep-copied on the way in
// and out so callers never share state with the store.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*models.User
	projects map[string]*models.Project
	tasks    map[string]*models.Task
	labels   map[string]*models.Label
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		projects: make(map[string]*models.Project),
		tasks:    make(map[string]*models.Task),
		labels:   make(map[string]*models.Label),
	}
}

func (s *Store) Users() store.UserStore       { return (*userStore)(s) }
func (s *Store) Projects() store.ProjectStore { return (*projectStore)(s) }
func (s *Store) Tasks() store.TaskStore       { return (*taskStore)(s) }
func (s *Store) Labels() store.LabelStore     { return (*labelStore)(s) }

// HealthCheck always succeeds for the in-memory store.
func (s *Store) HealthCheck(ctx context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyProject(p *models.Project) *models.Project {
	c := *p
	c.MemberIDs = append([]string(nil), p.MemberIDs...)
	return &c
}

func copyTask(t *models.Task) *models.Task {
	c := *t
	return &c
}

func copyLabel(l *models.Label) *models.Label {
	c := *l
	return &c
}

// userStore implements store.UserStore over Store.
type userStore Store

func (s *userStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, user.Username) {
			return apperr.Newf(apperr.KindConflict, "duplicate field value %q for key %q", user.Username, "username")
		}
		if strings.EqualFold(existing.Email, user.Email) {
			return apperr.Newf(apperr.KindConflict, "duplicate field value %q for key %q", user.Email, "email")
		}
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *userStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	return copyUser(u), nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "user not found")
}

// projectStore implements store.ProjectStore over Store.
type projectStore Store

func (s *projectStore) Create(ctx context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.projects {
		if existing.OwnerID == project.OwnerID && existing.Name == project.Name {
			return apperr.Newf(apperr.KindConflict, "duplicate field value %q for key %q", project.Name, "name")
		}
	}
	s.projects[project.ID] = copyProject(project)
	return nil
}

func (s *projectStore) GetByID(ctx context.Context, id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "project not found")
	}
	return copyProject(p), nil
}

func (s *projectStore) ListForUser(ctx context.Context, userID string) ([]*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Project
	for _, p := range s.projects {
		if p.IsOwner(userID) || p.IsMember(userID) {
			out = append(out, copyProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *projectStore) Update(ctx context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[project.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "project not found")
	}
	for _, existing := range s.projects {
		if existing.ID != project.ID && existing.OwnerID == project.OwnerID && existing.Name == project.Name {
			return apperr.Newf(apperr.KindConflict, "duplicate field value %q for key %q", project.Name, "name")
		}
	}
	s.projects[project.ID] = copyProject(project)
	return nil
}

func (s *projectStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return apperr.New(apperr.KindNotFound, "project not found")
	}
	delete(s.projects, id)
	return nil
}

// taskStore implements store.TaskStore over Store.
type taskStore Store

func (s *taskStore) Create(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[task.ID] = copyTask(task)
	return nil
}

func (s *taskStore) GetForOwner(ctx context.Context, id, ownerID string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, apperr.New(apperr.KindNotFound, "task not found")
	}
	return copyTask(t), nil
}

func (s *taskStore) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Task
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			out = append(out, copyTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *taskStore) Update(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return apperr.New(apperr.KindNotFound, "task not found")
	}
	s.tasks[task.ID] = copyTask(task)
	return nil
}

func (s *taskStore) Delete(ctx context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[id]
	if !ok || existing.OwnerID != ownerID {
		return apperr.New(apperr.KindNotFound, "task not found")
	}
	delete(s.tasks, id)
	return nil
}

func (s *taskStore) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, t := range s.tasks {
		if t.ProjectID == projectID {
			delete(s.tasks, id)
			deleted++
		}
	}
	return deleted, nil
}

// labelStore implements store.LabelStore over Store.
type labelStore Store

func (s *labelStore) Create(ctx context.Context, label *models.Label) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.labels[label.ID] = copyLabel(label)
	return nil
}

func (s *labelStore) GetForUser(ctx context.Context, id, userID string) (*models.Label, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.labels[id]
	if !ok || l.UserID != userID {
		// A label belonging to another user must look identical to an
		// absent one.
		return nil, apperr.New(apperr.KindNotFound, "label not found")
	}
	return copyLabel(l), nil
}

func (s *labelStore) ListByUser(ctx context.Context, userID string) ([]*models.Label, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Label
	for _, l := range s.labels {
		if l.UserID == userID {
			out = append(out, copyLabel(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *labelStore) Update(ctx context.Context, label *models.Label) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.labels[label.ID]
	if !ok || existing.UserID != label.UserID {
		return apperr.New(apperr.KindNotFound, "label not found")
	}
	s.labels[label.ID] = copyLabel(label)
	return nil
}

func (s *labelStore) Delete(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.labels[id]
	if !ok || existing.UserID != userID {
		return apperr.New(apperr.KindNotFound, "label not found")
	}
	delete(s.labels, id)
	return nil
}
