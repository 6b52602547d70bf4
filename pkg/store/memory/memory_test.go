package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskd/pkg/apperr"
	"github.com/taskhive/taskd/pkg/models"
)

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	alice := &models.User{ID: "u1", Username: "alice", Email: "alice@example.com"}
	require.NoError(t, s.Users().Create(ctx, alice))

	t.Run("duplicate username conflicts", func(t *testing.T) {
		err := s.Users().Create(ctx, &models.User{ID: "u2", Username: "Alice", Email: "other@example.com"})
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		err := s.Users().Create(ctx, &models.User{ID: "u2", Username: "bob", Email: "ALICE@example.com"})
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("get by id and email", func(t *testing.T) {
		got, err := s.Users().GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)

		got, err = s.Users().GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", got.ID)

		_, err = s.Users().GetByID(ctx, "missing")
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestProjectStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	p := &models.Project{ID: "p1", Name: "Launch", OwnerID: "u1", MemberIDs: []string{"u1"}}
	require.NoError(t, s.Projects().Create(ctx, p))

	t.Run("duplicate name per owner conflicts", func(t *testing.T) {
		err := s.Projects().Create(ctx, &models.Project{ID: "p2", Name: "Launch", OwnerID: "u1"})
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("same name different owner is fine", func(t *testing.T) {
		err := s.Projects().Create(ctx, &models.Project{ID: "p3", Name: "Launch", OwnerID: "u2", MemberIDs: []string{"u2"}})
		assert.NoError(t, err)
	})

	t.Run("list covers owned and member projects sorted by name", func(t *testing.T) {
		require.NoError(t, s.Projects().Create(ctx, &models.Project{
			ID: "p4", Name: "Alpha", OwnerID: "u2", MemberIDs: []string{"u2", "u1"},
		}))

		projects, err := s.Projects().ListForUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, "Alpha", projects[0].Name)
		assert.Equal(t, "Launch", projects[1].Name)
	})

	t.Run("returned documents do not alias the store", func(t *testing.T) {
		got, err := s.Projects().GetByID(ctx, "p1")
		require.NoError(t, err)
		got.MemberIDs = append(got.MemberIDs, "intruder")

		again, err := s.Projects().GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, []string{"u1"}, again.MemberIDs)
	})

	t.Run("rename onto another project of the same owner conflicts", func(t *testing.T) {
		err := s.Projects().Update(ctx, &models.Project{ID: "p4", Name: "Launch", OwnerID: "u2", MemberIDs: []string{"u2", "u1"}})
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("update keeping the current name succeeds", func(t *testing.T) {
		err := s.Projects().Update(ctx, &models.Project{ID: "p1", Name: "Launch", OwnerID: "u1", MemberIDs: []string{"u1", "u2"}})
		assert.NoError(t, err)
	})

	t.Run("update and delete of absent project", func(t *testing.T) {
		err := s.Projects().Update(ctx, &models.Project{ID: "missing"})
		assert.True(t, apperr.IsNotFound(err))

		err = s.Projects().Delete(ctx, "missing")
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestTaskStore(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()

	require.NoError(t, s.Tasks().Create(ctx, &models.Task{
		ID: "t1", Title: "old", OwnerID: "u1", ProjectID: "p1", CreatedAt: now.Add(-time.Hour),
	}))
	require.NoError(t, s.Tasks().Create(ctx, &models.Task{
		ID: "t2", Title: "new", OwnerID: "u1", ProjectID: "p1", CreatedAt: now,
	}))
	require.NoError(t, s.Tasks().Create(ctx, &models.Task{
		ID: "t3", Title: "other user", OwnerID: "u2", ProjectID: "p1", CreatedAt: now,
	}))

	t.Run("foreign task reads as absent", func(t *testing.T) {
		_, err := s.Tasks().GetForOwner(ctx, "t3", "u1")
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("list newest first", func(t *testing.T) {
		tasks, err := s.Tasks().ListByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "t2", tasks[0].ID)
		assert.Equal(t, "t1", tasks[1].ID)
	})

	t.Run("delete by project removes every attached task", func(t *testing.T) {
		deleted, err := s.Tasks().DeleteByProject(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)

		tasks, err := s.Tasks().ListByOwner(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})
}

func TestLabelStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Labels().Create(ctx, &models.Label{ID: "l1", Name: "urgent", Color: "#ff0000", UserID: "u1"}))

	t.Run("scoped reads hide foreign labels", func(t *testing.T) {
		_, err := s.Labels().GetForUser(ctx, "l1", "u2")
		assert.True(t, apperr.IsNotFound(err))

		got, err := s.Labels().GetForUser(ctx, "l1", "u1")
		require.NoError(t, err)
		assert.Equal(t, "urgent", got.Name)
	})

	t.Run("scoped update rejects foreign labels", func(t *testing.T) {
		err := s.Labels().Update(ctx, &models.Label{ID: "l1", Name: "hijack", UserID: "u2"})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("scoped delete rejects foreign labels", func(t *testing.T) {
		err := s.Labels().Delete(ctx, "l1", "u2")
		assert.True(t, apperr.IsNotFound(err))

		require.NoError(t, s.Labels().Delete(ctx, "l1", "u1"))
		_, err = s.Labels().GetForUser(ctx, "l1", "u1")
		assert.True(t, apperr.IsNotFound(err))
	})
}
