package labels

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskd/pkg/apperr"
	"github.com/taskhive/taskd/pkg/models"
	"github.com/taskhive/taskd/pkg/store/memory"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return NewService(memory.New(), logger)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	t.Run("defaults to neutral gray", func(t *testing.T) {
		label, err := svc.Create(ctx, "u1", CreateRequest{Name: "urgent"})
		require.NoError(t, err)
		assert.Equal(t, models.DefaultLabelColor, label.Color)
	})

	t.Run("name required", func(t *testing.T) {
		_, err := svc.Create(ctx, "u1", CreateRequest{Name: " "})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("bad color rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, "u1", CreateRequest{Name: "x", Color: "red"})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

// A label created by one user must be invisible to every operation invoked
// by another: read, update, and delete all answer NotFound.
func TestScopedInvisibility(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	label, err := svc.Create(ctx, "userA", CreateRequest{Name: "private", Color: "#ff0000"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, label.ID, "userB")
	assert.True(t, apperr.IsNotFound(err))
	assert.False(t, apperr.IsForbidden(err))

	name := "stolen"
	_, err = svc.Update(ctx, label.ID, "userB", UpdateRequest{Name: &name})
	assert.True(t, apperr.IsNotFound(err))

	err = svc.Delete(ctx, label.ID, "userB")
	assert.True(t, apperr.IsNotFound(err))

	labelsB, err := svc.List(ctx, "userB")
	require.NoError(t, err)
	assert.Empty(t, labelsB)

	// Still intact for its owner.
	got, err := svc.Get(ctx, label.ID, "userA")
	require.NoError(t, err)
	assert.Equal(t, "private", got.Name)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	label, err := svc.Create(ctx, "u1", CreateRequest{Name: "todo", Color: "#fff"})
	require.NoError(t, err)

	color := "#00ff00"
	updated, err := svc.Update(ctx, label.ID, "u1", UpdateRequest{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", updated.Color)
	assert.Equal(t, "todo", updated.Name)

	bad := "green"
	_, err = svc.Update(ctx, label.ID, "u1", UpdateRequest{Color: &bad})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestListSorted(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := svc.Create(ctx, "u1", CreateRequest{Name: name})
		require.NoError(t, err)
	}

	got, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "alpha", got[0].Name)
	assert.Equal(t, "mid", got[1].Name)
	assert.Equal(t, "zeta", got[2].Name)
}
