package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskhive/taskd/pkg/apperr"
	"github.com/taskhive/taskd/pkg/models"
)

func TestClassify(t *testing.T) {
	project := &models.Project{
		ID:        "p1",
		OwnerID:   "owner",
		MemberIDs: []string{"owner", "member"},
	}

	tests := []struct {
		name      string
		requester string
		want      Role
	}{
		{"owner", "owner", RoleOwner},
		{"member", "member", RoleMember},
		{"stranger", "stranger", RoleNone},
		{"empty identity", "", RoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(project, tt.requester))
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	project := &models.Project{OwnerID: "o", MemberIDs: []string{"o", "m"}}

	for i := 0; i < 3; i++ {
		assert.Equal(t, RoleOwner, Classify(project, "o"))
	}
	assert.Equal(t, []string{"o", "m"}, project.MemberIDs)
}

func TestSanitizeUpdate_Owner(t *testing.T) {
	update := ProjectUpdate{
		"name":        "New Name",
		"description": "desc",
		"owner_id":    "attacker",
		"member_ids":  []string{},
		"created_at":  "1970-01-01",
		"id":          "other",
	}

	sanitized, err := SanitizeUpdate(RoleOwner, update)
	assert.NoError(t, err)
	assert.Equal(t, ProjectUpdate{"name": "New Name", "description": "desc"}, sanitized)
}

func TestSanitizeUpdate_Member(t *testing.T) {
	t.Run("permitted fields pass", func(t *testing.T) {
		sanitized, err := SanitizeUpdate(RoleMember, ProjectUpdate{
			"name":     "X",
			"owner_id": "attacker",
		})
		assert.NoError(t, err)
		assert.Equal(t, ProjectUpdate{"name": "X"}, sanitized)
	})

	t.Run("nothing permitted fails forbidden, not no-op", func(t *testing.T) {
		_, err := SanitizeUpdate(RoleMember, ProjectUpdate{
			"owner_id":   "attacker",
			"member_ids": []string{},
		})
		assert.True(t, apperr.IsForbidden(err))
	})

	t.Run("empty payload fails forbidden", func(t *testing.T) {
		_, err := SanitizeUpdate(RoleMember, ProjectUpdate{})
		assert.True(t, apperr.IsForbidden(err))
	})
}

func TestSanitizeUpdate_None(t *testing.T) {
	_, err := SanitizeUpdate(RoleNone, ProjectUpdate{"name": "X"})
	assert.True(t, apperr.IsForbidden(err))
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "owner", RoleOwner.String())
	assert.Equal(t, "member", RoleMember.String())
	assert.Equal(t, "none", RoleNone.String())
}
