// Package access implements the project access-control core: role
// classification, the field-level update policy, membership mutation, and
// the cascading project delete.
//
// Every operation takes the caller's identity as an explicit parameter.
// Authorization is decided before any mutation is attempted, never after.
package access

import (
	"github.com/taskhive/taskd/pkg/apperr"
	"github.com/taskhive/taskd/pkg/models"
)

// Role is the requester's relationship to a project.
type Role int

const (
	// RoleNone means the requester is neither owner nor member.
	RoleNone Role = iota
	// RoleMember means the requester is in the membership set but does not
	// own the project.
	RoleMember
	// RoleOwner means the requester owns the project. The owner is always
	// also a member.
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleMember:
		return "member"
	default:
		return "none"
	}
}

// Classify determines the requester's role from project state alone. It is a
// pure function: deterministic, side-effect free, no hidden state.
func Classify(project *models.Project, requesterID string) Role {
	if project.IsOwner(requesterID) {
		return RoleOwner
	}
	if project.IsMember(requesterID) {
		return RoleMember
	}
	return RoleNone
}

// ProjectUpdate is a generic field-name to value payload for a project
// update, as decoded from a request body.
type ProjectUpdate map[string]interface{}

// protectedFields can never be changed through a generic update, regardless
// of role. Ownership and membership changes go through dedicated operations.
var protectedFields = map[string]bool{
	"id":         true,
	"owner_id":   true,
	"member_ids": true,
	"created_at": true,
}

// memberFields are the only fields a non-owner member may touch.
var memberFields = map[string]bool{
	"name":        true,
	"description": true,
}

// SanitizeUpdate applies the field-level update policy for the given role
// and returns the permitted subset of the payload.
//
// Owners keep everything except the protected fields. Members keep only
// name and description; if nothing permitted remains, the update fails
// Forbidden rather than becoming a silent no-op.
func SanitizeUpdate(role Role, update ProjectUpdate) (ProjectUpdate, error) {
	sanitized := make(ProjectUpdate, len(update))

	switch role {
	case RoleOwner:
		for field, value := range update {
			if !protectedFields[field] {
				sanitized[field] = value
			}
		}
	case RoleMember:
		for field, value := range update {
			if memberFields[field] {
				sanitized[field] = value
			}
		}
		if len(sanitized) == 0 {
			return nil, apperr.New(apperr.KindForbidden, "members can only update name or description")
		}
	default:
		return nil, apperr.New(apperr.KindForbidden, "not authorized to update this project")
	}

	return sanitized, nil
}
