// Package models defines the persisted entities and their validation rules.
package models

import (
	"regexp"
	"time"
)

// Field length limits enforced at validation time.
const (
	MaxUsernameLength    = 50
	MaxProjectNameLength = 100
	MaxDescriptionLength = 500
	MaxTaskTitleLength   = 100
	MinPasswordLength    = 6
)

// DefaultLabelColor is the neutral gray assigned when no color is supplied.
const DefaultLabelColor = "#cccccc"

var (
	hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidHexColor reports whether s is a #rgb or #rrggbb color code.
func ValidHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// User is a registered account. PasswordHash never serializes.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is a unit of work owned by a user, optionally attached to a project.
// A task with an empty ProjectID is a personal task.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	ProjectID   string     `json:"project_id,omitempty"`
	OwnerID     string     `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Project is a collaborative container for tasks. The owner is always an
// element of MemberIDs; every mutation entry point re-establishes this.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	MemberIDs   []string  `json:"member_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsOwner reports whether userID is the project owner.
func (p *Project) IsOwner(userID string) bool {
	return p.OwnerID == userID
}

// IsMember reports whether userID is in the membership set.
func (p *Project) IsMember(userID string) bool {
	for _, id := range p.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// EnsureOwnerMember re-establishes the owner-in-members invariant. Safe to
// call on every mutation; it is a no-op when the invariant already holds.
func (p *Project) EnsureOwnerMember() {
	if !p.IsMember(p.OwnerID) {
		p.MemberIDs = append(p.MemberIDs, p.OwnerID)
	}
}

// Label is a user-scoped tag. Labels are never shared across users.
type Label struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	UserID string `json:"user_id"`
}
