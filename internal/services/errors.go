package services

import (
	"errors"

	"yacht_charter_backend/internal/models"
)

// Errors shared by several services.
var (
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("not allowed to act on this resource")
)

// Actor is the authenticated caller a service acts on behalf of.
type Actor struct {
	UserID int64
	Role   models.Role
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// canManageBoat reports whether the actor owns the boat or is an administrator.
func (a Actor) canManageBoat(ownerID int64) bool {
	return a.IsAdmin() || a.UserID == ownerID
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
