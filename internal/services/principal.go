package services

import (
	"github.com/google/uuid"
	"github.com/yukikurage/zen-task-api/internal/models"
)

// Principal is the authenticated caller. Handlers pass it explicitly into
// every service call; a nil principal means no authenticated session.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     models.Role
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == models.RoleAdmin
}

func requirePrincipal(p *Principal) error {
	if p == nil || p.UserID == uuid.Nil {
		return ErrForbiddenAccess
	}
	return nil
}

func principalOf(user *models.User) *Principal {
	return &Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}
