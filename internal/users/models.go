package users

import (
	"time"

	"github.com/richxcame/devcert-dashboard/pkg/middleware"
)

// User is a dashboard account, keyed by Firebase uid
type User struct {
	ID        string    `json:"id" firestore:"-"`
	Email     string    `json:"email" firestore:"email"`
	Role      string    `json:"role" firestore:"role"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	LastLogin time.Time `json:"last_login" firestore:"lastLogin"`
}

// UpdateRoleRequest is the request body for changing a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,user_role"`
}

// IsKnownRole reports whether role is one of the dashboard roles
func IsKnownRole(role string) bool {
	switch role {
	case middleware.RoleUser, middleware.RoleAdmin, middleware.RoleSuperAdmin:
		return true
	}
	return false
}
