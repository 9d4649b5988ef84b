package users

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound is returned when no user document exists
var ErrUserNotFound = errors.New("user not found")

// RepositoryInterface defines the user store operations
type RepositoryInterface interface {
	Get(ctx context.Context, uid string) (*User, error)
	Create(ctx context.Context, user *User) error
	List(ctx context.Context) ([]User, error)
	RecordLogin(ctx context.Context, uid, role string, at time.Time) error
	UpdateRole(ctx context.Context, uid, role string) error
}
