package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/richxcame/devcert-dashboard/pkg/common"
	"github.com/richxcame/devcert-dashboard/pkg/logger"
	"github.com/richxcame/devcert-dashboard/pkg/middleware"
	"go.uber.org/zap"
)

// Service resolves and manages dashboard roles
type Service struct {
	repo        RepositoryInterface
	superAdmins map[string]struct{}
	now         func() time.Time
}

// NewService creates a new users service. Accounts whose email is listed in
// superAdminEmails always resolve to super_admin.
func NewService(repo RepositoryInterface, superAdminEmails []string) *Service {
	superAdmins := make(map[string]struct{}, len(superAdminEmails))
	for _, e := range superAdminEmails {
		if e = normalizeEmail(e); e != "" {
			superAdmins[e] = struct{}{}
		}
	}
	return &Service{repo: repo, superAdmins: superAdmins, now: time.Now}
}

// ResolveRole returns the role of a signed-in account, creating its user
// document on first sight and refreshing lastLogin
func (s *Service) ResolveRole(ctx context.Context, uid, email string) (string, error) {
	now := s.now().UTC()

	user, err := s.repo.Get(ctx, uid)
	if errors.Is(err, ErrUserNotFound) {
		role := middleware.RoleUser
		if s.isSuperAdmin(email) {
			role = middleware.RoleSuperAdmin
		}
		newUser := &User{ID: uid, Email: email, Role: role, CreatedAt: now, LastLogin: now}
		if err := s.repo.Create(ctx, newUser); err != nil {
			return "", err
		}
		logger.WithContext(ctx).Info("Registered dashboard user", zap.String("user_id", uid), zap.String("role", role))
		return role, nil
	}
	if err != nil {
		return "", err
	}

	role := user.Role
	if !IsKnownRole(role) {
		role = middleware.RoleUser
	}
	if s.isSuperAdmin(email) {
		role = middleware.RoleSuperAdmin
	}

	if err := s.repo.RecordLogin(ctx, uid, role, now); err != nil {
		// the role is already known, a stale lastLogin is tolerable
		logger.WithContext(ctx).Warn("Failed to record login", zap.String("user_id", uid), zap.Error(err))
	}
	return role, nil
}

// ListUsers returns every dashboard user
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// UpdateRole changes the role of user id. Protected super admins cannot be demoted.
func (s *Service) UpdateRole(ctx context.Context, id, role string) (*User, error) {
	if !IsKnownRole(role) {
		return nil, common.NewBadRequestError("unknown role", nil)
	}

	user, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, common.NewNotFoundError("user not found", err)
	}
	if err != nil {
		return nil, common.NewInternalError("failed to get user", err)
	}

	if s.isSuperAdmin(user.Email) && role != middleware.RoleSuperAdmin {
		return nil, common.NewForbiddenError("this account's role is fixed")
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, common.NewNotFoundError("user not found", err)
		}
		return nil, common.NewInternalError("failed to update role", err)
	}

	logger.WithContext(ctx).Info("User role updated",
		zap.String("user_id", id),
		zap.String("from", user.Role),
		zap.String("to", role))

	user.Role = role
	return user, nil
}

func (s *Service) isSuperAdmin(email string) bool {
	_, ok := s.superAdmins[normalizeEmail(email)]
	return ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
