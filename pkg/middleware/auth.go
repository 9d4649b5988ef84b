package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/richxcame/devcert-dashboard/pkg/common"
	"github.com/richxcame/devcert-dashboard/pkg/logger"
	"go.uber.org/zap"
)

const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
	userRoleKey  = "user_role"

	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// TokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// RoleResolver maps a verified identity to its dashboard role
type RoleResolver interface {
	ResolveRole(ctx context.Context, uid, email string) (string, error)
}

// AuthMiddleware verifies the bearer ID token and resolves the caller's role
func AuthMiddleware(verifier TokenVerifier, roles RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		token, err := verifier.VerifyIDToken(ctx, strings.TrimSpace(parts[1]))
		if err != nil {
			logger.WithContext(ctx).Warn("ID token verification failed", zap.Error(err))
			common.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		email, _ := token.Claims["email"].(string)
		role, err := roles.ResolveRole(ctx, token.UID, email)
		if err != nil {
			logger.WithContext(ctx).Error("Failed to resolve user role",
				zap.String("user_id", token.UID), zap.Error(err))
			common.ErrorResponse(c, http.StatusInternalServerError, "failed to resolve user role")
			c.Abort()
			return
		}

		c.Set(userIDKey, token.UID)
		c.Set(userEmailKey, email)
		c.Set(userRoleKey, role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated role is one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := GetUserRole(c)
		if _, ok := allowed[role]; !ok {
			common.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin allows leaders and super admins
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(RoleAdmin, RoleSuperAdmin)
}

// GetUserID returns the authenticated user's id
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// GetUserEmail returns the authenticated user's email
func GetUserEmail(c *gin.Context) string {
	return c.GetString(userEmailKey)
}

// GetUserRole returns the authenticated user's role
func GetUserRole(c *gin.Context) string {
	return c.GetString(userRoleKey)
}
