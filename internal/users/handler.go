package users

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/devcert-dashboard/pkg/common"
	"github.com/richxcame/devcert-dashboard/pkg/middleware"
)

// ServiceInterface is the users service as seen by the HTTP handler
type ServiceInterface interface {
	ListUsers(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id, role string) (*User, error)
}

// Handler handles user administration requests
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new users handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the user administration routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin/users")
	{
		admin.GET("", h.ListUsers)
		admin.PUT("/:id/role", h.UpdateRole)
	}
}

// ListUsers lists dashboard users
// GET /api/v1/admin/users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list users")
		return
	}

	common.SuccessResponse(c, users)
}

// UpdateRole changes a user's role
// PUT /api/v1/admin/users/:id/role
func (h *Handler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	user, err := h.service.UpdateRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		respondError(c, err, "failed to update role")
		return
	}

	common.SuccessResponseWithStatus(c, http.StatusOK, user, "Role updated successfully")
}

func respondError(c *gin.Context, err error, fallback string) {
	if appErr, ok := err.(*common.AppError); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, fallback)
}
