package developers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/devcert-dashboard/pkg/common"
	"github.com/richxcame/devcert-dashboard/pkg/middleware"
	"github.com/richxcame/devcert-dashboard/pkg/pagination"
)

// Handler handles HTTP requests for developer records
type Handler struct {
	service *Service
}

// NewHandler creates a new developers handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers developer routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	devs := rg.Group("/developers")
	{
		devs.GET("", h.ListDevelopers)
		devs.POST("", h.CreateDeveloper)
		devs.GET("/:id", h.GetDeveloper)
		devs.PUT("/:id", h.UpdateDeveloper)
		devs.DELETE("/:id", h.DeleteDeveloper)
	}
}

// ListDevelopers lists developer records
// GET /api/v1/developers?partner_code=&limit=&offset=
func (h *Handler) ListDevelopers(c *gin.Context) {
	params := pagination.ParseParams(c)

	records, err := h.service.List(c.Request.Context(), c.Query("partner_code"))
	if err != nil {
		respondError(c, err, "failed to fetch developers")
		return
	}

	start, end := pagination.Window(len(records), params)
	common.SuccessResponseWithMeta(c, records[start:end], pagination.BuildMeta(params.Limit, params.Offset, int64(len(records))))
}

// CreateDeveloper creates a developer record
// POST /api/v1/developers
func (h *Handler) CreateDeveloper(c *gin.Context) {
	var req CreateDeveloperRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}
	if req.CreatedAt != nil && req.CompletedAt != nil && req.CompletedAt.Before(*req.CreatedAt) {
		common.ErrorResponse(c, http.StatusBadRequest, "completed_at must not be before created_at")
		return
	}

	rec, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "failed to create developer")
		return
	}

	common.SuccessResponseWithStatus(c, http.StatusCreated, rec, "Developer created successfully")
}

// GetDeveloper returns a developer record
// GET /api/v1/developers/:id
func (h *Handler) GetDeveloper(c *gin.Context) {
	rec, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to fetch developer")
		return
	}

	common.SuccessResponse(c, rec)
}

// UpdateDeveloper partially updates a developer record
// PUT /api/v1/developers/:id
func (h *Handler) UpdateDeveloper(c *gin.Context) {
	var req UpdateDeveloperRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	rec, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "failed to update developer")
		return
	}

	common.SuccessResponse(c, rec)
}

// DeleteDeveloper removes a developer record
// DELETE /api/v1/developers/:id
func (h *Handler) DeleteDeveloper(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "failed to delete developer")
		return
	}

	common.SuccessResponseWithStatus(c, http.StatusOK, nil, "Developer deleted successfully")
}

func respondError(c *gin.Context, err error, fallback string) {
	if appErr, ok := err.(*common.AppError); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, fallback)
}
