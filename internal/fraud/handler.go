package fraud

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/devcert-dashboard/internal/developers"
	"github.com/richxcame/devcert-dashboard/pkg/common"
	"github.com/richxcame/devcert-dashboard/pkg/middleware"
)

// Handler handles fraud HTTP requests
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new fraud handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers fraud routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	fraud := rg.Group("/fraud")
	{
		fraud.POST("/check", h.CheckRecord)
		fraud.GET("/sybil", h.GetSybil)
		fraud.POST("/rescan", h.Rescan)
	}
}

// CheckRecord scores a posted record without storing it
// POST /api/v1/fraud/check
func (h *Handler) CheckRecord(c *gin.Context) {
	var req developers.CreateDeveloperRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	result := h.service.Check(req.ToRecord(time.Now().UTC()))
	common.SuccessResponse(c, result)
}

// GetSybil reports wallets shared across stored records
// GET /api/v1/fraud/sybil?partner_code=
func (h *Handler) GetSybil(c *gin.Context) {
	report, err := h.service.Sybil(c.Request.Context(), c.Query("partner_code"))
	if err != nil {
		respondError(c, err, "failed to scan wallets")
		return
	}

	common.SuccessResponse(c, report)
}

// Rescan recomputes the fraud assessment of every stored record
// POST /api/v1/fraud/rescan
func (h *Handler) Rescan(c *gin.Context) {
	report, err := h.service.Rescan(c.Request.Context())
	if appErr, ok := err.(*common.AppError); ok && report != nil {
		// partial progress is already persisted
		c.JSON(appErr.Code, common.Response{
			Success: false,
			Data:    report,
			Error:   &common.ErrorInfo{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}
	if err != nil {
		respondError(c, err, "failed to rescan records")
		return
	}

	common.SuccessResponseWithStatus(c, http.StatusOK, report, "Rescan completed")
}

func respondError(c *gin.Context, err error, fallback string) {
	if appErr, ok := err.(*common.AppError); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, fallback)
}
