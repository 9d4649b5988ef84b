package dashboard

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/devcert-dashboard/pkg/common"
)

const dateLayout = "2006-01-02"

// Handler handles dashboard HTTP requests
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new dashboard handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers dashboard routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	dash := rg.Group("/dashboard")
	{
		dash.GET("", h.GetOverview)
		dash.GET("/metrics", h.GetMetrics)
		dash.GET("/chart", h.GetChart)
		dash.GET("/leaderboard", h.GetLeaderboard)
	}
}

// GetOverview returns metrics, chart and leaderboard
// GET /api/v1/dashboard?partner_code=&start_date=&end_date=
func (h *Handler) GetOverview(c *gin.Context) {
	overview, ok := h.overview(c)
	if !ok {
		return
	}
	common.SuccessResponse(c, overview)
}

// GetMetrics returns the aggregate metrics
// GET /api/v1/dashboard/metrics
func (h *Handler) GetMetrics(c *gin.Context) {
	overview, ok := h.overview(c)
	if !ok {
		return
	}
	common.SuccessResponse(c, overview.Metrics)
}

// GetChart returns monthly registrations and certifications
// GET /api/v1/dashboard/chart
func (h *Handler) GetChart(c *gin.Context) {
	overview, ok := h.overview(c)
	if !ok {
		return
	}
	common.SuccessResponse(c, overview.Chart)
}

// GetLeaderboard returns the top partners by certifications
// GET /api/v1/dashboard/leaderboard
func (h *Handler) GetLeaderboard(c *gin.Context) {
	overview, ok := h.overview(c)
	if !ok {
		return
	}
	common.SuccessResponse(c, overview.Leaderboard)
}

func (h *Handler) overview(c *gin.Context) (*Overview, bool) {
	filter, err := parseFilter(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return nil, false
	}

	overview, err := h.service.GetOverview(c.Request.Context(), filter)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return nil, false
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to build dashboard")
		return nil, false
	}
	return overview, true
}

func parseFilter(c *gin.Context) (Filter, error) {
	filter := Filter{PartnerCode: c.Query("partner_code")}

	start, err := parseDate(c.Query("start_date"), false)
	if err != nil {
		return Filter{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := parseDate(c.Query("end_date"), true)
	if err != nil {
		return Filter{}, fmt.Errorf("invalid end_date: %w", err)
	}
	if start != nil && end != nil && end.Before(*start) {
		return Filter{}, fmt.Errorf("end_date must not be before start_date")
	}

	filter.Start, filter.End = start, end
	return filter, nil
}

// parseDate accepts RFC 3339 or YYYY-MM-DD. A bare end date covers the whole day.
func parseDate(v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}

	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("expected RFC 3339 or YYYY-MM-DD, got %q", v)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
