package csvimport

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/devcert-dashboard/pkg/common"
)

// Handler handles CSV import HTTP requests
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new import handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers import routes. extra runs before the upload
// handler, e.g. a body size limit or timeout.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, extra ...gin.HandlerFunc) {
	upload := append(append([]gin.HandlerFunc{}, extra...), h.Upload)

	imports := rg.Group("/imports")
	{
		imports.POST("", upload...)
		imports.GET("/archive", h.GetArchiveURL)
	}
}

// Upload imports a CSV file sent as multipart field "file"
// POST /api/v1/imports?dry_run=true
func (h *Handler) Upload(c *gin.Context) {
	dryRun, _ := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "failed to open uploaded file")
		return
	}
	defer file.Close()

	report, err := h.service.Import(c.Request.Context(), ImportRequest{
		Source:   file,
		Filename: fileHeader.Filename,
		DryRun:   dryRun,
	})
	if err != nil {
		respondError(c, err, "failed to import csv")
		return
	}

	if report.Rejected() {
		c.JSON(http.StatusUnprocessableEntity, common.Response{
			Success: false,
			Data:    report,
			Error:   &common.ErrorInfo{Code: http.StatusUnprocessableEntity, Message: report.StructuralErrors[0]},
		})
		return
	}

	message := "Import completed"
	if report.DryRun {
		message = "Dry run completed"
	}
	common.SuccessResponseWithStatus(c, http.StatusOK, report, message)
}

// GetArchiveURL signs a download URL for an archived upload
// GET /api/v1/imports/archive?key=
func (h *Handler) GetArchiveURL(c *gin.Context) {
	url, err := h.service.ArchiveURL(c.Request.Context(), c.Query("key"))
	if err != nil {
		respondError(c, err, "failed to sign archive url")
		return
	}

	common.SuccessResponse(c, gin.H{"url": url})
}

func respondError(c *gin.Context, err error, fallback string) {
	if appErr, ok := err.(*common.AppError); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, fallback)
}
