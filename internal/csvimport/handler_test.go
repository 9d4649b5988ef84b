package csvimport

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/devcert-dashboard/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) Import(ctx context.Context, req ImportRequest) (*Report, error) {
	args := m.Called(ctx, req)
	report, _ := args.Get(0).(*Report)
	return report, args.Error(1)
}

func (m *MockImportService) ArchiveURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func setupRouter(svc ServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	return response
}

func multipartUpload(t *testing.T, url, filename, content string) *http.Request {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandler_Upload_DryRunWithRealService(t *testing.T) {
	r := setupRouter(newTestService(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "/api/v1/imports?dry_run=true", "export.csv", sampleCSV))

	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(w)
	assert.Equal(t, "Dry run completed", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["valid"])
	assert.Equal(t, float64(2), data["flagged"])
	assert.Equal(t, []interface{}{"Row 3: Missing Email"}, data["errors"])
}

func TestHandler_Upload_PassesRequest(t *testing.T) {
	mockService := new(MockImportService)
	mockService.On("Import", mock.Anything, mock.MatchedBy(func(req ImportRequest) bool {
		return req.Filename == "export.csv" && !req.DryRun
	})).Return(&Report{Created: 2, StructuralErrors: []string{}, RowErrors: []string{}}, nil)
	r := setupRouter(mockService)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "/api/v1/imports", "export.csv", sampleCSV))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Import completed", parseResponse(w)["message"])
	mockService.AssertExpectations(t)
}

func TestHandler_Upload_StructuralRejection(t *testing.T) {
	r := setupRouter(newTestService(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "/api/v1/imports", "bad.csv", "Email\na@x.com\n"))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	response := parseResponse(w)
	assert.Equal(t, false, response["success"])
	data := response["data"].(map[string]interface{})
	assert.Len(t, data["structural_errors"], 1)
	assert.NotEmpty(t, data["missing_columns"])
}

func TestHandler_Upload_MissingFile(t *testing.T) {
	r := setupRouter(new(MockImportService))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/imports", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetArchiveURL(t *testing.T) {
	mockService := new(MockImportService)
	mockService.On("ArchiveURL", mock.Anything, "imports/2024/06/a.csv").Return("https://signed", nil)
	mockService.On("ArchiveURL", mock.Anything, "nope").Return("", common.NewBadRequestError("invalid archive key", nil))
	r := setupRouter(mockService)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/imports/archive?key=imports/2024/06/a.csv", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://signed", parseResponse(w)["data"].(map[string]interface{})["url"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/imports/archive?key=nope", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
