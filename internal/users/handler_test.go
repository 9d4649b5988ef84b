package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/devcert-dashboard/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUsersService struct {
	mock.Mock
}

func (m *MockUsersService) ListUsers(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]User)
	return users, args.Error(1)
}

func (m *MockUsersService) UpdateRole(ctx context.Context, id, role string) (*User, error) {
	args := m.Called(ctx, id, role)
	user, _ := args.Get(0).(*User)
	return user, args.Error(1)
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

func putRole(r *gin.Engine, id, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/users/"+id+"/role", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_ListUsers(t *testing.T) {
	mockService := new(MockUsersService)
	mockService.On("ListUsers", mock.Anything).Return([]User{{ID: "u1", Email: "a@x.com", Role: "admin"}}, nil)
	r := setupRouter(mockService)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	users := parseResponse(w)["data"].([]interface{})
	assert.Equal(t, "admin", users[0].(map[string]interface{})["role"])
}

func TestHandler_UpdateRole(t *testing.T) {
	mockService := new(MockUsersService)
	mockService.On("UpdateRole", mock.Anything, "u1", "admin").Return(&User{ID: "u1", Role: "admin"}, nil)
	r := setupRouter(mockService)

	w := putRole(r, "u1", `{"role":"admin"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Role updated successfully", parseResponse(w)["message"])
	mockService.AssertExpectations(t)
}

func TestHandler_UpdateRole_InvalidRole(t *testing.T) {
	r := setupRouter(new(MockUsersService))

	w := putRole(r, "u1", `{"role":"root"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_UpdateRole_Forbidden(t *testing.T) {
	mockService := new(MockUsersService)
	mockService.On("UpdateRole", mock.Anything, "u2", "user").Return(nil, common.NewForbiddenError("this account's role is fixed"))
	r := setupRouter(mockService)

	w := putRole(r, "u2", `{"role":"user"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
