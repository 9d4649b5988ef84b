package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		query          string
		expectedLimit  int
		expectedOffset int
	}{
		{"", DefaultLimit, DefaultOffset},
		{"limit=50&offset=100", 50, 100},
		{"limit=500", MaxLimit, DefaultOffset},
		{"limit=0&offset=-3", DefaultLimit, DefaultOffset},
		{"limit=ten&offset=x", DefaultLimit, DefaultOffset},
		{"partner_code=ACME&limit=5", 5, DefaultOffset},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/developers?"+tt.query, nil)

			params := ParseParams(c)

			assert.Equal(t, tt.expectedLimit, params.Limit)
			assert.Equal(t, tt.expectedOffset, params.Offset)
		})
	}
}

func TestBuildMeta(t *testing.T) {
	meta := BuildMeta(20, 40, 95)

	assert.Equal(t, 20, meta.Limit)
	assert.Equal(t, 40, meta.Offset)
	assert.Equal(t, int64(95), meta.Total)
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name          string
		n             int
		params        Params
		expectedStart int
		expectedEnd   int
	}{
		{"first page", 50, Params{Limit: 20, Offset: 0}, 0, 20},
		{"partial last page", 50, Params{Limit: 20, Offset: 40}, 40, 50},
		{"offset past end", 50, Params{Limit: 20, Offset: 80}, 50, 50},
		{"empty", 0, Params{Limit: 20, Offset: 0}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Window(tt.n, tt.params)
			assert.Equal(t, tt.expectedStart, start)
			assert.Equal(t, tt.expectedEnd, end)
		})
	}
}
