package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/devcert-dashboard/pkg/common"
)

const (
	DefaultLimit  = 20
	MaxLimit      = 100
	DefaultOffset = 0
)

// Params holds limit/offset query parameters
type Params struct {
	Limit  int
	Offset int
}

// ParseParams reads limit and offset from the query string, falling back to
// defaults for missing or invalid values
func ParseParams(c *gin.Context) Params {
	params := Params{Limit: DefaultLimit, Offset: DefaultOffset}

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		params.Limit = limit
		if params.Limit > MaxLimit {
			params.Limit = MaxLimit
		}
	}

	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset >= 0 {
		params.Offset = offset
	}

	return params
}

// BuildMeta builds response metadata
func BuildMeta(limit, offset int, total int64) *common.Meta {
	return &common.Meta{
		Limit:  limit,
		Offset: offset,
		Total:  total,
	}
}

// Window returns the [start, end) slice bounds of a page over n items
func Window(n int, params Params) (int, int) {
	start := params.Offset
	if start > n {
		start = n
	}
	end := start + params.Limit
	if end > n {
		end = n
	}
	return start, end
}
