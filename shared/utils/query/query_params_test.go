package query

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextWithQuery(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/tenants?"+rawQuery, nil)
	return c
}

func TestParseQueryParamsDefaults(t *testing.T) {
	params := ParseQueryParams(contextWithQuery(""))

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 10, params.Limit)
	assert.Equal(t, "created_at", params.Sort.Field)
	assert.Equal(t, "desc", params.Sort.Order)
	assert.Empty(t, params.Filters)
	assert.Empty(t, params.Search)
}

func TestParseQueryParamsClampsPagination(t *testing.T) {
	params := ParseQueryParams(contextWithQuery("page=-3&limit=5000"))
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 100, params.Limit)

	params = ParseQueryParams(contextWithQuery("page=2&limit=0"))
	assert.Equal(t, 2, params.Page)
	assert.Equal(t, 1, params.Limit)
}

func TestParseQueryParamsFilters(t *testing.T) {
	params := ParseQueryParams(contextWithQuery("filters[status]=ACTIVE&filters[type]=FREE&filters[empty]="))

	assert.Equal(t, "ACTIVE", params.Filters["status"])
	assert.Equal(t, "FREE", params.Filters["type"])
	_, hasEmpty := params.Filters["empty"]
	assert.False(t, hasEmpty, "empty filter values are dropped")
}

func TestParseQueryParamsSortValidation(t *testing.T) {
	params := ParseQueryParams(contextWithQuery("sort[field]=name&sort[order]=asc"))
	assert.Equal(t, "name", params.Sort.Field)
	assert.Equal(t, "asc", params.Sort.Order)

	params = ParseQueryParams(contextWithQuery("sort[field]=name&sort[order]=sideways"))
	assert.Equal(t, "desc", params.Sort.Order)
}

func TestBuildPaginationResponse(t *testing.T) {
	resp := BuildPaginationResponse(2, 10, 35)

	assert.Equal(t, int64(4), resp.TotalPages)
	assert.True(t, resp.HasNext)
	assert.True(t, resp.HasPrev)

	last := BuildPaginationResponse(4, 10, 35)
	assert.False(t, last.HasNext)

	empty := BuildPaginationResponse(1, 10, 0)
	assert.Equal(t, int64(0), empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
