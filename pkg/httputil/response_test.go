package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/negatcare/clinic-api/pkg/apperror"
)

func paramsFor(t *testing.T, query string) PageParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return ParsePageParams(c)
}

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		page  int
		limit int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "page=3&limit=50", 3, 50},
		{"clamped to max", "limit=500", 1, 100},
		{"garbage falls back", "page=abc&limit=xyz", 1, 20},
		{"negative falls back", "page=-1&limit=0", 1, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := paramsFor(t, tt.query)
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, PageParams{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, PageParams{Page: 3, Limit: 20}.Offset())
}

func TestListEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	List(c, []string{"a", "b"}, PageParams{Page: 1, Limit: 2}, 5)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 2, resp.Pagination.Limit)
	assert.Equal(t, 5, resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.Pages)
}

func TestListEnvelopeEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	List(c, []string{}, PageParams{Page: 1, Limit: 20}, 0)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Pagination.Pages)
}

func TestErrorMapsKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
		body   string
	}{
		{apperror.Validation("bad input"), http.StatusBadRequest, "bad input"},
		{apperror.Conflict("already booked"), http.StatusBadRequest, "already booked"},
		{apperror.Unauthorized("authorization required"), http.StatusUnauthorized, "authorization required"},
		{apperror.Forbidden("insufficient permissions"), http.StatusForbidden, "insufficient permissions"},
		{apperror.NotFound("patient"), http.StatusNotFound, "patient not found"},
		{assert.AnError, http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		Error(c, tt.err)
		assert.Equal(t, tt.status, w.Code)
		assert.Contains(t, w.Body.String(), tt.body)
	}
}
