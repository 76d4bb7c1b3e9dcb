package wedding

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandler_GetAndUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	h := NewHandler(svc)
	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1"))
	h.RegisterAdminRoutes(router.Group("/api/v1/admin"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/wedding", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"wedding_date":null`)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/wedding",
		bytes.NewBufferString(`{"groom_name": "João", "wedding_date": "2026-11-21T16:00:00-03:00", "pix_key": "pix-123"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pix_key":"pix-123"`)

	req = httptest.NewRequest(http.MethodPut, "/api/v1/admin/wedding", bytes.NewBufferString(`{"wedding_date": "tomorrow"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
