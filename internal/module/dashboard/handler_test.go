package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_GetSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t, nil)

	router := gin.New()
	NewHandler(f.svc).RegisterAdminRoutes(router.Group("/api/v1/admin"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_amount":"0.00"`)
	assert.Contains(t, w.Body.String(), `"monthly":[]`)
}
