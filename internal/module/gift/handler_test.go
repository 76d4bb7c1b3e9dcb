package gift

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	svc, _ := newTestService(t)
	h := NewHandler(svc)

	router := gin.New()
	api := router.Group("/api/v1")
	h.RegisterRoutes(api)
	h.RegisterAdminRoutes(api.Group("/admin"))
	return router, svc
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateAndList(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/admin/gifts",
		`{"name": "Espresso machine", "price": 1200.5, "category": "Kitchen", "quantity": 2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "1200.50", created.Price)
	assert.Equal(t, 2, created.Remaining)

	w = doRequest(router, http.MethodGet, "/api/v1/gifts", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestHandler_CreateValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing name", `{"price": 10}`, "INVALID_INPUT"},
		{"missing price", `{"name": "Mixer"}`, "INVALID_INPUT"},
		{"zero price", `{"name": "Mixer", "price": 0}`, "INVALID_PRICE"},
		{"string price", `{"name": "Mixer", "price": "abc"}`, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/v1/admin/gifts", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}
}

func TestHandler_GetUpdateDelete(t *testing.T) {
	router, svc := newTestRouter(t)
	product, err := svc.CreateProduct(context.Background(), &CreateInput{Name: "Rug", Price: "300"})
	require.NoError(t, err)

	path := "/api/v1/admin/gifts/" + jsonID(product.ID)

	w := doRequest(router, http.MethodPut, path, `{"price": "280", "is_active": false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price":"280.00"`)

	w = doRequest(router, http.MethodGet, "/api/v1/gifts/"+jsonID(product.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/gifts/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(router, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func jsonID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
