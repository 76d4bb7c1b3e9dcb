package gallery

import (
	"bytes"
	"fmt"
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

func TestHandler_Likes(t *testing.T) {
	router, svc := newTestRouter(t)
	photo := createPhoto(t, svc)
	path := fmt.Sprintf("/api/v1/gallery/photos/%d/likes", photo.ID)

	w := doRequest(router, http.MethodPost, path, `{"guest_email": "ana@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true, "likes": 1}`, w.Body.String())

	w = doRequest(router, http.MethodPost, path, `{"guest_email": "ana@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": false, "message": "already liked", "likes": 1}`, w.Body.String())

	w = doRequest(router, http.MethodDelete, path+"?guest_email=ana@example.com", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true, "likes": 0}`, w.Body.String())

	w = doRequest(router, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/gallery/photos/999/likes", `{"guest_email": "ana@example.com"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_CommentModeration(t *testing.T) {
	router, svc := newTestRouter(t)
	photo := createPhoto(t, svc)

	w := doRequest(router, http.MethodPost, fmt.Sprintf("/api/v1/gallery/photos/%d/comments", photo.ID),
		`{"guest_name": "Ana", "comment": "Que festa!"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodGet, fmt.Sprintf("/api/v1/gallery/photos/%d/comments", photo.ID), "")
	assert.JSONEq(t, `[]`, w.Body.String())

	w = doRequest(router, http.MethodGet, fmt.Sprintf("/api/v1/admin/gallery/photos/%d/comments", photo.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Que festa!")
}

func TestHandler_AdminCarousel(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/admin/carousel", `{"image_url": "https://cdn.example.com/a.jpg", "order": 1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/admin/carousel", `{"caption": "no image"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPut, "/api/v1/admin/carousel/999", `{"order": 2}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/carousel", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a.jpg")
}
