package guestbook

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/giftregistry/server/internal/shared/response"
)

// Handler handles HTTP requests for the guestbook.
type Handler struct {
	service *Service
}

// NewHandler creates a new guestbook handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the guest-facing routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	posts := r.Group("/posts")
	{
		posts.GET("", h.ListPosts)
		posts.POST("", h.CreatePost)
	}
}

// RegisterAdminRoutes registers moderation routes.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	posts := r.Group("/posts")
	{
		posts.GET("", h.ListAllPosts)
		posts.POST("/:id/approve", h.ApprovePost)
		posts.DELETE("/:id", h.DeletePost)
	}
}

var errorMappings = []response.ErrorMapping{
	{Err: ErrPostNotFound, Status: http.StatusNotFound, Code: "POST_NOT_FOUND"},
	{Err: ErrGuestNameRequired, Status: http.StatusBadRequest, Code: "INVALID_INPUT"},
	{Err: ErrEmptyPost, Status: http.StatusBadRequest, Code: "INVALID_INPUT"},
	{Err: ErrInvalidEmail, Status: http.StatusBadRequest, Code: "INVALID_EMAIL"},
}

// ListPosts lists approved posts.
//
//	@Summary	List guestbook posts
//	@Tags		Guestbook
//	@Produce	json
//	@Success	200	{array}	Post
//	@Router		/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.service.ListApproved(c.Request.Context())
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// CreatePost submits a post for moderation.
//
//	@Summary	Submit guestbook post
//	@Tags		Guestbook
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreatePostRequest	true	"Post"
//	@Success	201		{object}	Post
//	@Failure	400		{object}	response.ErrorResponse
//	@Router		/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), req.toInput())
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// ListAllPosts lists every post including unapproved ones.
//
//	@Summary	List all guestbook posts
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	Post
//	@Router		/admin/posts [get]
func (h *Handler) ListAllPosts(c *gin.Context) {
	posts, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// ApprovePost publishes a post.
//
//	@Summary	Approve guestbook post
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Post ID"
//	@Success	200	{object}	Post
//	@Failure	404	{object}	response.ErrorResponse
//	@Router		/admin/posts/{id}/approve [post]
func (h *Handler) ApprovePost(c *gin.Context) {
	id, ok := response.UintParam(c, "id")
	if !ok {
		return
	}

	post, err := h.service.ApprovePost(c.Request.Context(), id)
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost removes a post.
//
//	@Summary	Delete guestbook post
//	@Tags		Admin
//	@Security	BearerAuth
//	@Param		id	path	int	true	"Post ID"
//	@Success	204
//	@Failure	404	{object}	response.ErrorResponse
//	@Router		/admin/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := response.UintParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), id); err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.Status(http.StatusNoContent)
}
