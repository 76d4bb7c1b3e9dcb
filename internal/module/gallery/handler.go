package gallery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/giftregistry/server/internal/shared/response"
)

// Handler handles HTTP requests for the carousel and event gallery.
type Handler struct {
	service *Service
}

// NewHandler creates a new gallery handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the guest-facing routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/carousel", h.ListCarousel)

	photos := r.Group("/gallery/photos")
	{
		photos.GET("", h.ListPhotos)
		photos.GET("/:id/comments", h.ListComments)
		photos.POST("/:id/comments", h.AddComment)
		photos.POST("/:id/likes", h.AddLike)
		photos.DELETE("/:id/likes", h.RemoveLike)
	}
}

// RegisterAdminRoutes registers gallery management routes.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	carousel := r.Group("/carousel")
	{
		carousel.GET("", h.ListAllCarousel)
		carousel.POST("", h.CreateCarouselPhoto)
		carousel.PUT("/:id", h.UpdateCarouselPhoto)
		carousel.DELETE("/:id", h.DeleteCarouselPhoto)
	}

	gallery := r.Group("/gallery")
	{
		gallery.POST("/photos", h.CreatePhoto)
		gallery.DELETE("/photos/:id", h.DeletePhoto)
		gallery.GET("/photos/:id/comments", h.ListAllComments)
		gallery.POST("/comments/:id/approve", h.ApproveComment)
		gallery.DELETE("/comments/:id", h.DeleteComment)
	}
}

var errorMappings = []response.ErrorMapping{
	{Err: ErrCarouselPhotoNotFound, Status: http.StatusNotFound, Code: "CAROUSEL_PHOTO_NOT_FOUND"},
	{Err: ErrPhotoNotFound, Status: http.StatusNotFound, Code: "PHOTO_NOT_FOUND"},
	{Err: ErrCommentNotFound, Status: http.StatusNotFound, Code: "COMMENT_NOT_FOUND"},
	{Err: ErrImageURLRequired, Status: http.StatusBadRequest, Code: "INVALID_INPUT"},
	{Err: ErrGuestNameRequired, Status: http.StatusBadRequest, Code: "INVALID_INPUT"},
	{Err: ErrCommentRequired, Status: http.StatusBadRequest, Code: "INVALID_INPUT"},
	{Err: ErrInvalidEmail, Status: http.StatusBadRequest, Code: "INVALID_EMAIL"},
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ErrorWithCode(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return false
	}
	return true
}

// ListCarousel lists the active slides.
//
//	@Summary	List carousel photos
//	@Tags		Gallery
//	@Produce	json
//	@Success	200	{array}	CarouselPhoto
//	@Router		/carousel [get]
func (h *Handler) ListCarousel(c *gin.Context) {
	photos, err := h.service.ListCarousel(c.Request.Context(), false)
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusOK, photos)
}

// ListAllCarousel lists every slide.
//
//	@Summary	List all carousel photos
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	CarouselPhoto
//	@Router		/admin/carousel [get]
func (h *Handler) ListAllCarousel(c *gin.Context) {
	photos, err := h.service.ListCarousel(c.Request.Context(), true)
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusOK, photos)
}

// CreateCarouselPhoto adds a slide.
//
//	@Summary	Create carousel photo
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		CreateCarouselRequest	true	"Slide"
//	@Success	201		{object}	CarouselPhoto
//	@Router		/admin/carousel [post]
func (h *Handler) CreateCarouselPhoto(c *gin.Context) {
	var req CreateCarouselRequest
	if !bindJSON(c, &req) {
		return
	}

	photo, err := h.service.CreateCarouselPhoto(c.Request.Context(), &CarouselInput{
		ImageURL: req.ImageURL,
		ImageKey: req.ImageKey,
		Caption:  req.Caption,
		Order:    req.Order,
	})
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// UpdateCarouselPhoto partially updates a slide.
//
//	@Summary	Update carousel photo
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int						true	"Carousel photo ID"
//	@Param		request	body		UpdateCarouselRequest	true	"Fields to change"
//	@Success	200		{object}	CarouselPhoto
//	@Failure	404		{object}	response.ErrorResponse
//	@Router		/admin/carousel/{id} [put]
func (h *Handler) UpdateCarouselPhoto(c *gin.Context) {
	id, ok := response.UintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCarouselRequest
	if !bindJSON(c, &req) {
		return
	}

	photo, err := h.service.UpdateCarouselPhoto(c.Request.Context(), id, &CarouselUpdate{
		ImageURL: req.ImageURL,
		ImageKey: req.ImageKey,
		Caption:  req.Caption,
		Order:    req.Order,
		IsActive: req.IsActive,
	})
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusOK, photo)
}

// DeleteCarouselPhoto removes a slide.
//
//	@Summary	Delete carousel photo
//	@Tags		Admin
//	@Security	BearerAuth
//	@Param		id	path	int	true	"Carousel photo ID"
//	@Success	204
//	@Router		/admin/carousel/{id} [delete]
func (h *Handler) DeleteCarouselPhoto(c *gin.Context) {
	id, ok := response.UintParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCarouselPhoto(c.Request.Context(), id); err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPhotos lists the event gallery.
//
//	@Summary	List event photos
//	@Tags		Gallery
//	@Produce	json
//	@Success	200	{array}	Photo
//	@Router		/gallery/photos [get]
func (h *Handler) ListPhotos(c *gin.Context) {
	photos, err := h.service.ListPhotos(c.Request.Context())
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusOK, photos)
}

// CreatePhoto adds an event photo.
//
//	@Summary	Create event photo
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		CreatePhotoRequest	true	"Photo"
//	@Success	201		{object}	Photo
//	@Router		/admin/gallery/photos [post]
func (h *Handler) CreatePhoto(c *gin.Context) {
	var req CreatePhotoRequest
	if !bindJSON(c, &req) {
		return
	}

	photo, err := h.service.CreatePhoto(c.Request.Context(), &PhotoInput{
		ImageURL: req.ImageURL,
		ImageKey: req.ImageKey,
		Caption:  req.Caption,
	})
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// DeletePhoto removes an event photo with its comments and likes.
//
//	@Summary	Delete event photo
//	@Tags		Admin
//	@Security	BearerAuth
//	@Param		id	path	int	true	"Photo ID"
//	@Success	204
//	@Router		/admin/gallery/photos/{id} [delete]
func (h *Handler) DeletePhoto(c *gin.Context) {
	id, ok := response.UintParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeletePhoto(c.Request.Context(), id); err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListComments lists a photo's approved comments.
//
//	@Summary	List photo comments
//	@Tags		Gallery
//	@Produce	json
//	@Param		id	path	int	true	"Photo ID"
//	@Success	200	{array}	Comment
//	@Router		/gallery/photos/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	h.listComments(c, false)
}

// ListAllComments lists a photo's comments including unapproved ones.
//
//	@Summary	List all photo comments
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path	int	true	"Photo ID"
//	@Success	200	{array}	Comment
//	@Router		/admin/gallery/photos/{id}/comments [get]
func (h *Handler) ListAllComments(c *gin.Context) {
	h.listComments(c, true)
}

func (h *Handler) listComments(c *gin.Context, includeUnapproved bool) {
	id, ok := response.UintParam(c, "id")
	if !ok {
		return
	}
	comments, err := h.service.ListComments(c.Request.Context(), id, includeUnapproved)
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// AddComment submits a comment for moderation.
//
//	@Summary	Comment on photo
//	@Tags		Gallery
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int						true	"Photo ID"
//	@Param		request	body		CreateCommentRequest	true	"Comment"
//	@Success	201		{object}	Comment
//	@Failure	404		{object}	response.ErrorResponse
//	@Router		/gallery/photos/{id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := response.UintParam(c, "id")
	if !ok {
		return
	}
	var req CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), id, &CommentInput{
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		Comment:    req.Comment,
	})
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ApproveComment publishes a comment.
//
//	@Summary	Approve comment
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Comment ID"
//	@Success	200	{object}	Comment
//	@Router		/admin/gallery/comments/{id}/approve [post]
func (h *Handler) ApproveComment(c *gin.Context) {
	id, ok := response.UintParam(c, "id")
	if !ok {
		return
	}
	comment, err := h.service.ApproveComment(c.Request.Context(), id)
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment.
//
//	@Summary	Delete comment
//	@Tags		Admin
//	@Security	BearerAuth
//	@Param		id	path	int	true	"Comment ID"
//	@Success	204
//	@Router		/admin/gallery/comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	id, ok := response.UintParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteComment(c.Request.Context(), id); err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddLike likes a photo.
//
//	@Summary	Like photo
//	@Tags		Gallery
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int			true	"Photo ID"
//	@Param		request	body		LikeRequest	true	"Guest"
//	@Success	200		{object}	LikeResult
//	@Router		/gallery/photos/{id}/likes [post]
func (h *Handler) AddLike(c *gin.Context) {
	id, ok := response.UintParam(c, "id")
	if !ok {
		return
	}
	var req LikeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.AddLike(c.Request.Context(), id, req.GuestEmail)
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RemoveLike withdraws a like.
//
//	@Summary	Unlike photo
//	@Tags		Gallery
//	@Produce	json
//	@Param		id			path		int		true	"Photo ID"
//	@Param		guest_email	query		string	true	"Guest email"
//	@Success	200			{object}	LikeResult
//	@Router		/gallery/photos/{id}/likes [delete]
func (h *Handler) RemoveLike(c *gin.Context) {
	id, ok := response.UintParam(c, "id")
	if !ok {
		return
	}
	var req LikeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	result, err := h.service.RemoveLike(c.Request.Context(), id, req.GuestEmail)
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusOK, result)
}
