package wedding

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/giftregistry/server/internal/shared/response"
)

// Handler handles HTTP requests for the wedding info.
type Handler struct {
	service *Service
}

// NewHandler creates a new wedding handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/wedding", h.GetInfo)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.PUT("/wedding", h.UpdateInfo)
}

// GetInfo returns the couple and payout details.
//
//	@Summary	Get wedding info
//	@Tags		Wedding
//	@Produce	json
//	@Success	200	{object}	Info
//	@Router		/wedding [get]
func (h *Handler) GetInfo(c *gin.Context) {
	info, err := h.service.GetInfo(c.Request.Context())
	if err != nil {
		response.HandleErrorWithDefault(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, info)
}

// UpdateInfo creates or updates the wedding info.
//
//	@Summary	Update wedding info
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		UpdateInfoRequest	true	"Fields to change"
//	@Success	200		{object}	Info
//	@Failure	400		{object}	response.ErrorResponse
//	@Router		/admin/wedding [put]
func (h *Handler) UpdateInfo(c *gin.Context) {
	var req UpdateInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	info, err := h.service.UpdateInfo(c.Request.Context(), req.toInput())
	if err != nil {
		response.HandleErrorWithDefault(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, info)
}
