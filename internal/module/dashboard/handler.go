package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/giftregistry/server/internal/shared/response"
)

// Handler serves the couple dashboard.
type Handler struct {
	service *Service
}

// NewHandler creates a new dashboard handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterAdminRoutes registers the dashboard route.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.GetSummary)
}

// GetSummary returns contribution aggregates.
//
//	@Summary	Dashboard summary
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	Summary
//	@Failure	500	{object}	response.ErrorResponse
//	@Router		/admin/dashboard [get]
func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		response.HandleErrorWithDefault(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, summary)
}
