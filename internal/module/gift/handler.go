package gift

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/giftregistry/server/internal/shared/response"
)

// Handler handles HTTP requests for the gift catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new gift handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public catalog routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	gifts := r.Group("/gifts")
	{
		gifts.GET("", h.ListProducts)
		gifts.GET("/:id", h.GetProduct)
	}
}

// RegisterAdminRoutes registers catalog management routes.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	gifts := r.Group("/gifts")
	{
		gifts.GET("", h.ListAllProducts)
		gifts.POST("", h.CreateProduct)
		gifts.PUT("/:id", h.UpdateProduct)
		gifts.DELETE("/:id", h.DeleteProduct)
	}
}

var errorMappings = []response.ErrorMapping{
	{Err: ErrProductNotFound, Status: http.StatusNotFound, Code: "PRODUCT_NOT_FOUND"},
	{Err: ErrNameRequired, Status: http.StatusBadRequest, Code: "INVALID_INPUT"},
	{Err: ErrInvalidPrice, Status: http.StatusBadRequest, Code: "INVALID_PRICE", Message: "price must be a positive amount"},
	{Err: ErrInvalidQuantity, Status: http.StatusBadRequest, Code: "INVALID_INPUT"},
}

// ListProducts lists the active gifts.
//
//	@Summary		List gifts
//	@Tags			Gifts
//	@Produce		json
//	@Success		200	{array}		ProductResponse
//	@Router			/gifts [get]
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context(), false)
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusOK, toResponses(products))
}

// GetProduct returns an active gift.
//
//	@Summary		Get gift
//	@Tags			Gifts
//	@Produce		json
//	@Param			id	path		int	true	"Product ID"
//	@Success		200	{object}	ProductResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/gifts/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := response.UintParam(c, "id")
	if !ok {
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), id, false)
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusOK, product.ToResponse())
}

// ListAllProducts lists every gift including inactive ones.
//
//	@Summary		List all gifts
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		ProductResponse
//	@Router			/admin/gifts [get]
func (h *Handler) ListAllProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context(), true)
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusOK, toResponses(products))
}

// CreateProduct adds a gift.
//
//	@Summary		Create gift
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateProductRequest	true	"Product"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Router			/admin/gifts [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), req.ToInput())
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusCreated, product.ToResponse())
}

// UpdateProduct partially updates a gift.
//
//	@Summary		Update gift
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int						true	"Product ID"
//	@Param			request	body		UpdateProductRequest	true	"Fields to change"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse
//	@Router			/admin/gifts/{id} [put]
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := response.UintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), id, req.ToInput())
	if err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.JSON(http.StatusOK, product.ToResponse())
}

// DeleteProduct removes a gift.
//
//	@Summary		Delete gift
//	@Tags			Admin
//	@Security		BearerAuth
//	@Param			id	path	int	true	"Product ID"
//	@Success		204
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/admin/gifts/{id} [delete]
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := response.UintParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		response.HandleErrorWithDefault(c, err, errorMappings)
		return
	}
	c.Status(http.StatusNoContent)
}
