package auth

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/giftregistry/server/internal/shared/response"
)

// Handler handles HTTP requests for admin authentication.
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public admin auth routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.Login)
	r.POST("/setup", h.Setup)
}

// RegisterProtectedRoutes registers routes that need an admin token.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.Me)
}

var errorMappings = []response.ErrorMapping{
	{Err: ErrInvalidCredentials, Status: http.StatusUnauthorized, Code: "INVALID_CREDENTIALS"},
	{Err: ErrAdminExists, Status: http.StatusConflict, Code: "ADMIN_EXISTS"},
	{Err: ErrWeakPassword, Status: http.StatusBadRequest, Code: "WEAK_PASSWORD"},
	{Err: ErrInvalidEmail, Status: http.StatusBadRequest, Code: "INVALID_EMAIL"},
	{Err: ErrAdminNotFound, Status: http.StatusNotFound, Code: "ADMIN_NOT_FOUND"},
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var tooMany *TooManyAttemptsError
	if errors.As(err, &tooMany) {
		retry := int(time.Until(tooMany.RetryAt).Seconds())
		if retry < 1 {
			retry = 1
		}
		c.Header("Retry-After", strconv.Itoa(retry))
		response.ErrorWithCode(c, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "too many login attempts, please try again later")
		return
	}
	response.HandleErrorWithDefault(c, err, errorMappings)
}

// Login authenticates an admin.
//
//	@Summary		Admin login
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResult
//	@Failure		401		{object}	response.ErrorResponse
//	@Failure		429		{object}	response.ErrorResponse
//	@Router			/admin/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Setup creates the first admin account.
//
//	@Summary		Create first admin
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SetupRequest	true	"Credentials"
//	@Success		201		{object}	AdminCredential
//	@Failure		409		{object}	response.ErrorResponse
//	@Router			/admin/setup [post]
func (h *Handler) Setup(c *gin.Context) {
	var req SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	admin, err := h.service.Setup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

// Me returns the authenticated admin.
//
//	@Summary		Current admin
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	AdminCredential
//	@Router			/admin/me [get]
func (h *Handler) Me(c *gin.Context) {
	admin, err := h.service.GetAdmin(c.Request.Context(), GetAdminID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}
