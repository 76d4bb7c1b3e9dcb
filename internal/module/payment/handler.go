package payment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/giftregistry/server/internal/module/auth"
	"github.com/giftregistry/server/internal/shared/response"
)

// Handler handles HTTP requests for checkout and the ledger.
type Handler struct {
	service *Service
}

// NewHandler creates a new payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public payment routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/checkout", h.CreateCheckout)
	r.GET("/checkout/session/:id", h.GetCheckoutSession)
	r.POST("/transactions", h.CreateContribution)
}

// RegisterAdminRoutes registers ledger administration routes.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/transactions", h.ListTransactions)
	r.GET("/transactions/:id", h.GetTransaction)
	r.PUT("/transactions/:payment_intent_id/status", h.UpdateStatus)
}

var errorMappings = []response.ErrorMapping{
	{Err: ErrInvalidInput, Status: http.StatusBadRequest, Code: "INVALID_INPUT"},
	{Err: ErrInvalidStatus, Status: http.StatusBadRequest, Code: "INVALID_STATUS"},
	{Err: ErrCheckoutCreationFailed, Status: http.StatusBadGateway, Code: "CHECKOUT_CREATION_FAILED", Message: "could not start checkout, please try again"},
	{Err: ErrProviderUnavailable, Status: http.StatusBadGateway, Code: "PROVIDER_UNAVAILABLE"},
	{Err: ErrSessionNotFound, Status: http.StatusNotFound, Code: "SESSION_NOT_FOUND"},
	{Err: ErrTransactionNotFound, Status: http.StatusNotFound, Code: "TRANSACTION_NOT_FOUND"},
	{Err: ErrDuplicateTransaction, Status: http.StatusConflict, Code: "DUPLICATE_TRANSACTION"},
}

func handlePaymentError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, errorMappings)
}

// CreateCheckout opens a hosted checkout for a contribution.
//
//	@Summary		Start checkout
//	@Description	Opens a hosted Stripe checkout session and returns its redirect URL
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateCheckoutRequest	true	"Contribution"
//	@Success		200		{object}	CreateCheckoutResponse
//	@Failure		400		{object}	response.ErrorResponse	"Invalid input"
//	@Failure		502		{object}	response.ErrorResponse	"Provider error"
//	@Router			/checkout [post]
func (h *Handler) CreateCheckout(c *gin.Context) {
	var req CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	in := &CheckoutInput{
		Amount:     req.Amount.String(),
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Origin:     c.GetHeader("Origin"),
	}
	// Set only when the route runs behind auth.OptionalAdmin with a valid token.
	if id := auth.GetAdminID(c); id != 0 {
		in.UserID = strconv.FormatUint(uint64(id), 10)
	}

	result, err := h.service.CreateCheckoutSession(c.Request.Context(), in)
	if err != nil {
		handlePaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, CreateCheckoutResponse{URL: result.URL, SessionID: result.SessionID})
}

// GetCheckoutSession returns a session's status for the success page.
//
//	@Summary		Get checkout session
//	@Tags			Checkout
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	SessionResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/checkout/session/{id} [get]
func (h *Handler) GetCheckoutSession(c *gin.Context) {
	session, err := h.service.GetCheckoutSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlePaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session))
}

// CreateContribution records a pending contribution paid by transfer or PIX.
//
//	@Summary		Record manual contribution
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateContributionRequest	true	"Contribution"
//	@Success		201		{object}	TransactionResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Router			/transactions [post]
func (h *Handler) CreateContribution(c *gin.Context) {
	var req CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	tx, err := h.service.RecordManualContribution(c.Request.Context(), &ManualContributionInput{
		Amount:        req.Amount.String(),
		GuestName:     req.GuestName,
		GuestEmail:    req.GuestEmail,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		handlePaymentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tx.ToResponse())
}

// ListTransactions lists the ledger.
//
//	@Summary		List transactions
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			status		query		string	false	"Filter by status"
//	@Param			page		query		int		false	"Page"
//	@Param			page_size	query		int		false	"Page size"
//	@Success		200			{object}	TransactionListResponse
//	@Router			/admin/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	filter := &TransactionFilter{
		Status:   TransactionStatus(c.Query("status")),
		Page:     page,
		PageSize: pageSize,
	}
	txs, total, err := h.service.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		handlePaymentError(c, err)
		return
	}

	resp := &TransactionListResponse{
		Transactions: make([]*TransactionResponse, 0, len(txs)),
		Total:        total,
		Page:         filter.Page,
		PageSize:     filter.PageSize,
	}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, tx.ToResponse())
	}
	c.JSON(http.StatusOK, resp)
}

// GetTransaction returns one ledger row.
//
//	@Summary		Get transaction
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Transaction ID"
//	@Success		200	{object}	TransactionResponse
//	@Failure		400	{object}	response.ErrorResponse
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/admin/transactions/{id} [get]
func (h *Handler) GetTransaction(c *gin.Context) {
	id, ok := response.UintParam(c, "id")
	if !ok {
		return
	}

	tx, err := h.service.GetTransaction(c.Request.Context(), id)
	if err != nil {
		handlePaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx.ToResponse())
}

// UpdateStatus overrides the status of the transaction for a payment intent.
//
//	@Summary		Override transaction status
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			payment_intent_id	path		string				true	"Payment intent ID"
//	@Param			request				body		UpdateStatusRequest	true	"New status"
//	@Success		200					{object}	TransactionResponse
//	@Failure		404					{object}	response.ErrorResponse
//	@Router			/admin/transactions/{payment_intent_id}/status [put]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	tx, err := h.service.UpdateStatusByPaymentIntent(c.Request.Context(), c.Param("payment_intent_id"), req.Status)
	if err != nil {
		handlePaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx.ToResponse())
}
