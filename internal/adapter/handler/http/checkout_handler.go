package http

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/amitosh2002/yuno-assignment/internal/middleware/auth"
	"github.com/amitosh2002/yuno-assignment/internal/usecase"
)

// CheckoutHandler drives checkout sessions and payment initiation
type CheckoutHandler struct {
	logger   *zap.Logger
	checkout *usecase.CheckoutService
	validate *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler instance
func NewCheckoutHandler(logger *zap.Logger, checkout *usecase.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		logger:   logger,
		checkout: checkout,
		validate: validator.New(),
	}
}

type CreateSessionRequest struct {
	OrderID int64  `json:"order_id" validate:"required,min=1"`
	Country string `json:"country" validate:"required,len=2"`
}

// CreateSession opens a gateway checkout session for a pending order
func (h *CheckoutHandler) CreateSession(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Authentication required",
			"code":  "AUTH_REQUIRED",
		})
	}

	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
			"code":  "INVALID_REQUEST",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
			"code":  "VALIDATION_FAILED",
		})
	}

	session, err := h.checkout.CreateCheckoutSession(c.Request().Context(), userID, req.OrderID, req.Country)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, session)
}

type InitiatePaymentRequest struct {
	CheckoutSessionID int64  `json:"checkout_session_id" validate:"required,min=1"`
	OneTimeToken      string `json:"one_time_token,omitempty"`
	Description       string `json:"description,omitempty"`
}

// InitiatePayment creates a payment against an open checkout session. The
// X-Idempotency-Key header makes client retries safe; without one a fresh
// key is generated per request.
func (h *CheckoutHandler) InitiatePayment(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Authentication required",
			"code":  "AUTH_REQUIRED",
		})
	}

	var req InitiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
			"code":  "INVALID_REQUEST",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
			"code":  "VALIDATION_FAILED",
		})
	}

	payment, err := h.checkout.InitiatePayment(c.Request().Context(), &usecase.InitiatePaymentInput{
		UserID:            userID,
		CheckoutSessionID: req.CheckoutSessionID,
		IdempotencyKey:    c.Request().Header.Get("X-Idempotency-Key"),
		OneTimeToken:      req.OneTimeToken,
		Description:       req.Description,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, payment)
}

// GetPayment returns one payment owned by the caller
func (h *CheckoutHandler) GetPayment(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Authentication required",
			"code":  "AUTH_REQUIRED",
		})
	}

	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Payment id must be numeric",
			"code":  "INVALID_REQUEST",
		})
	}

	payment, err := h.checkout.GetPayment(c.Request().Context(), userID, paymentID)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, payment)
}

// ListPayments returns the caller's payments
func (h *CheckoutHandler) ListPayments(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Authentication required",
			"code":  "AUTH_REQUIRED",
		})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	payments, err := h.checkout.ListPayments(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"payments": payments,
		"count":    len(payments),
	})
}
