package http

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
	"github.com/amitosh2002/yuno-assignment/internal/middleware/auth"
	"github.com/amitosh2002/yuno-assignment/internal/usecase"
)

// OrderHandler manages merchant orders
type OrderHandler struct {
	logger   *zap.Logger
	orders   *usecase.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler instance
func NewOrderHandler(logger *zap.Logger, orders *usecase.OrderService) *OrderHandler {
	return &OrderHandler{
		logger:   logger,
		orders:   orders,
		validate: validator.New(),
	}
}

type OrderItemRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	SKU         string          `json:"sku,omitempty"`
	Category    string          `json:"category,omitempty"`
}

type CreateOrderRequest struct {
	Items    []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Tax      decimal.Decimal    `json:"tax"`
	Shipping decimal.Decimal    `json:"shipping"`
	Discount decimal.Decimal    `json:"discount"`
	Total    *decimal.Decimal   `json:"total,omitempty"`
	Currency string             `json:"currency,omitempty" validate:"omitempty,len=3"`
	Notes    string             `json:"notes,omitempty"`
}

// Create validates and persists a new order
func (h *OrderHandler) Create(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Authentication required",
			"code":  "AUTH_REQUIRED",
		})
	}

	var req CreateOrderRequest
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

	items := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = model.OrderItem{
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Quantity:    item.Quantity,
			SKU:         item.SKU,
			Category:    item.Category,
		}
	}

	input := &usecase.CreateOrderInput{
		UserID:   userID,
		Items:    items,
		Tax:      req.Tax,
		Shipping: req.Shipping,
		Discount: req.Discount,
		Currency: req.Currency,
		Notes:    req.Notes,
	}
	if req.Total != nil {
		input.Total = *req.Total
		input.TotalSet = true
	}

	order, err := h.orders.CreateOrder(c.Request().Context(), input)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, order)
}

// Get returns one order owned by the caller
func (h *OrderHandler) Get(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Authentication required",
			"code":  "AUTH_REQUIRED",
		})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Order id must be numeric",
			"code":  "INVALID_REQUEST",
		})
	}

	order, err := h.orders.GetOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, order)
}

// List returns the caller's orders
func (h *OrderHandler) List(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Authentication required",
			"code":  "AUTH_REQUIRED",
		})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	orders, err := h.orders.ListOrders(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"orders": orders,
		"count":  len(orders),
	})
}
