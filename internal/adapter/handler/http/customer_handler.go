package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
	"github.com/amitosh2002/yuno-assignment/internal/domain/provider"
	"github.com/amitosh2002/yuno-assignment/internal/usecase"
)

// CustomerHandler registers merchant customers
type CustomerHandler struct {
	logger   *zap.Logger
	checkout *usecase.CheckoutService
	validate *validator.Validate
}

// NewCustomerHandler creates a new CustomerHandler instance
func NewCustomerHandler(logger *zap.Logger, checkout *usecase.CheckoutService) *CustomerHandler {
	return &CustomerHandler{
		logger:   logger,
		checkout: checkout,
		validate: validator.New(),
	}
}

type CreateCustomerRequest struct {
	Name    string          `json:"name" validate:"required"`
	Email   string          `json:"email" validate:"required,email"`
	Country string          `json:"country" validate:"required,len=2"`
	Phone   *PhoneRequest   `json:"phone,omitempty"`
	Address *AddressRequest `json:"address,omitempty"`
}

type PhoneRequest struct {
	CountryCode string `json:"country_code" validate:"required"`
	Number      string `json:"number" validate:"required"`
}

type AddressRequest struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

// Create registers a customer locally and with the gateway
func (h *CustomerHandler) Create(c echo.Context) error {
	var req CreateCustomerRequest
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

	input := &usecase.CreateCustomerInput{
		Name:    req.Name,
		Email:   req.Email,
		Country: req.Country,
	}
	if req.Phone != nil {
		input.Phone = &provider.Phone{
			CountryCode: req.Phone.CountryCode,
			Number:      req.Phone.Number,
		}
	}
	if req.Address != nil {
		input.Address = &model.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			Zip:     req.Address.Zip,
			Country: req.Address.Country,
		}
	}

	user, err := h.checkout.CreateCustomer(c.Request().Context(), input)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, user)
}
