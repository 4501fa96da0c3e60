package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainErrors "github.com/amitosh2002/yuno-assignment/internal/domain/errors"
	"github.com/amitosh2002/yuno-assignment/internal/domain/provider"
)

// writeError maps domain and gateway errors onto HTTP responses. Gateway
// rejections pass the gateway's own HTTP status, code and message through
// verbatim; an unreachable gateway is a 503 so clients know to retry.
func writeError(c echo.Context, logger *zap.Logger, err error) error {
	var notFound *domainErrors.NotFoundError
	if errors.As(err, &notFound) {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": notFound.Error(),
			"code":  "NOT_FOUND",
		})
	}

	var totalErr *domainErrors.InvalidOrderTotalError
	if errors.As(err, &totalErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": totalErr.Error(),
			"code":  "INVALID_ORDER_TOTAL",
		})
	}

	var itemErr *domainErrors.InvalidOrderItemError
	if errors.As(err, &itemErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": itemErr.Error(),
			"code":  "INVALID_ORDER_ITEM",
		})
	}

	var currencyErr *domainErrors.UnsupportedCurrencyError
	if errors.As(err, &currencyErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": currencyErr.Error(),
			"code":  "UNSUPPORTED_CURRENCY",
		})
	}

	var provErr *provider.ProviderError
	if errors.As(err, &provErr) {
		if provErr.Unreachable {
			logger.Error("Payment gateway unreachable", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, echo.Map{
				"error": "Payment gateway is temporarily unavailable",
				"code":  "GATEWAY_UNAVAILABLE",
			})
		}
		status := http.StatusUnprocessableEntity
		if provErr.StatusCode > 0 {
			status = provErr.StatusCode
		}
		return c.JSON(status, echo.Map{
			"error":   provErr.Message,
			"code":    provErr.Code,
			"details": provErr.Details,
		})
	}

	logger.Error("Request handling failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error": "Internal server error",
		"code":  "INTERNAL_ERROR",
	})
}
