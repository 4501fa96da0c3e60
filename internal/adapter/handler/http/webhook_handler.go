package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainErrors "github.com/amitosh2002/yuno-assignment/internal/domain/errors"
)

// WebhookProcessor ingests one raw webhook delivery
type WebhookProcessor interface {
	ProcessWebhook(ctx context.Context, rawBody []byte, signature string) error
}

// WebhookHandler receives gateway webhook deliveries
type WebhookHandler struct {
	logger         *zap.Logger
	reconciliation WebhookProcessor
}

// NewWebhookHandler creates a new WebhookHandler instance
func NewWebhookHandler(logger *zap.Logger, reconciliation WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{
		logger:         logger,
		reconciliation: reconciliation,
	}
}

// Handle processes one webhook delivery. The body is read raw because the
// signature covers the exact bytes on the wire. Only a signature failure is
// rejected with 401; malformed, duplicate and unmatched events are
// acknowledged with 200 so the gateway stops redelivering them, and only an
// infrastructure failure produces a 5xx that triggers a redelivery.
func (h *WebhookHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Failed to read webhook body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Failed to read request body",
			"code":  "INVALID_REQUEST",
		})
	}

	signature := c.Request().Header.Get("yuno-signature")
	if signature == "" {
		signature = c.Request().Header.Get("x-yuno-signature")
	}

	err = h.reconciliation.ProcessWebhook(ctx, body, signature)
	if err == nil {
		return c.JSON(http.StatusOK, echo.Map{"status": "processed"})
	}

	var whErr *domainErrors.WebhookError
	if errors.As(err, &whErr) {
		switch whErr.Type {
		case domainErrors.ErrTypeSignatureInvalid:
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error": "Invalid webhook signature",
				"code":  whErr.Type,
			})
		case domainErrors.ErrTypeMalformedEvent:
			return c.JSON(http.StatusOK, echo.Map{
				"status": "ignored",
				"code":   whErr.Type,
			})
		case domainErrors.ErrTypeDuplicateEvent:
			return c.JSON(http.StatusOK, echo.Map{
				"status": "duplicate",
				"code":   whErr.Type,
			})
		case domainErrors.ErrTypeTransactionNotFound:
			return c.JSON(http.StatusOK, echo.Map{
				"status": "pending",
				"code":   whErr.Type,
			})
		}
	}

	h.logger.Error("Webhook processing failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error": "Failed to process webhook event",
		"code":  "WEBHOOK_PROCESSING_FAILED",
	})
}
