package errors

import (
	stderrors "errors"
	"fmt"
)

// Webhook error types
const (
	ErrTypeSignatureInvalid    = "SIGNATURE_INVALID"
	ErrTypeMalformedEvent      = "MALFORMED_EVENT"
	ErrTypeDuplicateEvent      = "DUPLICATE_EVENT"
	ErrTypeTransactionNotFound = "TRANSACTION_NOT_FOUND"
)

// WebhookError represents errors raised while ingesting a webhook event.
// The Type code decides the HTTP outcome: signature failures are the only
// ones rejected with 401, everything else is acknowledged with 200 so the
// gateway does not retry permanently-broken deliveries.
type WebhookError struct {
	Type            string
	Message         string
	Provider        string
	ProviderEventID string
	Cause           error
}

func (e *WebhookError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (provider: %s, event: %s) - %v",
			e.Type, e.Message, e.Provider, e.ProviderEventID, e.Cause)
	}
	return fmt.Sprintf("%s: %s (provider: %s, event: %s)",
		e.Type, e.Message, e.Provider, e.ProviderEventID)
}

func (e *WebhookError) Unwrap() error {
	return e.Cause
}

// NewSignatureInvalidError creates a signature verification failure
func NewSignatureInvalidError(provider string) *WebhookError {
	return &WebhookError{
		Type:     ErrTypeSignatureInvalid,
		Message:  "webhook signature verification failed",
		Provider: provider,
	}
}

// NewMalformedEventError creates an invalid-envelope error
func NewMalformedEventError(provider, reason string) *WebhookError {
	return &WebhookError{
		Type:     ErrTypeMalformedEvent,
		Message:  "invalid webhook event structure: " + reason,
		Provider: provider,
	}
}

// NewDuplicateEventError creates a duplicate-delivery error
func NewDuplicateEventError(provider, providerEventID string) *WebhookError {
	return &WebhookError{
		Type:            ErrTypeDuplicateEvent,
		Message:         "event was already recorded",
		Provider:        provider,
		ProviderEventID: providerEventID,
	}
}

// NewTransactionNotFoundError creates a lookup-miss error for an event that
// references a transaction this service has not persisted yet
func NewTransactionNotFoundError(provider, providerTransactionID string) *WebhookError {
	return &WebhookError{
		Type:            ErrTypeTransactionNotFound,
		Message:         "no transaction matches provider transaction id " + providerTransactionID,
		Provider:        provider,
		ProviderEventID: providerTransactionID,
	}
}

// IsDuplicateEvent reports whether err is a duplicate-delivery rejection
func IsDuplicateEvent(err error) bool {
	var whErr *WebhookError
	return stderrors.As(err, &whErr) && whErr.Type == ErrTypeDuplicateEvent
}
