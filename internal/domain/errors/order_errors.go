package errors

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidOrderTotalError is returned when a submitted total does not equal
// subtotal + tax + shipping - discount
type InvalidOrderTotalError struct {
	Submitted decimal.Decimal
	Computed  decimal.Decimal
}

func (e *InvalidOrderTotalError) Error() string {
	return fmt.Sprintf("order total mismatch: submitted %s, computed %s", e.Submitted.String(), e.Computed.String())
}

// NewInvalidOrderTotalError creates a new InvalidOrderTotalError
func NewInvalidOrderTotalError(submitted, computed decimal.Decimal) *InvalidOrderTotalError {
	return &InvalidOrderTotalError{
		Submitted: submitted,
		Computed:  computed,
	}
}

// InvalidOrderItemError is returned for a line item with a non-positive
// quantity or negative price
type InvalidOrderItemError struct {
	Index  int
	Reason string
}

func (e *InvalidOrderItemError) Error() string {
	return fmt.Sprintf("invalid order item at index %d: %s", e.Index, e.Reason)
}

// NewInvalidOrderItemError creates a new InvalidOrderItemError
func NewInvalidOrderItemError(index int, reason string) *InvalidOrderItemError {
	return &InvalidOrderItemError{
		Index:  index,
		Reason: reason,
	}
}

// UnsupportedCurrencyError is returned for a currency outside the closed set
type UnsupportedCurrencyError struct {
	Currency string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency: %s", e.Currency)
}

// NewUnsupportedCurrencyError creates a new UnsupportedCurrencyError
func NewUnsupportedCurrencyError(currency string) *UnsupportedCurrencyError {
	return &UnsupportedCurrencyError{Currency: currency}
}
