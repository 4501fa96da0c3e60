package usecase

import (
	"fmt"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	upperAlphanumeric = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerAlphanumeric = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// timeSuffix returns the last n digits of the current unix-millisecond clock
func timeSuffix(now time.Time, n int) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	return ms[len(ms)-n:]
}

// newOrderNumber generates a customer-facing order number, e.g. ORD4821079QK2
func newOrderNumber(now time.Time) (string, error) {
	suffix, err := gonanoid.Generate(upperAlphanumeric, 4)
	if err != nil {
		return "", fmt.Errorf("failed to generate order number: %w", err)
	}
	return "ORD" + timeSuffix(now, 6) + suffix, nil
}

// newConfirmationNumber generates a payment confirmation number shown to the
// customer once a payment record exists, e.g. YUN482107XT4F
func newConfirmationNumber(now time.Time) (string, error) {
	suffix, err := gonanoid.Generate(upperAlphanumeric, 4)
	if err != nil {
		return "", fmt.Errorf("failed to generate confirmation number: %w", err)
	}
	return "YUN" + timeSuffix(now, 6) + suffix, nil
}

// newFallbackEventID mints a synthetic event id for webhook envelopes that
// arrive without one, so the delivery can still be recorded and deduplicated
func newFallbackEventID(now time.Time) string {
	suffix, err := gonanoid.Generate(lowerAlphanumeric, 9)
	if err != nil {
		suffix = strconv.FormatInt(now.UnixNano(), 36)
	}
	return "evt_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + suffix
}
