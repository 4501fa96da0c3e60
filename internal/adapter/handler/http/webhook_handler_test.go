package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	domainErrors "github.com/amitosh2002/yuno-assignment/internal/domain/errors"
)

type stubProcessor struct {
	err       error
	gotBody   []byte
	gotHeader string
}

func (s *stubProcessor) ProcessWebhook(_ context.Context, rawBody []byte, signature string) error {
	s.gotBody = rawBody
	s.gotHeader = signature
	return s.err
}

func deliver(t *testing.T, processor *stubProcessor, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	handler := NewWebhookHandler(zap.NewNop(), processor)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, handler.Handle(c))
	return rec
}

func TestWebhookHandler_Success(t *testing.T) {
	processor := &stubProcessor{}
	rec := deliver(t, processor, `{"type":"payment.succeeded","data":{"id":"tx_1"}}`,
		map[string]string{"yuno-signature": "abc"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "processed")
	assert.Equal(t, "abc", processor.gotHeader)
	assert.Equal(t, `{"type":"payment.succeeded","data":{"id":"tx_1"}}`, string(processor.gotBody))
}

func TestWebhookHandler_AlternateSignatureHeader(t *testing.T) {
	processor := &stubProcessor{}
	deliver(t, processor, `{}`, map[string]string{"x-yuno-signature": "alt"})

	assert.Equal(t, "alt", processor.gotHeader)
}

func TestWebhookHandler_InvalidSignatureIsRejected(t *testing.T) {
	processor := &stubProcessor{err: domainErrors.NewSignatureInvalidError("yuno")}
	rec := deliver(t, processor, `{}`, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "SIGNATURE_INVALID")
}

func TestWebhookHandler_AcknowledgedOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus string
	}{
		{"malformed event", domainErrors.NewMalformedEventError("yuno", "missing type"), "ignored"},
		{"duplicate delivery", domainErrors.NewDuplicateEventError("yuno", "evt_1"), "duplicate"},
		{"unmatched transaction", domainErrors.NewTransactionNotFoundError("yuno", "tx_1"), "pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := &stubProcessor{err: tt.err}
			rec := deliver(t, processor, `{}`, nil)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantStatus)
		})
	}
}

func TestWebhookHandler_InfrastructureFailureIs5xx(t *testing.T) {
	processor := &stubProcessor{err: errors.New("database down")}
	rec := deliver(t, processor, `{}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "WEBHOOK_PROCESSING_FAILED")
}
