package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/amitosh2002/yuno-assignment/internal/domain/errors"
	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
)

type reconciliationFixture struct {
	service    *ReconciliationService
	webhooks   *mockWebhookRepository
	txs        *mockTransactionRepository
	payments   *mockPaymentRepository
	orders     *mockOrderRepository
	dispatcher *mockDispatcher
	verifier   *staticVerifier
	now        time.Time
}

func newReconciliationFixture(t *testing.T) *reconciliationFixture {
	t.Helper()
	f := &reconciliationFixture{
		webhooks:   new(mockWebhookRepository),
		txs:        new(mockTransactionRepository),
		payments:   new(mockPaymentRepository),
		orders:     new(mockOrderRepository),
		dispatcher: new(mockDispatcher),
		verifier:   &staticVerifier{valid: true},
		now:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.service = NewReconciliationService(
		f.webhooks, f.txs, f.payments, f.orders, f.verifier, f.dispatcher, zap.NewNop())
	f.service.now = func() time.Time { return f.now }
	return f
}

func (f *reconciliationFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.webhooks.AssertExpectations(t)
	f.txs.AssertExpectations(t)
	f.payments.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.dispatcher.AssertExpectations(t)
}

func eventBody(t *testing.T, eventID, eventType string, data map[string]interface{}) []byte {
	t.Helper()
	envelope := map[string]interface{}{"type": eventType, "data": data}
	if eventID != "" {
		envelope["id"] = eventID
	}
	body, err := json.Marshal(envelope)
	require.NoError(t, err)
	return body
}

func TestProcessWebhook_SignatureRejected(t *testing.T) {
	f := newReconciliationFixture(t)
	f.verifier.valid = false

	err := f.service.ProcessWebhook(context.Background(),
		eventBody(t, "evt_1", EventPaymentSucceeded, map[string]interface{}{"id": "tx_1"}), "bad")

	var whErr *domainErrors.WebhookError
	require.ErrorAs(t, err, &whErr)
	assert.Equal(t, domainErrors.ErrTypeSignatureInvalid, whErr.Type)
	f.webhooks.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestProcessWebhook_MalformedBody(t *testing.T) {
	f := newReconciliationFixture(t)

	tests := []struct {
		name string
		body []byte
	}{
		{"not json", []byte("not json at all")},
		{"missing type", []byte(`{"data":{"id":"tx_1"}}`)},
		{"missing data id", []byte(`{"type":"payment.succeeded","data":{}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.service.ProcessWebhook(context.Background(), tt.body, "sig")

			var whErr *domainErrors.WebhookError
			require.ErrorAs(t, err, &whErr)
			assert.Equal(t, domainErrors.ErrTypeMalformedEvent, whErr.Type)
		})
	}
	f.webhooks.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestProcessWebhook_DuplicateDelivery(t *testing.T) {
	f := newReconciliationFixture(t)
	f.webhooks.On("Record", mock.Anything, mock.Anything).
		Return(domainErrors.NewDuplicateEventError(model.ProviderYuno, "evt_1"))

	err := f.service.ProcessWebhook(context.Background(),
		eventBody(t, "evt_1", EventPaymentSucceeded, map[string]interface{}{"id": "tx_1"}), "sig")

	assert.True(t, domainErrors.IsDuplicateEvent(err))
	f.txs.AssertNotCalled(t, "GetByProviderTransactionID", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestProcessWebhook_GeneratesFallbackEventID(t *testing.T) {
	f := newReconciliationFixture(t)

	var recorded *model.WebhookEvent
	f.webhooks.On("Record", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*model.WebhookEvent)
			recorded.ID = 7
		}).Return(nil)
	f.webhooks.On("MarkProcessed", mock.Anything, int64(7)).Return(nil)

	err := f.service.ProcessWebhook(context.Background(),
		eventBody(t, "", "some.future.event", map[string]interface{}{"id": "tx_1"}), "sig")

	require.NoError(t, err)
	require.NotNil(t, recorded)
	assert.True(t, strings.HasPrefix(recorded.ProviderEventID, "evt_"))
	assert.True(t, recorded.SignatureVerified)
	f.assertExpectations(t)
}

func TestProcessWebhook_UnknownEventTypeAcknowledged(t *testing.T) {
	f := newReconciliationFixture(t)
	f.webhooks.On("Record", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*model.WebhookEvent).ID = 3 }).Return(nil)
	f.webhooks.On("MarkProcessed", mock.Anything, int64(3)).Return(nil)

	err := f.service.ProcessWebhook(context.Background(),
		eventBody(t, "evt_9", "payment.authorized", map[string]interface{}{"id": "tx_1"}), "sig")

	require.NoError(t, err)
	f.txs.AssertNotCalled(t, "GetByProviderTransactionID", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestProcessWebhook_PaymentSucceeded(t *testing.T) {
	f := newReconciliationFixture(t)
	orderID := int64(42)
	tx := &model.Transaction{ID: 5, PaymentID: 11, ProviderTransactionID: "tx_1",
		Status: model.TransactionStatusPending}
	payment := &model.Payment{ID: 11, UserID: 1, OrderID: &orderID,
		Amount: decimal.NewFromFloat(99.50), Currency: "USD",
		Status: model.PaymentStatusPending, ConfirmationNumber: "YUN123456ABCD",
		Metadata: model.JSONB{"source": "checkout"}}
	order := &model.Order{ID: orderID, OrderNumber: "ORD123456WXYZ"}

	f.webhooks.On("Record", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*model.WebhookEvent).ID = 9 }).Return(nil)
	f.txs.On("GetByProviderTransactionID", mock.Anything, "tx_1").Return(tx, nil)
	f.payments.On("GetByID", mock.Anything, int64(11)).Return(payment, nil)
	f.txs.On("UpdateFields", mock.Anything, int64(5), mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == model.TransactionStatusCompleted
	})).Return(nil)
	f.payments.On("UpdateFields", mock.Anything, int64(11), mock.MatchedBy(func(u map[string]interface{}) bool {
		metadata, ok := u["metadata"].(model.JSONB)
		return u["status"] == model.PaymentStatusCompleted &&
			ok && metadata["source"] == "checkout" &&
			metadata["last_gateway_event"] == EventPaymentSucceeded
	})).Return(nil)
	f.orders.On("MarkPaid", mock.Anything, orderID, int64(11), f.now).Return(nil)
	f.orders.On("GetByID", mock.Anything, orderID).Return(order, nil)
	f.dispatcher.On("PaymentConfirmed", mock.Anything, order, payment).Return()
	f.dispatcher.On("InventoryUpdate", mock.Anything, order).Return()
	f.webhooks.On("LinkEntities", mock.Anything, int64(9), mock.Anything, mock.Anything).Return(nil)
	f.webhooks.On("MarkProcessed", mock.Anything, int64(9)).Return(nil)

	err := f.service.ProcessWebhook(context.Background(),
		eventBody(t, "evt_1", EventPaymentSucceeded, map[string]interface{}{"id": "tx_1"}), "sig")

	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestProcessWebhook_PaymentFailedLeavesOrderAlone(t *testing.T) {
	f := newReconciliationFixture(t)
	orderID := int64(42)
	tx := &model.Transaction{ID: 5, PaymentID: 11, ProviderTransactionID: "tx_1"}
	payment := &model.Payment{ID: 11, OrderID: &orderID, Status: model.PaymentStatusPending}

	f.webhooks.On("Record", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*model.WebhookEvent).ID = 9 }).Return(nil)
	f.txs.On("GetByProviderTransactionID", mock.Anything, "tx_1").Return(tx, nil)
	f.payments.On("GetByID", mock.Anything, int64(11)).Return(payment, nil)
	f.txs.On("UpdateFields", mock.Anything, int64(5), mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == model.TransactionStatusFailed &&
			u["failure_reason"] == "insufficient funds"
	})).Return(nil)
	f.payments.On("UpdateFields", mock.Anything, int64(11), mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == model.PaymentStatusFailed &&
			u["failure_reason"] == "insufficient funds"
	})).Return(nil)
	f.dispatcher.On("PaymentFailed", mock.Anything, payment, "insufficient funds").Return()
	f.webhooks.On("LinkEntities", mock.Anything, int64(9), mock.Anything, mock.Anything).Return(nil)
	f.webhooks.On("MarkProcessed", mock.Anything, int64(9)).Return(nil)

	err := f.service.ProcessWebhook(context.Background(),
		eventBody(t, "evt_1", EventPaymentFailed,
			map[string]interface{}{"id": "tx_1", "failure_reason": "insufficient funds"}), "sig")

	require.NoError(t, err)
	f.orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestProcessWebhook_UnknownTransactionMarksEventForRetry(t *testing.T) {
	f := newReconciliationFixture(t)

	f.webhooks.On("Record", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*model.WebhookEvent).ID = 9 }).Return(nil)
	f.txs.On("GetByProviderTransactionID", mock.Anything, "tx_unknown").Return(nil, nil)
	f.webhooks.On("MarkFailed", mock.Anything, int64(9), mock.AnythingOfType("string")).Return(nil)

	err := f.service.ProcessWebhook(context.Background(),
		eventBody(t, "evt_1", EventPaymentSucceeded, map[string]interface{}{"id": "tx_unknown"}), "sig")

	var whErr *domainErrors.WebhookError
	require.ErrorAs(t, err, &whErr)
	assert.Equal(t, domainErrors.ErrTypeTransactionNotFound, whErr.Type)
	f.payments.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestProcessWebhook_PaymentRefunded(t *testing.T) {
	f := newReconciliationFixture(t)
	orderID := int64(42)
	gatewayID := "pay_orig"
	original := &model.Payment{ID: 11, UserID: 1, OrderID: &orderID,
		Amount: decimal.NewFromFloat(99.50), Currency: "USD",
		Status: model.PaymentStatusCompleted, Type: model.PaymentTypePurchase,
		GatewayPaymentID: &gatewayID, ConfirmationNumber: "YUN123456ABCD"}

	f.webhooks.On("Record", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*model.WebhookEvent).ID = 9 }).Return(nil)
	f.payments.On("GetByGatewayPaymentID", mock.Anything, "pay_orig").Return(original, nil)
	f.payments.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Payment) bool {
		return p.Type == model.PaymentTypeRefund &&
			p.Status == model.PaymentStatusCompleted &&
			p.UserID == original.UserID &&
			p.Amount.Equal(decimal.NewFromFloat(49.75)) &&
			p.ConfirmationNumber != "" &&
			p.ConfirmationNumber != original.ConfirmationNumber
	})).Run(func(args mock.Arguments) { args.Get(1).(*model.Payment).ID = 20 }).Return(nil)
	f.txs.On("Create", mock.Anything, mock.MatchedBy(func(tx *model.Transaction) bool {
		return tx.PaymentID == 20 &&
			tx.ProviderTransactionID == "tx_refund" &&
			tx.Status == model.TransactionStatusRefunded
	})).Run(func(args mock.Arguments) { args.Get(1).(*model.Transaction).ID = 30 }).Return(nil)
	f.payments.On("UpdateFields", mock.Anything, int64(11), mock.MatchedBy(func(u map[string]interface{}) bool {
		amount, ok := u["refund_amount"].(decimal.Decimal)
		return u["status"] == model.PaymentStatusRefunded &&
			ok && amount.Equal(decimal.NewFromFloat(49.75))
	})).Return(nil)
	f.dispatcher.On("RefundIssued", mock.Anything, original, mock.Anything).Return()
	f.webhooks.On("LinkEntities", mock.Anything, int64(9), mock.Anything, mock.Anything).Return(nil)
	f.webhooks.On("MarkProcessed", mock.Anything, int64(9)).Return(nil)

	err := f.service.ProcessWebhook(context.Background(),
		eventBody(t, "evt_1", EventPaymentRefunded, map[string]interface{}{
			"id":                  "tx_refund",
			"original_payment_id": "pay_orig",
			"amount":              map[string]interface{}{"currency": "USD", "value": 49.75},
		}), "sig")

	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestProcessWebhook_DisputeFlagsPaymentOnly(t *testing.T) {
	orderID := int64(42)
	payment := &model.Payment{ID: 11, OrderID: &orderID,
		Status: model.PaymentStatusCompleted, Metadata: model.JSONB{}}

	for _, eventType := range []string{EventPaymentDisputeCreated, EventPaymentChargeback} {
		t.Run(eventType, func(t *testing.T) {
			f := newReconciliationFixture(t)
			f.webhooks.On("Record", mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) { args.Get(1).(*model.WebhookEvent).ID = 9 }).Return(nil)
			f.payments.On("GetByGatewayPaymentID", mock.Anything, "pay_1").Return(payment, nil)
			f.payments.On("UpdateFields", mock.Anything, int64(11), mock.MatchedBy(func(u map[string]interface{}) bool {
				metadata, ok := u["metadata"].(model.JSONB)
				if u["status"] != model.PaymentStatusDisputed || !ok || metadata["dispute_event"] != eventType {
					return false
				}
				// a chargeback reclassifies the payment, a dispute does not
				if eventType == EventPaymentChargeback {
					return u["type"] == model.PaymentTypeChargeback
				}
				_, hasType := u["type"]
				return !hasType
			})).Return(nil)
			f.dispatcher.On("DisputeOpened", mock.Anything, payment, eventType).Return()
			f.webhooks.On("LinkEntities", mock.Anything, int64(9), mock.Anything, mock.Anything).Return(nil)
			f.webhooks.On("MarkProcessed", mock.Anything, int64(9)).Return(nil)

			err := f.service.ProcessWebhook(context.Background(),
				eventBody(t, "evt_"+eventType, eventType,
					map[string]interface{}{"id": "dp_1", "payment_id": "pay_1"}), "sig")

			require.NoError(t, err)
			f.orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			f.assertExpectations(t)
		})
	}
}

func TestProcessWebhook_InfrastructureFailureMarksFailed(t *testing.T) {
	f := newReconciliationFixture(t)
	dbErr := errors.New("connection reset")

	f.webhooks.On("Record", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*model.WebhookEvent).ID = 9 }).Return(nil)
	f.txs.On("GetByProviderTransactionID", mock.Anything, "tx_1").Return(nil, dbErr)
	f.webhooks.On("MarkFailed", mock.Anything, int64(9), mock.AnythingOfType("string")).Return(nil)

	err := f.service.ProcessWebhook(context.Background(),
		eventBody(t, "evt_1", EventPaymentSucceeded, map[string]interface{}{"id": "tx_1"}), "sig")

	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	f.assertExpectations(t)
}

func TestReplay_ReprocessesStoredEvent(t *testing.T) {
	f := newReconciliationFixture(t)
	tx := &model.Transaction{ID: 5, PaymentID: 11, ProviderTransactionID: "tx_1"}
	payment := &model.Payment{ID: 11, Status: model.PaymentStatusPending}
	event := &model.WebhookEvent{
		ID:              9,
		EventType:       EventPaymentCancelled,
		ProviderEventID: "evt_1",
		Payload: model.JSONB{
			"id":   "evt_1",
			"type": EventPaymentCancelled,
			"data": map[string]interface{}{"id": "tx_1"},
		},
	}

	f.txs.On("GetByProviderTransactionID", mock.Anything, "tx_1").Return(tx, nil)
	f.payments.On("GetByID", mock.Anything, int64(11)).Return(payment, nil)
	f.txs.On("UpdateFields", mock.Anything, int64(5), mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == model.TransactionStatusCancelled
	})).Return(nil)
	f.payments.On("UpdateFields", mock.Anything, int64(11), mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == model.PaymentStatusCancelled
	})).Return(nil)
	f.webhooks.On("LinkEntities", mock.Anything, int64(9), mock.Anything, mock.Anything).Return(nil)
	f.webhooks.On("MarkProcessed", mock.Anything, int64(9)).Return(nil)

	err := f.service.Replay(context.Background(), event)

	require.NoError(t, err)
	f.assertExpectations(t)
}
