package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domainErrors "github.com/amitosh2002/yuno-assignment/internal/domain/errors"
	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
	"github.com/amitosh2002/yuno-assignment/internal/domain/provider"
	"github.com/amitosh2002/yuno-assignment/internal/domain/repository"
	"github.com/amitosh2002/yuno-assignment/internal/notification"
)

// Webhook event types posted by the gateway
const (
	EventPaymentSucceeded      = "payment.succeeded"
	EventPaymentFailed         = "payment.failed"
	EventPaymentCancelled      = "payment.cancelled"
	EventPaymentRefunded       = "payment.refunded"
	EventPaymentDisputeCreated = "payment.dispute_created"
	EventPaymentChargeback     = "payment.chargeback"
)

// SignatureVerifier checks a raw webhook body against its signature header
type SignatureVerifier interface {
	VerifySignature(rawBody []byte, signature string) bool
}

// ReconciliationService ingests gateway webhook events and converges local
// payment state onto what the gateway reports. The webhook repository's
// unique event insert is the only concurrency gate: of two simultaneous
// deliveries of the same event, exactly one proceeds past Record.
type ReconciliationService struct {
	webhookRepo     repository.WebhookRepository
	transactionRepo repository.TransactionRepository
	paymentRepo     repository.PaymentRepository
	orderRepo       repository.OrderRepository
	verifier        SignatureVerifier
	dispatcher      notification.Dispatcher
	logger          *zap.Logger
	now             func() time.Time
}

// NewReconciliationService creates a reconciliation service
func NewReconciliationService(
	webhookRepo repository.WebhookRepository,
	transactionRepo repository.TransactionRepository,
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	verifier SignatureVerifier,
	dispatcher notification.Dispatcher,
	logger *zap.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		webhookRepo:     webhookRepo,
		transactionRepo: transactionRepo,
		paymentRepo:     paymentRepo,
		orderRepo:       orderRepo,
		verifier:        verifier,
		dispatcher:      dispatcher,
		logger:          logger,
		now:             time.Now,
	}
}

// ProcessWebhook verifies, records and reconciles a single webhook delivery.
// rawBody must be the exact bytes received on the wire; signature
// verification runs before any parsing. The returned error's type decides
// the HTTP outcome: only signature failures warrant a 401, duplicates and
// unmatched transactions are acknowledged so the gateway stops redelivering.
func (s *ReconciliationService) ProcessWebhook(ctx context.Context, rawBody []byte, signature string) error {
	if !s.verifier.VerifySignature(rawBody, signature) {
		s.logger.Warn("webhook signature verification failed",
			zap.String("provider", model.ProviderYuno))
		return domainErrors.NewSignatureInvalidError(model.ProviderYuno)
	}

	var envelope provider.WebhookEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		s.logger.Warn("failed to parse webhook body", zap.Error(err))
		return domainErrors.NewMalformedEventError(model.ProviderYuno, "body is not valid JSON")
	}
	if envelope.Type == "" {
		return domainErrors.NewMalformedEventError(model.ProviderYuno, "missing event type")
	}
	if envelope.Data.ID == "" {
		return domainErrors.NewMalformedEventError(model.ProviderYuno, "missing data.id")
	}

	eventID := envelope.ID
	if eventID == "" {
		eventID = newFallbackEventID(s.now())
		s.logger.Info("webhook envelope carried no event id, generated one",
			zap.String("event_id", eventID), zap.String("event_type", envelope.Type))
	}

	var payload model.JSONB
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return domainErrors.NewMalformedEventError(model.ProviderYuno, "body is not a JSON object")
	}

	event := &model.WebhookEvent{
		Provider:          model.ProviderYuno,
		EventType:         envelope.Type,
		ProviderEventID:   eventID,
		Payload:           payload,
		Status:            model.WebhookStatusReceived,
		MaxRetries:        model.DefaultWebhookMaxRetries,
		Signature:         signature,
		SignatureVerified: true,
	}
	if err := s.webhookRepo.Record(ctx, event); err != nil {
		if domainErrors.IsDuplicateEvent(err) {
			s.logger.Info("duplicate webhook delivery ignored",
				zap.String("event_id", eventID), zap.String("event_type", envelope.Type))
		}
		return err
	}

	return s.reconcile(ctx, event, &envelope)
}

// Replay re-runs reconciliation for an already-recorded event. The retry
// worker uses it for events stuck in retrying after a transient failure or
// an out-of-order delivery.
func (s *ReconciliationService) Replay(ctx context.Context, event *model.WebhookEvent) error {
	body, err := json.Marshal(map[string]interface{}(event.Payload))
	if err != nil {
		return fmt.Errorf("failed to re-serialize event payload: %w", err)
	}
	var envelope provider.WebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse stored event payload: %w", err)
	}
	return s.reconcile(ctx, event, &envelope)
}

func (s *ReconciliationService) reconcile(ctx context.Context, event *model.WebhookEvent, envelope *provider.WebhookEnvelope) error {
	paymentID, transactionID, err := s.dispatch(ctx, envelope)
	if err != nil {
		if markErr := s.webhookRepo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
			s.logger.Error("failed to mark webhook event failed",
				zap.Int64("event_id", event.ID), zap.Error(markErr))
		}
		return err
	}

	if paymentID != nil || transactionID != nil {
		if linkErr := s.webhookRepo.LinkEntities(ctx, event.ID, paymentID, transactionID); linkErr != nil {
			s.logger.Error("failed to link webhook event entities",
				zap.Int64("event_id", event.ID), zap.Error(linkErr))
		}
	}
	if markErr := s.webhookRepo.MarkProcessed(ctx, event.ID); markErr != nil {
		s.logger.Error("failed to mark webhook event processed",
			zap.Int64("event_id", event.ID), zap.Error(markErr))
		return fmt.Errorf("failed to finalize webhook event: %w", markErr)
	}
	return nil
}

func (s *ReconciliationService) dispatch(ctx context.Context, envelope *provider.WebhookEnvelope) (*int64, *int64, error) {
	switch envelope.Type {
	case EventPaymentSucceeded:
		return s.handlePaymentSucceeded(ctx, &envelope.Data)
	case EventPaymentFailed:
		return s.handlePaymentFailed(ctx, &envelope.Data)
	case EventPaymentCancelled:
		return s.handlePaymentCancelled(ctx, &envelope.Data)
	case EventPaymentRefunded:
		return s.handlePaymentRefunded(ctx, &envelope.Data)
	case EventPaymentDisputeCreated, EventPaymentChargeback:
		return s.handleDispute(ctx, envelope.Type, &envelope.Data)
	default:
		// unknown event types are acknowledged, the gateway adds types
		// faster than this service learns them
		s.logger.Info("unhandled webhook event type acknowledged",
			zap.String("event_type", envelope.Type))
		return nil, nil, nil
	}
}

func (s *ReconciliationService) handlePaymentSucceeded(ctx context.Context, data *provider.WebhookEventData) (*int64, *int64, error) {
	tx, payment, err := s.lookupByTransaction(ctx, data.ID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	status, _ := provider.MapGatewayStatus(provider.GatewayStatusSucceeded)
	if err := s.updateTransaction(ctx, tx, model.TransactionStatus(status), data, now, nil); err != nil {
		return nil, &tx.ID, err
	}

	metadata := payment.Metadata.Merge(model.JSONB{
		"last_gateway_event":    EventPaymentSucceeded,
		"gateway_transaction":   data.ID,
		"gateway_reconciled_at": now.UTC().Format(time.RFC3339),
	})
	updates := map[string]interface{}{
		"status":       model.PaymentStatus(status),
		"processed_at": now,
		"metadata":     metadata,
	}
	if err := s.paymentRepo.UpdateFields(ctx, payment.ID, updates); err != nil {
		return &payment.ID, &tx.ID, fmt.Errorf("failed to update payment %d: %w", payment.ID, err)
	}

	if payment.OrderID != nil {
		if err := s.orderRepo.MarkPaid(ctx, *payment.OrderID, payment.ID, now); err != nil {
			return &payment.ID, &tx.ID, fmt.Errorf("failed to mark order %d paid: %w", *payment.OrderID, err)
		}
		order, err := s.orderRepo.GetByID(ctx, *payment.OrderID)
		if err == nil && order != nil {
			s.dispatcher.PaymentConfirmed(ctx, order, payment)
			s.dispatcher.InventoryUpdate(ctx, order)
		}
	}

	s.logger.Info("payment reconciled as completed",
		zap.Int64("payment_id", payment.ID),
		zap.String("provider_transaction_id", data.ID))
	return &payment.ID, &tx.ID, nil
}

func (s *ReconciliationService) handlePaymentFailed(ctx context.Context, data *provider.WebhookEventData) (*int64, *int64, error) {
	tx, payment, err := s.lookupByTransaction(ctx, data.ID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	reason := stringField(data.Raw, "failure_reason", "reason", "message")
	if reason == "" {
		reason = "payment failed at the gateway"
	}

	status, _ := provider.MapGatewayStatus(provider.GatewayStatusFailed)
	if err := s.updateTransaction(ctx, tx, model.TransactionStatus(status), data, now, &reason); err != nil {
		return nil, &tx.ID, err
	}

	metadata := payment.Metadata.Merge(model.JSONB{
		"last_gateway_event": EventPaymentFailed,
	})
	updates := map[string]interface{}{
		"status":         model.PaymentStatus(status),
		"failure_reason": reason,
		"processed_at":   now,
		"metadata":       metadata,
	}
	if err := s.paymentRepo.UpdateFields(ctx, payment.ID, updates); err != nil {
		return &payment.ID, &tx.ID, fmt.Errorf("failed to update payment %d: %w", payment.ID, err)
	}

	// the order stays in its current status so the customer can retry
	s.dispatcher.PaymentFailed(ctx, payment, reason)

	s.logger.Info("payment reconciled as failed",
		zap.Int64("payment_id", payment.ID), zap.String("reason", reason))
	return &payment.ID, &tx.ID, nil
}

func (s *ReconciliationService) handlePaymentCancelled(ctx context.Context, data *provider.WebhookEventData) (*int64, *int64, error) {
	tx, payment, err := s.lookupByTransaction(ctx, data.ID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	status, _ := provider.MapGatewayStatus(provider.GatewayStatusCancelled)
	if err := s.updateTransaction(ctx, tx, model.TransactionStatus(status), data, now, nil); err != nil {
		return nil, &tx.ID, err
	}

	metadata := payment.Metadata.Merge(model.JSONB{
		"last_gateway_event": EventPaymentCancelled,
	})
	updates := map[string]interface{}{
		"status":       model.PaymentStatus(status),
		"processed_at": now,
		"metadata":     metadata,
	}
	if err := s.paymentRepo.UpdateFields(ctx, payment.ID, updates); err != nil {
		return &payment.ID, &tx.ID, fmt.Errorf("failed to update payment %d: %w", payment.ID, err)
	}

	s.logger.Info("payment reconciled as cancelled", zap.Int64("payment_id", payment.ID))
	return &payment.ID, &tx.ID, nil
}

// handlePaymentRefunded records a refund as a new payment and transaction
// pair; the original records keep their monetary history untouched apart
// from the refunded status and refund amount on the original payment.
func (s *ReconciliationService) handlePaymentRefunded(ctx context.Context, data *provider.WebhookEventData) (*int64, *int64, error) {
	original, err := s.lookupOriginalPayment(ctx, data)
	if err != nil {
		return nil, nil, err
	}
	if original == nil {
		s.logger.Warn("refund event matches no known payment, skipping",
			zap.String("provider_transaction_id", data.ID),
			zap.String("original_payment_id", data.OriginalPaymentID))
		return nil, nil, domainErrors.NewTransactionNotFoundError(model.ProviderYuno, data.ID)
	}

	now := s.now()
	amount := amountField(data.Raw, original.Amount)
	confirmation, err := newConfirmationNumber(now)
	if err != nil {
		return &original.ID, nil, err
	}

	gatewayPaymentID := data.PaymentID
	if gatewayPaymentID == "" {
		gatewayPaymentID = data.ID
	}

	refund := &model.Payment{
		UserID:             original.UserID,
		OrderID:            original.OrderID,
		Amount:             amount,
		Currency:           original.Currency,
		Status:             model.PaymentStatusCompleted,
		Type:               model.PaymentTypeRefund,
		GatewayPaymentID:   &gatewayPaymentID,
		ConfirmationNumber: confirmation,
		Description:        "Refund for payment " + original.ConfirmationNumber,
		Metadata: model.JSONB{
			"refund_of_payment_id": original.ID,
			"last_gateway_event":   EventPaymentRefunded,
		},
		ProcessedAt: &now,
	}
	if err := s.paymentRepo.Create(ctx, refund); err != nil {
		return &original.ID, nil, fmt.Errorf("failed to create refund payment: %w", err)
	}

	status, _ := provider.MapGatewayStatus(provider.GatewayStatusRefunded)
	refundTx := &model.Transaction{
		PaymentID:             refund.ID,
		ProviderName:          model.ProviderYuno,
		ProviderTransactionID: data.ID,
		Amount:                amount,
		Currency:              original.Currency,
		Status:                model.TransactionStatus(status),
		ProviderResponse:      model.JSONB(data.Raw),
		ProcessedAt:           &now,
	}
	if err := s.transactionRepo.Create(ctx, refundTx); err != nil {
		return &refund.ID, nil, fmt.Errorf("failed to create refund transaction: %w", err)
	}

	originalUpdates := map[string]interface{}{
		"status":        model.PaymentStatusRefunded,
		"refund_amount": original.RefundAmount.Add(amount),
	}
	if err := s.paymentRepo.UpdateFields(ctx, original.ID, originalUpdates); err != nil {
		return &refund.ID, &refundTx.ID, fmt.Errorf("failed to update original payment %d: %w", original.ID, err)
	}

	s.dispatcher.RefundIssued(ctx, original, refund)

	s.logger.Info("refund reconciled",
		zap.Int64("original_payment_id", original.ID),
		zap.Int64("refund_payment_id", refund.ID),
		zap.String("amount", amount.String()))
	return &refund.ID, &refundTx.ID, nil
}

// handleDispute flags the payment as disputed. The order is deliberately
// left untouched until the dispute resolves.
func (s *ReconciliationService) handleDispute(ctx context.Context, eventType string, data *provider.WebhookEventData) (*int64, *int64, error) {
	payment, txID, err := s.lookupDisputedPayment(ctx, data)
	if err != nil {
		return nil, nil, err
	}
	if payment == nil {
		s.logger.Warn("dispute event matches no known payment, skipping",
			zap.String("event_type", eventType),
			zap.String("provider_transaction_id", data.ID))
		return nil, nil, domainErrors.NewTransactionNotFoundError(model.ProviderYuno, data.ID)
	}

	now := s.now()
	metadata := payment.Metadata.Merge(model.JSONB{
		"dispute_event": eventType,
		"disputed_at":   now.UTC().Format(time.RFC3339),
		"dispute_data":  data.Raw,
	})
	updates := map[string]interface{}{
		"status":   model.PaymentStatusDisputed,
		"metadata": metadata,
	}
	if eventType == EventPaymentChargeback {
		updates["type"] = model.PaymentTypeChargeback
	}
	if err := s.paymentRepo.UpdateFields(ctx, payment.ID, updates); err != nil {
		return &payment.ID, txID, fmt.Errorf("failed to update payment %d: %w", payment.ID, err)
	}

	s.dispatcher.DisputeOpened(ctx, payment, eventType)

	s.logger.Warn("payment flagged as disputed",
		zap.Int64("payment_id", payment.ID), zap.String("event_type", eventType))
	return &payment.ID, txID, nil
}

// lookupByTransaction resolves the transaction the event refers to and its
// payment. A missing transaction means the event raced ahead of the payment
// write or belongs to a foreign account; the caller surfaces it as a
// not-found error the retry worker picks up later.
func (s *ReconciliationService) lookupByTransaction(ctx context.Context, providerTransactionID string) (*model.Transaction, *model.Payment, error) {
	tx, err := s.transactionRepo.GetByProviderTransactionID(ctx, providerTransactionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up transaction: %w", err)
	}
	if tx == nil {
		s.logger.Warn("webhook event matches no known transaction",
			zap.String("provider_transaction_id", providerTransactionID))
		return nil, nil, domainErrors.NewTransactionNotFoundError(model.ProviderYuno, providerTransactionID)
	}

	payment, err := s.paymentRepo.GetByID(ctx, tx.PaymentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up payment %d: %w", tx.PaymentID, err)
	}
	if payment == nil {
		return nil, nil, fmt.Errorf("transaction %d references missing payment %d", tx.ID, tx.PaymentID)
	}
	return tx, payment, nil
}

func (s *ReconciliationService) lookupOriginalPayment(ctx context.Context, data *provider.WebhookEventData) (*model.Payment, error) {
	if data.OriginalPaymentID != "" {
		payment, err := s.paymentRepo.GetByGatewayPaymentID(ctx, data.OriginalPaymentID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up payment by gateway id: %w", err)
		}
		if payment != nil {
			return payment, nil
		}
	}

	tx, err := s.transactionRepo.GetByProviderTransactionID(ctx, data.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up transaction: %w", err)
	}
	if tx == nil {
		return nil, nil
	}
	return s.paymentRepo.GetByID(ctx, tx.PaymentID)
}

func (s *ReconciliationService) lookupDisputedPayment(ctx context.Context, data *provider.WebhookEventData) (*model.Payment, *int64, error) {
	if data.PaymentID != "" {
		payment, err := s.paymentRepo.GetByGatewayPaymentID(ctx, data.PaymentID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to look up payment by gateway id: %w", err)
		}
		if payment != nil {
			return payment, nil, nil
		}
	}

	tx, err := s.transactionRepo.GetByProviderTransactionID(ctx, data.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up transaction: %w", err)
	}
	if tx == nil {
		return nil, nil, nil
	}
	payment, err := s.paymentRepo.GetByID(ctx, tx.PaymentID)
	if err != nil {
		return nil, nil, err
	}
	return payment, &tx.ID, nil
}

func (s *ReconciliationService) updateTransaction(ctx context.Context, tx *model.Transaction, status model.TransactionStatus, data *provider.WebhookEventData, now time.Time, failureReason *string) error {
	updates := map[string]interface{}{
		"status":            status,
		"provider_response": model.JSONB(data.Raw),
		"processed_at":      now,
	}
	if failureReason != nil {
		updates["failure_reason"] = *failureReason
	}
	if err := s.transactionRepo.UpdateFields(ctx, tx.ID, updates); err != nil {
		return fmt.Errorf("failed to update transaction %d: %w", tx.ID, err)
	}
	return nil
}

// stringField returns the first non-empty string value among keys in raw
func stringField(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// amountField extracts a monetary amount from the event payload, falling
// back to def when the payload carries none. The gateway sends either a
// bare number or an {currency, value} object.
func amountField(raw map[string]interface{}, def decimal.Decimal) decimal.Decimal {
	v, ok := raw["amount"]
	if !ok {
		return def
	}
	switch amount := v.(type) {
	case float64:
		return decimal.NewFromFloat(amount)
	case string:
		if d, err := decimal.NewFromString(amount); err == nil {
			return d
		}
	case map[string]interface{}:
		switch value := amount["value"].(type) {
		case float64:
			return decimal.NewFromFloat(value)
		case string:
			if d, err := decimal.NewFromString(value); err == nil {
				return d
			}
		}
	}
	return def
}
