package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/amitosh2002/yuno-assignment/internal/domain/errors"
	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
	"github.com/amitosh2002/yuno-assignment/internal/domain/provider"
	"github.com/amitosh2002/yuno-assignment/internal/domain/repository"
)

// CreateCustomerInput carries the fields for customer registration
type CreateCustomerInput struct {
	Name    string
	Email   string
	Country string
	Phone   *provider.Phone
	Address *model.Address
}

// InitiatePaymentInput carries the fields for payment initiation against an
// open checkout session
type InitiatePaymentInput struct {
	UserID            int64
	CheckoutSessionID int64
	// IdempotencyKey deduplicates client retries at the gateway; when the
	// client sends none a fresh one is generated
	IdempotencyKey string
	OneTimeToken   string
	Description    string
}

// CheckoutService drives the customer, checkout-session and payment
// initiation flow against the gateway.
type CheckoutService struct {
	gateway     provider.PaymentGateway
	userRepo    repository.UserRepository
	orderRepo   repository.OrderRepository
	sessionRepo repository.CheckoutSessionRepository
	paymentRepo repository.PaymentRepository
	txRepo      repository.TransactionRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewCheckoutService creates a checkout service
func NewCheckoutService(
	gateway provider.PaymentGateway,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	sessionRepo repository.CheckoutSessionRepository,
	paymentRepo repository.PaymentRepository,
	txRepo repository.TransactionRepository,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		gateway:     gateway,
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		sessionRepo: sessionRepo,
		paymentRepo: paymentRepo,
		txRepo:      txRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateCustomer registers a customer locally and with the gateway. An
// existing user with the same email is reused; when it already carries a
// gateway mapping no second gateway customer is created.
func (s *CheckoutService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if user == nil {
		user = &model.User{
			Name:               input.Name,
			Email:              input.Email,
			MerchantCustomerID: "cust_" + uuid.NewString(),
		}
		if input.Address != nil {
			user.Address = addressToJSONB(input.Address)
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	if user.GatewayCustomerID != nil {
		return user, nil
	}

	first, last := splitName(input.Name)
	resp, err := s.gateway.CreateCustomer(ctx, &provider.CreateCustomerRequest{
		MerchantCustomerID: user.MerchantCustomerID,
		FirstName:          first,
		LastName:           last,
		Email:              user.Email,
		Country:            input.Country,
		Phone:              input.Phone,
		BillingAddress:     addressToPartial(input.Address),
	})
	if err != nil {
		return nil, err
	}

	user.GatewayCustomerID = &resp.CustomerID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store gateway customer id: %w", err)
	}

	s.logger.Info("customer registered with gateway",
		zap.Int64("user_id", user.ID),
		zap.String("gateway_customer_id", resp.CustomerID))
	return user, nil
}

// CreateCheckoutSession opens a gateway checkout session for a pending order
// and persists it with a fifteen-minute expiry.
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, userID, orderID int64, country string) (*model.CheckoutSession, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, domainErrors.NewNotFoundError("user", strconv.FormatInt(userID, 10))
	}
	if user.GatewayCustomerID == nil {
		return nil, fmt.Errorf("user %d has no gateway customer registration", userID)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, domainErrors.NewNotFoundError("order", strconv.FormatInt(orderID, 10))
	}
	if order.Status != model.OrderStatusPending {
		return nil, fmt.Errorf("order %s is %s, only pending orders can start checkout", order.OrderNumber, order.Status)
	}

	resp, err := s.gateway.CreateCheckoutSession(ctx, &provider.CreateCheckoutSessionRequest{
		Country:            country,
		Amount:             provider.Amount{Currency: order.Currency, Value: order.TotalAmount},
		CustomerID:         *user.GatewayCustomerID,
		MerchantOrderID:    strconv.FormatInt(order.ID, 10),
		PaymentDescription: "Order " + order.OrderNumber,
	})
	if err != nil {
		return nil, err
	}

	session := &model.CheckoutSession{
		UserID:           userID,
		OrderID:          orderID,
		GatewaySessionID: resp.CheckoutSession,
		Amount:           order.TotalAmount,
		Currency:         order.Currency,
		Status:           model.CheckoutSessionStatusPending,
		ExpiresAt:        s.now().Add(model.CheckoutSessionTTL),
	}
	if resp.ClientSecret != "" {
		session.GatewayClientSecret = &resp.ClientSecret
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist checkout session: %w", err)
	}

	s.logger.Info("checkout session opened",
		zap.Int64("session_id", session.ID),
		zap.Int64("order_id", orderID),
		zap.String("gateway_session_id", resp.CheckoutSession))
	return session, nil
}

// InitiatePayment creates the payment at the gateway and, only once the
// gateway accepts it, persists the local Payment and Transaction pair. A
// gateway failure leaves no partial records behind; the gateway-side
// idempotency key makes client retries safe.
func (s *CheckoutService) InitiatePayment(ctx context.Context, input *InitiatePaymentInput) (*model.Payment, error) {
	session, err := s.sessionRepo.GetByID(ctx, input.CheckoutSessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up checkout session: %w", err)
	}
	if session == nil || session.UserID != input.UserID {
		return nil, domainErrors.NewNotFoundError("checkout session", strconv.FormatInt(input.CheckoutSessionID, 10))
	}
	if session.Status != model.CheckoutSessionStatusPending {
		return nil, fmt.Errorf("checkout session %d is %s", session.ID, session.Status)
	}

	now := s.now()
	if session.Expired(now) {
		if err := s.sessionRepo.UpdateStatus(ctx, session.ID, model.CheckoutSessionStatusExpired); err != nil {
			s.logger.Error("failed to expire checkout session",
				zap.Int64("session_id", session.ID), zap.Error(err))
		}
		return nil, fmt.Errorf("checkout session %d expired at %s", session.ID, session.ExpiresAt.Format(time.RFC3339))
	}

	order, err := s.orderRepo.GetByID(ctx, session.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	if order == nil {
		return nil, domainErrors.NewNotFoundError("order", strconv.FormatInt(session.OrderID, 10))
	}

	idempotencyKey := input.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	description := input.Description
	if description == "" {
		description = "Payment for order " + order.OrderNumber
	}

	resp, err := s.gateway.CreatePayment(ctx, &provider.CreatePaymentRequest{
		IdempotencyKey:  idempotencyKey,
		MerchantOrderID: strconv.FormatInt(order.ID, 10),
		Description:     description,
		Amount:          provider.Amount{Currency: session.Currency, Value: session.Amount},
		CustomerSession: session.GatewaySessionID,
		OneTimeToken:    input.OneTimeToken,
		Capture:         true,
	})
	if err != nil {
		return nil, err
	}

	internalStatus, ok := provider.MapGatewayStatus(resp.Status)
	if !ok {
		s.logger.Warn("gateway returned unmapped payment status",
			zap.String("status", string(resp.Status)),
			zap.String("gateway_payment_id", resp.PaymentID))
	}

	confirmation, err := newConfirmationNumber(now)
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		UserID:             input.UserID,
		OrderID:            &session.OrderID,
		CheckoutSessionID:  &session.ID,
		Amount:             session.Amount,
		Currency:           session.Currency,
		Status:             model.PaymentStatus(internalStatus),
		Type:               model.PaymentTypePurchase,
		GatewayPaymentID:   &resp.PaymentID,
		ConfirmationNumber: confirmation,
		Description:        description,
		Metadata: model.JSONB{
			"idempotency_key": idempotencyKey,
		},
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to persist payment: %w", err)
	}

	tx := &model.Transaction{
		PaymentID:             payment.ID,
		ProviderName:          s.gateway.GetProviderName(),
		ProviderTransactionID: resp.TransactionID,
		Amount:                session.Amount,
		Currency:              session.Currency,
		Status:                model.TransactionStatus(internalStatus),
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to persist transaction: %w", err)
	}

	if err := s.sessionRepo.UpdateStatus(ctx, session.ID, model.CheckoutSessionStatusCompleted); err != nil {
		s.logger.Error("failed to complete checkout session",
			zap.Int64("session_id", session.ID), zap.Error(err))
	}

	s.logger.Info("payment initiated",
		zap.Int64("payment_id", payment.ID),
		zap.String("gateway_payment_id", resp.PaymentID),
		zap.String("confirmation_number", confirmation),
		zap.String("status", string(internalStatus)))
	return payment, nil
}

// GetPayment returns one payment, scoped to its owner
func (s *CheckoutService) GetPayment(ctx context.Context, userID, paymentID int64) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up payment: %w", err)
	}
	if payment == nil || payment.UserID != userID {
		return nil, domainErrors.NewNotFoundError("payment", strconv.FormatInt(paymentID, 10))
	}
	return payment, nil
}

// ListPayments returns the user's payments newest first
func (s *CheckoutService) ListPayments(ctx context.Context, userID int64, limit, offset int) ([]*model.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	payments, err := s.paymentRepo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func addressToJSONB(addr *model.Address) model.JSONB {
	out := model.JSONB{}
	if addr.Street != "" {
		out["street"] = addr.Street
	}
	if addr.City != "" {
		out["city"] = addr.City
	}
	if addr.State != "" {
		out["state"] = addr.State
	}
	if addr.Zip != "" {
		out["zip"] = addr.Zip
	}
	if addr.Country != "" {
		out["country"] = addr.Country
	}
	return out
}

func addressToPartial(addr *model.Address) *provider.PartialAddress {
	if addr == nil {
		return nil
	}
	return &provider.PartialAddress{
		Street:  addr.Street,
		City:    addr.City,
		State:   addr.State,
		Zip:     addr.Zip,
		Country: addr.Country,
	}
}
