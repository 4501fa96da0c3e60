package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/amitosh2002/yuno-assignment/internal/domain/model"
	"github.com/amitosh2002/yuno-assignment/internal/domain/provider"
)

type mockWebhookRepository struct {
	mock.Mock
}

func (m *mockWebhookRepository) Record(ctx context.Context, event *model.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockWebhookRepository) GetByProviderEventID(ctx context.Context, provider, providerEventID string) (*model.WebhookEvent, error) {
	args := m.Called(ctx, provider, providerEventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WebhookEvent), args.Error(1)
}

func (m *mockWebhookRepository) MarkProcessed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockWebhookRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockWebhookRepository) LinkEntities(ctx context.Context, id int64, paymentID, transactionID *int64) error {
	args := m.Called(ctx, id, paymentID, transactionID)
	return args.Error(0)
}

func (m *mockWebhookRepository) ListRetryable(ctx context.Context, limit int) ([]*model.WebhookEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.WebhookEvent), args.Error(1)
}

type mockTransactionRepository struct {
	mock.Mock
}

func (m *mockTransactionRepository) Create(ctx context.Context, transaction *model.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *mockTransactionRepository) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *mockTransactionRepository) GetByProviderTransactionID(ctx context.Context, providerTransactionID string) (*model.Transaction, error) {
	args := m.Called(ctx, providerTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *mockTransactionRepository) GetByPaymentID(ctx context.Context, paymentID int64) ([]*model.Transaction, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *mockTransactionRepository) UpdateFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

type mockPaymentRepository struct {
	mock.Mock
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *mockPaymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *mockPaymentRepository) GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*model.Payment, error) {
	args := m.Called(ctx, gatewayPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *mockPaymentRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*model.Payment, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Payment), args.Error(1)
}

func (m *mockPaymentRepository) UpdateFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *mockOrderRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*model.Order, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockOrderRepository) MarkPaid(ctx context.Context, id int64, paymentID int64, paidAt time.Time) error {
	args := m.Called(ctx, id, paymentID, paidAt)
	return args.Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) GetByGatewayCustomerID(ctx context.Context, gatewayCustomerID string) (*model.User, error) {
	args := m.Called(ctx, gatewayCustomerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type mockCheckoutSessionRepository struct {
	mock.Mock
}

func (m *mockCheckoutSessionRepository) Create(ctx context.Context, session *model.CheckoutSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockCheckoutSessionRepository) GetByID(ctx context.Context, id int64) (*model.CheckoutSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutSession), args.Error(1)
}

func (m *mockCheckoutSessionRepository) GetByGatewaySessionID(ctx context.Context, gatewaySessionID string) (*model.CheckoutSession, error) {
	args := m.Called(ctx, gatewaySessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutSession), args.Error(1)
}

func (m *mockCheckoutSessionRepository) UpdateStatus(ctx context.Context, id int64, status model.CheckoutSessionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type mockPaymentGateway struct {
	mock.Mock
}

func (m *mockPaymentGateway) CreateCustomer(ctx context.Context, req *provider.CreateCustomerRequest) (*provider.CreateCustomerResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CreateCustomerResponse), args.Error(1)
}

func (m *mockPaymentGateway) CreateCheckoutSession(ctx context.Context, req *provider.CreateCheckoutSessionRequest) (*provider.CreateCheckoutSessionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CreateCheckoutSessionResponse), args.Error(1)
}

func (m *mockPaymentGateway) CreatePayment(ctx context.Context, req *provider.CreatePaymentRequest) (*provider.CreatePaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CreatePaymentResponse), args.Error(1)
}

func (m *mockPaymentGateway) GetProviderName() string {
	return model.ProviderYuno
}

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) PaymentConfirmed(ctx context.Context, order *model.Order, payment *model.Payment) {
	m.Called(ctx, order, payment)
}

func (m *mockDispatcher) PaymentFailed(ctx context.Context, payment *model.Payment, reason string) {
	m.Called(ctx, payment, reason)
}

func (m *mockDispatcher) RefundIssued(ctx context.Context, original *model.Payment, refund *model.Payment) {
	m.Called(ctx, original, refund)
}

func (m *mockDispatcher) DisputeOpened(ctx context.Context, payment *model.Payment, eventType string) {
	m.Called(ctx, payment, eventType)
}

func (m *mockDispatcher) InventoryUpdate(ctx context.Context, order *model.Order) {
	m.Called(ctx, order)
}

type staticVerifier struct {
	valid bool
}

func (v *staticVerifier) VerifySignature(rawBody []byte, signature string) bool {
	return v.valid
}
