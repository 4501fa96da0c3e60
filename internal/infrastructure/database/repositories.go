package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/amitosh2002/yuno-assignment/internal/adapter/repository"
	domainRepo "github.com/amitosh2002/yuno-assignment/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	User            domainRepo.UserRepository
	Order           domainRepo.OrderRepository
	CheckoutSession domainRepo.CheckoutSessionRepository
	Payment         domainRepo.PaymentRepository
	Transaction     domainRepo.TransactionRepository
	Webhook         domainRepo.WebhookRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		User:            repository.NewUserRepository(db, logger),
		Order:           repository.NewOrderRepository(db, logger),
		CheckoutSession: repository.NewCheckoutSessionRepository(db, logger),
		Payment:         repository.NewPaymentRepository(db, logger),
		Transaction:     repository.NewTransactionRepository(db, logger),
		Webhook:         repository.NewWebhookRepository(db, logger),
	}
}
