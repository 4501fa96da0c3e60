package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	handlers "github.com/amitosh2002/yuno-assignment/internal/adapter/handler/http"
	"github.com/amitosh2002/yuno-assignment/internal/config"
	"github.com/amitosh2002/yuno-assignment/internal/infrastructure/database"
	"github.com/amitosh2002/yuno-assignment/internal/infrastructure/provider/yuno"
	"github.com/amitosh2002/yuno-assignment/internal/logger"
	"github.com/amitosh2002/yuno-assignment/internal/middleware/auth"
	"github.com/amitosh2002/yuno-assignment/internal/middleware/ratelimit"
	"github.com/amitosh2002/yuno-assignment/internal/notification"
	"github.com/amitosh2002/yuno-assignment/internal/usecase"
)

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	repos  *database.Repositories
	redis  *redis.Client

	reconciliation *usecase.ReconciliationService
}

func NewServer(cfg *config.Config, log *zap.Logger, repos *database.Repositories, redisClient *redis.Client) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	return &Server{
		config: cfg,
		logger: log,
		echo:   e,
		repos:  repos,
		redis:  redisClient,
	}
}

// Reconciliation exposes the reconciliation service for the retry worker.
// It is available after Start has set up the routes.
func (s *Server) Reconciliation() *usecase.ReconciliationService {
	return s.reconciliation
}

// Setup wires providers, services and routes. Separate from Start so the
// caller can grab the reconciliation service before serving.
func (s *Server) Setup() {
	yunoCfg := s.config.Service.Yuno
	var providerOpts []yuno.Option
	if yunoCfg.BaseURL != "" {
		providerOpts = append(providerOpts, yuno.WithBaseURL(yunoCfg.BaseURL))
	}
	gateway := yuno.NewYunoProvider(
		yunoCfg.PublicAPIKey,
		yunoCfg.PrivateSecretKey,
		yunoCfg.WebhookSecret,
		yunoCfg.AccountID,
		s.logger,
		providerOpts...,
	)

	var dispatcher notification.Dispatcher
	if s.redis != nil {
		dispatcher = notification.NewRedisDispatcher(s.redis, s.logger)
	} else {
		dispatcher = notification.NewNoopDispatcher()
	}

	s.reconciliation = usecase.NewReconciliationService(
		s.repos.Webhook,
		s.repos.Transaction,
		s.repos.Payment,
		s.repos.Order,
		gateway,
		dispatcher,
		s.logger,
	)
	checkoutService := usecase.NewCheckoutService(
		gateway,
		s.repos.User,
		s.repos.Order,
		s.repos.CheckoutSession,
		s.repos.Payment,
		s.repos.Transaction,
		s.logger,
	)
	orderService := usecase.NewOrderService(s.repos.Order, s.repos.User, s.logger)

	s.setupRoutes(checkoutService, orderService)
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes(checkoutService *usecase.CheckoutService, orderService *usecase.OrderService) {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(s.logger, s.reconciliation)
	customerHandler := handlers.NewCustomerHandler(s.logger, checkoutService)
	orderHandler := handlers.NewOrderHandler(s.logger, orderService)
	checkoutHandler := handlers.NewCheckoutHandler(s.logger, checkoutService)

	// JWT middleware configuration
	jwtConfig := auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
			"/webhook",
		},
	}

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Protected routes (require JWT authentication)
	protected := v1.Group("", auth.JWTMiddleware(jwtConfig))

	protected.POST("/customers", customerHandler.Create)

	protected.POST("/orders", orderHandler.Create)
	protected.GET("/orders", orderHandler.List)
	protected.GET("/orders/:id", orderHandler.Get)

	protected.POST("/checkout/sessions", checkoutHandler.CreateSession)

	// Payment routes carry the rate limiter on top of authentication
	payments := protected.Group("/payments")
	rlCfg := s.config.Service.RateLimit
	if rlCfg.Enabled && s.redis != nil {
		payments.Use(ratelimit.Middleware(ratelimit.Config{
			Limit:  rlCfg.Limit,
			Window: rlCfg.Window.Std(),
			Store:  ratelimit.NewRedisStore(s.redis),
			Logger: s.logger,
		}))
	}
	payments.POST("", checkoutHandler.InitiatePayment)
	payments.GET("", checkoutHandler.ListPayments)
	payments.GET("/:id", checkoutHandler.GetPayment)

	// Webhook route (outside API versioning, authenticated by signature)
	s.echo.POST("/webhook", webhookHandler.Handle)
}
