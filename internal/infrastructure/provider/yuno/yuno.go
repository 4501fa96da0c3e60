package yuno

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/amitosh2002/yuno-assignment/internal/domain/provider"
	"go.uber.org/zap"
)

const (
	defaultAPIBaseURL = "https://api-sandbox.y.uno/v1"

	// Customer and session calls finish fast; payment creation may wait on
	// the acquirer and gets the longer budget.
	defaultTimeout = 30 * time.Second
	paymentTimeout = 45 * time.Second

	headerPublicAPIKey   = "public-api-key"
	headerPrivateKey     = "private-secret-key"
	headerIdempotencyKey = "X-Idempotency-Key"
)

// YunoProvider talks to the Yuno REST API over HTTPS
type YunoProvider struct {
	baseURL       string
	publicAPIKey  string
	privateKey    string
	webhookSecret string
	accountID     string
	client        *http.Client
	paymentClient *http.Client
	logger        *zap.Logger
}

// Option customizes a YunoProvider
type Option func(*YunoProvider)

// WithBaseURL overrides the API base URL (used by tests and sandbox/prod switching)
func WithBaseURL(url string) Option {
	return func(p *YunoProvider) {
		p.baseURL = url
	}
}

// NewYunoProvider creates a new Yuno gateway client
func NewYunoProvider(publicAPIKey, privateKey, webhookSecret, accountID string, logger *zap.Logger, opts ...Option) *YunoProvider {
	p := &YunoProvider{
		baseURL:       defaultAPIBaseURL,
		publicAPIKey:  publicAPIKey,
		privateKey:    privateKey,
		webhookSecret: webhookSecret,
		accountID:     accountID,
		client:        &http.Client{Timeout: defaultTimeout},
		paymentClient: &http.Client{Timeout: paymentTimeout},
		logger:        logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetProviderName returns the provider name
func (p *YunoProvider) GetProviderName() string {
	return "yuno"
}

// CreateCustomer registers a customer profile with Yuno
// POST /v1/customers
func (p *YunoProvider) CreateCustomer(ctx context.Context, req *provider.CreateCustomerRequest) (*provider.CreateCustomerResponse, error) {
	body := map[string]interface{}{
		"merchant_customer_id": req.MerchantCustomerID,
		"first_name":           req.FirstName,
		"last_name":            req.LastName,
		"email":                req.Email,
		"country":              req.Country,
	}
	if req.Document != nil {
		body["document"] = map[string]string{
			"document_type":   req.Document.DocumentType,
			"document_number": req.Document.DocumentNumber,
		}
	}
	if req.Phone != nil {
		body["phone"] = map[string]string{
			"country_code": req.Phone.CountryCode,
			"number":       req.Phone.Number,
		}
	}
	if addr := addressPayload(req.BillingAddress); addr != nil {
		body["billing_address"] = addr
	}
	if addr := addressPayload(req.ShippingAddress); addr != nil {
		body["shipping_address"] = addr
	}

	respBody, err := p.post(ctx, p.client, "/customers", body, nil)
	if err != nil {
		return nil, err
	}

	var result provider.CreateCustomerResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse response",
			Details: err.Error(),
		}
	}

	if result.CustomerID == "" {
		return nil, &provider.ProviderError{
			Code:    "INVALID_RESPONSE",
			Message: "Yuno response missing customer id",
		}
	}

	p.logger.Info("YunoProvider: Customer created",
		zap.String("customer_id", result.CustomerID),
		zap.String("merchant_customer_id", req.MerchantCustomerID))

	return &result, nil
}

// CreateCheckoutSession opens a checkout session binding an order, customer
// and amount
// POST /v1/checkout/sessions
func (p *YunoProvider) CreateCheckoutSession(ctx context.Context, req *provider.CreateCheckoutSessionRequest) (*provider.CreateCheckoutSessionResponse, error) {
	customer := map[string]interface{}{
		"first_name": req.CustomerFirstName,
		"last_name":  req.CustomerLastName,
		"email":      req.CustomerEmail,
	}
	if addr := addressPayload(req.BillingAddress); addr != nil {
		customer["billing_address"] = addr
	}
	if addr := addressPayload(req.ShippingAddress); addr != nil {
		customer["shipping_address"] = addr
	}

	body := map[string]interface{}{
		"country":             req.Country,
		"amount":              map[string]interface{}{"currency": req.Amount.Currency, "value": req.Amount.Value},
		"customer_id":         req.CustomerID,
		"customer":            customer,
		"merchant_order_id":   req.MerchantOrderID,
		"payment_description": req.PaymentDescription,
		"account_id":          p.accountID,
		"workflow":            "CHECKOUT",
	}

	respBody, err := p.post(ctx, p.client, "/checkout/sessions", body, nil)
	if err != nil {
		return nil, err
	}

	var result provider.CreateCheckoutSessionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse response",
			Details: err.Error(),
		}
	}

	if result.CheckoutSession == "" {
		return nil, &provider.ProviderError{
			Code:    "INVALID_RESPONSE",
			Message: "Yuno response missing checkout_session",
		}
	}

	p.logger.Info("YunoProvider: Checkout session created",
		zap.String("checkout_session", result.CheckoutSession),
		zap.String("merchant_order_id", req.MerchantOrderID))

	return &result, nil
}

// CreatePayment initiates a payment. The caller-controlled idempotency key is
// sent as a header so the gateway deduplicates retried calls instead of
// charging twice.
// POST /v1/payments
func (p *YunoProvider) CreatePayment(ctx context.Context, req *provider.CreatePaymentRequest) (*provider.CreatePaymentResponse, error) {
	body := map[string]interface{}{
		"account_id":        p.accountID,
		"description":       req.Description,
		"merchant_order_id": req.MerchantOrderID,
		"amount":            map[string]interface{}{"currency": req.Amount.Currency, "value": req.Amount.Value},
		"customer_session":  req.CustomerSession,
		"payment_method": map[string]interface{}{
			"detail": map[string]interface{}{"type": "CARD", "capture": req.Capture},
		},
	}
	if req.OneTimeToken != "" {
		body["one_time_token"] = req.OneTimeToken
	}

	headers := map[string]string{headerIdempotencyKey: req.IdempotencyKey}

	respBody, err := p.post(ctx, p.paymentClient, "/payments", body, headers)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse response",
			Details: err.Error(),
		}
	}

	var result provider.CreatePaymentResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse response",
			Details: err.Error(),
		}
	}

	if result.PaymentID == "" {
		return nil, &provider.ProviderError{
			Code:    "INVALID_RESPONSE",
			Message: "Yuno response missing payment id",
		}
	}

	// Some gateway responses carry the transaction id nested rather than at
	// the top level; fall back to the payment id, which Yuno reuses as the
	// transaction reference in webhook deliveries.
	if result.TransactionID == "" {
		result.TransactionID = getStringFromMap(raw, "transaction_id")
	}
	if result.TransactionID == "" {
		result.TransactionID = result.PaymentID
	}

	p.logger.Info("YunoProvider: Payment created",
		zap.String("payment_id", result.PaymentID),
		zap.String("transaction_id", result.TransactionID),
		zap.String("status", string(result.Status)),
		zap.String("idempotency_key", req.IdempotencyKey))

	return &result, nil
}

// post issues a JSON POST with the static API-key headers and translates
// failures into ProviderError values.
func (p *YunoProvider) post(ctx context.Context, client *http.Client, path string, body map[string]interface{}, extraHeaders map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "MARSHAL_ERROR",
			Message: "Failed to prepare request",
			Details: err.Error(),
		}
	}

	url := fmt.Sprintf("%s%s", p.baseURL, path)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "REQUEST_ERROR",
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}

	httpReq.Header.Set("accept", "application/json")
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set(headerPublicAPIKey, p.publicAPIKey)
	httpReq.Header.Set(headerPrivateKey, p.privateKey)
	for k, v := range extraHeaders {
		if v != "" {
			httpReq.Header.Set(k, v)
		}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		p.logger.Error("YunoProvider: API request failed",
			zap.String("path", path),
			zap.Error(err))
		return nil, &provider.ProviderError{
			Code:        "API_ERROR",
			Message:     "Yuno API request failed",
			Details:     err.Error(),
			Unreachable: true,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "RESPONSE_ERROR",
			Message: "Failed to read response",
			Details: err.Error(),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp map[string]interface{}
		json.Unmarshal(respBody, &errResp)

		p.logger.Error("YunoProvider: API request rejected",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(respBody)))

		code := getStringFromMap(errResp, "code")
		message := getStringFromMap(errResp, "message")
		if message == "" {
			message = "Yuno API error"
		}

		return nil, &provider.ProviderError{
			Code:       code,
			Message:    message,
			Details:    string(respBody),
			StatusCode: resp.StatusCode,
		}
	}

	return respBody, nil
}

// addressPayload builds the validated partial-address subset for gateway
// payloads; a nil or empty address is omitted entirely rather than sent with
// null fields.
func addressPayload(addr *provider.PartialAddress) map[string]string {
	if addr == nil {
		return nil
	}

	payload := make(map[string]string)
	if addr.Street != "" {
		payload["street"] = addr.Street
	}
	if addr.City != "" {
		payload["city"] = addr.City
	}
	if addr.State != "" {
		payload["state"] = addr.State
	}
	if addr.Zip != "" {
		payload["zip"] = addr.Zip
	}
	if addr.Country != "" {
		payload["country"] = addr.Country
	}

	if len(payload) == 0 {
		return nil
	}
	return payload
}

func getStringFromMap(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
