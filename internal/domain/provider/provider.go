package provider

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentGateway defines the outbound operations the service performs against
// the payment gateway's REST API.
type PaymentGateway interface {
	// CreateCustomer registers a customer profile with the gateway
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*CreateCustomerResponse, error)

	// CreateCheckoutSession opens a short-lived checkout context for an order
	CreateCheckoutSession(ctx context.Context, req *CreateCheckoutSessionRequest) (*CreateCheckoutSessionResponse, error)

	// CreatePayment initiates a payment; the idempotency key deduplicates
	// client-side retries of the same logical attempt on the gateway side
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// Amount is a currency-tagged monetary value in the gateway's wire shape
type Amount struct {
	Currency string          `json:"currency"`
	Value    decimal.Decimal `json:"value"`
}

// Document is an identity document attached to a customer, when known
type Document struct {
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
}

// Phone is a customer phone number, when known
type Phone struct {
	CountryCode string `json:"country_code"`
	Number      string `json:"number"`
}

// PartialAddress is the validated subset of an address sent to the gateway.
// Absent fields are omitted from the payload rather than sent as null.
type PartialAddress struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

// CreateCustomerRequest registers a customer with the gateway
type CreateCustomerRequest struct {
	MerchantCustomerID string          `json:"merchant_customer_id"`
	FirstName          string          `json:"first_name"`
	LastName           string          `json:"last_name"`
	Email              string          `json:"email"`
	Country            string          `json:"country"`
	Document           *Document       `json:"document,omitempty"`
	Phone              *Phone          `json:"phone,omitempty"`
	BillingAddress     *PartialAddress `json:"billing_address,omitempty"`
	ShippingAddress    *PartialAddress `json:"shipping_address,omitempty"`
}

// CreateCustomerResponse is the gateway's view of the created customer
type CreateCustomerResponse struct {
	CustomerID         string `json:"id"`
	MerchantCustomerID string `json:"merchant_customer_id"`
}

// CreateCheckoutSessionRequest opens a checkout session for an order
type CreateCheckoutSessionRequest struct {
	Country            string          `json:"country"`
	Amount             Amount          `json:"amount"`
	CustomerID         string          `json:"customer_id"`
	MerchantOrderID    string          `json:"merchant_order_id"`
	PaymentDescription string          `json:"payment_description"`
	CustomerFirstName  string          `json:"-"`
	CustomerLastName   string          `json:"-"`
	CustomerEmail      string          `json:"-"`
	BillingAddress     *PartialAddress `json:"-"`
	ShippingAddress    *PartialAddress `json:"-"`
}

// CreateCheckoutSessionResponse carries the gateway session handle
type CreateCheckoutSessionResponse struct {
	CheckoutSession string `json:"checkout_session"`
	ClientSecret    string `json:"client_secret,omitempty"`
}

// CreatePaymentRequest initiates a payment against a checkout session
type CreatePaymentRequest struct {
	// IdempotencyKey travels as a request header, not in the body
	IdempotencyKey  string `json:"-"`
	MerchantOrderID string `json:"merchant_order_id"`
	Description     string `json:"description"`
	Amount          Amount `json:"amount"`
	CustomerSession string `json:"customer_session"`
	OneTimeToken    string `json:"one_time_token,omitempty"`
	Capture         bool   `json:"-"`
}

// CreatePaymentResponse is the gateway's synchronous answer to payment creation
type CreatePaymentResponse struct {
	PaymentID     string        `json:"id"`
	TransactionID string        `json:"transaction_id"`
	ClientSecret  string        `json:"client_secret,omitempty"`
	Status        GatewayStatus `json:"status"`
	Amount        Amount        `json:"amount"`
	CreatedAt     time.Time     `json:"created_at"`
}

// WebhookEnvelope is the event envelope the gateway posts to /webhook
type WebhookEnvelope struct {
	ID   string           `json:"id,omitempty"`
	Type string           `json:"type"`
	Data WebhookEventData `json:"data"`
}

// WebhookEventData is the nested event payload. Raw retains every field the
// gateway sent so reconciliation can store the full provider response.
type WebhookEventData struct {
	ID                string                 `json:"id"`
	OriginalPaymentID string                 `json:"original_payment_id,omitempty"`
	PaymentID         string                 `json:"payment_id,omitempty"`
	Raw               map[string]interface{} `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the full payload in Raw
func (d *WebhookEventData) UnmarshalJSON(b []byte) error {
	type plain WebhookEventData
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	raw := map[string]interface{}{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = WebhookEventData(p)
	d.Raw = raw
	return nil
}

// ProviderError carries a gateway failure with the gateway's own code and
// message so handlers can surface them verbatim.
type ProviderError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	// Unreachable is set when the gateway could not be reached at all
	// (transport failure rather than a rejected request)
	Unreachable bool `json:"-"`
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}
