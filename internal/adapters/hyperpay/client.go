// Package hyperpay is the outbound adapter for the HyperPay (OPPWA) REST
// API. It validates requests locally, sends them form-encoded with a bearer
// token and decodes the JSON answer into a domain.GatewayResponse.
package hyperpay

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kevin07696/hyperpay-gateway/internal/adapters/ports"
	"github.com/kevin07696/hyperpay-gateway/internal/config"
	"github.com/kevin07696/hyperpay-gateway/internal/domain"
	pkghttp "github.com/kevin07696/hyperpay-gateway/pkg/http"
	"github.com/kevin07696/hyperpay-gateway/pkg/observability"
)

// Operation names used for logs and metric labels.
const (
	OpCheckout = "checkout"
	OpPayment  = "payment"
	OpStatus   = "status"
	OpRefund   = "refund"
	OpCapture  = "capture"
	OpReversal = "reversal"
)

// Client implements ports.PaymentGateway. It holds no per-request state and
// is safe for concurrent use.
type Client struct {
	cfg        config.GatewayConfig
	httpClient ports.HTTPClient
	logger     *zap.Logger
	metrics    *observability.Metrics
	limiter    *rate.Limiter
	breaker    *CircuitBreaker
	newTxnID   func() string
}

var _ ports.PaymentGateway = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithMetrics records exchanges on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithRateLimiter replaces the limiter derived from configuration. A nil
// limiter disables rate limiting.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithCircuitBreaker replaces the breaker derived from configuration.
func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

// WithTransactionIDGenerator overrides the default merchantTransactionId
// generator used for direct payments.
func WithTransactionIDGenerator(fn func() string) Option {
	return func(c *Client) { c.newTxnID = fn }
}

// NewClient builds a Client. httpClient and logger may be nil.
func NewClient(cfg config.GatewayConfig, httpClient ports.HTTPClient, logger *zap.Logger, opts ...Option) *Client {
	if httpClient == nil {
		// The context deadline is the real bound; the client timeout only
		// catches requests that somehow escape it.
		httpClient = pkghttp.NewHTTPClient(pkghttp.GatewayClientConfig(), cfg.Timeout+5*time.Second)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}

	c := &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger.Named("hyperpay"),
		newTxnID:   func() string { return "hyperpay_" + uuid.NewString() },
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.breaker == nil {
		c.breaker = NewCircuitBreaker(CircuitBreakerConfig{
			MaxFailures:         cfg.BreakerMaxFailures,
			Timeout:             cfg.BreakerTimeout,
			MaxRequestsHalfOpen: cfg.BreakerHalfOpen,
			IsFailure:           countsAgainstCircuit,
			OnStateChange: func(s CircuitState) {
				c.metrics.SetCircuitState(int(s))
			},
		})
	}

	return c
}

// CircuitState reports the breaker state for health checks.
func (c *Client) CircuitState() string {
	return c.breaker.State().String()
}

// SupportedBrands returns the configured brand list.
func (c *Client) SupportedBrands() []domain.Brand {
	return c.cfg.SupportedBrands()
}

// IsBrandSupported matches brand case-insensitively.
func (c *Client) IsBrandSupported(brand string) bool {
	return c.cfg.IsBrandSupported(domain.ParseBrand(brand))
}

// CreateCheckout prepares a hosted payment widget session.
func (c *Client) CreateCheckout(ctx context.Context, req *domain.CheckoutRequest) (*domain.GatewayResponse, error) {
	if req == nil {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "checkout request is required")
	}
	if err := c.validateAmount(req.Amount); err != nil {
		return nil, err
	}
	brand, err := c.validateBrand(req.Brand)
	if err != nil {
		return nil, err
	}
	entityID, err := c.entityID(brand)
	if err != nil {
		return nil, err
	}

	p := c.baseParams(entityID, req.Amount, req.Currency, req.PaymentType)
	p.set("merchantTransactionId", req.MerchantTransactionID)
	p.customer(req.Customer)
	p.address("billing", req.Billing)
	p.address("shipping", req.Shipping)
	p.merge(req.CustomParameters)
	p.merge(req.RiskParameters)
	p.setBool("createRegistration", req.CreateRegistration)
	p.set("registrationId", req.RegistrationID)

	return c.exchange(ctx, call{operation: OpCheckout, method: "POST", path: "/v1/checkouts", params: p})
}

// ProcessPayment charges a card, or a stored registration when
// RegistrationID is set, server-to-server.
func (c *Client) ProcessPayment(ctx context.Context, req *domain.PaymentRequest) (*domain.GatewayResponse, error) {
	if req == nil {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "payment request is required")
	}
	if err := c.validateAmount(req.Amount); err != nil {
		return nil, err
	}
	brand, err := c.validateBrand(req.Brand)
	if err != nil {
		return nil, err
	}
	if !req.UsesRegistration() {
		if err := validateCard(req.Card); err != nil {
			return nil, err
		}
	}
	entityID, err := c.entityID(brand)
	if err != nil {
		return nil, err
	}

	p := c.baseParams(entityID, req.Amount, req.Currency, req.PaymentType)
	p.set("paymentBrand", brand.String())
	txnID := req.MerchantTransactionID
	if txnID == "" {
		txnID = c.newTxnID()
	}
	p.set("merchantTransactionId", txnID)

	if req.UsesRegistration() {
		p.set("registrationId", req.RegistrationID)
	} else {
		p.card(req.Card)
	}
	p.setBool("createRegistration", req.CreateRegistration)

	if req.ShopperResultURL != "" {
		p.set("shopperResultUrl", req.ShopperResultURL)
	} else {
		p.set("shopperResultUrl", c.cfg.ShopperResultURL)
	}

	p.customer(req.Customer)
	p.address("billing", req.Billing)
	p.address("shipping", req.Shipping)
	p.merge(req.CustomParameters)
	p.merge(req.RiskParameters)
	p.merge(req.ThreeDSecure)

	return c.exchange(ctx, call{operation: OpPayment, method: "POST", path: "/v1/payments", params: p})
}

// GetStatus queries a payment. The brand selects the entity id the payment
// was made under.
func (c *Client) GetStatus(ctx context.Context, paymentID string, brand string) (*domain.GatewayResponse, error) {
	b, err := c.validateBrand(brand)
	if err != nil {
		return nil, err
	}
	entityID, err := c.entityID(b)
	if err != nil {
		return nil, err
	}
	if err := validatePaymentID(paymentID); err != nil {
		return nil, err
	}

	p := params{"entityId": entityID}
	return c.exchange(ctx, call{operation: OpStatus, method: "GET", path: paymentPath(paymentID), params: p, paymentID: paymentID})
}

// Refund returns funds of a captured payment. reason, when set, is sent as
// the descriptor.
func (c *Client) Refund(ctx context.Context, paymentID string, amount decimal.Decimal, brand string, reason string) (*domain.GatewayResponse, error) {
	p, err := c.referencedParams(paymentID, amount, brand, domain.PaymentTypeRefund)
	if err != nil {
		return nil, err
	}
	p.set("descriptor", reason)
	return c.exchange(ctx, call{operation: OpRefund, method: "POST", path: paymentPath(paymentID), params: p, paymentID: paymentID})
}

// Capture settles a preauthorization.
func (c *Client) Capture(ctx context.Context, paymentID string, amount decimal.Decimal, brand string) (*domain.GatewayResponse, error) {
	p, err := c.referencedParams(paymentID, amount, brand, domain.PaymentTypeCapture)
	if err != nil {
		return nil, err
	}
	return c.exchange(ctx, call{operation: OpCapture, method: "POST", path: paymentPath(paymentID), params: p, paymentID: paymentID})
}

// Reverse cancels a payment before settlement. No amount is sent.
func (c *Client) Reverse(ctx context.Context, paymentID string, brand string) (*domain.GatewayResponse, error) {
	b, err := c.validateBrand(brand)
	if err != nil {
		return nil, err
	}
	entityID, err := c.entityID(b)
	if err != nil {
		return nil, err
	}
	if err := validatePaymentID(paymentID); err != nil {
		return nil, err
	}

	p := params{
		"entityId":    entityID,
		"paymentType": string(domain.PaymentTypeReversal),
	}
	return c.exchange(ctx, call{operation: OpReversal, method: "POST", path: paymentPath(paymentID), params: p, paymentID: paymentID})
}

func (c *Client) referencedParams(paymentID string, amount decimal.Decimal, brand string, pt domain.PaymentType) (params, error) {
	if err := c.validateAmount(amount); err != nil {
		return nil, err
	}
	b, err := c.validateBrand(brand)
	if err != nil {
		return nil, err
	}
	entityID, err := c.entityID(b)
	if err != nil {
		return nil, err
	}
	if err := validatePaymentID(paymentID); err != nil {
		return nil, err
	}
	return c.baseParams(entityID, amount, "", pt), nil
}

func (c *Client) baseParams(entityID string, amount decimal.Decimal, currency string, pt domain.PaymentType) params {
	if currency == "" {
		currency = c.cfg.DefaultCurrency
	}
	if pt == "" {
		pt = c.cfg.DefaultPaymentType
	}
	return params{
		"entityId":    entityID,
		"amount":      domain.FormatAmount(amount),
		"currency":    currency,
		"paymentType": string(pt),
	}
}

func paymentPath(paymentID string) string {
	return "/v1/payments/" + url.PathEscape(paymentID)
}
