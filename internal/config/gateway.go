package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/hyperpay-gateway/internal/domain"
)

const (
	EnvironmentTest = "test"
	EnvironmentLive = "live"

	TestBaseURL = "https://eu-test.oppwa.com"
	LiveBaseURL = "https://oppwa.com"

	DefaultSignatureHeader = "X-Hyperpay-Signature"
	DefaultTimeout         = 30 * time.Second
)

// GatewayParams are the inputs to NewGatewayConfig.
type GatewayParams struct {
	Environment            string
	BaseURL                string
	APIToken               string
	WebhookSigningKey      string
	EntityIDs              map[string]string
	SupportedBrands        []string
	DefaultCurrency        string
	DefaultPaymentType     string
	MinAmount              string
	MaxAmount              string
	Timeout                time.Duration
	VerifyWebhookSignature bool
	WebhookSignatureHeader string
	ShopperResultURL       string
	LoggingEnabled         bool
	RetryAttempts          int
	RequestsPerSecond      float64
	Burst                  int
	BreakerMaxFailures     int
	BreakerTimeout         time.Duration
	BreakerHalfOpen        int
}

// GatewayConfig is the resolved configuration for one environment. It is
// built once at startup and never mutated; maps and slices are copied on
// the way in and on the way out.
type GatewayConfig struct {
	Environment            string
	BaseURL                string
	APIToken               string
	WebhookSigningKey      string
	DefaultCurrency        string
	DefaultPaymentType     domain.PaymentType
	MinAmount              decimal.Decimal
	MaxAmount              decimal.NullDecimal
	Timeout                time.Duration
	VerifyWebhookSignature bool
	WebhookSignatureHeader string
	ShopperResultURL       string
	LoggingEnabled         bool
	RetryAttempts          int
	RequestsPerSecond      float64
	Burst                  int
	BreakerMaxFailures     int
	BreakerTimeout         time.Duration
	BreakerHalfOpen        int

	entityIDs       map[string]string
	supportedBrands []domain.Brand
}

// NewGatewayConfig validates p and builds a GatewayConfig. Any problem is
// reported as domain.ErrConfigInvalid so startup fails instead of the
// first transaction.
func NewGatewayConfig(p GatewayParams) (GatewayConfig, error) {
	env := strings.ToLower(strings.TrimSpace(p.Environment))
	if env != EnvironmentTest && env != EnvironmentLive {
		return GatewayConfig{}, invalid("environment must be test or live, got %q", p.Environment)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(p.BaseURL), "/")
	if baseURL == "" {
		return GatewayConfig{}, invalid("%s base URL is required", env)
	}
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return GatewayConfig{}, invalid("%s base URL %q is not an absolute URL", env, baseURL)
	}
	if strings.TrimSpace(p.APIToken) == "" {
		return GatewayConfig{}, invalid("%s API token is required", env)
	}

	cfg := GatewayConfig{
		Environment:            env,
		BaseURL:                baseURL,
		APIToken:               p.APIToken,
		WebhookSigningKey:      p.WebhookSigningKey,
		DefaultCurrency:        strings.ToUpper(p.DefaultCurrency),
		DefaultPaymentType:     domain.PaymentType(strings.ToUpper(p.DefaultPaymentType)),
		Timeout:                p.Timeout,
		VerifyWebhookSignature: p.VerifyWebhookSignature,
		WebhookSignatureHeader: p.WebhookSignatureHeader,
		ShopperResultURL:       p.ShopperResultURL,
		LoggingEnabled:         p.LoggingEnabled,
		RetryAttempts:          p.RetryAttempts,
		RequestsPerSecond:      p.RequestsPerSecond,
		Burst:                  p.Burst,
		BreakerMaxFailures:     p.BreakerMaxFailures,
		BreakerTimeout:         p.BreakerTimeout,
		BreakerHalfOpen:        p.BreakerHalfOpen,
		entityIDs:              make(map[string]string, len(p.EntityIDs)),
	}

	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "SAR"
	}
	if len(cfg.DefaultCurrency) != 3 {
		return GatewayConfig{}, invalid("currency %q must be a 3-letter ISO code", cfg.DefaultCurrency)
	}
	if cfg.DefaultPaymentType == "" {
		cfg.DefaultPaymentType = domain.PaymentTypeDebit
	}
	if !cfg.DefaultPaymentType.Valid() {
		return GatewayConfig{}, invalid("unknown payment type %q", cfg.DefaultPaymentType)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.WebhookSignatureHeader == "" {
		cfg.WebhookSignatureHeader = DefaultSignatureHeader
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	if cfg.BreakerHalfOpen <= 0 {
		cfg.BreakerHalfOpen = 1
	}

	minAmount := strings.TrimSpace(p.MinAmount)
	if minAmount == "" {
		minAmount = "1"
	}
	minDec, err := decimal.NewFromString(minAmount)
	if err != nil {
		return GatewayConfig{}, invalid("min amount %q is not a number", p.MinAmount)
	}
	cfg.MinAmount = minDec

	if maxAmount := strings.TrimSpace(p.MaxAmount); maxAmount != "" {
		maxDec, err := decimal.NewFromString(maxAmount)
		if err != nil {
			return GatewayConfig{}, invalid("max amount %q is not a number", p.MaxAmount)
		}
		if maxDec.LessThan(minDec) {
			return GatewayConfig{}, invalid("max amount %s is below min amount %s", maxDec, minDec)
		}
		cfg.MaxAmount = decimal.NewNullDecimal(maxDec)
	}

	for k, v := range p.EntityIDs {
		cfg.entityIDs[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}

	brands := p.SupportedBrands
	if len(brands) == 0 {
		for _, b := range domain.DefaultBrands() {
			brands = append(brands, b.String())
		}
	}
	for _, b := range brands {
		if b = strings.TrimSpace(b); b != "" {
			cfg.supportedBrands = append(cfg.supportedBrands, domain.ParseBrand(b))
		}
	}

	return cfg, nil
}

// EntityID returns the entity id configured for brand; "" when missing.
func (c GatewayConfig) EntityID(brand domain.Brand) string {
	return c.entityIDs[brand.EntityKey()]
}

// SupportedBrands returns a copy of the supported brand list.
func (c GatewayConfig) SupportedBrands() []domain.Brand {
	out := make([]domain.Brand, len(c.supportedBrands))
	copy(out, c.supportedBrands)
	return out
}

// IsBrandSupported matches case-insensitively.
func (c GatewayConfig) IsBrandSupported(brand domain.Brand) bool {
	for _, b := range c.supportedBrands {
		if b == brand {
			return true
		}
	}
	return false
}

// Gateway resolves the active environment into a GatewayConfig.
func (c *Config) Gateway() (GatewayConfig, error) {
	active, err := c.Active()
	if err != nil {
		return GatewayConfig{}, invalid("%v", err)
	}

	baseURL := active.URL
	if baseURL == "" {
		baseURL = TestBaseURL
		if strings.EqualFold(c.Environment, EnvironmentLive) {
			baseURL = LiveBaseURL
		}
	}

	return NewGatewayConfig(GatewayParams{
		Environment:            c.Environment,
		BaseURL:                baseURL,
		APIToken:               active.Token,
		WebhookSigningKey:      active.WebhookKey,
		EntityIDs:              active.Entities.EntityMap(),
		SupportedBrands:        c.SupportedBrands,
		DefaultCurrency:        c.Currency,
		DefaultPaymentType:     c.PaymentType,
		MinAmount:              c.MinAmount,
		MaxAmount:              c.MaxAmount,
		Timeout:                time.Duration(c.TimeoutSeconds) * time.Second,
		VerifyWebhookSignature: c.Webhook.VerifySignature,
		WebhookSignatureHeader: c.Webhook.SignatureHeader,
		ShopperResultURL:       c.ResultURL,
		LoggingEnabled:         c.Logging.Enabled,
		RetryAttempts:          c.RetryAttempts,
		RequestsPerSecond:      c.RateLimit.RequestsPerSecond,
		Burst:                  c.RateLimit.Burst,
		BreakerMaxFailures:     c.CircuitBreaker.MaxFailures,
		BreakerTimeout:         time.Duration(c.CircuitBreaker.TimeoutSeconds) * time.Second,
		BreakerHalfOpen:        c.CircuitBreaker.MaxRequestsHalfOpen,
	})
}

func invalid(format string, args ...interface{}) error {
	return domain.WrapError(domain.ErrorCodeConfigInvalid, "invalid gateway configuration", fmt.Errorf(format, args...))
}
