// Package config loads HyperPay settings from an optional YAML file and
// the environment, and resolves them into an immutable GatewayConfig.
package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration. Environment variables take
// precedence over YAML values.
type Config struct {
	Environment string              `yaml:"environment" env:"HYPERPAY_ENVIRONMENT" env-default:"test" env-description:"test or live"`
	Test        EnvironmentSettings `yaml:"test" env-prefix:"HYPERPAY_TEST_"`
	Live        EnvironmentSettings `yaml:"live" env-prefix:"HYPERPAY_LIVE_"`

	Currency        string   `yaml:"currency" env:"HYPERPAY_CURRENCY" env-default:"SAR"`
	PaymentType     string   `yaml:"payment_type" env:"HYPERPAY_PAYMENT_TYPE" env-default:"DB"`
	SupportedBrands []string `yaml:"supported_brands" env:"HYPERPAY_SUPPORTED_BRANDS" env-separator:"," env-default:"VISA,MASTER,MADA,APPLEPAY,STCPAY"`
	MinAmount       string   `yaml:"min_amount" env:"HYPERPAY_MIN_AMOUNT" env-default:"1"`
	MaxAmount       string   `yaml:"max_amount" env:"HYPERPAY_MAX_AMOUNT" env-description:"empty means no upper bound"`
	TimeoutSeconds  int      `yaml:"timeout" env:"HYPERPAY_TIMEOUT" env-default:"30"`
	RetryAttempts   int      `yaml:"retry_attempts" env:"HYPERPAY_RETRY_ATTEMPTS" env-default:"3"`
	ResultURL       string   `yaml:"result_url" env:"HYPERPAY_RESULT_URL"`

	Webhook        WebhookConfig        `yaml:"webhook"`
	Logging        LoggingConfig        `yaml:"logging"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	Secrets        SecretsConfig        `yaml:"secrets"`
	Server         ServerConfig         `yaml:"server"`
	Database       DatabaseConfig       `yaml:"database"`
}

// EnvironmentSettings are the per-environment credentials and entity ids.
type EnvironmentSettings struct {
	URL        string `yaml:"url" env:"URL"`
	Token      string `yaml:"token" env:"TOKEN"`
	WebhookKey string `yaml:"webhook_key" env:"WEBHOOK_KEY"`
	// Secret manager paths. When set they replace Token / WebhookKey.
	TokenSecret      string         `yaml:"token_secret" env:"TOKEN_SECRET"`
	WebhookKeySecret string         `yaml:"webhook_key_secret" env:"WEBHOOK_KEY_SECRET"`
	Entities         EntitySettings `yaml:"entities"`
}

// EntitySettings maps brands to HyperPay entity ids.
type EntitySettings struct {
	Visa     string            `yaml:"visa" env:"VISA_ENTITY_ID"`
	Master   string            `yaml:"master" env:"MASTER_ENTITY_ID"`
	Mada     string            `yaml:"mada" env:"MADA_ENTITY_ID"`
	ApplePay string            `yaml:"applepay" env:"APPLEPAY_ENTITY_ID"`
	STCPay   string            `yaml:"stcpay" env:"STCPAY_ENTITY_ID"`
	Other    map[string]string `yaml:"other"`
}

// WebhookConfig holds inbound notification settings
type WebhookConfig struct {
	VerifySignature bool   `yaml:"verify_signature" env:"HYPERPAY_WEBHOOK_VERIFY_SIGNATURE" env-default:"true"`
	SignatureHeader string `yaml:"signature_header" env:"HYPERPAY_WEBHOOK_SIGNATURE_HEADER" env-default:"X-Hyperpay-Signature"`
	Path            string `yaml:"path" env:"HYPERPAY_WEBHOOK_PATH" env-default:"/hyperpay/webhook"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Enabled     bool   `yaml:"enabled" env:"HYPERPAY_LOGGING_ENABLED" env-default:"true"`
	Level       string `yaml:"level" env:"HYPERPAY_LOG_LEVEL" env-default:"info"`
	Development bool   `yaml:"development" env:"HYPERPAY_LOG_DEVELOPMENT" env-default:"false"`
}

// RateLimitConfig bounds outbound calls. Zero RequestsPerSecond disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"HYPERPAY_RATE_LIMIT_RPS" env-default:"0"`
	Burst             int     `yaml:"burst" env:"HYPERPAY_RATE_LIMIT_BURST" env-default:"1"`
}

// CircuitBreakerConfig configures the outbound breaker. Zero MaxFailures disables it.
type CircuitBreakerConfig struct {
	MaxFailures         int `yaml:"max_failures" env:"HYPERPAY_CB_MAX_FAILURES" env-default:"5"`
	TimeoutSeconds      int `yaml:"timeout_seconds" env:"HYPERPAY_CB_TIMEOUT" env-default:"30"`
	MaxRequestsHalfOpen int `yaml:"max_requests_half_open" env:"HYPERPAY_CB_HALF_OPEN_REQUESTS" env-default:"1"`
}

// SecretsConfig selects the secret manager backend: "", "aws", "vault" or "local".
type SecretsConfig struct {
	Backend         string `yaml:"backend" env:"HYPERPAY_SECRETS_BACKEND"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds" env:"HYPERPAY_SECRETS_CACHE_TTL" env-default:"300"`
	AWSRegion       string `yaml:"aws_region" env:"AWS_REGION" env-default:"us-east-1"`
	AWSEndpoint     string `yaml:"aws_endpoint" env:"HYPERPAY_SECRETS_AWS_ENDPOINT"`
	VaultAddress    string `yaml:"vault_address" env:"VAULT_ADDR"`
	VaultToken      string `yaml:"vault_token" env:"VAULT_TOKEN"`
	VaultNamespace  string `yaml:"vault_namespace" env:"VAULT_NAMESPACE"`
	VaultMountPath  string `yaml:"vault_mount_path" env:"HYPERPAY_SECRETS_VAULT_MOUNT" env-default:"secret"`
	LocalBasePath   string `yaml:"local_base_path" env:"HYPERPAY_SECRETS_LOCAL_PATH" env-default:"./secrets"`
}

// ServerConfig holds the webhook receiver configuration
type ServerConfig struct {
	Addr        string `yaml:"addr" env:"HYPERPAY_SERVER_ADDR" env-default:":8080"`
	MetricsPath string `yaml:"metrics_path" env:"HYPERPAY_METRICS_PATH" env-default:"/metrics"`
	// Per client IP limit on the webhook route. Zero disables it.
	WebhookRPS   float64 `yaml:"webhook_rps" env:"HYPERPAY_WEBHOOK_RATE_LIMIT_RPS" env-default:"0"`
	WebhookBurst int     `yaml:"webhook_burst" env:"HYPERPAY_WEBHOOK_RATE_LIMIT_BURST" env-default:"20"`
}

// DatabaseConfig holds PostgreSQL configuration. An empty URL disables
// persistence.
type DatabaseConfig struct {
	URL      string `yaml:"url" env:"HYPERPAY_DATABASE_URL"`
	MaxConns int32  `yaml:"max_conns" env:"HYPERPAY_DATABASE_MAX_CONNS" env-default:"10"`
}

// Load reads configuration from path, or from the environment alone when
// path is empty.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("load config: %w; %s", err, desc)
	}
	return cfg, nil
}

// Active returns the settings of the selected environment.
func (c *Config) Active() (*EnvironmentSettings, error) {
	switch strings.ToLower(c.Environment) {
	case EnvironmentTest:
		return &c.Test, nil
	case EnvironmentLive:
		return &c.Live, nil
	}
	return nil, fmt.Errorf("unknown environment %q", c.Environment)
}

// EntityMap flattens entity settings into a lowercase brand keyed map.
func (e EntitySettings) EntityMap() map[string]string {
	out := map[string]string{
		"visa":     e.Visa,
		"master":   e.Master,
		"mada":     e.Mada,
		"applepay": e.ApplePay,
		"stcpay":   e.STCPay,
	}
	for k, v := range e.Other {
		out[strings.ToLower(k)] = v
	}
	return out
}
