// Package webhook authenticates and normalizes asynchronous HyperPay
// notifications.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/hyperpay-gateway/internal/adapters/hyperpay"
	"github.com/kevin07696/hyperpay-gateway/internal/adapters/ports"
	"github.com/kevin07696/hyperpay-gateway/internal/config"
	"github.com/kevin07696/hyperpay-gateway/internal/domain"
	"github.com/kevin07696/hyperpay-gateway/internal/resultcode"
	"github.com/kevin07696/hyperpay-gateway/pkg/observability"
)

// Delivery outcomes reported to metrics.
const (
	OutcomeProcessed          = "processed"
	OutcomeVerificationFailed = "verification_failed"
	OutcomeMalformed          = "malformed"
	OutcomeHookFailed         = "hook_failed"
)

// Processor verifies and normalizes webhook deliveries. It is safe for
// concurrent use; it holds no mutable state.
type Processor struct {
	verify     bool
	signingKey []byte
	header     string
	logPayload bool

	recorder ports.PaymentRecorder
	emitter  ports.EventEmitter
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithRecorder persists every normalized event.
func WithRecorder(r ports.PaymentRecorder) Option {
	return func(p *Processor) { p.recorder = r }
}

// WithEmitter emits payment.status_changed for every normalized event.
func WithEmitter(e ports.EventEmitter) Option {
	return func(p *Processor) { p.emitter = e }
}

// WithMetrics records delivery outcomes.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// NewProcessor builds a processor for one environment. It refuses to
// build when verification is on and no signing key is configured.
func NewProcessor(cfg config.GatewayConfig, logger *zap.Logger, opts ...Option) (*Processor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("webhook")

	if cfg.VerifyWebhookSignature && strings.TrimSpace(cfg.WebhookSigningKey) == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeWebhookMisconfigured,
			fmt.Sprintf("webhook signing key not configured for %s environment", cfg.Environment))
	}

	header := cfg.WebhookSignatureHeader
	if header == "" {
		header = config.DefaultSignatureHeader
	}

	p := &Processor{
		verify:     cfg.VerifyWebhookSignature,
		signingKey: []byte(cfg.WebhookSigningKey),
		header:     header,
		logPayload: cfg.LoggingEnabled,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}

	if !p.verify {
		logger.Warn("Webhook signature verification is disabled",
			zap.String("environment", cfg.Environment))
	}
	return p, nil
}

// SignatureHeader is the header the processor reads the signature from.
func (p *Processor) SignatureHeader() string { return p.header }

// Process handles one delivery. Verification runs before anything else;
// a rejected delivery has no side effects. Hook errors are returned so the
// sender retries.
func (p *Processor) Process(ctx context.Context, body []byte, header http.Header) (*domain.WebhookEvent, error) {
	start := time.Now()

	if p.verify {
		if err := p.verifySignature(body, header.Get(p.header)); err != nil {
			p.logger.Warn("HyperPay webhook verification failed",
				zap.Int("body_bytes", len(body)),
				zap.Error(err),
			)
			p.metrics.RecordWebhookDelivery(OutcomeVerificationFailed, time.Since(start))
			return nil, err
		}
	}

	event, payload, err := parse(body, header.Get("Content-Type"))
	if err != nil {
		p.logger.Warn("HyperPay webhook rejected", zap.Error(err))
		p.metrics.RecordWebhookDelivery(OutcomeMalformed, time.Since(start))
		return nil, err
	}

	if p.logPayload {
		p.logger.Info("HyperPay webhook received",
			zap.String("payment_id", event.TransactionID()),
			zap.String("result_code", event.ResultCode),
			zap.String("category", event.Category().String()),
			zap.Any("data", hyperpay.SanitizePayload(payload)),
		)
	}

	if err := p.runHooks(ctx, event); err != nil {
		p.logger.Error("HyperPay webhook processing failed",
			zap.String("payment_id", event.TransactionID()),
			zap.Error(err),
		)
		p.metrics.RecordWebhookDelivery(OutcomeHookFailed, time.Since(start))
		return nil, err
	}

	p.metrics.RecordWebhookDelivery(OutcomeProcessed, time.Since(start))
	return event, nil
}

// Sign returns the hex HMAC-SHA256 of body under key, as HyperPay sends it.
func Sign(body []byte, key string) string {
	h := hmac.New(sha256.New, []byte(key))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func (p *Processor) verifySignature(body []byte, signature string) error {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return domain.NewDomainError(domain.ErrorCodeWebhookVerificationFailed, "signature header missing").
			WithDetail("header", p.header)
	}
	got, err := hex.DecodeString(signature)
	if err != nil {
		return domain.NewDomainError(domain.ErrorCodeWebhookVerificationFailed, "signature is not hex")
	}

	h := hmac.New(sha256.New, p.signingKey)
	h.Write(body)
	if !hmac.Equal(got, h.Sum(nil)) {
		return domain.NewDomainError(domain.ErrorCodeWebhookVerificationFailed, "signature mismatch")
	}
	return nil
}

func (p *Processor) runHooks(ctx context.Context, event *domain.WebhookEvent) error {
	if p.recorder != nil {
		if err := p.recorder.PersistCheckoutOrPayment(ctx, &event.GatewayResponse); err != nil {
			return fmt.Errorf("persist webhook event: %w", err)
		}
	}
	if p.emitter == nil {
		return nil
	}

	payload := domain.PaymentEvent{Webhook: event, Response: &event.GatewayResponse}
	if err := p.emitter.Emit(ctx, domain.EventPaymentStatusChanged, payload); err != nil {
		return fmt.Errorf("emit %s: %w", domain.EventPaymentStatusChanged, err)
	}
	if event.Category() == resultcode.CategoryChargeback {
		if err := p.emitter.Emit(ctx, domain.EventChargebackReceived, payload); err != nil {
			return fmt.Errorf("emit %s: %w", domain.EventChargebackReceived, err)
		}
	}
	return nil
}

// parse accepts a JSON object or a form-encoded body and returns the
// normalized event together with the payload it was built from.
func parse(body []byte, contentType string) (*domain.WebhookEvent, map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil, domain.NewDomainError(domain.ErrorCodeWebhookMalformed, "empty webhook body")
	}

	var (
		payload map[string]interface{}
		raw     []byte
		err     error
	)
	if trimmed[0] == '{' || strings.Contains(contentType, "json") {
		payload, err = domain.DecodeObject(trimmed)
		if err != nil {
			return nil, nil, domain.WrapError(domain.ErrorCodeWebhookMalformed, "webhook body is not a JSON object", err)
		}
		raw = trimmed
	} else {
		values, perr := url.ParseQuery(string(trimmed))
		if perr != nil {
			return nil, nil, domain.WrapError(domain.ErrorCodeWebhookMalformed, "webhook body is neither JSON nor form encoded", perr)
		}
		payload = unflatten(values)
		if raw, err = json.Marshal(payload); err != nil {
			return nil, nil, domain.WrapError(domain.ErrorCodeWebhookMalformed, "webhook form body", err)
		}
	}

	var eventType *string
	if inner, ok := payload["payload"].(map[string]interface{}); ok {
		if t, ok := payload["type"].(string); ok {
			eventType = &t
		}
		payload = inner
		if raw, err = json.Marshal(inner); err != nil {
			return nil, nil, domain.WrapError(domain.ErrorCodeWebhookMalformed, "webhook envelope", err)
		}
	}

	resp := domain.NormalizeGatewayResponse(payload, raw)
	if resp.ResultCode == "" {
		return nil, nil, domain.NewDomainError(domain.ErrorCodeWebhookMalformed, "webhook payload has no result.code")
	}

	event := &domain.WebhookEvent{
		GatewayResponse: *resp,
		Type:            eventType,
		PaymentID:       optionalString(payload["paymentId"]),
		RawPayload:      append([]byte(nil), body...),
	}
	return event, payload, nil
}

// unflatten turns {"result.code": "x"} into {"result": {"code": "x"}}.
// Keys are applied in sorted order; a dotted key under an existing scalar
// is dropped.
func unflatten(values url.Values) map[string]interface{} {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[string]interface{}, len(values))
	for _, key := range keys {
		vs := values[key]
		if len(vs) == 0 {
			continue
		}
		parts := strings.Split(key, ".")
		node := out
		for i, part := range parts {
			if i == len(parts)-1 {
				if _, exists := node[part]; !exists {
					node[part] = vs[0]
				}
				break
			}
			child, ok := node[part].(map[string]interface{})
			if !ok {
				if _, exists := node[part]; exists {
					break
				}
				child = make(map[string]interface{})
				node[part] = child
			}
			node = child
		}
	}
	return out
}

func optionalString(v interface{}) *string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return &t
	case json.Number:
		s := t.String()
		return &s
	}
	return nil
}
