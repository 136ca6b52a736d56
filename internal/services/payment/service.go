// Package payment runs gateway operations and hands their results to the
// persistence and event collaborators.
package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kevin07696/hyperpay-gateway/internal/adapters/hyperpay"
	"github.com/kevin07696/hyperpay-gateway/internal/adapters/ports"
	"github.com/kevin07696/hyperpay-gateway/internal/domain"
	"github.com/kevin07696/hyperpay-gateway/internal/resultcode"
	"github.com/kevin07696/hyperpay-gateway/pkg/resilience"
)

// Service wraps a PaymentGateway with collaborator hooks. Hook failures
// are logged and never replace the gateway result.
type Service struct {
	gateway  ports.PaymentGateway
	recorder ports.PaymentRecorder
	emitter  ports.EventEmitter
	backoff  resilience.BackoffStrategy
	logger   *zap.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

var _ ports.PaymentGateway = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithRecorder persists every exchange that returned a result code.
func WithRecorder(r ports.PaymentRecorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithEmitter emits one or more events per exchange.
func WithEmitter(e ports.EventEmitter) Option {
	return func(s *Service) { s.emitter = e }
}

// WithBackoff overrides the delay between status polls.
func WithBackoff(b resilience.BackoffStrategy) Option {
	return func(s *Service) { s.backoff = b }
}

// NewService creates a new payment service
func NewService(gateway ports.PaymentGateway, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		gateway: gateway,
		backoff: resilience.StatusPollBackoff(),
		logger:  logger.Named("payment"),
		sleep:   resilience.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCheckout prepares a hosted checkout.
func (s *Service) CreateCheckout(ctx context.Context, req *domain.CheckoutRequest) (*domain.GatewayResponse, error) {
	resp, err := s.gateway.CreateCheckout(ctx, req)
	return s.after(ctx, hyperpay.OpCheckout, resp, err)
}

// ProcessPayment charges a card or registration.
func (s *Service) ProcessPayment(ctx context.Context, req *domain.PaymentRequest) (*domain.GatewayResponse, error) {
	resp, err := s.gateway.ProcessPayment(ctx, req)
	return s.after(ctx, hyperpay.OpPayment, resp, err)
}

// GetStatus queries a payment once.
func (s *Service) GetStatus(ctx context.Context, paymentID string, brand string) (*domain.GatewayResponse, error) {
	resp, err := s.gateway.GetStatus(ctx, paymentID, brand)
	return s.after(ctx, hyperpay.OpStatus, resp, err)
}

// Refund returns captured funds.
func (s *Service) Refund(ctx context.Context, paymentID string, amount decimal.Decimal, brand string, reason string) (*domain.GatewayResponse, error) {
	resp, err := s.gateway.Refund(ctx, paymentID, amount, brand, reason)
	return s.after(ctx, hyperpay.OpRefund, resp, err)
}

// Capture settles a preauthorization.
func (s *Service) Capture(ctx context.Context, paymentID string, amount decimal.Decimal, brand string) (*domain.GatewayResponse, error) {
	resp, err := s.gateway.Capture(ctx, paymentID, amount, brand)
	return s.after(ctx, hyperpay.OpCapture, resp, err)
}

// Reverse cancels an unsettled payment.
func (s *Service) Reverse(ctx context.Context, paymentID string, brand string) (*domain.GatewayResponse, error) {
	resp, err := s.gateway.Reverse(ctx, paymentID, brand)
	return s.after(ctx, hyperpay.OpReversal, resp, err)
}

// PollStatus re-queries a payment until it leaves pending, maxAttempts
// queries have been made, or ctx is done. Transient communication errors
// are retried; anything else is returned at once. A payment still pending
// after the last attempt is returned without error. Hooks run once, for
// the final response.
func (s *Service) PollStatus(ctx context.Context, paymentID, brand string, maxAttempts int) (*domain.GatewayResponse, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := s.backoff.NextDelay(attempt - 1)
			s.logger.Debug("Waiting before next status poll",
				zap.String("payment_id", paymentID),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			if err := s.sleep(ctx, delay); err != nil {
				return nil, &domain.CommunicationError{
					Operation: hyperpay.OpStatus,
					Reason:    domain.ReasonCanceled,
					Err:       err,
				}
			}
		}

		resp, err := s.gateway.GetStatus(ctx, paymentID, brand)
		if err != nil {
			ce, ok := domain.AsCommunicationError(err)
			if !ok || !ce.Transient() {
				return nil, err
			}
			s.logger.Warn("Status poll failed, retrying",
				zap.String("payment_id", paymentID),
				zap.Int("attempt", attempt+1),
				zap.String("reason", string(ce.Reason)),
			)
			lastErr = err
			continue
		}

		if !resp.IsPending() || attempt == maxAttempts-1 {
			return s.after(ctx, hyperpay.OpStatus, resp, nil)
		}
	}
	return nil, lastErr
}

func (s *Service) after(ctx context.Context, operation string, resp *domain.GatewayResponse, err error) (*domain.GatewayResponse, error) {
	if err != nil {
		return nil, err
	}
	s.persist(ctx, operation, resp)
	s.emit(ctx, operation, resp)
	return resp, nil
}

func (s *Service) persist(ctx context.Context, operation string, resp *domain.GatewayResponse) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.PersistCheckoutOrPayment(ctx, resp); err != nil {
		s.logger.Error("Failed to persist payment",
			zap.String("operation", operation),
			zap.String("payment_id", resp.PaymentID()),
			zap.Error(err),
		)
	}

	registrationID := domain.StringValue(resp.RegistrationID)
	if registrationID == "" {
		return
	}
	var card domain.CardMetadata
	if resp.Card != nil {
		card = *resp.Card
	}
	if err := s.recorder.PersistCardRegistration(ctx, registrationID, card); err != nil {
		s.logger.Error("Failed to persist card registration",
			zap.String("operation", operation),
			zap.String("registration_id", registrationID),
			zap.Error(err),
		)
	}
}

func (s *Service) emit(ctx context.Context, operation string, resp *domain.GatewayResponse) {
	if s.emitter == nil {
		return
	}
	kind := EventFor(operation, resp)
	err := s.emitter.Emit(ctx, kind, domain.PaymentEvent{
		Kind:      kind,
		Operation: operation,
		Response:  resp,
	})
	if err != nil {
		s.logger.Error("Failed to emit payment event",
			zap.String("kind", string(kind)),
			zap.String("payment_id", resp.PaymentID()),
			zap.Error(err),
		)
	}
}

// EventFor picks the event emitted after an exchange. Chargeback codes win
// over the outcome; a successful refund emits refund.processed.
func EventFor(operation string, resp *domain.GatewayResponse) domain.EventKind {
	if resp.Category() == resultcode.CategoryChargeback {
		return domain.EventChargebackReceived
	}
	switch resp.Outcome() {
	case resultcode.OutcomeSuccessful:
		if operation == hyperpay.OpRefund {
			return domain.EventRefundProcessed
		}
		return domain.EventPaymentSuccessful
	case resultcode.OutcomeSuccessfulReviewRequired:
		return domain.EventPaymentReviewRequired
	case resultcode.OutcomePending:
		return domain.EventPaymentPending
	default:
		return domain.EventPaymentFailed
	}
}
