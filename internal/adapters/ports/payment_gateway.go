package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/hyperpay-gateway/internal/domain"
)

// PaymentGateway defines the port for HyperPay transaction operations.
// Every method validates its input before any network call and returns
// either a decoded response or a typed error, never both.
type PaymentGateway interface {
	// CreateCheckout prepares a hosted payment widget session
	CreateCheckout(ctx context.Context, req *domain.CheckoutRequest) (*domain.GatewayResponse, error)

	// ProcessPayment charges a card or a stored registration server-to-server
	ProcessPayment(ctx context.Context, req *domain.PaymentRequest) (*domain.GatewayResponse, error)

	// GetStatus queries the current state of a payment
	GetStatus(ctx context.Context, paymentID string, brand string) (*domain.GatewayResponse, error)

	// Refund returns captured funds; reason is sent as the descriptor when set
	Refund(ctx context.Context, paymentID string, amount decimal.Decimal, brand string, reason string) (*domain.GatewayResponse, error)

	// Capture settles a preauthorization
	Capture(ctx context.Context, paymentID string, amount decimal.Decimal, brand string) (*domain.GatewayResponse, error)

	// Reverse cancels a payment before settlement
	Reverse(ctx context.Context, paymentID string, brand string) (*domain.GatewayResponse, error)
}

// PaymentRecorder persists gateway outcomes. Implementations must treat a
// repeated terminal status for the same transaction id as a no-op.
type PaymentRecorder interface {
	PersistCheckoutOrPayment(ctx context.Context, resp *domain.GatewayResponse) error
	PersistCardRegistration(ctx context.Context, registrationID string, card domain.CardMetadata) error
}

// EventEmitter delivers domain events to the host application.
type EventEmitter interface {
	Emit(ctx context.Context, kind domain.EventKind, payload domain.PaymentEvent) error
}
