package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kevin07696/hyperpay-gateway/internal/adapters/hyperpay"
	"github.com/kevin07696/hyperpay-gateway/internal/domain"
	"github.com/kevin07696/hyperpay-gateway/pkg/resilience"
)

// MockGateway mocks ports.PaymentGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) response(args mock.Arguments) (*domain.GatewayResponse, error) {
	resp, _ := args.Get(0).(*domain.GatewayResponse)
	return resp, args.Error(1)
}

func (m *MockGateway) CreateCheckout(ctx context.Context, req *domain.CheckoutRequest) (*domain.GatewayResponse, error) {
	return m.response(m.Called(ctx, req))
}

func (m *MockGateway) ProcessPayment(ctx context.Context, req *domain.PaymentRequest) (*domain.GatewayResponse, error) {
	return m.response(m.Called(ctx, req))
}

func (m *MockGateway) GetStatus(ctx context.Context, paymentID string, brand string) (*domain.GatewayResponse, error) {
	return m.response(m.Called(ctx, paymentID, brand))
}

func (m *MockGateway) Refund(ctx context.Context, paymentID string, amount decimal.Decimal, brand string, reason string) (*domain.GatewayResponse, error) {
	return m.response(m.Called(ctx, paymentID, amount, brand, reason))
}

func (m *MockGateway) Capture(ctx context.Context, paymentID string, amount decimal.Decimal, brand string) (*domain.GatewayResponse, error) {
	return m.response(m.Called(ctx, paymentID, amount, brand))
}

func (m *MockGateway) Reverse(ctx context.Context, paymentID string, brand string) (*domain.GatewayResponse, error) {
	return m.response(m.Called(ctx, paymentID, brand))
}

// MockRecorder mocks ports.PaymentRecorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) PersistCheckoutOrPayment(ctx context.Context, resp *domain.GatewayResponse) error {
	return m.Called(ctx, resp).Error(0)
}

func (m *MockRecorder) PersistCardRegistration(ctx context.Context, registrationID string, card domain.CardMetadata) error {
	return m.Called(ctx, registrationID, card).Error(0)
}

// MockEmitter mocks ports.EventEmitter
type MockEmitter struct {
	mock.Mock
}

func (m *MockEmitter) Emit(ctx context.Context, kind domain.EventKind, payload domain.PaymentEvent) error {
	return m.Called(ctx, kind, payload).Error(0)
}

func response(id, code string) *domain.GatewayResponse {
	return &domain.GatewayResponse{ID: &id, ResultCode: code}
}

func TestEventFor(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		code      string
		want      domain.EventKind
	}{
		{"payment success", hyperpay.OpPayment, "000.000.000", domain.EventPaymentSuccessful},
		{"refund success", hyperpay.OpRefund, "000.100.110", domain.EventRefundProcessed},
		{"refund declined", hyperpay.OpRefund, "800.100.151", domain.EventPaymentFailed},
		{"review", hyperpay.OpPayment, "000.400.000", domain.EventPaymentReviewRequired},
		{"pending", hyperpay.OpStatus, "000.200.000", domain.EventPaymentPending},
		{"declined", hyperpay.OpPayment, "800.100.159", domain.EventPaymentFailed},
		{"unknown", hyperpay.OpPayment, "123.456.789", domain.EventPaymentFailed},
		{"chargeback", hyperpay.OpStatus, "000.100.220", domain.EventChargebackReceived},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EventFor(tt.operation, response("P1", tt.code)))
		})
	}
}

func TestService_ProcessPaymentRunsHooks(t *testing.T) {
	gateway := new(MockGateway)
	recorder := new(MockRecorder)
	emitter := new(MockEmitter)

	regID := "reg-1"
	last4 := "1111"
	resp := response("P1", "000.100.110")
	resp.RegistrationID = &regID
	resp.Card = &domain.CardMetadata{LastFour: &last4}

	req := &domain.PaymentRequest{Amount: decimal.NewFromInt(100), Brand: "visa"}
	gateway.On("ProcessPayment", mock.Anything, req).Return(resp, nil)
	recorder.On("PersistCheckoutOrPayment", mock.Anything, resp).Return(nil).Once()
	recorder.On("PersistCardRegistration", mock.Anything, "reg-1", *resp.Card).Return(nil).Once()
	emitter.On("Emit", mock.Anything, domain.EventPaymentSuccessful, mock.MatchedBy(func(e domain.PaymentEvent) bool {
		return e.Operation == hyperpay.OpPayment && e.Response == resp
	})).Return(nil).Once()

	svc := NewService(gateway, nil, WithRecorder(recorder), WithEmitter(emitter))
	got, err := svc.ProcessPayment(context.Background(), req)
	require.NoError(t, err)
	assert.Same(t, resp, got)

	gateway.AssertExpectations(t)
	recorder.AssertExpectations(t)
	emitter.AssertExpectations(t)
}

func TestService_GatewayErrorSkipsHooks(t *testing.T) {
	gateway := new(MockGateway)
	recorder := new(MockRecorder)
	emitter := new(MockEmitter)

	gateway.On("Refund", mock.Anything, "P1", decimal.NewFromInt(5), "mada", "").Return(nil, domain.ErrInvalidAmount)

	svc := NewService(gateway, nil, WithRecorder(recorder), WithEmitter(emitter))
	got, err := svc.Refund(context.Background(), "P1", decimal.NewFromInt(5), "mada", "")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	recorder.AssertNotCalled(t, "PersistCheckoutOrPayment", mock.Anything, mock.Anything)
	emitter.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_HookErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	gateway := new(MockGateway)
	recorder := new(MockRecorder)
	emitter := new(MockEmitter)

	resp := response("P2", "000.000.000")
	gateway.On("Capture", mock.Anything, "P2", decimal.NewFromInt(10), "visa").Return(resp, nil)
	recorder.On("PersistCheckoutOrPayment", mock.Anything, resp).Return(errors.New("db down"))
	emitter.On("Emit", mock.Anything, domain.EventPaymentSuccessful, mock.Anything).Return(errors.New("subscriber failed"))

	svc := NewService(gateway, zap.New(core), WithRecorder(recorder), WithEmitter(emitter))
	got, err := svc.Capture(context.Background(), "P2", decimal.NewFromInt(10), "visa")
	require.NoError(t, err)
	assert.Same(t, resp, got)

	assert.Equal(t, 1, logs.FilterMessage("Failed to persist payment").Len())
	assert.Equal(t, 1, logs.FilterMessage("Failed to emit payment event").Len())
	recorder.AssertNotCalled(t, "PersistCardRegistration", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_DelegatesEveryOperation(t *testing.T) {
	gateway := new(MockGateway)
	resp := response("P3", "000.100.110")
	amount := decimal.NewFromInt(1)
	checkout := &domain.CheckoutRequest{Amount: amount, Brand: "visa"}

	gateway.On("CreateCheckout", mock.Anything, checkout).Return(resp, nil).Once()
	gateway.On("GetStatus", mock.Anything, "P3", "visa").Return(resp, nil).Once()
	gateway.On("Reverse", mock.Anything, "P3", "visa").Return(resp, nil).Once()

	svc := NewService(gateway, nil)
	ctx := context.Background()

	_, err := svc.CreateCheckout(ctx, checkout)
	require.NoError(t, err)
	_, err = svc.GetStatus(ctx, "P3", "visa")
	require.NoError(t, err)
	_, err = svc.Reverse(ctx, "P3", "visa")
	require.NoError(t, err)

	gateway.AssertExpectations(t)
}

// recordSleeps replaces the service sleep and records requested delays.
func recordSleeps(svc *Service) *[]time.Duration {
	var delays []time.Duration
	svc.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return ctx.Err()
	}
	return &delays
}

func TestPollStatus_UntilTerminal(t *testing.T) {
	gateway := new(MockGateway)
	emitter := new(MockEmitter)

	final := response("P4", "000.000.000")
	gateway.On("GetStatus", mock.Anything, "P4", "visa").Return(response("P4", "000.200.000"), nil).Twice()
	gateway.On("GetStatus", mock.Anything, "P4", "visa").Return(final, nil).Once()
	emitter.On("Emit", mock.Anything, domain.EventPaymentSuccessful, mock.Anything).Return(nil).Once()

	svc := NewService(gateway, nil, WithEmitter(emitter), WithBackoff(&resilience.FixedBackoff{Delay: time.Second}))
	delays := recordSleeps(svc)

	got, err := svc.PollStatus(context.Background(), "P4", "visa", 5)
	require.NoError(t, err)
	assert.Same(t, final, got)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, *delays)

	gateway.AssertNumberOfCalls(t, "GetStatus", 3)
	emitter.AssertExpectations(t)
}

func TestPollStatus_StillPendingAfterLastAttempt(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("GetStatus", mock.Anything, "P5", "visa").Return(response("P5", "000.200.100"), nil)

	svc := NewService(gateway, nil)
	recordSleeps(svc)

	got, err := svc.PollStatus(context.Background(), "P5", "visa", 3)
	require.NoError(t, err)
	assert.True(t, got.IsPending())
	gateway.AssertNumberOfCalls(t, "GetStatus", 3)
}

func TestPollStatus_RetriesTransientErrors(t *testing.T) {
	transient := &domain.CommunicationError{Operation: hyperpay.OpStatus, Reason: domain.ReasonTimeout}

	t.Run("recovers", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("GetStatus", mock.Anything, "P6", "visa").Return(nil, transient).Once()
		gateway.On("GetStatus", mock.Anything, "P6", "visa").Return(response("P6", "800.100.151"), nil).Once()

		svc := NewService(gateway, nil)
		recordSleeps(svc)

		got, err := svc.PollStatus(context.Background(), "P6", "visa", 3)
		require.NoError(t, err)
		assert.True(t, got.IsRejected())
	})

	t.Run("exhausted", func(t *testing.T) {
		gateway := new(MockGateway)
		gateway.On("GetStatus", mock.Anything, "P6", "visa").Return(nil, transient)

		svc := NewService(gateway, nil)
		recordSleeps(svc)

		_, err := svc.PollStatus(context.Background(), "P6", "visa", 2)
		assert.ErrorIs(t, err, domain.ErrGatewayCommunication)
		gateway.AssertNumberOfCalls(t, "GetStatus", 2)
	})
}

func TestPollStatus_StopsOnPermanentError(t *testing.T) {
	gateway := new(MockGateway)
	notFound := &domain.CommunicationError{Operation: hyperpay.OpStatus, Reason: domain.ReasonHTTPStatus, StatusCode: 404}
	gateway.On("GetStatus", mock.Anything, "P7", "visa").Return(nil, notFound).Once()

	svc := NewService(gateway, nil)
	recordSleeps(svc)

	_, err := svc.PollStatus(context.Background(), "P7", "visa", 5)
	assert.Same(t, notFound, err)
	gateway.AssertNumberOfCalls(t, "GetStatus", 1)
}

func TestPollStatus_Canceled(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("GetStatus", mock.Anything, "P8", "visa").Return(response("P8", "000.200.000"), nil).Once()

	svc := NewService(gateway, nil, WithBackoff(&resilience.FixedBackoff{Delay: time.Hour}))
	ctx, cancel := context.WithCancel(context.Background())
	svc.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	_, err := svc.PollStatus(ctx, "P8", "visa", 5)
	ce, ok := domain.AsCommunicationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonCanceled, ce.Reason)
	assert.ErrorIs(t, err, context.Canceled)
}
