package hyperpay

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/hyperpay-gateway/internal/domain"
)

var errGateway = errors.New("gateway down")

func failN(cb *CircuitBreaker, n int, err error) {
	for i := 0; i < n; i++ {
		_ = cb.Call(func() error { return err })
	}
}

func TestCircuitBreaker_DefaultConfig(t *testing.T) {
	cfg := DefaultCircuitBreakerConfig()

	assert.Equal(t, 5, cfg.MaxFailures)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.MaxRequestsHalfOpen)
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 3, Timeout: time.Minute})

	failN(cb, 2, errGateway)
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 2, cb.Failures())

	failN(cb, 1, errGateway)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Call(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 3})

	failN(cb, 2, errGateway)
	require.NoError(t, cb.Call(func() error { return nil }))
	assert.Equal(t, 0, cb.Failures())

	failN(cb, 2, errGateway)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, Timeout: 10 * time.Second, MaxRequestsHalfOpen: 1})
	cb.now = func() time.Time { return now }

	failN(cb, 1, errGateway)
	require.Equal(t, StateOpen, cb.State())

	now = now.Add(11 * time.Second)

	t.Run("failed probe reopens", func(t *testing.T) {
		err := cb.Call(func() error { return errGateway })
		assert.ErrorIs(t, err, errGateway)
		assert.Equal(t, StateOpen, cb.State())
	})

	now = now.Add(11 * time.Second)

	t.Run("successful probe closes", func(t *testing.T) {
		require.NoError(t, cb.Call(func() error { return nil }))
		assert.Equal(t, StateClosed, cb.State())
	})
}

func TestCircuitBreaker_HalfOpenProbeBudget(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Second, MaxRequestsHalfOpen: 1})
	cb.now = func() time.Time { return now }

	failN(cb, 1, errGateway)
	now = now.Add(2 * time.Second)

	probing := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = cb.Call(func() error {
			close(probing)
			<-release
			return nil
		})
	}()
	<-probing

	assert.ErrorIs(t, cb.Call(func() error { return nil }), ErrTooManyRequests)
	close(release)
}

func TestCircuitBreaker_IsFailureFilter(t *testing.T) {
	var states []CircuitState
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   2,
		IsFailure:     countsAgainstCircuit,
		OnStateChange: func(s CircuitState) { states = append(states, s) },
	})

	clientErr := &domain.CommunicationError{Operation: OpStatus, Reason: domain.ReasonHTTPStatus, StatusCode: http.StatusBadRequest}
	canceled := &domain.CommunicationError{Operation: OpStatus, Reason: domain.ReasonCanceled}
	failN(cb, 5, clientErr)
	failN(cb, 5, canceled)
	failN(cb, 5, errGateway)
	assert.Equal(t, StateClosed, cb.State())
	assert.Empty(t, states)

	serverErr := &domain.CommunicationError{Operation: OpStatus, Reason: domain.ReasonHTTPStatus, StatusCode: http.StatusBadGateway}
	failN(cb, 2, serverErr)
	assert.Equal(t, StateOpen, cb.State())
	assert.Equal(t, []CircuitState{StateOpen}, states)

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, []CircuitState{StateOpen, StateClosed}, states)
}

func TestCircuitState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", CircuitState(9).String())
}
