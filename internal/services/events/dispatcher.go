// Package events delivers payment domain events to in-process subscribers.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kevin07696/hyperpay-gateway/internal/adapters/ports"
	"github.com/kevin07696/hyperpay-gateway/internal/domain"
)

// Handler reacts to one event.
type Handler func(ctx context.Context, event domain.PaymentEvent) error

// Dispatcher implements ports.EventEmitter. Handlers run synchronously on
// the emitting goroutine in registration order.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[domain.EventKind][]Handler
	all      []Handler
	logger   *zap.Logger
}

var _ ports.EventEmitter = (*Dispatcher)(nil)

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		handlers: make(map[domain.EventKind][]Handler),
		logger:   logger,
	}
}

// Subscribe registers h for kind.
func (d *Dispatcher) Subscribe(kind domain.EventKind, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = append(d.handlers[kind], h)
}

// SubscribeAll registers h for every kind. It runs after kind specific
// handlers.
func (d *Dispatcher) SubscribeAll(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.all = append(d.all, h)
}

// Emit runs every matching handler, even after one fails, and returns the
// joined errors.
func (d *Dispatcher) Emit(ctx context.Context, kind domain.EventKind, payload domain.PaymentEvent) error {
	payload.Kind = kind

	d.mu.RLock()
	handlers := make([]Handler, 0, len(d.handlers[kind])+len(d.all))
	handlers = append(handlers, d.handlers[kind]...)
	handlers = append(handlers, d.all...)
	d.mu.RUnlock()

	var errs []error
	for i, h := range handlers {
		if err := h(ctx, payload); err != nil {
			d.logger.Warn("Event handler failed",
				zap.String("kind", string(kind)),
				zap.Int("handler", i),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s handler %d: %w", kind, i, err))
		}
	}
	return errors.Join(errs...)
}

// LogHandler returns a handler that records each event at Info.
func LogHandler(logger *zap.Logger) Handler {
	return func(_ context.Context, event domain.PaymentEvent) error {
		fields := []zap.Field{zap.String("kind", string(event.Kind))}
		if event.Operation != "" {
			fields = append(fields, zap.String("operation", event.Operation))
		}
		if event.Response != nil {
			fields = append(fields,
				zap.String("payment_id", event.Response.PaymentID()),
				zap.String("result_code", event.Response.ResultCode),
			)
		}
		if event.Webhook != nil {
			fields = append(fields,
				zap.String("payment_id", event.Webhook.TransactionID()),
				zap.String("result_code", event.Webhook.ResultCode),
			)
		}
		logger.Info("HyperPay event", fields...)
		return nil
	}
}
