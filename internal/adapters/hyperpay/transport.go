package hyperpay

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/hyperpay-gateway/internal/domain"
)

// maxResponseBytes bounds how much of a gateway body is read.
const maxResponseBytes = 1 << 20

// maxErrorBodyBytes bounds the body kept on a CommunicationError.
const maxErrorBodyBytes = 4 << 10

type call struct {
	operation string
	method    string
	path      string
	params    params
	paymentID string
}

// exchange performs one request. There are no retries: a payment POST is
// not idempotent and the caller decides what to do on failure.
func (c *Client) exchange(ctx context.Context, cl call) (*domain.GatewayResponse, error) {
	start := time.Now()
	defer c.metrics.TrackInFlight()()

	if err := c.wait(ctx, cl.operation); err != nil {
		c.logFailure(cl, err, start)
		return nil, err
	}

	var body []byte
	err := c.breaker.Call(func() error {
		var sendErr error
		body, sendErr = c.send(ctx, cl)
		return sendErr
	})
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyRequests) {
		err = &domain.CommunicationError{Operation: cl.operation, Reason: domain.ReasonCircuitOpen, Err: err}
	}
	if err != nil {
		c.logFailure(cl, err, start)
		return nil, err
	}

	resp, err := domain.DecodeGatewayResponse(body)
	if err != nil {
		c.metrics.RecordGatewayError(cl.operation, "decode", time.Since(start))
		if c.cfg.LoggingEnabled {
			c.logger.Error("HyperPay API request failed",
				zap.String("operation", cl.operation),
				zap.String("endpoint", cl.path),
				zap.Int("body_length", len(body)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	c.metrics.ObserveGatewayCall(cl.operation, string(resp.Category()), time.Since(start))
	c.logTransaction(cl, resp, time.Since(start))
	return resp, nil
}

func (c *Client) wait(ctx context.Context, operation string) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		reason := domain.ReasonRateLimited
		if errors.Is(ctx.Err(), context.Canceled) {
			reason = domain.ReasonCanceled
		}
		return &domain.CommunicationError{Operation: operation, Reason: reason, Err: err}
	}
	return nil
}

func (c *Client) send(ctx context.Context, cl call) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	endpoint := c.cfg.BaseURL + cl.path
	encoded := cl.params.values().Encode()

	var bodyReader io.Reader
	if cl.method == http.MethodGet {
		endpoint += "?" + encoded
	} else {
		bodyReader = strings.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(reqCtx, cl.method, endpoint, bodyReader)
	if err != nil {
		return nil, &domain.CommunicationError{Operation: cl.operation, Reason: domain.ReasonTransport, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, cl.operation, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransportError(ctx, cl.operation, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		errBody := body
		if len(errBody) > maxErrorBodyBytes {
			errBody = errBody[:maxErrorBodyBytes]
		}
		return nil, &domain.CommunicationError{
			Operation:  cl.operation,
			Reason:     domain.ReasonHTTPStatus,
			StatusCode: httpResp.StatusCode,
			Body:       string(errBody),
		}
	}

	return body, nil
}

// classifyTransportError separates the caller giving up from the gateway
// being slow or unreachable. parent is the caller's context, not the one
// carrying the per-request timeout.
func classifyTransportError(parent context.Context, operation string, err error) error {
	reason := domain.ReasonTransport

	var netErr net.Error
	switch {
	case errors.Is(parent.Err(), context.Canceled):
		reason = domain.ReasonCanceled
	case errors.Is(err, context.DeadlineExceeded):
		reason = domain.ReasonTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		reason = domain.ReasonTimeout
	}

	return &domain.CommunicationError{Operation: operation, Reason: reason, Err: err}
}

// countsAgainstCircuit is true only for failures that suggest the gateway
// is unhealthy.
func countsAgainstCircuit(err error) bool {
	ce, ok := domain.AsCommunicationError(err)
	if !ok {
		return false
	}
	return ce.Reason != domain.ReasonCircuitOpen && ce.Transient()
}

func (c *Client) logTransaction(cl call, resp *domain.GatewayResponse, elapsed time.Duration) {
	if !c.cfg.LoggingEnabled {
		return
	}

	fields := []zap.Field{
		zap.String("environment", c.cfg.Environment),
		zap.String("operation", cl.operation),
		zap.Any("request", SanitizeParams(cl.params)),
		zap.String("result_code", resp.ResultCode),
		zap.String("category", string(resp.Category())),
		zap.Duration("elapsed", elapsed),
	}
	if cl.paymentID != "" {
		fields = append(fields, zap.String("payment_id", cl.paymentID))
	}
	if payload, err := domain.DecodeObject(resp.Raw); err == nil {
		fields = append(fields, zap.Any("response", SanitizePayload(payload)))
	}

	c.logger.Info("HyperPay "+cl.operation+" transaction", fields...)
}

func (c *Client) logFailure(cl call, err error, start time.Time) {
	reason := "unknown"
	if ce, ok := domain.AsCommunicationError(err); ok {
		reason = string(ce.Reason)
	}
	c.metrics.RecordGatewayError(cl.operation, reason, time.Since(start))

	if !c.cfg.LoggingEnabled {
		return
	}
	c.logger.Error("HyperPay API request failed",
		zap.String("environment", c.cfg.Environment),
		zap.String("operation", cl.operation),
		zap.String("method", cl.method),
		zap.String("endpoint", cl.path),
		zap.String("reason", reason),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
}
