package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/kevin07696/hyperpay-gateway/internal/domain"
)

// MaxBodyBytes bounds an inbound notification.
const MaxBodyBytes = 1 << 20

// EventProcessor is satisfied by *webhook.Processor.
type EventProcessor interface {
	Process(ctx context.Context, body []byte, header http.Header) (*domain.WebhookEvent, error)
}

// Handler receives HyperPay notifications over HTTP
type Handler struct {
	processor EventProcessor
	logger    *zap.Logger
}

// NewHandler creates a new webhook handler
func NewHandler(processor EventProcessor, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{processor: processor, logger: logger}
}

// Response is the JSON body returned to HyperPay.
type Response struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	PaymentID string `json:"payment_id,omitempty"`
}

// ServeHTTP handles POST <webhook path>. HyperPay retries anything other
// than a 2xx, so hook failures answer 500.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.respond(w, http.StatusMethodNotAllowed, Response{Status: "error", Message: "only POST method is allowed"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respond(w, http.StatusRequestEntityTooLarge, Response{Status: "error", Message: "Webhook body too large"})
			return
		}
		h.logger.Warn("Failed to read webhook body", zap.Error(err))
		h.respond(w, http.StatusBadRequest, Response{Status: "error", Message: "Webhook body could not be read"})
		return
	}

	event, err := h.processor.Process(r.Context(), body, r.Header)
	switch {
	case err == nil:
		h.respond(w, http.StatusOK, Response{
			Status:    "success",
			Message:   "Webhook processed successfully",
			PaymentID: event.TransactionID(),
		})
	case errors.Is(err, domain.ErrWebhookVerificationFailed):
		h.logger.Warn("Rejected unverified webhook", zap.String("remote_addr", r.RemoteAddr))
		h.respond(w, http.StatusUnauthorized, Response{Status: "error", Message: "Webhook verification failed"})
	case errors.Is(err, domain.ErrWebhookMalformed):
		h.respond(w, http.StatusBadRequest, Response{Status: "error", Message: "Webhook payload is malformed"})
	default:
		h.logger.Error("Webhook processing failed", zap.Error(err))
		h.respond(w, http.StatusInternalServerError, Response{Status: "error", Message: "Webhook processing failed"})
	}
}

func (h *Handler) respond(w http.ResponseWriter, statusCode int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode webhook response", zap.Error(err))
	}
}
