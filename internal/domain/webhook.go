package domain

// WebhookEvent is a normalized HyperPay notification.
type WebhookEvent struct {
	GatewayResponse
	// Type is the notification envelope type (PAYMENT, REGISTRATION, RISK)
	// when the body used the {"type","payload"} envelope.
	Type *string `json:"type,omitempty"`
	// PaymentID is the paymentId field some notifications carry in
	// addition to id.
	PaymentID *string `json:"paymentId,omitempty"`
	// RawPayload is the exact body that was signed.
	RawPayload []byte `json:"-"`
}

// TransactionID prefers paymentId and falls back to id.
func (e *WebhookEvent) TransactionID() string {
	if e.PaymentID != nil && *e.PaymentID != "" {
		return *e.PaymentID
	}
	return StringValue(e.ID)
}

// EventKind names a domain event emitted to the host application.
type EventKind string

const (
	EventPaymentSuccessful     EventKind = "payment.successful"
	EventPaymentReviewRequired EventKind = "payment.review_required"
	EventPaymentPending        EventKind = "payment.pending"
	EventPaymentFailed         EventKind = "payment.failed"
	EventPaymentStatusChanged  EventKind = "payment.status_changed"
	EventRefundProcessed       EventKind = "refund.processed"
	EventChargebackReceived    EventKind = "chargeback.received"
)

// PaymentEvent is the payload handed to event emitters. Operation is empty
// for webhook driven events.
type PaymentEvent struct {
	Kind      EventKind        `json:"kind"`
	Operation string           `json:"operation,omitempty"`
	Response  *GatewayResponse `json:"response,omitempty"`
	Webhook   *WebhookEvent    `json:"webhook,omitempty"`
}
