package postgres

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/kevin07696/hyperpay-gateway/internal/adapters/ports"
	"github.com/kevin07696/hyperpay-gateway/internal/domain"
	"github.com/kevin07696/hyperpay-gateway/internal/resultcode"
)

//go:embed schema.sql
var schemaSQL string

// Stored payment statuses.
const (
	StatusSuccessful     = "successful"
	StatusReviewRequired = "review_required"
	StatusPending        = "pending"
	StatusFailed         = "failed"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// A replayed webhook or a late status query for a payment that has already
// reached a terminal status hits the WHERE clause and changes nothing.
const upsertPaymentSQL = `
INSERT INTO hyperpay_payments (
    transaction_id, merchant_transaction_id, amount, currency, brand,
    payment_type, result_code, status, card_token, response, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
ON CONFLICT (transaction_id) DO UPDATE SET
    merchant_transaction_id = COALESCE(EXCLUDED.merchant_transaction_id, hyperpay_payments.merchant_transaction_id),
    amount                  = COALESCE(EXCLUDED.amount, hyperpay_payments.amount),
    currency                = COALESCE(EXCLUDED.currency, hyperpay_payments.currency),
    brand                   = COALESCE(EXCLUDED.brand, hyperpay_payments.brand),
    payment_type            = COALESCE(EXCLUDED.payment_type, hyperpay_payments.payment_type),
    result_code             = EXCLUDED.result_code,
    status                  = EXCLUDED.status,
    card_token              = COALESCE(EXCLUDED.card_token, hyperpay_payments.card_token),
    response                = EXCLUDED.response,
    updated_at              = EXCLUDED.updated_at
WHERE hyperpay_payments.status = 'pending'`

const insertCardSQL = `
INSERT INTO hyperpay_credit_cards (
    registration_id, card_type, last_four_digits, card_holder_name,
    expiry_month, expiry_year, bin, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (registration_id) DO NOTHING`

// PaymentRecorder stores gateway outcomes in PostgreSQL.
type PaymentRecorder struct {
	db     DBTX
	logger *zap.Logger
	now    func() time.Time
}

var _ ports.PaymentRecorder = (*PaymentRecorder)(nil)

// NewPaymentRecorder creates a recorder on db.
func NewPaymentRecorder(db DBTX, logger *zap.Logger) *PaymentRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentRecorder{db: db, logger: logger, now: time.Now}
}

// EnsureSchema creates the tables if they do not exist.
func (r *PaymentRecorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure hyperpay schema: %w", err)
	}
	return nil
}

// StatusFor maps a result code onto the stored status.
func StatusFor(code string) string {
	switch resultcode.OutcomeOf(code) {
	case resultcode.OutcomeSuccessful:
		return StatusSuccessful
	case resultcode.OutcomeSuccessfulReviewRequired:
		return StatusReviewRequired
	case resultcode.OutcomePending:
		return StatusPending
	default:
		return StatusFailed
	}
}

// PersistCheckoutOrPayment upserts the payment row keyed by gateway id.
// Responses without an id (nothing to key on) are skipped.
func (r *PaymentRecorder) PersistCheckoutOrPayment(ctx context.Context, resp *domain.GatewayResponse) error {
	if resp == nil || resp.PaymentID() == "" {
		r.logger.Warn("Skipping payment without gateway id")
		return nil
	}

	body, err := responseJSON(resp)
	if err != nil {
		return fmt.Errorf("encode response for %s: %w", resp.PaymentID(), err)
	}

	tag, err := r.db.Exec(ctx, upsertPaymentSQL,
		resp.PaymentID(),
		nullText(resp.MerchantTransactionID),
		nullNumeric(resp.Amount),
		nullText(resp.Currency),
		nullText(resp.PaymentBrand),
		nullText(resp.PaymentType),
		resp.ResultCode,
		StatusFor(resp.ResultCode),
		nullText(resp.RegistrationID),
		body,
		r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert payment %s: %w", resp.PaymentID(), err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug("Payment already terminal, update ignored",
			zap.String("transaction_id", resp.PaymentID()),
			zap.String("result_code", resp.ResultCode),
		)
	}
	return nil
}

// PersistCardRegistration stores card-on-file metadata once per
// registration id.
func (r *PaymentRecorder) PersistCardRegistration(ctx context.Context, registrationID string, card domain.CardMetadata) error {
	if registrationID == "" {
		return domain.NewFieldError(domain.ErrorCodeValidationFailed, "registrationId", "registration id is required")
	}

	_, err := r.db.Exec(ctx, insertCardSQL,
		registrationID,
		nullText(card.Brand),
		nullText(card.LastFour),
		nullText(card.Holder),
		nullText(card.ExpiryMonth),
		nullText(card.ExpiryYear),
		nullText(card.Bin),
		r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert card registration %s: %w", registrationID, err)
	}
	return nil
}

func responseJSON(resp *domain.GatewayResponse) ([]byte, error) {
	if len(resp.Raw) > 0 && json.Valid(resp.Raw) {
		return resp.Raw, nil
	}
	return json.Marshal(resp)
}
