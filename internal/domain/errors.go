package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Validation Errors (VALIDATION_*)
	ErrorCodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
	ErrorCodeValidationAmountInvalid ErrorCode = "VALIDATION_AMOUNT_INVALID"
	ErrorCodeValidationBrandInvalid  ErrorCode = "VALIDATION_BRAND_INVALID"
	ErrorCodeValidationCardInvalid   ErrorCode = "VALIDATION_CARD_INVALID"

	// Configuration Errors (CONFIG_*)
	ErrorCodeConfigInvalid       ErrorCode = "CONFIG_INVALID"
	ErrorCodeConfigEntityMissing ErrorCode = "CONFIG_ENTITY_MISSING"

	// Payment Gateway Errors (GATEWAY_*)
	ErrorCodeGatewayCommunication ErrorCode = "GATEWAY_COMMUNICATION_ERROR"
	ErrorCodeGatewayDecode        ErrorCode = "GATEWAY_DECODE_ERROR"

	// Webhook Errors (WEBHOOK_*)
	ErrorCodeWebhookMisconfigured      ErrorCode = "WEBHOOK_MISCONFIGURED"
	ErrorCodeWebhookVerificationFailed ErrorCode = "WEBHOOK_VERIFICATION_FAILED"
	ErrorCodeWebhookMalformed          ErrorCode = "WEBHOOK_MALFORMED"
)

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
	// Field names the offending input for validation errors.
	Field string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field %s)", e.Message, e.Field)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so callers can test
// against the sentinel values below.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDetail adds a detail field to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// NewFieldError creates a validation error bound to a single input field.
func NewFieldError(code ErrorCode, field, message string) *DomainError {
	e := NewDomainError(code, message)
	e.Field = field
	return e
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// IsDomainError checks if an error is a DomainError with the given code
func IsDomainError(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	var commErr *CommunicationError
	if errors.As(err, &commErr) {
		return ErrorCodeGatewayCommunication
	}
	return ""
}

// IsValidationError reports local input failures. These are never retried.
func IsValidationError(err error) bool {
	switch GetErrorCode(err) {
	case ErrorCodeValidationFailed,
		ErrorCodeValidationAmountInvalid,
		ErrorCodeValidationBrandInvalid,
		ErrorCodeValidationCardInvalid,
		ErrorCodeConfigEntityMissing:
		return true
	}
	return false
}

// IsWebhookError checks if an error came from webhook verification or parsing
func IsWebhookError(err error) bool {
	switch GetErrorCode(err) {
	case ErrorCodeWebhookMisconfigured,
		ErrorCodeWebhookVerificationFailed,
		ErrorCodeWebhookMalformed:
		return true
	}
	return false
}

// Sentinels for errors.Is
var (
	ErrValidationFailed = NewDomainError(ErrorCodeValidationFailed, "validation failed")
	ErrInvalidAmount    = NewDomainError(ErrorCodeValidationAmountInvalid, "invalid amount")
	ErrInvalidBrand     = NewDomainError(ErrorCodeValidationBrandInvalid, "unsupported payment brand")
	ErrInvalidCardData  = NewDomainError(ErrorCodeValidationCardInvalid, "invalid card data")

	ErrConfigInvalid = NewDomainError(ErrorCodeConfigInvalid, "invalid gateway configuration")
	ErrMissingEntity = NewDomainError(ErrorCodeConfigEntityMissing, "entity id not configured for brand")

	ErrGatewayCommunication = NewDomainError(ErrorCodeGatewayCommunication, "gateway communication failed")
	ErrGatewayDecode        = NewDomainError(ErrorCodeGatewayDecode, "invalid gateway response")

	ErrWebhookMisconfigured      = NewDomainError(ErrorCodeWebhookMisconfigured, "webhook signing key not configured")
	ErrWebhookVerificationFailed = NewDomainError(ErrorCodeWebhookVerificationFailed, "webhook signature verification failed")
	ErrWebhookMalformed          = NewDomainError(ErrorCodeWebhookMalformed, "malformed webhook payload")
)

// FailureReason classifies why a gateway exchange did not produce a response.
type FailureReason string

const (
	ReasonTimeout     FailureReason = "timeout"
	ReasonCanceled    FailureReason = "canceled"
	ReasonTransport   FailureReason = "transport"
	ReasonHTTPStatus  FailureReason = "http_status"
	ReasonCircuitOpen FailureReason = "circuit_open"
	ReasonRateLimited FailureReason = "rate_limited"
)

// CommunicationError is returned when the gateway could not be reached or
// answered with a non-2xx status. StatusCode and Body are set only for
// ReasonHTTPStatus.
type CommunicationError struct {
	Err        error
	Operation  string
	Reason     FailureReason
	Body       string
	StatusCode int
}

func (e *CommunicationError) Error() string {
	if e.Reason == ReasonHTTPStatus {
		return fmt.Sprintf("%s: %s: HTTP %d", ErrorCodeGatewayCommunication, e.Operation, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", ErrorCodeGatewayCommunication, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrorCodeGatewayCommunication, e.Operation, e.Reason)
}

func (e *CommunicationError) Unwrap() error {
	return e.Err
}

// Is makes every CommunicationError match ErrGatewayCommunication.
func (e *CommunicationError) Is(target error) bool {
	return target == ErrGatewayCommunication
}

// Transient reports whether the failure might clear on its own. Caller
// cancellation and 4xx responses are not transient.
func (e *CommunicationError) Transient() bool {
	switch e.Reason {
	case ReasonTimeout, ReasonTransport, ReasonCircuitOpen, ReasonRateLimited:
		return true
	case ReasonHTTPStatus:
		return e.StatusCode >= 500 || e.StatusCode == 429
	}
	return false
}

// AsCommunicationError extracts a CommunicationError from an error chain.
func AsCommunicationError(err error) (*CommunicationError, bool) {
	var ce *CommunicationError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
