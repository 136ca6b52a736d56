package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kevin07696/hyperpay-gateway/internal/resultcode"
	"github.com/shopspring/decimal"
)

// Redirect carries the 3-D Secure or wallet redirect returned by payments.
type Redirect struct {
	URL        string            `json:"url"`
	Method     string            `json:"method,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// CardMetadata is the non-sensitive card data HyperPay echoes back. It is
// what a card-on-file record stores next to a registration id.
type CardMetadata struct {
	Bin         *string `json:"bin,omitempty"`
	LastFour    *string `json:"last4Digits,omitempty"`
	Holder      *string `json:"holder,omitempty"`
	ExpiryMonth *string `json:"expiryMonth,omitempty"`
	ExpiryYear  *string `json:"expiryYear,omitempty"`
	Brand       *string `json:"brand,omitempty"`
}

// GatewayResponse is the decoded result of any gateway exchange. Optional
// fields are nil when the gateway did not send them. ResultCode is always
// set; outcome predicates are derived from it on every call.
type GatewayResponse struct {
	ID                    *string                `json:"id,omitempty"`
	ResultCode            string                 `json:"resultCode"`
	ResultDescription     *string                `json:"resultDescription,omitempty"`
	Amount                *string                `json:"amount,omitempty"`
	Currency              *string                `json:"currency,omitempty"`
	PaymentBrand          *string                `json:"paymentBrand,omitempty"`
	PaymentType           *string                `json:"paymentType,omitempty"`
	MerchantTransactionID *string                `json:"merchantTransactionId,omitempty"`
	RegistrationID        *string                `json:"registrationId,omitempty"`
	Timestamp             *string                `json:"timestamp,omitempty"`
	NDC                   *string                `json:"ndc,omitempty"`
	Redirect              *Redirect              `json:"redirect,omitempty"`
	Card                  *CardMetadata          `json:"card,omitempty"`
	ThreeDSecure          map[string]interface{} `json:"threeDSecure,omitempty"`
	Customer              map[string]interface{} `json:"customer,omitempty"`
	Billing               map[string]interface{} `json:"billing,omitempty"`
	Shipping              map[string]interface{} `json:"shipping,omitempty"`
	Risk                  map[string]interface{} `json:"risk,omitempty"`
	CustomParameters      map[string]interface{} `json:"customParameters,omitempty"`
	CheckoutURL           *string                `json:"checkoutUrl,omitempty"`
	PaymentPageURL        *string                `json:"paymentPageUrl,omitempty"`
	Raw                   json.RawMessage        `json:"-"`
}

func (r *GatewayResponse) IsSuccessful() bool { return resultcode.IsSuccessful(r.ResultCode) }

func (r *GatewayResponse) NeedsReview() bool {
	return resultcode.IsSuccessfulButNeedsReview(r.ResultCode)
}

func (r *GatewayResponse) IsPending() bool { return resultcode.IsPending(r.ResultCode) }

func (r *GatewayResponse) IsRejected() bool { return resultcode.IsRejected(r.ResultCode) }

func (r *GatewayResponse) Category() resultcode.Category { return resultcode.CategoryOf(r.ResultCode) }

func (r *GatewayResponse) CanRetry() bool { return resultcode.CanRetry(r.ResultCode) }

func (r *GatewayResponse) Outcome() resultcode.Outcome { return resultcode.OutcomeOf(r.ResultCode) }

// ResultInfo returns the full classification of the result code.
func (r *GatewayResponse) ResultInfo() resultcode.Info { return resultcode.Lookup(r.ResultCode) }

// PaymentID returns the gateway id or "" when absent.
func (r *GatewayResponse) PaymentID() string { return StringValue(r.ID) }

// AmountDecimal parses Amount. ok is false when the amount is absent or
// not a number.
func (r *GatewayResponse) AmountDecimal() (decimal.Decimal, bool) {
	if r.Amount == nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(*r.Amount)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// StringValue dereferences an optional string.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// DecodeGatewayResponse parses a gateway JSON body. A body that is not a JSON
// object or lacks result.code is an error; no partial response is returned.
func DecodeGatewayResponse(raw []byte) (*GatewayResponse, error) {
	payload, err := DecodeObject(raw)
	if err != nil {
		return nil, WrapError(ErrorCodeGatewayDecode, "gateway response is not a JSON object", err)
	}
	resp := NormalizeGatewayResponse(payload, raw)
	if resp.ResultCode == "" {
		return nil, NewDomainError(ErrorCodeGatewayDecode, "gateway response has no result.code")
	}
	return resp, nil
}

// DecodeObject decodes a JSON object keeping numbers as json.Number so
// amounts are not turned into floats.
func DecodeObject(raw []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload map[string]interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, fmt.Errorf("payload is null")
	}
	return payload, nil
}

// NormalizeGatewayResponse maps a loosely typed payload into a
// GatewayResponse. Unknown keys are ignored and missing ones stay nil.
func NormalizeGatewayResponse(payload map[string]interface{}, raw []byte) *GatewayResponse {
	result := objectAt(payload, "result")
	resp := &GatewayResponse{
		ID:                    stringAt(payload, "id"),
		ResultCode:            StringValue(stringAt(result, "code")),
		ResultDescription:     stringAt(result, "description"),
		Amount:                stringAt(payload, "amount"),
		Currency:              stringAt(payload, "currency"),
		PaymentBrand:          stringAt(payload, "paymentBrand"),
		PaymentType:           stringAt(payload, "paymentType"),
		MerchantTransactionID: stringAt(payload, "merchantTransactionId"),
		RegistrationID:        stringAt(payload, "registrationId"),
		Timestamp:             stringAt(payload, "timestamp"),
		NDC:                   stringAt(payload, "ndc"),
		ThreeDSecure:          objectAt(payload, "threeDSecure"),
		Customer:              objectAt(payload, "customer"),
		Billing:               objectAt(payload, "billing"),
		Shipping:              objectAt(payload, "shipping"),
		Risk:                  objectAt(payload, "risk"),
		CustomParameters:      objectAt(payload, "customParameters"),
		Raw:                   append(json.RawMessage(nil), raw...),
	}

	if card := objectAt(payload, "card"); card != nil {
		resp.Card = &CardMetadata{
			Bin:         stringAt(card, "bin"),
			LastFour:    stringAt(card, "last4Digits"),
			Holder:      stringAt(card, "holder"),
			ExpiryMonth: stringAt(card, "expiryMonth"),
			ExpiryYear:  stringAt(card, "expiryYear"),
			Brand:       resp.PaymentBrand,
		}
	}

	if redirect := objectAt(payload, "redirect"); redirect != nil {
		resp.Redirect = &Redirect{
			URL:        StringValue(stringAt(redirect, "url")),
			Method:     StringValue(stringAt(redirect, "method")),
			Parameters: redirectParameters(redirect["parameters"]),
		}
	}

	if links := objectAt(payload, "links"); links != nil {
		resp.CheckoutURL = stringAt(objectAt(links, "self"), "href")
		resp.PaymentPageURL = stringAt(objectAt(links, "payment"), "href")
	}

	return resp
}

// redirectParameters accepts both [{"name":..,"value":..}] and a plain object.
func redirectParameters(v interface{}) map[string]string {
	out := make(map[string]string)
	switch p := v.(type) {
	case []interface{}:
		for _, item := range p {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			name := StringValue(stringAt(m, "name"))
			if name == "" {
				continue
			}
			out[name] = StringValue(stringAt(m, "value"))
		}
	case map[string]interface{}:
		for k := range p {
			out[k] = StringValue(stringAt(p, k))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func objectAt(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return nil
	}
	obj, _ := m[key].(map[string]interface{})
	return obj
}

func stringAt(m map[string]interface{}, key string) *string {
	if m == nil {
		return nil
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case bool:
		s = fmt.Sprintf("%t", t)
	case float64:
		s = decimal.NewFromFloat(t).String()
	default:
		return nil
	}
	s = strings.TrimSpace(s)
	return &s
}
