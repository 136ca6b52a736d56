package domain

import (
	"github.com/shopspring/decimal"
)

// PaymentType is the HyperPay paymentType parameter.
type PaymentType string

const (
	PaymentTypeDebit            PaymentType = "DB" // Authorize and capture in one step
	PaymentTypePreauthorization PaymentType = "PA" // Authorize only
	PaymentTypeCapture          PaymentType = "CP" // Capture a preauthorization
	PaymentTypeRefund           PaymentType = "RF" // Return captured funds
	PaymentTypeReversal         PaymentType = "RV" // Cancel before settlement
	PaymentTypeCredit           PaymentType = "CD" // Stand-alone credit
	PaymentTypeRebill           PaymentType = "RB" // Recurring charge on a registration
)

// Valid reports whether t is a payment type HyperPay accepts.
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeDebit, PaymentTypePreauthorization, PaymentTypeCapture,
		PaymentTypeRefund, PaymentTypeReversal, PaymentTypeCredit, PaymentTypeRebill:
		return true
	}
	return false
}

// Customer maps to the customer.* parameters.
type Customer struct {
	GivenName           string
	Surname             string
	Email               string
	Phone               string
	IP                  string
	MerchantCustomerID  string
	IdentificationDocID string
	IdentificationType  string
}

// Address maps to billing.* or shipping.*.
type Address struct {
	Street1  string
	Street2  string
	City     string
	State    string
	Postcode string
	Country  string
}

// Card holds raw card data for a direct payment. It is only sent when the
// request carries no registration id.
type Card struct {
	Number      string
	Holder      string
	ExpiryMonth string
	ExpiryYear  string
	CVV         string
}

// CheckoutRequest prepares a hosted payment widget session.
type CheckoutRequest struct {
	Amount                decimal.Decimal
	Brand                 string
	Currency              string
	PaymentType           PaymentType
	MerchantTransactionID string
	Customer              *Customer
	Billing               *Address
	Shipping              *Address
	CustomParameters      map[string]string
	RiskParameters        map[string]string
	CreateRegistration    *bool
	RegistrationID        string
}

// PaymentRequest is a server-to-server payment. Either Card or
// RegistrationID identifies the instrument; RegistrationID wins when both
// are set.
type PaymentRequest struct {
	Amount                decimal.Decimal
	Brand                 string
	Currency              string
	PaymentType           PaymentType
	MerchantTransactionID string
	Card                  *Card
	RegistrationID        string
	Customer              *Customer
	Billing               *Address
	Shipping              *Address
	CustomParameters      map[string]string
	RiskParameters        map[string]string
	ThreeDSecure          map[string]string
	CreateRegistration    *bool
	ShopperResultURL      string
}

// UsesRegistration reports whether the stored card path applies.
func (r *PaymentRequest) UsesRegistration() bool {
	return r.RegistrationID != ""
}
