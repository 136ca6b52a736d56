package hyperpay

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/hyperpay-gateway/internal/domain"
)

var (
	cardNumberPattern  = regexp.MustCompile(`^\d{13,19}$`)
	expiryMonthPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
	expiryYearPattern  = regexp.MustCompile(`^\d{2,4}$`)
	cvvPattern         = regexp.MustCompile(`^\d{3,4}$`)
	// HyperPay ids are 32 hex characters with dots; anything that could
	// escape the /v1/payments/{id} path segment is rejected.
	paymentIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

func (c *Client) validateAmount(amount decimal.Decimal) error {
	if amount.LessThan(c.cfg.MinAmount) {
		return domain.NewFieldError(domain.ErrorCodeValidationAmountInvalid, "amount",
			fmt.Sprintf("amount must be at least %s", c.cfg.MinAmount))
	}
	if c.cfg.MaxAmount.Valid && amount.GreaterThan(c.cfg.MaxAmount.Decimal) {
		return domain.NewFieldError(domain.ErrorCodeValidationAmountInvalid, "amount",
			fmt.Sprintf("amount cannot exceed %s", c.cfg.MaxAmount.Decimal))
	}
	return nil
}

func (c *Client) validateBrand(brand string) (domain.Brand, error) {
	b := domain.ParseBrand(brand)
	if b == "" || !c.cfg.IsBrandSupported(b) {
		return "", domain.NewFieldError(domain.ErrorCodeValidationBrandInvalid, "brand",
			fmt.Sprintf("unsupported payment brand: %s", brand))
	}
	return b, nil
}

func (c *Client) entityID(brand domain.Brand) (string, error) {
	id := c.cfg.EntityID(brand)
	if id == "" {
		return "", domain.NewFieldError(domain.ErrorCodeConfigEntityMissing, "brand",
			fmt.Sprintf("entity id not configured for brand: %s", brand.EntityKey()))
	}
	return id, nil
}

func validateCard(card *domain.Card) error {
	if card == nil {
		return cardError("card", "card data or registration id is required")
	}

	switch {
	case strings.TrimSpace(card.Number) == "":
		return cardError("card.number", "card number is required")
	case strings.TrimSpace(card.Holder) == "":
		return cardError("card.holder", "card holder name is required")
	case card.ExpiryMonth == "" || card.ExpiryYear == "":
		return cardError("card.expiry", "card expiry date is required")
	case card.CVV == "":
		return cardError("card.cvv", "CVV is required")
	}

	if !cardNumberPattern.MatchString(card.Number) {
		return cardError("card.number", "invalid card number format")
	}
	if !expiryMonthPattern.MatchString(padMonth(card.ExpiryMonth)) {
		return cardError("card.expiryMonth", "invalid expiry month")
	}
	if !expiryYearPattern.MatchString(card.ExpiryYear) {
		return cardError("card.expiryYear", "invalid expiry year")
	}
	if !cvvPattern.MatchString(card.CVV) {
		return cardError("card.cvv", "invalid CVV")
	}
	return nil
}

func validatePaymentID(id string) error {
	if !paymentIDPattern.MatchString(id) || strings.Trim(id, ".") == "" {
		return domain.NewFieldError(domain.ErrorCodeValidationFailed, "paymentId", "payment id is empty or not path safe")
	}
	return nil
}

func cardError(field, msg string) error {
	return domain.NewFieldError(domain.ErrorCodeValidationCardInvalid, field, msg)
}
