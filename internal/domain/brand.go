package domain

import "strings"

// Brand is a card scheme or wallet accepted by HyperPay.
type Brand string

const (
	BrandVisa     Brand = "VISA"
	BrandMaster   Brand = "MASTER"
	BrandMada     Brand = "MADA"
	BrandApplePay Brand = "APPLEPAY"
	BrandSTCPay   Brand = "STCPAY"
)

// DefaultBrands is the supported set when configuration does not override it.
func DefaultBrands() []Brand {
	return []Brand{BrandVisa, BrandMaster, BrandMada, BrandApplePay, BrandSTCPay}
}

// ParseBrand normalizes a brand name; matching is case-insensitive.
func ParseBrand(s string) Brand {
	return Brand(strings.ToUpper(strings.TrimSpace(s)))
}

func (b Brand) String() string {
	return string(b)
}

// EntityKey is the lowercase key used for the entity id lookup.
func (b Brand) EntityKey() string {
	return strings.ToLower(string(b))
}
