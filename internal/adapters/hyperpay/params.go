package hyperpay

import (
	"net/url"

	"github.com/kevin07696/hyperpay-gateway/internal/domain"
)

// params is the flat key/value set sent to HyperPay. Keys use the dotted
// section.field form (customer.email, billing.city). Setting a key twice
// keeps the last value.
type params map[string]string

func (p params) set(key, value string) {
	if value != "" {
		p[key] = value
	}
}

func (p params) setBool(key string, v *bool) {
	if v == nil {
		return
	}
	if *v {
		p[key] = "true"
	} else {
		p[key] = "false"
	}
}

func (p params) merge(m map[string]string) {
	for k, v := range m {
		p[k] = v
	}
}

func (p params) customer(c *domain.Customer) {
	if c == nil {
		return
	}
	p.set("customer.givenName", c.GivenName)
	p.set("customer.surname", c.Surname)
	p.set("customer.email", c.Email)
	p.set("customer.phone", c.Phone)
	p.set("customer.ip", c.IP)
	p.set("customer.merchantCustomerId", c.MerchantCustomerID)
	p.set("customer.identificationDocId", c.IdentificationDocID)
	p.set("customer.identificationType", c.IdentificationType)
}

func (p params) address(section string, a *domain.Address) {
	if a == nil {
		return
	}
	p.set(section+".street1", a.Street1)
	p.set(section+".street2", a.Street2)
	p.set(section+".city", a.City)
	p.set(section+".state", a.State)
	p.set(section+".postcode", a.Postcode)
	p.set(section+".country", a.Country)
}

func (p params) card(c *domain.Card) {
	p.set("card.number", c.Number)
	p.set("card.holder", c.Holder)
	p.set("card.expiryMonth", padMonth(c.ExpiryMonth))
	p.set("card.expiryYear", c.ExpiryYear)
	p.set("card.cvv", c.CVV)
}

func (p params) values() url.Values {
	v := make(url.Values, len(p))
	for k, val := range p {
		v.Set(k, val)
	}
	return v
}

func padMonth(m string) string {
	if len(m) == 1 {
		return "0" + m
	}
	return m
}
