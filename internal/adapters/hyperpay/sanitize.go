package hyperpay

// Mask replaces every sensitive value in log records.
const Mask = "********"

var sensitivePaths = map[string]bool{
	"card.number":                  true,
	"card.cvv":                     true,
	"card.holder":                  true,
	"card.bin":                     true,
	"customer.givenName":           true,
	"customer.surname":             true,
	"customer.email":               true,
	"customer.phone":               true,
	"customer.ip":                  true,
	"customer.identificationDocId": true,
	"billing.street1":              true,
	"billing.street2":              true,
	"billing.city":                 true,
	"billing.postcode":             true,
	"shipping.street1":             true,
	"shipping.street2":             true,
	"shipping.city":                true,
	"shipping.postcode":            true,
}

// IsSensitive reports whether a dotted parameter path is masked in logs.
func IsSensitive(path string) bool {
	return sensitivePaths[path]
}

// SanitizeParams returns a copy of p with sensitive values masked. Keys are
// never removed.
func SanitizeParams(p map[string]string) map[string]string {
	out := make(map[string]string, len(p))
	for k, v := range p {
		if sensitivePaths[k] {
			v = Mask
		}
		out[k] = v
	}
	return out
}

// SanitizePayload returns a deep copy of a decoded JSON object with
// sensitive values masked. Both flat ("card.number") and nested
// ({"card":{"number":..}}) spellings are recognised.
func SanitizePayload(payload map[string]interface{}) map[string]interface{} {
	return sanitizeObject("", payload)
}

func sanitizeObject(prefix string, m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if sensitivePaths[path] {
			out[k] = Mask
			continue
		}
		out[k] = sanitizeValue(path, v)
	}
	return out
}

func sanitizeValue(path string, v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return sanitizeObject(path, t)
	case []interface{}:
		items := make([]interface{}, len(t))
		for i, item := range t {
			items[i] = sanitizeValue(path, item)
		}
		return items
	default:
		return v
	}
}
