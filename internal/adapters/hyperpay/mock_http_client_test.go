package hyperpay

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kevin07696/hyperpay-gateway/internal/config"
)

// recordedRequest is a request captured by mockHTTPClient with its body
// already parsed.
type recordedRequest struct {
	Method string
	URL    *url.URL
	Header http.Header
	Form   url.Values
}

type mockHTTPClient struct {
	mu      sync.Mutex
	handler func(req *http.Request) (*http.Response, error)
	Calls   []recordedRequest
}

func newMockHTTPClient(handler func(req *http.Request) (*http.Response, error)) *mockHTTPClient {
	return &mockHTTPClient{handler: handler}
}

// respondWith answers every request with status and body.
func respondWith(status int, body string) *mockHTTPClient {
	return newMockHTTPClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(status, body), nil
	})
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	rec := recordedRequest{Method: req.Method, URL: req.URL, Header: req.Header.Clone()}
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		rec.Form, _ = url.ParseQuery(string(raw))
	}

	m.mu.Lock()
	m.Calls = append(m.Calls, rec)
	m.mu.Unlock()

	return m.handler(req)
}

func (m *mockHTTPClient) last(t *testing.T) recordedRequest {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.Calls, "expected at least one request")
	return m.Calls[len(m.Calls)-1]
}

func (m *mockHTTPClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func testGatewayConfig(t *testing.T, mutate ...func(*config.GatewayParams)) config.GatewayConfig {
	t.Helper()
	p := config.GatewayParams{
		Environment: "test",
		BaseURL:     "https://eu-test.oppwa.com",
		APIToken:    "test-token",
		EntityIDs: map[string]string{
			"VISA":   "entity-visa",
			"master": "entity-master",
			"mada":   "entity-mada",
		},
		DefaultCurrency:    "SAR",
		DefaultPaymentType: "DB",
		MinAmount:          "1",
		MaxAmount:          "10000",
		Timeout:            2 * time.Second,
		ShopperResultURL:   "https://shop.example.com/result",
		LoggingEnabled:     true,
		BreakerMaxFailures: 5,
	}
	for _, fn := range mutate {
		fn(&p)
	}
	cfg, err := config.NewGatewayConfig(p)
	require.NoError(t, err)
	return cfg
}

const successBody = `{
	"id": "8ac7a4a1845f7e2b01846b0f1c2d3e4f",
	"paymentType": "DB",
	"paymentBrand": "VISA",
	"amount": "100.00",
	"currency": "SAR",
	"result": {"code": "000.100.110", "description": "Request successfully processed in 'Merchant in Integrator Test Mode'"},
	"card": {"bin": "411111", "last4Digits": "1111", "holder": "Jane Doe", "expiryMonth": "05", "expiryYear": "2030"},
	"registrationId": "8ac7a4a1845f7e2b01846b0f00000001",
	"customer": {"email": "jane@example.com", "givenName": "Jane"},
	"timestamp": "2024-05-01 10:00:00+0000",
	"ndc": "8a8294174b7ecb28014b9699220015ca_abc"
}`
