package http

import (
	"crypto/tls"
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_GatewayConfig(t *testing.T) {
	client := NewHTTPClient(GatewayClientConfig(), 35*time.Second)

	assert.Equal(t, 35*time.Second, client.Timeout)

	transport, ok := client.Transport.(*stdhttp.Transport)
	require.True(t, ok)
	assert.Equal(t, 50, transport.MaxIdleConnsPerHost)
	assert.Equal(t, 100, transport.MaxConnsPerHost)
	assert.False(t, transport.TLSClientConfig.InsecureSkipVerify)
	assert.Equal(t, uint16(tls.VersionTLS12), transport.TLSClientConfig.MinVersion)
	assert.True(t, transport.ForceAttemptHTTP2)
}
