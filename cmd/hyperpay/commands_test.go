package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/hyperpay-gateway/internal/domain"
)

func TestClassifyCmd(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "retryable communication error",
			args:     []string{"900.100.500"},
			contains: []string{"Category:    communication_error", "Retryable:   true"},
		},
		{
			name:     "stolen card",
			args:     []string{"800.100.159"},
			contains: []string{"Retryable:   false", "Outcome:     rejected"},
		},
		{
			name:     "malformed",
			args:     []string{"abc"},
			contains: []string{"Warning: Invalid result code format", "Category:    unknown"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := classifyCmd()
			cmd.SetOut(&out)
			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.Execute())
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func TestClassifyCmd_JSON(t *testing.T) {
	var out bytes.Buffer
	cmd := classifyCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--json", "000.100.110"})
	require.NoError(t, cmd.Execute())

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "000.100.110", got["code"])
	assert.Equal(t, true, got["is_successful"])
	assert.Contains(t, got, "matched_groups")
}

func TestPrintStatus(t *testing.T) {
	id, amount, currency := "P1", "10.00", "SAR"
	resp := &domain.GatewayResponse{ID: &id, ResultCode: "000.200.000", Amount: &amount, Currency: &currency}

	var out bytes.Buffer
	require.NoError(t, printStatus(&out, resp, false))
	assert.Contains(t, out.String(), "Payment:     P1")
	assert.Contains(t, out.String(), "Outcome:     pending")
	assert.Contains(t, out.String(), "Amount:      10.00 SAR")
	assert.NotContains(t, out.String(), "suggested_action")

	out.Reset()
	require.NoError(t, printStatus(&out, resp, true))
	assert.Contains(t, out.String(), `"suggested_action"`)
}
