package llm

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient returns canned responses or errors in order.
type fakeClient struct {
	responses []string
	errs      []error
	calls     int
}

func (f *fakeClient) GenerateJSON(_ context.Context, _, _ string) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", fmt.Errorf("unexpected call %d", i)
}

func (f *fakeClient) Model() string { return "fake-model" }
func (f *fakeClient) Close() error  { return nil }

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.RetryAttempts = 2
	cfg.RetryBaseDelay = time.Millisecond
	return cfg
}

func TestGatewayRequest_Success(t *testing.T) {
	client := &fakeClient{responses: []string{`{"key": "value"}`}}
	gw := NewGateway(client, testConfig(), nil)

	resp, err := gw.Request(context.Background(), "prompt", "system")
	require.NoError(t, err)
	assert.Equal(t, `{"key": "value"}`, resp.Text)
	assert.False(t, resp.Truncated)
	assert.Equal(t, 1, client.calls)
}

func TestGatewayRequest_RetriesThenSucceeds(t *testing.T) {
	client := &fakeClient{
		errs:      []error{fmt.Errorf("transient"), fmt.Errorf("transient")},
		responses: []string{"", "", `{"ok": true}`},
	}
	gw := NewGateway(client, testConfig(), nil)

	resp, err := gw.Request(context.Background(), "prompt", "system")
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, resp.Text)
	assert.Equal(t, 3, client.calls)
}

func TestGatewayRequest_ExhaustsRetries(t *testing.T) {
	client := &fakeClient{
		errs: []error{fmt.Errorf("down"), fmt.Errorf("down"), fmt.Errorf("down")},
	}
	gw := NewGateway(client, testConfig(), nil)

	_, err := gw.Request(context.Background(), "prompt", "system")
	require.Error(t, err)

	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, 3, gerr.Attempts)
	assert.Equal(t, "fake-model", gerr.Model)
	// Initial call plus two retries.
	assert.Equal(t, 3, client.calls)
}

func TestGatewayRequest_TruncationFlag(t *testing.T) {
	client := &fakeClient{responses: []string{`{"email": "user@example.com`}}
	gw := NewGateway(client, testConfig(), nil)

	resp, err := gw.Request(context.Background(), "prompt", "system")
	require.NoError(t, err)
	assert.True(t, resp.Truncated)
}

func TestGatewayRequest_TrailingWhitespaceNotTruncated(t *testing.T) {
	client := &fakeClient{responses: []string{"{\"a\": 1}\n\n  "}}
	gw := NewGateway(client, testConfig(), nil)

	resp, err := gw.Request(context.Background(), "prompt", "system")
	require.NoError(t, err)
	assert.False(t, resp.Truncated)
}

func TestGatewayRequest_ArrayResponseNotTruncated(t *testing.T) {
	client := &fakeClient{responses: []string{`["a", "b"]`}}
	gw := NewGateway(client, testConfig(), nil)

	resp, err := gw.Request(context.Background(), "prompt", "system")
	require.NoError(t, err)
	assert.False(t, resp.Truncated)
}
