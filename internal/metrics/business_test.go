package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine checks that the Prometheus output contains a metric
// matching the given name, partial label pattern, and value. Uses regex to
// tolerate the extra OTel scope labels injected by the exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("chatcrypt")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "chatcrypt")
	require.NoError(t, err)
	assert.NotNil(t, bm)
}

func TestBusinessMetrics_Recording(t *testing.T) {
	provider, err := NewProvider("chatcrypt")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "chatcrypt")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "vault", "key_rotate", "success")
	bm.RecordOperation(ctx, "vault", "key_rotate", "success")
	bm.RecordOperation(ctx, "vault", "key_revoke", "error")
	bm.RecordOperation(ctx, "message", "message_encrypt", "success")

	bm.RecordDuration(ctx, "vault", "key_rotate", 10*time.Millisecond, "success")
	bm.RecordDuration(ctx, "message", "message_encrypt", 5*time.Millisecond, "success")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)
	output := w.Body.String()

	assertBizMetricLine(
		t,
		output,
		`chatcrypt_operations_total`,
		`domain="vault".*operation="key_rotate".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`chatcrypt_operations_total`,
		`domain="vault".*operation="key_revoke".*status="error"`,
		`1`,
	)
	assertBizMetricLine(
		t,
		output,
		`chatcrypt_operation_duration_seconds_count`,
		`domain="message".*operation="message_encrypt".*status="success"`,
		`1`,
	)
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, bm)

	// Must be safe to call with no provider behind it.
	bm.RecordOperation(context.Background(), "vault", "key_create", "success")
	bm.RecordDuration(context.Background(), "vault", "key_create", time.Millisecond, "success")
}
