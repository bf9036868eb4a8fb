package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExposesCollectors(t *testing.T) {
	FetchesTotal.WithLabelValues("frxEURUSD", OutcomeOK).Inc()
	Countdown.WithLabelValues("frxEURUSD").Set(150)
	LoginsTotal.WithLabelValues("ok").Inc()
	FetchSeconds.WithLabelValues("frxEURUSD").Observe(0.2)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, `signaldesk_fetches_total{outcome="ok",pair="frxEURUSD"}`)
	assert.Contains(t, out, `signaldesk_countdown_seconds{pair="frxEURUSD"} 150`)
	assert.Contains(t, out, `signaldesk_logins_total{result="ok"}`)
	assert.Contains(t, out, `signaldesk_fetch_duration_seconds_bucket`)
}
