package status

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/signaldesk/internal/logging"
	"github.com/dmitrijs2005/signaldesk/internal/signal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

var updated = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func loadedSnapshot() signal.Snapshot {
	return signal.Snapshot{
		Pair:  "frxEURUSD",
		State: signal.StateLoaded,
		Signal: &signal.Signal{
			Direction:      signal.Green,
			Confidence:     decimal.NewFromInt(82),
			LivePrice:      decimal.RequireFromString("1.23456"),
			PredictedPrice: decimal.RequireFromString("1.23999"),
			Timer:          "02:29",
		},
		Countdown: 149,
		UpdatedAt: updated,
	}
}

func TestBoard_PublishAndWatch(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, signal.StateIdle, b.Latest().State)

	var seen []signal.State
	b.Watch(func(s signal.Snapshot) { seen = append(seen, s.State) })

	b.Publish(signal.Snapshot{Pair: "frxEURUSD", State: signal.StateLoading})
	b.Publish(loadedSnapshot())

	assert.Equal(t, signal.StateLoaded, b.Latest().State)
	assert.Equal(t, []signal.State{signal.StateLoading, signal.StateLoaded}, seen)
}

func get(t *testing.T, h http.Handler, path string) (*http.Response, []byte) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, body
}

func TestRouter_Healthz(t *testing.T) {
	res, body := get(t, NewRouter(NewBoard(), nopLogger{}), "/healthz")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestRouter_Pairs(t *testing.T) {
	res, body := get(t, NewRouter(NewBoard(), nopLogger{}), "/api/pairs")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out []pairView
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out, len(signal.Pairs))
	assert.Equal(t, pairView{Key: "frxEURUSD", Label: "EUR/USD"}, out[0])
}

func TestRouter_SignalUnavailable(t *testing.T) {
	b := NewBoard()
	b.Publish(signal.Snapshot{Pair: "frxUSDJPY", State: signal.StateUnavailable})

	res, body := get(t, NewRouter(b, nopLogger{}), "/api/signal")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.JSONEq(t, `{"pair":"frxUSDJPY","label":"USD/JPY","state":"unavailable","countdown":0}`, string(body))
}

func TestRouter_SignalLoaded(t *testing.T) {
	b := NewBoard()
	b.Publish(loadedSnapshot())

	res, body := get(t, NewRouter(b, nopLogger{}), "/api/signal")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var v signalView
	require.NoError(t, json.Unmarshal(body, &v))
	assert.Equal(t, "EUR/USD", v.Label)
	assert.Equal(t, "loaded", v.State)
	assert.Equal(t, "GREEN", v.Direction)
	assert.Equal(t, "BUY", v.Action)
	assert.Equal(t, "82", v.Confidence)
	assert.Equal(t, "1.23456", v.LivePrice)
	assert.Equal(t, "1.23999", v.PredictedPrice)
	assert.Equal(t, "+0.44%", v.Change)
	assert.Equal(t, "02:29", v.Timer)
	assert.Equal(t, 149, v.Countdown)
	require.NotNil(t, v.UpdatedAt)
	assert.True(t, updated.Equal(*v.UpdatedAt))
}

func TestRouter_Metrics(t *testing.T) {
	res, body := get(t, NewRouter(NewBoard(), nopLogger{}), "/metrics")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRouter_UnknownRoute(t *testing.T) {
	res, _ := get(t, NewRouter(NewBoard(), nopLogger{}), "/nope")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestHTTPServer_ServeAndStop(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewHTTPServer("", NewBoard(), nopLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	require.Eventually(t, func() bool {
		res, err := http.Get("http://" + lis.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestHTTPServer_RunBadAddress(t *testing.T) {
	s := NewHTTPServer("127.0.0.1:99999", NewBoard(), nopLogger{})
	assert.Error(t, s.Run(context.Background()))
}
