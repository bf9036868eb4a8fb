package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/signaldesk/internal/config"
	"github.com/dmitrijs2005/signaldesk/internal/logging"
	"github.com/dmitrijs2005/signaldesk/internal/signal"
	"github.com/dmitrijs2005/signaldesk/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// syncBuffer is a bytes.Buffer safe for the poller's goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type stubFetcher struct {
	sig *signal.Signal
	err error
}

func (f stubFetcher) Fetch(context.Context, string) (*signal.Signal, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.sig
	return &cp, nil
}

// idleScheduler never fires; only the poller's initial fetch runs.
type idleScheduler struct{}

func (idleScheduler) Every(time.Duration, func()) func() { return func() {} }

func sampleSignal() *signal.Signal {
	return &signal.Signal{
		Direction:      signal.Green,
		Confidence:     decimal.NewFromInt(82),
		LivePrice:      decimal.RequireFromString("1.23456"),
		PredictedPrice: decimal.RequireFromString("1.23999"),
		Timer:          "02:30",
	}
}

// newTestApp wires the real services over an in-memory store. The master
// password is "master".
func newTestApp(t *testing.T) (*App, *syncBuffer) {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AdminPassword = "master"
	cfg.AdminTokenSecret = "test-secret"

	app, err := newApp(context.Background(), cfg, storage.NewMemoryStore(), nopLogger{})
	require.NoError(t, err)

	out := &syncBuffer{}
	app.out = out
	app.reader = bufio.NewReader(strings.NewReader(""))
	app.fetcher = stubFetcher{sig: sampleSignal()}
	app.scheduler = idleScheduler{}
	app.ansi = false
	return app, out
}

// stubInputs answers text prompts and password prompts from the given
// queues, in order. An exhausted queue yields io.EOF.
func stubInputs(t *testing.T, texts []string, passwords ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword

	var mu sync.Mutex
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(texts) == 0 {
			return "", io.EOF
		}
		v := texts[0]
		texts = texts[1:]
		return v, nil
	}
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		v := passwords[0]
		passwords = passwords[1:]
		return []byte(v), nil
	}

	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func stubConfirm(t *testing.T, answer bool) {
	t.Helper()
	orig := confirm
	confirm = func(*bufio.Reader, string, io.Writer) (bool, error) { return answer, nil }
	t.Cleanup(func() { confirm = orig })
}

// newBlockingReader returns a reader whose reads block until the writer
// side is written to or closed.
func newBlockingReader() (*bufio.Reader, *io.PipeWriter) {
	pr, pw := io.Pipe()
	return bufio.NewReader(pr), pw
}
