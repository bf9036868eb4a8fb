package status

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/signaldesk/internal/logging"
	"github.com/dmitrijs2005/signaldesk/internal/metrics"
	"github.com/dmitrijs2005/signaldesk/internal/signal"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

// signalView is the JSON shape of /api/signal.
type signalView struct {
	Pair           string     `json:"pair"`
	Label          string     `json:"label"`
	State          string     `json:"state"`
	Direction      string     `json:"direction,omitempty"`
	Action         string     `json:"action,omitempty"`
	Confidence     string     `json:"confidence,omitempty"`
	LivePrice      string     `json:"live_price,omitempty"`
	PredictedPrice string     `json:"predicted_price,omitempty"`
	Change         string     `json:"change,omitempty"`
	Timer          string     `json:"timer,omitempty"`
	Countdown      int        `json:"countdown"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

type pairView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func NewRouter(b *Board, l logging.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(l))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/signal", getSignal(b))
		r.Get("/pairs", getPairs)
	})

	return r
}

// getSignal answers 503 with the poller state whenever no valid signal is
// held, so probes can treat the body as optional.
func getSignal(b *Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := b.Latest()
		v := signalView{
			Pair:      s.Pair,
			Label:     signal.Label(s.Pair),
			State:     s.State.String(),
			Countdown: s.Countdown,
		}

		if s.State != signal.StateLoaded || s.Signal == nil {
			respondJSON(w, v, http.StatusServiceUnavailable)
			return
		}

		sig := s.Signal
		v.Direction = string(sig.Direction)
		v.Action = sig.Direction.Action()
		v.Confidence = sig.Confidence.String()
		v.LivePrice = sig.LivePrice.StringFixed(5)
		v.PredictedPrice = sig.PredictedPrice.StringFixed(5)
		v.Change = sig.FormatChange()
		v.Timer = sig.Timer
		if !s.UpdatedAt.IsZero() {
			at := s.UpdatedAt.UTC()
			v.UpdatedAt = &at
		}
		respondJSON(w, v, http.StatusOK)
	}
}

func getPairs(w http.ResponseWriter, r *http.Request) {
	out := make([]pairView, 0, len(signal.Pairs))
	for _, p := range signal.Pairs {
		out = append(out, pairView{Key: p.Key, Label: p.Label})
	}
	respondJSON(w, out, http.StatusOK)
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// requestLogger logs each request through l instead of the standard logger,
// which would interleave with the terminal UI.
func requestLogger(l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			l.Debug(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// HTTPServer serves the status router until its context is cancelled.
type HTTPServer struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewHTTPServer(a string, b *Board, l logging.Logger) *HTTPServer {
	l = l.With("module", "status_http")
	return &HTTPServer{address: a, handler: NewRouter(b, l), logger: l}
}

func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{Handler: s.handler, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping status HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting status HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
