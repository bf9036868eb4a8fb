package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/signaldesk/internal/auth"
	"github.com/dmitrijs2005/signaldesk/internal/signal"
)

const clearScreen = "\033[H\033[2J"

// Pairs lists the catalogue.
func (a *App) Pairs(ctx context.Context) error {
	for _, p := range signal.Pairs {
		fmt.Fprintf(a.out, "  %-8s %s\n", p.Label, p.Key)
	}
	return nil
}

// Watch runs the live dashboard for a logged-in user until Enter is
// pressed. The pair defaults to USD/JPY.
func (a *App) Watch(ctx context.Context, args []string) error {
	if !a.isLoggedIn(ctx) {
		fmt.Fprintln(a.out, auth.Reason(auth.ErrNotAuthenticated))
		return auth.ErrNotAuthenticated
	}
	return a.run(ctx, args, signal.DefaultDashboardPair, a.config.DashboardInterval, "LIVE")
}

// Preview shows the public signal preview, refreshed every 10s by default.
// The pair defaults to EUR/USD.
func (a *App) Preview(ctx context.Context, args []string) error {
	return a.run(ctx, args, signal.DefaultPreviewPair, a.config.PreviewInterval, "PREVIEW")
}

func (a *App) run(ctx context.Context, args []string, defaultPair string, interval time.Duration, title string) error {
	pair := defaultPair
	if len(args) > 0 {
		p, err := signal.LookupPair(strings.Join(args, ""))
		if err != nil {
			fmt.Fprintf(a.out, "Unknown pair %q, see 'pairs'\n", strings.Join(args, " "))
			return err
		}
		pair = p.Key
	}

	poller := signal.NewPoller(a.fetcher, interval,
		signal.WithScheduler(a.scheduler),
		signal.WithLogger(a.logger.With("module", "poller")),
	)

	var mu sync.Mutex
	poller.OnChange(func(s signal.Snapshot) {
		a.board.Publish(s)
		a.setMode(modeFor(s.State, a.modeSnapshot()))

		mu.Lock()
		defer mu.Unlock()
		if a.ansi {
			fmt.Fprint(a.out, clearScreen)
		}
		renderCard(a.out, title, s, interval)
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := poller.Start(ctx, pair); err != nil {
		return err
	}
	waitForEnter(a.reader, ctx.Done())
	poller.Stop()

	mu.Lock()
	fmt.Fprintln(a.out)
	mu.Unlock()
	return nil
}

func (a *App) modeSnapshot() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

// modeFor derives the service mode from a poller state; loading keeps the
// current mode.
func modeFor(s signal.State, current Mode) Mode {
	switch s {
	case signal.StateLoaded:
		return ModeOnline
	case signal.StateUnavailable:
		return ModeOffline
	}
	return current
}

// renderCard draws one frame of the signal card.
func renderCard(w io.Writer, title string, s signal.Snapshot, interval time.Duration) {
	label := signal.Label(s.Pair)
	fmt.Fprintf(w, "=== %s  %s ===\n", label, title)

	switch s.State {
	case signal.StateLoading:
		fmt.Fprintf(w, "Loading %s...\n", label)

	case signal.StateUnavailable:
		fmt.Fprintln(w, "SERVER OFFLINE")
		fmt.Fprintf(w, "Signal service unavailable, retrying every %s.\n", interval)

	case signal.StateLoaded:
		sig := s.Signal
		fmt.Fprintf(w, "%s  (%s)\n", sig.Direction.Action(), sig.Direction)
		fmt.Fprintf(w, "Confidence:  %s%%\n", sig.Confidence.String())
		fmt.Fprintf(w, "Live:        %s\n", sig.LivePrice.StringFixed(5))
		fmt.Fprintf(w, "Predicted:   %s  (%s)\n", sig.PredictedPrice.StringFixed(5), sig.FormatChange())
		fmt.Fprintf(w, "Next update: %s\n", sig.Timer)

	default:
		fmt.Fprintln(w, "Stopped")
	}

	fmt.Fprintln(w, "(press Enter to return)")
}
