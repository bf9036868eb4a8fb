package cli

import (
	"context"
	"os"
	"sync"

	"github.com/dmitrijs2005/signaldesk/internal/logging"
	"github.com/dmitrijs2005/signaldesk/internal/status"
)

// startStatusServers runs the status HTTP API and, when configured, the
// gRPC health server. A server that fails to start cancels the app.
func (a *App) startStatusServers(ctx context.Context, cancelFunc context.CancelFunc, wg *sync.WaitGroup) {
	logger := logging.New(os.Stderr, "json", a.config.LogLevel).With("module", "status")

	hs := status.NewHTTPServer(a.config.StatusAddr, a.board, logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hs.Run(ctx); err != nil {
			logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	if a.config.GRPCAddr == "" {
		return
	}

	gs := status.NewHealthServer(a.config.GRPCAddr, logger)
	gs.Track(a.board)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := gs.Run(ctx); err != nil {
			logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()
}
