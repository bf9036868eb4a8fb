// Package cli provides the interactive SignalDesk terminal client.
//
// It wires configuration, storage, the account and session services, the
// admin gate and the signal poller into a REPL. Typical flow: log in, watch
// the live dashboard for a pair, return to the prompt with Enter.
//
// Key features:
//   - Login / Logout / Whoami with device binding
//   - Live dashboard (watch) and public preview with a per-second countdown
//   - Admin unlock and user management
//   - Optional status HTTP and gRPC health servers
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
