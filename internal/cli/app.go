package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/signaldesk/internal/accounts"
	"github.com/dmitrijs2005/signaldesk/internal/admin"
	"github.com/dmitrijs2005/signaldesk/internal/auth"
	"github.com/dmitrijs2005/signaldesk/internal/common"
	"github.com/dmitrijs2005/signaldesk/internal/config"
	"github.com/dmitrijs2005/signaldesk/internal/cryptox"
	"github.com/dmitrijs2005/signaldesk/internal/fingerprint"
	"github.com/dmitrijs2005/signaldesk/internal/logging"
	"github.com/dmitrijs2005/signaldesk/internal/signal"
	"github.com/dmitrijs2005/signaldesk/internal/status"
	"github.com/dmitrijs2005/signaldesk/internal/storage"
	"golang.org/x/term"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// AuthService is the session surface the CLI drives. *auth.Manager
// satisfies it.
type AuthService interface {
	Login(ctx context.Context, username string, secret []byte) (*auth.Session, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*auth.Session, error)
	CurrentAccount(ctx context.Context) (*accounts.Account, error)
}

// AdminService is the admin surface the CLI drives. *admin.Service
// satisfies it.
type AdminService interface {
	Unlock(password []byte) (string, error)
	ListUsers(ctx context.Context, token string) ([]accounts.Account, error)
	GetUser(ctx context.Context, token, id string) (*accounts.Account, error)
	AddUser(ctx context.Context, token string, in admin.AddInput) (*accounts.Account, error)
	UpdateUser(ctx context.Context, token, id string, in admin.EditInput) (*accounts.Account, error)
	DeleteUser(ctx context.Context, token, id string) error
}

type App struct {
	config       *config.Config
	logger       logging.Logger
	kv           storage.Store
	authService  AuthService
	adminService AdminService
	fetcher      signal.Fetcher
	scheduler    signal.Scheduler
	board        *status.Board
	reader       *bufio.Reader
	out          io.Writer
	ansi         bool
	now          func() time.Time

	mu         sync.Mutex
	userName   string
	adminToken string
	Mode       Mode
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.New(os.Stderr, "text", c.LogLevel)

	kv, err := storage.Open(ctx, storage.Options{
		Driver: c.StorageDriver,
		DSN:    c.StorageDSN,
		S3: storage.S3Options{
			Bucket:    c.S3Bucket,
			Prefix:    c.S3Prefix,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	app, err := newApp(ctx, c, kv, logger)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return app, nil
}

// newApp wires the services on top of an opened store.
func newApp(ctx context.Context, c *config.Config, kv storage.Store, logger logging.Logger) (*App, error) {
	store := accounts.NewStore(kv)
	reset, err := store.Init(ctx, accounts.CorruptPolicy(c.CorruptPolicy))
	if err != nil {
		return nil, fmt.Errorf("accounts init error: %w", err)
	}
	if reset {
		logger.Warn(ctx, "account list was unreadable and has been reset", "key", accounts.StorageKey)
	}

	am := auth.NewManager(store, kv, fingerprint.NewFingerprinter(kv), auth.WithLogger(logger.With("module", "auth")))

	hash, err := adminPasswordHash(c)
	if err != nil {
		return nil, err
	}
	secret := []byte(c.AdminTokenSecret)
	if len(secret) == 0 {
		secret = common.GenerateRandByteArray(32)
	}
	as := admin.NewService(admin.NewGate(hash, secret, c.AdminTokenTTL), am)

	return &App{
		config:       c,
		logger:       logger,
		kv:           kv,
		authService:  am,
		adminService: as,
		fetcher:      signal.NewHTTPFetcher(c.SignalURL, c.RequestTimeout),
		scheduler:    signal.TickerScheduler{},
		board:        status.NewBoard(),
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
		ansi:         term.IsTerminal(int(os.Stdout.Fd())),
		now:          time.Now,
	}, nil
}

func adminPasswordHash(c *config.Config) (string, error) {
	if c.AdminPasswordHash != "" || c.AdminPassword == "" {
		return c.AdminPasswordHash, nil
	}
	h, err := cryptox.HashMasterPassword([]byte(c.AdminPassword))
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}
	return h, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		a.logger.Info(context.Background(), "signal service status changed", "mode", string(mode))
	}
}

func (a *App) setUserName(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

func (a *App) token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.adminToken
}

func (a *App) setToken(t string) {
	a.mu.Lock()
	a.adminToken = t
	a.mu.Unlock()
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	sess, err := a.authService.Session(ctx)
	if err != nil {
		a.logger.Error(ctx, "session lookup failed", "error", err)
		return false
	}
	if sess == nil {
		a.setUserName("")
		return false
	}
	a.setUserName(sess.Username)
	return true
}

func (a *App) isAdmin() bool {
	return a.token() != ""
}

// Run restores a persisted session, starts the background services and
// blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if a.config.StatusAddr != "" {
		a.startStatusServers(ctx, cancel, &wg)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	a.Root(ctx)

	cancel()
	wg.Wait()
}

// Root prints the greeting and runs the REPL on stdin.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to SignalDesk (type 'help' for commands)")
	if a.isLoggedIn(ctx) {
		_ = a.Whoami(ctx)
	}
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.userName
	if a.Mode != ModeUnknown {
		if s != "" {
			s += " "
		}
		s += string(a.Mode)
	}
	if a.adminToken != "" {
		if s != "" {
			s += " "
		}
		s += "admin"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher probes the signal service every interval and
// flips Mode between online and offline.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) probe(ctx context.Context) {
	_, err := a.fetcher.Fetch(ctx, signal.DefaultDashboardPair)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) Close() {
	if a.kv == nil {
		return
	}
	if err := a.kv.Close(); err != nil {
		a.logger.Error(context.Background(), "storage close failed", "error", err)
	}
}
