package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/arestate/internal/client/client"
	"github.com/dmitrijs2005/arestate/internal/client/config"
	"github.com/dmitrijs2005/arestate/internal/client/credentials"
	"github.com/dmitrijs2005/arestate/internal/client/notify"
	"github.com/dmitrijs2005/arestate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/arestate/internal/client/services"
	"github.com/dmitrijs2005/arestate/internal/client/session"
	"github.com/dmitrijs2005/arestate/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	logger      logging.Logger
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the local database and wires the auth stack. Notifications
// and prompts go to stdout, logs to stderr.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	apiClient := client.NewRESTClient(c.ServerURL, logger)
	store := session.NewStore(apiClient, logger)
	creds := credentials.NewCache(metadata.NewSQLiteRepository(db), logger)
	creds.Init(ctx)

	as := services.NewAuthService(apiClient, store, creds, notify.NewConsoleNotifier(os.Stdout), logger)

	return &App{
		config:      c,
		authService: as,
		logger:      logger,
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

// Run blocks in the REPL until the user exits or ctx is done, then waits
// (bounded) for background requests and closes local storage.
func (a *App) Run(ctx context.Context) {
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := a.authService.Close(closeCtx); err != nil {
			a.logger.Warn(ctx, "close client", "error", err)
		}
		if a.db != nil {
			_ = a.db.Close()
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.authService.Session(ctx).Authenticated()
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.logger.Info(ctx, "connectivity changed", "mode", mode)
	}
}

// StartOnlineStatusWatcher pings the backend every interval and records
// whether it is reachable.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.authService.Ping(pingCtx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}
