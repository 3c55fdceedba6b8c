package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/client/capture"
	"github.com/dmitrijs2005/voicediary/internal/client/client"
	"github.com/dmitrijs2005/voicediary/internal/client/config"
	"github.com/dmitrijs2005/voicediary/internal/client/identity"
	"github.com/dmitrijs2005/voicediary/internal/client/publish"
	"github.com/dmitrijs2005/voicediary/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/dmitrijs2005/voicediary/internal/client/models"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

// pinger reports whether the server is reachable.
type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	api      client.API
	health   pinger
	identity *identity.Provider
	recorder publish.Recorder
	uploader publish.Uploader
	// resolveURL turns a stored audio location into something playable.
	resolveURL func(string) string
	closers    []func() error

	mu       sync.Mutex
	mode     Mode
	user     *models.User
	workflow *publish.Workflow
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewText(os.Stderr, slog.LevelWarn)

	db, err := client.InitDatabase(ctx, c.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	hc := &http.Client{Timeout: c.RequestTimeout}
	api, err := client.NewHTTPClient(c.APIBaseURL, hc)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	health, err := client.NewHealthClient(c.HealthEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	device := capture.NewFFMPEGCapture(c.FFmpegPath, c.CaptureFormat, c.CaptureDevice)

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		api:        api,
		health:     health,
		identity:   identity.NewProvider(api, metadata.NewSQLiteRepository(db), logger),
		recorder:   capture.NewRecorder(device, logger),
		uploader:   client.NewUploader(api, hc),
		resolveURL: api.ResolveURL,
		closers:    []func() error{health.Close, db.Close},
		mode:       ModeOffline,
	}, nil
}

// Run resolves the identity, starts the online watcher and blocks in the
// REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.close()

	if _, err := a.ensureUser(ctx); err != nil {
		a.logger.Warn(ctx, "identity not resolved yet", "error", err)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.Root(ctx)
	return nil
}

func (a *App) close() {
	if a.recorder != nil && a.recorder.State() == capture.StateRecording {
		_, _ = a.recorder.Stop()
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn(context.Background(), "close", "error", err)
		}
	}
}

func (a *App) getMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		printlnFn(fmt.Sprintf("Switched to %s mode", mode))
	}
}

// checkOnline probes the server once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.health.Ping(ctx)
	cancel()

	if err != nil {
		a.logger.Debug(ctx, "health probe failed", "error", err)
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher probes the server every interval until ctx is
// done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	a.checkOnline(ctx)

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

// ensureUser returns the cached user, resolving it through the identity
// provider on first use.
func (a *App) ensureUser(ctx context.Context) (*models.User, error) {
	a.mu.Lock()
	u := a.user
	a.mu.Unlock()
	if u != nil {
		return u, nil
	}

	u, err := a.identity.GetOrCreate(ctx, "")
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.user = u
	a.mu.Unlock()
	return u, nil
}

// viewerID is the cached user id, empty when no identity is known yet.
func (a *App) viewerID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return ""
	}
	return a.user.ID
}

// currentWorkflow returns the active workflow, starting a fresh one when
// none exists or the previous one finished.
func (a *App) currentWorkflow(ctx context.Context) (*publish.Workflow, error) {
	a.mu.Lock()
	w := a.workflow
	a.mu.Unlock()
	if w != nil && !w.Terminal() {
		return w, nil
	}

	u, err := a.ensureUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot start a new entry without an identity: %w", err)
	}

	w = publish.New(a.recorder, a.uploader, a.api, u.ID, a.logger)
	a.mu.Lock()
	a.workflow = w
	a.mu.Unlock()
	return w, nil
}

// activeWorkflow returns the workflow in progress or an error when there is
// none.
func (a *App) activeWorkflow() (*publish.Workflow, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.workflow == nil {
		return nil, errNoEntry
	}
	return a.workflow, nil
}

var errNoEntry = errors.New("no entry in progress, type 'record' to start one")
