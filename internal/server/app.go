// Package server wires the voice diary backend together: it selects the
// storage backend, runs migrations and the optional demo seed, and serves
// the REST API and the gRPC health service until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/dmitrijs2005/voicediary/internal/server/config"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/voicediary/internal/server/rest"
	"github.com/dmitrijs2005/voicediary/internal/server/services"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/voicediary/internal/server/grpc"
)

const storeProbeInterval = 15 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	users       *services.UserService
	recordings  *services.RecordingService
	feed        *services.FeedService
	uploads     *services.UploadService
}

// openRepositoryManager is a seam for tests.
var openRepositoryManager = func(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.StoreMode {
	case config.StoreMemory:
		return repomanager.NewMemoryRepositoryManager(), nil
	case config.StorePostgres:
		db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return repomanager.NewPostgresRepositoryManager(db)
	}
	return nil, fmt.Errorf("unknown store mode %q", c.StoreMode)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSON(os.Stdout, level)

	rm, err := openRepositoryManager(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		users:       services.NewUserService(rm, logger),
		recordings:  services.NewRecordingService(rm, logger),
		feed:        services.NewFeedService(rm),
		uploads:     services.NewUploadService(rm, c, logger),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// prepareStore migrates the schema and seeds demo data into an empty store.
func (app *App) prepareStore(ctx context.Context) error {
	if err := app.repomanager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	if !app.config.SeedDemoData {
		return nil
	}
	return services.SeedDemoData(ctx, app.users, app.recordings, app.logger)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	gin.SetMode(gin.ReleaseMode)
	h := rest.NewHandler(app.users, app.recordings, app.feed, app.uploads, app.logger)
	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, rest.NewRouter(h, app.config.CORSAllowOrigins), app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.repomanager.Ping, storeProbeInterval)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	defer func() {
		if err := app.repomanager.Close(); err != nil {
			app.logger.Error(context.Background(), "close store", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreMode)

	app.initSignalHandler(ctx, cancelFunc)

	if err := app.prepareStore(ctx); err != nil {
		return err
	}

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return nil
}
