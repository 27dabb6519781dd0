// Package server initializes and runs the main application server:
// database and migrations, image storage selection, the service layer,
// and the HTTP endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/boxdrop/boxdrop/internal/logging"
	"github.com/boxdrop/boxdrop/internal/server/config"
	httpapp "github.com/boxdrop/boxdrop/internal/server/http"
	"github.com/boxdrop/boxdrop/internal/server/images"
	"github.com/boxdrop/boxdrop/internal/server/repositories/repomanager"
	"github.com/boxdrop/boxdrop/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	boxService  *services.BoxService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	imageStore, err := newImageStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("image store init error: %w", err)
	}

	us := services.NewUserService(db, rm, cfg)
	bs := services.NewBoxService(db, rm, imageStore, cfg)

	return &App{config: cfg, logger: logger, db: db, userService: us, boxService: bs}, nil
}

// newImageStore picks the image backend: S3 when an endpoint is configured,
// local disk otherwise.
func newImageStore(cfg *config.Config) (images.Store, error) {
	if cfg.S3BaseEndpoint != "" {
		return images.NewS3Store(cfg), nil
	}
	return images.NewLocalStore(cfg.ImageDir)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapp.NewServer(app.config, app.logger, app.userService, app.boxService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err.Error())
	}
}
