// Package server assembles DocFlow: database, object store, mail transport,
// services and the HTTP API. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/docflow/internal/logging"
	"github.com/dmitrijs2005/docflow/internal/server/config"
	"github.com/dmitrijs2005/docflow/internal/server/httpapi"
	"github.com/dmitrijs2005/docflow/internal/server/mail"
	"github.com/dmitrijs2005/docflow/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/docflow/internal/server/services"
	"github.com/dmitrijs2005/docflow/internal/server/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Seams for tests.
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}

	newObjectStore = func(ctx context.Context, cfg *config.Config) (storage.ObjectStore, error) {
		s, err := storage.NewS3Store(ctx, storage.S3Config{
			AccessKey:          cfg.S3AccessKey,
			SecretKey:          cfg.S3SecretKey,
			Bucket:             cfg.S3Bucket,
			Region:             cfg.S3Region,
			BaseEndpoint:       cfg.S3BaseEndpoint,
			UsePathStyle:       cfg.S3UsePathStyle,
			MultipartThreshold: cfg.S3MultipartThreshold,
		})
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	}
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	identity *services.IdentityService
	http     *httpapi.Server
}

// NewApp connects to the database, applies migrations and prepares the
// object store before wiring the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := newObjectStore(ctx, c)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	mailer := mail.NewSMTPSender(c.SMTPHost, c.SMTPPort, c.SMTPUsername, c.SMTPPassword, c.SMTPFrom)

	return assemble(c, logger, db, m, store, mailer), nil
}

func assemble(c *config.Config, logger logging.Logger, db *sql.DB, m repomanager.RepositoryManager,
	store storage.ObjectStore, mailer mail.Sender) *App {

	locator := storage.NewLocator(c.S3BaseEndpoint, c.S3Bucket, c.S3Region)

	identity := services.NewIdentityService(db, m, c, logger)
	metadata := services.NewMetadataService(db, m, store, locator, c, logger)
	documents := services.NewDocumentService(metadata, store, locator, logger)
	notifications := services.NewNotificationService(db, m, logger)
	sharing := services.NewSharingService(db, m, metadata, notifications, store, locator, mailer, c, logger)
	comments := services.NewCommentService(db, m, logger)

	srv := httpapi.NewServer(c, httpapi.Services{
		Identity:      identity,
		Documents:     documents,
		Metadata:      metadata,
		Sharing:       sharing,
		Notifications: notifications,
		Comments:      comments,
	}, logger)

	return &App{config: c, logger: logger, db: db, identity: identity, http: srv}
}

// Identity exposes account administration to the command-line tooling.
func (app *App) Identity() *services.IdentityService {
	return app.identity
}

func (app *App) Close() error {
	return app.db.Close()
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
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
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

	if err := app.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
