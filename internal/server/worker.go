package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/thumbs"
	"github.com/hibiken/asynq"
)

// WorkerApp consumes background jobs: thumbnail generation and welcome
// greetings.
type WorkerApp struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	processor *thumbs.Processor
}

// NewWorkerApp wires the job processor against the same database and blob
// store the HTTP server writes to.
func NewWorkerApp(ctx context.Context, cfg *config.Config) (*WorkerApp, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	processor := thumbs.NewProcessor(rm.Files(db), rm.Users(db), blobs, logger)

	return &WorkerApp{config: cfg, logger: logger, db: db, processor: processor}, nil
}

func (app *WorkerApp) startQueueServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: app.config.RedisAddr, Password: app.config.RedisPassword},
		asynq.Config{Concurrency: app.config.WorkerConcurrency},
	)

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping worker...")
		srv.Shutdown()
	}()

	app.logger.Info(ctx, "Starting worker",
		"redis", app.config.RedisAddr, "concurrency", app.config.WorkerConcurrency)

	if err := srv.Run(app.processor.Mux()); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run starts the queue consumer and blocks until an OS signal or a fatal
// error triggers shutdown.
func (app *WorkerApp) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting worker app...")

	initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startQueueServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}
