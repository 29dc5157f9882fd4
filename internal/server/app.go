// Package server wires the essaydesk server together: storage, the model
// oracle, services, the gRPC endpoint and the metrics endpoint, and runs
// them until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/essaydesk/internal/logging"
	"github.com/dmitrijs2005/essaydesk/internal/server/archive"
	"github.com/dmitrijs2005/essaydesk/internal/server/config"
	"github.com/dmitrijs2005/essaydesk/internal/server/metrics"
	"github.com/dmitrijs2005/essaydesk/internal/server/oracle"
	"github.com/dmitrijs2005/essaydesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/essaydesk/internal/server/services"

	gs "github.com/dmitrijs2005/essaydesk/internal/server/grpc"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	metrics           *metrics.Metrics
	userService       *services.UserService
	submissionService *services.SubmissionService
}

// openPostgres and newPostgresManager are seams for tests.
var (
	openPostgres       = repomanager.OpenPostgres
	newPostgresManager = repomanager.NewPostgresRepositoryManager
)

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (_ *App, err error) {

	m := metrics.New()

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)

	defer func() {
		if err != nil && db != nil {
			_ = db.Close()
		}
	}()

	if c.DatabaseDSN != "" {
		db, err = openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = newPostgresManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("migrations error: %w", err)
		}
		logger.Info(ctx, "Using PostgreSQL storage")
	} else {
		rm = repomanager.NewInMemoryRepositoryManager()
		logger.Warn(ctx, "No database DSN configured, data lives in memory only")
	}

	o, err := oracle.New(c, m)
	if err != nil {
		return nil, fmt.Errorf("oracle init error: %w", err)
	}

	var exporter services.StatsExporter
	if c.S3Bucket != "" {
		exporter = archive.NewS3Exporter(c)
	}

	evaluator := services.NewEvaluator(o, c.OracleTimeout, logger)
	us := services.NewUserService(db, rm, c, m, logger)
	ss := services.NewSubmissionService(db, rm, evaluator, exporter, m, logger)

	if c.SeedDemoTeacher {
		if err := us.SeedDemoTeacher(ctx); err != nil {
			return nil, err
		}
	}

	return &App{
		config:            c,
		logger:            logger,
		db:                db,
		metrics:           m,
		userService:       us,
		submissionService: ss,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.submissionService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := metrics.NewServer(app.config.MetricsAddr, app.metrics, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "closing database", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
}
