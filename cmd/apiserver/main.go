// Command apiserver runs the dockprep HTTP service: the wizard-style session
// API, result parsing, and the optional artifact store and job history.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anhth20011/dockprep/internal/application/bundle"
	"github.com/anhth20011/dockprep/internal/application/workflow"
	"github.com/anhth20011/dockprep/internal/config"
	"github.com/anhth20011/dockprep/internal/infrastructure/database/postgres"
	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/prometheus"
	"github.com/anhth20011/dockprep/internal/infrastructure/storage/minio"
	httpserver "github.com/anhth20011/dockprep/internal/interfaces/http"
	"github.com/anhth20011/dockprep/internal/interfaces/http/handlers"
)

// Version is injected via ldflags.
var Version = "dev"

const startupTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	log, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: initializing logger: %v\n", err)
		os.Exit(1)
	}
	log.Info("starting dockprep apiserver",
		logging.String("version", Version),
		logging.Int("port", cfg.Server.Port))

	if err := run(cfg, log); err != nil {
		log.Fatal("apiserver failed", logging.Err(err))
	}
}

func run(cfg *config.Config, log logging.Logger) error {
	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	metrics := prometheus.NewMetrics("dockprep")
	sessions := workflow.NewManager()
	assembler := bundle.NewAssembler(cfg.Engine.Binary, cfg.Engine.PrepTool, log)

	var checkers []handlers.HealthChecker

	var artifacts *minio.ArtifactStore
	if cfg.Storage.Enabled() {
		store, err := minio.NewArtifactStore(cfg.Storage, log)
		if err != nil {
			return fmt.Errorf("connecting artifact store: %w", err)
		}
		if err := store.EnsureBucket(startCtx); err != nil {
			return fmt.Errorf("preparing artifact bucket: %w", err)
		}
		artifacts = store
		checkers = append(checkers, storageChecker{store: store})
		log.Info("artifact store enabled",
			logging.String("endpoint", cfg.Storage.Endpoint),
			logging.String("bucket", cfg.Storage.Bucket))
	}

	var jobs *postgres.JobRepository
	if cfg.Database.Enabled() {
		c, err := postgres.NewConnection(startCtx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("connecting database: %w", err)
		}
		defer c.Close()
		if err := postgres.RunMigrations(cfg.Database.DSN(), cfg.Database.MigrationsPath); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		jobs = postgres.NewJobRepository(c, log)
		checkers = append(checkers, databaseChecker{conn: c})
		log.Info("job history enabled",
			logging.String("host", cfg.Database.Host),
			logging.String("database", cfg.Database.DBName))
	}

	routerCfg := httpserver.RouterConfig{
		SessionHandler: handlers.NewSessionHandler(
			sessions, assembler,
			nilIfNoStore(artifacts), nilIfNoRepo(jobs),
			metrics, log, cfg.Server.MaxUploadBytes,
		),
		ResultHandler: handlers.NewResultHandler(metrics, cfg.Server.MaxUploadBytes),
		HealthHandler: handlers.NewHealthHandler(Version, checkers...),
		Logger:        log,
		Metrics:       metrics,
	}
	if jobs != nil {
		routerCfg.JobsHandler = handlers.NewJobsHandler(jobs, nilIfNoLinker(artifacts), log)
	}

	srv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("received signal", logging.String("signal", sig.String()))
	}

	return srv.Stop(context.Background())
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

// The session handler takes small interfaces; a typed-nil *ArtifactStore
// stored in an interface would not compare equal to nil, so the conversions
// go through these helpers.

func nilIfNoStore(s *minio.ArtifactStore) handlers.ArtifactStore {
	if s == nil {
		return nil
	}
	return s
}

func nilIfNoLinker(s *minio.ArtifactStore) handlers.ArtifactLinker {
	if s == nil {
		return nil
	}
	return s
}

func nilIfNoRepo(r *postgres.JobRepository) handlers.JobHistory {
	if r == nil {
		return nil
	}
	return r
}

type storageChecker struct {
	store *minio.ArtifactStore
}

func (c storageChecker) Name() string { return "storage" }
func (c storageChecker) Check(ctx context.Context) error {
	return c.store.EnsureBucket(ctx)
}

type databaseChecker struct {
	conn *postgres.Connection
}

func (c databaseChecker) Name() string { return "database" }
func (c databaseChecker) Check(ctx context.Context) error {
	return c.conn.Ping(ctx)
}
