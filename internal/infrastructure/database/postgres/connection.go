// Package postgres provides the optional job-history store: a record of
// every generated package (who, when, with which parameters, stored where).
// The wizard itself never reads this; it exists for auditing and for listing
// past jobs through the API.
package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver

	"github.com/anhth20011/dockprep/internal/config"
	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/anhth20011/dockprep/pkg/errors"
)

// Connection manages the PostgreSQL connection pool.
type Connection struct {
	db  *sql.DB
	log logging.Logger
}

// NewConnection opens and verifies a pooled connection using cfg.
func NewConnection(ctx context.Context, cfg config.DatabaseConfig, log logging.Logger) (*Connection, error) {
	conn, err := newConnectionFromDSN(ctx, cfg.DSN(), cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	conn.log = log.Named("postgres")
	conn.log.Info("database connected",
		logging.String("host", cfg.Host),
		logging.String("db", cfg.DBName))
	return conn, nil
}

// newConnectionFromDSN opens a pool from a raw DSN; cfg supplies only the
// pool limits. Split out so tests can dial DOCKPREP_TEST_DATABASE_URL.
func newConnectionFromDSN(ctx context.Context, dsn string, cfg config.DatabaseConfig) (*Connection, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "opening database connection")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "pinging database")
	}

	return &Connection{db: db, log: logging.NewNopLogger()}, nil
}

// DB exposes the underlying pool for repositories.
func (c *Connection) DB() *sql.DB { return c.db }

// Ping verifies the connection is still alive; used by the readiness probe.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "database unreachable")
	}
	return nil
}

// Close releases the pool.
func (c *Connection) Close() error {
	return c.db.Close()
}
