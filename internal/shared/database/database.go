package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoDatabaseURL is returned when the connection string is empty
var ErrNoDatabaseURL = errors.New("DATABASE_URL is empty")

// DB exposes the GORM handle used by the audit store and the pooled
// sql.DB underneath it (health pings, shutdown).
type DB struct {
	*sql.DB
	GORM *gorm.DB
}

// PoolOptions bounds the connection pool. The audit table sees one insert
// per pipeline pass, so the defaults are small.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func DefaultPoolOptions() PoolOptions {
	return PoolOptions{MaxOpenConns: 10, MaxIdleConns: 2, ConnMaxLifetime: time.Hour}
}

// NewDB opens a postgres connection through GORM and verifies it with a
// ping bounded by ctx.
func NewDB(ctx context.Context, connStr string, pool PoolOptions) (*DB, error) {
	if connStr == "" {
		return nil, ErrNoDatabaseURL
	}

	gormDB, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	stats := sqlDB.Stats()
	log.Info().Int("max_open", stats.MaxOpenConnections).Msg("database connected")
	return &DB{DB: sqlDB, GORM: gormDB}, nil
}

func (db *DB) Close() error {
	log.Info().Msg("closing database connection")
	return db.DB.Close()
}
