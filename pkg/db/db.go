// Package db keeps the audit trail and the commit history in a sqlite file.
package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	wclogger "github.com/nzbgetcom/webconf/pkg/logger"
)

const (
	DefaultDBPath = "/var/lib/webconf/webconf.db"

	// DefaultBusyTimeout is how long a writer waits for the file lock
	DefaultBusyTimeout = 5 * time.Second
	// DefaultSlowQuery is the duration after which a query is logged
	DefaultSlowQuery = 500 * time.Millisecond
)

// DB is the open database, nil while auditing is disabled
var DB *gorm.DB

// Config holds database configuration
type Config struct {
	Path        string
	BusyTimeout time.Duration
	SlowQuery   time.Duration
}

// Initialize opens the database at cfg.Path and migrates the audit and commit tables
func Initialize(cfg *Config) error {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Path == "" {
		cfg.Path = DefaultDBPath
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = DefaultBusyTimeout
	}
	if cfg.SlowQuery <= 0 {
		cfg.SlowQuery = DefaultSlowQuery
	}

	// the file holds who changed which option, owner only
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0700); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dsn(cfg)), &gorm.Config{
		Logger: logger.New(&gormLogAdapter{}, logger.Config{
			SlowThreshold:             cfg.SlowQuery,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}

	// Audit rows are written from request handlers while a commit records
	// its result; one connection serializes them behind the busy timeout.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&AuditLog{}, &Commit{}); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := os.Chmod(cfg.Path, 0600); err != nil {
		wclogger.Warn("Failed to set database file permissions", "error", err)
	}

	DB = db
	wclogger.Info("Database initialized", "path", cfg.Path, "busy_timeout", cfg.BusyTimeout.String())

	return nil
}

// dsn enables the write-ahead log so history reads do not block audit writes
func dsn(cfg *Config) string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d&_foreign_keys=on",
		cfg.Path, cfg.BusyTimeout.Milliseconds())
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	DB = nil
	return sqlDB.Close()
}

// gormLogAdapter sends slow queries and driver errors to the service log.
// gorm only prints at Warn and above here.
type gormLogAdapter struct{}

func (l *gormLogAdapter) Printf(format string, args ...interface{}) {
	wclogger.Warn("Database", "message", fmt.Sprintf(format, args...))
}
