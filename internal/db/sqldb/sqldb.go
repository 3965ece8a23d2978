// Package sqldb opens the relational store and owns its schema.
package sqldb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kailas-cloud/estaterec/internal/db"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds connection parameters for the relational store.
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	Logger       gormlogger.Interface
}

// Open connects to the configured database and migrates the schema.
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(cfg.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	gcfg := &gorm.Config{TranslateError: true}
	if cfg.Logger != nil {
		gcfg.Logger = cfg.Logger
	} else {
		gcfg.Logger = gormlogger.Discard
	}

	gdb, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := Migrate(gdb); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return gdb, nil
}

// Migrate creates or updates the users, properties and feedback tables.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&UserRow{}, &PropertyRow{}, &FeedbackRow{}); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	return nil
}

// Pinger adapts *gorm.DB to db.Pinger for health checks.
type Pinger struct {
	gdb *gorm.DB
}

var _ db.Pinger = (*Pinger)(nil)

// NewPinger wraps gdb.
func NewPinger(gdb *gorm.DB) *Pinger { return &Pinger{gdb: gdb} }

// Ping checks connectivity with a bounded timeout.
func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.gdb.DB()
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the connection pool.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
