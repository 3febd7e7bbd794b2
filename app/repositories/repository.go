package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"contentservice/app/config"
	"contentservice/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Open builds the post repository selected by cfg.Driver.
func Open(cfg config.DBConfig, withTracing bool) (PostRepository, error) {
	switch cfg.Driver {
	case config.DriverBadger:
		db, err := OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		return NewBadgerPostRepository(db), nil
	case config.DriverPostgres, config.DriverSQLite:
		db, err := OpenGorm(cfg)
		if err != nil {
			return nil, err
		}
		if withTracing {
			if err := db.Use(tracing.NewPlugin()); err != nil {
				return nil, fmt.Errorf("gorm tracing plugin: %w", err)
			}
		}
		return NewGormPostRepository(db)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// OpenBadger opens (or creates) the Badger store at path. An empty path
// opens an in-memory store.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("create badger dir: %w", err)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return db, nil
}

// OpenGorm connects to Postgres or SQLite and migrates the posts table.
func OpenGorm(cfg config.DBConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.New(
			log.New(log.Writer(), "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %q: %w", cfg.SQLitePath, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	default:
		db, err = openPostgres(cfg.DSN(), gormCfg)
		if err != nil {
			return nil, err
		}
	}

	if err := db.AutoMigrate(&models.Post{}); err != nil {
		return nil, fmt.Errorf("migrate posts: %w", err)
	}
	return db, nil
}

func openPostgres(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	sleep := time.Second
	for i := 0; i < 8; i++ {
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
		if err == nil {
			sqlDB, _ := db.DB()
			if err = pingWithTimeout(sqlDB, 2*time.Second); err == nil {
				break
			}
		}
		log.Printf("postgres not ready (attempt %d): %v", i+1, err)
		time.Sleep(sleep)
		if sleep < 8*time.Second {
			sleep *= 2
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func pingWithTimeout(sqlDB *sql.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
