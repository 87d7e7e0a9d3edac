package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"money-tracker-go-be/config"
	"money-tracker-go-be/models"
)

// Connect opens the database selected by cfg and migrates every model.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseDriver == config.DriverSQLite {
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		return Open(sqlite.Open(cfg.SQLitePath))
	}
	return Open(postgres.Open(cfg.PostgresDSN()))
}

// OpenSQLite opens an SQLite database from a path or DSN, e.g.
// "file:test?mode=memory&cache=shared" for tests.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	return Open(sqlite.Open(dsn))
}

func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(gormWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info().Str("dialect", dialector.Name()).Msg("Connected to database successfully")

	log.Info().Msg("Running migrations...")
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	log.Info().Msg("Database migrated successfully")

	return db, nil
}

// gormWriter sends gorm's slow-query and error lines to zerolog.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...any) {
	log.Warn().Str("component", "gorm").Msgf(format, args...)
}
