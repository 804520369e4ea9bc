package db

import (
	"fmt"
	"github.com/PayRam/go-collection/internal/config"
	"github.com/PayRam/go-collection/internal/migration"
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"log/slog"
)

// Dialector picks the gorm dialector for the configured driver.
func Dialector(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return sqlite.Open(cfg.DSN), nil
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// InitDB opens the configured database. Migrations are not run here.
func InitDB(cfg config.DBConfig, logger gormlogger.Interface) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	gormConfig := &gorm.Config{}
	if logger != nil {
		gormConfig.Logger = logger
	}
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate runs every pending migration.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		migration.CreateUsers,
	})
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	slog.Debug("database migrations applied")
	return nil
}
