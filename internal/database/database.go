package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arent-kient/api-key-dashboard/internal/config"
	"github.com/arent-kient/api-key-dashboard/internal/models"
)

// InitDB opens the Postgres connection described by cfg and migrates the schema
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DatabaseDSN()
	if dsn == "" {
		return nil, fmt.Errorf("missing required database environment variables. Set DATABASE_URL or DB_HOST, DB_PORT, DB_USER, DB_PASSWORD and DB_NAME")
	}

	// Configure GORM logger
	gormLogger := logger.New(
		logrus.StandardLogger(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// gen_random_uuid() is built in from Postgres 13; pgcrypto covers older servers
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		logrus.Warnf("Failed to enable pgcrypto extension: %v", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logrus.Info("Database connection established and migrations completed")
	return db, nil
}

// Migrate creates or updates the users and api_keys tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.APIKey{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
