package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kidwild/coinarena/internal/config"
	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/pkg/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		SkipDefaultTransaction: true, // Skip wrapping every operation in a transaction
		PrepareStmt:            true, // Cache prepared statements
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(50)                  // Keep 50 idle connections warm
	sqlDB.SetMaxOpenConns(500)                 // Scale up to 500 connections under load
	sqlDB.SetConnMaxLifetime(time.Hour)        // Cycle connections hourly to prevent stale leaks
	sqlDB.SetConnMaxIdleTime(10 * time.Minute) // Close idle connections after 10m to free DB resources

	logger.Info("Database connected successfully")
	return db, nil
}

// AutoMigrate builds the schema and folds in any data left behind by the
// retired standalone roulette plugin.
func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.GameRoom{},
		&models.GameRecord{},
		&models.CheckInRecord{},
		&models.Achievement{},
		&models.UserAchievement{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	migrated, err := MigrateLegacyRouletteGames(db)
	if err != nil {
		return fmt.Errorf("legacy roulette migration failed: %w", err)
	}
	if migrated > 0 {
		logger.Info("Migrated legacy roulette games", "count", migrated)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}
