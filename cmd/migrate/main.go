package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/kidwild/coinarena/internal/config"
	"github.com/kidwild/coinarena/internal/database"
	"github.com/kidwild/coinarena/pkg/logger"
)

// One-shot ops entrypoint: builds the schema, folds in legacy roulette
// data and seeds the achievement catalog. Safe to rerun.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting database migration...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", err)
	}

	// Validate production security settings
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Build schema and migrate legacy data
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed the achievement catalog
	if err := database.SeedAchievements(db); err != nil {
		logger.Fatal("Failed to seed achievements", err)
	}

	logger.Info("Migration completed", "env", cfg.AppEnv)
}
