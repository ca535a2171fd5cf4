package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Application
	AppEnv   string
	LogLevel string

	// Economy
	InitialCoins     int64
	CheckInRewardMin int64
	CheckInRewardMax int64
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "coinarena"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "coinarena_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		InitialCoins:     getEnvInt64("INITIAL_COINS", 1000),
		CheckInRewardMin: getEnvInt64("CHECK_IN_REWARD_MIN", 50),
		CheckInRewardMax: getEnvInt64("CHECK_IN_REWARD_MAX", 200),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if _, err := strconv.Atoi(c.DBPort); err != nil {
		return fmt.Errorf("DB_PORT must be numeric: %w", err)
	}
	if c.InitialCoins < 0 {
		return fmt.Errorf("INITIAL_COINS must not be negative")
	}
	if c.CheckInRewardMin <= 0 {
		return fmt.Errorf("CHECK_IN_REWARD_MIN must be positive")
	}
	if c.CheckInRewardMax < c.CheckInRewardMin {
		return fmt.Errorf("CHECK_IN_REWARD_MAX must not be below CHECK_IN_REWARD_MIN")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
