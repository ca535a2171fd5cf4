package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// Set required environment variables
	os.Setenv("DB_PASSWORD", "test_password")
	os.Setenv("INITIAL_COINS", "2500")
	defer func() {
		os.Unsetenv("DB_PASSWORD")
		os.Unsetenv("INITIAL_COINS")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DBPassword != "test_password" {
		t.Errorf("DBPassword = %q, want %q", cfg.DBPassword, "test_password")
	}

	if cfg.InitialCoins != 2500 {
		t.Errorf("InitialCoins = %d, want 2500", cfg.InitialCoins)
	}

	if cfg.CheckInRewardMin != 50 {
		t.Errorf("CheckInRewardMin = %d, want default 50", cfg.CheckInRewardMin)
	}

	if cfg.CheckInRewardMax != 200 {
		t.Errorf("CheckInRewardMax = %d, want default 200", cfg.CheckInRewardMax)
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	// Clear all env vars so DB_PASSWORD is absent
	os.Clearenv()

	_, err := LoadConfig()
	if err == nil {
		t.Error("LoadConfig() expected error for missing DB_PASSWORD, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		shouldErr bool
	}{
		{
			name: "Valid config",
			cfg: &Config{
				DBPassword:       "password",
				DBPort:           "5432",
				InitialCoins:     1000,
				CheckInRewardMin: 50,
				CheckInRewardMax: 200,
			},
			shouldErr: false,
		},
		{
			name: "Non-numeric port",
			cfg: &Config{
				DBPassword:       "password",
				DBPort:           "not-a-port",
				InitialCoins:     1000,
				CheckInRewardMin: 50,
				CheckInRewardMax: 200,
			},
			shouldErr: true,
		},
		{
			name: "Negative initial coins",
			cfg: &Config{
				DBPassword:       "password",
				DBPort:           "5432",
				InitialCoins:     -1,
				CheckInRewardMin: 50,
				CheckInRewardMax: 200,
			},
			shouldErr: true,
		},
		{
			name: "Zero check-in minimum",
			cfg: &Config{
				DBPassword:       "password",
				DBPort:           "5432",
				InitialCoins:     1000,
				CheckInRewardMin: 0,
				CheckInRewardMax: 200,
			},
			shouldErr: true,
		},
		{
			name: "Reward max below min",
			cfg: &Config{
				DBPassword:       "password",
				DBPort:           "5432",
				InitialCoins:     1000,
				CheckInRewardMin: 200,
				CheckInRewardMax: 50,
			},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.shouldErr && err == nil {
				t.Error("Validate() expected error, got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestValidateProductionSecurity(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		shouldErr bool
	}{
		{
			name: "Valid production config",
			cfg: &Config{
				AppEnv:    "production",
				DBSSLMode: "require",
			},
			shouldErr: false,
		},
		{
			name: "Development mode - no validation",
			cfg: &Config{
				AppEnv:    "development",
				DBSSLMode: "disable",
			},
			shouldErr: false,
		},
		{
			name: "Production without SSL",
			cfg: &Config{
				AppEnv:    "production",
				DBSSLMode: "disable",
			},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateProductionSecurity()
			if tt.shouldErr && err == nil {
				t.Error("ValidateProductionSecurity() expected error, got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("ValidateProductionSecurity() unexpected error = %v", err)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "testuser",
		DBPassword: "testpass",
		DBName:     "testdb",
		DBSSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	dsn := cfg.GetDSN()

	if dsn != expected {
		t.Errorf("GetDSN() = %q, want %q", dsn, expected)
	}
}
