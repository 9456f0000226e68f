package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	// Save original env
	originalBotToken := os.Getenv("BOT_TOKEN")
	originalDBPassword := os.Getenv("DB_PASSWORD")

	// Clean up after test
	defer func() {
		if originalBotToken != "" {
			os.Setenv("BOT_TOKEN", originalBotToken)
		} else {
			os.Unsetenv("BOT_TOKEN")
		}
		if originalDBPassword != "" {
			os.Setenv("DB_PASSWORD", originalDBPassword)
		} else {
			os.Unsetenv("DB_PASSWORD")
		}
	}()

	// Test missing BOT_TOKEN
	os.Unsetenv("BOT_TOKEN")
	os.Unsetenv("DB_PASSWORD")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "BOT_TOKEN")

	// Test missing DB_PASSWORD
	os.Setenv("BOT_TOKEN", "token123")

	cfg, err = Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestLoad_AdminUserID(t *testing.T) {
	os.Setenv("BOT_TOKEN", "token123")
	os.Setenv("DB_PASSWORD", "pass")
	defer func() {
		os.Unsetenv("BOT_TOKEN")
		os.Unsetenv("DB_PASSWORD")
		os.Unsetenv("ADMIN_USER_ID")
	}()

	os.Setenv("ADMIN_USER_ID", "123456")
	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, int64(123456), cfg.AdminUserID)

	os.Setenv("ADMIN_USER_ID", "not-a-number")
	cfg, err = Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("BOT_TOKEN", "token123")
	os.Setenv("DB_PASSWORD", "pass")
	defer func() {
		os.Unsetenv("BOT_TOKEN")
		os.Unsetenv("DB_PASSWORD")
	}()

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "coffeebot", cfg.Database.Name)
	assert.Equal(t, "data/state", cfg.StateDir)
}
