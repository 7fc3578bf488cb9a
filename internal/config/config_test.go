package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		Database: DatabaseConfig{
			Host:   "localhost",
			User:   "test",
			DBName: "test",
		},
		Telegram: TelegramConfig{
			BotToken: "123456:test-token",
		},
		AI: AIConfig{
			Provider: "openai",
			APIKey:   "test-key",
		},
		Scheduler: SchedulerConfig{
			IntervalSeconds: 5,
			FetchLimit:      20,
		},
	}
}

func TestConfigValidation(t *testing.T) {
	config := validConfig()
	assert.NoError(t, config.Validate())

	invalidConfig := &Config{
		Server: ServerConfig{
			Port: "",
		},
	}
	assert.Error(t, invalidConfig.Validate())
}

func TestConfigValidationBotToken(t *testing.T) {
	config := validConfig()
	config.Telegram.BotToken = ""
	assert.Error(t, config.Validate())
}

func TestConfigValidationProvider(t *testing.T) {
	config := validConfig()

	for _, provider := range []string{"openai", "openrouter", "gemini"} {
		config.AI.Provider = provider
		assert.NoError(t, config.Validate())
	}

	config.AI.Provider = "anthropic"
	assert.Error(t, config.Validate())
}

func TestConfigValidationScheduler(t *testing.T) {
	config := validConfig()
	config.Scheduler.IntervalSeconds = 0
	assert.Error(t, config.Validate())

	config = validConfig()
	config.Scheduler.FetchLimit = 0
	assert.Error(t, config.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	config := DatabaseConfig{
		Host:     "localhost",
		Port:     3306,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	}

	dsn := config.GetDSN()
	expected := "testuser:testpass@tcp(localhost:3306)/testdb?charset=utf8mb4&parseTime=True&loc=Local"
	assert.Equal(t, expected, dsn)
}
