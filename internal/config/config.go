package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	AI         AIConfig         `mapstructure:"ai"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Processing ProcessingConfig `mapstructure:"processing"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// TelegramConfig holds Telegram Bot API configuration
type TelegramConfig struct {
	BotToken      string `mapstructure:"bot_token"`
	MediaDir      string `mapstructure:"media_dir"`
	UpdateTimeout int    `mapstructure:"update_timeout"`
}

// AIConfig holds AI rewrite backend configuration
type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SchedulerConfig holds polling scheduler configuration
type SchedulerConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
	FetchLimit      int `mapstructure:"fetch_limit"`
}

// ProcessingConfig holds session-wide processing options
type ProcessingConfig struct {
	ApplyAIToAll bool   `mapstructure:"apply_ai_to_all"`
	IncludeMedia bool   `mapstructure:"include_media"`
	SystemPrompt string `mapstructure:"system_prompt"`
	CustomFooter string `mapstructure:"custom_footer"`
}

// LoadConfig loads configuration from environment variables and config file
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Environment variables override config file
	viper.AutomaticEnv()
	bindEnvVars()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)

	viper.SetDefault("telegram.media_dir", "media")
	viper.SetDefault("telegram.update_timeout", 30)

	viper.SetDefault("ai.provider", "openai")
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.timeout", "30s")

	viper.SetDefault("scheduler.interval_seconds", 5)
	viper.SetDefault("scheduler.fetch_limit", 20)

	viper.SetDefault("processing.apply_ai_to_all", false)
	viper.SetDefault("processing.include_media", true)
}

// bindEnvVars binds environment variables to configuration keys
func bindEnvVars() {
	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	viper.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")

	// Database
	viper.BindEnv("database.host", "DB_HOST")
	viper.BindEnv("database.port", "DB_PORT")
	viper.BindEnv("database.user", "DB_USER")
	viper.BindEnv("database.password", "DB_PASSWORD")
	viper.BindEnv("database.dbname", "DB_NAME")

	// Telegram
	viper.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	viper.BindEnv("telegram.media_dir", "TELEGRAM_MEDIA_DIR")
	viper.BindEnv("telegram.update_timeout", "TELEGRAM_UPDATE_TIMEOUT")

	// AI
	viper.BindEnv("ai.provider", "AI_PROVIDER")
	viper.BindEnv("ai.api_key", "AI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.timeout", "AI_TIMEOUT")

	// Scheduler
	viper.BindEnv("scheduler.interval_seconds", "SCHEDULER_INTERVAL_SECONDS")
	viper.BindEnv("scheduler.fetch_limit", "SCHEDULER_FETCH_LIMIT")

	// Processing
	viper.BindEnv("processing.apply_ai_to_all", "PROCESSING_APPLY_AI_TO_ALL")
	viper.BindEnv("processing.include_media", "PROCESSING_INCLUDE_MEDIA")
	viper.BindEnv("processing.system_prompt", "PROCESSING_SYSTEM_PROMPT")
	viper.BindEnv("processing.custom_footer", "PROCESSING_CUSTOM_FOOTER")
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return fmt.Errorf("database host, user, and dbname are required")
	}

	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required")
	}

	switch c.AI.Provider {
	case "openai", "openrouter", "gemini":
	default:
		return fmt.Errorf("unsupported AI provider: %s", c.AI.Provider)
	}

	if c.AI.APIKey == "" {
		return fmt.Errorf("AI API key is required")
	}

	if c.Scheduler.IntervalSeconds <= 0 {
		return fmt.Errorf("scheduler interval must be greater than 0")
	}

	if c.Scheduler.FetchLimit <= 0 {
		return fmt.Errorf("scheduler fetch limit must be greater than 0")
	}

	return nil
}
