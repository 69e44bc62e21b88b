// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	AI       AIConfig
	Kafka    KafkaConfig
	Scout    ScoutConfig
	Telegram TelegramConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig selects and configures the persistence adapter.
type DatabaseConfig struct {
	Driver   string // sqlite, postgres or memory
	Path     string // sqlite file, ":memory:" allowed
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Debug    bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool
	Migrations    bool
	Seed          bool
	SettingsFile  string
	SessionSecret string
	AdminEmail    string
	AdminPassword string
}

// AIConfig configures the generative text gateway. An empty APIKey disables it.
type AIConfig struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// KafkaConfig configures domain event publishing. No brokers means no publishing.
type KafkaConfig struct {
	Brokers     []string
	TopicPrefix string
}

// ScoutConfig selects where scout identities are kept.
type ScoutConfig struct {
	Store         string // badger or redis
	BadgerDir     string // empty keeps badger in memory
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// TelegramConfig configures admin notifications. An empty token disables them.
type TelegramConfig struct {
	BotToken    string
	AdminChatID int64
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Enabled reports whether a gateway key is configured.
func (a AIConfig) Enabled() bool { return a.APIKey != "" }

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Path:     getEnv("DB_PATH", "unidrop.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "unidrop"),
			Password: getEnv("DB_PASSWORD", "unidrop"),
			DBName:   getEnv("DB_NAME", "unidrop"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Debug:    getEnvBool("DB_DEBUG", false),
		},
		App: AppConfig{
			Dev:           getEnvBool("DEV", true),
			Migrations:    getEnvBool("MIGRATIONS", true),
			Seed:          getEnvBool("SEED", true),
			SettingsFile:  getEnv("SETTINGS_FILE", ""),
			SessionSecret: getEnv("SESSION_SECRET", ""),
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@unihub.local"),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		AI: AIConfig{
			APIKey:   getEnv("AI_API_KEY", ""),
			Model:    getEnv("AI_MODEL", "gemini-2.5-flash"),
			Endpoint: getEnv("AI_ENDPOINT", "https://generativelanguage.googleapis.com/"),
			Timeout:  time.Duration(getEnvInt("AI_TIMEOUT", 20)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:     getEnvList("KAFKA_BROKERS"),
			TopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", "unidrop."),
		},
		Scout: ScoutConfig{
			Store:         strings.ToLower(getEnv("SCOUT_STORE", "badger")),
			BadgerDir:     getEnv("SCOUT_BADGER_DIR", ""),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Telegram: TelegramConfig{
			BotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
			AdminChatID: int64(getEnvInt("TELEGRAM_ADMIN_CHAT", 0)),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvList splits a comma-separated variable, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
