// Package config loads runtime settings from an optional YAML file and the
// process environment. Environment variables always win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort            = "8080"
	DefaultLanguage        = "en"
	DefaultLogLevel        = "info"
	DefaultReminderHour    = 20
	minSecretKeyLength     = 32
	defaultReminderTick    = time.Hour
	defaultDatabaseFile    = "anxiolytic.db"
	defaultDatabaseDirName = "data"
)

var (
	ErrSecretKeyMissing     = errors.New("SECRET_KEY is required")
	ErrSecretKeyPlaceholder = errors.New("SECRET_KEY uses an insecure placeholder value")
	ErrSecretKeyTooShort    = errors.New("SECRET_KEY must be at least 32 characters")
	ErrInvalidPort          = errors.New("PORT must be an integer between 1 and 65535")
	ErrInvalidReminderHour  = errors.New("REMINDER_HOUR must be an integer between 0 and 23")
)

var insecureSecretPlaceholders = []string{
	"change_me_in_production",
	"replace_with_at_least_32_random_characters",
	"changeme",
	"secret",
}

type Config struct {
	SecretKey        string        `yaml:"secret_key"`
	DBPath           string        `yaml:"db_path"`
	Port             string        `yaml:"port"`
	Timezone         string        `yaml:"timezone"`
	DefaultLanguage  string        `yaml:"default_language"`
	CookieSecure     bool          `yaml:"cookie_secure"`
	LogLevel         string        `yaml:"log_level"`
	TelegramBotToken string        `yaml:"telegram_bot_token"`
	TelegramChatID   string        `yaml:"telegram_chat_id"`
	ReminderHour     int           `yaml:"reminder_hour"`
	ReminderInterval time.Duration `yaml:"reminder_interval"`
	AllowedOrigins   string        `yaml:"allowed_origins"`
}

func Default() Config {
	return Config{
		DBPath:           filepath.Join(defaultDatabaseDirName, defaultDatabaseFile),
		Port:             DefaultPort,
		Timezone:         "UTC",
		DefaultLanguage:  DefaultLanguage,
		LogLevel:         DefaultLogLevel,
		ReminderHour:     DefaultReminderHour,
		ReminderInterval: defaultReminderTick,
	}
}

// Load builds the configuration from defaults, then path (when non-empty),
// then the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvironment(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnvironment() error {
	overrideString(&cfg.SecretKey, "SECRET_KEY")
	overrideString(&cfg.DBPath, "DB_PATH")
	overrideString(&cfg.Port, "PORT")
	overrideString(&cfg.Timezone, "TZ")
	overrideString(&cfg.DefaultLanguage, "DEFAULT_LANGUAGE")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.TelegramBotToken, "TELEGRAM_BOT_TOKEN")
	overrideString(&cfg.TelegramChatID, "TELEGRAM_CHAT_ID")
	overrideString(&cfg.AllowedOrigins, "ALLOWED_ORIGINS")

	if raw := strings.TrimSpace(os.Getenv("COOKIE_SECURE")); raw != "" {
		secure, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("parse COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = secure
	}

	if raw := strings.TrimSpace(os.Getenv("REMINDER_HOUR")); raw != "" {
		hour, err := strconv.Atoi(raw)
		if err != nil {
			return ErrInvalidReminderHour
		}
		cfg.ReminderHour = hour
	}
	if cfg.ReminderHour < 0 || cfg.ReminderHour > 23 {
		return ErrInvalidReminderHour
	}
	if cfg.ReminderInterval <= 0 {
		cfg.ReminderInterval = defaultReminderTick
	}
	return nil
}

func overrideString(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}

func (cfg Config) RemindersConfigured() bool {
	return strings.TrimSpace(cfg.TelegramBotToken) != "" && strings.TrimSpace(cfg.TelegramChatID) != ""
}

func ResolveSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return "", ErrSecretKeyMissing
	}
	for _, placeholder := range insecureSecretPlaceholders {
		if strings.EqualFold(secret, placeholder) {
			return "", ErrSecretKeyPlaceholder
		}
	}
	if len(secret) < minSecretKeyLength {
		return "", ErrSecretKeyTooShort
	}
	return secret, nil
}

func ResolvePort(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		return DefaultPort, nil
	}
	value, err := strconv.Atoi(port)
	if err != nil || value < 1 || value > 65535 {
		return "", ErrInvalidPort
	}
	return strconv.Itoa(value), nil
}

// ResolveLocation loads the named zone. The returned bool is false when name
// was invalid and UTC was substituted.
func ResolveLocation(name string) (*time.Location, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return time.UTC, true
	}
	location, err := time.LoadLocation(trimmed)
	if err != nil {
		return time.UTC, false
	}
	return location, true
}
