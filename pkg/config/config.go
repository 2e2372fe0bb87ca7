package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration loaded from environment variables or config files.
type Config struct {
	AppEnv          string        `mapstructure:"APP_ENV" validate:"required,oneof=development staging production test"`
	HTTPAddr        string        `mapstructure:"HTTP_ADDR" validate:"required,hostname_port"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"required"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gte=0"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error dpanic panic fatal"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	BotConcurrency int `mapstructure:"BOT_CONCURRENCY" validate:"gte=1,lte=64"`

	// WebhookSecret enables x-vercel-signature verification when set.
	WebhookSecret string `mapstructure:"WEBHOOK_SECRET"`

	Vercel   VercelConfig   `mapstructure:",squash" validate:"-"`
	Telegram TelegramConfig `mapstructure:",squash" validate:"-"`
}

// VercelConfig is validated only by the surfaces that talk to Vercel.
type VercelConfig struct {
	Token       string `mapstructure:"VERCEL_TOKEN" validate:"required"`
	TeamID      string `mapstructure:"VERCEL_TEAM_ID"`
	ProjectName string `mapstructure:"VERCEL_PROJECT_NAME"`
	BaseURL     string `mapstructure:"VERCEL_API_URL" validate:"required,url"`
}

// TelegramConfig is validated only by the surfaces that talk to Telegram.
type TelegramConfig struct {
	Token        string `mapstructure:"TELEGRAM_TOKEN" validate:"required"`
	ChatID       string `mapstructure:"CHAT_ID"`
	BaseURL      string `mapstructure:"TELEGRAM_API_URL" validate:"required,url"`
	AllowedChats string `mapstructure:"TELEGRAM_ALLOWED_CHATS"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var keys = []string{
	"APP_ENV",
	"HTTP_ADDR",
	"SHUTDOWN_TIMEOUT",
	"REQUEST_TIMEOUT",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"BOT_CONCURRENCY",
	"WEBHOOK_SECRET",
	"VERCEL_TOKEN",
	"VERCEL_TEAM_ID",
	"VERCEL_PROJECT_NAME",
	"VERCEL_API_URL",
	"TELEGRAM_TOKEN",
	"CHAT_ID",
	"TELEGRAM_API_URL",
	"TELEGRAM_ALLOWED_CHATS",
}

// Load initializes configuration using Viper. It loads from .env if present,
// applies defaults, binds env vars, and validates the result.
func Load() (*Config, error) {
	// Load .env if present (non-fatal)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", "0.0.0.0:8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("BOT_CONCURRENCY", 4)
	v.SetDefault("VERCEL_API_URL", "https://api.vercel.com")
	v.SetDefault("TELEGRAM_API_URL", "https://api.telegram.org")

	// Optional config file
	_ = v.ReadInConfig()

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	// Parse duration types that may come as string
	for key, dst := range map[string]*time.Duration{
		"SHUTDOWN_TIMEOUT": &c.ShutdownTimeout,
		"REQUEST_TIMEOUT":  &c.RequestTimeout,
	} {
		if s := v.GetString(key); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &c, nil
}

// MustLoad loads configuration or exits the process on failure.
func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return c
}

// RequireVercel checks the settings needed to call the Vercel API.
func (c *Config) RequireVercel() error {
	if strings.TrimSpace(c.Vercel.Token) == "" {
		return fmt.Errorf("VERCEL_TOKEN environment variable is required")
	}
	if err := validate.Struct(c.Vercel); err != nil {
		return fmt.Errorf("invalid vercel configuration: %w", err)
	}
	return nil
}

// RequireTelegram checks the settings needed to talk to Telegram. withChat
// additionally demands a default destination chat.
func (c *Config) RequireTelegram(withChat bool) error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return fmt.Errorf("TELEGRAM_TOKEN environment variable is required")
	}
	if err := validate.Struct(c.Telegram); err != nil {
		return fmt.Errorf("invalid telegram configuration: %w", err)
	}
	if withChat && strings.TrimSpace(c.Telegram.ChatID) == "" {
		return fmt.Errorf("CHAT_ID environment variable is required")
	}
	return nil
}

// AllowedChatIDs parses TELEGRAM_ALLOWED_CHATS (comma or space separated).
// An empty result means every chat is allowed.
func (c *Config) AllowedChatIDs() ([]int64, error) {
	fields := strings.FieldsFunc(c.Telegram.AllowedChats, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_CHATS entry %q: %w", f, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
