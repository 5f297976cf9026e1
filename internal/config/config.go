package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"

	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultGroqModel   = "llama-3.3-70b-versatile"
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
)

// Config holds the configuration for the application.
type Config struct {
	Provider     string `toml:"provider"`
	GeminiAPIKey string `toml:"gemini_api_key"`
	GeminiModel  string `toml:"gemini_model"`
	GroqAPIKey   string `toml:"groq_api_key"`
	GroqModel    string `toml:"groq_model"`
	GroqBaseURL  string `toml:"groq_base_url"`

	DatabasePath string `toml:"database_path"`
	ExportDir    string `toml:"export_dir"`

	Log      LogConfig      `toml:"log"`
	UI       UIConfig       `toml:"ui"`
	Telegram TelegramConfig `toml:"telegram"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level    string `toml:"level"`
	Encoding string `toml:"encoding"`
	File     string `toml:"file"`
}

// UIConfig configures the terminal front-end.
type UIConfig struct {
	// Theme is a glamour standard style: "dark", "light", "notty" or "auto".
	Theme    string `toml:"theme"`
	WordWrap int    `toml:"word_wrap"`
}

// TelegramConfig is optional for the CLI and required for the bot.
type TelegramConfig struct {
	BotToken       string        `toml:"bot_token"`
	WebhookURL     string        `toml:"webhook_url"`
	AllowedUserIDs []int64       `toml:"allowed_user_ids"`
	AdminID        int64         `toml:"admin_id"`
	SessionTTL     time.Duration `toml:"session_ttl"`
	Port           string        `toml:"port"`
}

// Defaults returns a Config populated with built-in defaults and no secrets.
func Defaults() Config {
	return Config{
		Provider:     ProviderGemini,
		GeminiModel:  DefaultGeminiModel,
		GroqModel:    DefaultGroqModel,
		GroqBaseURL:  DefaultGroqBaseURL,
		DatabasePath: "data/event-planner.db",
		ExportDir:    "plans",
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
		UI: UIConfig{
			Theme:    "dark",
			WordWrap: 80,
		},
		Telegram: TelegramConfig{
			SessionTTL: 6 * time.Hour,
			Port:       "8080",
		},
	}
}

// Load reads the configuration (see Read) and requires the key of the selected provider.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read builds the configuration from, in increasing precedence: defaults, the TOML file at
// path (or $EVENT_PLANNER_CONFIG when path is empty), a .env file, and the process environment.
// Secrets are not checked, so commands that never call the model can use it.
func Read(path string) (*Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if path == "" {
		path = os.Getenv("EVENT_PLANNER_CONFIG")
		explicit = path != ""
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	// godotenv never overrides variables already present in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Provider, "LLM_PROVIDER")
	setString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&cfg.GeminiModel, "GEMINI_MODEL")
	setString(&cfg.GroqAPIKey, "GROQ_API_KEY")
	setString(&cfg.GroqModel, "GROQ_MODEL")
	setString(&cfg.GroqBaseURL, "GROQ_BASE_URL")
	setString(&cfg.DatabasePath, "DATABASE_PATH")
	setString(&cfg.ExportDir, "EXPORT_DIR")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Encoding, "LOG_ENCODING")
	setString(&cfg.Log.File, "LOG_FILE")
	setString(&cfg.UI.Theme, "UI_THEME")
	setString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Telegram.WebhookURL, "TELEGRAM_WEBHOOK_URL")
	setString(&cfg.Telegram.Port, "PORT")

	if v := os.Getenv("UI_WORD_WRAP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid UI_WORD_WRAP %q: %w", v, err)
		}
		cfg.UI.WordWrap = n
	}

	if v := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); v != "" {
		ids, err := parseIDList(v)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
		}
		cfg.Telegram.AllowedUserIDs = ids
	}

	if v := os.Getenv("ADMIN_TELEGRAM_ID"); v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ADMIN_TELEGRAM_ID %q: %w", v, err)
		}
		cfg.Telegram.AdminID = id
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL %q: %w", v, err)
		}
		cfg.Telegram.SessionTTL = d
	}
	return nil
}

// Validate checks that the secret required by the selected provider is present.
func (c *Config) Validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.GeminiAPIKey = strings.TrimSpace(c.GeminiAPIKey)
	c.GroqAPIKey = strings.TrimSpace(c.GroqAPIKey)

	switch c.Provider {
	case "", ProviderGemini:
		c.Provider = ProviderGemini
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case ProviderGroq:
		if c.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (expected %q or %q)", c.Provider, ProviderGemini, ProviderGroq)
	}
	return nil
}

// ValidateTelegram checks the settings the bot cannot start without.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.Telegram.WebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	// Updates from users outside the list are dropped, so an empty list would ignore everyone.
	if len(c.Telegram.AllowedUserIDs) == 0 {
		return fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS environment variable not set")
	}
	return nil
}

// Model returns the model identifier of the selected provider.
func (c *Config) Model() string {
	if c.Provider == ProviderGroq {
		return c.GroqModel
	}
	return c.GeminiModel
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a user id: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
