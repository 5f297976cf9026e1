package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"EVENT_PLANNER_CONFIG", "LLM_PROVIDER", "GEMINI_API_KEY", "GEMINI_MODEL",
		"GROQ_API_KEY", "GROQ_MODEL", "GROQ_BASE_URL", "DATABASE_PATH", "EXPORT_DIR",
		"LOG_LEVEL", "LOG_ENCODING", "LOG_FILE", "UI_THEME", "UI_WORD_WRAP",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_WEBHOOK_URL", "TELEGRAM_ALLOWED_USER_IDS",
		"ADMIN_TELEGRAM_ID", "SESSION_TTL", "PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "  gemini_key  ")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "gemini_key", cfg.GeminiAPIKey)
		assert.Equal(t, ProviderGemini, cfg.Provider)
		assert.Equal(t, DefaultGeminiModel, cfg.Model())
		assert.Equal(t, "data/event-planner.db", cfg.DatabasePath)
	})

	t.Run("MissingGeminiAPIKey", func(t *testing.T) {
		clearEnv(t)

		_, err := Load("")
		require.Error(t, err)
		assert.Equal(t, "GEMINI_API_KEY environment variable not set", err.Error())
	})

	t.Run("BlankGeminiAPIKey", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "   ")

		_, err := Load("")
		require.Error(t, err)
	})

	t.Run("GroqProviderNeedsGroqKey", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_PROVIDER", "groq")
		t.Setenv("GEMINI_API_KEY", "gemini_key")

		_, err := Load("")
		require.Error(t, err)
		assert.Equal(t, "GROQ_API_KEY environment variable not set", err.Error())

		t.Setenv("GROQ_API_KEY", "groq_key")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultGroqModel, cfg.Model())
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_PROVIDER", "mystery")
		t.Setenv("GEMINI_API_KEY", "gemini_key")

		_, err := Load("")
		require.Error(t, err)
	})

	t.Run("TelegramSettings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "12, 34,,56")
		t.Setenv("ADMIN_TELEGRAM_ID", "12")
		t.Setenv("SESSION_TTL", "30m")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, []int64{12, 34, 56}, cfg.Telegram.AllowedUserIDs)
		assert.Equal(t, int64(12), cfg.Telegram.AdminID)
		assert.Equal(t, 30*time.Minute, cfg.Telegram.SessionTTL)

		err = cfg.ValidateTelegram()
		require.Error(t, err)
		assert.Equal(t, "TELEGRAM_BOT_TOKEN environment variable not set", err.Error())
	})

	t.Run("TelegramNeedsAllowedUsers", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("TELEGRAM_BOT_TOKEN", "token")
		t.Setenv("TELEGRAM_WEBHOOK_URL", "https://example.com/webhook")

		cfg, err := Load("")
		require.NoError(t, err)
		err = cfg.ValidateTelegram()
		require.Error(t, err)
		assert.Equal(t, "TELEGRAM_ALLOWED_USER_IDS environment variable not set", err.Error())

		cfg.Telegram.AllowedUserIDs = []int64{12}
		assert.NoError(t, cfg.ValidateTelegram())
	})

	t.Run("BadAllowedUserIDs", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "12,abc")

		_, err := Load("")
		require.Error(t, err)
	})
}

func TestReadSkipsProviderKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_PATH", "/var/lib/planner/metrics.db")

	cfg, err := Read("")
	require.NoError(t, err)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Equal(t, "/var/lib/planner/metrics.db", cfg.DatabasePath)

	_, err = Load("")
	assert.EqualError(t, err, "GEMINI_API_KEY environment variable not set")
}

func TestLoadFile(t *testing.T) {
	writeConfig := func(t *testing.T, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	t.Run("FileValues", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, `
gemini_api_key = "from_file"
export_dir = "/tmp/plans"

[ui]
theme = "light"
word_wrap = 100

[telegram]
allowed_user_ids = [1, 2]
session_ttl = "2h"
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from_file", cfg.GeminiAPIKey)
		assert.Equal(t, "/tmp/plans", cfg.ExportDir)
		assert.Equal(t, "light", cfg.UI.Theme)
		assert.Equal(t, 100, cfg.UI.WordWrap)
		assert.Equal(t, []int64{1, 2}, cfg.Telegram.AllowedUserIDs)
		assert.Equal(t, 2*time.Hour, cfg.Telegram.SessionTTL)
		assert.Equal(t, DefaultGeminiModel, cfg.GeminiModel, "defaults survive a partial file")
	})

	t.Run("EnvOverridesFile", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, `gemini_api_key = "from_file"`)
		t.Setenv("GEMINI_API_KEY", "from_env")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from_env", cfg.GeminiAPIKey)
	})

	t.Run("ConfigPathFromEnv", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, `gemini_api_key = "via_env_path"`)
		t.Setenv("EVENT_PLANNER_CONFIG", path)

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "via_env_path", cfg.GeminiAPIKey)
	})

	t.Run("MissingExplicitFile", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "gemini_key")

		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		require.Error(t, err)
	})

	t.Run("MalformedFile", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		path := writeConfig(t, `gemini_api_key = `)

		_, err := Load(path)
		require.Error(t, err)
	})
}
