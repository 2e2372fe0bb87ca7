package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", c.HTTPAddr)
	assert.Equal(t, 15*time.Second, c.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, 4, c.BotConcurrency)
	assert.Equal(t, "https://api.vercel.com", c.Vercel.BaseURL)
	assert.Equal(t, "https://api.telegram.org", c.Telegram.BaseURL)
}

func TestLoadBindsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("VERCEL_TOKEN", "tok")
	t.Setenv("VERCEL_TEAM_ID", "team_1")
	t.Setenv("VERCEL_PROJECT_NAME", "web")
	t.Setenv("TELEGRAM_TOKEN", "bot-token")
	t.Setenv("CHAT_ID", "-100123")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", c.HTTPAddr)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
	assert.Equal(t, "tok", c.Vercel.Token)
	assert.Equal(t, "team_1", c.Vercel.TeamID)
	assert.Equal(t, "web", c.Vercel.ProjectName)
	assert.Equal(t, "bot-token", c.Telegram.Token)
	assert.Equal(t, "-100123", c.Telegram.ChatID)

	require.NoError(t, c.RequireVercel())
	require.NoError(t, c.RequireTelegram(true))
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("APP_ENV", "moon")
	_, err := Load()
	require.Error(t, err)
}

func TestRequireSurfaces(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("VERCEL_TOKEN", "")
	t.Setenv("TELEGRAM_TOKEN", "bot-token")
	t.Setenv("CHAT_ID", "")

	c, err := Load()
	require.NoError(t, err)

	err = c.RequireVercel()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VERCEL_TOKEN")

	require.NoError(t, c.RequireTelegram(false))
	err = c.RequireTelegram(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHAT_ID")
}

func TestAllowedChatIDs(t *testing.T) {
	c := &Config{Telegram: TelegramConfig{AllowedChats: "12, -100200;7"}}
	ids, err := c.AllowedChatIDs()
	require.NoError(t, err)
	assert.Equal(t, []int64{12, -100200, 7}, ids)

	c.Telegram.AllowedChats = ""
	ids, err = c.AllowedChatIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)

	c.Telegram.AllowedChats = "12,abc"
	_, err = c.AllowedChatIDs()
	require.Error(t, err)
}
