package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
database:
  host: db.local
  port: "5432"
  user: cantina
  password: secret
  database: cantina_db
chat:
  timezone: UTC
  history_limit: 50
menu:
  - name: Suco de laranja
    price: "5.50"
    category: Bebidas
  - name: Bolo
    price: "4.00"
    category: Doces
    available: false
`

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// clearEnv blanks the overrides so the host environment cannot leak into the tests.
func clearEnv(t *testing.T) {
	for _, key := range []string{"POSTGRES_HOST", "CHAT_INITIAL_STATUS", "CHAT_TIMEZONE", "CHAT_RECENT_TURNS", "GEMINI_API_KEY"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(writeFile(t, sample))
	require.NoError(t, err)

	require.NotNil(t, cfg.DB)
	assert.Equal(t, "db.local", cfg.DB.Host)
	assert.Nil(t, cfg.RMQ)
	assert.Nil(t, cfg.GenAI)

	assert.Equal(t, "UTC", cfg.Chat.Timezone)
	assert.Equal(t, 50, cfg.Chat.HistoryLimit)
	assert.Equal(t, DefaultInitialStatus, cfg.Chat.InitialStatus)
	assert.Equal(t, DefaultRecentTurns, cfg.Chat.RecentTurns)

	require.Len(t, cfg.Menu, 2)
	assert.Nil(t, cfg.Menu[0].Available)
	require.NotNil(t, cfg.Menu[1].Available)
	assert.False(t, *cfg.Menu[1].Available)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "override")
	t.Setenv("CHAT_TIMEZONE", "America/Manaus")
	t.Setenv("CHAT_RECENT_TURNS", "4")
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := LoadConfig(writeFile(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "override", cfg.DB.Host)
	assert.Equal(t, "America/Manaus", cfg.Chat.Timezone)
	assert.Equal(t, 4, cfg.Chat.RecentTurns)
	require.NotNil(t, cfg.GenAI)
	assert.Equal(t, "key", cfg.GenAI.APIKey)
	assert.Equal(t, DefaultGenAIModel, cfg.GenAI.Model)
	assert.Equal(t, DefaultSystemPrompt, cfg.GenAI.SystemPrompt)
}

func TestLoadConfigDefaultsWithoutChatSection(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(writeFile(t, "menu: []\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Chat)
	assert.Equal(t, DefaultTimezone, cfg.Chat.Timezone)
	assert.Equal(t, DefaultHistoryLimit, cfg.Chat.HistoryLimit)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "chat: [not, a, map]\n"))
	assert.Error(t, err)
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("CANTINA_N", "12")
	assert.Equal(t, 12, getEnvInt("CANTINA_N", 3))
	t.Setenv("CANTINA_N", "x")
	assert.Equal(t, 3, getEnvInt("CANTINA_N", 3))
}
