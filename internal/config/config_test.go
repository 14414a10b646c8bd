package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Whitenz/next-train-telegram-bot/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/metro.db", cfg.DatabaseURL)
	assert.Equal(t, domain.MustParseClock("05:30"), cfg.OpenTime)
	assert.Equal(t, domain.MustParseClock("00:30"), cfg.CloseTime)
	assert.Equal(t, time.Hour, cfg.MaxWait)
	assert.Equal(t, 2, cfg.LimitRow)
	assert.Equal(t, 2, cfg.LimitFavorites)
	assert.Equal(t, 3*time.Minute, cfg.ConversationTimeout)
	assert.Equal(t, "Asia/Yekaterinburg", cfg.Location().String())
	assert.Equal(t, domain.DefaultHours, cfg.Hours())
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	require.NoError(t, os.Unsetenv("BOT_TOKEN"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("OPEN_TIME_METRO", "06:00")
	t.Setenv("MAX_WAITING_TIME", "30m")
	t.Setenv("LIMIT_FAVORITES", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, domain.MustParseClock("06:00"), cfg.OpenTime)
	assert.Equal(t, 30*time.Minute, cfg.MaxWait)
	assert.Equal(t, 3, cfg.LimitFavorites)
}

func TestLoad_RejectsOutOfRange(t *testing.T) {
	cases := map[string]string{
		"MAX_WAITING_TIME":     "2h",
		"LIMIT_ROW":            "0",
		"CONVERSATION_TIMEOUT": "10s",
		"TZ_NAME":              "Mars/Olympus",
		"CLOSE_TIME_METRO":     "25:00",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("BOT_TOKEN", "123:abc")
			t.Setenv(key, val)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env.dev")
	require.NoError(t, os.WriteFile(envFile, []byte("BOT_TOKEN=from-file\nLIMIT_ROW=3\n"), 0o600))

	// t.Setenv registers cleanup, so the values godotenv sets are restored too.
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("LIMIT_ROW", "")
	require.NoError(t, os.Unsetenv("BOT_TOKEN"))
	require.NoError(t, os.Unsetenv("LIMIT_ROW"))

	cfg, err := Load(filepath.Join(dir, ".env.prod"), envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.BotToken)
	assert.Equal(t, 3, cfg.LimitRow)
}

func TestLoad_DefaultEnvFilesDevWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.prod"), []byte("BOT_TOKEN=prod\nLIMIT_ROW=4\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.dev"), []byte("BOT_TOKEN=dev\n"), 0o600))
	t.Chdir(dir)

	t.Setenv("BOT_TOKEN", "")
	t.Setenv("LIMIT_ROW", "")
	require.NoError(t, os.Unsetenv("BOT_TOKEN"))
	require.NoError(t, os.Unsetenv("LIMIT_ROW"))

	cfg, err := Load(DefaultEnvFiles...)
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.BotToken)
	assert.Equal(t, 4, cfg.LimitRow)
}
