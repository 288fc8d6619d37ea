package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ANALYTICS_DB_PATH", "")
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("SHEETS_SYNC_ENABLED", "")

	cfg := Load()
	assert.Equal(t, "data/analytics.db", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "downloads", cfg.DownloadDir)
	assert.Equal(t, "yt-dlp", cfg.YTDLPPath)
	assert.False(t, cfg.SheetsEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ANALYTICS_DB_PATH", "/tmp/test.db")
	t.Setenv("SHEETS_SYNC_ENABLED", "true")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg := Load()
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.True(t, cfg.SheetsEnabled)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
}
