package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 60*time.Second, cfg.Giveaway.TickInterval)
	assert.Equal(t, 10, cfg.Giveaway.MaxConcurrentEnds)
	assert.Equal(t, 720*time.Hour, cfg.Giveaway.RetentionPeriod)
	assert.Equal(t, uint(5), cfg.Persistence.MaxRetries)
	assert.Equal(t, "bot:events", cfg.Giveaway.MemberEventsStream)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, uint(5), cfg.Redis.ConnectTries)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_IDS", "10,20")
	t.Setenv("GIVEAWAY_TICK_INTERVAL", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Giveaway.TickInterval)
	assert.True(t, cfg.IsAdmin(20))
	assert.False(t, cfg.IsAdmin(30))
}

func TestLoadRequiresBotToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveTick(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("GIVEAWAY_TICK_INTERVAL", "0s")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load()
	require.Error(t, err)
}
