package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("BUILDBOT_DATABASE_URL", "postgres://bot@localhost/builds")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Build Review Bot", cfg.AppName)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, "buildbot.guild_settings.updated", cfg.NATSSubject)
	require.Equal(t, 10*time.Minute, cfg.GuildCacheTTL)
	require.Equal(t, 256, cfg.GuildCacheSize)
	require.Equal(t, 2500*time.Millisecond, cfg.CommandTimeout)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("BUILDBOT_DATABASE_URL", "postgres://bot@localhost/builds")
	t.Setenv("BUILDBOT_APP_PORT", ":9090")
	t.Setenv("BUILDBOT_GUILD_CACHE_TTL", "30s")
	t.Setenv("BUILDBOT_DISCORD_TOKEN", "token")
	t.Setenv("BUILDBOT_DISCORD_APP_ID", "1234")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, 30*time.Second, cfg.GuildCacheTTL)
	require.NoError(t, cfg.RequireDiscord())
}

func TestFromViperRejectsInvalidDurations(t *testing.T) {
	v := viper.New()
	v.Set("database.url", "postgres://bot@localhost/builds")
	v.Set("command.timeout", "soon")

	_, err := fromViper(v)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid command timeout")
}

func TestFromViperRequiresDatabase(t *testing.T) {
	_, err := fromViper(viper.New())
	require.Error(t, err)
}

func TestRequireDiscord(t *testing.T) {
	require.Error(t, Config{}.RequireDiscord())
	require.Error(t, Config{DiscordToken: "token"}.RequireDiscord())
	require.NoError(t, Config{DiscordToken: "token", DiscordAppID: "1"}.RequireDiscord())
}
