package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the bot process.
type Config struct {
	AppName        string
	AppEnv         string
	AppPort        string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	NATSURL        string
	NATSSubject    string
	DiscordToken   string
	DiscordAppID   string
	DiscordGuildID string
	GuildCacheTTL  time.Duration
	GuildCacheSize int
	CommandTimeout time.Duration
}

// HTTPAddress returns the address the ops HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// RequireDiscord reports whether the gateway credentials needed to talk to Discord are present.
func (c Config) RequireDiscord() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("discord token must be provided")
	}
	if c.DiscordAppID == "" {
		return fmt.Errorf("discord application id must be provided")
	}
	return nil
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BUILDBOT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Build Review Bot")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("nats.subject", "buildbot.guild_settings.updated")
	v.SetDefault("guild_cache.ttl", "10m")
	v.SetDefault("guild_cache.size", 256)
	v.SetDefault("command.timeout", "2500ms")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cacheTTL, err := parseDuration(v.GetString("guild_cache.ttl"), 10*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid guild cache ttl: %w", err)
	}

	commandTimeout, err := parseDuration(v.GetString("command.timeout"), 2500*time.Millisecond)
	if err != nil {
		return Config{}, fmt.Errorf("invalid command timeout: %w", err)
	}

	cfg := Config{
		AppName:        v.GetString("app.name"),
		AppEnv:         v.GetString("app.env"),
		AppPort:        v.GetString("app.port"),
		LogLevel:       strings.ToLower(v.GetString("log.level")),
		DatabaseURL:    v.GetString("database.url"),
		RedisURL:       v.GetString("redis.url"),
		NATSURL:        v.GetString("nats.url"),
		NATSSubject:    v.GetString("nats.subject"),
		DiscordToken:   v.GetString("discord.token"),
		DiscordAppID:   v.GetString("discord.app_id"),
		DiscordGuildID: v.GetString("discord.guild_id"),
		GuildCacheTTL:  cacheTTL,
		GuildCacheSize: v.GetInt("guild_cache.size"),
		CommandTimeout: commandTimeout,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	if cfg.GuildCacheSize <= 0 {
		cfg.GuildCacheSize = 256
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return fallback, nil
	}

	return parsed, nil
}
