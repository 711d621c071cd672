package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/buildbot/internal/models"
	"github.com/noah-isme/buildbot/internal/repository"
)

func setupGuildSettings(t *testing.T) (*gorm.DB, *redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.GuildSettings{}))

	return db, redisClient, mini
}

func TestGuildSettingsServiceCachesSubmitChannel(t *testing.T) {
	db, redisClient, mini := setupGuildSettings(t)
	require.NoError(t, db.Create(&models.GuildSettings{GuildID: "100", SubmitChannelID: "200"}).Error)

	svc := NewGuildSettingsService(repository.NewGuildSettingsRepository(db), redisClient, nil, GuildSettingsOptions{CacheTTL: time.Minute}, zerolog.Nop())
	ctx := context.Background()

	channelID, err := svc.SubmitChannel(ctx, "100")
	require.NoError(t, err)
	require.Equal(t, "200", channelID)
	require.True(t, mini.Exists("guild:settings:100"))

	require.NoError(t, db.Model(&models.GuildSettings{}).Where("guild_id = ?", "100").Update("submit_channel_id", "201").Error)

	cached, err := svc.SubmitChannel(ctx, "100")
	require.NoError(t, err)
	require.Equal(t, "200", cached)

	require.NoError(t, svc.Invalidate(ctx, "100"))
	require.False(t, mini.Exists("guild:settings:100"))

	refreshed, err := svc.SubmitChannel(ctx, "100")
	require.NoError(t, err)
	require.Equal(t, "201", refreshed)
}

func TestGuildSettingsServiceReadsSharedCache(t *testing.T) {
	db, redisClient, _ := setupGuildSettings(t)

	payload, err := json.Marshal(models.GuildSettings{GuildID: "300", SubmitChannelID: "301"})
	require.NoError(t, err)
	require.NoError(t, redisClient.Set(context.Background(), "guild:settings:300", payload, time.Minute).Err())

	svc := NewGuildSettingsService(repository.NewGuildSettingsRepository(db), redisClient, nil, GuildSettingsOptions{}, zerolog.Nop())

	channelID, err := svc.SubmitChannel(context.Background(), "300")
	require.NoError(t, err)
	require.Equal(t, "301", channelID)
}

func TestGuildSettingsServiceNotConfigured(t *testing.T) {
	db, _, _ := setupGuildSettings(t)
	require.NoError(t, db.Create(&models.GuildSettings{GuildID: "400"}).Error)

	svc := NewGuildSettingsService(repository.NewGuildSettingsRepository(db), nil, nil, GuildSettingsOptions{}, zerolog.Nop())

	_, err := svc.SubmitChannel(context.Background(), "400")
	require.ErrorIs(t, err, ErrGuildNotConfigured)

	_, err = svc.SubmitChannel(context.Background(), "401")
	require.ErrorIs(t, err, ErrGuildNotConfigured)
}

func TestGuildSettingsServiceHandleEvent(t *testing.T) {
	db, redisClient, mini := setupGuildSettings(t)
	require.NoError(t, db.Create(&models.GuildSettings{GuildID: "100", SubmitChannelID: "200"}).Error)

	svc := NewGuildSettingsService(repository.NewGuildSettingsRepository(db), redisClient, nil, GuildSettingsOptions{}, zerolog.Nop()).(*guildSettingsService)
	ctx := context.Background()

	_, err := svc.SubmitChannel(ctx, "100")
	require.NoError(t, err)
	require.True(t, mini.Exists("guild:settings:100"))

	require.Error(t, svc.handleEvent(ctx, []byte(`not json`)))
	require.Error(t, svc.handleEvent(ctx, []byte(`{"submit_channel_id":"5"}`)))
	require.Error(t, svc.handleEvent(ctx, []byte(`{"guild_id":"abc"}`)))
	require.True(t, mini.Exists("guild:settings:100"))

	require.NoError(t, svc.handleEvent(ctx, []byte(`{"guild_id":"100","submit_channel_id":"201"}`)))
	require.False(t, mini.Exists("guild:settings:100"))
	_, cached := svc.local.Get("100")
	require.False(t, cached)
}

func TestGuildSettingsServiceStartWithoutBus(t *testing.T) {
	db, _, _ := setupGuildSettings(t)
	svc := NewGuildSettingsService(repository.NewGuildSettingsRepository(db), nil, nil, GuildSettingsOptions{NATSSubject: "buildbot.guild_settings.updated"}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NotPanics(t, func() { svc.Start(ctx) })
}
