package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/gorm"

	"github.com/noah-isme/buildbot/internal/dto"
	"github.com/noah-isme/buildbot/internal/models"
	"github.com/noah-isme/buildbot/internal/repository"
)

// ErrGuildNotConfigured indicates the guild has no build submit channel.
var ErrGuildNotConfigured = errors.New("guild has no submit channel configured")

//go:embed schemas/guild_settings_event.schema.json
var guildSettingsEventSchema string

var settingsEventSchema = jsonschema.MustCompileString("guild_settings_event.schema.json", guildSettingsEventSchema)

// GuildSettingsService resolves per-guild configuration through a local and a shared cache.
type GuildSettingsService interface {
	SubmitChannel(ctx context.Context, guildID string) (string, error)
	Invalidate(ctx context.Context, guildID string) error
	Start(ctx context.Context)
}

// GuildSettingsOptions tunes caching and invalidation.
type GuildSettingsOptions struct {
	CacheSize   int
	CacheTTL    time.Duration
	NATSSubject string
}

type guildSettingsService struct {
	repo        repository.GuildSettingsRepository
	local       *expirable.LRU[string, models.GuildSettings]
	cache       *redis.Client
	cacheTTL    time.Duration
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
}

// NewGuildSettingsService builds the settings resolver. cache and natsConn may be nil.
func NewGuildSettingsService(repo repository.GuildSettingsRepository, cache *redis.Client, natsConn *nats.Conn, opts GuildSettingsOptions, logger zerolog.Logger) GuildSettingsService {
	size := opts.CacheSize
	if size <= 0 {
		size = 256
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return &guildSettingsService{
		repo:        repo,
		local:       expirable.NewLRU[string, models.GuildSettings](size, nil, ttl),
		cache:       cache,
		cacheTTL:    ttl,
		nats:        natsConn,
		natsSubject: opts.NATSSubject,
		logger:      logger.With().Str("component", "guild_settings_service").Logger(),
	}
}

func (s *guildSettingsService) SubmitChannel(ctx context.Context, guildID string) (string, error) {
	settings, err := s.get(ctx, guildID)
	if err != nil {
		return "", err
	}

	if !settings.HasSubmitChannel() {
		return "", ErrGuildNotConfigured
	}

	return settings.SubmitChannelID, nil
}

func (s *guildSettingsService) get(ctx context.Context, guildID string) (models.GuildSettings, error) {
	if settings, ok := s.local.Get(guildID); ok {
		return settings, nil
	}

	cacheKey := guildSettingsCacheKey(guildID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var settings models.GuildSettings
			if unmarshalErr := json.Unmarshal([]byte(cached), &settings); unmarshalErr == nil {
				s.logger.Debug().Str("guild_id", guildID).Msg("guild settings cache hit")
				s.local.Add(guildID, settings)
				return settings, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read guild settings cache")
		}
	}

	settings, err := s.repo.GetByGuildID(ctx, guildID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.GuildSettings{}, ErrGuildNotConfigured
		}
		return models.GuildSettings{}, fmt.Errorf("failed to load guild settings: %w", err)
	}

	s.local.Add(guildID, settings)

	if s.cache != nil {
		payload, err := json.Marshal(settings)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store guild settings cache")
			}
		}
	}

	return settings, nil
}

func (s *guildSettingsService) Invalidate(ctx context.Context, guildID string) error {
	s.local.Remove(guildID)

	if s.cache != nil {
		if err := s.cache.Del(ctx, guildSettingsCacheKey(guildID)).Err(); err != nil {
			return fmt.Errorf("failed to evict guild settings cache: %w", err)
		}
	}

	s.logger.Info().Str("guild_id", guildID).Msg("guild settings invalidated")
	return nil
}

// Start listens for settings change events until ctx is done.
// Every replica subscribes without a queue group so each local cache is evicted.
func (s *guildSettingsService) Start(ctx context.Context) {
	if s.nats == nil || s.natsSubject == "" {
		return
	}

	sub, err := s.nats.Subscribe(s.natsSubject, func(msg *nats.Msg) {
		if err := s.handleEvent(ctx, msg.Data); err != nil {
			s.logger.Warn().Err(err).Msg("dropped guild settings event")
		}
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to guild settings subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain guild settings subscription")
		}
	}()
}

func (s *guildSettingsService) handleEvent(ctx context.Context, data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid guild settings event: %w", err)
	}
	if err := settingsEventSchema.Validate(raw); err != nil {
		return fmt.Errorf("guild settings event failed schema validation: %w", err)
	}

	var event dto.GuildSettingsEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("invalid guild settings event: %w", err)
	}

	return s.Invalidate(ctx, strings.TrimSpace(event.GuildID))
}

func guildSettingsCacheKey(guildID string) string {
	return fmt.Sprintf("guild:settings:%s", guildID)
}
