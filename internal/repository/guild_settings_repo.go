package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/buildbot/internal/models"
)

// GuildSettingsRepository reads per-guild configuration.
type GuildSettingsRepository interface {
	GetByGuildID(ctx context.Context, guildID string) (models.GuildSettings, error)
}

type guildSettingsRepository struct {
	db *gorm.DB
}

// NewGuildSettingsRepository instantiates the repository.
func NewGuildSettingsRepository(db *gorm.DB) GuildSettingsRepository {
	return &guildSettingsRepository{db: db}
}

func (r *guildSettingsRepository) GetByGuildID(ctx context.Context, guildID string) (models.GuildSettings, error) {
	var settings models.GuildSettings
	if err := r.db.WithContext(ctx).Where("guild_id = ?", guildID).First(&settings).Error; err != nil {
		return models.GuildSettings{}, err
	}

	return settings, nil
}
