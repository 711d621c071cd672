package models

import "time"

// GuildSettings holds per-guild configuration maintained by the review team.
type GuildSettings struct {
	GuildID         string    `gorm:"primaryKey;size:32" json:"guild_id"`
	SubmitChannelID string    `gorm:"size:32" json:"submit_channel_id"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasSubmitChannel reports whether a build submit channel has been configured.
func (g GuildSettings) HasSubmitChannel() bool {
	return g.SubmitChannelID != ""
}
