package models

import "time"

// Rejection is the terminal review outcome of a build that earned no points.
type Rejection struct {
	ID         string    `gorm:"primaryKey;size:32" json:"id"`
	GuildID    string    `gorm:"size:32;index" json:"guild_id"`
	UserID     string    `gorm:"size:32" json:"user_id"`
	Feedback   string    `gorm:"type:text" json:"feedback"`
	ReviewerID string    `gorm:"size:32" json:"reviewer_id"`
	CreatedAt  time.Time `json:"created_at"`
}
