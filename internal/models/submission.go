package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubmissionType identifies how a reviewed build was scored.
type SubmissionType string

const (
	// SubmissionTypeOne is a single building scored by size.
	SubmissionTypeOne SubmissionType = "ONE"
	// SubmissionTypeMany is a group of buildings scored by counts per size.
	SubmissionTypeMany SubmissionType = "MANY"
	// SubmissionTypeLand is landscaping scored by area.
	SubmissionTypeLand SubmissionType = "LAND"
	// SubmissionTypeRoad is road work scored by length.
	SubmissionTypeRoad SubmissionType = "ROAD"
)

// Submission is a reviewed build. ID is the snowflake of the message the build was posted under.
type Submission struct {
	ID             string                      `gorm:"primaryKey;size:32" json:"id" validate:"required,numeric"`
	GuildID        string                      `gorm:"size:32;index" json:"guild_id"`
	UserID         string                      `gorm:"size:32;not null" json:"user_id" validate:"required"`
	SubmissionType SubmissionType              `gorm:"size:8;not null" json:"submission_type" validate:"required,oneof=ONE MANY LAND ROAD"`
	PointsTotal    float64                     `gorm:"not null" json:"points_total" validate:"gte=0"`
	Quality        float64                     `gorm:"not null" json:"quality"`
	Complexity     float64                     `gorm:"not null" json:"complexity"`
	Bonus          float64                     `gorm:"not null;default:1" json:"bonus"`
	Collaborators  datatypes.JSONSlice[string] `json:"collaborators"`
	Feedback       string                      `gorm:"type:text" json:"feedback"`
	Size           *int                        `json:"size,omitempty" validate:"required_if=SubmissionType ONE"`
	SmallAmt       *int                        `json:"small_amt,omitempty" validate:"required_if=SubmissionType MANY"`
	MediumAmt      *int                        `json:"medium_amt,omitempty" validate:"required_if=SubmissionType MANY"`
	LargeAmt       *int                        `json:"large_amt,omitempty" validate:"required_if=SubmissionType MANY"`
	Sqm            *float64                    `json:"sqm,omitempty" validate:"required_if=SubmissionType LAND"`
	RoadType       *string                     `gorm:"size:64" json:"road_type,omitempty" validate:"required_if=SubmissionType ROAD"`
	RoadKMs        *float64                    `gorm:"column:road_kms" json:"road_kms,omitempty" validate:"required_if=SubmissionType ROAD"`
	ReviewerID     string                      `gorm:"size:32" json:"reviewer_id"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}
