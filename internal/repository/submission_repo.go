package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/buildbot/internal/models"
)

// SubmissionRepository reads reviewed builds.
type SubmissionRepository interface {
	GetByID(ctx context.Context, id string) (models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// GetByID returns gorm.ErrRecordNotFound when the build has not been scored.
func (r *submissionRepository) GetByID(ctx context.Context, id string) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}
