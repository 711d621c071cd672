package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/buildbot/internal/models"
)

// RejectionRepository reads rejected builds.
type RejectionRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (models.Rejection, error)
}

type rejectionRepository struct {
	db *gorm.DB
}

// NewRejectionRepository instantiates the repository.
func NewRejectionRepository(db *gorm.DB) RejectionRepository {
	return &rejectionRepository{db: db}
}

func (r *rejectionRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Rejection{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *rejectionRepository) GetByID(ctx context.Context, id string) (models.Rejection, error) {
	var rejection models.Rejection
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rejection).Error; err != nil {
		return models.Rejection{}, err
	}

	return rejection, nil
}
