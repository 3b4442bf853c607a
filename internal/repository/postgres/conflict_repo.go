package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/fencetrack/fencetrack/internal/domain"
)

type conflictRepository struct {
	db *gorm.DB
}

func NewConflictRepository(db *gorm.DB) *conflictRepository {
	return &conflictRepository{db: db}
}

func (r *conflictRepository) Create(ctx context.Context, conflict *domain.MergeConflict) error {
	return r.db.WithContext(ctx).Create(conflict).Error
}

func (r *conflictRepository) ListOpen(ctx context.Context) ([]*domain.MergeConflict, error) {
	var conflicts []*domain.MergeConflict
	err := r.db.WithContext(ctx).
		Where("resolved = ?", false).
		Order("created_at ASC").
		Find(&conflicts).Error
	if err != nil {
		return nil, err
	}
	return conflicts, nil
}
