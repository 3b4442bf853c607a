package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fencetrack/fencetrack/internal/domain"
)

type rankingRepository struct {
	db *gorm.DB
}

func NewRankingRepository(db *gorm.DB) *rankingRepository {
	return &rankingRepository{db: db}
}

func (r *rankingRepository) UpsertMany(ctx context.Context, rankings []*domain.Ranking) error {
	if len(rankings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"position", "updated_at"}),
	}).Create(rankings).Error
}

func (r *rankingRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Ranking, error) {
	var rankings []*domain.Ranking
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("position ASC").
		Find(&rankings).Error
	if err != nil {
		return nil, err
	}
	return rankings, nil
}
