package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fencetrack/fencetrack/internal/domain"
)

type boutRepository struct {
	db *gorm.DB
}

func NewBoutRepository(db *gorm.DB) *boutRepository {
	return &boutRepository{db: db}
}

// InsertOrSkip writes bouts with do-nothing semantics on the identity key.
// Re-ingesting the same fragment is a no-op; a complete bout is never
// overwritten here.
func (r *boutRepository) InsertOrSkip(ctx context.Context, bouts []*domain.Bout) error {
	if len(bouts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "identity_key"}},
		DoNothing: true,
	}).Create(bouts).Error
}

func (r *boutRepository) Update(ctx context.Context, bout *domain.Bout) error {
	return r.db.WithContext(ctx).Save(bout).Error
}

func (r *boutRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Bout, error) {
	var bouts []*domain.Bout
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("kind ASC, round_name ASC, pool_number ASC, match_number ASC").
		Find(&bouts).Error
	if err != nil {
		return nil, err
	}
	return bouts, nil
}
