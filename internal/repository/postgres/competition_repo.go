package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fencetrack/fencetrack/internal/domain"
)

type competitionRepository struct {
	db *gorm.DB
}

func NewCompetitionRepository(db *gorm.DB) *competitionRepository {
	return &competitionRepository{db: db}
}

func (r *competitionRepository) Upsert(ctx context.Context, comp *domain.Competition) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "comp_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "start_date", "end_date", "venue", "status", "updated_at",
		}),
	}).Create(comp).Error
}

func (r *competitionRepository) GetByKey(ctx context.Context, compKey string) (*domain.Competition, error) {
	var comp domain.Competition
	err := r.db.WithContext(ctx).First(&comp, "comp_key = ?", compKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompetitionNotFound
		}
		return nil, err
	}
	return &comp, nil
}

func (r *competitionRepository) List(ctx context.Context) ([]*domain.Competition, error) {
	var comps []*domain.Competition
	err := r.db.WithContext(ctx).Order("comp_key ASC").Find(&comps).Error
	if err != nil {
		return nil, err
	}
	return comps, nil
}
