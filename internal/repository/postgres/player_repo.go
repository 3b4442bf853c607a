package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fencetrack/fencetrack/internal/domain"
)

type playerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) *playerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).First(&player, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

func (r *playerRepository) GetByIdentity(ctx context.Context, normalizedName, normalizedTeam string) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).
		First(&player, "normalized_name = ? AND normalized_team = ?", normalizedName, normalizedTeam).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

func (r *playerRepository) Create(ctx context.Context, player *domain.Player) error {
	return r.db.WithContext(ctx).Create(player).Error
}

func (r *playerRepository) Update(ctx context.Context, player *domain.Player) error {
	return r.db.WithContext(ctx).Save(player).Error
}

func (r *playerRepository) ListDuplicateCandidates(ctx context.Context) ([]*domain.Player, error) {
	var players []*domain.Player
	err := r.db.WithContext(ctx).
		Where("normalized_name IN (?)", r.db.Model(&domain.Player{}).
			Select("normalized_name").
			Group("normalized_name").
			Having("COUNT(*) > 1")).
		Order("normalized_name ASC, normalized_team ASC").
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (r *playerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Player, error) {
	var players []*domain.Player
	err := r.db.WithContext(ctx).
		Order("normalized_name ASC, normalized_team ASC").
		Limit(limit).Offset(offset).
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}
