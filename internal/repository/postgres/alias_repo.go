package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fencetrack/fencetrack/internal/domain"
)

type aliasRepository struct {
	db *gorm.DB
}

func NewAliasRepository(db *gorm.DB) *aliasRepository {
	return &aliasRepository{db: db}
}

func (r *aliasRepository) Create(ctx context.Context, alias *domain.PlayerAlias) error {
	return r.db.WithContext(ctx).Create(alias).Error
}

func (r *aliasRepository) GetByIdentity(ctx context.Context, normalizedName, normalizedTeam string) (*domain.PlayerAlias, error) {
	var alias domain.PlayerAlias
	err := r.db.WithContext(ctx).
		First(&alias, "normalized_name = ? AND normalized_team = ?", normalizedName, normalizedTeam).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, err
	}
	return &alias, nil
}

func (r *aliasRepository) List(ctx context.Context) ([]*domain.PlayerAlias, error) {
	var aliases []*domain.PlayerAlias
	err := r.db.WithContext(ctx).Order("normalized_name ASC").Find(&aliases).Error
	if err != nil {
		return nil, err
	}
	return aliases, nil
}
