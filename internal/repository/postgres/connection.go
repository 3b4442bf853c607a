package postgres

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/repository"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.Competition{},
		&domain.Event{},
		&domain.Player{},
		&domain.PlayerAlias{},
		&domain.Bout{},
		&domain.Ranking{},
		&domain.MergeConflict{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Competition: NewCompetitionRepository(db),
		Event:       NewEventRepository(db),
		Player:      NewPlayerRepository(db),
		Bout:        NewBoutRepository(db),
		Ranking:     NewRankingRepository(db),
		Alias:       NewAliasRepository(db),
		Conflict:    NewConflictRepository(db),
	}
}

// unitOfWork wraps every repository call inside one database transaction.
type unitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) repository.UnitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
