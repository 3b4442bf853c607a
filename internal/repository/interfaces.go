package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fencetrack/fencetrack/internal/domain"
)

type CompetitionRepository interface {
	Upsert(ctx context.Context, comp *domain.Competition) error
	GetByKey(ctx context.Context, compKey string) (*domain.Competition, error)
	List(ctx context.Context) ([]*domain.Competition, error)
}

type EventRepository interface {
	Upsert(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	GetByKeys(ctx context.Context, competitionID uuid.UUID, eventKey, subEventKey string) (*domain.Event, error)
	ListByCompetition(ctx context.Context, competitionID uuid.UUID) ([]*domain.Event, error)
	// UpdateRecord writes the reconciled record guarded by the revision the
	// caller read; domain.ErrRevisionConflict signals a concurrent writer.
	UpdateRecord(ctx context.Context, event *domain.Event, expectedRevision int) error
}

type PlayerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error)
	GetByIdentity(ctx context.Context, normalizedName, normalizedTeam string) (*domain.Player, error)
	Create(ctx context.Context, player *domain.Player) error
	Update(ctx context.Context, player *domain.Player) error
	List(ctx context.Context, limit, offset int) ([]*domain.Player, error)
	// ListDuplicateCandidates returns players whose normalized name is shared
	// by more than one player row. These are never merged automatically; an
	// operator reviews them and curates an alias where appropriate.
	ListDuplicateCandidates(ctx context.Context) ([]*domain.Player, error)
}

type BoutRepository interface {
	// InsertOrSkip writes bouts with do-nothing conflict semantics on the
	// (event, identity) key, so re-collection passes are repeat-safe.
	InsertOrSkip(ctx context.Context, bouts []*domain.Bout) error
	Update(ctx context.Context, bout *domain.Bout) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Bout, error)
}

type RankingRepository interface {
	UpsertMany(ctx context.Context, rankings []*domain.Ranking) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Ranking, error)
}

type AliasRepository interface {
	Create(ctx context.Context, alias *domain.PlayerAlias) error
	GetByIdentity(ctx context.Context, normalizedName, normalizedTeam string) (*domain.PlayerAlias, error)
	List(ctx context.Context) ([]*domain.PlayerAlias, error)
}

type ConflictRepository interface {
	Create(ctx context.Context, conflict *domain.MergeConflict) error
	ListOpen(ctx context.Context) ([]*domain.MergeConflict, error)
}

type Repositories struct {
	Competition CompetitionRepository
	Event       EventRepository
	Player      PlayerRepository
	Bout        BoutRepository
	Ranking     RankingRepository
	Alias       AliasRepository
	Conflict    ConflictRepository
}

// UnitOfWork runs a function against a transactional repository set. An
// event's field groups commit together or not at all.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos *Repositories) error) error
}
