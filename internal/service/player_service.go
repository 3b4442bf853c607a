package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/normalize"
	"github.com/fencetrack/fencetrack/internal/repository"
)

// PlayerService covers player reads and alias curation. Aliases are the only
// way two distinct normalized identities ever become one player.
type PlayerService struct {
	repos *repository.Repositories
}

func NewPlayerService(repos *repository.Repositories) *PlayerService {
	return &PlayerService{repos: repos}
}

func (s *PlayerService) List(ctx context.Context, limit, offset int) ([]*domain.Player, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repos.Player.List(ctx, limit, offset)
}

func (s *PlayerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	return s.repos.Player.GetByID(ctx, id)
}

// ListDuplicateCandidates surfaces same-name players on different teams for
// operator review. Nothing here merges anything.
func (s *PlayerService) ListDuplicateCandidates(ctx context.Context) ([]*domain.Player, error) {
	return s.repos.Player.ListDuplicateCandidates(ctx)
}

type CreateAliasInput struct {
	Name     string
	Team     string
	PlayerID uuid.UUID
	Note     string
}

// CreateAlias records a curated mapping from a raw (name, team) identity to
// a canonical player.
func (s *PlayerService) CreateAlias(ctx context.Context, input CreateAliasInput) (*domain.PlayerAlias, error) {
	name := normalize.Name(input.Name)
	team := normalize.Name(input.Team)
	if name == "" {
		return nil, fmt.Errorf("alias name is required")
	}
	if _, err := s.repos.Player.GetByID(ctx, input.PlayerID); err != nil {
		return nil, err
	}
	alias := &domain.PlayerAlias{
		NormalizedName: name,
		NormalizedTeam: team,
		PlayerID:       input.PlayerID,
		Note:           input.Note,
	}
	if err := s.repos.Alias.Create(ctx, alias); err != nil {
		return nil, fmt.Errorf("create alias %s/%s: %w", name, team, err)
	}
	return alias, nil
}

func (s *PlayerService) ListAliases(ctx context.Context) ([]*domain.PlayerAlias, error) {
	return s.repos.Alias.List(ctx)
}
