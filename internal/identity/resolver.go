// Package identity resolves raw (name, team) mentions to canonical players.
// Matching is exact on the normalized tuple or through a manually curated
// alias; nothing is ever merged on similarity. A wrong merge corrupts every
// statistic downstream, while a duplicate identity is cleanable later.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/normalize"
)

// PlayerStore is the slice of the player repository the resolver needs.
type PlayerStore interface {
	GetByIdentity(ctx context.Context, normalizedName, normalizedTeam string) (*domain.Player, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error)
	Create(ctx context.Context, player *domain.Player) error
	Update(ctx context.Context, player *domain.Player) error
}

// AliasStore looks up curated alias mappings.
type AliasStore interface {
	GetByIdentity(ctx context.Context, normalizedName, normalizedTeam string) (*domain.PlayerAlias, error)
}

type Resolver struct {
	players PlayerStore
	aliases AliasStore

	// cache keeps one canonical player per identity key for the lifetime of
	// a run, so an event's worth of mentions costs one lookup each.
	cache map[string]*domain.Player
}

func NewResolver(players PlayerStore, aliases AliasStore) *Resolver {
	return &Resolver{
		players: players,
		aliases: aliases,
		cache:   make(map[string]*domain.Player),
	}
}

// Resolve maps a mention to its canonical player, creating one when no
// normalized identity and no alias matches. A team change against the most
// recent stint on record is appended to the player's history.
func (r *Resolver) Resolve(ctx context.Context, m domain.Mention, observedAt time.Time) (*domain.Player, error) {
	name := normalize.Name(m.Name)
	team := normalize.Name(m.Team)
	if name == "" {
		return nil, fmt.Errorf("resolve: empty player name")
	}
	key := name + "\x1f" + team
	if p, ok := r.cache[key]; ok {
		return p, nil
	}

	player, err := r.lookup(ctx, name, team)
	if err != nil && !errors.Is(err, domain.ErrPlayerNotFound) {
		return nil, err
	}
	if player == nil {
		player = &domain.Player{
			DisplayName:    name,
			Team:           team,
			NormalizedName: name,
			NormalizedTeam: team,
		}
		player.AppendTeamStint(team, observedAt)
		if err := r.players.Create(ctx, player); err != nil {
			return nil, fmt.Errorf("create player %s: %w", name, err)
		}
	} else if player.AppendTeamStint(team, observedAt) {
		if err := r.players.Update(ctx, player); err != nil {
			return nil, fmt.Errorf("update player %s: %w", name, err)
		}
	}

	r.cache[key] = player
	return player, nil
}

func (r *Resolver) lookup(ctx context.Context, name, team string) (*domain.Player, error) {
	if r.aliases != nil {
		alias, err := r.aliases.GetByIdentity(ctx, name, team)
		if err == nil && alias != nil {
			return r.players.GetByID(ctx, alias.PlayerID)
		}
		if err != nil && !errors.Is(err, domain.ErrPlayerNotFound) {
			return nil, err
		}
	}
	return r.players.GetByIdentity(ctx, name, team)
}
