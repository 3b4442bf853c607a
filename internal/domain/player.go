package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TeamStint is one entry of a player's team history, most recent last.
type TeamStint struct {
	Team       string    `json:"team"`
	ObservedAt time.Time `json:"observedAt"`
}

type Player struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DisplayName string    `json:"displayName" gorm:"not null"`
	Team        string    `json:"team"`

	// Normalized identity key. Two mentions are the same player iff these
	// match exactly, or a curated alias says so. Fuzzy merging is never done.
	NormalizedName string `json:"normalizedName" gorm:"not null;uniqueIndex:idx_player_identity,priority:1"`
	NormalizedTeam string `json:"normalizedTeam" gorm:"not null;uniqueIndex:idx_player_identity,priority:2"`

	TeamHistory datatypes.JSON `json:"teamHistory,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// History decodes the team history column; a broken column reads as empty.
func (p *Player) History() []TeamStint {
	if len(p.TeamHistory) == 0 {
		return nil
	}
	var stints []TeamStint
	if err := json.Unmarshal(p.TeamHistory, &stints); err != nil {
		return nil
	}
	return stints
}

// AppendTeamStint records a team change. It is a no-op when the team matches
// the most recent stint on record.
func (p *Player) AppendTeamStint(team string, observedAt time.Time) bool {
	stints := p.History()
	if len(stints) > 0 && stints[len(stints)-1].Team == team {
		return false
	}
	stints = append(stints, TeamStint{Team: team, ObservedAt: observedAt})
	raw, err := json.Marshal(stints)
	if err != nil {
		return false
	}
	p.TeamHistory = raw
	p.Team = team
	return true
}

// PlayerAlias is a manually curated mapping from a raw (name, team) identity
// to a canonical player. Aliases are never inferred.
type PlayerAlias struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	NormalizedName string    `json:"normalizedName" gorm:"not null;uniqueIndex:idx_alias_identity,priority:1"`
	NormalizedTeam string    `json:"normalizedTeam" gorm:"not null;uniqueIndex:idx_alias_identity,priority:2"`
	PlayerID       uuid.UUID `json:"playerId" gorm:"type:uuid;not null"`
	Note           string    `json:"note"`
	CreatedAt      time.Time `json:"createdAt"`

	Player *Player `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
}
