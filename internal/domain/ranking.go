package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ranking is a player's final placement within an event. Rank positions may
// repeat: when the third-place bout is not held, both semifinal losers share
// rank 3.
type Ranking struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EventID  uuid.UUID `json:"eventId" gorm:"type:uuid;not null;uniqueIndex:idx_ranking_identity,priority:1"`
	PlayerID uuid.UUID `json:"playerId" gorm:"type:uuid;not null;uniqueIndex:idx_ranking_identity,priority:2"`
	Position int       `json:"position" gorm:"not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Player *Player `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
}
