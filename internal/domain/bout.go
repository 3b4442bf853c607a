package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type BoutKind string

const (
	BoutKindPool BoutKind = "pool"
	BoutKindDE   BoutKind = "de"
)

const (
	MaxPoolScore = 5
	MaxDEScore   = 15
)

type Bout struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EventID uuid.UUID `json:"eventId" gorm:"type:uuid;not null;uniqueIndex:idx_bout_identity,priority:1"`
	Kind    BoutKind  `json:"kind" gorm:"not null"`

	// IdentityKey is the dedup key within an event: kind, round name or pool
	// number, and match number or the unordered normalized player pair.
	IdentityKey string `json:"identityKey" gorm:"not null;uniqueIndex:idx_bout_identity,priority:2"`

	RoundName   string `json:"roundName"`
	PoolNumber  int    `json:"poolNumber"`
	MatchNumber int    `json:"matchNumber"`

	Player1ID uuid.UUID `json:"player1Id" gorm:"type:uuid;not null"`
	Player2ID uuid.UUID `json:"player2Id" gorm:"type:uuid"`

	Score1 *int       `json:"score1"`
	Score2 *int       `json:"score2"`
	WinnerID *uuid.UUID `json:"winnerId" gorm:"type:uuid"`

	// ScoreUnknown marks a synthesized advancement (bye or unrecorded round):
	// the winner is known but no scores were ever collected.
	ScoreUnknown bool `json:"scoreUnknown" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Player1 *Player `json:"player1,omitempty" gorm:"foreignKey:Player1ID"`
	Player2 *Player `json:"player2,omitempty" gorm:"foreignKey:Player2ID"`
}

// Complete reports whether both scores are recorded and a winner is set.
// A complete bout is immutable; later fragments may only fill absent bouts.
func (b *Bout) Complete() bool {
	return !b.ScoreUnknown && b.Score1 != nil && b.Score2 != nil && b.WinnerID != nil
}

// Validate enforces the score invariants: pool bouts run to 5 with no ties,
// DE bouts to 15 with winner score at least the loser score.
func (b *Bout) Validate() error {
	if b.ScoreUnknown {
		return nil
	}
	if b.Score1 == nil || b.Score2 == nil {
		return nil
	}
	s1, s2 := *b.Score1, *b.Score2
	if s1 < 0 || s2 < 0 {
		return fmt.Errorf("%w: negative score %d-%d", ErrInvalidScore, s1, s2)
	}
	max := MaxDEScore
	if b.Kind == BoutKindPool {
		max = MaxPoolScore
		if s1 == s2 {
			return fmt.Errorf("%w: pool bout tied %d-%d", ErrInvalidScore, s1, s2)
		}
	}
	hi := s1
	if s2 > hi {
		hi = s2
	}
	if hi > max {
		return fmt.Errorf("%w: score %d exceeds %d for %s bout", ErrInvalidScore, hi, max, b.Kind)
	}
	return nil
}

// DEIdentityKey builds the dedup key for a DE bout.
func DEIdentityKey(roundName string, matchNumber int) string {
	return fmt.Sprintf("de:%s:%d", roundName, matchNumber)
}

// PoolIdentityKey builds the dedup key for a pool bout from the pool number
// and the unordered normalized player pair.
func PoolIdentityKey(poolNumber int, keyA, keyB string) string {
	if keyB < keyA {
		keyA, keyB = keyB, keyA
	}
	return fmt.Sprintf("pool:%d:%s|%s", poolNumber, keyA, keyB)
}
