package testutil

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/normalize"
)

// CompetitionBuilder creates test competitions with a builder pattern
type CompetitionBuilder struct {
	compKey string
	name    string
	status  domain.CompetitionStatus
	start   *time.Time
}

func NewCompetitionBuilder() *CompetitionBuilder {
	key := fmt.Sprintf("comp_%s", uuid.New().String()[:8])
	return &CompetitionBuilder{
		compKey: key,
		name:    "Test Competition " + key,
		status:  domain.CompetitionStatusInProgress,
	}
}

func (b *CompetitionBuilder) WithKey(key string) *CompetitionBuilder {
	b.compKey = key
	return b
}

func (b *CompetitionBuilder) WithStatus(status domain.CompetitionStatus) *CompetitionBuilder {
	b.status = status
	return b
}

func (b *CompetitionBuilder) WithStartDate(start time.Time) *CompetitionBuilder {
	b.start = &start
	return b
}

func (b *CompetitionBuilder) Build(t *testing.T, db *gorm.DB) *domain.Competition {
	t.Helper()

	comp := &domain.Competition{
		ID:        uuid.New(),
		CompKey:   b.compKey,
		Name:      b.name,
		Status:    b.status,
		StartDate: b.start,
	}
	if err := db.Create(comp).Error; err != nil {
		t.Fatalf("failed to create competition: %v", err)
	}
	return comp
}

// EventBuilder creates test events
type EventBuilder struct {
	eventKey    string
	subEventKey string
	weapon      domain.Weapon
	gender      domain.Gender
	status      domain.EventStatus
	record      *domain.EventRecord
}

func NewEventBuilder() *EventBuilder {
	return &EventBuilder{
		eventKey:    fmt.Sprintf("event_%s", uuid.New().String()[:8]),
		subEventKey: "senior",
		weapon:      domain.WeaponEpee,
		gender:      domain.GenderMen,
		status:      domain.EventStatusPending,
	}
}

func (b *EventBuilder) WithKeys(eventKey, subEventKey string) *EventBuilder {
	b.eventKey = eventKey
	b.subEventKey = subEventKey
	return b
}

func (b *EventBuilder) WithStatus(status domain.EventStatus) *EventBuilder {
	b.status = status
	return b
}

func (b *EventBuilder) WithRecord(record *domain.EventRecord) *EventBuilder {
	b.record = record
	return b
}

func (b *EventBuilder) Build(t *testing.T, db *gorm.DB, comp *domain.Competition) *domain.Event {
	t.Helper()

	event := &domain.Event{
		ID:            uuid.New(),
		CompetitionID: comp.ID,
		EventKey:      b.eventKey,
		SubEventKey:   b.subEventKey,
		Name:          b.eventKey,
		Weapon:        b.weapon,
		Gender:        b.gender,
		Context:       domain.BoutContextIndividual,
		Status:        b.status,
	}
	if b.record != nil {
		raw, err := json.Marshal(b.record)
		if err != nil {
			t.Fatalf("failed to marshal event record: %v", err)
		}
		event.RawData = raw
		event.Revision = 1
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return event
}

// PlayerBuilder creates test players
type PlayerBuilder struct {
	name string
	team string
}

func NewPlayerBuilder() *PlayerBuilder {
	return &PlayerBuilder{
		name: fmt.Sprintf("Player %s", uuid.New().String()[:8]),
		team: "Test Club",
	}
}

func (b *PlayerBuilder) WithName(name string) *PlayerBuilder {
	b.name = name
	return b
}

func (b *PlayerBuilder) WithTeam(team string) *PlayerBuilder {
	b.team = team
	return b
}

func (b *PlayerBuilder) Build(t *testing.T, db *gorm.DB) *domain.Player {
	t.Helper()

	player := &domain.Player{
		ID:             uuid.New(),
		DisplayName:    b.name,
		Team:           b.team,
		NormalizedName: normalize.Name(b.name),
		NormalizedTeam: normalize.Name(b.team),
	}
	if err := db.Create(player).Error; err != nil {
		t.Fatalf("failed to create player: %v", err)
	}
	return player
}

// BoutFixture inserts a completed DE bout between two players.
func BoutFixture(t *testing.T, db *gorm.DB, event *domain.Event, p1, p2 *domain.Player, roundName string, matchNumber, s1, s2 int) *domain.Bout {
	t.Helper()

	winnerID := p1.ID
	if s2 > s1 {
		winnerID = p2.ID
	}
	bout := &domain.Bout{
		ID:          uuid.New(),
		EventID:     event.ID,
		Kind:        domain.BoutKindDE,
		IdentityKey: domain.DEIdentityKey(roundName, matchNumber),
		RoundName:   roundName,
		MatchNumber: matchNumber,
		Player1ID:   p1.ID,
		Player2ID:   p2.ID,
		Score1:      &s1,
		Score2:      &s2,
		WinnerID:    &winnerID,
	}
	if err := db.Create(bout).Error; err != nil {
		t.Fatalf("failed to create bout: %v", err)
	}
	return bout
}
