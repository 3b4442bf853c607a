package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Weapon string

const (
	WeaponFoil  Weapon = "foil"
	WeaponEpee  Weapon = "epee"
	WeaponSabre Weapon = "sabre"
)

type Gender string

const (
	GenderMen   Gender = "men"
	GenderWomen Gender = "women"
	GenderMixed Gender = "mixed"
)

type BoutContext string

const (
	BoutContextIndividual BoutContext = "individual"
	BoutContextTeam       BoutContext = "team"
)

type EventStatus string

const (
	EventStatusPending EventStatus = "pending"
	EventStatusPartial EventStatus = "partial"
	EventStatusTracked EventStatus = "tracked"
	// EventStatusNoResults marks a sub-event the source genuinely has no data
	// for (walkover, cancelled). Terminal: it suppresses coverage gaps.
	EventStatusNoResults EventStatus = "no_results"
)

type Event struct {
	ID            uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CompetitionID uuid.UUID   `json:"competitionId" gorm:"type:uuid;not null;uniqueIndex:idx_event_key,priority:1"`
	EventKey      string      `json:"eventKey" gorm:"not null;uniqueIndex:idx_event_key,priority:2"`
	SubEventKey   string      `json:"subEventKey" gorm:"not null;uniqueIndex:idx_event_key,priority:3"`
	Name          string      `json:"name"`
	Weapon        Weapon      `json:"weapon"`
	Gender        Gender      `json:"gender"`
	AgeGroup      string      `json:"ageGroup"`
	Context       BoutContext `json:"context" gorm:"not null;default:'individual'"`
	Status        EventStatus `json:"status" gorm:"not null;default:'pending'"`

	// RawData holds the event's reconciled record (seeding, pool rounds, DE
	// rounds, final rankings) as one JSON document; the bouts and rankings
	// tables are projections of it.
	RawData datatypes.JSON `json:"rawData,omitempty"`

	// Revision guards against concurrent writers of the same event record.
	Revision int `json:"revision" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Competition *Competition `json:"competition,omitempty" gorm:"foreignKey:CompetitionID"`
	Bouts       []Bout       `json:"bouts,omitempty" gorm:"foreignKey:EventID"`
	Rankings    []Ranking    `json:"rankings,omitempty" gorm:"foreignKey:EventID"`
}
