package domain

import (
	"time"

	"github.com/google/uuid"
)

type CompetitionStatus string

const (
	CompetitionStatusScheduled  CompetitionStatus = "scheduled"
	CompetitionStatusInProgress CompetitionStatus = "in_progress"
	CompetitionStatusCompleted  CompetitionStatus = "completed"
)

var competitionStatusOrder = map[CompetitionStatus]int{
	CompetitionStatusScheduled:  0,
	CompetitionStatusInProgress: 1,
	CompetitionStatusCompleted:  2,
}

type Competition struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CompKey   string            `json:"compKey" gorm:"uniqueIndex;not null"`
	Name      string            `json:"name" gorm:"not null"`
	StartDate *time.Time        `json:"startDate"`
	EndDate   *time.Time        `json:"endDate"`
	Venue     string            `json:"venue"`
	Status    CompetitionStatus `json:"status" gorm:"not null;default:'scheduled'"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`

	// Relations
	Events []Event `json:"events,omitempty" gorm:"foreignKey:CompetitionID"`
}

// AdvanceStatus moves the competition status forward. Status never regresses:
// a completed competition stays completed no matter what a late fragment says.
func (c *Competition) AdvanceStatus(next CompetitionStatus) bool {
	if competitionStatusOrder[next] <= competitionStatusOrder[c.Status] {
		return false
	}
	c.Status = next
	return true
}
