package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fencetrack/fencetrack/internal/domain"
)

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *eventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Upsert(ctx context.Context, event *domain.Event) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "competition_id"}, {Name: "event_key"}, {Name: "sub_event_key"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "weapon", "gender", "age_group", "context", "updated_at",
		}),
	}).Create(event).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetByKeys(ctx context.Context, competitionID uuid.UUID, eventKey, subEventKey string) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).
		First(&event, "competition_id = ? AND event_key = ? AND sub_event_key = ?", competitionID, eventKey, subEventKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) ListByCompetition(ctx context.Context, competitionID uuid.UUID) ([]*domain.Event, error) {
	var events []*domain.Event
	err := r.db.WithContext(ctx).
		Where("competition_id = ?", competitionID).
		Order("event_key ASC, sub_event_key ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateRecord writes the reconciled record with an optimistic revision
// guard. Zero rows updated means another writer got there first.
func (r *eventRepository) UpdateRecord(ctx context.Context, event *domain.Event, expectedRevision int) error {
	result := r.db.WithContext(ctx).Model(&domain.Event{}).
		Where("id = ? AND revision = ?", event.ID, expectedRevision).
		Updates(map[string]any{
			"raw_data": event.RawData,
			"status":   event.Status,
			"revision": expectedRevision + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrRevisionConflict
	}
	event.Revision = expectedRevision + 1
	return nil
}
