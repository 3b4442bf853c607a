package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/repository"
)

// CompetitionService serves the read side: competitions, events, bouts,
// rankings, and open merge conflicts.
type CompetitionService struct {
	repos *repository.Repositories
}

func NewCompetitionService(repos *repository.Repositories) *CompetitionService {
	return &CompetitionService{repos: repos}
}

func (s *CompetitionService) List(ctx context.Context) ([]*domain.Competition, error) {
	return s.repos.Competition.List(ctx)
}

func (s *CompetitionService) GetByKey(ctx context.Context, compKey string) (*domain.Competition, error) {
	return s.repos.Competition.GetByKey(ctx, compKey)
}

func (s *CompetitionService) Events(ctx context.Context, compKey string) ([]*domain.Event, error) {
	comp, err := s.repos.Competition.GetByKey(ctx, compKey)
	if err != nil {
		return nil, err
	}
	return s.repos.Event.ListByCompetition(ctx, comp.ID)
}

func (s *CompetitionService) EventBouts(ctx context.Context, eventID uuid.UUID) ([]*domain.Bout, error) {
	if _, err := s.repos.Event.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repos.Bout.ListByEvent(ctx, eventID)
}

func (s *CompetitionService) EventRankings(ctx context.Context, eventID uuid.UUID) ([]*domain.Ranking, error) {
	if _, err := s.repos.Event.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repos.Ranking.ListByEvent(ctx, eventID)
}

// EventRecord decodes the reconciled record document for one event.
func (s *CompetitionService) EventRecord(ctx context.Context, eventID uuid.UUID) (*domain.EventRecord, error) {
	event, err := s.repos.Event.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	record := &domain.EventRecord{}
	if len(event.RawData) > 0 {
		if err := json.Unmarshal(event.RawData, record); err != nil {
			return nil, err
		}
	}
	return record, nil
}

func (s *CompetitionService) OpenConflicts(ctx context.Context) ([]*domain.MergeConflict, error) {
	return s.repos.Conflict.ListOpen(ctx)
}
