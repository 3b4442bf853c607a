package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fencetrack/fencetrack/internal/bracket"
	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/identity"
	"github.com/fencetrack/fencetrack/internal/merge"
	"github.com/fencetrack/fencetrack/internal/metrics"
	"github.com/fencetrack/fencetrack/internal/normalize"
	"github.com/fencetrack/fencetrack/internal/repository"
)

// IngestService runs one event fragment through the whole pipeline:
// normalize, reconstruct, merge against the persisted record, project bouts
// and rankings. All of an event's field groups commit in one transaction or
// not at all.
type IngestService struct {
	uow   repository.UnitOfWork
	repos *repository.Repositories
}

func NewIngestService(uow repository.UnitOfWork, repos *repository.Repositories) *IngestService {
	return &IngestService{uow: uow, repos: repos}
}

// IngestFragment reconciles one raw payload. Structural validation failures
// and merge conflicts are recorded on the outcome, not returned as errors;
// an error return means the store itself failed.
func (s *IngestService) IngestFragment(ctx context.Context, raw *domain.RawFragment) (domain.EventOutcome, error) {
	frag := normalize.Fragment(raw)
	outcome := domain.EventOutcome{
		CompKey:     frag.CompKey,
		EventKey:    frag.EventKey,
		SubEventKey: frag.SubEventKey,
	}
	if frag.CompKey == "" {
		return outcome, fmt.Errorf("fragment carries no competition key")
	}
	if frag.EventKey == "" {
		return outcome, fmt.Errorf("fragment for %s carries no event key", frag.CompKey)
	}
	metrics.EventsProcessed.Inc()

	comp, event, err := s.ensureRows(ctx, frag)
	if err != nil {
		return outcome, err
	}

	incoming, err := s.buildIncoming(frag)
	if err != nil {
		var sve *domain.StructuralValidationError
		if errors.As(err, &sve) {
			metrics.StructuralErrors.Inc()
			outcome.StructuralError = true
			outcome.Error = sve.Error()
			return outcome, nil
		}
		return outcome, err
	}

	// Retry once when a concurrent writer bumped the revision between our
	// read and write; a second loss is reported as a conflict.
	for attempt := 0; attempt < 2; attempt++ {
		err = s.commit(ctx, comp, event.ID, frag, incoming, &outcome)
		if err == nil {
			return outcome, nil
		}
		if !errors.Is(err, domain.ErrRevisionConflict) {
			return outcome, err
		}
		outcome.Conflicts = 0
	}
	metrics.MergeConflicts.Inc()
	outcome.Conflicts++
	outcome.Error = domain.ErrRevisionConflict.Error()
	return outcome, nil
}

// ensureRows upserts the competition and event rows a fragment belongs to.
// Competition status only moves forward.
func (s *IngestService) ensureRows(ctx context.Context, frag *domain.EventFragment) (*domain.Competition, *domain.Event, error) {
	comp, err := s.repos.Competition.GetByKey(ctx, frag.CompKey)
	if errors.Is(err, domain.ErrCompetitionNotFound) {
		comp = &domain.Competition{
			CompKey: frag.CompKey,
			Name:    frag.CompName,
			Status:  domain.CompetitionStatusScheduled,
		}
		err = nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load competition %s: %w", frag.CompKey, err)
	}
	if comp.Name == "" {
		comp.Name = frag.CompName
	}
	if len(frag.FinalRankings) > 0 {
		comp.AdvanceStatus(domain.CompetitionStatusCompleted)
	} else if len(frag.PoolRounds) > 0 || len(frag.DERounds) > 0 {
		comp.AdvanceStatus(domain.CompetitionStatusInProgress)
	}
	if err := s.repos.Competition.Upsert(ctx, comp); err != nil {
		return nil, nil, fmt.Errorf("upsert competition %s: %w", frag.CompKey, err)
	}
	if comp.ID == uuid.Nil {
		if comp, err = s.repos.Competition.GetByKey(ctx, frag.CompKey); err != nil {
			return nil, nil, err
		}
	}

	event, err := s.repos.Event.GetByKeys(ctx, comp.ID, frag.EventKey, frag.SubEventKey)
	if errors.Is(err, domain.ErrEventNotFound) {
		event = &domain.Event{
			CompetitionID: comp.ID,
			EventKey:      frag.EventKey,
			SubEventKey:   frag.SubEventKey,
		}
		err = nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load event %s/%s: %w", frag.EventKey, frag.SubEventKey, err)
	}
	event.Name = firstNonEmpty(frag.EventName, event.Name)
	if frag.Weapon != "" {
		event.Weapon = frag.Weapon
	}
	if frag.Gender != "" {
		event.Gender = frag.Gender
	}
	if frag.AgeGroup != "" {
		event.AgeGroup = frag.AgeGroup
	}
	if frag.Context != "" {
		event.Context = frag.Context
	}
	if event.Status == "" {
		event.Status = domain.EventStatusPending
	}
	if err := s.repos.Event.Upsert(ctx, event); err != nil {
		return nil, nil, fmt.Errorf("upsert event %s/%s: %w", frag.EventKey, frag.SubEventKey, err)
	}
	if event.ID == uuid.Nil {
		if event, err = s.repos.Event.GetByKeys(ctx, comp.ID, frag.EventKey, frag.SubEventKey); err != nil {
			return nil, nil, err
		}
	}
	return comp, event, nil
}

// buildIncoming turns a normalized fragment into a candidate event record.
// DE data goes through the bracket reconstructor; when the source published
// no final ranking but the bracket decided one, the ranking is derived.
func (s *IngestService) buildIncoming(frag *domain.EventFragment) (*domain.EventRecord, error) {
	incoming := &domain.EventRecord{
		PoolRounds:    frag.PoolRounds,
		PoolRanking:   frag.PoolRanking,
		FinalRankings: frag.FinalRankings,
	}
	if len(frag.DERounds) > 0 || len(frag.Seeding) > 0 {
		b, err := bracket.Reconstruct(frag)
		if err != nil {
			return nil, err
		}
		incoming.Seeding = b.Seeding
		incoming.DERounds = b.Rounds
		incoming.ThirdPlace = b.ThirdPlace
		if len(incoming.FinalRankings) == 0 {
			incoming.FinalRankings = bracket.DeriveRankings(b, frag.PoolRanking)
		}
	}
	return incoming, nil
}

func (s *IngestService) commit(ctx context.Context, comp *domain.Competition, eventID uuid.UUID, frag *domain.EventFragment, incoming *domain.EventRecord, outcome *domain.EventOutcome) error {
	return s.uow.Do(ctx, func(repos *repository.Repositories) error {
		event, err := repos.Event.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		revision := event.Revision

		existing := &domain.EventRecord{}
		if len(event.RawData) > 0 {
			if err := json.Unmarshal(event.RawData, existing); err != nil {
				return fmt.Errorf("decode record for %s: %w", event.EventKey, err)
			}
		}

		result := merge.Reconcile(existing, incoming)
		for _, conflict := range result.Conflicts {
			metrics.MergeConflicts.Inc()
			outcome.Conflicts++
			oldJSON, _ := json.Marshal(conflict.Old)
			newJSON, _ := json.Marshal(conflict.New)
			record := &domain.MergeConflict{
				EventID:    event.ID,
				FieldGroup: conflict.FieldGroup,
				BoutKey:    conflict.BoutKey,
				OldValue:   oldJSON,
				NewValue:   newJSON,
			}
			if err := repos.Conflict.Create(ctx, record); err != nil {
				return fmt.Errorf("record conflict: %w", err)
			}
		}

		raw, err := json.Marshal(result.Record)
		if err != nil {
			return err
		}
		event.RawData = raw
		event.Status = recordStatus(frag, result.Record)
		if err := repos.Event.UpdateRecord(ctx, event, revision); err != nil {
			return err
		}

		resolver := identity.NewResolver(repos.Player, repos.Alias)
		observedAt := observationTime(comp)
		written, err := projectBouts(ctx, repos, resolver, event, result.Record, observedAt)
		if err != nil {
			return err
		}
		outcome.BoutsWritten = written
		metrics.BoutsWritten.Add(float64(written))

		rankings, err := projectRankings(ctx, repos, resolver, event, result.Record, observedAt)
		if err != nil {
			return err
		}
		outcome.RankingsWritten = rankings
		return nil
	})
}

// recordStatus classifies how much of the event is on file now.
func recordStatus(frag *domain.EventFragment, record *domain.EventRecord) domain.EventStatus {
	if frag.Status == domain.EventStatusNoResults {
		return domain.EventStatusNoResults
	}
	if record.ScoredDEBouts() > 0 && len(record.FinalRankings) > 0 && len(record.PoolRounds) > 0 {
		return domain.EventStatusTracked
	}
	return domain.EventStatusPartial
}

func observationTime(comp *domain.Competition) time.Time {
	if comp.StartDate != nil {
		return *comp.StartDate
	}
	return time.Now()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
