package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fencetrack/fencetrack/internal/coverage"
	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/fetch"
	"github.com/fencetrack/fencetrack/internal/metrics"
	"github.com/fencetrack/fencetrack/internal/repository"
	"github.com/fencetrack/fencetrack/internal/websocket"
)

// RunService drives one reconciliation pass: every competition goes through
// a bounded worker pool, and within a competition events are strictly
// sequential so the source never sees parallel requests for one page.
type RunService struct {
	repos       *repository.Repositories
	ingest      *IngestService
	fetcher     fetch.Fetcher
	hub         *websocket.Hub
	concurrency int

	mu         sync.Mutex
	running    bool
	lastReport *domain.RunReport
}

func NewRunService(repos *repository.Repositories, ingest *IngestService, fetcher fetch.Fetcher, hub *websocket.Hub, concurrency int) *RunService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &RunService{
		repos:       repos,
		ingest:      ingest,
		fetcher:     fetcher,
		hub:         hub,
		concurrency: concurrency,
	}
}

var ErrRunInProgress = errors.New("a reconciliation run is already in progress")

type compResult struct {
	compKey  string
	outcomes []domain.EventOutcome
	gaps     []domain.Gap
}

// Run executes a full pass. Cancelling the context stops new competitions
// from being dequeued; a worker finishes the event it is on, so no event is
// ever left mid-merge.
func (s *RunService) Run(ctx context.Context) (*domain.RunReport, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	report := &domain.RunReport{RunID: uuid.New(), StartedAt: time.Now()}
	metrics.RunsTotal.Inc()
	s.publish(websocket.ProgressEvent{Type: websocket.EventRunStarted, RunID: report.RunID.String()})

	comps, err := s.repos.Competition.List(ctx)
	if err != nil {
		return nil, err
	}
	report.Competitions = len(comps)

	jobs := make(chan *domain.Competition)
	results := make(chan compResult)

	var wg sync.WaitGroup
	for i := 0; i < s.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for comp := range jobs {
				results <- s.processCompetition(ctx, report.RunID, comp)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, comp := range comps {
			select {
			case <-ctx.Done():
				return
			case jobs <- comp:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		for _, o := range res.outcomes {
			report.Record(o)
		}
		report.Gaps = append(report.Gaps, res.gaps...)
	}

	sort.Slice(report.Gaps, func(i, j int) bool {
		a, b := report.Gaps[i], report.Gaps[j]
		if a.CompKey != b.CompKey {
			return a.CompKey < b.CompKey
		}
		if a.EventKey != b.EventKey {
			return a.EventKey < b.EventKey
		}
		return a.SubEventKey < b.SubEventKey
	})
	report.FinishedAt = time.Now()
	metrics.GapsDetected.Set(float64(len(report.Gaps)))
	s.publish(websocket.ProgressEvent{Type: websocket.EventRunFinished, RunID: report.RunID.String()})

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	log.Printf("run %s: %d competitions, %d events, %d bouts, %d structural, %d conflicts, %d transport, %d gaps",
		report.RunID, report.Competitions, report.EventsProcessed, report.BoutsWritten,
		report.StructuralErrors, report.MergeConflicts, report.TransportFailures, len(report.Gaps))
	return report, nil
}

// processCompetition re-collects every gapped event of one competition,
// sequentially and in sub-event order. Errors stay local to their event.
func (s *RunService) processCompetition(ctx context.Context, runID uuid.UUID, comp *domain.Competition) compResult {
	res := compResult{compKey: comp.CompKey}
	s.publish(websocket.ProgressEvent{Type: websocket.EventCompetitionStarted, RunID: runID.String(), CompKey: comp.CompKey})

	gaps, err := s.analyze(ctx, comp)
	if err != nil {
		log.Printf("coverage for %s: %v", comp.CompKey, err)
		return res
	}

	for _, gap := range gaps {
		if ctx.Err() != nil {
			break
		}
		outcome := s.recollect(ctx, comp, gap)
		res.outcomes = append(res.outcomes, outcome)
		eventType := websocket.EventEventReconciled
		if outcome.StructuralError || outcome.TransportError || outcome.Conflicts > 0 {
			eventType = websocket.EventEventFailed
		}
		s.publish(websocket.ProgressEvent{
			Type:        eventType,
			RunID:       runID.String(),
			CompKey:     comp.CompKey,
			EventKey:    gap.EventKey,
			SubEventKey: gap.SubEventKey,
			Detail:      outcome.Error,
		})
	}

	// Re-analyze after the merges so the worklist reflects what this pass
	// actually filled in.
	if gaps, err = s.analyze(ctx, comp); err == nil {
		res.gaps = gaps
	}
	s.publish(websocket.ProgressEvent{Type: websocket.EventCompetitionFinished, RunID: runID.String(), CompKey: comp.CompKey})
	return res
}

func (s *RunService) recollect(ctx context.Context, comp *domain.Competition, gap domain.Gap) domain.EventOutcome {
	raw, err := s.fetcher.FetchEventFragment(ctx, comp.CompKey, gap.SubEventKey)
	if err != nil {
		metrics.TransportFailures.Inc()
		return domain.EventOutcome{
			CompKey:        comp.CompKey,
			EventKey:       gap.EventKey,
			SubEventKey:    gap.SubEventKey,
			TransportError: true,
			Error:          err.Error(),
		}
	}
	if raw.CompKey == "" {
		raw.CompKey = comp.CompKey
	}
	if raw.EventKey == "" {
		raw.EventKey = gap.EventKey
	}
	if raw.SubEventKey == "" {
		raw.SubEventKey = gap.SubEventKey
	}
	outcome, err := s.ingest.IngestFragment(ctx, raw)
	if err != nil {
		outcome.Error = err.Error()
		log.Printf("ingest %s/%s: %v", comp.CompKey, gap.SubEventKey, err)
	}
	return outcome
}

// analyze builds the coverage snapshot for one competition.
func (s *RunService) analyze(ctx context.Context, comp *domain.Competition) ([]domain.Gap, error) {
	events, err := s.repos.Event.ListByCompetition(ctx, comp.ID)
	if err != nil {
		return nil, err
	}
	snap := &coverage.Snapshot{Competition: *comp}
	for _, event := range events {
		state := coverage.EventState{Event: *event}
		if len(event.RawData) > 0 {
			record := &domain.EventRecord{}
			if err := json.Unmarshal(event.RawData, record); err == nil {
				state.Record = record
			}
		}
		snap.Events = append(snap.Events, state)
	}
	return coverage.Analyze(snap), nil
}

// Running reports whether a pass is currently active.
func (s *RunService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LastReport returns the report of the most recent completed run.
func (s *RunService) LastReport() *domain.RunReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport
}

// Gaps recomputes the current worklist across all competitions.
func (s *RunService) Gaps(ctx context.Context) ([]domain.Gap, error) {
	comps, err := s.repos.Competition.List(ctx)
	if err != nil {
		return nil, err
	}
	var gaps []domain.Gap
	for _, comp := range comps {
		compGaps, err := s.analyze(ctx, comp)
		if err != nil {
			return nil, err
		}
		gaps = append(gaps, compGaps...)
	}
	return gaps, nil
}

func (s *RunService) publish(event websocket.ProgressEvent) {
	if s.hub == nil {
		return
	}
	event.At = time.Now()
	s.hub.Publish(event)
}
