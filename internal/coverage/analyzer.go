// Package coverage decides which events still need re-collection. It reads
// a competition's persisted snapshot and produces the gap worklist the fetch
// orchestration layer consumes.
package coverage

import (
	"sort"

	"github.com/fencetrack/fencetrack/internal/domain"
)

// Snapshot is the in-memory view of one competition's persisted state.
type Snapshot struct {
	Competition domain.Competition
	Events      []EventState
}

// EventState pairs an event with its reconciled record.
type EventState struct {
	Event  domain.Event
	Record *domain.EventRecord
}

// Analyze returns the gaps for one competition, ordered by sub-event key so
// repeated runs over the same snapshot produce identical worklists. Events
// in the no_results terminal state are never gaps: the source genuinely has
// nothing for them.
func Analyze(snap *Snapshot) []domain.Gap {
	events := append([]EventState(nil), snap.Events...)
	sort.Slice(events, func(i, j int) bool {
		if events[i].Event.EventKey != events[j].Event.EventKey {
			return events[i].Event.EventKey < events[j].Event.EventKey
		}
		return events[i].Event.SubEventKey < events[j].Event.SubEventKey
	})

	var gaps []domain.Gap
	for _, es := range events {
		if es.Event.Status == domain.EventStatusNoResults {
			continue
		}
		missing := analyzeEvent(&snap.Competition, &es)
		if len(missing) == 0 {
			continue
		}
		gaps = append(gaps, domain.Gap{
			CompKey:     snap.Competition.CompKey,
			EventKey:    es.Event.EventKey,
			SubEventKey: es.Event.SubEventKey,
			Missing:     missing,
		})
	}
	return gaps
}

func analyzeEvent(comp *domain.Competition, es *EventState) []domain.GapDimension {
	record := es.Record
	if record == nil {
		record = &domain.EventRecord{}
	}
	var missing []domain.GapDimension

	// Pool play: either nothing was collected, or the pools are there but
	// the source's pool-total ranking never came through.
	if len(record.PoolRounds) == 0 || len(record.PoolRanking) == 0 {
		missing = append(missing, domain.GapNoPoolData)
	}

	if !record.HasDEBracket() {
		// A completed competition with no DE bouts and no rankings always
		// needs re-collection; a scheduled one may simply not have run yet.
		if comp.Status == domain.CompetitionStatusCompleted && len(record.FinalRankings) == 0 {
			missing = append(missing, domain.GapNoDEBracket)
		}
	} else if hasUnscoredDE(record) {
		missing = append(missing, domain.GapNoDEMatches)
	}

	if len(record.FinalRankings) == 0 {
		missing = append(missing, domain.GapNoFinalRankings)
	}
	return missing
}

// hasUnscoredDE reports whether any real elimination bout lacks collected
// scores. Byes are excluded: they never had a score to collect.
func hasUnscoredDE(record *domain.EventRecord) bool {
	if len(record.DERounds) == 0 {
		return true
	}
	for _, round := range record.DERounds {
		for i := range round.Matches {
			m := &round.Matches[i]
			if m.Bye {
				continue
			}
			if !m.Scored() {
				return true
			}
		}
	}
	return false
}
