// Package merge combines newly reconstructed event fragments with the
// persisted record, field group by field group. The operation is idempotent
// and never loses data: an empty re-collection keeps prior state untouched,
// and a fragment that contradicts a previously complete bout is rejected for
// that group and surfaced for review instead of applied.
package merge

import (
	"fmt"

	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/normalize"
)

// Field group names, used in conflict records.
const (
	GroupPool          = "pool_rounds"
	GroupDEBracket     = "de_bracket"
	GroupFinalRankings = "final_rankings"
)

// Result carries the merged record and every conflict raised while building
// it. Conflicting groups keep their existing value; the others still commit.
type Result struct {
	Record    *domain.EventRecord
	Conflicts []*domain.MergeConflictError
}

// Reconcile merges incoming into existing without mutating either. Applying
// the same incoming record twice yields an identical result.
func Reconcile(existing, incoming *domain.EventRecord) *Result {
	if existing == nil {
		existing = &domain.EventRecord{}
	}
	if incoming == nil {
		incoming = &domain.EventRecord{}
	}
	res := &Result{Record: &domain.EventRecord{}}

	res.mergePool(existing, incoming)
	res.mergeDE(existing, incoming)
	res.mergeRankings(existing, incoming)
	return res
}

func (r *Result) mergePool(existing, incoming *domain.EventRecord) {
	keep := func() {
		r.Record.PoolRounds = existing.PoolRounds
		r.Record.PoolRanking = existing.PoolRanking
	}
	if len(incoming.PoolRounds) == 0 && len(incoming.PoolRanking) == 0 {
		keep()
		return
	}
	if len(existing.PoolRounds) > 0 {
		newBouts := poolBoutIndex(incoming.PoolRounds)
		for key, old := range poolBoutIndex(existing.PoolRounds) {
			repl, ok := newBouts[key]
			if !ok {
				r.conflict(GroupPool, key, old, nil)
				keep()
				return
			}
			if repl != old {
				r.conflict(GroupPool, key, old, repl)
				keep()
				return
			}
		}
	}
	r.Record.PoolRounds = incoming.PoolRounds
	r.Record.PoolRanking = incoming.PoolRanking
	if len(incoming.PoolRounds) == 0 {
		r.Record.PoolRounds = existing.PoolRounds
	}
	if len(incoming.PoolRanking) == 0 {
		r.Record.PoolRanking = existing.PoolRanking
	}
}

func (r *Result) mergeDE(existing, incoming *domain.EventRecord) {
	keep := func() {
		r.Record.Seeding = existing.Seeding
		r.Record.DERounds = existing.DERounds
		r.Record.ThirdPlace = existing.ThirdPlace
	}
	if !incoming.HasDEBracket() && incoming.ThirdPlace == nil {
		keep()
		return
	}
	if len(existing.DERounds) > 0 {
		newBouts := deBoutIndex(incoming)
		for key, old := range deBoutIndex(existing) {
			repl, ok := newBouts[key]
			if !ok {
				r.conflict(GroupDEBracket, key, old, nil)
				keep()
				return
			}
			if repl != old {
				r.conflict(GroupDEBracket, key, old, repl)
				keep()
				return
			}
		}
	}
	r.Record.Seeding = incoming.Seeding
	r.Record.DERounds = incoming.DERounds
	r.Record.ThirdPlace = incoming.ThirdPlace
	if len(incoming.Seeding) == 0 {
		r.Record.Seeding = existing.Seeding
	}
	if r.Record.ThirdPlace == nil {
		r.Record.ThirdPlace = existing.ThirdPlace
	}
}

func (r *Result) mergeRankings(existing, incoming *domain.EventRecord) {
	if len(incoming.FinalRankings) == 0 {
		r.Record.FinalRankings = existing.FinalRankings
		return
	}
	r.Record.FinalRankings = incoming.FinalRankings
}

func (r *Result) conflict(group, boutKey string, old, repl any) {
	r.Conflicts = append(r.Conflicts, &domain.MergeConflictError{
		FieldGroup: group,
		BoutKey:    boutKey,
		Old:        old,
		New:        repl,
	})
}

// scoredBout is the comparable projection of a complete bout. Two bout
// candidates with the same identity dedupe iff these compare equal.
type scoredBout struct {
	Pair   string
	Score1 int
	Score2 int
	Winner string
}

func (b scoredBout) String() string {
	return fmt.Sprintf("%s %d-%d", b.Pair, b.Score1, b.Score2)
}

// poolBoutIndex keys every pool bout by pool number and unordered player
// pair, with scores in pair order so orientation does not matter.
func poolBoutIndex(rounds []domain.PoolRound) map[string]scoredBout {
	idx := make(map[string]scoredBout)
	for _, round := range rounds {
		for _, bout := range round.Bouts {
			k1 := normalize.IdentityKey(bout.Player1.Name, bout.Player1.Team)
			k2 := normalize.IdentityKey(bout.Player2.Name, bout.Player2.Team)
			s1, s2 := bout.Score1, bout.Score2
			if k2 < k1 {
				k1, k2 = k2, k1
				s1, s2 = s2, s1
			}
			key := domain.PoolIdentityKey(round.PoolNumber, k1, k2)
			idx[key] = scoredBout{
				Pair:   k1 + "|" + k2,
				Score1: s1,
				Score2: s2,
				Winner: normalize.Name(bout.Winner.Name),
			}
		}
	}
	return idx
}

// deBoutIndex keys every scored DE bout by round name and match number.
// Unscored placeholders and byes never constrain a merge.
func deBoutIndex(record *domain.EventRecord) map[string]scoredBout {
	idx := make(map[string]scoredBout)
	collect := func(m *domain.DEMatch) {
		if !m.Scored() {
			return
		}
		key := domain.DEIdentityKey(m.RoundName, m.MatchNumber)
		idx[key] = scoredBout{
			Pair:   pairKey(m.Player1, m.Player2),
			Score1: *m.Score1,
			Score2: *m.Score2,
			Winner: normalize.Name(m.Winner.Name),
		}
	}
	for _, round := range record.DERounds {
		for i := range round.Matches {
			collect(&round.Matches[i])
		}
	}
	if record.ThirdPlace != nil {
		collect(record.ThirdPlace)
	}
	return idx
}

// pairKey orders the two mentions so the key is orientation independent; the
// reconstructor already orients scores to Player1/Player2, and bracket
// position fixes orientation, so scores stay comparable.
func pairKey(p1, p2 domain.Mention) string {
	a := normalize.Name(p1.Name)
	b := normalize.Name(p2.Name)
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}
