package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fencetrack/fencetrack/internal/domain"
)

func intp(n int) *int { return &n }

func poolRecord() *domain.EventRecord {
	return &domain.EventRecord{
		PoolRounds: []domain.PoolRound{{
			RoundNumber: 1,
			PoolNumber:  1,
			Bouts: []domain.PoolBout{{
				Player1: domain.Mention{Name: "Kim"},
				Player2: domain.Mention{Name: "Lee"},
				Score1:  5, Score2: 3,
				Winner: domain.Mention{Name: "Kim"},
			}},
		}},
		PoolRanking: []domain.RankingEntry{
			{Rank: 1, Player: domain.Mention{Name: "Kim"}},
			{Rank: 2, Player: domain.Mention{Name: "Lee"}},
		},
	}
}

func deRecord(finalScore2 int) *domain.EventRecord {
	return &domain.EventRecord{
		DERounds: []domain.DERound{{
			Name: "Final", Size: 2,
			Matches: []domain.DEMatch{{
				RoundName: "Final", MatchNumber: 1,
				Player1: domain.Mention{Name: "Kim"},
				Player2: domain.Mention{Name: "Lee"},
				Score1:  intp(15), Score2: intp(finalScore2),
				Winner: domain.Mention{Name: "Kim"},
			}},
		}},
	}
}

func TestReconcile_EmptyIncomingKeepsEverything(t *testing.T) {
	existing := poolRecord()
	existing.DERounds = deRecord(10).DERounds
	existing.FinalRankings = []domain.RankingEntry{{Rank: 1, Player: domain.Mention{Name: "Kim"}}}

	res := Reconcile(existing, &domain.EventRecord{})

	require.Empty(t, res.Conflicts)
	assert.Equal(t, existing.PoolRounds, res.Record.PoolRounds)
	assert.Equal(t, existing.PoolRanking, res.Record.PoolRanking)
	assert.Equal(t, existing.DERounds, res.Record.DERounds)
	assert.Equal(t, existing.FinalRankings, res.Record.FinalRankings)
}

func TestReconcile_Idempotent(t *testing.T) {
	incoming := poolRecord()
	incoming.DERounds = deRecord(10).DERounds

	once := Reconcile(&domain.EventRecord{}, incoming)
	require.Empty(t, once.Conflicts)

	twice := Reconcile(once.Record, incoming)
	require.Empty(t, twice.Conflicts)
	assert.Equal(t, once.Record, twice.Record)
}

func TestReconcile_FillsAbsentGroups(t *testing.T) {
	existing := poolRecord()
	incoming := deRecord(10)

	res := Reconcile(existing, incoming)
	require.Empty(t, res.Conflicts)
	// The DE group arrives, the pool group survives.
	assert.Equal(t, existing.PoolRounds, res.Record.PoolRounds)
	assert.Equal(t, incoming.DERounds, res.Record.DERounds)
}

func TestReconcile_AlteredScoreConflicts(t *testing.T) {
	existing := deRecord(10)
	incoming := deRecord(12) // same bout, different score

	res := Reconcile(existing, incoming)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, GroupDEBracket, res.Conflicts[0].FieldGroup)
	assert.Equal(t, domain.DEIdentityKey("Final", 1), res.Conflicts[0].BoutKey)
	// The conflicting group keeps its existing value wholesale.
	assert.Equal(t, existing.DERounds, res.Record.DERounds)
}

func TestReconcile_DroppedScoredBoutConflicts(t *testing.T) {
	existing := deRecord(10)
	incoming := &domain.EventRecord{
		DERounds: []domain.DERound{{
			Name: "Final", Size: 2,
			Matches: []domain.DEMatch{{
				RoundName: "Final", MatchNumber: 1,
				Player1:      domain.Mention{Name: "Kim"},
				Player2:      domain.Mention{Name: "Lee"},
				Winner:       domain.Mention{Name: "Kim"},
				ScoreUnknown: true, // scores vanished from the source
			}},
		}},
	}

	res := Reconcile(existing, incoming)
	require.Len(t, res.Conflicts, 1)
	assert.Nil(t, res.Conflicts[0].New)
	assert.Equal(t, existing.DERounds, res.Record.DERounds)
}

func TestReconcile_UnscoredPlaceholderNeverConflicts(t *testing.T) {
	// The existing record holds a synthesized, score-unknown advancement;
	// a later collection that brings the real scores must replace it.
	existing := &domain.EventRecord{
		DERounds: []domain.DERound{{
			Name: "Final", Size: 2,
			Matches: []domain.DEMatch{{
				RoundName: "Final", MatchNumber: 1,
				Player1:      domain.Mention{Name: "Kim"},
				Player2:      domain.Mention{Name: "Lee"},
				Winner:       domain.Mention{Name: "Kim"},
				ScoreUnknown: true,
			}},
		}},
	}
	incoming := deRecord(12)

	res := Reconcile(existing, incoming)
	require.Empty(t, res.Conflicts)
	assert.Equal(t, incoming.DERounds, res.Record.DERounds)
}

func TestReconcile_AlteredPoolBoutConflicts(t *testing.T) {
	existing := poolRecord()
	incoming := poolRecord()
	incoming.PoolRounds[0].Bouts[0].Score2 = 4

	res := Reconcile(existing, incoming)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, GroupPool, res.Conflicts[0].FieldGroup)
	assert.Equal(t, existing.PoolRounds, res.Record.PoolRounds)
	assert.Equal(t, existing.PoolRanking, res.Record.PoolRanking)
}

func TestReconcile_PoolOrientationDoesNotMatter(t *testing.T) {
	existing := poolRecord()
	incoming := poolRecord()
	b := &incoming.PoolRounds[0].Bouts[0]
	b.Player1, b.Player2 = b.Player2, b.Player1
	b.Score1, b.Score2 = b.Score2, b.Score1

	res := Reconcile(existing, incoming)
	assert.Empty(t, res.Conflicts)
}

func TestReconcile_RankingsReplaceWhenPresent(t *testing.T) {
	existing := &domain.EventRecord{
		FinalRankings: []domain.RankingEntry{{Rank: 1, Player: domain.Mention{Name: "Kim"}}},
	}
	incoming := &domain.EventRecord{
		FinalRankings: []domain.RankingEntry{
			{Rank: 1, Player: domain.Mention{Name: "Kim"}},
			{Rank: 2, Player: domain.Mention{Name: "Lee"}},
		},
	}

	res := Reconcile(existing, incoming)
	require.Empty(t, res.Conflicts)
	assert.Len(t, res.Record.FinalRankings, 2)
}

func TestReconcile_NilRecords(t *testing.T) {
	res := Reconcile(nil, nil)
	require.Empty(t, res.Conflicts)
	assert.NotNil(t, res.Record)
}
