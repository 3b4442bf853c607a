package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fencetrack/fencetrack/internal/domain"
)

func men(name string) domain.Mention {
	return domain.Mention{Name: name}
}

func scored(p1, p2 string, s1, s2 int) domain.DEMatch {
	m := domain.DEMatch{Player1: men(p1), Player2: men(p2), Score1: &s1, Score2: &s2}
	if s1 > s2 {
		m.Winner = m.Player1
	} else {
		m.Winner = m.Player2
	}
	return m
}

func seeds(names ...string) []domain.SeedEntry {
	entries := make([]domain.SeedEntry, len(names))
	for i, name := range names {
		entries[i] = domain.SeedEntry{Seed: i + 1, Player: men(name)}
	}
	return entries
}

// eightFragment is a fully collected 8-entrant event: every quarterfinal,
// semifinal, and the final scored, no upsets except S5 over S4 and S3 over S2.
func eightFragment() *domain.EventFragment {
	return &domain.EventFragment{
		EventKey: "me-senior",
		Seeding:  seeds("S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8"),
		DERounds: map[string][]domain.DEMatch{
			"8강": {
				scored("S1", "S8", 15, 3),
				scored("S4", "S5", 10, 15),
				scored("S2", "S7", 15, 5),
				scored("S3", "S6", 15, 9),
			},
			"준결승": {
				scored("S1", "S5", 15, 7),
				scored("S2", "S3", 14, 15),
			},
			"결승": {
				scored("S1", "S3", 15, 11),
			},
		},
	}
}

func TestReconstruct_FullBracket(t *testing.T) {
	b, err := Reconstruct(eightFragment())
	require.NoError(t, err)
	require.True(t, b.Valid)
	assert.Equal(t, 8, b.Size)
	require.Len(t, b.Rounds, 3)

	qf := b.Rounds[0]
	assert.Equal(t, Quarterfinal, qf.Name)
	require.Len(t, qf.Matches, 4)
	// Positions follow the seeding layout 1-8, 4-5, 2-7, 3-6, and match
	// numbers follow position.
	assert.Equal(t, "S1", qf.Matches[0].Player1.Name)
	assert.Equal(t, "S8", qf.Matches[0].Player2.Name)
	assert.Equal(t, 1, qf.Matches[0].MatchNumber)
	assert.Equal(t, "S4", qf.Matches[1].Player1.Name)
	assert.Equal(t, "S5", qf.Matches[1].Player2.Name)
	assert.Equal(t, "S2", qf.Matches[2].Player1.Name)
	assert.Equal(t, "S3", qf.Matches[3].Player1.Name)
	assert.Equal(t, 4, qf.Matches[3].MatchNumber)

	sf := b.Rounds[1]
	assert.Equal(t, Semifinal, sf.Name)
	assert.Equal(t, "S1", sf.Matches[0].Winner.Name)
	assert.Equal(t, "S3", sf.Matches[1].Winner.Name)

	final := b.Rounds[2]
	require.Len(t, final.Matches, 1)
	assert.Equal(t, "S1", final.Matches[0].Winner.Name)
}

// Match numbers come from bracket position, so the same rounds collected in
// a different order produce an identical tree.
func TestReconstruct_OrderIndependent(t *testing.T) {
	a, err := Reconstruct(eightFragment())
	require.NoError(t, err)

	shuffled := eightFragment()
	qf := shuffled.DERounds["8강"]
	qf[0], qf[3] = qf[3], qf[0]
	qf[1], qf[2] = qf[2], qf[1]
	b, err := Reconstruct(shuffled)
	require.NoError(t, err)

	assert.Equal(t, a.Rounds, b.Rounds)
}

// A missing semifinal fragment becomes score-unknown placeholders whose
// winners are proven by the final's participants.
func TestReconstruct_BackfillsMissingRound(t *testing.T) {
	frag := eightFragment()
	delete(frag.DERounds, "준결승")

	b, err := Reconstruct(frag)
	require.NoError(t, err)
	require.Len(t, b.Rounds, 3)

	sf := b.Rounds[1]
	require.Len(t, sf.Matches, 2)
	assert.True(t, sf.Matches[0].ScoreUnknown)
	assert.Equal(t, "S1", sf.Matches[0].Winner.Name)
	assert.Nil(t, sf.Matches[0].Score1)
	assert.True(t, sf.Matches[1].ScoreUnknown)
	assert.Equal(t, "S3", sf.Matches[1].Winner.Name)
}

func TestReconstruct_ContradictionIsFatal(t *testing.T) {
	frag := eightFragment()
	// S5 lost the semifinal to S1 but shows up in the final.
	frag.DERounds["결승"] = []domain.DEMatch{scored("S5", "S3", 15, 11)}

	_, err := Reconstruct(frag)
	var sve *domain.StructuralValidationError
	require.ErrorAs(t, err, &sve)
	assert.Contains(t, sve.Reason, "S5")
}

func TestReconstruct_UnknownEntrantIsFatal(t *testing.T) {
	frag := eightFragment()
	frag.DERounds["준결승"] = []domain.DEMatch{
		scored("S1", "S5", 15, 7),
		scored("Nobody", "Stranger", 15, 3),
	}

	_, err := Reconstruct(frag)
	var sve *domain.StructuralValidationError
	require.ErrorAs(t, err, &sve)
}

// Six entrants in an eight bracket: the top two seeds get first-round byes,
// which auto-advance without inventing scores.
func TestReconstruct_Byes(t *testing.T) {
	frag := &domain.EventFragment{
		EventKey: "me-senior",
		Seeding:  seeds("S1", "S2", "S3", "S4", "S5", "S6"),
	}

	b, err := Reconstruct(frag)
	require.NoError(t, err)
	assert.Equal(t, 8, b.Size)

	qf := b.Rounds[0]
	require.Len(t, qf.Matches, 4)
	assert.True(t, qf.Matches[0].Bye)
	assert.Equal(t, "S1", qf.Matches[0].Winner.Name)
	assert.True(t, qf.Matches[2].Bye)
	assert.Equal(t, "S2", qf.Matches[2].Winner.Name)

	// Real pairings stay undecided placeholders.
	assert.False(t, qf.Matches[1].Bye)
	assert.True(t, qf.Matches[1].ScoreUnknown)
	assert.True(t, qf.Matches[1].Winner.IsZero())
	assert.Equal(t, "S4", qf.Matches[1].Player1.Name)
	assert.Equal(t, "S5", qf.Matches[1].Player2.Name)
}

// When the page has no seeding table, the largest round's listed pairs stand
// in for it and must not be re-scrambled into tournament order.
func TestReconstruct_ImpliedSeeding(t *testing.T) {
	frag := &domain.EventFragment{
		EventKey: "me-senior",
		DERounds: map[string][]domain.DEMatch{
			"Semifinal": {
				scored("Ahn", "Bae", 15, 8),
				scored("Cho", "Doh", 15, 12),
			},
			"Final": {
				scored("Ahn", "Cho", 15, 10),
			},
		},
	}

	b, err := Reconstruct(frag)
	require.NoError(t, err)
	assert.Equal(t, 4, b.Size)
	require.Len(t, b.Rounds, 2)

	sf := b.Rounds[0]
	assert.Equal(t, "Ahn", sf.Matches[0].Player1.Name)
	assert.Equal(t, "Bae", sf.Matches[0].Player2.Name)
	assert.Equal(t, "Cho", sf.Matches[1].Player1.Name)
	assert.Equal(t, "Ahn", b.Rounds[1].Matches[0].Winner.Name)
}

func TestReconstruct_ThirdPlace(t *testing.T) {
	frag := eightFragment()
	frag.DERounds["3위결정전"] = []domain.DEMatch{scored("S5", "S2", 15, 9)}

	b, err := Reconstruct(frag)
	require.NoError(t, err)
	require.NotNil(t, b.ThirdPlace)
	assert.Equal(t, ThirdPlace, b.ThirdPlace.RoundName)
	assert.Equal(t, "S5", b.ThirdPlace.Winner.Name)
}

func TestReconstruct_ThirdPlaceMustBeSemifinalLosers(t *testing.T) {
	frag := eightFragment()
	// S1 won its semifinal; it cannot contest third place.
	frag.DERounds["3위결정전"] = []domain.DEMatch{scored("S5", "S1", 15, 9)}

	_, err := Reconstruct(frag)
	var sve *domain.StructuralValidationError
	require.ErrorAs(t, err, &sve)
	assert.Contains(t, sve.Reason, "third place")
}

func TestReconstruct_ScoreInvariants(t *testing.T) {
	frag := eightFragment()
	over := 18
	loser := 15
	frag.DERounds["결승"] = []domain.DEMatch{{
		Player1: men("S1"), Player2: men("S3"),
		Score1: &over, Score2: &loser, Winner: men("S1"),
	}}
	_, err := Reconstruct(frag)
	var sve *domain.StructuralValidationError
	require.ErrorAs(t, err, &sve)

	frag = eightFragment()
	low, high := 10, 15
	frag.DERounds["결승"] = []domain.DEMatch{{
		Player1: men("S1"), Player2: men("S3"),
		Score1: &low, Score2: &high, Winner: men("S1"),
	}}
	_, err = Reconstruct(frag)
	require.ErrorAs(t, err, &sve)
}

func TestReconstruct_TooFewEntrants(t *testing.T) {
	frag := &domain.EventFragment{EventKey: "me", Seeding: seeds("Solo")}
	_, err := Reconstruct(frag)
	var sve *domain.StructuralValidationError
	require.ErrorAs(t, err, &sve)
}

func TestDeriveRankings(t *testing.T) {
	b, err := Reconstruct(eightFragment())
	require.NoError(t, err)

	rankings := DeriveRankings(b, nil)
	byName := map[string]int{}
	for _, r := range rankings {
		byName[r.Player.Name] = r.Rank
	}

	assert.Equal(t, 1, byName["S1"])
	assert.Equal(t, 2, byName["S3"])
	// No third-place bout: both semifinal losers share rank 3.
	assert.Equal(t, 3, byName["S5"])
	assert.Equal(t, 3, byName["S2"])
	// Quarterfinal losers share rank 5.
	for _, name := range []string{"S8", "S4", "S7", "S6"} {
		assert.Equal(t, 5, byName[name], name)
	}
}

func TestDeriveRankings_ThirdPlaceSplits(t *testing.T) {
	frag := eightFragment()
	frag.DERounds["3위결정전"] = []domain.DEMatch{scored("S5", "S2", 15, 9)}
	b, err := Reconstruct(frag)
	require.NoError(t, err)

	rankings := DeriveRankings(b, nil)
	byName := map[string]int{}
	for _, r := range rankings {
		byName[r.Player.Name] = r.Rank
	}
	assert.Equal(t, 3, byName["S5"])
	assert.Equal(t, 4, byName["S2"])
}

func TestDeriveRankings_PoolOnlyEntrantsFollow(t *testing.T) {
	b, err := Reconstruct(eightFragment())
	require.NoError(t, err)

	pool := []domain.RankingEntry{
		{Rank: 1, Player: men("S1")}, // already ranked by the bracket
		{Rank: 9, Player: men("P9")},
		{Rank: 10, Player: men("P10")},
	}
	rankings := DeriveRankings(b, pool)
	byName := map[string]int{}
	for _, r := range rankings {
		byName[r.Player.Name] = r.Rank
	}
	// Eliminated-in-pools entrants queue up after the last bracket rank.
	assert.Equal(t, 6, byName["P9"])
	assert.Equal(t, 7, byName["P10"])
	assert.Equal(t, 1, byName["S1"])
}
