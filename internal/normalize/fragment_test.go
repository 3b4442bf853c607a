package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/normalize"
)

func TestFragment_DerivesKeysFromNames(t *testing.T) {
	frag := normalize.Fragment(&domain.RawFragment{
		CompName:  "2026 National Championships",
		EventName: "Men's Epee Senior",
	})

	assert.Equal(t, "2026-national-championships", frag.CompKey)
	assert.Equal(t, "men-s-epee-senior", frag.EventKey)
	// Sub-event falls back to the event key when the source has no split.
	assert.Equal(t, frag.EventKey, frag.SubEventKey)
}

func TestFragment_KeepsExplicitKeys(t *testing.T) {
	frag := normalize.Fragment(&domain.RawFragment{
		CompKey:     "nat-2026",
		EventKey:    "me",
		SubEventKey: "me-senior",
		CompName:    "2026 National Championships",
	})

	assert.Equal(t, "nat-2026", frag.CompKey)
	assert.Equal(t, "me", frag.EventKey)
	assert.Equal(t, "me-senior", frag.SubEventKey)
}

func TestFragment_MetadataMapping(t *testing.T) {
	frag := normalize.Fragment(&domain.RawFragment{
		Weapon:  "에페",
		Gender:  "남자",
		Context: "단체",
		Status:  "no_results",
	})

	assert.Equal(t, domain.WeaponEpee, frag.Weapon)
	assert.Equal(t, domain.GenderMen, frag.Gender)
	assert.Equal(t, domain.BoutContextTeam, frag.Context)
	assert.Equal(t, domain.EventStatusNoResults, frag.Status)

	frag = normalize.Fragment(&domain.RawFragment{Weapon: "Sabre", Gender: "W"})
	assert.Equal(t, domain.WeaponSabre, frag.Weapon)
	assert.Equal(t, domain.GenderWomen, frag.Gender)
	assert.Equal(t, domain.BoutContextIndividual, frag.Context)
}

// The source renders pools as a score matrix: one row per fencer, one cell
// per opponent. The normalizer must unfold that into one bout per pair.
func TestFragment_PoolMatrix(t *testing.T) {
	raw := &domain.RawFragment{
		PoolRounds: []map[string]any{
			{
				"round_number": float64(1),
				"pool_number":  float64(2),
				"results": []any{
					map[string]any{
						"name": "Kim Minsu", "team": "Seoul",
						"scores": []any{
							nil,
							map[string]any{"type": "V", "score": float64(5)},
							map[string]any{"type": "D", "score": float64(3)},
						},
					},
					map[string]any{
						"name": "Lee Juyoung", "team": "Busan",
						"scores": []any{
							map[string]any{"type": "D", "score": float64(2)},
							nil,
							map[string]any{"type": "V", "score": float64(5)},
						},
					},
					map[string]any{
						"name": "Park Jiho", "team": "Daegu",
						"scores": []any{
							map[string]any{"type": "V", "score": float64(5)},
							map[string]any{"type": "D", "score": float64(4)},
							nil,
						},
					},
				},
			},
		},
	}

	frag := normalize.Fragment(raw)
	require.Len(t, frag.PoolRounds, 1)
	round := frag.PoolRounds[0]
	assert.Equal(t, 1, round.RoundNumber)
	assert.Equal(t, 2, round.PoolNumber)
	require.Len(t, round.Bouts, 3)

	// Kim 5-2 Lee
	assert.Equal(t, "Kim Minsu", round.Bouts[0].Player1.Name)
	assert.Equal(t, "Lee Juyoung", round.Bouts[0].Player2.Name)
	assert.Equal(t, 5, round.Bouts[0].Score1)
	assert.Equal(t, 2, round.Bouts[0].Score2)
	assert.Equal(t, "Kim Minsu", round.Bouts[0].Winner.Name)

	// Kim 3-5 Park: V cell decides even when both cells carry scores.
	assert.Equal(t, "Park Jiho", round.Bouts[1].Winner.Name)

	// Lee 5-4 Park
	assert.Equal(t, "Lee Juyoung", round.Bouts[2].Winner.Name)
}

func TestFragment_DEMatchShapes(t *testing.T) {
	raw := &domain.RawFragment{
		DEMatchesByRound: map[string][]map[string]any{
			"결승": {
				// Flat side fields with combined score string.
				{"player1_name": "Kim Minsu", "player2_name": "Lee Juyoung", "score": "15-12"},
			},
			"준결승": {
				// Nested sides with separate score fields and explicit winner.
				{
					"player1": map[string]any{"name": "Kim Minsu", "team": "Seoul"},
					"player2": map[string]any{"name": "Park Jiho", "team": "Daegu"},
					"score1":  float64(15), "score2": float64(9),
					"winner": "Kim Minsu",
				},
				// Colon-separated score string.
				{"player1_name": "Lee Juyoung", "player2_name": "Choi Hana", "score": "15:13"},
			},
		},
	}

	frag := normalize.Fragment(raw)
	require.Len(t, frag.DERounds, 2)

	final := frag.DERounds["결승"]
	require.Len(t, final, 1)
	require.NotNil(t, final[0].Score1)
	assert.Equal(t, 15, *final[0].Score1)
	assert.Equal(t, 12, *final[0].Score2)
	assert.Equal(t, "Kim Minsu", final[0].Winner.Name)

	semis := frag.DERounds["준결승"]
	require.Len(t, semis, 2)
	assert.Equal(t, "Seoul", semis[0].Player1.Team)
	assert.Equal(t, "Kim Minsu", semis[0].Winner.Name)
	assert.Equal(t, "Lee Juyoung", semis[1].Winner.Name)
}

func TestFragment_RankingList(t *testing.T) {
	frag := normalize.Fragment(&domain.RawFragment{
		FinalRankings: []map[string]any{
			{"rank": float64(1), "name": "Kim Minsu"},
			{"name": "Lee Juyoung"}, // no explicit rank: position in list
			{"rank": "3", "name": "Park Jiho"},
			{"rank": "3", "name": "Choi Hana"}, // shared rank survives
		},
	})

	require.Len(t, frag.FinalRankings, 4)
	assert.Equal(t, 1, frag.FinalRankings[0].Rank)
	assert.Equal(t, 2, frag.FinalRankings[1].Rank)
	assert.Equal(t, 3, frag.FinalRankings[2].Rank)
	assert.Equal(t, 3, frag.FinalRankings[3].Rank)
}
