package normalize

import (
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"github.com/fencetrack/fencetrack/internal/domain"
)

// Fragment coerces one loose fetcher payload into the canonical event
// fragment. This is structural work only: field renames, shape unification,
// numeric parsing. Business validation belongs to the bracket reconstructor
// and the merge reconciler.
func Fragment(raw *domain.RawFragment) *domain.EventFragment {
	frag := &domain.EventFragment{
		CompKey:     strings.TrimSpace(raw.CompKey),
		CompName:    Name(raw.CompName),
		EventKey:    strings.TrimSpace(raw.EventKey),
		SubEventKey: strings.TrimSpace(raw.SubEventKey),
		EventName:   Name(raw.EventName),
		Weapon:      weapon(raw.Weapon),
		Gender:      gender(raw.Gender),
		AgeGroup:    strings.TrimSpace(raw.AgeGroup),
		Context:     boutContext(raw.Context),
		Status:      eventStatus(raw.Status),
	}

	// The source does not always carry stable keys; derive them from the
	// names so repeated collections of the same page agree.
	if frag.CompKey == "" && frag.CompName != "" {
		frag.CompKey = slug.Make(frag.CompName)
	}
	if frag.EventKey == "" && frag.EventName != "" {
		frag.EventKey = slug.Make(frag.EventName)
	}
	if frag.SubEventKey == "" {
		frag.SubEventKey = frag.EventKey
	}

	frag.Seeding = seeding(raw.Seeding)
	frag.PoolRounds = poolRounds(raw.PoolRounds)
	frag.PoolRanking = rankingList(raw.PoolRanking)
	frag.FinalRankings = rankingList(raw.FinalRankings)

	if len(raw.DEMatchesByRound) > 0 {
		frag.DERounds = make(map[string][]domain.DEMatch, len(raw.DEMatchesByRound))
		for label, rows := range raw.DEMatchesByRound {
			frag.DERounds[label] = deMatches(rows)
		}
	}
	return frag
}

func seeding(rows []map[string]any) []domain.SeedEntry {
	entries := make([]domain.SeedEntry, 0, len(rows))
	for _, row := range rows {
		entry := domain.SeedEntry{
			Player:     mention(row),
			PoolRecord: asString(firstOf(row, "pool_record", "record")),
		}
		if n, ok := asInt(firstOf(row, "seed", "rank")); ok {
			entry.Seed = n
		}
		if entry.Player.IsZero() && entry.Seed == 0 {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// poolRounds unfolds the per-pool score matrix the source renders (one row
// per fencer, one cell per opponent) into unordered pool bouts, one per pair.
func poolRounds(rows []map[string]any) []domain.PoolRound {
	rounds := make([]domain.PoolRound, 0, len(rows))
	for _, row := range rows {
		round := domain.PoolRound{RoundNumber: 1, PoolNumber: 1}
		if n, ok := asInt(row["round_number"]); ok {
			round.RoundNumber = n
		}
		if n, ok := asInt(firstOf(row, "pool_number", "pool")); ok {
			round.PoolNumber = n
		}
		results, _ := row["results"].([]any)
		players := make([]domain.Mention, len(results))
		cells := make([][]map[string]any, len(results))
		for i, r := range results {
			rm, _ := r.(map[string]any)
			if rm == nil {
				continue
			}
			players[i] = mention(rm)
			scores, _ := rm["scores"].([]any)
			cells[i] = make([]map[string]any, len(scores))
			for j, c := range scores {
				cells[i][j], _ = c.(map[string]any)
			}
		}
		for i := range players {
			for j := i + 1; j < len(players); j++ {
				if players[i].IsZero() || players[j].IsZero() {
					continue
				}
				ci := cellAt(cells, i, j)
				cj := cellAt(cells, j, i)
				if ci == nil && cj == nil {
					continue
				}
				bout := domain.PoolBout{Player1: players[i], Player2: players[j]}
				if n, ok := asInt(cellScore(ci)); ok {
					bout.Score1 = n
				}
				if n, ok := asInt(cellScore(cj)); ok {
					bout.Score2 = n
				}
				switch {
				case cellType(ci) == "V":
					bout.Winner = players[i]
				case cellType(cj) == "V":
					bout.Winner = players[j]
				case bout.Score1 != bout.Score2:
					if bout.Score1 > bout.Score2 {
						bout.Winner = players[i]
					} else {
						bout.Winner = players[j]
					}
				}
				round.Bouts = append(round.Bouts, bout)
			}
		}
		rounds = append(rounds, round)
	}
	return rounds
}

func cellAt(cells [][]map[string]any, i, j int) map[string]any {
	if i >= len(cells) || j >= len(cells[i]) {
		return nil
	}
	return cells[i][j]
}

func cellScore(cell map[string]any) any {
	if cell == nil {
		return nil
	}
	return cell["score"]
}

func cellType(cell map[string]any) string {
	if cell == nil {
		return ""
	}
	return strings.ToUpper(asString(cell["type"]))
}

func deMatches(rows []map[string]any) []domain.DEMatch {
	matches := make([]domain.DEMatch, 0, len(rows))
	for _, row := range rows {
		m := domain.DEMatch{
			Player1: sideMention(row, "player1"),
			Player2: sideMention(row, "player2"),
		}
		m.Score1, m.Score2 = scorePair(row)
		winnerName := Name(asString(firstOf(row, "winner", "winner_name")))
		switch {
		case winnerName != "" && Name(m.Player1.Name) == winnerName:
			m.Winner = m.Player1
		case winnerName != "" && Name(m.Player2.Name) == winnerName:
			m.Winner = m.Player2
		case m.Score1 != nil && m.Score2 != nil && *m.Score1 != *m.Score2:
			if *m.Score1 > *m.Score2 {
				m.Winner = m.Player1
			} else {
				m.Winner = m.Player2
			}
		}
		if m.Player1.IsZero() && m.Player2.IsZero() {
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

// sideMention reads a DE match side in either nested ({"player1": {"name":
// ...}}) or flat ("player1_name") form.
func sideMention(row map[string]any, side string) domain.Mention {
	if nested, ok := row[side].(map[string]any); ok {
		return mention(nested)
	}
	return domain.Mention{
		Name: Name(asString(row[side+"_name"])),
		Team: Name(asString(row[side+"_team"])),
	}
}

// scorePair accepts the score shapes seen across source page variants: a
// combined "15-12" / "15:10" string, separate score1/score2 fields, or a
// two-element array.
func scorePair(row map[string]any) (*int, *int) {
	if s1, ok1 := asInt(row["score1"]); ok1 {
		if s2, ok2 := asInt(row["score2"]); ok2 {
			return &s1, &s2
		}
	}
	switch v := row["score"].(type) {
	case string:
		for _, sep := range []string{"-", ":"} {
			parts := strings.SplitN(v, sep, 2)
			if len(parts) != 2 {
				continue
			}
			a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
			b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
			if errA == nil && errB == nil {
				return &a, &b
			}
		}
	case map[string]any:
		if a, ok1 := asInt(firstOf(v, "score1", "player1")); ok1 {
			if b, ok2 := asInt(firstOf(v, "score2", "player2")); ok2 {
				return &a, &b
			}
		}
	case []any:
		if len(v) == 2 {
			if a, ok1 := asInt(v[0]); ok1 {
				if b, ok2 := asInt(v[1]); ok2 {
					return &a, &b
				}
			}
		}
	}
	return nil, nil
}

func rankingList(rows []map[string]any) []domain.RankingEntry {
	entries := make([]domain.RankingEntry, 0, len(rows))
	for i, row := range rows {
		entry := domain.RankingEntry{Rank: i + 1, Player: mention(row)}
		if n, ok := asInt(firstOf(row, "rank", "position")); ok {
			entry.Rank = n
		}
		if entry.Player.IsZero() {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func mention(row map[string]any) domain.Mention {
	return domain.Mention{
		Name: Name(asString(firstOf(row, "name", "player_name"))),
		Team: Name(asString(firstOf(row, "team", "team_name", "club"))),
	}
}

func firstOf(row map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func weapon(raw string) domain.Weapon {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "foil", "플뢰레", "fleuret":
		return domain.WeaponFoil
	case "epee", "épée", "에페":
		return domain.WeaponEpee
	case "sabre", "saber", "사브르":
		return domain.WeaponSabre
	}
	return ""
}

func gender(raw string) domain.Gender {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "men", "male", "m", "남자", "남":
		return domain.GenderMen
	case "women", "female", "w", "f", "여자", "여":
		return domain.GenderWomen
	case "mixed", "혼성":
		return domain.GenderMixed
	}
	return ""
}

func boutContext(raw string) domain.BoutContext {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "team", "단체":
		return domain.BoutContextTeam
	default:
		return domain.BoutContextIndividual
	}
}

func eventStatus(raw string) domain.EventStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "no_results":
		return domain.EventStatusNoResults
	default:
		return ""
	}
}
