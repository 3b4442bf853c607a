package bracket

import (
	"sort"

	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/normalize"
)

// DeriveRankings computes final placements from a reconstructed bracket when
// the source published none, following the fencing convention: shared ranks
// for the losers of each round (semifinal losers 3, quarterfinal losers 5,
// round-of-16 losers 9, and so on). A held third-place bout splits ranks 3
// and 4. Players who never reached the DE keep their pool ranking order
// after the last bracket rank.
func DeriveRankings(b *Bracket, poolRanking []domain.RankingEntry) []domain.RankingEntry {
	if b == nil || len(b.Rounds) == 0 {
		return append([]domain.RankingEntry(nil), poolRanking...)
	}

	var rankings []domain.RankingEntry
	assigned := make(map[string]bool)
	add := func(rank int, p domain.Mention) {
		if p.IsZero() {
			return
		}
		key := normalize.Name(p.Name)
		if assigned[key] {
			return
		}
		assigned[key] = true
		rankings = append(rankings, domain.RankingEntry{Rank: rank, Player: p})
	}

	final := b.Rounds[len(b.Rounds)-1]
	if len(final.Matches) == 1 && final.Matches[0].Decided() {
		add(1, final.Matches[0].Winner)
		add(2, final.Matches[0].Loser())
	}

	if b.ThirdPlace != nil && b.ThirdPlace.Decided() {
		add(3, b.ThirdPlace.Winner)
		add(4, b.ThirdPlace.Loser())
	}

	// Losers of each earlier round share a rank: size/2 + 1.
	for i := len(b.Rounds) - 2; i >= 0; i-- {
		round := b.Rounds[i]
		rank := round.Size/2 + 1
		for j := range round.Matches {
			m := &round.Matches[j]
			if m.Bye {
				continue
			}
			add(rank, m.Loser())
		}
	}

	next := 0
	for _, r := range rankings {
		if r.Rank > next {
			next = r.Rank
		}
	}
	for _, entry := range poolRanking {
		if assigned[normalize.Name(entry.Player.Name)] {
			continue
		}
		next++
		add(next, entry.Player)
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].Rank != rankings[j].Rank {
			return rankings[i].Rank < rankings[j].Rank
		}
		return rankings[i].Player.Name < rankings[j].Player.Name
	})
	return rankings
}
