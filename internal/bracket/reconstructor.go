package bracket

import (
	"fmt"
	"sort"

	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/normalize"
)

// Bracket is a structurally validated single-elimination tree. Rounds are
// ordered from the entry round to the final; every round holds a match slot
// per bracket position, populated from fragments where available and
// synthesized as score-unknown placeholders where not.
type Bracket struct {
	Size       int
	Seeding    []domain.SeedEntry
	Rounds     []domain.DERound
	ThirdPlace *domain.DEMatch
	Valid      bool
}

// Reconstruct builds the elimination tree for one event fragment. Match
// numbers are assigned by bracket position, so the result is independent of
// the order round fragments were collected in. Any contradiction between a
// round and the winners of the round before it is a hard validation error;
// nothing is silently resolved.
func Reconstruct(frag *domain.EventFragment) (*Bracket, error) {
	fail := func(format string, args ...any) (*Bracket, error) {
		return nil, &domain.StructuralValidationError{
			EventKey: frag.EventKey,
			Reason:   fmt.Sprintf(format, args...),
		}
	}

	bySize, thirdPlace, err := classifyRounds(frag)
	if err != nil {
		return nil, err
	}

	seeding := frag.Seeding
	implied := len(seeding) == 0
	if implied {
		seeding = impliedSeeding(bySize)
	}
	n := len(seeding)
	for _, entry := range seeding {
		if entry.Seed > n {
			n = entry.Seed
		}
	}
	if n < 2 {
		return fail("fewer than two seeded entrants (%d)", n)
	}
	size := BracketSize(n)
	for roundSize := range bySize {
		if roundSize > size {
			return fail("round of %d exceeds bracket size %d for %d entrants", roundSize, size, n)
		}
	}

	rc := &reconCtx{size: size, slotByKey: map[string]int{}, slotByName: map[string]int{}}
	slots := make([]domain.Mention, size)
	bySeed := make(map[int]domain.SeedEntry, n)
	for _, entry := range seeding {
		if entry.Seed < 1 || entry.Seed > n {
			return fail("seed %d outside 1..%d", entry.Seed, n)
		}
		if _, dup := bySeed[entry.Seed]; dup {
			return fail("duplicate seed %d", entry.Seed)
		}
		bySeed[entry.Seed] = entry
	}
	// A real seeding table is laid out in tournament order (seed i against
	// seed 2^r+1-i, recursively). A seeding implied from a round fragment is
	// already in bracket order and is placed as listed.
	order := SeedOrder(size)
	if implied {
		for i := range order {
			order[i] = i + 1
		}
	}
	for slot, seed := range order {
		entry, ok := bySeed[seed]
		if !ok {
			continue
		}
		slots[slot] = entry.Player
		rc.register(entry.Player, slot)
	}

	b := &Bracket{Size: size, Seeding: seeding}
	cur := slots
	for roundSize := size; roundSize >= 2; roundSize /= 2 {
		name := roundNameBySize[roundSize]
		matchCount := roundSize / 2
		positioned, err := rc.positionRound(bySize[roundSize], name, matchCount, roundSize == size)
		if err != nil {
			return nil, err
		}

		round := domain.DERound{Name: name, Size: roundSize, Matches: make([]domain.DEMatch, matchCount)}
		next := make([]domain.Mention, matchCount)
		for pos := 0; pos < matchCount; pos++ {
			feedA, feedB := cur[2*pos], cur[2*pos+1]
			fm := positioned[pos]
			var out domain.DEMatch
			if fm != nil {
				out = *fm
				out.RoundName = name
				out.MatchNumber = pos + 1
				if err := rc.reconcileFeeders(b, &out, feedA, feedB, roundSize == size, pos); err != nil {
					return nil, &domain.StructuralValidationError{EventKey: frag.EventKey, Reason: err.Error()}
				}
				if err := validateScores(&out); err != nil {
					return nil, &domain.StructuralValidationError{EventKey: frag.EventKey, Reason: err.Error()}
				}
			} else {
				out = domain.DEMatch{
					RoundName:    name,
					MatchNumber:  pos + 1,
					Player1:      feedA,
					Player2:      feedB,
					ScoreUnknown: true,
				}
				if roundSize == size {
					// A first-round slot without an opponent is a bye into
					// the next round, not a missing result.
					if !feedA.IsZero() && feedB.IsZero() {
						out.Bye = true
						out.Winner = feedA
					} else if feedA.IsZero() && !feedB.IsZero() {
						out.Bye = true
						out.Winner = feedB
					}
				}
			}
			round.Matches[pos] = out
			next[pos] = out.Winner
		}
		b.Rounds = append(b.Rounds, round)
		cur = next
	}

	if len(thirdPlace) > 1 {
		return fail("%d third place bouts declared, expected one", len(thirdPlace))
	}
	if len(thirdPlace) == 1 {
		tp := thirdPlace[0]
		tp.RoundName = ThirdPlace
		tp.MatchNumber = 1
		if err := validateScores(&tp); err != nil {
			return nil, &domain.StructuralValidationError{EventKey: frag.EventKey, Reason: err.Error()}
		}
		if err := validateThirdPlace(b, &tp); err != nil {
			return nil, &domain.StructuralValidationError{EventKey: frag.EventKey, Reason: err.Error()}
		}
		b.ThirdPlace = &tp
	}

	b.Valid = true
	return b, nil
}

// classifyRounds assigns each fragment round to a canonical round size,
// preferring an explicit label and falling back to the match count. The
// third-place bout is split off as a side branch.
func classifyRounds(frag *domain.EventFragment) (map[int][]domain.DEMatch, []domain.DEMatch, error) {
	bySize := make(map[int][]domain.DEMatch)
	var thirdPlace []domain.DEMatch

	labels := make([]string, 0, len(frag.DERounds))
	for label := range frag.DERounds {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		matches := frag.DERounds[label]
		if len(matches) == 0 {
			continue
		}
		if IsThirdPlaceLabel(label) {
			thirdPlace = append(thirdPlace, matches...)
			continue
		}
		size, ok := labelRoundSize(label)
		if !ok {
			size = 2 * len(matches)
		}
		if _, known := roundNameBySize[size]; !known {
			return nil, nil, &domain.StructuralValidationError{
				EventKey: frag.EventKey,
				Reason:   fmt.Sprintf("round %q with %d matches does not fit an elimination bracket", label, len(matches)),
			}
		}
		bySize[size] = append(bySize[size], matches...)
	}
	return bySize, thirdPlace, nil
}

// impliedSeeding derives an entry list from the largest collected round when
// the source page omitted the seeding table. Entrants are numbered in the
// order they appear.
func impliedSeeding(bySize map[int][]domain.DEMatch) []domain.SeedEntry {
	largest := 0
	for size := range bySize {
		if size > largest {
			largest = size
		}
	}
	if largest == 0 {
		return nil
	}
	var seeding []domain.SeedEntry
	for k, m := range bySize[largest] {
		if !m.Player1.IsZero() {
			seeding = append(seeding, domain.SeedEntry{Seed: 2*k + 1, Player: m.Player1})
		}
		if !m.Player2.IsZero() {
			seeding = append(seeding, domain.SeedEntry{Seed: 2*k + 2, Player: m.Player2})
		}
	}
	return seeding
}

type reconCtx struct {
	size       int
	slotByKey  map[string]int
	slotByName map[string]int
}

func (rc *reconCtx) register(p domain.Mention, slot int) {
	rc.slotByKey[normalize.IdentityKey(p.Name, p.Team)] = slot
	name := normalize.Name(p.Name)
	if existing, ok := rc.slotByName[name]; ok && existing != slot {
		rc.slotByName[name] = -1 // ambiguous name, full key required
	} else {
		rc.slotByName[name] = slot
	}
}

// slotFor resolves a mention to its bracket slot, trying the full (name,
// team) key first and an unambiguous name alone second. Teams drift between
// the seeding table and round tables, so the name fallback matters.
func (rc *reconCtx) slotFor(p domain.Mention) (int, bool) {
	if p.IsZero() {
		return 0, false
	}
	if slot, ok := rc.slotByKey[normalize.IdentityKey(p.Name, p.Team)]; ok {
		return slot, true
	}
	if slot, ok := rc.slotByName[normalize.Name(p.Name)]; ok && slot >= 0 {
		return slot, true
	}
	return 0, false
}

// positionRound places fragment matches at their bracket positions. The
// position comes from the players' seeding slots, never from arrival order.
func (rc *reconCtx) positionRound(matches []domain.DEMatch, name string, matchCount int, firstRound bool) ([]*domain.DEMatch, error) {
	positioned := make([]*domain.DEMatch, matchCount)
	seg := rc.size / matchCount
	for i := range matches {
		fm := matches[i]
		if !firstRound && (fm.Player1.IsZero() || fm.Player2.IsZero()) {
			return nil, &domain.StructuralValidationError{
				Reason: fmt.Sprintf("%s declares an odd participant count", name),
			}
		}
		slot1, ok1 := rc.slotFor(fm.Player1)
		slot2, ok2 := rc.slotFor(fm.Player2)
		var pos int
		switch {
		case ok1 && ok2:
			if slot1/seg != slot2/seg {
				return nil, &domain.StructuralValidationError{
					Reason: fmt.Sprintf("%s and %s cannot meet in the %s by bracket position", fm.Player1.Name, fm.Player2.Name, name),
				}
			}
			pos = slot1 / seg
		case ok1:
			pos = slot1 / seg
		case ok2:
			pos = slot2 / seg
		default:
			return nil, &domain.StructuralValidationError{
				Reason: fmt.Sprintf("neither %s nor %s appears in the seeding", fm.Player1.Name, fm.Player2.Name),
			}
		}
		if prev := positioned[pos]; prev != nil {
			if sameMatch(prev, &fm) {
				continue
			}
			return nil, &domain.StructuralValidationError{
				Reason: fmt.Sprintf("conflicting %s matches at position %d", name, pos+1),
			}
		}
		positioned[pos] = &fm
	}
	return positioned, nil
}

// reconcileFeeders checks a fragment match against the winners feeding into
// its position, backfills unknown winners of the previous round, and orients
// the players into canonical slot order. The advancement rule is strict:
// the participants of a round must be a subset of the previous round's
// winners whenever those winners are known.
func (rc *reconCtx) reconcileFeeders(b *Bracket, out *domain.DEMatch, feedA, feedB domain.Mention, firstRound bool, pos int) error {
	if firstRound {
		if out.Player2.IsZero() && !out.Player1.IsZero() && !out.Scored() {
			out.Bye = true
			out.ScoreUnknown = true
			out.Winner = out.Player1
		}
		rc.orientBySlot(out)
		return nil
	}

	prevRound := &b.Rounds[len(b.Rounds)-1]
	// One feeder per previous-round match; feeder j of this round is the
	// winner of prevRound.Matches[j].
	seg := rc.size / len(prevRound.Matches)

	for _, p := range []domain.Mention{out.Player1, out.Player2} {
		if p.IsZero() {
			continue
		}
		slot, ok := rc.slotFor(p)
		if !ok {
			return fmt.Errorf("%s appears in the %s but nowhere earlier in the bracket", p.Name, out.RoundName)
		}
		j := slot / seg
		feeder := feedA
		if j%2 == 1 {
			feeder = feedB
		}
		nameKey := normalize.Name(p.Name)
		if !feeder.IsZero() {
			if normalize.Name(feeder.Name) != nameKey {
				return fmt.Errorf("%s reached the %s but the %s winner at that position is %s", p.Name, out.RoundName, prevRound.Name, feeder.Name)
			}
			continue
		}
		// The previous round's winner was unknown; this round proves who
		// advanced. Record the advancement without inventing a score.
		pm := &prevRound.Matches[j]
		if !pm.Player1.IsZero() && !pm.Player2.IsZero() &&
			normalize.Name(pm.Player1.Name) != nameKey && normalize.Name(pm.Player2.Name) != nameKey {
			return fmt.Errorf("%s reached the %s without appearing in the %s", p.Name, out.RoundName, prevRound.Name)
		}
		if pm.Player1.IsZero() && normalize.Name(pm.Player2.Name) != nameKey {
			pm.Player1 = p
		} else if pm.Player2.IsZero() && normalize.Name(pm.Player1.Name) != nameKey {
			pm.Player2 = p
		}
		pm.Winner = p
		pm.ScoreUnknown = true
		rc.register(p, slot)
	}
	rc.orientBySlot(out)
	return nil
}

// orientBySlot keeps Player1 as the top slot so re-ingestion in any order
// produces identical bouts.
func (rc *reconCtx) orientBySlot(out *domain.DEMatch) {
	slot1, ok1 := rc.slotFor(out.Player1)
	slot2, ok2 := rc.slotFor(out.Player2)
	if ok1 && ok2 && slot2 < slot1 {
		out.Player1, out.Player2 = out.Player2, out.Player1
		out.Score1, out.Score2 = out.Score2, out.Score1
	}
}

// validateScores enforces the DE bout invariants on a scored match: the
// winner's score is at least the loser's and no score exceeds 15.
func validateScores(m *domain.DEMatch) error {
	if !m.Scored() {
		return nil
	}
	s1, s2 := *m.Score1, *m.Score2
	if s1 < 0 || s2 < 0 || s1 > domain.MaxDEScore || s2 > domain.MaxDEScore {
		return fmt.Errorf("%s match %d has score %d-%d outside 0..%d", m.RoundName, m.MatchNumber, s1, s2, domain.MaxDEScore)
	}
	if m.Winner.IsZero() {
		return nil
	}
	winnerScore, loserScore := s1, s2
	if normalize.Name(m.Winner.Name) == normalize.Name(m.Player2.Name) {
		winnerScore, loserScore = s2, s1
	}
	if winnerScore < loserScore {
		return fmt.Errorf("%s match %d declares %s the winner with %d-%d", m.RoundName, m.MatchNumber, m.Winner.Name, winnerScore, loserScore)
	}
	return nil
}

// validateThirdPlace checks the side branch against the semifinal losers. It
// is never validated by bracket position; it exists outside the advancement
// chain.
func validateThirdPlace(b *Bracket, tp *domain.DEMatch) error {
	var losers []string
	for _, round := range b.Rounds {
		if round.Size != 4 {
			continue
		}
		for i := range round.Matches {
			loser := round.Matches[i].Loser()
			if !loser.IsZero() {
				losers = append(losers, normalize.Name(loser.Name))
			}
		}
	}
	if len(losers) < 2 {
		return nil // semifinal outcome unknown, nothing to check against
	}
	for _, p := range []domain.Mention{tp.Player1, tp.Player2} {
		if p.IsZero() {
			continue
		}
		name := normalize.Name(p.Name)
		found := false
		for _, l := range losers {
			if l == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s contests third place without losing a semifinal", p.Name)
		}
	}
	return nil
}

func sameMatch(a, b *domain.DEMatch) bool {
	pairA := pairKey(a.Player1, a.Player2)
	pairB := pairKey(b.Player1, b.Player2)
	if pairA != pairB {
		return false
	}
	return scoreEqual(a.Score1, b.Score1) && scoreEqual(a.Score2, b.Score2) ||
		scoreEqual(a.Score1, b.Score2) && scoreEqual(a.Score2, b.Score1)
}

func pairKey(p1, p2 domain.Mention) string {
	a, b := normalize.Name(p1.Name), normalize.Name(p2.Name)
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

func scoreEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
