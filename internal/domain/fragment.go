package domain

// Mention is a raw appearance of a player in a fragment, before identity
// resolution.
type Mention struct {
	Name string `json:"name"`
	Team string `json:"team,omitempty"`
}

func (m Mention) IsZero() bool {
	return m.Name == ""
}

// SeedEntry is one line of a DE bracket's entry list.
type SeedEntry struct {
	Seed       int     `json:"seed"`
	Player     Mention `json:"player"`
	PoolRecord string  `json:"poolRecord,omitempty"`
}

// PoolBout is a round-robin bout to 5 points. Ties are impossible.
type PoolBout struct {
	Player1 Mention `json:"player1"`
	Player2 Mention `json:"player2"`
	Score1  int     `json:"score1"`
	Score2  int     `json:"score2"`
	Winner  Mention `json:"winner"`
}

// PoolRound is one pool of one preliminary round.
type PoolRound struct {
	RoundNumber int        `json:"roundNumber"`
	PoolNumber  int        `json:"poolNumber"`
	Bouts       []PoolBout `json:"bouts,omitempty"`
}

// DEMatch is a bout candidate inside the elimination tree.
type DEMatch struct {
	RoundName   string  `json:"roundName"`
	MatchNumber int     `json:"matchNumber"`
	Player1     Mention `json:"player1"`
	Player2     Mention `json:"player2"`
	Score1      *int    `json:"score1,omitempty"`
	Score2      *int    `json:"score2,omitempty"`
	Winner      Mention `json:"winner"`

	// ScoreUnknown marks byes and synthesized advancements: the winner is
	// known (or inferred from a later round) but no scores exist.
	ScoreUnknown bool `json:"scoreUnknown,omitempty"`
	// Bye marks a first-round slot with no opponent.
	Bye bool `json:"bye,omitempty"`
}

// Decided reports whether a winner is known, scored or not.
func (m *DEMatch) Decided() bool {
	return !m.Winner.IsZero()
}

// Scored reports whether both scores were actually collected. Only scored
// matches participate in completeness checks and merge conflict detection.
func (m *DEMatch) Scored() bool {
	return !m.ScoreUnknown && m.Score1 != nil && m.Score2 != nil
}

// Loser returns the non-winning side of a decided match.
func (m *DEMatch) Loser() Mention {
	if m.Winner.IsZero() {
		return Mention{}
	}
	if m.Winner == m.Player1 {
		return m.Player2
	}
	return m.Player1
}

// DERound is one fully ordered elimination round. Size is the number of
// competitors advancing into the round, twice the match count.
type DERound struct {
	Name    string    `json:"name"`
	Size    int       `json:"size"`
	Matches []DEMatch `json:"matches"`
}

// RankingEntry is a final or pool placement line.
type RankingEntry struct {
	Rank   int     `json:"rank"`
	Player Mention `json:"player"`
}

// EventFragment is the canonical form of one collected payload, produced by
// the fragment normalizer. Any section may be empty.
type EventFragment struct {
	CompKey     string
	CompName    string
	EventKey    string
	SubEventKey string
	EventName   string
	Weapon      Weapon
	Gender      Gender
	AgeGroup    string
	Context     BoutContext
	Status      EventStatus

	Seeding       []SeedEntry
	PoolRounds    []PoolRound
	PoolRanking   []RankingEntry
	DERounds      map[string][]DEMatch
	FinalRankings []RankingEntry
}

// EventRecord is the reconciled per-event snapshot the store owns. It is the
// unit the merge reconciler operates on and is serialized into Event.RawData.
type EventRecord struct {
	Seeding       []SeedEntry    `json:"seeding,omitempty"`
	PoolRounds    []PoolRound    `json:"poolRounds,omitempty"`
	PoolRanking   []RankingEntry `json:"poolRanking,omitempty"`
	DERounds      []DERound      `json:"deRounds,omitempty"`
	ThirdPlace    *DEMatch       `json:"thirdPlace,omitempty"`
	FinalRankings []RankingEntry `json:"finalRankings,omitempty"`
}

// HasDEBracket reports whether any bracket structure is known.
func (r *EventRecord) HasDEBracket() bool {
	return len(r.Seeding) > 0 || len(r.DERounds) > 0
}

// ScoredDEBouts counts DE matches with collected scores.
func (r *EventRecord) ScoredDEBouts() int {
	n := 0
	for _, round := range r.DERounds {
		for i := range round.Matches {
			if round.Matches[i].Scored() {
				n++
			}
		}
	}
	if r.ThirdPlace != nil && r.ThirdPlace.Scored() {
		n++
	}
	return n
}

// RawFragment is the loose shape delivered by the fetcher, one payload per
// event. Every field may be absent; the normalizer coerces what is present.
type RawFragment struct {
	CompKey     string `json:"comp_key,omitempty"`
	CompName    string `json:"comp_name,omitempty"`
	EventKey    string `json:"event_key,omitempty"`
	SubEventKey string `json:"sub_event_key,omitempty"`
	EventName   string `json:"event_name,omitempty"`
	Weapon      string `json:"weapon,omitempty"`
	Gender      string `json:"gender,omitempty"`
	AgeGroup    string `json:"age_group,omitempty"`
	Context     string `json:"context,omitempty"`
	Status      string `json:"status,omitempty"`

	Seeding          []map[string]any            `json:"seeding,omitempty"`
	PoolRounds       []map[string]any            `json:"pool_rounds,omitempty"`
	PoolRanking      []map[string]any            `json:"pool_total_ranking,omitempty"`
	DEMatchesByRound map[string][]map[string]any `json:"de_matches_by_round,omitempty"`
	FinalRankings    []map[string]any            `json:"final_rankings,omitempty"`
}
