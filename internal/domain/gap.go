package domain

// GapDimension names one missing slice of an event's required data.
type GapDimension string

const (
	GapNoPoolData      GapDimension = "no_pool_data"
	GapNoDEBracket     GapDimension = "no_de_bracket"
	GapNoDEMatches     GapDimension = "no_de_matches"
	GapNoFinalRankings GapDimension = "no_final_rankings"
)

// Gap is one re-collection worklist entry: an event and the dimensions it is
// missing. Gaps are grouped by competition so the fetch layer can batch by
// source page.
type Gap struct {
	CompKey     string         `json:"compKey"`
	EventKey    string         `json:"eventKey"`
	SubEventKey string         `json:"subEventKey"`
	Missing     []GapDimension `json:"missing"`
}

func (g Gap) Has(dim GapDimension) bool {
	for _, d := range g.Missing {
		if d == dim {
			return true
		}
	}
	return false
}
