package bracket

import (
	"regexp"
	"strconv"
	"strings"
)

// Canonical round names, keyed by the number of competitors advancing into
// the round (twice the match count).
const (
	RoundOf128   = "Round of 128"
	RoundOf64    = "Round of 64"
	RoundOf32    = "Round of 32"
	RoundOf16    = "Round of 16"
	Quarterfinal = "Quarterfinal"
	Semifinal    = "Semifinal"
	Final        = "Final"
	ThirdPlace   = "Third Place"
)

var roundNameBySize = map[int]string{
	128: RoundOf128,
	64:  RoundOf64,
	32:  RoundOf32,
	16:  RoundOf16,
	8:   Quarterfinal,
	4:   Semifinal,
	2:   Final,
}

// RoundNameForSize maps a round's entry count to its canonical name.
func RoundNameForSize(size int) (string, bool) {
	name, ok := roundNameBySize[size]
	return name, ok
}

var roundNumber = regexp.MustCompile(`(\d+)`)

// IsThirdPlaceLabel recognizes the side-branch bout for rank 3/4 across the
// label variants the source uses.
func IsThirdPlaceLabel(label string) bool {
	l := strings.ToLower(strings.TrimSpace(label))
	if strings.Contains(l, "third") || strings.Contains(l, "3rd") {
		return true
	}
	if strings.Contains(l, "3-4") || strings.Contains(l, "3/4") {
		return true
	}
	// Korean federation labels: 3위결정전 "third place decider", 3-4위.
	if strings.Contains(l, "3위") {
		return true
	}
	return false
}

// labelRoundSize parses an explicit round label into an entry count. Labels
// come in English ("Round of 16", "quarterfinal", "r64") and Korean ("16강",
// "준결승", "결승") variants. Unrecognized labels return ok=false and the
// round is classified by match count instead.
func labelRoundSize(label string) (int, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case l == "":
		return 0, false
	case strings.Contains(l, "semi") || strings.Contains(l, "준결승") || l == "4강":
		return 4, true
	case strings.Contains(l, "quarter") || l == "8강":
		return 8, true
	case strings.Contains(l, "final") || strings.Contains(l, "결승"):
		return 2, true
	}
	if m := roundNumber.FindString(l); m != "" {
		n, err := strconv.Atoi(m)
		if err == nil {
			if _, ok := roundNameBySize[n]; ok {
				return n, true
			}
		}
	}
	return 0, false
}

// BracketSize returns the bracket slot count for n entrants: the next power
// of two, at least 2.
func BracketSize(n int) int {
	size := 2
	for size < n {
		size *= 2
	}
	return size
}
