package normalize

import (
	"regexp"
	"strings"
)

// legalEntityMarkers are parenthesized corporate-entity prefixes the source
// attaches to federation and club names. They carry no identity information.
var legalEntityMarkers = []string{
	"(사)", "(주)", "(재)", "(유)",
	"(사단법인)", "(재단법인)",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Name canonicalizes a raw player, team, or organization name: trims, strips
// known legal-entity markers, and collapses internal whitespace runs.
func Name(raw string) string {
	s := strings.TrimSpace(raw)
	for _, marker := range legalEntityMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// IdentityKey builds the exact-match key for a (name, team) mention. Two
// mentions resolve to the same player iff their keys are equal or a curated
// alias maps one onto the other.
func IdentityKey(name, team string) string {
	return Name(name) + "\x1f" + Name(team)
}
