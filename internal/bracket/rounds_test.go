package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundNameForSize(t *testing.T) {
	name, ok := RoundNameForSize(2)
	assert.True(t, ok)
	assert.Equal(t, Final, name)

	name, ok = RoundNameForSize(8)
	assert.True(t, ok)
	assert.Equal(t, Quarterfinal, name)

	name, ok = RoundNameForSize(64)
	assert.True(t, ok)
	assert.Equal(t, RoundOf64, name)

	_, ok = RoundNameForSize(6)
	assert.False(t, ok)
}

func TestLabelRoundSize(t *testing.T) {
	tests := []struct {
		label string
		size  int
		ok    bool
	}{
		{"Round of 16", 16, true},
		{"r64", 64, true},
		{"16강", 16, true},
		{"8강", 8, true},
		{"준결승", 4, true},
		{"Semifinal", 4, true},
		{"semi-final", 4, true},
		{"결승", 2, true},
		{"Final", 2, true},
		{"quarterfinal", 8, true},
		{"something else", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		size, ok := labelRoundSize(tt.label)
		assert.Equal(t, tt.ok, ok, "label %q", tt.label)
		if tt.ok {
			assert.Equal(t, tt.size, size, "label %q", tt.label)
		}
	}
}

func TestIsThirdPlaceLabel(t *testing.T) {
	assert.True(t, IsThirdPlaceLabel("Third Place"))
	assert.True(t, IsThirdPlaceLabel("3rd place match"))
	assert.True(t, IsThirdPlaceLabel("3-4"))
	assert.True(t, IsThirdPlaceLabel("3위결정전"))
	assert.False(t, IsThirdPlaceLabel("결승"))
	assert.False(t, IsThirdPlaceLabel("Round of 32"))
}
