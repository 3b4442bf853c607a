package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedOrder(t *testing.T) {
	assert.Equal(t, []int{1, 2}, SeedOrder(2))
	assert.Equal(t, []int{1, 4, 2, 3}, SeedOrder(4))
	assert.Equal(t, []int{1, 8, 4, 5, 2, 7, 3, 6}, SeedOrder(8))
}

// Adjacent slot pairs meet in round one: seed i always faces seed size+1-i.
func TestSeedOrder_FirstRoundPairs(t *testing.T) {
	for _, size := range []int{4, 8, 16, 32, 64, 128} {
		order := SeedOrder(size)
		assert.Len(t, order, size)
		for pos := 0; pos < size; pos += 2 {
			assert.Equal(t, size+1, order[pos]+order[pos+1],
				"size %d position %d", size, pos)
		}
	}
}

// The top two seeds land in opposite halves, the top four in distinct
// quarters, so they cannot collide before the late rounds.
func TestSeedOrder_TopSeedsSeparated(t *testing.T) {
	order := SeedOrder(16)
	slots := slotBySeed(16)

	assert.NotEqual(t, slots[1]/8, slots[2]/8)
	quarters := map[int]bool{}
	for seed := 1; seed <= 4; seed++ {
		quarters[slots[seed]/4] = true
	}
	assert.Len(t, quarters, 4)
	_ = order
}

func TestBracketSize(t *testing.T) {
	assert.Equal(t, 2, BracketSize(1))
	assert.Equal(t, 2, BracketSize(2))
	assert.Equal(t, 4, BracketSize(3))
	assert.Equal(t, 8, BracketSize(6))
	assert.Equal(t, 16, BracketSize(16))
	assert.Equal(t, 32, BracketSize(17))
	assert.Equal(t, 128, BracketSize(100))
}
