package bracket

// SeedOrder returns the canonical slot order for a bracket of the given size
// (a power of two): the seed occupying each slot, top to bottom. Adjacent
// slot pairs meet in round one, so seed i faces seed size+1-i and the top
// seeds cannot collide before the late rounds. For size 8 the order is
// 1 8 4 5 2 7 3 6.
func SeedOrder(size int) []int {
	order := []int{1}
	for len(order) < size {
		next := make([]int, 0, len(order)*2)
		mirror := len(order)*2 + 1
		for _, seed := range order {
			next = append(next, seed, mirror-seed)
		}
		order = next
	}
	return order
}

// slotBySeed inverts SeedOrder: seed number to slot index.
func slotBySeed(size int) map[int]int {
	order := SeedOrder(size)
	slots := make(map[int]int, len(order))
	for slot, seed := range order {
		slots[seed] = slot
	}
	return slots
}
