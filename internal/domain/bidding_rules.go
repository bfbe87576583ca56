package domain

// ConsecutiveZeroStreak reports whether a seat must bid at least 1 this
// round: true when the seat bid zero in each of its three immediately
// preceding rounds. lastThree holds those bid values in round order
// (oldest first); fewer than three entries (early in the game) never
// triggers the rule.
//
// This counts all three immediately preceding rounds regardless of whether
// the seat occupied a human or AI membership in them — resolved this way
// because the persisted-Bids-based lookup the orchestrator uses naturally
// returns a value for every round a membership existed, with no
// participation distinction to filter on. See SPEC_FULL.md §9.
func ConsecutiveZeroStreak(lastThree []int) bool {
	if len(lastThree) < 3 {
		return false
	}
	for _, v := range lastThree[len(lastThree)-3:] {
		if v != 0 {
			return false
		}
	}
	return true
}
