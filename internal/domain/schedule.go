package domain

// handSizeByRound is the fixed 26-round hand-size schedule: it descends from
// 13 to 2 across rounds 1-12, holds at the minimum of 2 across rounds 13-14,
// ascends from 3 back to 13 across rounds 15-25, and repeats the maximum of
// 13 once more at round 26 to close the arc at a full 26 rounds. See
// SPEC_FULL.md §9 for this resolution of the schedule's round-14/round-26
// edge case.
var handSizeByRound = [TotalRounds]int{
	13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, // rounds 1-12
	2, 2, // rounds 13-14
	3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, // rounds 15-25
	13, // round 26
}

// HandSizeForRound returns the dealt hand size for a 1-based round number.
func HandSizeForRound(roundNo int) (int, bool) {
	if roundNo < 1 || roundNo > TotalRounds {
		return 0, false
	}
	return handSizeByRound[roundNo-1], true
}

// DealerSeatForRound computes the rotating dealer seat for a round, given
// the game's starting dealer seat.
func DealerSeatForRound(startingDealer, roundNo int) int {
	return (startingDealer + roundNo - 1) % SeatCount
}
