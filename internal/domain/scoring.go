package domain

// RoundScoreRow is one seat's computed score for a completed round.
type RoundScoreRow struct {
	Seat            int
	Bid             int
	TricksWon       int
	BidMet          bool
	BaseScore       int
	Bonus           int
	RoundScore      int
	TotalScoreAfter int
}

const exactBidBonus = 10

// PreviewRoundScores computes per-seat scores for rs exactly as ScoreRound
// does, without requiring Scoring phase or mutating rs. Used both by
// ScoreRound itself and by read-only rendering that needs to show a round's
// scores before (or without) the ScoreRound command committing them, e.g. a
// Scoring-phase or just-completed-round snapshot.
func PreviewRoundScores(rs *RoundState, totalsBefore [SeatCount]int) ([SeatCount]RoundScoreRow, [SeatCount]int) {
	var tricksWon [SeatCount]int
	for _, tr := range rs.CompletedTricks {
		tricksWon[tr.Winner]++
	}
	bidBySeat := map[int]int{}
	for _, b := range rs.Bids {
		bidBySeat[b.Seat] = b.Value
	}

	var rows [SeatCount]RoundScoreRow
	var totalsAfter [SeatCount]int
	for seat := 0; seat < SeatCount; seat++ {
		bid := bidBySeat[seat]
		won := tricksWon[seat]
		bidMet := won == bid
		bonus := 0
		if bidMet {
			bonus = exactBidBonus
		}
		roundScore := won + bonus
		totalsAfter[seat] = totalsBefore[seat] + roundScore
		rows[seat] = RoundScoreRow{
			Seat:            seat,
			Bid:             bid,
			TricksWon:       won,
			BidMet:          bidMet,
			BaseScore:       won,
			Bonus:           bonus,
			RoundScore:      roundScore,
			TotalScoreAfter: totalsAfter[seat],
		}
	}
	return rows, totalsAfter
}

// ScoreRound computes per-seat scores for a round in the Scoring phase and
// advances the round to Complete. totalsBefore is the cumulative score per
// seat entering this round. A second call after the round has reached
// Complete is a no-op: it returns the prior totals unchanged with no score
// rows, matching the idempotence requirement.
func ScoreRound(rs *RoundState, totalsBefore [SeatCount]int) ([SeatCount]RoundScoreRow, [SeatCount]int, *Error) {
	if rs.Phase == PhaseComplete || rs.Phase == PhaseGameOver {
		return [SeatCount]RoundScoreRow{}, totalsBefore, nil
	}
	if rs.Phase != PhaseScoring {
		return [SeatCount]RoundScoreRow{}, totalsBefore, ErrPhaseMismatch(PhaseScoring, rs.Phase)
	}

	var tricksWon [SeatCount]int
	for _, tr := range rs.CompletedTricks {
		tricksWon[tr.Winner]++
	}
	sum := 0
	for _, n := range tricksWon {
		sum += n
	}
	if sum != rs.HandSize {
		return [SeatCount]RoundScoreRow{}, totalsBefore, ErrDataCorruption(
			"round %d: tricks won sum to %d, want hand_size %d", rs.RoundNo, sum, rs.HandSize)
	}

	rows, totalsAfter := PreviewRoundScores(rs, totalsBefore)

	if rs.RoundNo >= TotalRounds {
		rs.Phase = PhaseGameOver
	} else {
		rs.Phase = PhaseComplete
	}
	return rows, totalsAfter, nil
}
