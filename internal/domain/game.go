package domain

// Game is the pure, in-memory shape of the Game aggregate's lifecycle
// fields: the parts the phase machine reasons about, independent of how
// they are persisted. The orchestration layer maps this to and from the
// Game row described in the data model.
type Game struct {
	Phase              Phase
	CurrentRound       int // 0 before round 1 starts
	StartingDealerSeat int
	CurrentTrickNumber int
	ScoresTotal        [SeatCount]int
	LockVersion        int64
}

// NewGame builds a Game in the lobby (PhaseInit).
func NewGame() *Game {
	return &Game{Phase: PhaseInit, LockVersion: 1}
}

// ReadyToDealRound1 reports whether a lobby with four ready memberships
// should trigger the first deal, per the ready/auto-start rule.
func ReadyToDealRound1(allReady bool, phase Phase) bool {
	return allReady && phase == PhaseInit
}

// CanDealRound reports whether a Deal-round command is valid for the
// requested round number given the game's current phase: round 1 requires
// PhaseInit, subsequent rounds require PhaseComplete.
func CanDealRound(phase Phase, roundNo int) bool {
	if roundNo == 1 {
		return phase == PhaseInit
	}
	return phase == PhaseComplete
}

// AdvanceGameForNewRound mutates the Game aggregate's lifecycle fields to
// reflect a freshly dealt round: phase becomes Bidding, current_round and
// dealer are set, and the trick counter resets.
func AdvanceGameForNewRound(g *Game, roundNo, dealerSeat int) {
	g.Phase = PhaseBidding
	g.CurrentRound = roundNo
	g.StartingDealerSeat = startingDealerFor(g, roundNo, dealerSeat)
	g.CurrentTrickNumber = 0
}

// startingDealerFor back-solves the game's fixed starting_dealer_seat from
// a just-computed dealer seat for roundNo, so that DealerSeatForRound stays
// consistent for every future round without re-deriving it elsewhere. For
// round 1 the dealer given IS the starting dealer.
func startingDealerFor(g *Game, roundNo, dealerSeat int) int {
	if roundNo == 1 {
		return dealerSeat
	}
	return g.StartingDealerSeat
}

// SyncGamePhaseFromRound mirrors a RoundState's phase onto the Game
// aggregate and keeps the trick counter in lockstep while a round is in the
// Trick phase.
func SyncGamePhaseFromRound(g *Game, rs *RoundState) {
	g.Phase = rs.Phase
	g.CurrentTrickNumber = rs.TrickNo
}
