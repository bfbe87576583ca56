// Package domain implements the pure Nommie game state machine: phase
// transitions, turn sequencing, the legal-move oracle, trick resolution and
// scoring. Nothing in this package performs I/O.
package domain

import "fmt"

// Phase is a stage of a single round's lifecycle, or a game-level terminal
// state.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseBidding
	PhaseTrumpSelect
	PhaseTrick
	PhaseScoring
	PhaseComplete
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseBidding:
		return "bidding"
	case PhaseTrumpSelect:
		return "trump_select"
	case PhaseTrick:
		return "trick"
	case PhaseScoring:
		return "scoring"
	case PhaseComplete:
		return "complete"
	case PhaseGameOver:
		return "game_over"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ParsePhase is the inverse of Phase.String, used when rehydrating a Game
// from its persisted lifecycle_state column.
func ParsePhase(s string) (Phase, bool) {
	switch s {
	case "init":
		return PhaseInit, true
	case "bidding":
		return PhaseBidding, true
	case "trump_select":
		return PhaseTrumpSelect, true
	case "trick":
		return PhaseTrick, true
	case "scoring":
		return PhaseScoring, true
	case "complete":
		return PhaseComplete, true
	case "game_over":
		return PhaseGameOver, true
	default:
		return PhaseInit, false
	}
}

const SeatCount = 4

const TotalRounds = 26
