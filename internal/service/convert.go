package service

import (
	"nommie/internal/domain"
	"nommie/internal/store"
)

func gameFromRow(row *store.GameRow) *domain.Game {
	phase, _ := domain.ParsePhase(row.LifecycleState)
	g := &domain.Game{
		Phase:              phase,
		CurrentTrickNumber: row.CurrentTrickNumber,
		LockVersion:        row.LockVersion,
	}
	if row.CurrentRound != nil {
		g.CurrentRound = *row.CurrentRound
	}
	if row.StartingDealerSeat != nil {
		g.StartingDealerSeat = *row.StartingDealerSeat
	}
	return g
}

// gameDeltas turns the lifecycle fields of g into the column-delta map
// CompareAndSwap expects. ScoresTotal is tracked via RoundScoreRow.TotalScoreAfter
// rather than a Game column, so it is intentionally not included here.
func gameDeltas(g *domain.Game) store.Deltas {
	round := g.CurrentRound
	dealer := g.StartingDealerSeat
	return store.Deltas{
		"lifecycle_state":      g.Phase.String(),
		"current_round":        &round,
		"starting_dealer_seat": &dealer,
		"current_trick_number": g.CurrentTrickNumber,
	}
}
