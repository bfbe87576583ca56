package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nommie/internal/domain"
	"nommie/internal/store"
)

func TestGameFromRowParsesPhaseAndOptionalFields(t *testing.T) {
	round := 3
	dealer := 2
	row := &store.GameRow{
		LifecycleState:     "trick",
		CurrentRound:       &round,
		StartingDealerSeat: &dealer,
		CurrentTrickNumber: 5,
		LockVersion:        7,
	}
	g := gameFromRow(row)
	require.Equal(t, domain.PhaseTrick, g.Phase)
	require.Equal(t, 3, g.CurrentRound)
	require.Equal(t, 2, g.StartingDealerSeat)
	require.Equal(t, 5, g.CurrentTrickNumber)
	require.Equal(t, int64(7), g.LockVersion)
}

func TestGameFromRowDefaultsNilRoundAndDealer(t *testing.T) {
	row := &store.GameRow{LifecycleState: "init"}
	g := gameFromRow(row)
	require.Equal(t, domain.PhaseInit, g.Phase)
	require.Equal(t, 0, g.CurrentRound)
	require.Equal(t, 0, g.StartingDealerSeat)
}

func TestGameDeltasCarriesLifecycleAndRound(t *testing.T) {
	g := &domain.Game{Phase: domain.PhaseBidding, CurrentRound: 4, StartingDealerSeat: 1, CurrentTrickNumber: 0, LockVersion: 2}
	deltas := gameDeltas(g)
	require.Equal(t, "bidding", deltas["lifecycle_state"])
	round := deltas["current_round"].(*int)
	require.Equal(t, 4, *round)
}
