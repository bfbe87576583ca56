package service

import (
	"context"
	"fmt"

	"nommie/internal/domain"
	"nommie/internal/rng"
	"nommie/internal/store"
)

// DealRound deals roundNo for gameID: valid only when the Game's current
// phase allows it (round 1 from Lobby, later rounds from Complete),
// matching domain.CanDealRound. It derives the dealing seed, deals four
// hands, writes the Round and Hand rows, and transitions the Game to
// Bidding under the guarded update.
func (o *Orchestrator) DealRound(ctx context.Context, gameID uint64, expectedLockVersion int64, roundNo int) (*store.GameRow, *domain.Error) {
	var result *store.GameRow
	txErr := o.db.WithinTransaction(ctx, store.CommitOnSuccess, func(ctx context.Context) error {
		row, derr := o.games.Load(ctx, gameID)
		if derr != nil {
			return derr
		}
		if row.LockVersion != expectedLockVersion {
			return domain.ErrOptimisticLock(expectedLockVersion, row.LockVersion)
		}
		dealt, derr := o.dealRoundTx(ctx, row, expectedLockVersion, roundNo)
		if derr != nil {
			return derr
		}
		result = dealt
		return nil
	})
	return o.finish(ctx, gameID, result, txErr)
}

// dealRoundTx is DealRound's body, factored out so SetReady can deal round
// 1 from within a transaction it already opened (WithinTransaction
// enlists rather than nests, so this still runs atomically with the
// membership update that triggered it).
func (o *Orchestrator) dealRoundTx(ctx context.Context, row *store.GameRow, expectedLockVersion int64, roundNo int) (*store.GameRow, *domain.Error) {
	g := gameFromRow(row)
	if !domain.CanDealRound(g.Phase, roundNo) {
		return nil, domain.ErrPhaseMismatch(domain.PhaseComplete, g.Phase)
	}
	handSize, ok := domain.HandSizeForRound(roundNo)
	if !ok {
		return nil, domain.ErrInvalidBid(fmt.Sprintf("round %d is outside the 1..%d schedule", roundNo, domain.TotalRounds))
	}
	dealerSeat := domain.DealerSeatForRound(g.StartingDealerSeat, roundNo)

	seed := o.gameSeed(ctx, row.ID, row.Seed)
	hands, err := rng.Deal(seed, uint8(roundNo), handSize)
	if err != nil {
		return nil, domain.ErrDataCorruption("deal round %d: %s", roundNo, err.Error())
	}

	roundRow := &store.RoundRow{GameID: row.ID, RoundNo: roundNo, HandSize: handSize, DealerSeat: dealerSeat}
	if derr := o.rounds.CreateRound(ctx, roundRow); derr != nil {
		return nil, derr
	}
	for seat := 0; seat < domain.SeatCount; seat++ {
		if derr := o.rounds.CreateHand(ctx, roundRow.ID, seat, hands[seat]); derr != nil {
			return nil, derr
		}
	}

	domain.AdvanceGameForNewRound(g, roundNo, dealerSeat)
	updated, derr := o.games.CompareAndSwap(ctx, row.ID, expectedLockVersion, gameDeltas(g))
	if derr != nil {
		return nil, derr
	}

	rs := domain.NewRound(roundNo, handSize, dealerSeat, hands)
	o.store(row.ID, &cachedRound{round: rs, row: roundRow})
	return updated, nil
}

// asDomainError recovers the *domain.Error a command handler returned
// through WithinTransaction's generic error interface, or wraps anything
// else (a raw driver error) as Infra.
func asDomainError(err error) *domain.Error {
	if err == nil {
		return nil
	}
	if de, ok := err.(*domain.Error); ok {
		return de
	}
	return &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
}
