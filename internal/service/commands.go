package service

import (
	"context"

	"nommie/internal/cards"
	"nommie/internal/domain"
	"nommie/internal/store"
)

// SubmitBid applies a bid for seat in gameID's in-progress round, under the
// dealer-sum and consecutive-zero rules, and advances to TrumpSelect on
// the fourth bid.
func (o *Orchestrator) SubmitBid(ctx context.Context, gameID uint64, expectedLockVersion int64, seat, value int) (*store.GameRow, *domain.Error) {
	var result *store.GameRow
	txErr := o.db.WithinTransaction(ctx, store.CommitOnSuccess, func(ctx context.Context) error {
		_, cr, g, derr := o.loadForMutation(ctx, gameID, expectedLockVersion)
		if derr != nil {
			return derr
		}

		lastThree, derr := o.rounds.LastThreeBids(ctx, gameID, seat, cr.round.RoundNo)
		if derr != nil {
			return derr
		}
		excludeZero := domain.ConsecutiveZeroStreak(lastThree)

		if derr := domain.SubmitBid(cr.round, seat, value, excludeZero); derr != nil {
			return derr
		}
		order := len(cr.round.Bids) - 1
		if derr := o.rounds.CreateBid(ctx, &store.BidRow{RoundID: cr.row.ID, Seat: seat, BidValue: value, BidOrder: order}); derr != nil {
			return derr
		}

		domain.SyncGamePhaseFromRound(g, cr.round)
		updated, derr := o.games.CompareAndSwap(ctx, gameID, expectedLockVersion, gameDeltas(g))
		if derr != nil {
			return derr
		}
		result = updated
		return nil
	})
	return o.finish(ctx, gameID, result, txErr)
}

// SetTrump applies the bid winner's trump choice and advances to Trick{1}.
func (o *Orchestrator) SetTrump(ctx context.Context, gameID uint64, expectedLockVersion int64, seat int, trump cards.Trump) (*store.GameRow, *domain.Error) {
	var result *store.GameRow
	txErr := o.db.WithinTransaction(ctx, store.CommitOnSuccess, func(ctx context.Context) error {
		_, cr, g, derr := o.loadForMutation(ctx, gameID, expectedLockVersion)
		if derr != nil {
			return derr
		}
		if derr := domain.SetTrump(cr.round, seat, trump); derr != nil {
			return derr
		}
		if derr := o.rounds.SetTrump(ctx, cr.row.ID, trump.String()); derr != nil {
			return derr
		}

		domain.SyncGamePhaseFromRound(g, cr.round)
		updated, derr := o.games.CompareAndSwap(ctx, gameID, expectedLockVersion, gameDeltas(g))
		if derr != nil {
			return derr
		}
		result = updated
		return nil
	})
	return o.finish(ctx, gameID, result, txErr)
}

// PlayCard applies a card play, resolves the trick on the fourth play, and
// transitions to Scoring once the round's final trick resolves.
func (o *Orchestrator) PlayCard(ctx context.Context, gameID uint64, expectedLockVersion int64, seat int, card cards.Card) (*store.GameRow, *domain.Error) {
	var result *store.GameRow
	txErr := o.db.WithinTransaction(ctx, store.CommitOnSuccess, func(ctx context.Context) error {
		_, cr, g, derr := o.loadForMutation(ctx, gameID, expectedLockVersion)
		if derr != nil {
			return derr
		}
		trickBefore := len(cr.round.CompletedTricks)
		if derr := domain.PlayCard(cr.round, seat, card); derr != nil {
			return derr
		}
		if len(cr.round.CompletedTricks) > trickBefore {
			completed := cr.round.CompletedTricks[len(cr.round.CompletedTricks)-1]
			plays := make([]*store.PlayRow, len(completed.Plays))
			for i, p := range completed.Plays {
				raw, err := p.Card.MarshalVerbose()
				if err != nil {
					return domain.ErrDataCorruption("marshal play: %s", err.Error())
				}
				plays[i] = &store.PlayRow{Seat: p.Seat, CardRaw: raw, PlayOrder: i}
			}
			trickRow := &store.TrickRow{
				RoundID:    cr.row.ID,
				TrickNo:    completed.TrickNo,
				LeadSuit:   completed.LeadSuit.String(),
				WinnerSeat: completed.Winner,
			}
			if derr := o.rounds.CreateTrickWithPlays(ctx, trickRow, plays); derr != nil {
				return derr
			}
		}

		domain.SyncGamePhaseFromRound(g, cr.round)
		updated, derr := o.games.CompareAndSwap(ctx, gameID, expectedLockVersion, gameDeltas(g))
		if derr != nil {
			return derr
		}
		result = updated
		return nil
	})
	return o.finish(ctx, gameID, result, txErr)
}

// ScoreRound computes and persists per-seat round scores and transitions
// the Game to Complete (or GameOver for round 26).
func (o *Orchestrator) ScoreRound(ctx context.Context, gameID uint64, expectedLockVersion int64) (*store.GameRow, *domain.Error) {
	var result *store.GameRow
	txErr := o.db.WithinTransaction(ctx, store.CommitOnSuccess, func(ctx context.Context) error {
		_, cr, g, derr := o.loadForMutation(ctx, gameID, expectedLockVersion)
		if derr != nil {
			return derr
		}
		totalsBefore, derr := o.rounds.LatestTotals(ctx, gameID)
		if derr != nil {
			return derr
		}
		rows, _, derr := domain.ScoreRound(cr.round, totalsBefore)
		if derr != nil {
			return derr
		}
		for _, sr := range rows {
			row := &store.RoundScoreRow{
				RoundID: cr.row.ID, Seat: sr.Seat, Bid: sr.Bid, TricksWon: sr.TricksWon,
				BidMet: sr.BidMet, BaseScore: sr.BaseScore, Bonus: sr.Bonus,
				RoundScore: sr.RoundScore, TotalScoreAfter: sr.TotalScoreAfter,
			}
			if derr := o.rounds.CreateRoundScore(ctx, row); derr != nil {
				return derr
			}
		}
		if derr := o.rounds.MarkRoundCompleted(ctx, cr.row.ID, roundCompletedNow()); derr != nil {
			return derr
		}

		domain.SyncGamePhaseFromRound(g, cr.round)
		updated, derr := o.games.CompareAndSwap(ctx, gameID, expectedLockVersion, gameDeltas(g))
		if derr != nil {
			return derr
		}
		if g.Phase == domain.PhaseGameOver {
			o.evict(gameID)
		}
		result = updated
		return nil
	})
	return o.finish(ctx, gameID, result, txErr)
}

// Advance transitions a Game from Complete to Bidding of round+1 by
// dealing the next round; it is the same underlying operation as the
// round-1 deal triggered by ready/auto-start, just addressed at
// current_round+1 instead of round 1.
func (o *Orchestrator) Advance(ctx context.Context, gameID uint64, expectedLockVersion int64) (*store.GameRow, *domain.Error) {
	row, derr := o.games.Load(ctx, gameID)
	if derr != nil {
		return nil, derr
	}
	next := 1
	if row.CurrentRound != nil {
		next = *row.CurrentRound + 1
	}
	return o.DealRound(ctx, gameID, expectedLockVersion, next)
}

// loadForMutation is the common preamble every in-round command shares:
// load the Game row, check its optimistic lock, and load or rebuild the
// cached RoundState for its current round.
func (o *Orchestrator) loadForMutation(ctx context.Context, gameID uint64, expectedLockVersion int64) (*store.GameRow, *cachedRound, *domain.Game, *domain.Error) {
	row, derr := o.games.Load(ctx, gameID)
	if derr != nil {
		return nil, nil, nil, derr
	}
	if row.LockVersion != expectedLockVersion {
		return nil, nil, nil, domain.ErrOptimisticLock(expectedLockVersion, row.LockVersion)
	}
	cr, derr := o.loadRound(ctx, gameID, row)
	if derr != nil {
		return nil, nil, nil, derr
	}
	return row, cr, gameFromRow(row), nil
}

// finish converts a transaction's error (if any) to a *domain.Error,
// broadcasts the new version to the game's subscribers on success, and -
// unless this call is itself part of an in-flight AI drive - runs the AI
// driver to let any AI seats now on turn take their moves before
// returning to the caller.
func (o *Orchestrator) finish(ctx context.Context, gameID uint64, result *store.GameRow, txErr error) (*store.GameRow, *domain.Error) {
	if derr := asDomainError(txErr); derr != nil {
		return nil, derr
	}
	o.bcast.BroadcastGameState(gameID, int32(result.LockVersion))
	if isAIDrive(ctx) {
		return result, nil
	}
	final, derr := o.driveAI(withAIDrive(ctx), gameID, result)
	if derr != nil {
		return nil, derr
	}
	o.notifyIfHumanTurn(ctx, gameID, final)
	return final, nil
}

// notifyIfHumanTurn sends a your_turn notice to the seat now on turn, if
// the round is still in an action phase and that seat isn't AI-controlled
// (driveAI would already have played it otherwise).
func (o *Orchestrator) notifyIfHumanTurn(ctx context.Context, gameID uint64, row *store.GameRow) {
	g := gameFromRow(row)
	if g.Phase != domain.PhaseBidding && g.Phase != domain.PhaseTrumpSelect && g.Phase != domain.PhaseTrick {
		return
	}
	cr, derr := o.loadRound(ctx, gameID, row)
	if derr != nil {
		return
	}
	o.bcast.NotifyTurn(gameID, int32(row.LockVersion), cr.round.Turn)
}
