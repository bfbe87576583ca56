package service

import (
	"context"

	"nommie/internal/domain"
	"nommie/internal/store"
)

// SetReady flips seat's ready flag and, if every one of the game's four
// memberships is now ready, deals round 1 atomically in the same
// transaction. AI seats are created already ready (see AddAISeat), so a
// human confirming the last open seat is what typically triggers this.
func (o *Orchestrator) SetReady(ctx context.Context, gameID uint64, seat int, ready bool) (*store.GameRow, *domain.Error) {
	var result *store.GameRow
	txErr := o.db.WithinTransaction(ctx, store.CommitOnSuccess, func(ctx context.Context) error {
		if derr := o.memberships.SetReady(ctx, gameID, seat, ready); derr != nil {
			return derr
		}
		row, derr := o.games.Load(ctx, gameID)
		if derr != nil {
			return derr
		}
		g := gameFromRow(row)
		rows, derr := o.memberships.ListByGame(ctx, gameID)
		if derr != nil {
			return derr
		}
		allReady := len(rows) == domain.SeatCount
		for _, m := range rows {
			if !m.IsReady {
				allReady = false
				break
			}
		}
		if !domain.ReadyToDealRound1(allReady, g.Phase) {
			result = row
			return nil
		}
		dealt, derr := o.dealRoundTx(ctx, row, row.LockVersion, 1)
		if derr != nil {
			return derr
		}
		result = dealt
		return nil
	})
	return o.finish(ctx, gameID, result, txErr)
}

// AddAISeat seats an AI-controlled membership at seat, already ready (AI
// seats count as ready by default). profileUserID is the synthetic user
// id the membership is recorded under.
func (o *Orchestrator) AddAISeat(ctx context.Context, gameID uint64, seat int, profileUserID uint64, profile store.AiProfileRow) (*store.GameRow, *domain.Error) {
	var result *store.GameRow
	txErr := o.db.WithinTransaction(ctx, store.CommitOnSuccess, func(ctx context.Context) error {
		if derr := o.createAIProfile(ctx, &profile); derr != nil {
			return derr
		}
		m := &store.MembershipRow{GameID: gameID, UserID: profileUserID, TurnOrder: seat, IsReady: true, Role: "player", AiProfileID: &profile.ID}
		if derr := o.memberships.Create(ctx, m); derr != nil {
			return derr
		}
		row, derr := o.games.Load(ctx, gameID)
		if derr != nil {
			return derr
		}
		result = row
		return nil
	})
	return o.finish(ctx, gameID, result, txErr)
}

func (o *Orchestrator) createAIProfile(ctx context.Context, profile *store.AiProfileRow) *domain.Error {
	tx := store.TxFromContext(ctx)
	if err := tx.DB().WithContext(ctx).Create(profile).Error; err != nil {
		return store.ClassifyWriteError(err)
	}
	return nil
}
