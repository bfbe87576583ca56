package service

import (
	"context"

	"nommie/internal/ai"
	"nommie/internal/cards"
	"nommie/internal/domain"
	"nommie/internal/rng"
	"nommie/internal/store"
)

// driveAI runs the cooperative loop described in the orchestration
// design: whenever a command leaves turn on an AI seat, it keeps invoking
// that seat's engine and dispatching the resulting command until turn
// moves to a human seat, the round leaves its action phases, or
// o.maxAIIterations is hit — a defensive limit against a logic bug
// leaving turn stuck on an AI seat forever, not a figure expected to be
// reached in play (26 rounds x 13 tricks x 4 seats is already below the
// default). It is invoked automatically after every successful command
// (see finish), never directly by callers.
func (o *Orchestrator) driveAI(ctx context.Context, gameID uint64, row *store.GameRow) (*store.GameRow, *domain.Error) {
	for i := 0; i < o.maxAIIterations; i++ {
		g := gameFromRow(row)
		if g.Phase != domain.PhaseBidding && g.Phase != domain.PhaseTrumpSelect && g.Phase != domain.PhaseTrick {
			return row, nil
		}

		members, derr := o.memberships.ListByGame(ctx, gameID)
		if derr != nil {
			return nil, derr
		}
		cr, derr := o.loadRound(ctx, gameID, row)
		if derr != nil {
			return nil, derr
		}
		seatTurn := cr.round.Turn
		member := aiProfileForSeat(members, seatTurn)
		if member == nil {
			return row, nil // human seat on turn
		}
		profile, derr := o.memberships.AiProfile(ctx, *member.AiProfileID)
		if derr != nil {
			return nil, derr
		}

		memorySeed := rng.MemorySeed(o.gameSeed(ctx, gameID, row.Seed), uint8(cr.round.RoundNo), uint8(seatTurn))
		player, err := o.ai.Build(ai.Config{
			EngineKind:    profile.EngineKind,
			EngineVersion: profile.EngineVersion,
			MemoryLevel:   profile.MemoryLevel,
			Seed:          memorySeed,
		})
		if err != nil {
			return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
		}
		memory := ai.DegradeMemory(cr.round.CompletedTricks, profile.MemoryLevel, memorySeed)

		gameCtx := ai.GameContext{RoundNo: cr.round.RoundNo, HandSize: cr.round.HandSize, DealerSeat: cr.round.DealerSeat}

		var next *store.GameRow
		switch g.Phase {
		case domain.PhaseBidding:
			legal, derr := domain.LegalBids(cr.round, seatTurn, false)
			if derr != nil {
				return nil, derr
			}
			value, err := player.ChooseBid(ai.View{Seat: seatTurn, Round: cr.round, Hand: cr.round.Hands[seatTurn], LegalBids: legal, Memory: memory}, gameCtx)
			if err != nil {
				return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
			}
			next, derr = o.SubmitBid(ctx, gameID, row.LockVersion, seatTurn, value)
			if derr != nil {
				return nil, derr
			}
		case domain.PhaseTrumpSelect:
			legal, derr := domain.LegalTrumps(cr.round, seatTurn)
			if derr != nil {
				return nil, derr
			}
			trump, err := player.ChooseTrump(ai.View{Seat: seatTurn, Round: cr.round, Hand: cr.round.Hands[seatTurn], LegalTrumps: legal, Memory: memory}, gameCtx)
			if err != nil {
				return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
			}
			next, derr = o.SetTrump(ctx, gameID, row.LockVersion, seatTurn, trump)
			if derr != nil {
				return nil, derr
			}
		case domain.PhaseTrick:
			legal, derr := domain.LegalPlays(cr.round, seatTurn)
			if derr != nil {
				return nil, derr
			}
			card, err := player.ChoosePlay(ai.View{Seat: seatTurn, Round: cr.round, Hand: remainingHandFor(cr.round, seatTurn), LegalPlays: legal, Memory: memory}, gameCtx)
			if err != nil {
				return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
			}
			next, derr = o.PlayCard(ctx, gameID, row.LockVersion, seatTurn, card)
			if derr != nil {
				return nil, derr
			}
		}
		row = next
	}
	return row, nil
}

func aiProfileForSeat(members []store.MembershipRow, seat int) *store.MembershipRow {
	for i := range members {
		if members[i].TurnOrder == seat && members[i].AiProfileID != nil {
			return &members[i]
		}
	}
	return nil
}

func remainingHandFor(rs *domain.RoundState, seat int) []cards.Card {
	played := make(map[cards.Card]bool, len(rs.Played[seat]))
	for _, c := range rs.Played[seat] {
		played[c] = true
	}
	out := make([]cards.Card, 0, len(rs.Hands[seat]))
	for _, c := range rs.Hands[seat] {
		if !played[c] {
			out = append(out, c)
		}
	}
	return out
}
