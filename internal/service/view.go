package service

import (
	"context"
	"encoding/json"

	"nommie/internal/cards"
	"nommie/internal/domain"
	"nommie/internal/store"
)

// publicBidView and publicTrickView are the seat-independent parts of a
// round rendered for the wire; they hide nothing, so every subscriber to a
// game's topic receives the identical bytes for these fields.
type publicBidView struct {
	Seat  int `json:"seat"`
	Value int `json:"value"`
}

type publicPlayView struct {
	Seat int        `json:"seat"`
	Card cards.Card `json:"card"`
}

type publicTrickView struct {
	TrickNo    int              `json:"trick_no"`
	LeadSuit   string           `json:"lead_suit"`
	WinnerSeat int              `json:"winner_seat"`
	Plays      []publicPlayView `json:"plays"`
}

// publicRoundScoreView is one seat's score line, used both for the
// just-finished round shown during Scoring and for the previous round
// carried into the next round's Bidding view.
type publicRoundScoreView struct {
	Seat            int  `json:"seat"`
	Bid             int  `json:"bid"`
	TricksWon       int  `json:"tricks_won"`
	BidMet          bool `json:"bid_met"`
	RoundScore      int  `json:"round_score"`
	TotalScoreAfter int  `json:"total_score_after"`
}

// previousRoundView is the Bidding-phase previous_round carryover: the hand
// size, trump, and final scores of the round just completed.
type previousRoundView struct {
	RoundNo     int                    `json:"round_no"`
	HandSize    int                    `json:"hand_size"`
	Trump       *string                `json:"trump,omitempty"`
	RoundScores []publicRoundScoreView `json:"round_scores"`
}

// publicGameView is the Game field of a game_state frame: everything about
// the match that is visible regardless of who is asking. Fields only make
// sense for some phases; those are pointer or slice types marked omitempty
// so the wire shape tracks which phase produced them without a separate Go
// type per phase.
type publicGameView struct {
	Phase              string                   `json:"phase"`
	RoundNo            int                      `json:"round_no"`
	HandSize           int                      `json:"hand_size"`
	DealerSeat         int                      `json:"dealer_seat"`
	StartingDealerSeat int                      `json:"starting_dealer_seat"`
	Seating            [domain.SeatCount]int64  `json:"seating"`
	HostSeat           int                      `json:"host_seat"`
	ScoresTotal        [domain.SeatCount]int    `json:"scores_total"`
	Version            int32                    `json:"version"`

	Trump *string         `json:"trump,omitempty"`
	Bids  []publicBidView `json:"bids,omitempty"`

	// ToAct, and the legal-range fields beside it, are whichever of these
	// applies to the phase named above: min_bid/max_bid during Bidding,
	// allowed_trumps during TrumpSelect, trick_no/leader/current_trick
	// during Trick.
	ToAct         *int              `json:"to_act,omitempty"`
	MinBid        *int              `json:"min_bid,omitempty"`
	MaxBid        *int              `json:"max_bid,omitempty"`
	AllowedTrumps []string          `json:"allowed_trumps,omitempty"`
	TrickNo       *int              `json:"trick_no,omitempty"`
	Leader        *int              `json:"leader,omitempty"`
	CurrentTrick  []publicPlayView  `json:"current_trick,omitempty"`
	LastTrick     *publicTrickView  `json:"last_trick,omitempty"`

	PreviousRound *previousRoundView     `json:"previous_round,omitempty"`
	RoundScores   []publicRoundScoreView `json:"round_scores,omitempty"`
}

// privateView is the Viewer field: the parts of a snapshot that differ by
// seat, namely a seat's own remaining hand and, when it is that seat's
// turn during the Trick phase, the cards it is legal to play. A spectator
// (no seat) gets an empty hand and no playable cards.
type privateView struct {
	Seat     int          `json:"seat"`
	Hand     []cards.Card `json:"hand"`
	Playable []cards.Card `json:"playable,omitempty"`
}

// PublicView renders the seat-independent view of gameID's current state,
// along with the Game row's lock_version to stamp on the frame.
func (o *Orchestrator) PublicView(ctx context.Context, gameID uint64) (json.RawMessage, int32, *domain.Error) {
	row, derr := o.games.Load(ctx, gameID)
	if derr != nil {
		return nil, 0, derr
	}
	g := gameFromRow(row)
	totals, derr := o.rounds.LatestTotals(ctx, gameID)
	if derr != nil {
		return nil, 0, derr
	}
	members, derr := o.memberships.ListByGame(ctx, gameID)
	if derr != nil {
		return nil, 0, derr
	}
	var seating [domain.SeatCount]int64
	hostSeat := 0
	for _, m := range members {
		seating[m.TurnOrder] = int64(m.UserID)
		if m.UserID == row.CreatorUserID {
			hostSeat = m.TurnOrder
		}
	}
	view := publicGameView{
		Phase:              g.Phase.String(),
		ScoresTotal:        totals,
		StartingDealerSeat: g.StartingDealerSeat,
		Seating:            seating,
		HostSeat:           hostSeat,
		Version:            int32(row.LockVersion),
	}
	if cr, ok := o.cached(gameID); ok {
		view, derr = o.fillPublic(ctx, gameID, view, cr.round, totals)
	} else if row.CurrentRound != nil {
		cr, lerr := o.loadRound(ctx, gameID, row)
		if lerr != nil {
			return nil, 0, lerr
		}
		view, derr = o.fillPublic(ctx, gameID, view, cr.round, totals)
	}
	if derr != nil {
		return nil, 0, derr
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return nil, 0, domain.ErrDataCorruption("marshal public view: %s", err.Error())
	}
	return raw, int32(row.LockVersion), nil
}

// fillPublic adds the round-scoped and database-backed parts of the public
// view that fillPublicFromRound cannot compute on its own: the
// consecutive-zero lookup behind min_bid/max_bid, the just-finished
// round's scores while Scoring is pending commit, and the prior round's
// carryover once bidding has moved on to the next one.
func (o *Orchestrator) fillPublic(ctx context.Context, gameID uint64, view publicGameView, rs *domain.RoundState, totalsBeforeRound [domain.SeatCount]int) (publicGameView, *domain.Error) {
	excludeZero := false
	if rs.Phase == domain.PhaseBidding {
		lastThree, derr := o.rounds.LastThreeBids(ctx, gameID, rs.Turn, rs.RoundNo)
		if derr != nil {
			return view, derr
		}
		excludeZero = domain.ConsecutiveZeroStreak(lastThree)
	}
	view = fillPublicFromRound(view, rs, excludeZero)

	if rs.Phase == domain.PhaseScoring {
		rows, _ := domain.PreviewRoundScores(rs, totalsBeforeRound)
		view.RoundScores = roundScoreViews(rows[:])
	}

	if rs.Phase == domain.PhaseBidding {
		summary, ok, derr := o.rounds.PreviousRoundSummary(ctx, gameID, rs.RoundNo)
		if derr != nil {
			return view, derr
		}
		if ok {
			view.PreviousRound = &previousRoundView{
				RoundNo:     summary.RoundNo,
				HandSize:    summary.HandSize,
				Trump:       summary.Trump,
				RoundScores: storeScoreViews(summary.Scores),
			}
		}
	}
	return view, nil
}

func roundScoreViews(rows []domain.RoundScoreRow) []publicRoundScoreView {
	out := make([]publicRoundScoreView, len(rows))
	for i, row := range rows {
		out[i] = publicRoundScoreView{
			Seat: row.Seat, Bid: row.Bid, TricksWon: row.TricksWon, BidMet: row.BidMet,
			RoundScore: row.RoundScore, TotalScoreAfter: row.TotalScoreAfter,
		}
	}
	return out
}

func storeScoreViews(rows []store.RoundScoreRow) []publicRoundScoreView {
	out := make([]publicRoundScoreView, len(rows))
	for i, row := range rows {
		out[i] = publicRoundScoreView{
			Seat: row.Seat, Bid: row.Bid, TricksWon: row.TricksWon, BidMet: row.BidMet,
			RoundScore: row.RoundScore, TotalScoreAfter: row.TotalScoreAfter,
		}
	}
	return out
}

// fillPublicFromRound copies the round-state fields that need nothing
// beyond rs itself: the shared facts every phase carries, plus whichever
// to-act/legal-range fields belong to rs.Phase. excludeZero is the
// consecutive-zero rule's outcome for the seat to act, needed to compute
// min_bid during Bidding.
func fillPublicFromRound(view publicGameView, rs *domain.RoundState, excludeZero bool) publicGameView {
	view.RoundNo = rs.RoundNo
	view.HandSize = rs.HandSize
	view.DealerSeat = rs.DealerSeat
	if rs.Trump != nil {
		name := rs.Trump.String()
		view.Trump = &name
	}
	if len(rs.Bids) > 0 {
		view.Bids = make([]publicBidView, len(rs.Bids))
		for i, b := range rs.Bids {
			view.Bids[i] = publicBidView{Seat: b.Seat, Value: b.Value}
		}
	}
	if len(rs.CompletedTricks) > 0 {
		last := rs.CompletedTricks[len(rs.CompletedTricks)-1]
		view.LastTrick = &publicTrickView{
			TrickNo: last.TrickNo, LeadSuit: last.LeadSuit.String(), WinnerSeat: last.Winner,
			Plays: playViews(last.Plays),
		}
	}

	switch rs.Phase {
	case domain.PhaseBidding:
		turn := rs.Turn
		view.ToAct = &turn
		if legal, derr := domain.LegalBids(rs, rs.Turn, excludeZero); derr == nil && len(legal) > 0 {
			min, max := legal[0], legal[len(legal)-1]
			view.MinBid = &min
			view.MaxBid = &max
		}
	case domain.PhaseTrumpSelect:
		turn := rs.Turn
		view.ToAct = &turn
		if legal, derr := domain.LegalTrumps(rs, rs.Turn); derr == nil {
			names := make([]string, len(legal))
			for i, tr := range legal {
				names[i] = tr.String()
			}
			view.AllowedTrumps = names
		}
	case domain.PhaseTrick:
		turn := rs.Turn
		view.ToAct = &turn
		trickNo := rs.TrickNo
		view.TrickNo = &trickNo
		leader := rs.Leader
		view.Leader = &leader
		view.CurrentTrick = playViews(rs.CurrentTrick)
	}
	return view
}

func playViews(plays []domain.Play) []publicPlayView {
	out := make([]publicPlayView, len(plays))
	for i, p := range plays {
		out[i] = publicPlayView{Seat: p.Seat, Card: p.Card}
	}
	return out
}

// PrivateView renders seat's remaining hand for gameID's current round,
// plus its legal plays when the Trick phase is waiting on that seat. A
// round not yet in progress (game still in the lobby) yields an empty hand.
func (o *Orchestrator) PrivateView(ctx context.Context, gameID uint64, seat int) (json.RawMessage, *domain.Error) {
	row, derr := o.games.Load(ctx, gameID)
	if derr != nil {
		return nil, derr
	}
	view := privateView{Seat: seat, Hand: []cards.Card{}}
	if row.CurrentRound != nil {
		cr, derr := o.loadRound(ctx, gameID, row)
		if derr != nil {
			return nil, derr
		}
		view.Hand = remainingHandFor(cr.round, seat)
		if cr.round.Phase == domain.PhaseTrick && cr.round.Turn == seat {
			if legal, derr := domain.LegalPlays(cr.round, seat); derr == nil {
				view.Playable = legal
			}
		}
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return nil, domain.ErrDataCorruption("marshal private view: %s", err.Error())
	}
	return raw, nil
}

// SeatForUser reports the turn_order a user occupies in gameID, if any.
func (o *Orchestrator) SeatForUser(ctx context.Context, gameID uint64, userID int64) (int, bool, *domain.Error) {
	rows, derr := o.memberships.ListByGame(ctx, gameID)
	if derr != nil {
		return 0, false, derr
	}
	for _, m := range rows {
		if int64(m.UserID) == userID {
			return m.TurnOrder, true, nil
		}
	}
	return 0, false, nil
}

// RequireMember is SeatForUser with the Forbidden(NOT_A_MEMBER) case spelled
// out, for callers (the realtime layer's subscribe handling) that need to
// reject a non-member outright rather than branch on the ok flag themselves.
func (o *Orchestrator) RequireMember(ctx context.Context, gameID uint64, userID int64) (int, *domain.Error) {
	seat, ok, derr := o.SeatForUser(ctx, gameID, userID)
	if derr != nil {
		return 0, derr
	}
	if !ok {
		return 0, domain.ErrNotAMember(gameID)
	}
	return seat, nil
}
