package store

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"nommie/internal/cards"
	"nommie/internal/domain"
)

// RoundRepo appends the round-scoped entities: Round, Hand, Bid, Trick,
// Play, RoundScore. All are append-only in the common case; duplicate-key
// violations are classified into Conflict(Other) (or a more specific code)
// by ClassifyWriteError.
type RoundRepo struct{}

func NewRoundRepo() *RoundRepo { return &RoundRepo{} }

func (r *RoundRepo) CreateRound(ctx context.Context, row *RoundRow) *domain.Error {
	return r.insert(ctx, row)
}

func (r *RoundRepo) CreateHand(ctx context.Context, roundID uint64, seat int, hand []cards.Card) *domain.Error {
	raw, err := marshalHand(hand)
	if err != nil {
		return &domain.Error{Kind: domain.KindInfra, Code: domain.CodeDataCorruption, Message: err.Error()}
	}
	return r.insert(ctx, &HandRow{RoundID: roundID, Seat: seat, CardsRaw: raw})
}

func (r *RoundRepo) CreateBid(ctx context.Context, row *BidRow) *domain.Error {
	return r.insert(ctx, row)
}

// SetTrump records the bid winner's trump choice on a round in progress.
func (r *RoundRepo) SetTrump(ctx context.Context, roundID uint64, trumpName string) *domain.Error {
	tx := TxFromContext(ctx)
	if err := tx.DB().WithContext(ctx).Model(&RoundRow{}).Where("id = ?", roundID).Update("trump", trumpName).Error; err != nil {
		return &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	return nil
}

func (r *RoundRepo) CreateTrickWithPlays(ctx context.Context, trick *TrickRow, plays []*PlayRow) *domain.Error {
	tx := TxFromContext(ctx)
	err := tx.DB().WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.Create(trick).Error; err != nil {
			return err
		}
		for _, p := range plays {
			p.TrickID = trick.ID
			if err := inner.Create(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if de := ClassifyWriteError(err); de != nil {
			return de
		}
		return &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	return nil
}

func (r *RoundRepo) CreatePlay(ctx context.Context, trickID uint64, seat int, c cards.Card, order int) *domain.Error {
	raw, err := c.MarshalVerbose()
	if err != nil {
		return &domain.Error{Kind: domain.KindInfra, Code: domain.CodeDataCorruption, Message: err.Error()}
	}
	return r.insert(ctx, &PlayRow{TrickID: trickID, Seat: seat, CardRaw: raw, PlayOrder: order})
}

func (r *RoundRepo) CreateRoundScore(ctx context.Context, row *RoundScoreRow) *domain.Error {
	return r.insert(ctx, row)
}

func (r *RoundRepo) MarkRoundCompleted(ctx context.Context, roundID uint64, completedAt any) *domain.Error {
	tx := TxFromContext(ctx)
	if err := tx.DB().WithContext(ctx).Model(&RoundRow{}).Where("id = ?", roundID).Update("completed_at", completedAt).Error; err != nil {
		return &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	return nil
}

// LastThreeBids returns a seat's bid values for its three immediately
// preceding rounds, oldest first, used by the consecutive-zero rule.
func (r *RoundRepo) LastThreeBids(ctx context.Context, gameID uint64, seat int, beforeRoundNo int) ([]int, *domain.Error) {
	tx := TxFromContext(ctx)
	var rounds []RoundRow
	err := tx.DB().WithContext(ctx).
		Where("game_id = ? AND round_no < ?", gameID, beforeRoundNo).
		Order("round_no DESC").
		Limit(3).
		Find(&rounds).Error
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	if len(rounds) == 0 {
		return nil, nil
	}
	roundIDs := make([]uint64, len(rounds))
	for i, rr := range rounds {
		roundIDs[i] = rr.ID
	}
	var bids []BidRow
	err = tx.DB().WithContext(ctx).Where("round_id IN ? AND seat = ?", roundIDs, seat).Find(&bids).Error
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	byRound := make(map[uint64]int, len(bids))
	for _, b := range bids {
		byRound[b.RoundID] = b.BidValue
	}
	// oldest first
	out := make([]int, 0, len(rounds))
	for i := len(rounds) - 1; i >= 0; i-- {
		out = append(out, byRound[rounds[i].ID])
	}
	return out, nil
}

// LatestTotals returns each seat's cumulative score entering the next
// round: the TotalScoreAfter of the most recently scored round, or zero
// for a game that has not completed a round yet.
func (r *RoundRepo) LatestTotals(ctx context.Context, gameID uint64) ([domain.SeatCount]int, *domain.Error) {
	tx := TxFromContext(ctx)
	var latest RoundRow
	err := tx.DB().WithContext(ctx).
		Where("game_id = ? AND completed_at IS NOT NULL", gameID).
		Order("round_no DESC").
		First(&latest).Error
	if err == gorm.ErrRecordNotFound {
		return [domain.SeatCount]int{}, nil
	}
	if err != nil {
		return [domain.SeatCount]int{}, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	var rows []RoundScoreRow
	if err := tx.DB().WithContext(ctx).Where("round_id = ?", latest.ID).Find(&rows).Error; err != nil {
		return [domain.SeatCount]int{}, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	var totals [domain.SeatCount]int
	for _, row := range rows {
		totals[row.Seat] = row.TotalScoreAfter
	}
	return totals, nil
}

// LoadRoundByNo fetches a game's round row by its 1-based round number.
func (r *RoundRepo) LoadRoundByNo(ctx context.Context, gameID uint64, roundNo int) (*RoundRow, *domain.Error) {
	tx := TxFromContext(ctx)
	var row RoundRow
	err := tx.DB().WithContext(ctx).First(&row, "game_id = ? AND round_no = ?", gameID, roundNo).Error
	if err == gorm.ErrRecordNotFound {
		return nil, &domain.Error{Kind: domain.KindNotFound, Code: domain.CodeNotFoundRound, Message: "round not found"}
	}
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	return &row, nil
}

// LoadHands returns the dealt hand of record for every seat in a round,
// indexed by seat.
func (r *RoundRepo) LoadHands(ctx context.Context, roundID uint64) ([domain.SeatCount][]cards.Card, *domain.Error) {
	tx := TxFromContext(ctx)
	var rows []HandRow
	if err := tx.DB().WithContext(ctx).Where("round_id = ?", roundID).Find(&rows).Error; err != nil {
		return [domain.SeatCount][]cards.Card{}, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	var out [domain.SeatCount][]cards.Card
	for _, hr := range rows {
		hand, err := unmarshalHand(hr.CardsRaw)
		if err != nil {
			return [domain.SeatCount][]cards.Card{}, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeDataCorruption, Message: err.Error()}
		}
		out[hr.Seat] = hand
	}
	return out, nil
}

// LoadBids returns a round's bids in placement order.
func (r *RoundRepo) LoadBids(ctx context.Context, roundID uint64) ([]domain.Bid, *domain.Error) {
	tx := TxFromContext(ctx)
	var rows []BidRow
	if err := tx.DB().WithContext(ctx).Where("round_id = ?", roundID).Order("bid_order ASC").Find(&rows).Error; err != nil {
		return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	out := make([]domain.Bid, len(rows))
	for i, br := range rows {
		out[i] = domain.Bid{Seat: br.Seat, Value: br.BidValue, Order: br.BidOrder}
	}
	return out, nil
}

// LoadTricks returns a round's completed tricks with their plays, in trick
// order.
func (r *RoundRepo) LoadTricks(ctx context.Context, roundID uint64) ([]domain.TrickResult, *domain.Error) {
	tx := TxFromContext(ctx)
	var trickRows []TrickRow
	if err := tx.DB().WithContext(ctx).Where("round_id = ?", roundID).Order("trick_no ASC").Find(&trickRows).Error; err != nil {
		return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	out := make([]domain.TrickResult, len(trickRows))
	for i, tr := range trickRows {
		var playRows []PlayRow
		if err := tx.DB().WithContext(ctx).Where("trick_id = ?", tr.ID).Order("play_order ASC").Find(&playRows).Error; err != nil {
			return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
		}
		plays := make([]domain.Play, len(playRows))
		var leadSuit cards.Suit
		for j, pr := range playRows {
			var c cards.Card
			if err := c.UnmarshalVerbose(pr.CardRaw); err != nil {
				return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeDataCorruption, Message: err.Error()}
			}
			if j == 0 {
				leadSuit = c.Suit
			}
			plays[j] = domain.Play{Seat: pr.Seat, Card: c}
		}
		out[i] = domain.TrickResult{TrickNo: tr.TrickNo, LeadSuit: leadSuit, Winner: tr.WinnerSeat, Plays: plays}
	}
	return out, nil
}

// RoundSummary is a completed round's schedule facts and final scores, for
// the Bidding-phase previous_round carryover the next round's view shows
// while the Scoring-phase screen has already scrolled past.
type RoundSummary struct {
	RoundNo  int
	HandSize int
	Trump    *string
	Scores   []RoundScoreRow
}

// PreviousRoundSummary loads the round immediately before roundNo, if it has
// completed. ok is false for round 1 (nothing precedes it) or if the prior
// round's completion hasn't been persisted yet.
func (r *RoundRepo) PreviousRoundSummary(ctx context.Context, gameID uint64, roundNo int) (*RoundSummary, bool, *domain.Error) {
	if roundNo <= 1 {
		return nil, false, nil
	}
	tx := TxFromContext(ctx)
	var row RoundRow
	err := tx.DB().WithContext(ctx).
		Where("game_id = ? AND round_no = ? AND completed_at IS NOT NULL", gameID, roundNo-1).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	var scores []RoundScoreRow
	if err := tx.DB().WithContext(ctx).Where("round_id = ?", row.ID).Order("seat ASC").Find(&scores).Error; err != nil {
		return nil, false, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	return &RoundSummary{RoundNo: row.RoundNo, HandSize: row.HandSize, Trump: row.Trump, Scores: scores}, true, nil
}

func (r *RoundRepo) insert(ctx context.Context, row any) *domain.Error {
	tx := TxFromContext(ctx)
	if err := tx.DB().WithContext(ctx).Create(row).Error; err != nil {
		if de := ClassifyWriteError(err); de != nil {
			return de
		}
		return &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	return nil
}

func marshalHand(hand []cards.Card) ([]byte, error) {
	type verbose struct {
		Suit string `json:"suit"`
		Rank string `json:"rank"`
	}
	out := make([]verbose, len(hand))
	for i, c := range hand {
		out[i] = verbose{Suit: c.Suit.String(), Rank: c.Rank.String()}
	}
	return json.Marshal(out)
}

func unmarshalHand(raw []byte) ([]cards.Card, error) {
	type verbose struct {
		Suit string `json:"suit"`
		Rank string `json:"rank"`
	}
	var stored []verbose
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	out := make([]cards.Card, len(stored))
	for i, sc := range stored {
		body, err := json.Marshal(sc)
		if err != nil {
			return nil, err
		}
		var c cards.Card
		if err := c.UnmarshalVerbose(body); err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}
