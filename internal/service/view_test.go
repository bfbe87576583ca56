package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"nommie/internal/cards"
	"nommie/internal/domain"
)

func TestFillPublicFromRoundCopiesSharedFields(t *testing.T) {
	trump := cards.TrumpSuit(cards.Hearts)
	rs := &domain.RoundState{
		RoundNo:    3,
		HandSize:   11,
		DealerSeat: 1,
		Trump:      &trump,
		Bids:       []domain.Bid{{Seat: 2, Value: 4, Order: 0}},
		Turn:       3,
		Leader:     2,
		TrickNo:    1,
		Phase:      domain.PhaseTrick,
		CurrentTrick: []domain.Play{
			{Seat: 2, Card: cards.Card{Rank: cards.Ace, Suit: cards.Hearts}},
		},
		CompletedTricks: []domain.TrickResult{
			{
				TrickNo:  0,
				LeadSuit: cards.Clubs,
				Winner:   1,
				Plays:    []domain.Play{{Seat: 1, Card: cards.Card{Rank: cards.King, Suit: cards.Clubs}}},
			},
		},
	}

	view := fillPublicFromRound(publicGameView{Phase: "trick"}, rs, false)

	require.Equal(t, 3, view.RoundNo)
	require.Equal(t, 11, view.HandSize)
	require.Equal(t, 1, view.DealerSeat)
	require.NotNil(t, view.Trump)
	require.Equal(t, trump.String(), *view.Trump)
	require.Equal(t, []publicBidView{{Seat: 2, Value: 4}}, view.Bids)
	require.NotNil(t, view.ToAct)
	require.Equal(t, 3, *view.ToAct)
	require.Len(t, view.CurrentTrick, 1)
	require.NotNil(t, view.LastTrick)
	require.Equal(t, 1, view.LastTrick.WinnerSeat)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"trump":"HEARTS"`)
}

func TestFillPublicFromRoundOmitsTrumpBeforeSelection(t *testing.T) {
	rs := &domain.RoundState{RoundNo: 1, HandSize: 13, DealerSeat: 0, Turn: 1, Phase: domain.PhaseBidding}
	view := fillPublicFromRound(publicGameView{}, rs, false)
	require.Nil(t, view.Trump)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	require.NotContains(t, string(raw), `"trump"`)
}

func TestFillPublicFromRoundBiddingSetsMinMaxBid(t *testing.T) {
	rs := &domain.RoundState{RoundNo: 2, HandSize: 5, DealerSeat: 3, Turn: 0, Phase: domain.PhaseBidding}
	view := fillPublicFromRound(publicGameView{}, rs, false)
	require.NotNil(t, view.ToAct)
	require.Equal(t, 0, *view.ToAct)
	require.NotNil(t, view.MinBid)
	require.NotNil(t, view.MaxBid)
	require.Equal(t, 0, *view.MinBid)
	require.Equal(t, 5, *view.MaxBid)
}

func TestFillPublicFromRoundBiddingExcludesZeroWhenStreakApplies(t *testing.T) {
	rs := &domain.RoundState{RoundNo: 4, HandSize: 5, DealerSeat: 3, Turn: 0, Phase: domain.PhaseBidding}
	view := fillPublicFromRound(publicGameView{}, rs, true)
	require.NotNil(t, view.MinBid)
	require.Equal(t, 1, *view.MinBid)
}

func TestFillPublicFromRoundTrumpSelectListsAllowedTrumps(t *testing.T) {
	rs := &domain.RoundState{RoundNo: 1, HandSize: 13, DealerSeat: 0, Turn: 1, Phase: domain.PhaseTrumpSelect}
	view := fillPublicFromRound(publicGameView{}, rs, false)
	require.NotNil(t, view.ToAct)
	require.Equal(t, 1, *view.ToAct)
	require.Len(t, view.AllowedTrumps, 5)
}

func TestRemainingHandForExcludesPlayedCards(t *testing.T) {
	ace := cards.Card{Rank: cards.Ace, Suit: cards.Spades}
	king := cards.Card{Rank: cards.King, Suit: cards.Spades}
	queen := cards.Card{Rank: cards.Queen, Suit: cards.Hearts}

	rs := &domain.RoundState{}
	rs.Hands[2] = []cards.Card{ace, king, queen}
	rs.Played[2] = []cards.Card{king}

	remaining := remainingHandFor(rs, 2)
	require.Equal(t, []cards.Card{ace, queen}, remaining)
}

func TestRemainingHandForEmptySeat(t *testing.T) {
	rs := &domain.RoundState{}
	remaining := remainingHandFor(rs, 0)
	require.Empty(t, remaining)
}
