package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nommie/internal/cards"
)

func requireOK(t *testing.T, err *Error) {
	t.Helper()
	require.Nil(t, err)
}

func fourHandsOfSize(n int) [SeatCount][]cards.Card {
	deck := cards.FullDeck()
	var hands [SeatCount][]cards.Card
	for seat := 0; seat < SeatCount; seat++ {
		hands[seat] = append([]cards.Card(nil), deck[seat*n:(seat+1)*n]...)
	}
	return hands
}

func TestDealerSumRuleRejectsExactMatch(t *testing.T) {
	// Scenario C: hand_size=13, dealer=seat0. seat1=5, seat2=4, seat3=3.
	// Dealer seat0 bid=1 rejected (sum would be 13); bid=0 accepted.
	rs := NewRound(1, 13, 0, fourHandsOfSize(13))
	requireOK(t,SubmitBid(rs, 1, 5, false))
	requireOK(t,SubmitBid(rs, 2, 4, false))
	requireOK(t,SubmitBid(rs, 3, 3, false))

	legal, err := LegalBids(rs, 0, false)
	require.Nil(t, err)
	for _, v := range legal {
		require.NotEqual(t, 1, v)
	}

	rejectErr := SubmitBid(rs, 0, 1, false)
	require.NotNil(t, rejectErr)
	require.Equal(t, CodeInvalidBid, rejectErr.Code)

	require.Nil(t, SubmitBid(rs, 0, 0, false))
	require.Equal(t, PhaseTrumpSelect, rs.Phase)
}

func TestConsecutiveZeroRuleRejectsBid(t *testing.T) {
	rs := NewRound(4, 10, 0, fourHandsOfSize(10))
	_, err := LegalBids(rs, 1, true)
	require.Nil(t, err)

	legal, _ := LegalBids(rs, 1, true)
	for _, v := range legal {
		require.NotEqual(t, 0, v)
	}

	rs.Turn = 1
	rejectErr := SubmitBid(rs, 1, 0, true)
	require.NotNil(t, rejectErr)
}

func TestScoringExactBid(t *testing.T) {
	// Scenario E: bids=[3,2,4,1], tricks=[3,2,7,1] -> round scores [13,12,7,11].
	rs := NewRound(1, 13, 0, fourHandsOfSize(13))
	rs.Bids = []Bid{{Seat: 0, Value: 3, Order: 0}, {Seat: 1, Value: 2, Order: 1}, {Seat: 2, Value: 4, Order: 2}, {Seat: 3, Value: 1, Order: 3}}
	rs.Phase = PhaseScoring
	tricksWon := [4]int{3, 2, 7, 1}
	for seat, n := range tricksWon {
		for i := 0; i < n; i++ {
			rs.CompletedTricks = append(rs.CompletedTricks, TrickResult{Winner: seat})
		}
	}

	rows, totals, err := ScoreRound(rs, [4]int{})
	require.Nil(t, err)
	require.Equal(t, 13, rows[0].RoundScore)
	require.Equal(t, 12, rows[1].RoundScore)
	require.Equal(t, 7, rows[2].RoundScore)
	require.Equal(t, 11, rows[3].RoundScore)
	require.Equal(t, [4]int{13, 12, 7, 11}, totals)
	require.Equal(t, PhaseComplete, rs.Phase)
}

func TestScoringIsIdempotent(t *testing.T) {
	rs := NewRound(1, 4, 0, fourHandsOfSize(4))
	rs.Bids = []Bid{{Seat: 0, Value: 1}, {Seat: 1, Value: 1}, {Seat: 2, Value: 1}, {Seat: 3, Value: 1}}
	rs.Phase = PhaseScoring
	for seat := 0; seat < 4; seat++ {
		rs.CompletedTricks = append(rs.CompletedTricks, TrickResult{Winner: seat})
	}
	_, totals1, err := ScoreRound(rs, [4]int{})
	require.Nil(t, err)
	require.Equal(t, PhaseComplete, rs.Phase)

	rows2, totals2, err2 := ScoreRound(rs, totals1)
	require.Nil(t, err2)
	require.Equal(t, totals1, totals2)
	require.Equal(t, [4]RoundScoreRow{}, rows2)
	require.Equal(t, PhaseComplete, rs.Phase)
}

func TestScoringDataCorruptionOnBadTrickSum(t *testing.T) {
	rs := NewRound(1, 13, 0, fourHandsOfSize(13))
	rs.Bids = []Bid{{Seat: 0}, {Seat: 1}, {Seat: 2}, {Seat: 3}}
	rs.Phase = PhaseScoring
	rs.CompletedTricks = []TrickResult{{Winner: 0}} // only 1, not 13
	_, _, err := ScoreRound(rs, [4]int{})
	require.NotNil(t, err)
	require.Equal(t, KindInfra, err.Kind)
}

func TestGameCompletionAfterRound26(t *testing.T) {
	rs := NewRound(26, 13, 0, fourHandsOfSize(13))
	rs.Bids = []Bid{{Seat: 0, Value: 13}, {Seat: 1}, {Seat: 2}, {Seat: 3}}
	rs.Phase = PhaseScoring
	for i := 0; i < 13; i++ {
		rs.CompletedTricks = append(rs.CompletedTricks, TrickResult{Winner: 0})
	}
	_, _, err := ScoreRound(rs, [4]int{})
	require.Nil(t, err)
	require.Equal(t, PhaseGameOver, rs.Phase)
}

func TestFollowSuitLegality(t *testing.T) {
	rs := NewRound(1, 13, 0, fourHandsOfSize(13))
	rs.Phase = PhaseTrick
	rs.Trump = trumpPtr(cards.TrumpSuit(cards.Spades))
	rs.Turn = 0
	rs.Leader = 0
	rs.Hands[0] = []cards.Card{{Rank: cards.Two, Suit: cards.Hearts}, {Rank: cards.Three, Suit: cards.Clubs}}
	rs.Hands[1] = []cards.Card{{Rank: cards.Four, Suit: cards.Hearts}}

	require.Nil(t, PlayCard(rs, 0, cards.Card{Rank: cards.Two, Suit: cards.Hearts}))
	require.Equal(t, 1, rs.Turn)

	legal, err := LegalPlays(rs, 1)
	require.Nil(t, err)
	require.Equal(t, []cards.Card{{Rank: cards.Four, Suit: cards.Hearts}}, legal)
}

func TestPlayOutOfHandRejected(t *testing.T) {
	rs := NewRound(1, 13, 0, fourHandsOfSize(13))
	rs.Phase = PhaseTrick
	rs.Trump = trumpPtr(cards.NoTrump)
	rs.Turn = 0
	rs.Hands[0] = []cards.Card{{Rank: cards.Two, Suit: cards.Hearts}}
	err := PlayCard(rs, 0, cards.Card{Rank: cards.Ace, Suit: cards.Spades})
	require.NotNil(t, err)
	require.Equal(t, CodeCardNotInHand, err.Code)
}

func trumpPtr(t cards.Trump) *cards.Trump { return &t }
