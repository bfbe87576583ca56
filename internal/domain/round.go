package domain

import "nommie/internal/cards"

// Bid is one seat's bid within a round, in placement order.
type Bid struct {
	Seat  int
	Value int
	Order int
}

// Play is one seat's card within a trick, in play order.
type Play struct {
	Seat int
	Card cards.Card
}

// TrickResult is a completed trick: the lead suit, the winning seat, and the
// four plays in play order.
type TrickResult struct {
	TrickNo  int
	LeadSuit cards.Suit
	Winner   int
	Plays    []Play
}

// RoundState is the pure, in-memory state of one round in progress. It holds
// no reference to storage; the orchestration layer loads it from persisted
// rows and writes deltas back after a successful mutation.
type RoundState struct {
	RoundNo    int
	HandSize   int
	DealerSeat int
	Trump      *cards.Trump

	Hands  [SeatCount][]cards.Card // dealt hand of record, never mutated
	Played [SeatCount][]cards.Card // cards already played this round, in play order

	Bids []Bid

	Phase Phase
	// TrickNo is the 0-based index of the trick in progress (or, once phase
	// has advanced past Trick, the count of tricks completed).
	TrickNo         int
	Leader          int
	Turn            int
	CurrentTrick    []Play
	CompletedTricks []TrickResult
}

// NewRound builds a round in the Bidding phase with turn set to
// (dealer+1) mod 4, per the phase machine.
func NewRound(roundNo, handSize, dealerSeat int, hands [SeatCount][]cards.Card) *RoundState {
	return &RoundState{
		RoundNo:    roundNo,
		HandSize:   handSize,
		DealerSeat: dealerSeat,
		Hands:      hands,
		Phase:      PhaseBidding,
		Turn:       (dealerSeat + 1) % SeatCount,
	}
}

// remainingHand returns the cards a seat still holds: its dealt hand minus
// the cards it has already played this round.
func remainingHand(rs *RoundState, seat int) []cards.Card {
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

// BidWinner returns the seat with the highest bid value, ties broken by
// earliest bid_order.
func BidWinner(bids []Bid) int {
	best := bids[0]
	for _, b := range bids[1:] {
		if b.Value > best.Value {
			best = b
		}
	}
	return best.Seat
}

// LegalBids computes the legal bid values for a seat. excludeZero should be
// true when the seat has bid zero in each of its three immediately
// preceding rounds (the consecutive-zero rule).
func LegalBids(rs *RoundState, seat int, excludeZero bool) ([]int, *Error) {
	if rs.Phase != PhaseBidding {
		return nil, ErrPhaseMismatch(PhaseBidding, rs.Phase)
	}
	if rs.Turn != seat {
		return nil, ErrOutOfTurn(rs.Turn, seat)
	}
	lo := 0
	if excludeZero {
		lo = 1
	}
	isDealerBid := len(rs.Bids) == SeatCount-1
	sumSoFar := 0
	for _, b := range rs.Bids {
		sumSoFar += b.Value
	}
	legal := make([]int, 0, rs.HandSize+1)
	for v := lo; v <= rs.HandSize; v++ {
		if isDealerBid && sumSoFar+v == rs.HandSize {
			continue
		}
		legal = append(legal, v)
	}
	return legal, nil
}

// SubmitBid records a bid for seat and advances the phase machine: after the
// fourth bid, phase becomes TrumpSelect and turn is set to the bid winner.
func SubmitBid(rs *RoundState, seat, value int, excludeZero bool) *Error {
	legal, err := LegalBids(rs, seat, excludeZero)
	if err != nil {
		return err
	}
	ok := false
	for _, v := range legal {
		if v == value {
			ok = true
			break
		}
	}
	if !ok {
		return ErrInvalidBid("bid value is not legal for this seat")
	}
	rs.Bids = append(rs.Bids, Bid{Seat: seat, Value: value, Order: len(rs.Bids)})
	if len(rs.Bids) == SeatCount {
		rs.Phase = PhaseTrumpSelect
		rs.Turn = BidWinner(rs.Bids)
	} else {
		rs.Turn = (seat + 1) % SeatCount
	}
	return nil
}

// LegalTrumps returns the five legal trump selections, valid only for the
// bid winner in TrumpSelect phase.
func LegalTrumps(rs *RoundState, seat int) ([]cards.Trump, *Error) {
	if rs.Phase != PhaseTrumpSelect {
		return nil, ErrPhaseMismatch(PhaseTrumpSelect, rs.Phase)
	}
	if rs.Turn != seat {
		return nil, ErrOutOfTurn(rs.Turn, seat)
	}
	return cards.AllTrumps(), nil
}

// SetTrump records the bid winner's trump choice and advances to Trick{1}
// with leader and turn set to (dealer+1) mod 4.
func SetTrump(rs *RoundState, seat int, trump cards.Trump) *Error {
	if _, err := LegalTrumps(rs, seat); err != nil {
		return err
	}
	rs.Trump = &trump
	rs.Phase = PhaseTrick
	rs.TrickNo = 0
	rs.Leader = (rs.DealerSeat + 1) % SeatCount
	rs.Turn = rs.Leader
	rs.CurrentTrick = nil
	return nil
}

// LegalPlays computes the legal cards a seat may play: if it is the first
// play of the trick, any remaining card; otherwise, cards matching the lead
// suit if the seat holds any, else any remaining card.
func LegalPlays(rs *RoundState, seat int) ([]cards.Card, *Error) {
	if rs.Phase != PhaseTrick {
		return nil, ErrPhaseMismatch(PhaseTrick, rs.Phase)
	}
	if rs.Turn != seat {
		return nil, ErrOutOfTurn(rs.Turn, seat)
	}
	remaining := remainingHand(rs, seat)
	if len(rs.CurrentTrick) == 0 {
		return remaining, nil
	}
	lead := rs.CurrentTrick[0].Card.Suit
	var followers []cards.Card
	for _, c := range remaining {
		if c.Suit == lead {
			followers = append(followers, c)
		}
	}
	if len(followers) > 0 {
		return followers, nil
	}
	return remaining, nil
}

// PlayCard records a play, resolves the trick on the fourth play, and
// advances to Scoring once the final trick of the round is resolved.
func PlayCard(rs *RoundState, seat int, c cards.Card) *Error {
	legal, err := LegalPlays(rs, seat)
	if err != nil {
		return err
	}
	ok := false
	for _, lc := range legal {
		if lc == c {
			ok = true
			break
		}
	}
	if !ok {
		// Distinguish "not in hand at all" from "in hand but must follow suit".
		for _, hc := range remainingHand(rs, seat) {
			if hc == c {
				return ErrMustFollowSuit()
			}
		}
		return ErrCardNotInHand()
	}

	rs.CurrentTrick = append(rs.CurrentTrick, Play{Seat: seat, Card: c})
	rs.Played[seat] = append(rs.Played[seat], c)

	if len(rs.CurrentTrick) < SeatCount {
		rs.Turn = (seat + 1) % SeatCount
		return nil
	}

	lead := rs.CurrentTrick[0].Card.Suit
	playedCards := make([]cards.Card, SeatCount)
	for i, p := range rs.CurrentTrick {
		playedCards[i] = p.Card
	}
	winnerIdx := cards.TrickWinner(playedCards, lead, *rs.Trump)
	winnerSeat := rs.CurrentTrick[winnerIdx].Seat

	rs.CompletedTricks = append(rs.CompletedTricks, TrickResult{
		TrickNo:  rs.TrickNo,
		LeadSuit: lead,
		Winner:   winnerSeat,
		Plays:    append([]Play(nil), rs.CurrentTrick...),
	})
	rs.TrickNo++
	rs.Leader = winnerSeat
	rs.Turn = winnerSeat
	rs.CurrentTrick = nil

	if rs.TrickNo >= rs.HandSize {
		rs.Phase = PhaseScoring
	}
	return nil
}
