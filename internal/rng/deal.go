package rng

import (
	"fmt"
	"sort"

	"nommie/internal/cards"
)

const seatCount = 4

// DealtHands holds the four dealt hands in seat order 0..3.
type DealtHands [seatCount][]cards.Card

// Deal shuffles a fresh 52-card deck with the dealing seed derived from
// (gameSeed, roundNo), slices the first 4*handSize cards, partitions them
// contiguously by seat (0,1,2,3), and sorts each seat's hand for display
// stability. Remaining cards are discarded for the round.
//
// Determinism contract: the same gameSeed and roundNo always produce
// byte-identical hands.
func Deal(gameSeed GameSeed, roundNo uint8, handSize int) (DealtHands, error) {
	if handSize < 2 || handSize > 13 {
		return DealtHands{}, fmt.Errorf("rng: invalid hand size %d (want 2..13)", handSize)
	}
	need := seatCount * handSize
	if need > 52 {
		return DealtHands{}, fmt.Errorf("rng: hand size %d needs %d cards, deck only has 52", handSize, need)
	}

	dealSeed := DealingSeed(gameSeed, roundNo)
	streamSeed := dealingSeedToStreamSeed(dealSeed)
	src := NewSource(streamSeed)

	deck := cards.FullDeck()
	src.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	var hands DealtHands
	dealt := deck[:need]
	for seat := 0; seat < seatCount; seat++ {
		hand := append([]cards.Card(nil), dealt[seat*handSize:(seat+1)*handSize]...)
		sort.Slice(hand, func(i, j int) bool {
			if hand[i].Suit != hand[j].Suit {
				return hand[i].Suit < hand[j].Suit
			}
			return hand[i].Rank < hand[j].Rank
		})
		hands[seat] = hand
	}
	return hands, nil
}
