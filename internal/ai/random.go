package ai

import (
	"fmt"
	"sync"

	"nommie/internal/cards"
	"nommie/internal/rng"
)

// Random is the baseline AI: it samples uniformly at random from whatever
// legal set the current decision offers. It needs nothing beyond the legal
// moves, so it is the simplest possible conformant Player.
type Random struct {
	mu  sync.Mutex
	src *rng.Source
}

// NewRandom builds a Random AI seeded deterministically so that replays of
// the same (game, round, seat) are reproducible.
func NewRandom(seed uint64) *Random {
	return &Random{src: rng.NewSource(seed)}
}

func (r *Random) ChooseBid(view View, _ GameContext) (int, error) {
	if len(view.LegalBids) == 0 {
		return 0, fmt.Errorf("ai/random: no legal bids available")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.src.Uint64n(uint64(len(view.LegalBids)))
	return view.LegalBids[idx], nil
}

func (r *Random) ChoosePlay(view View, _ GameContext) (cards.Card, error) {
	if len(view.LegalPlays) == 0 {
		return cards.Card{}, fmt.Errorf("ai/random: no legal plays available")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.src.Uint64n(uint64(len(view.LegalPlays)))
	return view.LegalPlays[idx], nil
}

func (r *Random) ChooseTrump(view View, _ GameContext) (cards.Trump, error) {
	if len(view.LegalTrumps) == 0 {
		return cards.Trump{}, fmt.Errorf("ai/random: no legal trumps available")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.src.Uint64n(uint64(len(view.LegalTrumps)))
	return view.LegalTrumps[idx], nil
}
