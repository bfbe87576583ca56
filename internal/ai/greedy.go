package ai

import (
	"fmt"
	"sort"

	"nommie/internal/cards"
	"nommie/internal/rng"
)

// Greedy is a hand-strength heuristic AI: it bids near the count of
// top-half-rank cards in suits it is long in, and during trick play takes
// the trick only when it still needs to, always with the cheapest card that
// accomplishes its goal. Grounded on the "count by rank, break ties by
// suit" shape used throughout the teacher's poker hand evaluator, applied
// here to trick-taking strength instead of poker hand categories.
type Greedy struct {
	src *rng.Source // not read by the current heuristics; greedy play is deterministic
}

func NewGreedy(seed uint64) *Greedy {
	return &Greedy{src: rng.NewSource(seed)}
}

const longSuitMinLength = 4
const topHalfRank = cards.Ten

func (g *Greedy) ChooseBid(view View, _ GameContext) (int, error) {
	if len(view.LegalBids) == 0 {
		return 0, fmt.Errorf("ai/greedy: no legal bids available")
	}
	counts := suitCounts(view.Hand)
	strength := 0
	for _, c := range view.Hand {
		if counts[c.Suit] >= longSuitMinLength && c.Rank >= topHalfRank {
			strength++
		}
	}
	return closestLegal(view.LegalBids, strength), nil
}

func (g *Greedy) ChooseTrump(view View, _ GameContext) (cards.Trump, error) {
	if len(view.LegalTrumps) == 0 {
		return cards.Trump{}, fmt.Errorf("ai/greedy: no legal trumps available")
	}
	counts := suitCounts(view.Hand)
	bestSuit := cards.Clubs
	bestLen := -1
	for s := cards.Clubs; s <= cards.Spades; s++ {
		if counts[s] > bestLen {
			bestLen = counts[s]
			bestSuit = s
		}
	}
	if bestLen < longSuitMinLength {
		return cards.NoTrump, nil
	}
	return cards.TrumpSuit(bestSuit), nil
}

func (g *Greedy) ChoosePlay(view View, _ GameContext) (cards.Card, error) {
	if len(view.LegalPlays) == 0 {
		return cards.Card{}, fmt.Errorf("ai/greedy: no legal plays available")
	}
	plays := append([]cards.Card(nil), view.LegalPlays...)
	sort.Slice(plays, func(i, j int) bool { return plays[i].Rank < plays[j].Rank })

	if len(view.Round.CurrentTrick) == 0 {
		return plays[0], nil
	}

	needsToWin := g.needsToWin(view)
	lead := view.Round.CurrentTrick[0].Card.Suit
	trump := *view.Round.Trump
	best := view.Round.CurrentTrick[0].Card
	for _, p := range view.Round.CurrentTrick[1:] {
		if cards.Beats(p.Card, best, lead, trump) {
			best = p.Card
		}
	}

	var winners, losers []cards.Card
	for _, c := range plays {
		if cards.Beats(c, best, lead, trump) {
			winners = append(winners, c)
		} else {
			losers = append(losers, c)
		}
	}

	if needsToWin {
		if len(winners) > 0 {
			return winners[0], nil // lowest winning card
		}
		return plays[0], nil // can't win, dump the lowest card
	}
	if len(losers) > 0 {
		return losers[0], nil // already met bid, don't overtrick
	}
	return plays[0], nil // forced to win regardless
}

func (g *Greedy) needsToWin(view View) bool {
	bid := 0
	for _, b := range view.Round.Bids {
		if b.Seat == view.Seat {
			bid = b.Value
			break
		}
	}
	won := 0
	for _, tm := range view.Memory.Tricks {
		if tm.Winner == view.Seat {
			won++
		}
	}
	return won < bid
}

func suitCounts(hand []cards.Card) map[cards.Suit]int {
	counts := make(map[cards.Suit]int, 4)
	for _, c := range hand {
		counts[c.Suit]++
	}
	return counts
}

// closestLegal returns the legal value closest to target, preferring the
// lower of two equidistant candidates.
func closestLegal(legal []int, target int) int {
	best := legal[0]
	bestDist := abs(best - target)
	for _, v := range legal[1:] {
		d := abs(v - target)
		if d < bestDist {
			best, bestDist = v, d
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
