// Package ai implements the pluggable AI player contract, its concrete
// engines, and the seeded memory-degradation model that approximates
// imperfect recall for AI seats with memory_level < 100.
package ai

import (
	"nommie/internal/cards"
	"nommie/internal/domain"
	"nommie/internal/rng"
)

// RankCategory buckets a rank into high/medium/low, the coarsest memory
// tier before a play is forgotten entirely.
type RankCategory int

const (
	RankLow RankCategory = iota
	RankMedium
	RankHigh
)

// CategorizeRank buckets a rank the way a degraded memory would: jack
// through ace is high, seven through ten is medium, two through six is low.
func CategorizeRank(r cards.Rank) RankCategory {
	switch {
	case r >= cards.Jack:
		return RankHigh
	case r >= cards.Seven:
		return RankMedium
	default:
		return RankLow
	}
}

// MemoryTier is how well an AI recalls one play: perfect, suit-only,
// rank-category-only, or forgotten entirely.
type MemoryTier int

const (
	TierExact MemoryTier = iota
	TierSuit
	TierRankCategory
	TierForgotten
)

// PlayMemory is what an AI remembers about a single completed play.
type PlayMemory struct {
	Tier     MemoryTier
	Card     cards.Card   // valid when Tier == TierExact
	Suit     cards.Suit   // valid when Tier == TierSuit
	Category RankCategory // valid when Tier == TierRankCategory
}

// SeatPlayMemory pairs a play's memory with the seat that made it.
type SeatPlayMemory struct {
	Seat   int
	Memory PlayMemory
}

// TrickMemory is what an AI remembers about one completed trick. Winner is
// always known exactly: which seat took a trick is common knowledge at the
// table even when the cards that won it have faded from memory.
type TrickMemory struct {
	TrickNo int
	Winner  int
	Plays   []SeatPlayMemory
}

// RoundMemory is an AI's (possibly degraded) recollection of every
// completed trick in the round so far. The current trick in progress is
// not part of this; it is always seen exactly via View.Round.
type RoundMemory struct {
	Tricks []TrickMemory
}

// DegradeMemory builds a RoundMemory from the actual completed tricks,
// seeded by seed so the same (game, round, seat) always degrades the same
// way. memoryLevel is 0-100: at 100, every play is remembered exactly; as
// it falls, plays increasingly degrade to suit-only, then rank-category,
// then fully forgotten.
func DegradeMemory(completed []domain.TrickResult, memoryLevel int, seed uint64) RoundMemory {
	if memoryLevel >= 100 {
		return exactMemory(completed)
	}
	if memoryLevel < 0 {
		memoryLevel = 0
	}
	src := rng.NewSource(seed)
	remaining := 100 - memoryLevel
	suitCut := memoryLevel + remaining/3
	categoryCut := memoryLevel + 2*remaining/3

	out := RoundMemory{Tricks: make([]TrickMemory, len(completed))}
	for i, trick := range completed {
		tm := TrickMemory{TrickNo: trick.TrickNo, Winner: trick.Winner, Plays: make([]SeatPlayMemory, len(trick.Plays))}
		for j, p := range trick.Plays {
			roll := int(src.Uint64n(100))
			var mem PlayMemory
			switch {
			case roll < memoryLevel:
				mem = PlayMemory{Tier: TierExact, Card: p.Card}
			case roll < suitCut:
				mem = PlayMemory{Tier: TierSuit, Suit: p.Card.Suit}
			case roll < categoryCut:
				mem = PlayMemory{Tier: TierRankCategory, Category: CategorizeRank(p.Card.Rank)}
			default:
				mem = PlayMemory{Tier: TierForgotten}
			}
			tm.Plays[j] = SeatPlayMemory{Seat: p.Seat, Memory: mem}
		}
		out.Tricks[i] = tm
	}
	return out
}

func exactMemory(completed []domain.TrickResult) RoundMemory {
	out := RoundMemory{Tricks: make([]TrickMemory, len(completed))}
	for i, trick := range completed {
		tm := TrickMemory{TrickNo: trick.TrickNo, Winner: trick.Winner, Plays: make([]SeatPlayMemory, len(trick.Plays))}
		for j, p := range trick.Plays {
			tm.Plays[j] = SeatPlayMemory{Seat: p.Seat, Memory: PlayMemory{Tier: TierExact, Card: p.Card}}
		}
		out.Tricks[i] = tm
	}
	return out
}
