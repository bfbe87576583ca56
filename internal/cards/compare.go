package cards

// Beats reports whether card a beats card b, where b is the current best
// card of a trick led in suit lead under the given trump. a is evaluated as
// if it were played immediately after b became the leader.
func Beats(a, b Card, lead Suit, trump Trump) bool {
	trumpSuit, hasTrump := trump.Suit()

	aTrump := hasTrump && a.Suit == trumpSuit
	bTrump := hasTrump && b.Suit == trumpSuit
	if aTrump != bTrump {
		return aTrump
	}
	if aTrump && bTrump {
		return a.Rank > b.Rank
	}

	aLead := a.Suit == lead
	bLead := b.Suit == lead
	if aLead != bLead {
		return aLead
	}
	if aLead && bLead {
		return a.Rank > b.Rank
	}

	return false
}

// TrickWinner resolves the winner of a complete trick given the plays in
// play order (play[0] is the leader). Returns the index into plays of the
// winning card.
func TrickWinner(plays []Card, lead Suit, trump Trump) int {
	winner := 0
	best := plays[0]
	for i := 1; i < len(plays); i++ {
		if Beats(plays[i], best, lead, trump) {
			best = plays[i]
			winner = i
		}
	}
	return winner
}
