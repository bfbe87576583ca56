package cards

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MarshalJSON encodes a Card as the compact two-character token "AS", "TD",
// "2C" used on the wire protocol.
func (c Card) MarshalJSON() ([]byte, error) {
	r, ok := rankToChar(c.Rank)
	if !ok {
		return nil, fmt.Errorf("invalid rank: %d", c.Rank)
	}
	s, ok := suitToChar(c.Suit)
	if !ok {
		return nil, fmt.Errorf("invalid suit: %d", c.Suit)
	}
	return json.Marshal(string([]byte{r, s}))
}

// UnmarshalJSON decodes a compact two-character token ("As", "TD", "2c") into
// a Card. Case-insensitive; ten must be 'T', never "10".
func (c *Card) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return fmt.Errorf("invalid card literal %q (want 2 chars like AS, TD)", s)
	}
	r, ok := charToRank(s[0])
	if !ok {
		return fmt.Errorf("invalid rank char %q", s[0])
	}
	suit, ok := charToSuit(s[1])
	if !ok {
		return fmt.Errorf("invalid suit char %q", s[1])
	}
	c.Rank = r
	c.Suit = suit
	return nil
}

// storedCard is the verbose form used at the persistence boundary, per the
// SUIT/RANK storage convention (e.g. SUIT="HEARTS", RANK="ACE").
type storedCard struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

// MarshalVerbose encodes a Card in the verbose SUIT/RANK storage form.
func (c Card) MarshalVerbose() ([]byte, error) {
	return json.Marshal(storedCard{Suit: c.Suit.String(), Rank: c.Rank.String()})
}

// UnmarshalVerbose decodes a Card from the verbose SUIT/RANK storage form.
func (c *Card) UnmarshalVerbose(b []byte) error {
	var sc storedCard
	if err := json.Unmarshal(b, &sc); err != nil {
		return err
	}
	suit, ok := suitFromName(sc.Suit)
	if !ok {
		return fmt.Errorf("invalid suit name %q", sc.Suit)
	}
	rank, ok := rankFromName(sc.Rank)
	if !ok {
		return fmt.Errorf("invalid rank name %q", sc.Rank)
	}
	c.Suit = suit
	c.Rank = rank
	return nil
}

func rankToChar(r Rank) (byte, bool) {
	switch r {
	case Two:
		return '2', true
	case Three:
		return '3', true
	case Four:
		return '4', true
	case Five:
		return '5', true
	case Six:
		return '6', true
	case Seven:
		return '7', true
	case Eight:
		return '8', true
	case Nine:
		return '9', true
	case Ten:
		return 'T', true
	case Jack:
		return 'J', true
	case Queen:
		return 'Q', true
	case King:
		return 'K', true
	case Ace:
		return 'A', true
	default:
		return 0, false
	}
}

func charToRank(ch byte) (Rank, bool) {
	u := ch
	if u >= 'a' && u <= 'z' {
		u -= 'a' - 'A'
	}
	switch u {
	case '2':
		return Two, true
	case '3':
		return Three, true
	case '4':
		return Four, true
	case '5':
		return Five, true
	case '6':
		return Six, true
	case '7':
		return Seven, true
	case '8':
		return Eight, true
	case '9':
		return Nine, true
	case 'T':
		return Ten, true
	case 'J':
		return Jack, true
	case 'Q':
		return Queen, true
	case 'K':
		return King, true
	case 'A':
		return Ace, true
	default:
		return 0, false
	}
}

func suitToChar(s Suit) (byte, bool) {
	switch s {
	case Clubs:
		return 'C', true
	case Diamonds:
		return 'D', true
	case Hearts:
		return 'H', true
	case Spades:
		return 'S', true
	default:
		return 0, false
	}
}

func charToSuit(ch byte) (Suit, bool) {
	u := ch
	if u >= 'A' && u <= 'Z' {
		u += 'a' - 'A'
	}
	switch u {
	case 'c':
		return Clubs, true
	case 'd':
		return Diamonds, true
	case 'h':
		return Hearts, true
	case 's':
		return Spades, true
	default:
		return 0, false
	}
}

func suitFromName(name string) (Suit, bool) {
	switch strings.ToUpper(name) {
	case "CLUBS":
		return Clubs, true
	case "DIAMONDS":
		return Diamonds, true
	case "HEARTS":
		return Hearts, true
	case "SPADES":
		return Spades, true
	default:
		return 0, false
	}
}

func rankFromName(name string) (Rank, bool) {
	switch strings.ToUpper(name) {
	case "TWO":
		return Two, true
	case "THREE":
		return Three, true
	case "FOUR":
		return Four, true
	case "FIVE":
		return Five, true
	case "SIX":
		return Six, true
	case "SEVEN":
		return Seven, true
	case "EIGHT":
		return Eight, true
	case "NINE":
		return Nine, true
	case "TEN":
		return Ten, true
	case "JACK":
		return Jack, true
	case "QUEEN":
		return Queen, true
	case "KING":
		return King, true
	case "ACE":
		return Ace, true
	default:
		return 0, false
	}
}
