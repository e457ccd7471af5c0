package card

import (
	"fmt"
	"strconv"
	"strings"
)

// Rarity is one of the fixed scarcity levels a card can have.
type Rarity string

const (
	OneDiamond   Rarity = "One Diamond"
	TwoDiamond   Rarity = "Two Diamond"
	ThreeDiamond Rarity = "Three Diamond"
	FourDiamond  Rarity = "Four Diamond"
	OneStar      Rarity = "One Star"
)

type rarityInfo struct {
	symbol string
	rank   int
}

var rarities = map[Rarity]rarityInfo{
	OneDiamond:   {symbol: "💎", rank: 1},
	TwoDiamond:   {symbol: "💎💎", rank: 2},
	ThreeDiamond: {symbol: "💎💎💎", rank: 3},
	FourDiamond:  {symbol: "💎💎💎💎", rank: 4},
	OneStar:      {symbol: "⭐", rank: 5},
}

// Rarities returns every rarity in display order (lowest rank first).
func Rarities() []Rarity {
	return []Rarity{OneDiamond, TwoDiamond, ThreeDiamond, FourDiamond, OneStar}
}

// ParseRarity resolves user input to a Rarity. It accepts the canonical name in any
// case, the display symbol, or the rank as a digit.
func ParseRarity(s string) (Rarity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty rarity")
	}
	for r, info := range rarities {
		if strings.EqualFold(string(r), s) || info.symbol == s {
			return r, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		for r, info := range rarities {
			if info.rank == n {
				return r, nil
			}
		}
	}
	return "", fmt.Errorf("unknown rarity %q", s)
}

// Valid reports whether r is one of the known rarities.
func (r Rarity) Valid() bool {
	_, ok := rarities[r]
	return ok
}

// Symbol returns the display symbol, or an empty string for unknown rarities.
func (r Rarity) Symbol() string {
	return rarities[r].symbol
}

// Rank orders rarities from most common (1) upwards. Unknown rarities rank 0.
func (r Rarity) Rank() int {
	return rarities[r].rank
}

func (r Rarity) String() string {
	return string(r)
}

// SplitRarityPrefix splits command text such as "Two Diamond Charizard" into the
// rarity and the remaining card name. ok is false when the text does not start with
// a rarity.
func SplitRarityPrefix(text string) (rarity Rarity, rest string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", "", false
	}
	// Names span two words, symbols and ranks a single one.
	if len(fields) >= 2 {
		if r, err := ParseRarity(fields[0] + " " + fields[1]); err == nil {
			return r, strings.Join(fields[2:], " "), true
		}
	}
	if r, err := ParseRarity(fields[0]); err == nil {
		return r, strings.Join(fields[1:], " "), true
	}
	return "", strings.Join(fields, " "), false
}
