package catalog

import (
	"regexp"

	"github.com/mauv0809/card-swap/internal/card"
)

var (
	nameRe   = regexp.MustCompile(`name:\s*{\s*en:\s*"([^"]+)"`)
	rarityRe = regexp.MustCompile(`rarity:\s*"([^"]+)"`)
)

// Entry is one card read from a catalog source file.
type Entry struct {
	Name   string
	Rarity card.Rarity
}

// ParseCardFile extracts the English name and the rarity from a TypeScript card
// definition. ok is false when either is missing or the rarity is not one we trade.
func ParseCardFile(content []byte) (entry Entry, ok bool) {
	name := nameRe.FindSubmatch(content)
	rarity := rarityRe.FindSubmatch(content)
	if name == nil || rarity == nil {
		return Entry{}, false
	}

	r := card.Rarity(rarity[1])
	if !r.Valid() {
		return Entry{}, false
	}
	return Entry{Name: string(name[1]), Rarity: r}, true
}
