package trade

import (
	"sort"
	"strings"

	"github.com/mauv0809/card-swap/internal/card"
)

// GroupOffers collapses offers into one row per (card name, rarity). Owners are
// deduplicated by user id and shown by contact handle. Rows keep the order in which their key first
// appears and are then sorted by card name, case-insensitively.
func GroupOffers(offers []OwnedListing) []CardListing {
	type groupKey struct {
		name   string
		rarity card.Rarity
	}

	index := make(map[groupKey]int)
	seen := make(map[groupKey]map[string]struct{})
	groups := make([]CardListing, 0)

	for _, o := range offers {
		key := groupKey{name: strings.ToLower(o.CardName), rarity: o.Rarity}
		owner := o.Owner.ContactHandle()

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			seen[key] = make(map[string]struct{})
			display := o.DisplayName
			if display == "" {
				display = o.CardName
			}
			groups = append(groups, CardListing{
				CardName:    key.name,
				DisplayName: display,
				Rarity:      o.Rarity,
				Owners:      []string{},
			})
		}
		if _, dup := seen[key][o.UserID]; dup {
			continue
		}
		seen[key][o.UserID] = struct{}{}
		groups[i].Owners = append(groups[i].Owners, owner)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return strings.ToLower(groups[a].CardName) < strings.ToLower(groups[b].CardName)
	})
	return groups
}
