package trade

import (
	"testing"

	"github.com/mauv0809/card-swap/internal/card"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offer(userID, handle, name string, r card.Rarity) OwnedListing {
	return OwnedListing{
		Listing: Listing{Kind: KindOffer, UserID: userID, CardName: name, DisplayName: name, Rarity: r},
		Owner:   User{ID: userID, Handle: handle},
	}
}

func TestGroupOffers_CollapsesCaseAndOwners(t *testing.T) {
	rows := GroupOffers([]OwnedListing{
		offer("x", "userx", "Bulbasaur", card.OneDiamond),
		offer("y", "usery", "bulbasaur", card.OneDiamond),
		offer("x", "userx", "bulbasaur", card.OneDiamond),
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "bulbasaur", rows[0].CardName)
	assert.Equal(t, card.OneDiamond, rows[0].Rarity)
	assert.Equal(t, []string{"@userx", "@usery"}, rows[0].Owners)
}

func TestGroupOffers_SeparatesRarities(t *testing.T) {
	rows := GroupOffers([]OwnedListing{
		offer("x", "userx", "pikachu", card.OneDiamond),
		offer("x", "userx", "pikachu", card.OneStar),
	})

	require.Len(t, rows, 2)
	assert.Equal(t, card.OneDiamond, rows[0].Rarity, "ties keep first appearance order")
	assert.Equal(t, card.OneStar, rows[1].Rarity)
}

func TestGroupOffers_SortsAlphabetically(t *testing.T) {
	rows := GroupOffers([]OwnedListing{
		offer("a", "a", "Zapdos", card.OneStar),
		offer("b", "b", "articuno", card.OneStar),
		offer("c", "c", "Moltres", card.OneStar),
	})

	require.Len(t, rows, 3)
	assert.Equal(t, "articuno", rows[0].CardName)
	assert.Equal(t, "moltres", rows[1].CardName)
	assert.Equal(t, "zapdos", rows[2].CardName)
}

func TestGroupOffers_Empty(t *testing.T) {
	rows := GroupOffers(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestUser_ContactHandle(t *testing.T) {
	assert.Equal(t, "@ash", User{ID: "1", Handle: "ash", DisplayName: "Ash"}.ContactHandle())
	assert.Equal(t, "Ash", User{ID: "1", DisplayName: "Ash"}.ContactHandle())
	assert.Equal(t, "User_1", User{ID: "1"}.ContactHandle())
}
