package sqlite

import (
	"context"
	"testing"

	"github.com/mauv0809/card-swap/internal/card"
	"github.com/mauv0809/card-swap/internal/metrics"
	"github.com/mauv0809/card-swap/internal/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflow_OfferMatchesEarlierSearchThenCompletes(t *testing.T) {
	s := setupTestStore(t)
	svc := trade.NewService(s, metrics.NewMock())
	ctx := context.Background()

	alice := trade.User{ID: "A", Handle: "alice"}
	bob := trade.User{ID: "B", Handle: "bob"}

	search, err := svc.SubmitSearch(ctx, bob, "charizard", "Two Diamond")
	require.NoError(t, err)
	assert.Empty(t, search.MatchedOffers)

	offer, err := svc.SubmitOffer(ctx, alice, "Charizard", "Two Diamond")
	require.NoError(t, err)
	require.Len(t, offer.MatchedSearches, 1)
	assert.Equal(t, search.SearchID, offer.MatchedSearches[0].ID)
	assert.Equal(t, "@bob", offer.MatchedSearches[0].Owner.ContactHandle())

	matches, err := svc.UserMatches(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, offer.OfferID, matches[0].OfferID)

	done, err := svc.CompleteTrade(ctx, search.SearchID, offer.OfferID)
	require.NoError(t, err)
	assert.False(t, done.AlreadyCompleted)

	matches, err = svc.UserMatches(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)

	again, err := svc.CompleteTrade(ctx, search.SearchID, offer.OfferID)
	require.NoError(t, err)
	assert.True(t, again.AlreadyCompleted)
}

func TestWorkflow_DifferentRarityDoesNotMatch(t *testing.T) {
	s := setupTestStore(t)
	svc := trade.NewService(s, metrics.NewMock())
	ctx := context.Background()

	_, err := svc.SubmitSearch(ctx, trade.User{ID: "B"}, "Pikachu", "One Diamond")
	require.NoError(t, err)

	offer, err := svc.SubmitOffer(ctx, trade.User{ID: "A"}, "pikachu", "One Star")
	require.NoError(t, err)
	assert.Empty(t, offer.MatchedSearches)
}

func TestWorkflow_SearchSeesExistingOffersInline(t *testing.T) {
	s := setupTestStore(t)
	svc := trade.NewService(s, metrics.NewMock())
	ctx := context.Background()

	_, err := svc.SubmitOffer(ctx, trade.User{ID: "A", DisplayName: "Alice"}, "Pikachu", "⭐")
	require.NoError(t, err)

	res, err := svc.SubmitSearch(ctx, trade.User{ID: "B"}, "PIKACHU", "one star")
	require.NoError(t, err)
	require.Len(t, res.MatchedOffers, 1)
	assert.Equal(t, "Alice", res.MatchedOffers[0].Owner.ContactHandle())
	assert.Equal(t, card.OneStar, res.MatchedOffers[0].Rarity)
}

func TestWorkflow_AggregateCollapsesOwners(t *testing.T) {
	s := setupTestStore(t)
	svc := trade.NewService(s, metrics.NewMock())
	ctx := context.Background()

	x := trade.User{ID: "X", Handle: "x"}
	y := trade.User{ID: "Y", Handle: "y"}
	for _, sub := range []struct {
		user trade.User
		name string
	}{{x, "Bulbasaur"}, {y, "bulbasaur"}, {x, "bulbasaur"}} {
		_, err := svc.SubmitOffer(ctx, sub.user, sub.name, "One Diamond")
		require.NoError(t, err)
	}

	rows, err := svc.AvailableCards(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "bulbasaur", rows[0].CardName)
	assert.Equal(t, card.OneDiamond, rows[0].Rarity)
	assert.ElementsMatch(t, []string{"@x", "@y"}, rows[0].Owners)
}
