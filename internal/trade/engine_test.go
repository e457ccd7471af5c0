package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/card-swap/internal/card"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_FindMatchingSearchesLowercasesKey(t *testing.T) {
	store := NewMock()
	store.FindByKeyFunc = func(ctx context.Context, kind Kind, cardName string, rarity card.Rarity) ([]OwnedListing, error) {
		return []OwnedListing{{Listing: Listing{ID: "s1", Kind: kind, CardName: cardName, Rarity: rarity}}}, nil
	}
	engine := NewEngine(store)

	got, err := engine.FindMatchingSearches(context.Background(), "Charizard", card.TwoDiamond)
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.Len(t, store.FindByKeyCalls, 1)
	assert.Equal(t, KindSearch, store.FindByKeyCalls[0].Kind)
	assert.Equal(t, "charizard", store.FindByKeyCalls[0].CardName)
	assert.Equal(t, card.TwoDiamond, store.FindByKeyCalls[0].Rarity)
}

func TestEngine_EmptyLookupsAreNotErrors(t *testing.T) {
	engine := NewEngine(NewMock())
	ctx := context.Background()

	offers, err := engine.FindMatchingOffers(ctx, "mew", card.OneStar)
	require.NoError(t, err)
	assert.NotNil(t, offers)
	assert.Empty(t, offers)

	rows, err := engine.AggregateOffers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, rows)

	matches, err := engine.FindUserMatches(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, matches)
}

func TestEngine_RejectsUnknownRarity(t *testing.T) {
	store := NewMock()
	engine := NewEngine(store)

	_, err := engine.FindMatchingOffers(context.Background(), "mew", card.Rarity("Shiny"))
	require.ErrorIs(t, err, ErrInvalidRarity)
	assert.Empty(t, store.FindByKeyCalls)
}

func TestEngine_CompleteTrade(t *testing.T) {
	t.Run("requires both ids", func(t *testing.T) {
		store := NewMock()
		err := NewEngine(store).CompleteTrade(context.Background(), "", "o1")
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, store.DeletePairCalls)
	})

	t.Run("surfaces record not found", func(t *testing.T) {
		store := NewMock()
		store.DeletePairFunc = func(ctx context.Context, searchID, offerID string) error {
			return ErrRecordNotFound
		}
		err := NewEngine(store).CompleteTrade(context.Background(), "s1", "o1")
		require.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("passes storage failures through", func(t *testing.T) {
		store := NewMock()
		store.DeletePairFunc = func(ctx context.Context, searchID, offerID string) error {
			return errors.Join(ErrStorageUnavailable, errors.New("disk I/O error"))
		}
		err := NewEngine(store).CompleteTrade(context.Background(), "s1", "o1")
		require.ErrorIs(t, err, ErrStorageUnavailable)
	})
}

func TestEngine_FindCounterpartsQueriesTheOtherSide(t *testing.T) {
	store := NewMock()
	engine := NewEngine(store)
	ctx := context.Background()

	_, err := engine.FindCounterparts(ctx, KindOffer, "Mew", card.OneStar)
	require.NoError(t, err)
	_, err = engine.FindCounterparts(ctx, KindSearch, "Mew", card.OneStar)
	require.NoError(t, err)

	require.Len(t, store.FindByKeyCalls, 2)
	assert.Equal(t, KindSearch, store.FindByKeyCalls[0].Kind)
	assert.Equal(t, KindOffer, store.FindByKeyCalls[1].Kind)
	assert.Equal(t, "mew", store.FindByKeyCalls[0].CardName)
}
