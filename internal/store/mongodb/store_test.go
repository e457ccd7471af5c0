package mongodb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/mauv0809/card-swap/internal/card"
	"github.com/mauv0809/card-swap/internal/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore connects to the replica set named by MONGO_TEST_URI and gives
// each test its own database.
func setupTestStore(t *testing.T) trade.Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	name := fmt.Sprintf("cardswap_test_%d", time.Now().UnixNano())
	s, err := Connect(ctx, uri, name)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.(*store).db.Drop(context.Background())
		s.Close()
	})
	return s
}

func TestMongo_MatchAndComplete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertUser(ctx, trade.User{ID: "A", Handle: "alice"}))
	require.NoError(t, s.UpsertUser(ctx, trade.User{ID: "B", Handle: "bob"}))

	search, err := s.CreateListing(ctx, trade.KindSearch, "B", "charizard", card.TwoDiamond)
	require.NoError(t, err)
	_, err = s.CreateListing(ctx, trade.KindSearch, "B", "charizard", card.OneStar)
	require.NoError(t, err)
	offer, err := s.CreateListing(ctx, trade.KindOffer, "A", "Charizard", card.TwoDiamond)
	require.NoError(t, err)

	found, err := s.FindByKey(ctx, trade.KindSearch, "CHARIZARD", card.TwoDiamond)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, search, found[0].ID)
	assert.Equal(t, "@bob", found[0].Owner.ContactHandle())

	matches, err := s.FindUserMatches(ctx, "B")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, offer, matches[0].OfferID)
	assert.Equal(t, "@alice", matches[0].CounterpartyHandle)

	require.NoError(t, s.DeletePair(ctx, search, offer))
	assert.ErrorIs(t, s.DeletePair(ctx, search, offer), trade.ErrRecordNotFound)

	matches, err = s.FindUserMatches(ctx, "B")
	require.NoError(t, err)
	assert.Empty(t, matches)

	searches, err := s.ListByOwner(ctx, trade.KindSearch, "B")
	require.NoError(t, err)
	assert.Len(t, searches, 1)
}

func TestMongo_ConcurrentCompletions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	search, err := s.CreateListing(ctx, trade.KindSearch, "B", "mew", card.OneStar)
	require.NoError(t, err)
	offer, err := s.CreateListing(ctx, trade.KindOffer, "A", "mew", card.OneStar)
	require.NoError(t, err)

	errs := make([]error, 4)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.DeletePair(ctx, search, offer)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, trade.ErrRecordNotFound)
	}
	assert.Equal(t, 1, successes)
}

func TestMongo_GroupedOffers(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertUser(ctx, trade.User{ID: "X", Handle: "x"}))
	require.NoError(t, s.UpsertUser(ctx, trade.User{ID: "Y", Handle: "y"}))
	for _, o := range []struct{ user, name string }{{"X", "Bulbasaur"}, {"Y", "bulbasaur"}, {"X", "bulbasaur"}} {
		_, err := s.CreateListing(ctx, trade.KindOffer, o.user, o.name, card.OneDiamond)
		require.NoError(t, err)
	}

	rows, err := s.ListAllOffersGrouped(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.ElementsMatch(t, []string{"@x", "@y"}, rows[0].Owners)
}

func TestMongo_DeletePairRejectsMalformedIDs(t *testing.T) {
	s := &store{}
	err := s.DeletePair(context.Background(), "not-an-object-id", "also-not")
	assert.ErrorIs(t, err, trade.ErrRecordNotFound)
}
