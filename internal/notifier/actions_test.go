package notifier

import (
	"testing"

	"github.com/mauv0809/card-swap/internal/card"
	"github.com/mauv0809/card-swap/internal/conversation"
	"github.com/mauv0809/card-swap/internal/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeValue(t *testing.T) {
	s, o, err := ParseTradeValue(TradeValue("s-1", "o-2"))
	require.NoError(t, err)
	assert.Equal(t, "s-1", s)
	assert.Equal(t, "o-2", o)

	_, _, err = ParseTradeValue("only-one")
	assert.Error(t, err)
	_, _, err = ParseTradeValue(":o-2")
	assert.Error(t, err)
}

func TestRarityValue(t *testing.T) {
	flow, err := conversation.StartWithCard(trade.KindOffer, "Mew")
	require.NoError(t, err)

	value, err := RarityValue(string(card.OneStar), flow)
	require.NoError(t, err)

	rarity, decoded, err := ParseRarityValue(value)
	require.NoError(t, err)
	assert.Equal(t, "One Star", rarity)
	assert.Equal(t, flow, decoded)

	_, _, err = ParseRarityValue("One Star")
	assert.Error(t, err)
}

func TestSetValue(t *testing.T) {
	flow := conversation.Start(trade.KindSearch)

	value, err := SetValue("genetic_apex", flow)
	require.NoError(t, err)

	code, decoded, err := ParseSetValue(value)
	require.NoError(t, err)
	assert.Equal(t, "genetic_apex", code)
	assert.Equal(t, conversation.StepPickSet, decoded.Step)

	_, err = SetValue("a:b", flow)
	assert.Error(t, err, "codes may not contain the separator")
	_, _, err = ParseSetValue("genetic_apex:%%%")
	assert.ErrorIs(t, err, conversation.ErrInvalidFlow)
}

func TestCardBlockID(t *testing.T) {
	flow, err := conversation.Start(trade.KindOffer).ChooseSet("genetic_apex")
	require.NoError(t, err)
	flow, err = flow.ChooseRarity("Four Diamond")
	require.NoError(t, err)

	blockID, err := CardBlockID(flow)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(blockID), 255, "Slack caps block ids at 255 characters")

	decoded, err := ParseCardBlockID(blockID)
	require.NoError(t, err)
	assert.Equal(t, flow, decoded)

	_, err = ParseCardBlockID("block-1")
	assert.Error(t, err)
}

func TestForOffer(t *testing.T) {
	offerer := trade.User{ID: "A", Handle: "alice"}
	res := &trade.OfferResult{
		OfferID:  "o1",
		CardName: "Charizard",
		Rarity:   card.TwoDiamond,
		MatchedSearches: []trade.OwnedListing{
			{Listing: trade.Listing{ID: "s1", UserID: "B"}},
			{Listing: trade.Listing{ID: "s2", UserID: "C"}},
		},
	}

	notices := ForOffer(offerer, res)
	require.Len(t, notices, 2)
	assert.Equal(t, MatchNotification{
		RecipientID:        "B",
		CounterpartyHandle: "@alice",
		CardName:           "Charizard",
		Rarity:             card.TwoDiamond,
		SearchID:           "s1",
		OfferID:            "o1",
	}, notices[0])
	assert.Equal(t, "C", notices[1].RecipientID)

	assert.Empty(t, ForOffer(offerer, &trade.OfferResult{}))
}
