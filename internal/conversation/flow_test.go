package conversation

import (
	"testing"

	"github.com/mauv0809/card-swap/internal/card"
	"github.com/mauv0809/card-swap/internal/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlow_BrowseSet(t *testing.T) {
	f := Start(trade.KindOffer)
	assert.False(t, f.Ready())

	f, err := f.ChooseSet("Genetic_Apex")
	require.NoError(t, err)
	assert.Equal(t, "genetic_apex", f.SetCode)
	assert.Equal(t, StepPickRarity, f.Step)

	f, err = f.ChooseRarity("💎💎")
	require.NoError(t, err)
	assert.Equal(t, card.TwoDiamond, f.Rarity)
	assert.Equal(t, StepEnterCard, f.Step)

	f, err = f.EnterCard("  Charizard ")
	require.NoError(t, err)
	assert.True(t, f.Ready())
	assert.Equal(t, "Charizard", f.CardName)
}

func TestFlow_KnownCardOnlyNeedsRarity(t *testing.T) {
	f, err := StartWithCard(trade.KindSearch, "Mew")
	require.NoError(t, err)

	f, err = f.ChooseRarity("one star")
	require.NoError(t, err)
	assert.True(t, f.Ready())

	_, err = StartWithCard(trade.KindSearch, " ")
	assert.ErrorIs(t, err, trade.ErrInvalidInput)
}

func TestFlow_RejectsOutOfOrderTransitions(t *testing.T) {
	f := Start(trade.KindOffer)

	_, err := f.ChooseRarity("One Diamond")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.EnterCard("Pikachu")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	f, err = f.ChooseSet("a1")
	require.NoError(t, err)
	_, err = f.ChooseSet("a2")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	unchanged, err := f.ChooseRarity("Rainbow")
	assert.ErrorIs(t, err, trade.ErrInvalidRarity)
	assert.Equal(t, f, unchanged, "a rejected input leaves the flow where it was")
}

func TestFlow_EncodeDecode(t *testing.T) {
	f, err := StartWithCard(trade.KindOffer, "Pikachu ex")
	require.NoError(t, err)
	f, err = f.ChooseRarity("4")
	require.NoError(t, err)

	encoded, err := f.Encode()
	require.NoError(t, err)
	assert.Less(t, len(encoded), 2000, "fits in a Slack button value")

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, f, decoded)
}

func TestDecode_RejectsGarbage(t *testing.T) {
	_, err := Decode("!!not-base64!!")
	assert.ErrorIs(t, err, ErrInvalidFlow)

	tampered, err := Flow{Intent: trade.KindOffer, Step: StepReady}.Encode()
	require.NoError(t, err)
	_, err = Decode(tampered)
	assert.ErrorIs(t, err, ErrInvalidFlow)

	unknown, err := Flow{Intent: "trade", Step: StepPickSet}.Encode()
	require.NoError(t, err)
	_, err = Decode(unknown)
	assert.ErrorIs(t, err, ErrInvalidFlow)
}
