package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRarity(t *testing.T) {
	tests := []struct {
		input    string
		expected Rarity
	}{
		{"Two Diamond", TwoDiamond},
		{"two diamond", TwoDiamond},
		{"  One Star ", OneStar},
		{"💎💎💎", ThreeDiamond},
		{"⭐", OneStar},
		{"4", FourDiamond},
		{"1", OneDiamond},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := ParseRarity(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, r)
		})
	}
}

func TestParseRarity_Invalid(t *testing.T) {
	for _, input := range []string{"", "Five Diamond", "6", "0", "rare"} {
		_, err := ParseRarity(input)
		assert.Error(t, err, "input %q should be rejected", input)
	}
}

func TestRarities_OrderedByRank(t *testing.T) {
	all := Rarities()
	require.Len(t, all, 5)
	for i, r := range all {
		assert.True(t, r.Valid())
		assert.Equal(t, i+1, r.Rank())
		assert.NotEmpty(t, r.Symbol())
	}
	assert.False(t, Rarity("Mythic").Valid())
	assert.Equal(t, 0, Rarity("Mythic").Rank())
}

func TestSplitRarityPrefix(t *testing.T) {
	r, rest, ok := SplitRarityPrefix("Two Diamond Charizard ex")
	require.True(t, ok)
	assert.Equal(t, TwoDiamond, r)
	assert.Equal(t, "Charizard ex", rest)

	r, rest, ok = SplitRarityPrefix("⭐ Mew")
	require.True(t, ok)
	assert.Equal(t, OneStar, r)
	assert.Equal(t, "Mew", rest)

	_, rest, ok = SplitRarityPrefix("Pikachu")
	assert.False(t, ok)
	assert.Equal(t, "Pikachu", rest)

	_, _, ok = SplitRarityPrefix("   ")
	assert.False(t, ok)
}
