package catalog

import (
	"testing"

	"github.com/mauv0809/card-swap/internal/card"
	"github.com/stretchr/testify/assert"
)

const pikachuFile = `import { Card } from "../../../interfaces/card"

const card: Card = {
	name: {
		en: "Pikachu ex",
		fr: "Pikachu-ex",
	},
	illustrator: "PLANETA Mochizuki",
	rarity: "Four Diamond",
	category: "Pokemon",
}

export default card
`

func TestParseCardFile(t *testing.T) {
	entry, ok := ParseCardFile([]byte(pikachuFile))
	assert.True(t, ok)
	assert.Equal(t, "Pikachu ex", entry.Name)
	assert.Equal(t, card.FourDiamond, entry.Rarity)
}

func TestParseCardFile_Rejects(t *testing.T) {
	tests := map[string]string{
		"missing name":    `const card = { rarity: "One Diamond" }`,
		"missing rarity":  `const card = { name: { en: "Mew" } }`,
		"untraded rarity": `const card = { name: { en: "Mew" }, rarity: "Crown" }`,
		"empty file":      ``,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, ok := ParseCardFile([]byte(content))
			assert.False(t, ok)
		})
	}
}
