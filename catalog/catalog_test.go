package catalog

import (
	"testing"

	"go-splendor/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierSizes(t *testing.T) {
	assert.Len(t, Tier(1), 40)
	assert.Len(t, Tier(2), 30)
	assert.Len(t, Tier(3), 20)
	assert.Nil(t, Tier(4))
	assert.Equal(t, 90, CardCount())
	assert.Len(t, Nobles(), 10)
}

func TestEveryBonusColorEvenlyDistributed(t *testing.T) {
	for level := 1; level <= Levels; level++ {
		perColor := map[entities.Color]int{}
		for _, c := range Tier(level) {
			require.Equal(t, level, c.Level)
			require.True(t, entities.IsGemColor(c.Bonus), c.ID)
			for color, n := range c.Cost {
				require.True(t, entities.IsGemColor(color), c.ID)
				require.Positive(t, n, c.ID)
			}
			perColor[c.Bonus]++
		}
		for _, color := range entities.GemColors {
			assert.Equal(t, len(Tier(level))/5, perColor[color], "level %d color %s", level, color)
		}
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	card, ok := CardByID("2-10")
	require.True(t, ok)
	assert.Equal(t, entities.Red, card.Bonus)
	assert.Equal(t, 5, card.Cost[entities.Black])

	card.Cost[entities.Black] = 99
	again, _ := CardByID("2-10")
	assert.Equal(t, 5, again.Cost[entities.Black])

	_, ok = CardByID("9-99")
	assert.False(t, ok)
}

func TestNobleOrder(t *testing.T) {
	n, ok := NobleByID("N03")
	require.True(t, ok)
	assert.Equal(t, NoblePoints, n.Points)
	assert.Equal(t, 2, NobleOrder("N03"))
	assert.Equal(t, -1, NobleOrder("missing"))
	for i, noble := range Nobles() {
		assert.Equal(t, i, NobleOrder(noble.ID))
	}
}
