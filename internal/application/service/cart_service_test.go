package service

import (
	"math"
	"testing"

	"github.com/sangkips/stall-pos/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_CoalescesConsecutiveAdds(t *testing.T) {
	c := NewCartService()
	require.True(t, c.AddLine("Candy", "Lollipop", 0.5))
	require.True(t, c.AddLine("Candy", "Lollipop", 0.5))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Qty)
	assert.Equal(t, 1.0, c.Total())
}

func TestCart_DoesNotCoalesceAcrossInterruption(t *testing.T) {
	c := NewCartService()
	c.AddLine("Candy", "A", 1)
	c.AddLine("Candy", "B", 2)
	c.AddLine("Candy", "A", 1)

	lines := c.Lines()
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Equal(t, 1, l.Qty)
	}
	assert.Equal(t, 4.0, c.Total())
}

func TestCart_DifferentKindsDoNotCoalesce(t *testing.T) {
	c := NewCartService()
	c.AddLine("Candy", "A", 1)
	c.AddLine("Pet", "A", 1)
	c.AddLine("Pet", "A", 2)
	c.AddItemLine("Pet", entity.Item{ID: "x", Name: "A", Price: 2.5})
	assert.Equal(t, 4, c.Len())
}

func TestCart_CoalescesByKindNotItemID(t *testing.T) {
	c := NewCartService()
	require.True(t, c.AddItemLine("Thrift", entity.Item{ID: "a", Name: "Mug", Price: 2}))
	require.True(t, c.AddItemLine("Thrift", entity.Item{ID: "b", Name: "Mug", Price: 2}))
	require.True(t, c.AddLine("Thrift", "Mug", 2))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Qty)
	assert.Equal(t, "a", lines[0].ItemID)
	assert.Equal(t, 6.0, c.Total())

	removed, ok := c.UndoLast()
	require.True(t, ok)
	assert.Equal(t, "a", removed.ItemID)
	assert.Equal(t, 2, c.Lines()[0].Qty)
}

func TestCart_RejectsNonPositiveAmounts(t *testing.T) {
	c := NewCartService()
	assert.False(t, c.AddLine("Candy", "Zero", 0))
	assert.False(t, c.AddLine("Candy", "Neg", -1))
	assert.False(t, c.AddLine("Candy", "NaN", math.NaN()))
	assert.False(t, c.AddLine("Candy", "Inf", math.Inf(1)))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0.0, c.Total())
}

func TestCart_UndoSymmetry(t *testing.T) {
	c := NewCartService()
	const n = 4
	for i := 0; i < n; i++ {
		c.AddLine("Thrift", "$2", 2)
	}
	require.Equal(t, 1, c.Len())

	for i := 0; i < n; i++ {
		line, ok := c.UndoLast()
		require.True(t, ok)
		assert.Equal(t, 1, line.Qty)
	}
	assert.Equal(t, 0, c.Len())

	_, ok := c.UndoLast()
	assert.False(t, ok)
	assert.Equal(t, 0.0, c.Total())
}

func TestCart_TotalHasNoDrift(t *testing.T) {
	c := NewCartService()
	for i := 0; i < 10; i++ {
		c.AddLine("Candy", "Dime", 0.1)
	}
	assert.Equal(t, 1.0, c.Total())
}

func TestCart_LinesAreCopies(t *testing.T) {
	c := NewCartService()
	c.AddLine("Candy", "A", 1)
	lines := c.Lines()
	lines[0].Qty = 99
	assert.Equal(t, 1, c.Lines()[0].Qty)
}

func TestCart_Clear(t *testing.T) {
	c := NewCartService()
	c.AddLine("Candy", "A", 1)
	c.AddLine("Candy", "B", 1)

	old := c.Clear()
	assert.Len(t, old, 2)
	assert.Equal(t, 0, c.Len())
}
