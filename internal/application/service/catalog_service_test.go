package service

import (
	"math"
	"testing"

	"github.com/sangkips/stall-pos/internal/domain/entity"
	"github.com/sangkips/stall-pos/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_ItemsForCategory(t *testing.T) {
	c := NewCatalogService(testCatalog(), fixedIDs())

	assert.Len(t, c.ItemsForCategory("Candy", ""), 3)

	found := c.ItemsForCategory("Candy", "LOLLI")
	require.Len(t, found, 1)
	assert.Equal(t, "lolly", found[0].ID)

	assert.Empty(t, c.ItemsForCategory("Candy", "licorice"))

	thrift := c.ItemsForCategory("Thrift", "")
	assert.NotNil(t, thrift)
	assert.Empty(t, thrift)
	assert.Empty(t, c.ItemsForCategory("Nope", ""))
}

func TestCatalog_StockNeverNegative(t *testing.T) {
	c := NewCatalogService(testCatalog(), fixedIDs())

	for i := 0; i < 5; i++ {
		assert.True(t, c.DecrementStock("Candy", "gummy"))
	}
	it, _ := c.Item("Candy", "gummy")
	assert.Equal(t, 0, it.Stock)

	assert.True(t, c.AdjustStock("Candy", "lolly", -100))
	it, _ = c.Item("Candy", "lolly")
	assert.Equal(t, 0, it.Stock)

	assert.True(t, c.AdjustStock("Candy", "lolly", 4))
	it, _ = c.Item("Candy", "lolly")
	assert.Equal(t, 4, it.Stock)

	assert.False(t, c.DecrementStock("Candy", "missing"))
	assert.False(t, c.AdjustStock("Thrift", "lolly", 1))
}

func TestCatalog_StockIsBounded(t *testing.T) {
	c := NewCatalogService(testCatalog(), fixedIDs())

	assert.True(t, c.AdjustStock("Candy", "lolly", math.MaxInt))
	it, _ := c.Item("Candy", "lolly")
	assert.Equal(t, money.MaxCount, it.Stock)

	assert.True(t, c.AdjustStock("Candy", "lolly", math.MaxInt))
	it, _ = c.Item("Candy", "lolly")
	assert.Equal(t, money.MaxCount, it.Stock)

	assert.True(t, c.AdjustStock("Candy", "lolly", math.MinInt))
	it, _ = c.Item("Candy", "lolly")
	assert.Equal(t, 0, it.Stock)

	assert.True(t, c.SetItemField("Candy", "lolly", ItemFieldStock, "1e30"))
	it, _ = c.Item("Candy", "lolly")
	assert.Equal(t, money.MaxCount, it.Stock)
}

func TestCatalog_SetItemField(t *testing.T) {
	c := NewCatalogService(testCatalog(), fixedIDs())

	assert.True(t, c.SetItemField("Candy", "lolly", ItemFieldName, "  Big Lollipop "))
	assert.True(t, c.SetItemField("Candy", "lolly", ItemFieldPrice, "0.75"))
	assert.True(t, c.SetItemField("Candy", "lolly", ItemFieldStock, "12"))
	it, _ := c.Item("Candy", "lolly")
	assert.Equal(t, entity.Item{ID: "lolly", Name: "Big Lollipop", Price: 0.75, Stock: 12}, it)

	assert.True(t, c.SetItemField("Candy", "lolly", ItemFieldPrice, "abc"))
	assert.True(t, c.SetItemField("Candy", "lolly", ItemFieldStock, "lots"))
	it, _ = c.Item("Candy", "lolly")
	assert.Equal(t, 0.0, it.Price)
	assert.Equal(t, 0, it.Stock)

	assert.True(t, c.SetItemField("Candy", "lolly", ItemFieldStock, "-3"))
	it, _ = c.Item("Candy", "lolly")
	assert.Equal(t, 0, it.Stock)

	assert.False(t, c.SetItemField("Candy", "lolly", "colour", "red"))
	assert.False(t, c.SetItemField("Candy", "missing", ItemFieldName, "x"))
}

func TestCatalog_AddItem(t *testing.T) {
	c := NewCatalogService(testCatalog(), fixedIDs())

	it, ok := c.AddItem("Candy", " Taffy ", 1.25, -2)
	require.True(t, ok)
	assert.Equal(t, "item-a", it.ID)
	assert.Equal(t, "Taffy", it.Name)
	assert.Equal(t, 0, it.Stock)
	assert.Len(t, c.ItemsForCategory("Candy", ""), 4)

	_, ok = c.AddItem("Thrift", "Lamp", 5, 1)
	assert.False(t, ok, "category does not track stock")
	_, ok = c.AddItem("Candy", "   ", 1, 1)
	assert.False(t, ok, "blank name")
	_, ok = c.AddItem("Candy", "Free", 0, 1)
	assert.False(t, ok, "price must be positive")
	_, ok = c.AddItem("Candy", "Weird", -1, 1)
	assert.False(t, ok)
}

func TestCatalog_ResetToDefaults(t *testing.T) {
	c := NewCatalogService(testCatalog(), fixedIDs())
	c.AddItem("Candy", "Taffy", 1, 1)
	c.DecrementStock("Candy", "lolly")

	c.ResetToDefaults()
	items := c.ItemsForCategory("Candy", "")
	require.Len(t, items, 3)
	assert.Equal(t, 3, items[0].Stock)

	// The seed itself is not shared with the live list.
	c.DecrementStock("Candy", "lolly")
	c.ResetToDefaults()
	it, _ := c.Item("Candy", "lolly")
	assert.Equal(t, 3, it.Stock)
}

func TestCatalog_LowStock(t *testing.T) {
	c := NewCatalogService(testCatalog(), fixedIDs())
	low := c.LowStock(1)
	require.Len(t, low, 2)
	assert.Equal(t, "gummy", low[0].Item.ID)
	assert.Equal(t, "gone", low[1].Item.ID)
}

func TestCatalog_Restore(t *testing.T) {
	c := NewCatalogService(testCatalog(), fixedIDs())
	c.Restore(entity.Inventory{
		"Candy":  {{ID: "lolly", Name: "Lollipop", Price: 0.5, Stock: -4}, {ID: "", Name: "Mint", Price: 0.1, Stock: 2}},
		"Thrift": {{ID: "x", Name: "Lamp", Price: 5, Stock: 1}},
		"Ghost":  {{ID: "y", Name: "Boo", Price: 1, Stock: 1}},
	})

	items := c.ItemsForCategory("Candy", "")
	require.Len(t, items, 2)
	assert.Equal(t, 0, items[0].Stock)
	assert.Equal(t, "item-a", items[1].ID)
	assert.Empty(t, c.ItemsForCategory("Thrift", ""))

	snap := c.Snapshot()
	_, hasGhost := snap["Ghost"]
	assert.False(t, hasGhost)
}
