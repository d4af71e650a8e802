package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sangkips/stall-pos/internal/config"
	"github.com/sangkips/stall-pos/internal/domain/entity"
	"github.com/sangkips/stall-pos/internal/domain/enum"
	"github.com/sangkips/stall-pos/pkg/apperror"
	"github.com/sangkips/stall-pos/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockOf(t *testing.T, r *Register, cat entity.Category, id string) int {
	t.Helper()
	items, ok := r.ItemsForCategory(cat, "")
	require.True(t, ok)
	for _, it := range items {
		if it.ID == id {
			return it.Stock
		}
	}
	t.Fatalf("item %s not found", id)
	return 0
}

func TestRegister_LollipopScenario(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg

	for i := 0; i < 3; i++ {
		require.True(t, r.AddFixedItem("lolly"))
	}

	st := r.State()
	require.Len(t, st.Lines, 1)
	assert.Equal(t, entity.LineItem{Category: "Candy", Label: "Lollipop", UnitAmount: 0.5, Qty: 3, ItemID: "lolly"}, st.Lines[0])
	assert.Equal(t, 1.5, st.Total)
	assert.InDelta(t, 1.3158, st.Tax.Subtotal, 0.0001)
	assert.InDelta(t, 0.1842, st.Tax.Tax, 0.0001)
	assert.Equal(t, 0, stockOf(t, r, "Candy", "lolly"))

	_, ok := r.OpenPayment()
	require.True(t, ok)
	view, ok := r.AddDenomination(2)
	require.True(t, ok)
	require.NotNil(t, view.Change)
	assert.InDelta(t, 0.5, *view.Change, 1e-9)
	assert.True(t, view.CanComplete)

	sale, ok := r.CompletePayment()
	require.True(t, ok)
	assert.Equal(t, 1.5, sale.Total)
	assert.Equal(t, enum.PaymentTypeCash, sale.PaymentType)
	assert.Equal(t, f.now, sale.Timestamp)

	st = r.State()
	assert.Empty(t, st.Lines)
	assert.Equal(t, 0.0, st.Total)
	assert.Equal(t, enum.PaymentStatusCompleted, st.Payment.Status)

	page := r.Sales(nil)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Candy x3", page.Items[0].Summary)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SalesCompleted.WithLabelValues("cash")))
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.LinesAdded.WithLabelValues("item")))
}

func TestRegister_InsufficientCashBlocksCompletion(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg
	require.True(t, r.SetActiveCategory("Thrift"))
	require.True(t, r.AddCustomPrice(10))

	_, ok := r.OpenPayment()
	require.True(t, ok)
	r.AddDenomination(5)
	view, _ := r.AddDenomination(2)
	assert.InDelta(t, -3.0, *view.Change, 1e-9)
	assert.Equal(t, enum.PaymentStatusInsufficient, view.Status)
	assert.False(t, view.CanComplete)

	_, ok = r.CompletePayment()
	assert.False(t, ok)
	assert.Equal(t, 0, r.Sales(nil).Pagination.TotalPages)

	r.AddDenomination(1)
	r.AddDenomination(1)
	view, _ = r.AddDenomination(1)
	assert.True(t, view.CanComplete)
	_, ok = r.CompletePayment()
	assert.True(t, ok)
}

func TestRegister_StockGatingAndCoupling(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg

	assert.False(t, r.AddFixedItem("gone"), "stock 0 cannot be sold")
	assert.Equal(t, 0.0, r.State().Total)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StockRejections))

	before := r.State().Total
	require.True(t, r.AddFixedItem("gummy"))
	assert.Equal(t, before+2, r.State().Total)
	assert.Equal(t, 0, stockOf(t, r, "Candy", "gummy"))

	assert.False(t, r.AddFixedItem("gummy"))
	assert.Equal(t, 2.0, r.State().Total)
	assert.Equal(t, 0, stockOf(t, r, "Candy", "gummy"))

	assert.False(t, r.AddFixedItem("nope"))
}

func TestRegister_FixedItemsOnlyFromActiveCategory(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	require.True(t, f.reg.SetActiveCategory("Thrift"))
	assert.False(t, f.reg.AddFixedItem("lolly"))
	assert.False(t, f.reg.SetActiveCategory("Unknown"))
}

func TestRegister_ZeroPriceItemIsNotSold(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg
	_, ok := r.SetItemField("Candy", "lolly", ItemFieldPrice, "nonsense")
	require.True(t, ok)

	assert.False(t, r.AddFixedItem("lolly"))
	assert.Equal(t, 3, stockOf(t, r, "Candy", "lolly"))
	assert.Empty(t, r.State().Lines)
}

func TestRegister_TaxToggleKeepsTotal(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg
	require.True(t, r.SetActiveCategory("Thrift"))
	r.AddCustomPrice(12.34)

	on := r.State()
	r.SetTaxEnabled(false)
	off := r.State()

	assert.Equal(t, on.Total, off.Total)
	assert.Equal(t, 12.34, off.Tax.Subtotal)
	assert.Equal(t, 0.0, off.Tax.Tax)
	assert.InDelta(t, on.Total, on.Tax.Subtotal+on.Tax.Tax, 0.005)
}

func TestRegister_SaleImmutableAfterCompletion(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg
	require.True(t, r.SetActiveCategory("Thrift"))
	r.AddQuickPrice(2)

	sale, ok := r.CompleteSale(enum.PaymentTypeCard)
	require.True(t, ok)

	r.AddQuickPrice(2)
	r.AddQuickPrice(2)
	r.UndoLast()

	stored, ok := r.Sale(sale.ID)
	require.True(t, ok)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, 1, stored.Lines[0].Qty)
	assert.Equal(t, 2.0, stored.RunningTotal)
}

func TestRegister_LedgerOrdering(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg
	require.True(t, r.SetActiveCategory("Thrift"))

	r.AddQuickPrice(1)
	s1, _ := r.CompleteSale(enum.PaymentTypeCash)
	r.AddQuickPrice(5)
	s2, _ := r.CompleteSale(enum.PaymentTypeCash)

	items := r.Sales(&pagination.PaginationParams{Page: 1, PerPage: 10}).Items
	require.Len(t, items, 2)
	assert.Equal(t, s2.ID, items[0].ID)
	assert.Equal(t, s1.ID, items[1].ID)
	assert.Equal(t, 6.0, items[0].RunningTotal)
}

func TestRegister_CompleteSaleWithEmptyCart(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	_, ok := f.reg.CompleteSale(enum.PaymentTypeCash)
	assert.False(t, ok)
	_, ok = f.reg.OpenPayment()
	assert.False(t, ok)
}

func TestRegister_QuickPriceMultiplier(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg
	require.True(t, r.SetActiveCategory("Thrift"))

	assert.False(t, r.SetMultiplier(0))
	assert.False(t, r.SetMultiplier(11))
	require.True(t, r.SetMultiplier(3))
	require.True(t, r.AddQuickPrice(5))

	st := r.State()
	require.Len(t, st.Lines, 1)
	assert.Equal(t, 3, st.Lines[0].Qty)
	assert.Equal(t, "$5", st.Lines[0].Label)
	assert.Equal(t, 15.0, st.Total)
	assert.Equal(t, 1, st.Multiplier)

	assert.False(t, r.AddQuickPrice(7), "not a tile of this category")
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.LinesAdded.WithLabelValues("quick")))
}

func TestRegister_CustomPriceNeedsPermission(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg

	require.True(t, r.SetActiveCategory("Books"))
	assert.False(t, r.AddCustomPrice(3))

	require.True(t, r.SetActiveCategory("Thrift"))
	assert.False(t, r.AddCustomPrice(0))
	assert.True(t, r.AddCustomPrice(3))
	assert.Equal(t, CustomLabel, r.State().Lines[0].Label)
}

func TestRegister_UndoDoesNotRestoreStockByDefault(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg
	r.AddFixedItem("lolly")
	r.AddFixedItem("lolly")

	_, ok := r.UndoLast()
	require.True(t, ok)
	r.UndoLast()
	_, ok = r.UndoLast()
	assert.False(t, ok)

	assert.Equal(t, 1, stockOf(t, r, "Candy", "lolly"))
}

func TestRegister_UndoRestoresStockWhenConfigured(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{RestoreOnUndo: true})
	r := f.reg
	r.AddFixedItem("lolly")
	r.AddFixedItem("lolly")

	r.UndoLast()
	assert.Equal(t, 2, stockOf(t, r, "Candy", "lolly"))

	r.ClearCart()
	assert.Equal(t, 3, stockOf(t, r, "Candy", "lolly"))
}

func TestRegister_ClearCartResetsTransientState(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg
	r.SetSearch("lol")
	r.AddFixedItem("lolly")
	r.SetMultiplier(4)
	r.OpenPayment()
	r.AddDenomination(20)

	r.ClearCart()
	st := r.State()
	assert.Empty(t, st.Lines)
	assert.Equal(t, "", st.Search)
	assert.Equal(t, 1, st.Multiplier)
	assert.Equal(t, enum.PaymentStatusClosed, st.Payment.Status)
	assert.Equal(t, 2, stockOf(t, r, "Candy", "lolly"))
}

func TestRegister_CancelPaymentKeepsCart(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg
	r.AddFixedItem("lolly")
	r.OpenPayment()
	r.AddDenomination(5)

	view, ok := r.CancelPayment()
	require.True(t, ok)
	assert.Equal(t, enum.PaymentStatusCancelled, view.Status)
	assert.Len(t, r.State().Lines, 1)
}

func TestRegister_CardPayment(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg
	r.AddFixedItem("gummy")
	r.OpenPayment()
	view, ok := r.SetPaymentType(enum.PaymentTypeCard)
	require.True(t, ok)
	assert.True(t, view.CanComplete)

	sale, ok := r.CompletePayment()
	require.True(t, ok)
	assert.Equal(t, enum.PaymentTypeCard, sale.PaymentType)
}

func TestRegister_DestructiveActionsNeedConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg
	r.AddFixedItem("lolly")
	sale, _ := r.CompleteSale(enum.PaymentTypeCash)

	_, _, err := r.Refund(ctx, NeverConfirm, sale.ID)
	assert.ErrorIs(t, err, apperror.ErrConfirmationRequired)
	_, err = r.ClearToday(ctx, NeverConfirm)
	assert.ErrorIs(t, err, apperror.ErrConfirmationRequired)
	_, err = r.ClearAll(ctx, nil)
	assert.ErrorIs(t, err, apperror.ErrConfirmationRequired)
	assert.ErrorIs(t, r.ResetCatalog(ctx, NeverConfirm), apperror.ErrConfirmationRequired)

	_, ok := r.Sale(sale.ID)
	assert.True(t, ok, "declined actions change nothing")
	assert.Equal(t, 2, stockOf(t, r, "Candy", "lolly"))

	var asked []string
	recorder := ConfirmFunc(func(_ context.Context, action string) bool {
		asked = append(asked, action)
		return true
	})
	require.NoError(t, r.ResetCatalog(ctx, recorder))
	assert.Equal(t, 3, stockOf(t, r, "Candy", "lolly"))
	assert.Equal(t, []string{ActionResetCatalog}, asked)
}

func TestRegister_RefundDoesNotRestoreStockByDefault(t *testing.T) {
	ctx := context.Background()
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg
	r.AddFixedItem("lolly")
	sale, _ := r.CompleteSale(enum.PaymentTypeCash)

	got, ok, err := r.Refund(ctx, AlwaysConfirm, sale.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sale.ID, got.ID)
	assert.Equal(t, 2, stockOf(t, r, "Candy", "lolly"))
	assert.Empty(t, r.Sales(nil).Items)

	_, ok, err = r.Refund(ctx, AlwaysConfirm, sale.ID)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Refunds))
}

func TestRegister_RefundRestoresStockWhenConfigured(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{RestoreOnRefund: true})
	r := f.reg
	r.AddFixedItem("lolly")
	r.AddFixedItem("lolly")
	require.True(t, r.SetActiveCategory("Thrift"))
	r.AddQuickPrice(1)
	sale, _ := r.CompleteSale(enum.PaymentTypeCash)
	assert.Equal(t, 1, stockOf(t, r, "Candy", "lolly"))

	_, ok, err := r.Refund(context.Background(), AlwaysConfirm, sale.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, stockOf(t, r, "Candy", "lolly"))
}

func TestRegister_ClearTodayAndTodayFiltering(t *testing.T) {
	ctx := context.Background()
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg
	require.True(t, r.SetActiveCategory("Thrift"))

	today := f.now
	f.now = today.AddDate(0, 0, -1)
	r.AddQuickPrice(5)
	r.CompleteSale(enum.PaymentTypeCash)

	f.now = today
	r.AddQuickPrice(2)
	r.CompleteSale(enum.PaymentTypeCard)

	rep := r.TodayReport()
	assert.Equal(t, 1, rep.Summary.Transactions)
	assert.Equal(t, 2.0, rep.Summary.Total)
	assert.Equal(t, 2.0, rep.Payments.Card)
	require.Len(t, rep.CategoryTotals, 1)
	assert.Equal(t, entity.CategoryTotal{Category: "Thrift", Total: 2}, rep.CategoryTotals[0])

	n, err := r.ClearToday(ctx, AlwaysConfirm)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	items := r.Sales(nil).Items
	require.Len(t, items, 1)
	assert.Equal(t, 5.0, items[0].Total)

	n, err = r.ClearAll(ctx, AlwaysConfirm)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegister_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg

	r.AddFixedItem("lolly")
	r.CompleteSale(enum.PaymentTypeCard)
	r.SetTaxEnabled(false)
	require.True(t, r.SetActiveCategory("Thrift"))
	_, ok := r.AddInventoryItem("Candy", "Taffy", 1.25, 4)
	require.True(t, ok)

	reloaded := f.build(config.StockPolicy{})
	reloaded.Load(ctx)

	assert.Equal(t, 2, stockOf(t, reloaded, "Candy", "lolly"))
	items, _ := reloaded.ItemsForCategory("Candy", "taffy")
	require.Len(t, items, 1)
	assert.Equal(t, 1.25, items[0].Price)

	prefs := reloaded.Prefs()
	assert.False(t, prefs.TaxEnabled)
	assert.Equal(t, entity.Category("Thrift"), prefs.ActiveCategory)

	sales := reloaded.Sales(nil).Items
	require.Len(t, sales, 1)
	assert.Equal(t, enum.PaymentTypeCard, sales[0].PaymentType)
	assert.Empty(t, reloaded.State().Lines, "the cart is not persisted")
}

func TestRegister_LoadFailsOpen(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	f.store.Put(entity.SnapshotInventory, []byte(`{not json`))
	f.store.Put(entity.SnapshotSales, []byte(`"nope"`))
	f.store.Put(entity.SnapshotUIPrefs, []byte(`{"taxEnabled": false, "activeCategory": "Gone"}`))

	r := f.build(config.StockPolicy{})
	r.Load(context.Background())

	assert.Equal(t, 3, stockOf(t, r, "Candy", "lolly"))
	assert.Empty(t, r.Sales(nil).Items)
	prefs := r.Prefs()
	assert.False(t, prefs.TaxEnabled)
	assert.Equal(t, entity.Category("Candy"), prefs.ActiveCategory)
}

func TestRegister_LoadReadsLegacySales(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	legacy := []map[string]interface{}{{
		"id":        1718035200000,
		"timestamp": "2024-06-10T10:00:00.000Z",
		"total":     1.5,
		"lines":     []map[string]interface{}{{"category": "Candy", "label": "Lollipop", "unitAmount": 0.5, "qty": 3}},
	}}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	f.store.Put(entity.SnapshotSales, data)

	r := f.build(config.StockPolicy{})
	r.Load(context.Background())

	rep := r.TodayReport()
	assert.Equal(t, 1.5, rep.Payments.Cash)
	require.Len(t, rep.ItemCounts, 1)
	assert.Equal(t, 3, rep.ItemCounts[0].Qty)
}

func TestRegister_LoadDropsOnlyMalformedSales(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	f.store.Put(entity.SnapshotSales, []byte(`[
		{"id":"1718013600000","timestamp":"2024-06-10T10:00:00Z","total":1,"paymentType":"cash","lines":[{"category":"Candy","label":"Lollipop","unitAmount":0.5,"qty":2}]},
		{"id":"1718017200000","timestamp":1718017200000,"total":2,"paymentType":"cash","lines":[]},
		{"id":"1718020800000","timestamp":"2024-06-10T12:00:00Z","total":0.5,"paymentType":"card","lines":[{"category":"Candy","label":"Lollipop","unitAmount":0.5,"qty":1}]}
	]`))

	r := f.build(config.StockPolicy{})
	r.Load(context.Background())
	require.Len(t, r.Sales(nil).Items, 2)

	require.True(t, r.AddFixedItem("lolly"))
	_, ok := r.CompleteSale(enum.PaymentTypeCard)
	require.True(t, ok)

	data, err := f.store.Load(context.Background(), entity.SnapshotSales)
	require.NoError(t, err)
	var stored []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Len(t, stored, 3)
}

func TestRegister_SaveFailuresAreSwallowed(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	f.store.FailSaves = errors.New("disk full")

	require.True(t, f.reg.AddFixedItem("lolly"))
	_, ok := f.reg.CompleteSale(enum.PaymentTypeCash)
	assert.True(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SnapshotWrites.WithLabelValues(entity.SnapshotSales, "error")))
}

func TestRegister_InventoryEdits(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg

	it, ok := r.AdjustStock("Candy", "gone", 5)
	require.True(t, ok)
	assert.Equal(t, 5, it.Stock)

	it, ok = r.SetItemField("Candy", "gone", ItemFieldName, "Fudge")
	require.True(t, ok)
	assert.Equal(t, "Fudge", it.Name)

	_, ok = r.ItemsForCategory("Nope", "")
	assert.False(t, ok)

	low := r.LowStock()
	require.Len(t, low, 1)
	assert.Equal(t, "gummy", low[0].Item.ID)
	assert.Greater(t, f.store.Saves(), 0)
}

func TestRegister_StateShowsActiveCategoryItems(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg
	r.SetSearch("gum")

	st := r.State()
	assert.Equal(t, entity.Category("Candy"), st.Category.Name)
	require.Len(t, st.Items, 1)
	assert.Equal(t, "gummy", st.Items[0].ID)
	assert.Equal(t, "HST", st.TaxLabel)
	assert.Equal(t, []float64{20, 10, 5, 2, 1, 0.25}, st.Denominations)
}

func TestRegister_CloseRegisterTables(t *testing.T) {
	f := newRegisterFixture(t, config.StockPolicy{})
	r := f.reg
	r.AddFixedItem("lolly")
	r.CompleteSale(enum.PaymentTypeCash)

	tables, date := r.CloseRegisterTables()
	assert.Equal(t, "2024-06-10", date)
	require.Len(t, tables, 5)
	assert.Len(t, r.Sales(nil).Items, 1, "export never clears")
}
