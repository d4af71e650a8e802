package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sangkips/stall-pos/internal/config"
	"github.com/sangkips/stall-pos/internal/domain/entity"
	"github.com/sangkips/stall-pos/internal/domain/enum"
	"github.com/sangkips/stall-pos/internal/domain/repository"
	"github.com/sangkips/stall-pos/pkg/apperror"
	"github.com/sangkips/stall-pos/pkg/metrics"
	"github.com/sangkips/stall-pos/pkg/money"
	"github.com/sangkips/stall-pos/pkg/pagination"
	"go.uber.org/zap"
)

// Bounds of the quick-price multiplier.
const (
	MinMultiplier = 1
	MaxMultiplier = 10
)

// CustomLabel names cart lines entered as a free-form price.
const CustomLabel = "Custom"

// Line sources reported to metrics.
const (
	sourceItem   = "item"
	sourceQuick  = "quick"
	sourceCustom = "custom"
)

const snapshotTimeout = 5 * time.Second

// RegisterDeps wires a Register.
type RegisterDeps struct {
	Catalog *CatalogService
	Ledger  *LedgerService
	Tax     *TaxService
	Store   repository.SnapshotRepository
	Metrics *metrics.Metrics
	Logger  *zap.Logger

	// Clock defaults to time.Now; Location to time.Local. "Today" is the
	// calendar day of Clock() in Location.
	Clock    func() time.Time
	Location *time.Location

	StockPolicy       config.StockPolicy
	Denominations     []float64
	LowStockThreshold int
	TaxEnabled        bool
}

// RegisterState is the till screen.
type RegisterState struct {
	Lines         []entity.LineItem     `json:"lines"`
	Total         float64               `json:"total"`
	Tax           entity.TaxBreakdown   `json:"tax"`
	TaxLabel      string                `json:"taxLabel"`
	TaxRate       float64               `json:"taxRate"`
	Payment       PaymentView           `json:"payment"`
	Prefs         entity.UIPrefs        `json:"prefs"`
	Category      entity.CategoryConfig `json:"category"`
	Items         []entity.Item         `json:"items"`
	Search        string                `json:"search"`
	Multiplier    int                   `json:"multiplier"`
	Denominations []float64             `json:"denominations"`
}

// Register owns the whole till state and runs every cashier action against
// it under one lock, so a cart change and its stock change are never seen
// apart. After each change to inventory, ledger or preferences it writes a
// snapshot to the store.
type Register struct {
	mu sync.Mutex

	catalog *CatalogService
	cart    *CartService
	modal   *PaymentModal
	ledger  *LedgerService
	tax     *TaxService
	reports *ReportService

	prefs      entity.UIPrefs
	multiplier int
	search     string

	store   repository.SnapshotRepository
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
	loc     *time.Location

	policy        config.StockPolicy
	denominations []float64
	lowStock      int
	defaultTax    bool
}

// NewRegister creates a register with an empty cart and a closed pay modal.
// Call Load to pick up persisted state.
func NewRegister(d RegisterDeps) *Register {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Tax == nil {
		d.Tax = NewTaxService(0, "")
	}

	cats := d.Catalog.Categories()
	names := make([]entity.Category, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}

	r := &Register{
		catalog:       d.Catalog,
		cart:          NewCartService(),
		modal:         NewPaymentModal(),
		ledger:        d.Ledger,
		tax:           d.Tax,
		reports:       NewReportService(names),
		multiplier:    MinMultiplier,
		store:         d.Store,
		metrics:       d.Metrics,
		logger:        d.Logger,
		now:           d.Clock,
		loc:           d.Location,
		policy:        d.StockPolicy,
		denominations: append([]float64(nil), d.Denominations...),
		lowStock:      d.LowStockThreshold,
		defaultTax:    d.TaxEnabled,
	}
	r.prefs = r.defaultPrefs()
	return r
}

func (r *Register) defaultPrefs() entity.UIPrefs {
	return entity.UIPrefs{TaxEnabled: r.defaultTax, ActiveCategory: r.catalog.DefaultCategory()}
}

func (r *Register) today() time.Time {
	return r.now().In(r.loc)
}

// =============================================================================
// Persistence
// =============================================================================

// Load restores inventory, sales and preferences independently. Anything
// missing or unreadable falls back to defaults; Load never fails.
func (r *Register) Load(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.store == nil {
		return
	}

	var inv entity.Inventory
	if r.loadKey(ctx, entity.SnapshotInventory, &inv) {
		r.catalog.Restore(inv)
	}

	var rows []json.RawMessage
	if r.loadKey(ctx, entity.SnapshotSales, &rows) {
		sales, dropped := decodeSales(rows)
		if dropped += r.ledger.Restore(sales); dropped > 0 {
			r.logger.Warn("dropped unreadable sales from snapshot", zap.Int("dropped", dropped))
		}
	}

	prefs := r.defaultPrefs()
	if r.loadKey(ctx, entity.SnapshotUIPrefs, &prefs) {
		if _, ok := r.catalog.Config(prefs.ActiveCategory); !ok {
			prefs.ActiveCategory = r.catalog.DefaultCategory()
		}
	}
	r.prefs = prefs

	r.logger.Info("register state loaded",
		zap.Int("sales", r.ledger.Len()),
		zap.String("active_category", string(r.prefs.ActiveCategory)),
	)
}

func (r *Register) loadKey(ctx context.Context, key string, into interface{}) bool {
	data, err := r.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			r.logger.Debug("no snapshot stored, using defaults", zap.String("key", key))
		} else {
			r.logger.Warn("snapshot load failed, using defaults", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, into); err != nil {
		r.logger.Warn("snapshot malformed, using defaults", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// decodeSales reads each stored sale on its own so one bad row costs only
// that row.
func decodeSales(rows []json.RawMessage) ([]entity.Sale, int) {
	sales := make([]entity.Sale, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		var s entity.Sale
		if err := json.Unmarshal(row, &s); err != nil {
			dropped++
			continue
		}
		sales = append(sales, s)
	}
	return sales, dropped
}

// persist writes the named snapshots. Failures are logged and counted but
// never reach the cashier. Callers hold r.mu.
func (r *Register) persist(keys ...string) {
	if r.store == nil {
		return
	}
	for _, key := range keys {
		var v interface{}
		switch key {
		case entity.SnapshotInventory:
			v = r.catalog.Snapshot()
		case entity.SnapshotSales:
			v = r.ledger.List()
		case entity.SnapshotUIPrefs:
			v = r.prefs
		default:
			continue
		}

		data, err := json.Marshal(v)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
			err = r.store.Save(ctx, key, data)
			cancel()
		}
		r.metrics.RecordSnapshotWrite(key, err)
		if err != nil {
			r.logger.Error("snapshot save failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// =============================================================================
// Screen state and preferences
// =============================================================================

// State renders the till screen.
func (r *Register) State() RegisterState {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := r.cart.Total()
	cfg, _ := r.catalog.Config(r.prefs.ActiveCategory)
	return RegisterState{
		Lines:         r.cart.Lines(),
		Total:         total,
		Tax:           r.tax.Breakdown(total, r.prefs.TaxEnabled),
		TaxLabel:      r.tax.Label(),
		TaxRate:       r.tax.Rate(),
		Payment:       r.modal.View(total),
		Prefs:         r.prefs,
		Category:      cfg,
		Items:         r.catalog.ItemsForCategory(r.prefs.ActiveCategory, r.search),
		Search:        r.search,
		Multiplier:    r.multiplier,
		Denominations: append([]float64(nil), r.denominations...),
	}
}

// Categories lists the configured categories.
func (r *Register) Categories() []entity.CategoryConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.catalog.Categories()
}

// Prefs returns the current UI preferences.
func (r *Register) Prefs() entity.UIPrefs {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prefs
}

// SetActiveCategory switches the category the cashier sells from.
func (r *Register) SetActiveCategory(category entity.Category) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.catalog.Config(category); !ok {
		return false
	}
	r.prefs.ActiveCategory = category
	r.search = ""
	r.persist(entity.SnapshotUIPrefs)
	return true
}

// SetTaxEnabled toggles the tax split. The cart total does not change.
func (r *Register) SetTaxEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.TaxEnabled = enabled
	r.persist(entity.SnapshotUIPrefs)
}

// SetSearch filters the item grid of the active category.
func (r *Register) SetSearch(query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.search = query
}

// SetMultiplier sets how many units the next quick-price tap adds.
func (r *Register) SetMultiplier(n int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n < MinMultiplier || n > MaxMultiplier {
		return false
	}
	r.multiplier = n
	return true
}

// =============================================================================
// Inventory
// =============================================================================

// ItemsForCategory searches the items of a category.
func (r *Register) ItemsForCategory(category entity.Category, query string) ([]entity.Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.catalog.Config(category); !ok {
		return nil, false
	}
	return r.catalog.ItemsForCategory(category, query), true
}

// AddInventoryItem creates a stocked item.
func (r *Register) AddInventoryItem(category entity.Category, name string, price float64, stock int) (entity.Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.catalog.AddItem(category, name, price, stock)
	if ok {
		r.persist(entity.SnapshotInventory)
	}
	return item, ok
}

// SetItemField edits one field of an item.
func (r *Register) SetItemField(category entity.Category, itemID, field, value string) (entity.Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.catalog.SetItemField(category, itemID, field, value) {
		return entity.Item{}, false
	}
	r.persist(entity.SnapshotInventory)
	return r.catalog.Item(category, itemID)
}

// AdjustStock applies a manual +/- correction.
func (r *Register) AdjustStock(category entity.Category, itemID string, delta int) (entity.Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.catalog.AdjustStock(category, itemID, delta) {
		return entity.Item{}, false
	}
	r.persist(entity.SnapshotInventory)
	return r.catalog.Item(category, itemID)
}

// LowStock lists items at or below the configured threshold.
func (r *Register) LowStock() []LowStockItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.catalog.LowStock(r.lowStock)
}

// ResetCatalog restores the seed catalog once confirmed.
func (r *Register) ResetCatalog(ctx context.Context, c Confirmer) error {
	if !confirmed(ctx, c, ActionResetCatalog) {
		return apperror.ErrConfirmationRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.catalog.ResetToDefaults()
	r.persist(entity.SnapshotInventory)
	r.logger.Info("catalog reset to defaults")
	return nil
}

// =============================================================================
// Cart
// =============================================================================

// AddFixedItem sells one unit of a stocked item from the active category.
// The cart line and the stock decrement happen together or not at all.
func (r *Register) AddFixedItem(itemID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	category := r.prefs.ActiveCategory
	item, ok := r.catalog.Item(category, itemID)
	if !ok {
		return false
	}
	if item.Stock <= 0 {
		r.metrics.RecordStockRejection()
		r.logger.Debug("item out of stock", zap.String("item_id", itemID))
		return false
	}
	if !money.Positive(item.Price) {
		return false
	}

	r.cart.AddItemLine(category, item)
	r.catalog.DecrementStock(category, itemID)

	r.metrics.RecordLinesAdded(sourceItem, 1)
	r.cartChanged()
	r.persist(entity.SnapshotInventory)
	return true
}

// AddQuickPrice adds multiplier units of one of the active category's quick
// prices, then resets the multiplier to 1.
func (r *Register) AddQuickPrice(amount float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, ok := r.catalog.Config(r.prefs.ActiveCategory)
	if !ok || !money.Positive(amount) || !cfg.HasQuickPrice(amount, money.Equal) {
		return false
	}

	n := r.multiplier
	for i := 0; i < n; i++ {
		r.cart.AddLine(cfg.Name, money.Format(amount), amount)
	}
	r.multiplier = MinMultiplier

	r.metrics.RecordLinesAdded(sourceQuick, n)
	r.cartChanged()
	return true
}

// AddCustomPrice adds a free-form amount when the active category allows it.
func (r *Register) AddCustomPrice(amount float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, ok := r.catalog.Config(r.prefs.ActiveCategory)
	if !ok || !cfg.AllowCustom {
		return false
	}
	if !r.cart.AddLine(cfg.Name, CustomLabel, amount) {
		return false
	}

	r.metrics.RecordLinesAdded(sourceCustom, 1)
	r.cartChanged()
	return true
}

// AddLine adds one unit to the cart as-is. Categories must be configured.
func (r *Register) AddLine(category entity.Category, label string, amount float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.catalog.Config(category); !ok {
		return false
	}
	if !r.cart.AddLine(category, label, amount) {
		return false
	}
	r.cartChanged()
	return true
}

// UndoLast takes back the last unit added.
func (r *Register) UndoLast() (entity.LineItem, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, ok := r.cart.UndoLast()
	if !ok {
		return line, false
	}
	if r.policy.RestoreOnUndo && r.restoreStock([]entity.LineItem{line}) {
		r.persist(entity.SnapshotInventory)
	}
	r.cartChanged()
	return line, true
}

// ClearCart drops the sale in progress along with its search, multiplier
// and payment state.
func (r *Register) ClearCart() {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines := r.cart.Clear()
	if r.policy.RestoreOnUndo && r.restoreStock(lines) {
		r.persist(entity.SnapshotInventory)
	}
	r.modal.Close()
	r.multiplier = MinMultiplier
	r.search = ""
	r.cartChanged()
}

// restoreStock puts item lines back on the shelf and reports whether any
// stock moved.
func (r *Register) restoreStock(lines []entity.LineItem) bool {
	moved := false
	for _, l := range lines {
		if l.ItemID != "" && r.catalog.AdjustStock(l.Category, l.ItemID, l.Qty) {
			moved = true
		}
	}
	return moved
}

func (r *Register) cartChanged() {
	r.metrics.SetCartTotal(r.cart.Total())
}

// =============================================================================
// Payment
// =============================================================================

// OpenPayment opens the pay modal for the current total.
func (r *Register) OpenPayment() (PaymentView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := r.cart.Total()
	ok := r.modal.Open(total)
	return r.modal.View(total), ok
}

// AddDenomination adds a bill or coin to the tender.
func (r *Register) AddDenomination(value float64) (PaymentView, bool) {
	return r.tender(func(m *PaymentModal, _ float64) bool { return m.AddDenomination(value) })
}

// EnterDigit types on the tender numpad.
func (r *Register) EnterDigit(key string) (PaymentView, bool) {
	return r.tender(func(m *PaymentModal, _ float64) bool { return m.EnterDigit(key) })
}

// SetExact tenders exactly the total.
func (r *Register) SetExact() (PaymentView, bool) {
	return r.tender(func(m *PaymentModal, total float64) bool { return m.SetExact(total) })
}

// ClearTendered zeroes the tender.
func (r *Register) ClearTendered() (PaymentView, bool) {
	return r.tender(func(m *PaymentModal, _ float64) bool { return m.ClearTendered() })
}

// SetPaymentType switches between cash and card.
func (r *Register) SetPaymentType(pt enum.PaymentType) (PaymentView, bool) {
	return r.tender(func(m *PaymentModal, _ float64) bool { return m.SetPaymentType(pt) })
}

// CancelPayment closes the modal without touching the cart.
func (r *Register) CancelPayment() (PaymentView, bool) {
	return r.tender(func(m *PaymentModal, _ float64) bool { return m.Cancel() })
}

func (r *Register) tender(fn func(m *PaymentModal, total float64) bool) (PaymentView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := r.cart.Total()
	ok := fn(r.modal, total)
	return r.modal.View(total), ok
}

// CompletePayment records the sale once the modal allows it.
func (r *Register) CompletePayment() (entity.Sale, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.modal.CanComplete(r.cart.Total()) {
		return entity.Sale{}, false
	}
	return r.complete(r.modal.PaymentType())
}

// CompleteSale records the cart as a sale without going through the pay
// modal. Nothing happens for an empty or zero cart.
func (r *Register) CompleteSale(pt enum.PaymentType) (entity.Sale, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.complete(pt)
}

func (r *Register) complete(pt enum.PaymentType) (entity.Sale, bool) {
	total := r.cart.Total()
	sale, ok := r.ledger.Complete(r.cart.Lines(), total, pt, r.today())
	if !ok {
		return sale, false
	}

	r.cart.Clear()
	r.modal.MarkCompleted()
	r.multiplier = MinMultiplier
	r.search = ""

	r.metrics.RecordSale(pt.String(), total)
	r.cartChanged()
	r.persist(entity.SnapshotSales)
	r.logger.Info("sale completed",
		zap.String("sale_id", sale.ID.String()),
		zap.Float64("total", total),
		zap.String("payment_type", pt.String()),
	)
	return sale, true
}

// =============================================================================
// Ledger
// =============================================================================

// Sales returns one page of the sales history, most recent first.
func (r *Register) Sales(params *pagination.PaginationParams) *pagination.PaginatedResult[SaleView] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.Page(params)
}

// Sale returns one sale with its running total.
func (r *Register) Sale(id entity.SaleID) (SaleView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sale, ok := r.ledger.Get(id)
	if !ok {
		return SaleView{}, false
	}
	running, _ := r.ledger.RunningTotal(id)
	return SaleView{Sale: sale, RunningTotal: running, Summary: CategorySummary(sale)}, true
}

// Refund removes a sale from the ledger once confirmed. ok is false when no
// such sale exists.
func (r *Register) Refund(ctx context.Context, c Confirmer, id entity.SaleID) (sale entity.Sale, ok bool, err error) {
	if !confirmed(ctx, c, ActionRefund) {
		return entity.Sale{}, false, apperror.ErrConfirmationRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sale, ok = r.ledger.Refund(id)
	if !ok {
		return sale, false, nil
	}
	keys := []string{entity.SnapshotSales}
	if r.policy.RestoreOnRefund && r.restoreStock(sale.Lines) {
		keys = append(keys, entity.SnapshotInventory)
	}
	r.persist(keys...)
	r.metrics.RecordRefund()
	r.logger.Info("sale refunded", zap.String("sale_id", sale.ID.String()), zap.Float64("total", sale.Total))
	return sale, true, nil
}

// ClearToday removes today's sales once confirmed.
func (r *Register) ClearToday(ctx context.Context, c Confirmer) (int, error) {
	if !confirmed(ctx, c, ActionClearToday) {
		return 0, apperror.ErrConfirmationRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.ledger.ClearToday(r.today())
	r.persist(entity.SnapshotSales)
	r.metrics.RecordCleared("today", n)
	r.logger.Info("today's sales cleared", zap.Int("removed", n))
	return n, nil
}

// ClearAll empties the ledger once confirmed.
func (r *Register) ClearAll(ctx context.Context, c Confirmer) (int, error) {
	if !confirmed(ctx, c, ActionClearAll) {
		return 0, apperror.ErrConfirmationRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.ledger.ClearAll()
	r.persist(entity.SnapshotSales)
	r.metrics.RecordCleared("all", n)
	r.logger.Info("sales history cleared", zap.Int("removed", n))
	return n, nil
}

// =============================================================================
// Reports
// =============================================================================

// TodayReport summarises today's sales.
func (r *Register) TodayReport() TodayReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reports.Today(r.ledger.List(), r.today())
}

// CloseRegisterTables returns today's export tables and the date they cover.
func (r *Register) CloseRegisterTables() ([]entity.ReportTable, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.today()
	return r.reports.CloseRegisterTables(r.ledger.List(), now), now.Format("2006-01-02")
}
