package service

import (
	"testing"
	"time"

	"github.com/sangkips/stall-pos/internal/config"
	infraRepo "github.com/sangkips/stall-pos/internal/infrastructure/repository"
	"github.com/sangkips/stall-pos/pkg/metrics"
	"go.uber.org/zap"
)

// seqIDs hands out 1, 2, 3...
type seqIDs struct{ n int64 }

func (s *seqIDs) Next() int64 {
	s.n++
	return s.n
}

func testCatalog() *config.CatalogConfig {
	return &config.CatalogConfig{
		Categories: []config.CategorySeed{
			{
				Name:        "Candy",
				QuickPrices: []float64{0.5, 1},
				TrackStock:  true,
				Items: []config.ItemSeed{
					{ID: "lolly", Name: "Lollipop", Price: 0.5, Stock: 3},
					{ID: "gummy", Name: "Gummy Bears", Price: 2, Stock: 1},
					{ID: "gone", Name: "Sold Out Fudge", Price: 4, Stock: 0},
				},
			},
			{Name: "Thrift", QuickPrices: []float64{1, 2, 5}, AllowCustom: true},
			{Name: "Books", QuickPrices: []float64{2}},
		},
	}
}

func fixedIDs() func() string {
	n := 0
	return func() string {
		n++
		return "item-" + string(rune('a'+n-1))
	}
}

type registerFixture struct {
	reg     *Register
	store   *infraRepo.MemorySnapshotRepository
	metrics *metrics.Metrics
	now     time.Time
}

func newRegisterFixture(t *testing.T, policy config.StockPolicy) *registerFixture {
	t.Helper()
	f := &registerFixture{
		store:   infraRepo.NewMemorySnapshotRepository(),
		metrics: metrics.New("test"),
		now:     time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC),
	}
	f.reg = f.build(policy)
	return f
}

func (f *registerFixture) build(policy config.StockPolicy) *Register {
	return NewRegister(RegisterDeps{
		Catalog:           NewCatalogService(testCatalog(), fixedIDs()),
		Ledger:            NewLedgerService(&seqIDs{}),
		Tax:               NewTaxService(0.14, "HST"),
		Store:             f.store,
		Metrics:           f.metrics,
		Logger:            zap.NewNop(),
		Clock:             func() time.Time { return f.now },
		Location:          time.UTC,
		StockPolicy:       policy,
		Denominations:     []float64{20, 10, 5, 2, 1, 0.25},
		LowStockThreshold: 1,
		TaxEnabled:        true,
	})
}
