package utils

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// NewItemID generates the id of a catalog item
func NewItemID() string {
	return uuid.New().String()
}

// SaleIDGenerator hands out unique, time-ordered sale ids.
type SaleIDGenerator interface {
	Next() int64
}

type snowflakeGenerator struct {
	mu   sync.Mutex
	node *snowflake.Node
}

var epochOnce sync.Once

// NewSaleIDGenerator creates a snowflake generator for the given till node (0-1023).
// Ids embed the creation time in milliseconds since 2020-01-01.
func NewSaleIDGenerator(node int64) (SaleIDGenerator, error) {
	epochOnce.Do(func() {
		snowflake.Epoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	})
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}
	return &snowflakeGenerator{node: n}, nil
}

func (g *snowflakeGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.node.Generate().Int64()
}
