package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleIDGenerator_UniqueAndIncreasing(t *testing.T) {
	gen, err := NewSaleIDGenerator(1)
	require.NoError(t, err)

	prev := gen.Next()
	seen := map[int64]bool{prev: true}
	for i := 0; i < 1000; i++ {
		id := gen.Next()
		assert.Greater(t, id, prev)
		assert.False(t, seen[id])
		seen[id] = true
		prev = id
	}
}

func TestSaleIDGenerator_RejectsBadNode(t *testing.T) {
	_, err := NewSaleIDGenerator(5000)
	assert.Error(t, err)
}

func TestNewItemID(t *testing.T) {
	assert.NotEqual(t, NewItemID(), NewItemID())
	assert.Len(t, NewItemID(), 36)
}
