package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinHeap(t *testing.T) {
	testCases := []struct {
		name string
		d    int
	}{
		{name: "binary", d: 2},
		{name: "four-ary", d: 4},
		{name: "eight-ary", d: 8},
	}

	ranks := []float64{5, 3, 9, 1, 7, 3, 0.5, 12, 4, 3}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			h := NewdAryHeap[int](tt.d)
			items := make([]*PriorityQueueNode[int], len(ranks))
			for i, r := range ranks {
				items[i] = NewPriorityQueueNode(r, i)
				h.Insert(items[i])
			}
			require.Equal(t, len(ranks), h.Size())

			require.NoError(t, h.DecreaseKey(items[7], 2))
			assert.Error(t, h.DecreaseKey(items[7], 8))

			got := make([]int, 0, len(ranks))
			for !h.IsEmpty() {
				item, err := h.ExtractMin()
				require.NoError(t, err)
				got = append(got, item.GetItem())
			}
			// equal ranks leave in insertion order
			assert.Equal(t, []int{6, 3, 7, 1, 5, 9, 8, 0, 4, 2}, got)

			_, err := h.ExtractMin()
			assert.Error(t, err)
			assert.Error(t, h.DecreaseKey(items[0], 0))
		})
	}
}

func TestMinHeapClear(t *testing.T) {
	h := NewBinaryHeap[string]()
	h.Insert(NewPriorityQueueNode(2, "b"))
	h.Insert(NewPriorityQueueNode(1, "a"))
	minItem, err := h.GetMin()
	require.NoError(t, err)
	assert.Equal(t, "a", minItem.GetItem())
	assert.Equal(t, 1.0, h.GetMinRank())

	h.Clear()
	assert.True(t, h.IsEmpty())
	_, err = h.GetMin()
	assert.Error(t, err)
}
