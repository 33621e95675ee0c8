package routing

import (
	"container/heap"

	"github.com/standardsats/eclair/graph"
)

// vertexDist couples a vertex with its current best accumulator, for
// storage in distanceHeap.
type vertexDist struct {
	vertex graph.NodeId
	dist   RichWeight

	// tieBreak is the predecessor channel id used to make the ordering
	// fully deterministic when two accumulators tie on (weight,
	// length): lower channel id sorts first.
	tieBreak uint64
}

// distanceHeap is a min-heap ordered by (weight, length, tieBreak), used to
// pick the next vertex to relax during the backward search. It tracks each
// vertex's position so that PushOrFix can decrease a key in place instead
// of leaving stale duplicate entries on the heap.
type distanceHeap struct {
	items []vertexDist
	index map[graph.NodeId]int
}

func newDistanceHeap() distanceHeap {
	return distanceHeap{index: make(map[graph.NodeId]int)}
}

func (h *distanceHeap) Len() int { return len(h.items) }

func (h *distanceHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.dist.Weight != b.dist.Weight {
		return a.dist.Weight < b.dist.Weight
	}
	if a.dist.Length != b.dist.Length {
		return a.dist.Length < b.dist.Length
	}

	return a.tieBreak < b.tieBreak
}

func (h *distanceHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.index[h.items[i].vertex] = i
	h.index[h.items[j].vertex] = j
}

func (h *distanceHeap) Push(x interface{}) {
	vd := x.(vertexDist)
	h.index[vd.vertex] = len(h.items)
	h.items = append(h.items, vd)
}

func (h *distanceHeap) Pop() interface{} {
	n := len(h.items)
	x := h.items[n-1]
	h.items = h.items[:n-1]
	delete(h.index, x.vertex)

	return x
}

// PushOrFix inserts vd, or if vd.vertex is already present, updates its
// entry in place and restores heap order. This keeps the heap bounded by
// |V| instead of accumulating one stale entry per relaxation.
func (h *distanceHeap) PushOrFix(vd vertexDist) {
	if idx, ok := h.index[vd.vertex]; ok {
		h.items[idx] = vd
		heap.Fix(h, idx)
		return
	}

	heap.Push(h, vd)
}
