package store

import "container/heap"

type Match struct {
	Index    uint32
	Distance float32
}

// MaxHeap implements heap.Interface with the farthest match at the root.
type MaxHeap []Match

func (h MaxHeap) Len() int           { return len(h) }
func (h MaxHeap) Less(i, j int) bool { return h[i].Distance > h[j].Distance }
func (h MaxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *MaxHeap) Push(x any) { *h = append(*h, x.(Match)) }

func (h *MaxHeap) Pop() any {
	old := *h
	m := old[len(old)-1]
	*h = old[:len(old)-1]
	return m
}

// nearest keeps the k closest matches offered to it.
type nearest struct {
	k int
	h MaxHeap
}

func newNearest(k int) *nearest {
	return &nearest{k: k, h: make(MaxHeap, 0, k)}
}

func (n *nearest) offer(m Match) {
	if n.k <= 0 {
		return
	}
	if len(n.h) < n.k {
		heap.Push(&n.h, m)
		return
	}
	if m.Distance < n.h[0].Distance {
		n.h[0] = m
		heap.Fix(&n.h, 0)
	}
}

// drain empties the heap and returns its matches closest first.
func (n *nearest) drain() []Match {
	out := make([]Match, len(n.h))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&n.h).(Match)
	}
	return out
}
