package astar

import "github.com/katalvlaran/warepath/grid"

// frontierItem is one frontier entry. g is the cost recorded when the entry
// was pushed; seq orders entries with equal f by insertion.
type frontierItem struct {
	node grid.Coordinate
	g    int
	f    int
	seq  uint64
}

// frontier is a min-heap on (f, seq) for use with container/heap.
type frontier []frontierItem

func (pq frontier) Len() int { return len(pq) }

func (pq frontier) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq frontier) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *frontier) Push(x any) { *pq = append(*pq, x.(frontierItem)) }

func (pq *frontier) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
