package routing

import "sort"

type queueItem struct {
	NodeID   string
	Priority float64
	Index    int
}

// PriorityQueue is a min-heap on accumulated cost. Equal costs are ordered by
// node id so that repeated runs pop nodes in the same order.
type PriorityQueue []*queueItem

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	return pq[i].before(pq[j])
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*queueItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	*pq = old[0 : n-1]
	return item
}

func (a *queueItem) before(b *queueItem) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.NodeID < b.NodeID
}

// snapshot lists queued node ids in pop order. Stale entries for nodes that
// were already finalized are included.
func (pq PriorityQueue) snapshot() []string {
	items := make([]*queueItem, len(pq))
	copy(items, pq)
	sort.Slice(items, func(i, j int) bool { return items[i].before(items[j]) })

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.NodeID
	}
	return ids
}
