package queue

// PriorityQueueItem represents an item in the priority queue.
type PriorityQueueItem struct {
	Node     uint32  // Node is the value of the item, typically a record position.
	Seq      uint64  // Seq is the discovery order; lower means seen earlier.
	Distance float64 // Distance is the priority of the item in the queue.
}

// before reports whether a ranks ahead of b in ascending result order:
// smaller distance first, then earlier discovery.
func before(a, b PriorityQueueItem) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Seq < b.Seq
}

// PriorityQueue is a binary max-heap over PriorityQueueItems.
//
// The worst item (largest distance, latest seq) sits on top, which is what
// a bounded top-k collector evicts.
type PriorityQueue struct {
	items []PriorityQueueItem
}

// NewMax initializes a new priority queue with maximum priority.
func NewMax(capacity int) *PriorityQueue {
	return &PriorityQueue{
		items: make([]PriorityQueueItem, 0, capacity),
	}
}

// PushItem inserts an item while maintaining the heap invariant.
func (pq *PriorityQueue) PushItem(item PriorityQueueItem) {
	pq.items = append(pq.items, item)
	pq.siftUp(len(pq.items) - 1)
}

// PushItemBounded inserts an item into a queue holding at most capacity
// items. Once full, the item replaces the top only if it ranks strictly
// ahead of it, so an equal-distance late arrival never evicts an earlier one.
// It reports whether the item was retained.
func (pq *PriorityQueue) PushItemBounded(item PriorityQueueItem, capacity int) bool {
	if capacity <= 0 {
		return false
	}
	if len(pq.items) < capacity {
		pq.PushItem(item)
		return true
	}
	if !before(item, pq.items[0]) {
		return false
	}

	pq.items[0] = item
	pq.siftDown(0)
	return true
}

// PopItem removes and returns the worst item while maintaining the heap invariant.
func (pq *PriorityQueue) PopItem() (PriorityQueueItem, bool) {
	n := len(pq.items)
	if n == 0 {
		return PriorityQueueItem{}, false
	}
	root := pq.items[0]
	last := pq.items[n-1]
	pq.items[n-1] = PriorityQueueItem{}
	pq.items = pq.items[:n-1]
	if n-1 > 0 {
		pq.items[0] = last
		pq.siftDown(0)
	}
	return root, true
}

// DrainAscending empties the queue and returns its items ordered by
// ascending distance, ties by discovery order.
func (pq *PriorityQueue) DrainAscending() []PriorityQueueItem {
	out := make([]PriorityQueueItem, len(pq.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i], _ = pq.PopItem()
	}
	return out
}

// above reports whether the item at i belongs above the item at j.
func (pq *PriorityQueue) above(i, j int) bool {
	return before(pq.items[j], pq.items[i])
}

func (pq *PriorityQueue) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !pq.above(i, p) {
			return
		}
		pq.items[i], pq.items[p] = pq.items[p], pq.items[i]
		i = p
	}
}

func (pq *PriorityQueue) siftDown(i int) {
	n := len(pq.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		r := l + 1
		if r < n && pq.above(r, l) {
			best = r
		}
		if !pq.above(best, i) {
			return
		}
		pq.items[i], pq.items[best] = pq.items[best], pq.items[i]
		i = best
	}
}

// Len returns the number of elements in the priority queue.
func (pq *PriorityQueue) Len() int { return len(pq.items) }

// Reset clears the priority queue for reuse.
func (pq *PriorityQueue) Reset() {
	pq.items = pq.items[:0]
}
