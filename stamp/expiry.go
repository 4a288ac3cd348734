package stamp

import "container/heap"

// expiryQueue is a min-heap of stamped resources ordered by expiry, then stamp order
type expiryQueue []*Resource

func (q expiryQueue) Len() int { return len(q) }

func (q expiryQueue) Less(i, j int) bool {
	ei, ej := q[i].ExpiresAt(), q[j].ExpiresAt()
	if ei.Equal(ej) {
		return q[i].seq < q[j].seq
	}
	return ei.Before(ej)
}

func (q expiryQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].heapIndex = i
	q[j].heapIndex = j
}

func (q *expiryQueue) Push(x any) {
	r := x.(*Resource)
	r.heapIndex = len(*q)
	*q = append(*q, r)
}

func (q *expiryQueue) Pop() any {
	old := *q
	n := len(old)
	r := old[n-1]
	old[n-1] = nil
	r.heapIndex = -1
	*q = old[:n-1]
	return r
}

// schedule inserts r or repositions it after a re-stamp
func (q *expiryQueue) schedule(r *Resource) {
	if r.heapIndex >= 0 {
		heap.Fix(q, r.heapIndex)
		return
	}
	heap.Push(q, r)
}

// unschedule removes r if present
func (q *expiryQueue) unschedule(r *Resource) {
	if r.heapIndex >= 0 {
		heap.Remove(q, r.heapIndex)
	}
}

// peek returns the earliest-expiring resource without removing it
func (q expiryQueue) peek() *Resource {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}
