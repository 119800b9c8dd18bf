package mmcq

import "container/heap"

type lessFunc func(a, b *VBox) bool

func byCount(a, b *VBox) bool {
	return a.count < b.count
}

// byProduct orders by population times volume, falling back to volume alone
// when the populations match.
func byProduct(a, b *VBox) bool {
	if a.count == b.count {
		return a.volume < b.volume
	}
	return int64(a.count)*int64(a.volume) < int64(b.count)*int64(b.volume)
}

// boxQueue is a max-heap of boxes under less: the top is the box that would
// sort last in ascending order.
type boxQueue struct {
	boxes []*VBox
	less  lessFunc
}

func (q *boxQueue) Len() int           { return len(q.boxes) }
func (q *boxQueue) Less(i, j int) bool { return q.less(q.boxes[j], q.boxes[i]) }
func (q *boxQueue) Swap(i, j int)      { q.boxes[i], q.boxes[j] = q.boxes[j], q.boxes[i] }

func (q *boxQueue) Push(x any) {
	q.boxes = append(q.boxes, x.(*VBox))
}

func (q *boxQueue) Pop() any {
	n := len(q.boxes)
	v := q.boxes[n-1]
	q.boxes[n-1] = nil
	q.boxes = q.boxes[:n-1]
	return v
}

func (q *boxQueue) reorder(less lessFunc) {
	q.less = less
	heap.Init(q)
}
