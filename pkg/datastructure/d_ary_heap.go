package datastructure

import (
	"errors"
)

var (
	ErrEmptyHeap       = errors.New("heap is empty")
	ErrInvalidDecrease = errors.New("invalid heap position or rank")
)

type PriorityQueueNode[T comparable] struct {
	rank    float64
	item    T
	itemPos int
}

func (p *PriorityQueueNode[T]) GetItem() T {
	return p.item
}

func (p *PriorityQueueNode[T]) GetRank() float64 {
	return p.rank
}

func (p *PriorityQueueNode[T]) setRank(rank float64) {
	p.rank = rank
}

func (p *PriorityQueueNode[T]) setPos(i int) {
	p.itemPos = i
}

// GetPos is the position of the node inside the heap array, -1 once extracted.
func (p *PriorityQueueNode[T]) GetPos() int {
	return p.itemPos
}

func NewPriorityQueueNode[T comparable](rank float64, item T) *PriorityQueueNode[T] {
	return &PriorityQueueNode[T]{rank: rank, item: item}
}

// MinHeap d-ary min heap with decrease-key. nodes track their own position so
// DecreaseKey is O(log_d n).
type MinHeap[T comparable] struct {
	heap []*PriorityQueueNode[T]
	d    int
}

func NewFourAryHeap[T comparable]() *MinHeap[T] {
	return NewdAryHeap[T](4)
}

func NewdAryHeap[T comparable](d int) *MinHeap[T] {
	if d < 2 {
		d = 2
	}
	return &MinHeap[T]{
		heap: make([]*PriorityQueueNode[T], 0),
		d:    d,
	}
}

func (h *MinHeap[T]) Preallocate(maxSearchSize int) {
	h.heap = make([]*PriorityQueueNode[T], 0, maxSearchSize)
}

func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / h.d
}

// siftUp moves the node at index towards the root while it is smaller than its parent.
func (h *MinHeap[T]) siftUp(index int) {
	for index != 0 && h.heap[index].rank < h.heap[h.parent(index)].rank {
		h.swap(index, h.parent(index))
		index = h.parent(index)
	}
}

// siftDown moves the node at index towards the leaves while a child is smaller.
func (h *MinHeap[T]) siftDown(index int) {
	for {
		firstChild := index*h.d + 1
		if firstChild >= len(h.heap) {
			return
		}

		sentinel := min(firstChild+h.d, len(h.heap))

		smallest := firstChild
		for i := firstChild + 1; i < sentinel; i++ {
			if h.heap[i].rank < h.heap[smallest].rank {
				smallest = i
			}
		}

		if h.heap[smallest].rank >= h.heap[index].rank {
			return
		}
		h.swap(index, smallest)
		index = smallest
	}
}

func (h *MinHeap[T]) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]

	h.heap[i].setPos(i)
	h.heap[j].setPos(j)
}

func (h *MinHeap[T]) IsEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) Clear() {
	h.heap = h.heap[:0]
}

func (h *MinHeap[T]) GetMin() (*PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return nil, ErrEmptyHeap
	}
	return h.heap[0], nil
}

func (h *MinHeap[T]) Insert(node *PriorityQueueNode[T]) {
	h.heap = append(h.heap, node)
	index := h.Size() - 1
	node.setPos(index)
	h.siftUp(index)
}

// ExtractMin pops the node with the smallest rank.
func (h *MinHeap[T]) ExtractMin() (*PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return nil, ErrEmptyHeap
	}
	root := h.heap[0]
	last := h.Size() - 1

	h.swap(0, last)
	h.heap[last] = nil
	h.heap = h.heap[:last]
	root.setPos(-1)
	if len(h.heap) > 0 {
		h.siftDown(0)
	}

	return root, nil
}

// DecreaseKey lowers the rank of a node still in the heap.
func (h *MinHeap[T]) DecreaseKey(node *PriorityQueueNode[T], rank float64) error {
	pos := node.GetPos()
	if pos < 0 || pos >= h.Size() || h.heap[pos] != node || node.GetRank() < rank {
		return ErrInvalidDecrease
	}

	node.setRank(rank)
	h.siftUp(pos)
	return nil
}
