package pool

// Memory is the byte region a Pool carves buffers out of. Grow must keep
// the existing contents at the same offsets.
type Memory interface {
	Bytes() []byte
	Grow(size int) error
	Close() error
}

// Heap is process-private Memory, used when nothing outside the process
// reads the pixels (tests, PutImage uploads).
type Heap struct {
	data []byte
}

func NewHeap(size int) *Heap {
	return &Heap{data: make([]byte, max(size, 0))}
}

func (h *Heap) Bytes() []byte {
	return h.data
}

func (h *Heap) Grow(size int) error {
	if size <= len(h.data) {
		return nil
	}
	data := make([]byte, size)
	copy(data, h.data)
	h.data = data
	return nil
}

func (h *Heap) Close() error {
	h.data = nil
	return nil
}
