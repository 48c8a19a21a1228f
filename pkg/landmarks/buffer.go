package landmarks

// Buffer is a fixed-capacity, insertion-ordered ring of recent landmark
// sets. When full, the oldest set is evicted. Rules that need multi-frame
// context (oscillation counting) read it oldest-first.
//
// Buffer is not safe for concurrent use; it is owned by a single detector.
type Buffer struct {
	frames []Set
	cap    int
}

// NewBuffer creates a buffer holding up to capacity landmark sets.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		frames: make([]Set, 0, capacity),
		cap:    capacity,
	}
}

// Push copies the set into the buffer, evicting the oldest entry when at
// capacity. The copy means callers may reuse their slice.
func (b *Buffer) Push(s Set) {
	if len(b.frames) == b.cap {
		copy(b.frames, b.frames[1:])
		b.frames = b.frames[:b.cap-1]
	}
	b.frames = append(b.frames, s.Clone())
}

// Len returns the number of buffered sets.
func (b *Buffer) Len() int {
	return len(b.frames)
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return b.cap
}

// At returns the i-th buffered set, oldest first.
func (b *Buffer) At(i int) Set {
	return b.frames[i]
}

// Each calls fn for every buffered set, oldest first.
func (b *Buffer) Each(fn func(Set)) {
	for _, f := range b.frames {
		fn(f)
	}
}
