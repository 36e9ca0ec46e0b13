package asyncpipe

// ringBuffer is a fixed-capacity FIFO. It is not safe for concurrent use;
// the owning pipe serializes access.
type ringBuffer struct {
	data []byte
	head int // index of the oldest byte
	n    int // bytes stored
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{data: make([]byte, size)}
}

// read moves up to len(dst) bytes out of the ring and returns how many were copied.
func (r *ringBuffer) read(dst []byte) int {
	toRead := min(r.n, len(dst))
	if toRead == 0 {
		return 0
	}

	first := min(toRead, len(r.data)-r.head)
	copy(dst[:first], r.data[r.head:r.head+first])
	copy(dst[first:toRead], r.data[:toRead-first])

	r.head = (r.head + toRead) % len(r.data)
	r.n -= toRead
	if r.n == 0 {
		r.head = 0
	}
	return toRead
}

// write stores as much of src as fits and returns how many bytes were accepted.
func (r *ringBuffer) write(src []byte) int {
	toWrite := min(len(r.data)-r.n, len(src))
	if toWrite == 0 {
		return 0
	}

	tail := (r.head + r.n) % len(r.data)
	first := min(toWrite, len(r.data)-tail)
	copy(r.data[tail:tail+first], src[:first])
	copy(r.data[:toWrite-first], src[first:toWrite])

	r.n += toWrite
	return toWrite
}

func (r *ringBuffer) len() int {
	return r.n
}

func (r *ringBuffer) empty() bool {
	return r.n == 0
}

func (r *ringBuffer) full() bool {
	return r.n == len(r.data)
}
