package asyncpipe

// buffer is the byte storage behind a pipe.
type buffer interface {
	read(dst []byte) int
	write(src []byte) int
	len() int
	empty() bool
	full() bool
}

var (
	_ buffer = (*ringBuffer)(nil)
	_ buffer = (*growBuffer)(nil)
)

// growBuffer is an unbounded FIFO. It never reports full.
type growBuffer struct {
	data []byte
	off  int
}

func (g *growBuffer) read(dst []byte) int {
	n := copy(dst, g.data[g.off:])
	g.off += n
	if g.off == len(g.data) {
		// Drained: reuse the backing array from the start.
		g.data = g.data[:0]
		g.off = 0
	}
	return n
}

func (g *growBuffer) write(src []byte) int {
	if g.off > 0 && len(g.data)+len(src) > cap(g.data) && g.off >= len(g.data)/2 {
		// Slide unread bytes down before growing.
		g.data = g.data[:copy(g.data, g.data[g.off:])]
		g.off = 0
	}
	g.data = append(g.data, src...)
	return len(src)
}

func (g *growBuffer) len() int {
	return len(g.data) - g.off
}

func (g *growBuffer) empty() bool {
	return g.off == len(g.data)
}

func (g *growBuffer) full() bool {
	return false
}
