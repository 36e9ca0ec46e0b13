package asyncpipe

import "go.uber.org/multierr"

// Conn is one end of a bidirectional in-memory stream built from two pipes.
type Conn struct {
	*PipeReader
	*PipeWriter
}

var (
	_ ByteSink   = (*Conn)(nil)
	_ ByteSource = (*Conn)(nil)
)

// Duplex returns two connected ends: bytes written to one are read from
// the other. The options apply to both directions.
func Duplex(opts ...Option) (*Conn, *Conn) {
	w1, r1 := Pipe(opts...)
	w2, r2 := Pipe(opts...)
	return &Conn{PipeReader: r2, PipeWriter: w1}, &Conn{PipeReader: r1, PipeWriter: w2}
}

// CloseWrite closes only the outgoing direction; the peer reads io.EOF
// after draining.
func (c *Conn) CloseWrite() error {
	return c.PipeWriter.Close()
}

// Close closes both directions.
func (c *Conn) Close() error {
	return multierr.Append(c.PipeWriter.Close(), c.PipeReader.Close())
}

// CloseWithError closes both directions, handing err to the peer's reads
// and writes.
func (c *Conn) CloseWithError(err error) error {
	return multierr.Combine(
		c.PipeWriter.CloseWithError(err),
		c.PipeReader.CloseWithError(err),
	)
}

// State reports the state of the outgoing direction.
func (c *Conn) State() State {
	return c.PipeWriter.State()
}
