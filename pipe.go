package asyncpipe

import (
	"context"
	"io"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

var pipeIDs atomic.Uint64

// pipe is the state shared by a PipeWriter and a PipeReader.
//
// All fields are guarded by mu. The lock is held only while bytes are copied
// or flags change; a blocked writer or reader parks on its wake token with
// mu released.
type pipe struct {
	mu sync.Mutex

	buf buffer

	// readErr is returned to reads once the writer closed and buf drained.
	readErr error
	// writeErr is returned to writes once the reader closed.
	writeErr error

	// At most one stored wake token per side. Waking closes the channel.
	pendingWriter chan struct{}
	pendingReader chan struct{}

	refs int

	writerClosed bool
	readerClosed bool

	log     *zap.Logger
	metrics *Metrics
}

// Pipe creates a connected writer and reader. Bytes written to the
// PipeWriter are read from the PipeReader in the same order.
//
// By default the shared buffer grows without bound; see WithCapacity.
func Pipe(opts ...Option) (*PipeWriter, *PipeReader) {
	p := newPipe(newConfig(opts))

	w := &PipeWriter{p: p, sem: semaphore.NewWeighted(1)}
	r := &PipeReader{p: p, sem: semaphore.NewWeighted(1)}

	// An end that becomes unreachable without Close is closed for it.
	runtime.AddCleanup(w, func(p *pipe) { p.closeWriter(nil) }, p)
	runtime.AddCleanup(r, func(p *pipe) { p.closeReader(nil) }, p)

	return w, r
}

func newPipe(cfg config) *pipe {
	p := &pipe{
		refs:    2,
		log:     cfg.logger.Named("asyncpipe").With(zap.Uint64("pipe", pipeIDs.Add(1))),
		metrics: cfg.metrics,
	}
	if cfg.capacity > 0 {
		p.buf = newRingBuffer(cfg.capacity)
	} else {
		p.buf = &growBuffer{}
	}
	p.metrics.opened()
	p.log.Debug("pipe created", zap.Int("capacity", cfg.capacity))
	return p
}

// write blocks until at least one byte of b is accepted, the reader closes,
// or ctx is done.
func (p *pipe) write(ctx context.Context, b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	for {
		p.mu.Lock()
		n, err := p.tryWriteLocked(b)
		if err != nil || n > 0 {
			p.mu.Unlock()
			return n, err
		}
		wait := p.registerWriterLocked()
		p.mu.Unlock()

		p.metrics.parked("writer")
		if err := park(ctx, wait); err != nil {
			return 0, err
		}
	}
}

// read blocks until at least one byte is available, the stream ends, or ctx
// is done.
func (p *pipe) read(ctx context.Context, b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	for {
		p.mu.Lock()
		n, err := p.tryReadLocked(b)
		if err != nil || n > 0 {
			p.mu.Unlock()
			return n, err
		}
		wait := p.registerReaderLocked()
		p.mu.Unlock()

		p.metrics.parked("reader")
		if err := park(ctx, wait); err != nil {
			return 0, err
		}
	}
}

// tryWriteLocked copies as much of b as capacity allows. (0, nil) means the
// buffer is full and the caller should park.
func (p *pipe) tryWriteLocked(b []byte) (int, error) {
	if p.readerClosed {
		p.metrics.broken()
		p.log.Debug("write on broken pipe", zap.Error(p.writeErr))
		return 0, p.writeErr
	}
	if p.writerClosed {
		return 0, io.ErrClosedPipe
	}

	n := p.buf.write(b)
	if n > 0 {
		p.metrics.wrote(n)
		wake(&p.pendingReader)
	}
	return n, nil
}

// tryReadLocked drains up to len(b) bytes. (0, nil) means the buffer is
// empty while the writer is still open and the caller should park.
func (p *pipe) tryReadLocked(b []byte) (int, error) {
	if p.buf != nil && !p.buf.empty() {
		n := p.buf.read(b)
		p.metrics.read(n)
		wake(&p.pendingWriter)
		return n, nil
	}
	if p.readerClosed {
		return 0, io.ErrClosedPipe
	}
	if p.writerClosed {
		return 0, p.readErr
	}
	return 0, nil
}

// registerWriterLocked stores a fresh wake token for the writer side,
// replacing any token left behind by an abandoned wait.
func (p *pipe) registerWriterLocked() <-chan struct{} {
	p.pendingWriter = make(chan struct{})
	return p.pendingWriter
}

func (p *pipe) registerReaderLocked() <-chan struct{} {
	p.pendingReader = make(chan struct{})
	return p.pendingReader
}

func (p *pipe) closeWriter(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writerClosed {
		return
	}
	if err == nil {
		err = io.EOF
	}
	p.writerClosed = true
	p.readErr = err
	p.log.Debug("writer closed", zap.NamedError("reason", err))

	wake(&p.pendingReader)
	wake(&p.pendingWriter)
	p.releaseLocked()
}

func (p *pipe) closeReader(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readerClosed {
		return
	}
	if err == nil {
		err = ErrBrokenPipe
	}
	p.readerClosed = true
	p.writeErr = err
	p.log.Debug("reader closed", zap.NamedError("reason", err))

	wake(&p.pendingWriter)
	wake(&p.pendingReader)
	p.releaseLocked()
}

// releaseLocked drops one end's reference. The buffer is freed once both
// ends are gone.
func (p *pipe) releaseLocked() {
	p.refs--
	if p.refs > 0 {
		return
	}
	dropped := p.buf.len()
	p.buf = nil
	p.metrics.released(dropped)
	p.log.Debug("pipe released", zap.Int("dropped", dropped))
}

func (p *pipe) buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buf == nil {
		return 0
	}
	return p.buf.len()
}

func (p *pipe) state() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.readerClosed:
		return StateReaderClosed
	case p.writerClosed && (p.buf == nil || p.buf.empty()):
		return StateDrained
	case p.writerClosed:
		return StateWriterClosed
	default:
		return StateOpen
	}
}

// wake fires and clears the token in slot, if any.
func wake(slot *chan struct{}) {
	if *slot != nil {
		close(*slot)
		*slot = nil
	}
}

// park waits for wait to fire. On cancellation the token is abandoned in its
// slot; the next registration or wake disposes of it.
func park(ctx context.Context, wait <-chan struct{}) error {
	select {
	case <-wait:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
