package asyncpipe

import (
	"context"
	"io"
	"runtime"

	"golang.org/x/sync/semaphore"
)

var (
	_ io.Writer     = (*PipeWriter)(nil)
	_ io.ReaderFrom = (*PipeWriter)(nil)
	_ io.Closer     = (*PipeWriter)(nil)
	_ ByteSink      = (*PipeWriter)(nil)
)

// PipeWriter is the write half of a pipe.
//
// Concurrent calls are serialized: a second writer waits until the first
// WriteContext or WriteAll returns.
type PipeWriter struct {
	p   *pipe
	sem *semaphore.Weighted
}

// WriteContext writes some of b, blocking while a bounded buffer is full.
// It returns as soon as at least one byte was accepted, so n may be less
// than len(b) with a nil error. Once the reader has closed it fails with
// ErrBrokenPipe, or the error given to PipeReader.CloseWithError.
func (w *PipeWriter) WriteContext(ctx context.Context, b []byte) (int, error) {
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return 0, err
	}
	defer w.sem.Release(1)
	// A parked write must not let the cleanup in Pipe close this end.
	defer runtime.KeepAlive(w)
	return w.p.write(ctx, b)
}

// WriteAll writes all of b, blocking as needed. It returns the number of
// bytes accepted before any error.
func (w *PipeWriter) WriteAll(ctx context.Context, b []byte) (n int, err error) {
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return 0, err
	}
	defer w.sem.Release(1)
	defer runtime.KeepAlive(w)
	for len(b) > 0 {
		wrote, err := w.p.write(ctx, b)
		n += wrote
		if err != nil {
			return n, err
		}
		b = b[wrote:]
	}
	return n, nil
}

// Write implements io.Writer.
func (w *PipeWriter) Write(b []byte) (int, error) {
	return w.WriteAll(context.Background(), b)
}

// ReadFrom implements io.ReaderFrom. Each chunk read from r is written in
// full before the next read; r's io.EOF ends the copy without error. The
// pipe is left open.
func (w *PipeWriter) ReadFrom(r io.Reader) (n int64, err error) {
	return copyBuffered(r.Read, w.Write)
}

// Flush is a no-op; written bytes are visible to the reader immediately.
func (w *PipeWriter) Flush() error {
	return nil
}

// Close closes the writer side of the pipe. Once buffered bytes are drained
// reads return io.EOF. Close is idempotent.
func (w *PipeWriter) Close() error {
	w.p.closeWriter(nil)
	return nil
}

// Shutdown is an alias for Close.
func (w *PipeWriter) Shutdown() error {
	return w.Close()
}

// CloseWithError closes the writer side. Reads return err once the bytes
// already written are drained; a nil err means io.EOF. Only the first
// close of this end takes effect.
func (w *PipeWriter) CloseWithError(err error) error {
	w.p.closeWriter(err)
	return nil
}

// State reports the pipe's lifecycle state.
func (w *PipeWriter) State() State {
	return w.p.state()
}
