package asyncpipe

import (
	"context"
	"errors"
	"io"
	"runtime"

	"golang.org/x/sync/semaphore"
)

var (
	_ io.Reader   = (*PipeReader)(nil)
	_ io.WriterTo = (*PipeReader)(nil)
	_ io.Closer   = (*PipeReader)(nil)
	_ ByteSource  = (*PipeReader)(nil)
)

const minReadSize = 512

// PipeReader is the read half of a pipe.
//
// Concurrent calls are serialized like those on PipeWriter.
type PipeReader struct {
	p   *pipe
	sem *semaphore.Weighted
}

// ReadContext reads up to len(b) bytes, blocking while the buffer is empty
// and the writer is open. At end of stream it returns 0, io.EOF, and keeps
// doing so on every later call.
//
// Bytes still buffered when the reader is closed remain readable; after
// that reads fail with io.ErrClosedPipe.
func (r *PipeReader) ReadContext(ctx context.Context, b []byte) (int, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return 0, err
	}
	defer r.sem.Release(1)
	// A parked read must not let the cleanup in Pipe close this end.
	defer runtime.KeepAlive(r)
	return r.p.read(ctx, b)
}

// ReadToEnd appends everything up to end of stream to *dst and returns the
// number of bytes appended. End of stream is not reported as an error.
func (r *PipeReader) ReadToEnd(ctx context.Context, dst *[]byte) (n int, err error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return 0, err
	}
	defer r.sem.Release(1)
	defer runtime.KeepAlive(r)

	b := *dst
	defer func() { *dst = b }()
	for {
		if len(b) == cap(b) {
			b = append(b, make([]byte, minReadSize)...)[:len(b)]
		}
		read, err := r.p.read(ctx, b[len(b):cap(b)])
		b = b[:len(b)+read]
		n += read
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
	}
}

// Read implements io.Reader.
func (r *PipeReader) Read(b []byte) (int, error) {
	return r.ReadContext(context.Background(), b)
}

// WriteTo implements io.WriterTo. It drains the pipe into w until end of
// stream, which is not reported as an error. An error given to
// PipeWriter.CloseWithError is returned as is.
func (r *PipeReader) WriteTo(w io.Writer) (n int64, err error) {
	return copyBuffered(r.Read, w.Write)
}

// Buffered returns the number of bytes written but not yet read.
func (r *PipeReader) Buffered() int {
	return r.p.buffered()
}

// Close closes the reader side of the pipe. Pending and later writes fail
// with ErrBrokenPipe. Close is idempotent.
func (r *PipeReader) Close() error {
	r.p.closeReader(nil)
	return nil
}

// CloseWithError closes the reader side, making pending and later writes
// fail with err. A nil err means ErrBrokenPipe. Only the first close of
// this end takes effect.
func (r *PipeReader) CloseWithError(err error) error {
	r.p.closeReader(err)
	return nil
}

// State reports the pipe's lifecycle state.
func (r *PipeReader) State() State {
	return r.p.state()
}
