package asyncpipe

import (
	"context"
	"errors"
	"io"
)

// ByteSink is an asynchronous destination for a byte stream.
type ByteSink interface {
	// WriteContext accepts some of b, blocking while the sink has no room.
	WriteContext(ctx context.Context, b []byte) (int, error)
	// WriteAll accepts all of b or fails.
	WriteAll(ctx context.Context, b []byte) (int, error)
	Flush() error
	Close() error
}

// ByteSource is an asynchronous origin of a byte stream. ReadContext
// reports end of stream with io.EOF.
type ByteSource interface {
	ReadContext(ctx context.Context, b []byte) (int, error)
	ReadToEnd(ctx context.Context, dst *[]byte) (int, error)
	Close() error
}

const copyBufferSize = 32 * 1024

// Copy moves bytes from src to dst until src reports end of stream, an
// operation fails, or ctx is done. It closes neither side.
func Copy(ctx context.Context, dst ByteSink, src ByteSource) (int64, error) {
	return copyBuffered(
		func(b []byte) (int, error) { return src.ReadContext(ctx, b) },
		func(b []byte) (int, error) { return dst.WriteAll(ctx, b) },
	)
}

// copyBuffered pumps chunks from read to write. Only io.EOF from read ends
// the copy cleanly; a write that accepts less than the chunk without an
// error is reported as io.ErrShortWrite.
func copyBuffered(read, write func([]byte) (int, error)) (total int64, err error) {
	chunk := make([]byte, copyBufferSize)
	for {
		n, readErr := read(chunk)
		if n > 0 {
			written, writeErr := write(chunk[:n])
			if written < 0 || written > n {
				written = 0
			}
			total += int64(written)
			switch {
			case writeErr != nil:
				return total, writeErr
			case written != n:
				return total, io.ErrShortWrite
			}
		}
		switch {
		case errors.Is(readErr, io.EOF):
			return total, nil
		case readErr != nil:
			return total, readErr
		}
	}
}
