// Package asyncpipe provides an in-memory, unidirectional byte stream with
// one writer end and one reader end, an in-process analogue of an OS pipe.
//
// Writes append to a shared buffer and wake a blocked reader; reads drain
// the buffer and wake a blocked writer. The buffer is unbounded unless
// WithCapacity is given, in which case writers block while it is full.
// Blocking operations take a context.Context and can be cancelled and
// retried without losing or duplicating bytes.
//
// Closing the writer makes reads return io.EOF once the buffer is drained.
// Closing the reader makes every pending and later write fail with
// ErrBrokenPipe.
//
// Each end is meant for a single goroutine at a time. Concurrent calls on
// the same end are queued rather than interleaved.
package asyncpipe
