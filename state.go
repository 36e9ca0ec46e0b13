package asyncpipe

// State is the observable lifecycle of a pipe.
type State int

const (
	// StateOpen means both ends are open.
	StateOpen State = iota
	// StateWriterClosed means the writer closed and bytes remain to be read.
	StateWriterClosed
	// StateDrained means the writer closed and every byte was read; reads
	// report end-of-stream from now on.
	StateDrained
	// StateReaderClosed means the reader closed; every write fails.
	StateReaderClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateWriterClosed:
		return "writer-closed"
	case StateDrained:
		return "drained"
	case StateReaderClosed:
		return "reader-closed"
	default:
		return "unknown"
	}
}
