package asyncpipe

import (
	"fmt"
	"io"
)

// ErrBrokenPipe is returned by writes once the read end has been closed.
// It wraps io.ErrClosedPipe, so errors.Is(err, io.ErrClosedPipe) holds.
var ErrBrokenPipe = fmt.Errorf("asyncpipe: broken pipe: %w", io.ErrClosedPipe)
