// Package debuglog wires zerolog to an optional file. The TUI owns the
// terminal, so there is no stderr logging; without a file the logger is a
// no-op.
package debuglog

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger appending to path, or a disabled logger when path is
// empty or unwritable.
func New(path string) zerolog.Logger {
	if path == "" {
		return zerolog.Nop()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "debug log disabled: %v\n", err)
		return zerolog.Nop()
	}
	return zerolog.New(f).With().Timestamp().Logger().Level(zerolog.DebugLevel)
}
