package ankitab

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the package logger. It discards everything by default so the
// library stays quiet inside applications; callers that want insight into
// merge and write activity can swap in their own.
var Logger = zerolog.New(io.Discard)

// SetLogger replaces the package logger.
func SetLogger(l zerolog.Logger) {
	Logger = l
}
