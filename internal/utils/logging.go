package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates the CLI logger. Debug mode switches to the human-readable
// console writer at debug level; otherwise structured JSON at info level.
func NewLogger(debug bool) (*zerolog.Logger, error) {
	var logger zerolog.Logger
	if debug {
		writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		logger = zerolog.New(writer).Level(zerolog.DebugLevel)
	} else {
		logger = zerolog.New(os.Stderr).Level(zerolog.InfoLevel)
	}
	logger = logger.With().Timestamp().Logger()
	return &logger, nil
}
