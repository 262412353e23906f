package config

import (
	"io"

	"github.com/etnz/cambio"
	"github.com/phuslu/log"
)

// NewLogger creates a console logger writing to w with the specified level. Unknown levels
// fall back to info.
func NewLogger(level string, w io.Writer, color bool) *log.Logger {
	lvl := log.ParseLevel(level)
	if level == "" {
		lvl = log.InfoLevel
	}
	return &log.Logger{
		Level:      lvl,
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			Writer:         w,
			ColorOutput:    color,
			QuoteString:    true,
			EndWithMessage: true,
		},
	}
}

// LogWarnings logs each warning of a derivation at warn level.
func LogWarnings(logger *log.Logger, warnings []cambio.Warning) {
	for _, w := range warnings {
		logger.Warn().
			Str("kind", string(w.Kind)).
			Str("movement", w.Movement.String()).
			Str("date", w.Date.String()).
			Str("currency", w.Currency).
			Str("excess", w.Excess.String()).
			Msg(w.Message)
	}
}
