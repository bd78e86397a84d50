package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

const consoleTimeFormat = "2006-01-02 15:04:05"

// Log is the process logger. zerolog/log writes through it as well.
var Log zerolog.Logger

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	use(New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: consoleTimeFormat}))
}

// New returns an info-level logger with timestamps and caller info.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Caller().
		Logger()
}

func use(l zerolog.Logger) {
	Log = l
	log.Logger = l
}

// ParseLevel maps a level name to a zerolog level. Empty or unknown names
// give info and false.
func ParseLevel(name string) (zerolog.Level, bool) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel, false
	}
	return level, true
}

// SetLevel applies name to the process logger and returns the level used.
func SetLevel(name string) zerolog.Level {
	level, ok := ParseLevel(name)
	if !ok && name != "" {
		Log.Warn().Str("level", name).Msg("invalid log level, defaulting to info")
	}
	zerolog.SetGlobalLevel(level)
	use(Log.Level(level))
	return level
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return Log.With().Str("component", name).Logger()
}
