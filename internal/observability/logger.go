package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs the global logger. Console output is for terminals; services log
// JSON lines.
func InitLogger(app string, console bool, debug bool) zerolog.Logger {
	var out io.Writer = os.Stderr
	if console {
		out = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
