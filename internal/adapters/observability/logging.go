package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger tagged with the service name.
// APP_ENV=dev (or development) uses a human-friendly console writer; test
// keeps only warnings and errors.
func NewLogger(env string) zerolog.Logger {
	var l zerolog.Logger
	switch env {
	case "dev", "development":
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	default:
		l = zerolog.New(os.Stdout)
	}
	l = l.With().Timestamp().Str("service", "review-insights").Logger()
	if env == "test" {
		l = l.Level(zerolog.WarnLevel)
	}
	return l
}
