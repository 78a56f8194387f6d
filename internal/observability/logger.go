package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the JSON logger used by every component. Records logged
// with a request context get trace_id/span_id and actor_id attached.
func NewLogger(env string) *slog.Logger {
	return newLogger(os.Stdout, env)
}

func newLogger(w io.Writer, env string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(NewContextHandler(handler))
}
