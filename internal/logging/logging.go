// Package logging configures the process-wide slog handler: colorized tint
// output on an interactive terminal, structured JSON otherwise.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Init installs the default slog handler on os.Stderr. debug raises the
// level to Debug and includes source position; it has no other behavioral
// effect (spec: AGENT_BOARD_DEBUG is log verbosity only).
func Init(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	var handler slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) {
		w = colorable.NewColorable(os.Stderr)
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  debug,
			TimeFormat: "15:04:05",
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: debug,
		})
	}
	slog.SetDefault(slog.New(handler))
}

// DebugEnabled reports whether AGENT_BOARD_DEBUG=1 is set.
func DebugEnabled() bool {
	return os.Getenv("AGENT_BOARD_DEBUG") == "1"
}
