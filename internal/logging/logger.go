// Package logging builds the slog loggers used across devicegraph.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// New creates a text logger on stderr, leaving stdout to command output.
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, level, FormatText)
}

// NewWithWriter creates a logger writing to w in the given format. The
// "error" key is shortened to "err" so wrapped errors read the same in
// both formats.
func NewWithWriter(w io.Writer, level slog.Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Parse builds a stderr logger from flag values. An empty level or "off"
// discards everything.
func Parse(level, format string) (*slog.Logger, error) {
	switch strings.ToLower(level) {
	case "", "off", "none":
		return NewNop(), nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	switch f := Format(strings.ToLower(format)); f {
	case "", FormatText, FormatJSON:
		return NewWithWriter(os.Stderr, l, f), nil
	}
	return nil, fmt.Errorf("invalid log format %q", format)
}
