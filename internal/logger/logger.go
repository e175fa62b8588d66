package logger

import (
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

var base = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Init installs the process logger. format is "json" or "text"; level is
// one of debug, info, warn, error.
func Init(format, level string) {
	InitWriter(os.Stdout, format, level)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, format, level string) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	base = slog.New(h)
	base.Info("logger initialized", "format", format, "level", level)
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Debug(msg string, fields map[string]any) {
	base.Debug(msg, attrs(fields)...)
}

func Info(msg string, fields map[string]any) {
	base.Info(msg, attrs(fields)...)
}

func Warn(msg string, fields map[string]any) {
	base.Warn(msg, attrs(fields)...)
}

func Error(msg string, fields map[string]any) {
	base.Error(msg, attrs(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	base.Error(msg, attrs(fields)...)
	os.Exit(1)
}

// attrs flattens fields in key order so log lines are stable.
func attrs(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, fields[k]))
	}
	return out
}
