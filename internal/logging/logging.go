// Package logging holds the process-wide slog logger used by the settings
// loader and the engine.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

const (
	envLevel = "EASYIMAGE_LOG_LEVEL"
	envJSON  = "EASYIMAGE_LOG_JSON"
)

type Options struct {
	Level string
	JSON  bool
	// Output defaults to stderr.
	Output io.Writer
}

var def atomic.Value

func init() {
	cfg := &slog.HandlerOptions{Level: slog.LevelInfo}
	h := slog.NewTextHandler(os.Stderr, cfg)
	def.Store(slog.New(h))
}

func Configure(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	cfg := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(out, cfg)
	} else {
		h = slog.NewTextHandler(out, cfg)
	}
	def.Store(slog.New(h))
}

func parseLevel(s string) slog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func L() *slog.Logger {
	l, _ := def.Load().(*slog.Logger)
	return l
}

// OptionsFromEnv reads EASYIMAGE_LOG_LEVEL and EASYIMAGE_LOG_JSON. Callers
// may override fields before passing the result to Configure.
func OptionsFromEnv() Options {
	opts := Options{Level: os.Getenv(envLevel)}
	if b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(envJSON))); err == nil {
		opts.JSON = b
	}
	return opts
}
