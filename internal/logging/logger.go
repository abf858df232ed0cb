// Package logging provides structured logging for subdeck using zerolog.
//
// The TUI owns the terminal, so the application logger writes JSON lines to a
// file instead of stderr. The same file backs the in-app log overlay.
//
//	logger, closer, err := logging.Setup(logging.Options{Path: cfg.LogFile, Level: cfg.LogLevel})
//	if err != nil {
//		return err
//	}
//	defer closer.Close()
//	logging.SetDefault(logger)
//
//	logging.FromContext(ctx).Info().Str("imsi", imsi).Msg("subscriber deleted")
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// defaultLogger is the global logger instance. It discards output until
	// SetDefault is called so library code never writes over the TUI.
	defaultLogger = zerolog.Nop()

	// Nop logger for discarding output.
	Nop = zerolog.Nop()
)

// Options configures Setup.
type Options struct {
	// Path is the log file. Empty discards output.
	Path string
	// Level is a zerolog level name; empty falls back to LOG_LEVEL, then info.
	Level string
	// Console writes human-readable lines to stderr instead of a file.
	Console bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds a logger from opts. The returned closer releases the log file.
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	level := ParseLevel(opts.Level)

	if opts.Console {
		writer := zerolog.ConsoleWriter{
			Out:     os.Stderr,
			NoColor: os.Getenv("NO_COLOR") != "",
		}
		return New(writer, level), nopCloser{}, nil
	}

	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
	}
	return New(file, level), file, nil
}

// New creates a logger writing to w at level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// ParseLevel resolves a level name, falling back to LOG_LEVEL and then info.
func ParseLevel(name string) zerolog.Level {
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	}
	if name == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
