// logger.go - Structured logging for the zerocoin tool
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

func parseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// NewLogger writes human readable output to stderr and, when logFile is set, JSON lines
// to that file. The returned closer releases the file.
func NewLogger(level, logFile string) (zerolog.Logger, io.Closer, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	console := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr })
	if logFile == "" {
		return zerolog.New(console).Level(lvl).With().Timestamp().Logger(), nopCloser{}, nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}
	out := zerolog.MultiLevelWriter(console, file)
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
