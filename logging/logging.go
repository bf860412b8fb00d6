// Package logging builds the command's zerolog logger: a console writer on
// stderr and, optionally, a rotated JSON log file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	// Verbose lowers the console level from warn to debug.
	Verbose bool

	// FilePath enables the log file. The file always receives debug logs.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int

	// Console defaults to os.Stderr.
	Console io.Writer
}

func DefaultConfig() Config {
	return Config{
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}

// New returns the logger and a closer releasing the log file, if any.
func New(config Config) (zerolog.Logger, io.Closer, error) {
	console := config.Console
	noColor := true
	if console == nil {
		console = os.Stderr
		noColor = !isatty.IsTerminal(os.Stderr.Fd())
	}
	consoleLevel := zerolog.WarnLevel
	if config.Verbose {
		consoleLevel = zerolog.DebugLevel
	}

	writers := []io.Writer{
		&zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{
				Out:        console,
				NoColor:    noColor,
				TimeFormat: time.Kitchen,
			}},
			Level: consoleLevel,
		},
	}
	level := consoleLevel

	var closer io.Closer = nopCloser{}
	if config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
			return zerolog.Nop(), nil, errors.Wrap(err, "creating log directory")
		}
		file := &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    config.MaxSizeMB,
			MaxBackups: config.MaxBackups,
			LocalTime:  true,
		}
		writers = append(writers, file)
		closer = file
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
