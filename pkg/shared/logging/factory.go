package logging

import (
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileRotationConfig contains file logging rotation settings
type FileRotationConfig struct {
	Path       string // Log file path (required)
	MaxSizeMB  int    // Maximum size in megabytes before rotation (default: 100)
	MaxBackups int    // Maximum number of old log files to retain (default: 3)
	MaxAge     int    // Maximum number of days to retain old log files (default: 28)
	Compress   bool   // Whether to compress rotated log files (default: false)
}

// Options describes how to build the process logger.
type Options struct {
	Module string
	Level  Level
	Color  bool
	File   *FileRotationConfig
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger from options. The returned Closer releases the log file, if any.
// When file output is enabled colors are disabled so the file stays free of ANSI codes.
func New(opts Options) (*SimpleLogger, io.Closer, error) {
	if opts.File == nil || opts.File.Path == "" {
		return NewSimpleLogger(opts.Module, opts.Level, opts.Color), nopCloser{}, nil
	}

	fileWriter := newRotatingWriter(opts.File)
	multiWriter := io.MultiWriter(os.Stdout, fileWriter)

	return NewSimpleLoggerWithWriter(opts.Module, opts.Level, false, multiWriter), fileWriter, nil
}

// NewLoggerWithFile creates a logger that writes to both console and file with rotation
func NewLoggerWithFile(module string, level Level, useColors bool, fileConfig *FileRotationConfig) (*SimpleLogger, error) {
	logger, _, err := New(Options{Module: module, Level: level, Color: useColors, File: fileConfig})
	return logger, err
}

func newRotatingWriter(cfg *FileRotationConfig) *lumberjack.Logger {
	maxSizeMB := cfg.MaxSizeMB
	if maxSizeMB == 0 {
		maxSizeMB = 100
	}

	maxBackups := cfg.MaxBackups
	if maxBackups == 0 {
		maxBackups = 3
	}

	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = 28
	}

	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   cfg.Compress,
	}
}
