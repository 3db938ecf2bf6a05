// Package logging sets up the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/autoblock/internal/osutil"
)

// Options configures Setup.
type Options struct {
	// Stderr receives a copy of every record when Debug is set.
	Stderr io.Writer
	Path   string
	Debug  bool
}

// Setup installs a JSON slog handler writing to a rotating log file at
// opts.Path as the default logger. The returned closer flushes the file.
func Setup(opts Options) (io.Closer, error) {
	err := os.MkdirAll(filepath.Dir(opts.Path), osutil.DirPermission)
	if err != nil {
		return nil, err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := slog.LevelInfo

	var writer io.Writer = fileWriter

	if opts.Debug {
		level = slog.LevelDebug

		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}

		writer = io.MultiWriter(stderr, fileWriter)
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		AddSource: opts.Debug,
		Level:     level,
	})

	slog.SetDefault(slog.New(handler).With(slog.Int("pid", os.Getpid())))

	return fileWriter, nil
}
