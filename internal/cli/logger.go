package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/taskmd/internal/constants"
)

// InitLogger creates and configures a zerolog.Logger based on
// verbosity flags. Output goes to stderr — a console writer when
// stderr is a terminal, raw JSON otherwise — and, when logsDir is
// non-empty, to a size-rotated file as well.
//
// Log levels:
//   - verbose=true: Debug level (most detailed)
//   - quiet=true: Warn level (warnings and errors only)
//   - default: Info level
func InitLogger(verbose, quiet bool, logsDir string) zerolog.Logger {
	writers := []io.Writer{selectConsole()}
	if logsDir != "" {
		if fw := fileWriter(logsDir); fw != nil {
			writers = append(writers, fw)
		}
	}

	var out io.Writer = writers[0]
	if len(writers) > 1 {
		out = zerolog.MultiLevelWriter(writers...)
	}

	return zerolog.New(out).Level(selectLevel(verbose, quiet)).With().Timestamp().Logger()
}

// selectLevel maps verbosity flags to a zerolog level.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// selectConsole returns a human-friendly console writer on a terminal
// and plain stderr otherwise.
func selectConsole() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return os.Stderr
}

// fileWriter returns a rotating log file writer, or nil when the logs
// directory cannot be created. File logging is best-effort; a missing
// log file never fails a command.
func fileWriter(logsDir string) io.Writer {
	if err := os.MkdirAll(logsDir, 0o750); err != nil {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(logsDir, constants.CLILogFileName),
		MaxSize:    5, // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
	}
}
