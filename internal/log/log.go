package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

// LevelTrace sits below slog.LevelDebug for very chatty evaluator output.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a flag value to a slog level. ok is false for "none" and
// anything unrecognised, which disables logging.
func ParseLevel(s string) (level slog.Level, ok bool) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelError, false
	}
}

// fileWriter is an append-only log file that can be reopened in place.
type fileWriter struct {
	path string
	mu   sync.Mutex
	fh   *os.File
}

func openFileWriter(path string) (*fileWriter, error) {
	// Create parent directories if they don't exist
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for '%s': %w", path, err)
	}
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file '%s': %w", path, err)
	}
	return &fileWriter{path: path, fh: fh}, nil
}

func (w *fileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fh.Write(p)
}

func (w *fileWriter) Reopen() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	fh, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	_ = w.fh.Close()
	w.fh = fh
	return nil
}

func (w *fileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fh.Close()
}

// Setup installs the default slog logger (JSON to stderr or a file) and
// returns a function that releases the log file. When logging to a file a
// SIGHUP reopens it, so it can be rotated:
//
//	mv lv8.log lv8.bak && kill -HUP <pid>
func Setup(level, file string) (func(), error) {
	lvl, enabled := ParseLevel(level)

	var out io.Writer = os.Stderr
	closeFn := func() {}

	switch {
	case !enabled:
		out = io.Discard
	case file != "":
		fw, err := openFileWriter(file)
		if err != nil {
			slog.SetDefault(newLogger(os.Stderr, lvl))
			return closeFn, err
		}
		out = fw

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGHUP)
		go func() {
			for range sigs {
				if err := fw.Reopen(); err != nil {
					fmt.Fprintf(os.Stderr, "could not reopen log file: %v\n", err)
				}
			}
		}()

		closeFn = func() {
			signal.Stop(sigs)
			_ = fw.Close()
		}
	}

	slog.SetDefault(newLogger(out, lvl))
	return closeFn, nil
}

func newLogger(out io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	}))
}
