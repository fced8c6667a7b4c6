package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/ngmaloney/coat-terminal/internal/config"
)

// New builds the application logger writing to w. Text format uses tint for
// readable output; json uses the standard JSON handler.
func New(cfg config.Config, w io.Writer, appName string) *slog.Logger {
	if cfg.LogFormat == "json" {
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		})
		return slog.New(h).With("app", appName)
	}

	h := tint.NewHandler(w, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	})
	return slog.New(h).With("app", appName)
}

// OpenFile opens (creating if needed) the log file named by path for appending.
func OpenFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// FileOrDiscard opens path for logging. When it cannot, a one-line warning
// goes to warn and logs are discarded. The returned func closes the file.
func FileOrDiscard(path string, warn io.Writer) (io.Writer, func()) {
	f, err := OpenFile(path)
	if err != nil {
		fmt.Fprintf(warn, "warning: logging disabled, cannot open %s: %v\n", path, err)
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
