// Package applog provides centralized debug logging for the command line
// tool. Output is disabled until SetOutput is called with a non-nil writer.
package applog

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var (
	out io.Writer
	mu  sync.Mutex
)

// SetOutput sets the log destination. Pass nil to disable logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Enabled returns true if logging is enabled.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return out != nil
}

func write(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		return
	}
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(out, "%s [%s] "+format+"\n", append([]any{ts, category}, args...)...)
}

// Load writes an ingestion message.
func Load(format string, args ...any) {
	write("load", format, args...)
}

// Engine writes an intersection-search message.
func Engine(format string, args ...any) {
	write("engine", format, args...)
}

// Export writes an output message.
func Export(format string, args ...any) {
	write("export", format, args...)
}

// Config writes a configuration message.
func Config(format string, args ...any) {
	write("config", format, args...)
}
