package infrastructure

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// ProgressTimestampLayout renders timestamps like 2024-Jan-05-13:04:22
const ProgressTimestampLayout = "2006-Jan-02-15:04:05"

// ProgressLogger appends human readable checkpoint lines to a plain text file.
// It is separate from the structured slog output and is meant to be read by people.
type ProgressLogger struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewProgressLogger creates a progress logger that appends to path
func NewProgressLogger(path string) *ProgressLogger {
	return &ProgressLogger{path: path, now: time.Now}
}

// Path returns the log file location
func (p *ProgressLogger) Path() string {
	return p.path
}

// Log appends "<timestamp>:<message>" to the file. The file is opened and
// closed on every call so each line is durable before the next stage starts.
func (p *ProgressLogger) Log(message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.OpenFile(p.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open progress log %s: %w", p.path, err)
	}

	line := p.now().Format(ProgressTimestampLayout) + ":" + message + "\n"
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("failed to write progress log %s: %w", p.path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close progress log %s: %w", p.path, err)
	}
	return nil
}
