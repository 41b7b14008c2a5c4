package operations

import (
	"fmt"
	"sync"
	"time"
)

// RunLog is the append-only, timestamped line log of one run, kept for
// display even when a stage aborts the run.
type RunLog struct {
	mu    sync.Mutex
	lines []string
}

// Append adds a timestamped line.
func (l *RunLog) Append(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines,
		fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...)))
}

// Lines returns a copy of the accumulated lines, in append order.
func (l *RunLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
