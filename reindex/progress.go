package reindex

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports reindexing progress to a writer, typically
// os.Stderr. Updates are throttled to one report per reportInterval
// documents so large runs don't flood the terminal.
type ProgressTracker struct {
	mu       sync.Mutex
	out      io.Writer
	total    int
	done     int
	interval int
	reported int
	began    time.Time
	running  bool
}

// NewProgressTracker creates a tracker for total documents that reports
// every reportInterval documents processed.
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	return &ProgressTracker{out: writer, total: total, interval: reportInterval}
}

// Start resets the tracker and begins timing. Update and Finish are
// no-ops until Start has been called.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.began = time.Now()
	p.done = 0
	p.reported = 0
	p.running = true
}

// Update records that current documents have been processed so far and
// emits a report if the interval has been crossed.
func (p *ProgressTracker) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.done = min(current, p.total)

	if p.done-p.reported >= p.interval {
		p.reported = p.done
		p.write()
	}
}

// Finish forces a final report at 100% and terminates the progress line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.done = p.total
	p.write()
	fmt.Fprintln(p.out)
}

// Elapsed returns the time since Start, or zero if never started.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return 0
	}
	return time.Since(p.began)
}

// write emits a single progress line. Caller holds the lock.
func (p *ProgressTracker) write() {
	elapsed := time.Since(p.began)

	var pct, rate float64
	if p.total > 0 {
		pct = 100 * float64(p.done) / float64(p.total)
	}
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(p.done) / secs
	}

	fmt.Fprintf(p.out, "\rProgress: %d/%d (%.1f%%) - %.1f documents/s",
		p.done, p.total, pct, rate)
}
