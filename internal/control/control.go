package control

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPollInterval is how often a paused loop re-checks the signals.
const DefaultPollInterval = 100 * time.Millisecond

// Sink receives progress fractions in [0, 1]. Implementations must be safe
// for concurrent use; the pipeline invokes the sink once per completed unit
// of work.
type Sink func(fraction float64)

// Token carries the cancel and pause signals for one pipeline run.
// A nil *Token is valid and behaves as a token that is never canceled
// or paused. The zero value is ready to use.
type Token struct {
	canceled atomic.Bool
	paused   atomic.Bool

	// pollInterval overrides DefaultPollInterval when non-zero.
	pollInterval time.Duration
}

// NewToken returns a fresh token for a single run.
func NewToken() *Token {
	return &Token{}
}

// SetPollInterval sets the pause polling interval. Intended for tests.
func (t *Token) SetPollInterval(d time.Duration) {
	if d > 0 {
		t.pollInterval = d
	}
}

// Cancel sets the cancellation signal. Setting it more than once is
// harmless; the signal is never cleared within a run.
func (t *Token) Cancel() {
	if t != nil {
		t.canceled.Store(true)
	}
}

// Canceled reports whether the cancellation signal is set.
func (t *Token) Canceled() bool {
	return t != nil && t.canceled.Load()
}

// Pause sets the pause signal.
func (t *Token) Pause() {
	if t != nil {
		t.paused.Store(true)
	}
}

// Resume clears the pause signal.
func (t *Token) Resume() {
	if t != nil {
		t.paused.Store(false)
	}
}

// Paused reports whether the pause signal is set.
func (t *Token) Paused() bool {
	return t != nil && t.paused.Load()
}

// Step is the unit-of-work boundary check. It returns false immediately if
// the run is canceled; otherwise it blocks while the pause signal is set,
// re-checking cancellation every poll tick. A true return means the caller
// may process the next unit of work.
func (t *Token) Step() bool {
	if t == nil {
		return true
	}
	if t.canceled.Load() {
		return false
	}

	interval := t.pollInterval
	if interval == 0 {
		interval = DefaultPollInterval
	}

	for t.paused.Load() {
		if t.canceled.Load() {
			return false
		}
		time.Sleep(interval)
	}

	return !t.canceled.Load()
}

// Reporter delivers a monotonically non-decreasing completion fraction to a
// sink. The total number of units must be known up front; Complete is called
// once per finished unit, from any goroutine.
type Reporter struct {
	total int64
	done  atomic.Int64

	mu       sync.Mutex
	lastSent float64
	sink     Sink
}

// NewReporter creates a reporter for total units feeding the given sink.
// A nil sink or a non-positive total yields a reporter that counts work but
// reports nothing.
func NewReporter(total int, sink Sink) *Reporter {
	return &Reporter{total: int64(total), sink: sink}
}

// Complete records one finished unit of work and reports the new fraction.
// Out-of-order delivery from concurrent workers never lowers the reported
// fraction.
func (r *Reporter) Complete() {
	n := r.done.Add(1)
	if r.sink == nil || r.total <= 0 {
		return
	}

	fraction := float64(n) / float64(r.total)
	if fraction > 1 {
		fraction = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if fraction <= r.lastSent {
		return
	}
	r.lastSent = fraction
	r.sink(fraction)
}

// Done returns the number of completed units so far.
func (r *Reporter) Done() int64 {
	return r.done.Load()
}
