// internal/scan/session.go
// Observable record of one scan's configuration, progress, and results

package scan

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/surfscan/surfscan/internal/models"
)

// State is the session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateResolving
	StateScanning
	StateCompleted
	StateCancelled
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateScanning:
		return "scanning"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Session is the shared mutable record of one scan. The engine is its only
// writer; observers read through snapshot accessors. The mutex exists for
// cross-goroutine visibility, not for multi-writer arbitration.
//
// Results are always sorted by ascending port with at most one entry per
// port, and only grow until the session ends. Once running flips false it
// never flips back; a new scan creates a new session.
type Session struct {
	id     string
	mode   models.ScanMode
	doneCh chan struct{}

	mu           sync.Mutex
	target       models.ScanTarget
	ports        []int
	state        State
	running      bool
	cancelled    bool
	progress     float64
	totalBatches int
	doneBatches  int
	results      []models.PortScanResult
	err          error
	started      time.Time
	finished     time.Time
}

func newSession(rawTarget string, mode models.ScanMode) *Session {
	return &Session{
		id:      uuid.NewString(),
		mode:    mode,
		doneCh:  make(chan struct{}),
		target:  models.ScanTarget{Raw: rawTarget},
		state:   StateIdle,
		running: true,
		started: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the scan mode.
func (s *Session) Mode() models.ScanMode { return s.mode }

// Target returns the scan target, including the resolved address once
// resolution has happened.
func (s *Session) Target() models.ScanTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// Ports returns a copy of the port list computed for this scan.
func (s *Session) Ports() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.ports))
	copy(out, s.ports)
	return out
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsRunning reports whether the scan is still in flight.
func (s *Session) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// IsCancelled reports whether cancellation has been requested.
func (s *Session) IsCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// Progress returns completion in [0,1]. It is monotonically non-decreasing
// for the lifetime of the session once scanning starts.
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Results returns a copy of the accumulated results, sorted by port.
// Consumers must tolerate full replacement between reads, not append-only
// growth.
func (s *Session) Results() []models.PortScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PortScanResult, len(s.results))
	copy(out, s.results)
	return out
}

// Err returns the terminal error for a Failed session, nil otherwise.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done is closed when the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} { return s.doneCh }

// Duration returns elapsed wall time, final once the session has ended.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished.IsZero() {
		return s.finished.Sub(s.started)
	}
	return time.Since(s.started)
}

// Cancel requests cooperative cancellation. The in-flight batch finishes;
// no further batches start. Safe to call at any time, including after the
// session has ended.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = true
}

// Snapshot returns the session's progress view.
func (s *Session) Snapshot() models.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	open := 0
	for _, r := range s.results {
		if r.Open {
			open++
		}
	}
	return models.Progress{
		ScanID:         s.id,
		Target:         s.target.Raw,
		TotalPorts:     len(s.ports),
		ScannedPorts:   len(s.results),
		OpenPorts:      open,
		CompletedBatch: s.doneBatches,
		TotalBatches:   s.totalBatches,
		Percent:        s.progress,
		Elapsed:        time.Since(s.started),
	}
}

// --- engine-side transitions; callers outside this package never mutate ---

func (s *Session) setResolving() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateResolving
}

func (s *Session) beginScanning(address string, ports []int, totalBatches int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target.Address = address
	s.ports = ports
	s.totalBatches = totalBatches
	s.state = StateScanning
}

// publishBatch applies a fully joined batch atomically: append, full re-sort,
// progress update. Observers never see partial-batch state.
func (s *Session) publishBatch(results []models.PortScanResult, progress float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, results...)
	sort.Slice(s.results, func(i, j int) bool { return s.results[i].Port < s.results[j].Port })
	s.doneBatches++
	if progress > s.progress {
		s.progress = progress
	}
}

func (s *Session) complete() {
	s.finish(StateCompleted, nil)
}

func (s *Session) cancelFinal() {
	// Progress stays at its last value so the caller can see how far the
	// scan got.
	s.finish(StateCancelled, nil)
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	s.progress = 0
	s.mu.Unlock()
	s.finish(StateFailed, err)
}

func (s *Session) finish(state State, err error) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.state = state
	s.err = err
	s.finished = time.Now()
	if state == StateCompleted {
		s.progress = 1.0
	}
	s.mu.Unlock()
	close(s.doneCh)
}
