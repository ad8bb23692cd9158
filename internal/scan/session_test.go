// internal/scan/session_test.go
// Session lifecycle invariants

package scan

import (
	"testing"

	"github.com/surfscan/surfscan/internal/models"
)

func TestSession_InitialState(t *testing.T) {
	s := newSession("example.com", models.ModeTCPConnect)
	if s.ID() == "" {
		t.Error("session has no id")
	}
	if got := s.State(); got != StateIdle {
		t.Errorf("state = %v, want idle", got)
	}
	if !s.IsRunning() {
		t.Error("new session not running")
	}
	if s.IsCancelled() {
		t.Error("new session already cancelled")
	}
	if got := s.Progress(); got != 0 {
		t.Errorf("progress = %f, want 0", got)
	}
	if tg := s.Target(); tg.Raw != "example.com" || tg.Address != "" {
		t.Errorf("target = %+v", tg)
	}
}

func TestSession_RunningFlipsExactlyOnce(t *testing.T) {
	s := newSession("10.0.0.5", models.ModeTCPConnect)
	s.beginScanning("10.0.0.5", []int{22}, 1)
	s.complete()

	if s.IsRunning() {
		t.Fatal("running after completion")
	}

	// A second terminal transition must not reopen or re-close the session.
	s.cancelFinal()
	if got := s.State(); got != StateCompleted {
		t.Errorf("state changed after terminal transition: %v", got)
	}
	if s.IsRunning() {
		t.Error("running flipped back to true")
	}
}

func TestSession_PublishBatchKeepsResultsSorted(t *testing.T) {
	s := newSession("10.0.0.5", models.ModeTCPConnect)
	s.beginScanning("10.0.0.5", []int{22, 80, 443}, 3)

	s.publishBatch([]models.PortScanResult{{Port: 443}}, 0.33)
	s.publishBatch([]models.PortScanResult{{Port: 22}}, 0.66)
	s.publishBatch([]models.PortScanResult{{Port: 80}}, 1.0)

	results := s.Results()
	for i := 1; i < len(results); i++ {
		if results[i].Port < results[i-1].Port {
			t.Fatalf("results unordered: %v then %v", results[i-1].Port, results[i].Port)
		}
	}
}

func TestSession_ProgressNeverRegresses(t *testing.T) {
	s := newSession("10.0.0.5", models.ModeTCPConnect)
	s.beginScanning("10.0.0.5", []int{22}, 1)

	s.publishBatch(nil, 0.5)
	s.publishBatch(nil, 0.25) // stale update must not move progress backwards
	if got := s.Progress(); got != 0.5 {
		t.Errorf("progress = %f, want 0.5", got)
	}
}

func TestSession_CancelPreservesProgress(t *testing.T) {
	s := newSession("10.0.0.5", models.ModeTCPConnect)
	s.beginScanning("10.0.0.5", []int{22, 80}, 2)
	s.publishBatch([]models.PortScanResult{{Port: 22}}, 0.5)

	s.Cancel()
	if !s.IsCancelled() {
		t.Fatal("cancel flag not set")
	}
	s.cancelFinal()

	if got := s.State(); got != StateCancelled {
		t.Errorf("state = %v, want cancelled", got)
	}
	if got := s.Progress(); got != 0.5 {
		t.Errorf("progress = %f, want 0.5 (left at last value)", got)
	}
}

func TestSession_FailResetsProgress(t *testing.T) {
	s := newSession("bad.invalid", models.ModeTCPConnect)
	s.setResolving()
	s.publishBatch(nil, 0.5)
	s.fail(ErrResolution)

	if got := s.Progress(); got != 0 {
		t.Errorf("progress = %f, want 0 after failure", got)
	}
	if got := s.State(); got != StateFailed {
		t.Errorf("state = %v, want failed", got)
	}
}

func TestSession_DoneClosesOnTerminal(t *testing.T) {
	s := newSession("10.0.0.5", models.ModeTCPConnect)
	select {
	case <-s.Done():
		t.Fatal("done closed before terminal state")
	default:
	}

	s.complete()
	select {
	case <-s.Done():
	default:
		t.Fatal("done not closed after completion")
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateResolving, "resolving"},
		{StateScanning, "scanning"},
		{StateCompleted, "completed"},
		{StateCancelled, "cancelled"},
		{StateFailed, "failed"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
