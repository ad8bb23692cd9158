// internal/scan/external_test.go
// Unit tests for the collaborator output contract

package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/surfscan/surfscan/internal/models"
)

func TestReportsOpen(t *testing.T) {
	tests := []struct {
		name   string
		report string
		want   bool
	}{
		{
			name:   "plain open",
			report: "22/tcp open ssh",
			want:   true,
		},
		{
			name:   "open but filtered mentioned",
			report: "22/tcp open|filtered ssh",
			want:   false,
		},
		{
			name:   "closed",
			report: "22/tcp closed ssh",
			want:   false,
		},
		{
			name:   "filtered",
			report: "22/tcp filtered ssh",
			want:   false,
		},
		{
			name:   "no state token",
			report: "Starting scan at 12:00",
			want:   false,
		},
		{
			name:   "uppercase open",
			report: "PORT 22 STATE: OPEN",
			want:   true,
		},
		{
			name:   "empty report",
			report: "",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reportsOpen(tt.report); got != tt.want {
				t.Errorf("reportsOpen(%q) = %v, want %v", tt.report, got, tt.want)
			}
		})
	}
}

func TestNewToolExecutor_EmptyPath(t *testing.T) {
	if e := NewToolExecutor("", time.Second); e != nil {
		t.Error("NewToolExecutor(\"\") should return nil")
	}
}

func TestToolExecutor_MissingBinary(t *testing.T) {
	e := NewToolExecutor("/nonexistent/scan-tool", time.Second)
	_, err := e.Run(context.Background(), "10.0.0.5", 22, models.ModeSYN)
	if !errors.Is(err, ErrCollaborator) {
		t.Errorf("Run() error = %v, want ErrCollaborator", err)
	}
}

// fixedExecutor returns a canned report, standing in for the external tool.
type fixedExecutor struct {
	report string
	err    error
}

func (f fixedExecutor) Run(context.Context, string, int, models.ScanMode) (string, error) {
	return f.report, f.err
}

func TestProber_SYNUsesCollaborator(t *testing.T) {
	p := NewProber(ProberConfig{
		External: fixedExecutor{report: "22/tcp open ssh"},
	})
	res := p.Probe(context.Background(), "10.0.0.5", 22, models.ModeSYN)
	if !res.Open {
		t.Error("syn probe did not honor the collaborator's open report")
	}
}

func TestProber_SYNFallbackOnCollaboratorError(t *testing.T) {
	// Tool failure degrades to a TCP connect against a dead address, which
	// reports closed rather than failing the probe.
	p := NewProber(ProberConfig{
		TCPTimeout: 50 * time.Millisecond,
		External:   fixedExecutor{err: ErrCollaborator},
	})
	res := p.Probe(context.Background(), "127.0.0.1", 1, models.ModeSYN)
	if res.Open {
		t.Error("fallback probe reported open on a closed port")
	}
}
