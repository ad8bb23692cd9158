// internal/scan/external.go
// Adapter boundary for the external SYN/UDP scan collaborator.
// The substring matching on the tool's text report is deliberately confined
// to this file; it never leaks into the engine's state machine.

package scan

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/surfscan/surfscan/internal/models"
)

// Executor invokes an external probe tool for one (address, port, mode) and
// returns its raw text report.
type Executor interface {
	Run(ctx context.Context, address string, port int, mode models.ScanMode) (string, error)
}

// ToolExecutor shells out to an nmap-compatible binary.
type ToolExecutor struct {
	path    string
	timeout time.Duration
}

// NewToolExecutor creates an executor for the tool at path. Returns nil when
// path is empty so callers can pass the result straight into ProberConfig.
func NewToolExecutor(path string, timeout time.Duration) *ToolExecutor {
	if path == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ToolExecutor{path: path, timeout: timeout}
}

// Run invokes the tool. Any invocation failure wraps ErrCollaborator; the
// caller degrades to a TCP connect fallback rather than failing the scan.
func (t *ToolExecutor) Run(ctx context.Context, address string, port int, mode models.ScanMode) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var scanFlag string
	switch mode {
	case models.ModeUDP:
		scanFlag = "-sU"
	default:
		scanFlag = "-sS"
	}

	cmd := exec.CommandContext(ctx, t.path, scanFlag, "-p", strconv.Itoa(port), "-Pn", address)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &Error{
			Message: fmt.Sprintf("%s %s port %d", t.path, scanFlag, port),
			Cause:   ErrCollaborator,
		}
	}
	return string(out), nil
}

// reportsOpen applies the collaborator contract: the report indicates open
// when it contains the token "open" and neither "closed" nor "filtered".
func reportsOpen(report string) bool {
	s := strings.ToLower(report)
	return strings.Contains(s, "open") &&
		!strings.Contains(s, "closed") &&
		!strings.Contains(s, "filtered")
}
