package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/surfscan/surfscan/internal/core"
	"github.com/surfscan/surfscan/internal/history"
	"github.com/surfscan/surfscan/internal/models"
)

// testConfig builds a config that touches nothing outside dir.
func testConfig(t *testing.T, dir string) *core.Config {
	t.Helper()
	cfg := core.Defaults()
	cfg.Scanner.BatchSize = 2
	cfg.Scanner.BannerGrab = false
	cfg.Output.Formats = []string{"jsonl"}
	cfg.Output.Directory = dir
	cfg.Output.Prefix = "test"
	cfg.History.Path = filepath.Join(dir, "history.db")
	return &cfg
}

func TestApp_RunAgainstLoopback(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	openPort := listener.Addr().(*net.TCPAddr).Port

	dir := t.TempDir()
	application, err := New(testConfig(t, dir))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer application.Close()

	spec := fmt.Sprintf("%d", openPort)
	if err := application.Run(context.Background(), "127.0.0.1", spec, models.ModeTCPConnect); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// JSONL output was written.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	var jsonlFound bool
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".jsonl") {
			jsonlFound = true
		}
	}
	if !jsonlFound {
		t.Error("no jsonl output file written")
	}

	// History holds exactly one completed scan with the open port.
	store, err := history.Open(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()
	records, err := store.List()
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("history has %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.State != "completed" {
		t.Errorf("state = %s, want completed", rec.State)
	}
	if rec.OpenPorts != 1 {
		t.Errorf("open ports = %d, want 1", rec.OpenPorts)
	}
	if rec.Progress != 1.0 {
		t.Errorf("progress = %v, want 1.0", rec.Progress)
	}
}

func TestApp_RunResolutionFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	cfg.History.Enabled = false

	application, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer application.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = application.Run(ctx, "", "80", models.ModeTCPConnect)
	if err == nil {
		t.Fatal("Run() with empty target should fail")
	}
	if !strings.Contains(err.Error(), "scan failed") {
		t.Errorf("Run() error = %v", err)
	}
}

func TestApp_NewRejectsUnknownFormat(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	cfg.Output.Formats = []string{"xml"}
	if _, err := New(cfg); err == nil {
		t.Error("New() should reject unknown output format")
	}
}
