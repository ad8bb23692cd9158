// internal/scan/probe_test.go
// Socket-level probe tests against local listeners

package scan

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/surfscan/surfscan/internal/models"
)

func TestTCPConnect_OpenPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	p := NewProber(ProberConfig{TCPTimeout: 500 * time.Millisecond})

	res := p.TCPConnect(context.Background(), "127.0.0.1", port)
	if !res.Open {
		t.Errorf("TCPConnect(%d) reported closed for a listening port", port)
	}
	if res.Port != port {
		t.Errorf("result port = %d, want %d", res.Port, port)
	}
}

func TestTCPConnect_ClosedPort(t *testing.T) {
	// Grab an ephemeral port and close it so nothing is listening.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	p := NewProber(ProberConfig{TCPTimeout: 500 * time.Millisecond})
	res := p.TCPConnect(context.Background(), "127.0.0.1", port)
	if res.Open {
		t.Errorf("TCPConnect(%d) reported open for a closed port", port)
	}
}

func TestTCPConnect_BannerGrab(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_, _ = conn.Write([]byte("SSH-2.0-TestServer\r\n"))
		conn.Close()
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	p := NewProber(ProberConfig{TCPTimeout: 500 * time.Millisecond, GrabBanner: true})

	res := p.TCPConnect(context.Background(), "127.0.0.1", port)
	if !res.Open {
		t.Fatal("probe reported closed")
	}
	if res.Banner != "SSH-2.0-TestServer" {
		t.Errorf("banner = %q, want SSH-2.0-TestServer", res.Banner)
	}
}

func TestUDP_Responder(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	defer pc.Close()
	go func() {
		buf := make([]byte, 64)
		for {
			n, addr, err := pc.ReadFrom(buf)
			if err != nil {
				return
			}
			_, _ = pc.WriteTo(buf[:n], addr)
		}
	}()

	port := pc.LocalAddr().(*net.UDPAddr).Port
	p := NewProber(ProberConfig{UDPTimeout: 500 * time.Millisecond})

	res := p.UDP(context.Background(), "127.0.0.1", port)
	if !res.Open {
		t.Errorf("UDP(%d) reported closed for a responding service", port)
	}
}

func TestUDP_SilentPortReportsClosed(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	// Listening but never answering: indistinguishable from filtered, and
	// reported conservatively as closed.
	defer pc.Close()

	port := pc.LocalAddr().(*net.UDPAddr).Port
	p := NewProber(ProberConfig{UDPTimeout: 200 * time.Millisecond})

	res := p.UDP(context.Background(), "127.0.0.1", port)
	if res.Open {
		t.Errorf("UDP(%d) reported open with no response", port)
	}
}

func TestComprehensive_ShortCircuitsOnTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	// The executor would panic the test if consulted; TCP success must
	// short-circuit the chain.
	p := NewProber(ProberConfig{
		TCPTimeout: 500 * time.Millisecond,
		External:   panicExecutor{t},
	})

	res := p.Probe(context.Background(), "127.0.0.1", port, models.ModeComprehensive)
	if !res.Open {
		t.Error("comprehensive probe missed an open TCP port")
	}
}

func TestVersionHint(t *testing.T) {
	tests := []struct {
		banner string
		want   string
	}{
		{"SSH-2.0-OpenSSH_9.6", "OpenSSH_9.6"},
		{"220 ProFTPD 1.3.8 Server ready", "1.3.8"},
		{"hello", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := versionHint(tt.banner); got != tt.want {
			t.Errorf("versionHint(%q) = %q, want %q", tt.banner, got, tt.want)
		}
	}
}

type panicExecutor struct{ t *testing.T }

func (p panicExecutor) Run(context.Context, string, int, models.ScanMode) (string, error) {
	p.t.Error("external tool consulted after TCP success")
	return "", nil
}
