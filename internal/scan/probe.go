// internal/scan/probe.go
// Single-port reachability probes

package scan

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/surfscan/surfscan/internal/models"
	"github.com/surfscan/surfscan/pkg/logger"
)

// slowProbeThreshold flags probes whose wall-clock time indicates network
// pathology worth surfacing. Flagged, not failed.
const slowProbeThreshold = time.Second

const bannerReadLimit = 256

// udpProne is the fixed set of UDP-centric ports the comprehensive mode
// retries over UDP after TCP and SYN both report closed.
var udpProne = map[int]bool{
	53:   true, // dns
	69:   true, // tftp
	123:  true, // ntp
	161:  true, // snmp
	162:  true, // snmptrap
	514:  true, // syslog
	1900: true, // upnp
	5353: true, // mdns
}

// ProbeResult is the outcome of one reachability test. Probes never touch
// shared state; they return a value to the scheduler.
type ProbeResult struct {
	Port     int
	Open     bool
	Banner   string
	Elapsed  time.Duration
	TimedOut bool
}

// ProbeFunc tests one (address, port) pair. The engine accepts any ProbeFunc
// so tests can substitute deterministic stubs for real networking.
type ProbeFunc func(ctx context.Context, address string, port int) ProbeResult

// Prober owns the socket-level probe implementations. Every socket it opens
// is scoped to one probe call and closed on every exit path.
type Prober struct {
	dialer     *net.Dialer
	tcpTimeout time.Duration
	udpTimeout time.Duration
	grabBanner bool
	external   Executor
	udpViaTool bool
}

// ProberConfig holds probe tuning.
type ProberConfig struct {
	TCPTimeout time.Duration // ~100-300ms keeps large ranges tractable
	UDPTimeout time.Duration // ~1s; UDP needs longer given its ambiguity
	GrabBanner bool
	External   Executor // nil disables SYN and tool-backed UDP
	UDPViaTool bool
}

// NewProber creates a prober.
func NewProber(cfg ProberConfig) *Prober {
	if cfg.TCPTimeout <= 0 {
		cfg.TCPTimeout = 250 * time.Millisecond
	}
	if cfg.UDPTimeout <= 0 {
		cfg.UDPTimeout = time.Second
	}
	return &Prober{
		dialer: &net.Dialer{
			Timeout:   cfg.TCPTimeout,
			KeepAlive: -1, // no keep-alive on scan sockets
		},
		tcpTimeout: cfg.TCPTimeout,
		udpTimeout: cfg.UDPTimeout,
		grabBanner: cfg.GrabBanner,
		external:   cfg.External,
		udpViaTool: cfg.UDPViaTool,
	}
}

// Probe dispatches one port to the probe chain for mode.
func (p *Prober) Probe(ctx context.Context, address string, port int, mode models.ScanMode) ProbeResult {
	var res ProbeResult
	switch mode {
	case models.ModeTCPConnect:
		res = p.TCPConnect(ctx, address, port)
	case models.ModeSYN:
		res = p.syn(ctx, address, port)
	case models.ModeUDP:
		res = p.UDP(ctx, address, port)
	case models.ModeComprehensive:
		res = p.comprehensive(ctx, address, port)
	default:
		res = p.TCPConnect(ctx, address, port)
	}

	if res.Elapsed > slowProbeThreshold {
		logger.Warn("slow probe",
			logger.String("address", address),
			logger.Int("port", port),
			logger.Duration("elapsed", res.Elapsed))
	}
	return res
}

// TCPConnect attempts a full three-way handshake. Open means the connect
// succeeded before the timeout.
func (p *Prober) TCPConnect(ctx context.Context, address string, port int) ProbeResult {
	start := time.Now()
	conn, err := p.dialer.DialContext(ctx, "tcp", net.JoinHostPort(address, strconv.Itoa(port)))
	elapsed := time.Since(start)

	res := ProbeResult{Port: port, Elapsed: elapsed}
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			res.TimedOut = true
		}
		return res
	}
	defer conn.Close()

	res.Open = true
	if p.grabBanner {
		res.Banner = readBanner(conn)
	}
	return res
}

// UDP sends a small probe datagram and treats any response before the
// timeout as open. Absence of a response does not prove closed; the
// ambiguity is inherent to UDP and is reported conservatively as closed.
func (p *Prober) UDP(ctx context.Context, address string, port int) ProbeResult {
	if p.udpViaTool && p.external != nil {
		return p.udpExternal(ctx, address, port)
	}
	return p.udpNative(ctx, address, port)
}

func (p *Prober) udpNative(ctx context.Context, address string, port int) ProbeResult {
	start := time.Now()
	res := ProbeResult{Port: port}

	conn, err := p.dialer.DialContext(ctx, "udp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		res.Elapsed = time.Since(start)
		return res
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(p.udpTimeout)); err != nil {
		res.Elapsed = time.Since(start)
		return res
	}
	if _, err := conn.Write([]byte{0x00}); err != nil {
		res.Elapsed = time.Since(start)
		return res
	}

	buf := make([]byte, 512)
	n, err := conn.Read(buf)
	res.Elapsed = time.Since(start)
	res.Open = err == nil && n > 0
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		res.TimedOut = true
	}
	return res
}

// syn delegates to the external collaborator and falls back to a TCP
// connect when the tool is unavailable or errors.
func (p *Prober) syn(ctx context.Context, address string, port int) ProbeResult {
	if p.external == nil {
		logger.Debug("syn requested with no external tool, using tcp connect",
			logger.Int("port", port))
		return p.TCPConnect(ctx, address, port)
	}

	start := time.Now()
	out, err := p.external.Run(ctx, address, port, models.ModeSYN)
	if err != nil {
		logger.Warn("external syn probe failed, falling back to tcp connect",
			logger.Int("port", port), logger.Err(err))
		return p.TCPConnect(ctx, address, port)
	}
	return ProbeResult{
		Port:    port,
		Open:    reportsOpen(out),
		Elapsed: time.Since(start),
	}
}

func (p *Prober) udpExternal(ctx context.Context, address string, port int) ProbeResult {
	start := time.Now()
	out, err := p.external.Run(ctx, address, port, models.ModeUDP)
	if err != nil {
		logger.Warn("external udp probe failed, using native probe",
			logger.Int("port", port), logger.Err(err))
		return p.udpNative(ctx, address, port)
	}
	return ProbeResult{
		Port:    port,
		Open:    reportsOpen(out),
		Elapsed: time.Since(start),
	}
}

// comprehensive tries TCP connect, then SYN, then UDP for UDP-prone ports,
// short-circuiting on the first success.
func (p *Prober) comprehensive(ctx context.Context, address string, port int) ProbeResult {
	res := p.TCPConnect(ctx, address, port)
	if res.Open {
		return res
	}
	if p.external != nil {
		if r := p.syn(ctx, address, port); r.Open {
			r.Elapsed += res.Elapsed
			return r
		}
	}
	if udpProne[port] {
		if r := p.UDP(ctx, address, port); r.Open {
			r.Elapsed += res.Elapsed
			return r
		}
	}
	return res
}

// versionHint pulls a product/version token out of a greeting banner, e.g.
// "OpenSSH_9.6" from "SSH-2.0-OpenSSH_9.6". Best effort; empty when the
// banner carries no dotted version token.
func versionHint(banner string) string {
	for _, field := range strings.Fields(banner) {
		if strings.Contains(field, ".") && strings.ContainsAny(field, "0123456789") {
			return strings.TrimPrefix(field, "SSH-2.0-")
		}
	}
	return ""
}

// readBanner grabs whatever greeting the service volunteers within a short
// window. Best effort; an empty banner is normal.
func readBanner(conn net.Conn) string {
	if err := conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond)); err != nil {
		return ""
	}
	buf := make([]byte, bannerReadLimit)
	n, err := conn.Read(buf)
	if err != nil || n == 0 {
		return ""
	}
	return strings.TrimSpace(string(buf[:n]))
}
