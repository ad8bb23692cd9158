// internal/scan/engine.go
// Batch scheduler: drives bounded concurrent probes and owns session writes

package scan

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/surfscan/surfscan/internal/catalog"
	"github.com/surfscan/surfscan/internal/models"
	"github.com/surfscan/surfscan/internal/notify"
	"github.com/surfscan/surfscan/pkg/logger"
	"github.com/surfscan/surfscan/pkg/ratelimit"
)

// Default batch size: tens of ports per batch balances progress granularity
// against scheduling overhead, and caps simultaneous open sockets.
const defaultBatchSize = 25

// Config holds engine construction parameters.
type Config struct {
	BatchSize  int
	TCPTimeout time.Duration
	UDPTimeout time.Duration
	GrabBanner bool
	RateLimit  int // probe launches per second, 0 = unlimited
	Adaptive   bool
	External   Executor
	UDPViaTool bool
	Notifier   notify.Notifier
	Lookup     LookupFunc // nil = system resolver
}

// Engine creates and drives scan sessions. It holds only a transient
// reference to each session while the scan executes.
type Engine struct {
	batchSize int
	resolver  *Resolver
	limiter   *ratelimit.Limiter
	notifier  notify.Notifier
	probe     func(ctx context.Context, address string, port int, mode models.ScanMode) ProbeResult
}

// New creates an engine from config.
func New(cfg Config) *Engine {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	resolver := NewResolver()
	if cfg.Lookup != nil {
		resolver = NewResolverWith(cfg.Lookup)
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}
	prober := NewProber(ProberConfig{
		TCPTimeout: cfg.TCPTimeout,
		UDPTimeout: cfg.UDPTimeout,
		GrabBanner: cfg.GrabBanner,
		External:   cfg.External,
		UDPViaTool: cfg.UDPViaTool,
	})
	return &Engine{
		batchSize: cfg.BatchSize,
		resolver:  resolver,
		limiter:   ratelimit.New(ratelimit.Config{Rate: cfg.RateLimit, Adaptive: cfg.Adaptive}),
		notifier:  notifier,
		probe:     prober.Probe,
	}
}

// SetProbeFunc replaces the socket-level probe with fn. Intended for tests
// that need deterministic, network-free probing.
func (e *Engine) SetProbeFunc(fn ProbeFunc) {
	e.probe = func(ctx context.Context, address string, port int, _ models.ScanMode) ProbeResult {
		return fn(ctx, address, port)
	}
}

// Start begins a scan and returns its session immediately. Resolution and
// scanning run asynchronously; failures surface through the session's state,
// never through Start. Cancel via session.Cancel or by cancelling ctx.
func (e *Engine) Start(ctx context.Context, target, portSpec string, mode models.ScanMode) *Session {
	s := newSession(target, mode)
	go e.run(ctx, s, portSpec)
	return s
}

func (e *Engine) run(ctx context.Context, s *Session, portSpec string) {
	s.setResolving()

	address, err := e.resolver.Resolve(s.Target().Raw)
	if err != nil {
		logger.Error("target resolution failed",
			logger.String("target", s.Target().Raw), logger.Err(err))
		s.fail(err)
		return
	}

	ports := ParsePortSpec(portSpec)
	batches := partition(ports, e.batchSize)
	s.beginScanning(address, ports, len(batches))
	logger.Info("scan started",
		logger.String("scan_id", s.ID()),
		logger.String("address", address),
		logger.String("mode", string(s.Mode())),
		logger.Int("ports", len(ports)),
		logger.Int("batches", len(batches)))

	if len(batches) == 0 {
		// Nothing to scan: progress jumps straight to 1.0.
		s.complete()
		return
	}

	for i, batch := range batches {
		// Cancellation is cooperative and checked only at batch
		// boundaries; an in-flight batch always finishes.
		if s.IsCancelled() || ctx.Err() != nil {
			logger.Info("scan cancelled",
				logger.String("scan_id", s.ID()),
				logger.Float64("progress", s.Progress()))
			s.cancelFinal()
			return
		}

		results := e.runBatch(ctx, s, address, batch)
		s.publishBatch(results, float64(i+1)/float64(len(batches)))

		for _, r := range results {
			if r.Open {
				e.notifier.OpenPort(models.OpenPortEvent{
					ScanID:    s.ID(),
					Address:   address,
					Port:      r.Port,
					Service:   r.Service,
					Timestamp: time.Now(),
				})
			}
		}
	}

	logger.Info("scan completed",
		logger.String("scan_id", s.ID()),
		logger.Duration("duration", s.Duration()))
	s.complete()
}

// runBatch launches one probe goroutine per port, bounded by the batch size,
// and joins them all before returning. The join barrier is what lets results
// merge deterministically; no partial batch is ever published.
func (e *Engine) runBatch(ctx context.Context, s *Session, address string, batch []int) []models.PortScanResult {
	results := make([]models.PortScanResult, len(batch))
	timeouts := 0
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, port := range batch {
		wg.Add(1)
		go func(i, port int) {
			defer wg.Done()

			if err := e.limiter.Wait(ctx); err != nil {
				// Context gone mid-batch: record the port as closed
				// and let the boundary check end the scan.
				results[i] = closedResult(port)
				return
			}

			probe := e.probe(ctx, address, port, s.Mode())
			service := catalog.ServiceName(port)
			risk, vectors := catalog.Classify(port, service, probe.Open)

			results[i] = models.PortScanResult{
				Port:     port,
				Open:     probe.Open,
				Service:  service,
				Banner:   probe.Banner,
				Version:  versionHint(probe.Banner),
				Risk:     risk,
				Vectors:  vectors,
				ScanTime: probe.Elapsed,
			}
			if probe.TimedOut {
				mu.Lock()
				timeouts++
				mu.Unlock()
			}
		}(i, port)
	}
	wg.Wait()

	e.limiter.Observe(timeouts, len(batch))

	// Published batches are ordered by port.
	sort.Slice(results, func(i, j int) bool { return results[i].Port < results[j].Port })
	return results
}

func closedResult(port int) models.PortScanResult {
	risk, _ := catalog.Classify(port, "", false)
	return models.PortScanResult{Port: port, Risk: risk, Service: catalog.ServiceName(port)}
}

// partition splits ports into fixed-size batches, preserving order.
func partition(ports []int, size int) [][]int {
	if len(ports) == 0 {
		return nil
	}
	batches := make([][]int, 0, (len(ports)+size-1)/size)
	for start := 0; start < len(ports); start += size {
		end := start + size
		if end > len(ports) {
			end = len(ports)
		}
		batches = append(batches, ports[start:end])
	}
	return batches
}
