package scan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avrost/netsweep/internal/enrich"
	"github.com/avrost/netsweep/internal/logging"
	"github.com/avrost/netsweep/internal/metrics"
	"github.com/avrost/netsweep/internal/probe"
	"github.com/avrost/netsweep/internal/target"
	"github.com/avrost/netsweep/internal/workers"
)

// Engine runs discovery and port scans with a fixed set of options.
// Engines hold no mutable state between scans, so one engine may run
// multiple scans concurrently.
type Engine struct {
	opts     Options
	resolver *enrich.Resolver
	log      *logging.Logger
}

// NewEngine validates the options eagerly and returns a ready engine.
func NewEngine(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		opts:     opts,
		resolver: enrich.NewResolver(opts.PerProbeTimeout),
		log:      logging.Default().WithComponent("engine"),
	}, nil
}

// DiscoverHosts probes every usable address in a CIDR block and returns a
// summary of responsive hosts. Only invalid input produces an error;
// unresponsive targets are reflected in the summary counters.
func (e *Engine) DiscoverHosts(ctx context.Context, cidr string) (*ScanSummary, error) {
	addrs, err := target.ParseCIDR(cidr)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	scanID := uuid.New().String()
	log := e.log.WithScanID(scanID)
	log.Debug("Starting host discovery", "network", cidr, "targets", len(addrs))

	gm := metrics.GetGlobalMetrics()
	gm.SetActiveDiscovery(1)
	defer gm.SetActiveDiscovery(0)

	pool := workers.New[ProbeResult](workers.Config{
		Size:      e.opts.Concurrency,
		QueueSize: e.queueSize(len(addrs)),
	})
	pool.Start()
	stopWatching := watchCancellation(ctx, pool)
	defer stopWatching()

	incomplete := false
	for i, addr := range addrs {
		ip := addr.String()
		err := pool.Submit(workers.Task[ProbeResult]{
			Index: i,
			Label: ip,
			Kind:  "host_probe",
			Run: func(taskCtx context.Context) ProbeResult {
				return e.probeHostTask(taskCtx, ip)
			},
		})
		if err != nil {
			log.Debug("Submission stopped early", "error", err)
			incomplete = true
			break
		}
	}
	pool.Close()

	ordered := make([]*ProbeResult, len(addrs))
	for result := range pool.Results() {
		value := result.Value
		ordered[result.Index] = &value
	}
	if pool.Stopped() {
		incomplete = true
	}

	summary := e.aggregateDiscovery(scanID, len(addrs), ordered, incomplete, time.Since(start))

	gm.IncrementDiscoveryTotal(probe.MethodTCP, discoveryStatus(incomplete))
	gm.RecordDiscoveryDuration(probe.MethodTCP, summary.ElapsedTime)
	gm.IncrementHostsDiscovered(probe.MethodTCP, cidr, summary.TargetsResponsive)
	metrics.Histogram(metrics.MetricDiscoveryDuration, summary.ElapsedTime.Seconds(), metrics.Labels{
		metrics.LabelNetwork: cidr,
	})

	log.Debug("Host discovery finished",
		"responsive", summary.TargetsResponsive,
		"total", summary.TargetsTotal,
		"incomplete", summary.Incomplete,
		"elapsed", summary.ElapsedTime)
	return summary, nil
}

// ScanPorts probes the given ports on a single host and returns a summary
// with one record holding every probed port's state.
func (e *Engine) ScanPorts(ctx context.Context, host, portSpec string) (*ScanSummary, error) {
	ip, err := target.ResolveIPv4(host)
	if err != nil {
		return nil, err
	}
	ports, err := target.ParsePorts(portSpec)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	scanID := uuid.New().String()
	log := e.log.WithScanID(scanID).WithTarget(ip)
	log.Debug("Starting port scan", "ports", len(ports))

	gm := metrics.GetGlobalMetrics()
	gm.SetActiveScans(1)
	defer gm.SetActiveScans(0)

	pool := workers.New[ProbeResult](workers.Config{
		Size:      e.opts.Concurrency,
		QueueSize: e.queueSize(len(ports)),
	})
	pool.Start()
	stopWatching := watchCancellation(ctx, pool)
	defer stopWatching()

	incomplete := false
	for i, port := range ports {
		err := pool.Submit(workers.Task[ProbeResult]{
			Index: i,
			Label: ip,
			Kind:  "port_probe",
			Run: func(taskCtx context.Context) ProbeResult {
				return e.probePortTask(taskCtx, ip, port)
			},
		})
		if err != nil {
			log.Debug("Submission stopped early", "error", err)
			incomplete = true
			break
		}
	}
	pool.Close()

	ordered := make([]*ProbeResult, len(ports))
	for result := range pool.Results() {
		value := result.Value
		ordered[result.Index] = &value
	}
	if pool.Stopped() {
		incomplete = true
	}

	summary := e.aggregatePortScan(ctx, scanID, ip, ordered, incomplete, time.Since(start))

	gm.IncrementScansTotal("port", discoveryStatus(incomplete))
	gm.RecordScanDuration("port", summary.ElapsedTime)
	log.Debug("Port scan finished",
		"open", summary.TargetsResponsive,
		"scanned", summary.TargetsTotal,
		"incomplete", summary.Incomplete,
		"elapsed", summary.ElapsedTime)
	return summary, nil
}

// queueSize sizes the pool queue for a scan of the given breadth. The
// default holds every task at once; an explicit QueueSize option caps it.
func (e *Engine) queueSize(targets int) int {
	if e.opts.QueueSize > 0 {
		return e.opts.QueueSize
	}
	return targets
}

// probeHostTask runs inside a worker: probe first, enrich only on success.
func (e *Engine) probeHostTask(ctx context.Context, ip string) ProbeResult {
	result := ProbeResult{Target: ip}
	result.Host = probe.ProbeHost(ctx, ip, e.opts.CandidateTCPPorts,
		e.opts.PerProbeTimeout, e.opts.EnableICMPFallback)
	if !result.Host.Alive {
		return result
	}

	if e.opts.EnableHostnameResolution {
		result.Hostname = e.resolver.ReverseLookup(ctx, ip)
	}
	result.MAC = enrich.LookupMAC(ip)
	if result.MAC != "" {
		result.Vendor = enrich.LookupVendor(result.MAC)
	}
	return result
}

// probePortTask runs inside a worker: banner grabbing happens only for
// ports that proved open.
func (e *Engine) probePortTask(ctx context.Context, ip string, port int) ProbeResult {
	result := ProbeResult{Target: ip}
	result.Port = probe.ScanPort(ctx, ip, port, e.opts.PerProbeTimeout)
	if result.Port.State == probe.StateOpen && e.opts.EnableBannerGrab {
		result.Banner = enrich.GrabBanner(ctx, ip, port, e.opts.PerProbeTimeout)
	}
	return result
}

// aggregateDiscovery binds ordered probe results into host records.
// Discarded results (nil slots after cancellation) count as unresponsive.
func (e *Engine) aggregateDiscovery(scanID string, total int, ordered []*ProbeResult,
	incomplete bool, elapsed time.Duration) *ScanSummary {
	var records []HostRecord
	for _, result := range ordered {
		if result == nil || !result.Host.Alive {
			continue
		}

		record := HostRecord{
			IP:       result.Target,
			Alive:    true,
			Hostname: result.Hostname,
			MAC:      result.MAC,
			Vendor:   result.Vendor,
			Method:   result.Host.Method,
		}
		if result.Host.Port != 0 {
			record.OpenPorts = []PortRecord{{
				Port:         result.Host.Port,
				State:        string(probe.StateOpen),
				ServiceGuess: GuessService(result.Host.Port),
				RiskLevel:    ClassifyRisk(result.Host.Port, ""),
			}}
		}
		records = append(records, record)
	}

	return &ScanSummary{
		ScanID:            scanID,
		TargetsTotal:      total,
		TargetsResponsive: len(records),
		ElapsedTime:       elapsed,
		Incomplete:        incomplete,
		Records:           records,
	}
}

// aggregatePortScan binds ordered port results into a single host record.
// Submission order is ascending by port, so index order is port order.
func (e *Engine) aggregatePortScan(ctx context.Context, scanID, ip string,
	ordered []*ProbeResult, incomplete bool, elapsed time.Duration) *ScanSummary {
	gm := metrics.GetGlobalMetrics()

	var ports []PortRecord
	open := 0
	for _, result := range ordered {
		if result == nil {
			continue
		}

		record := PortRecord{
			Port:      result.Port.Port,
			State:     string(result.Port.State),
			RiskLevel: RiskNone,
		}
		if result.Port.State == probe.StateOpen {
			open++
			record.ServiceGuess = GuessService(record.Port)
			record.Banner = result.Banner
			record.RiskLevel = ClassifyRisk(record.Port, record.Banner)
		}
		gm.IncrementPortsScanned(string(result.Port.State), 1)
		ports = append(ports, record)
	}

	host := HostRecord{
		IP:        ip,
		Alive:     open > 0,
		OpenPorts: ports,
	}
	if e.opts.EnableHostnameResolution {
		host.Hostname = e.resolver.ReverseLookup(ctx, ip)
	}

	return &ScanSummary{
		ScanID:            scanID,
		TargetsTotal:      len(ordered),
		TargetsResponsive: open,
		ElapsedTime:       elapsed,
		Incomplete:        incomplete,
		Records:           []HostRecord{host},
	}
}

// watchCancellation stops the pool when the caller's context is canceled.
// The returned function ends the watch once the scan is done.
func watchCancellation[R any](ctx context.Context, pool *workers.Pool[R]) func() {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pool.Stop()
		case <-done:
		}
	}()
	return func() { close(done) }
}

func discoveryStatus(incomplete bool) string {
	if incomplete {
		return "incomplete"
	}
	return "success"
}
