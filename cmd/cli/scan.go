package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/avrost/netsweep/internal/logging"
	"github.com/avrost/netsweep/internal/scan"
)

var (
	scanPorts       string
	scanJSON        bool
	scanTimeout     time.Duration
	scanConcurrency int
	scanNoBanner    bool
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan <target>",
	Short: "Scan ports on a single host",
	Long: `Scan probes TCP ports on one target and classifies each as open,
closed, or filtered. Open ports are annotated with a service guess, a risk
level, and, where the service volunteers one, a banner.

The target is an IPv4 address or a hostname; hostnames are resolved to
their first IPv4 address before scanning.`,
	Example: `  netsweep scan 192.168.1.10
  netsweep scan fileserver --ports 1-1024
  netsweep scan 10.0.0.5 --ports 22,80,443,8000-8100 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanPorts, "ports", "p", "", "port specification (default from config)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "emit the scan summary as JSON")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "per-probe timeout (default from config)")
	scanCmd.Flags().IntVar(&scanConcurrency, "concurrency", 0, "worker pool size (default from config)")
	scanCmd.Flags().BoolVar(&scanNoBanner, "no-banner", false, "disable banner grabbing")
}

func runScan(cmd *cobra.Command, args []string) error {
	targetHost := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	stopMetrics := startMetricsServer(cfg)
	defer stopMetrics()

	portSpec := scanPorts
	if portSpec == "" {
		portSpec = cfg.Scanning.DefaultPorts
	}

	opts := cfg.PortScanOptions()
	if scanTimeout > 0 {
		opts.PerProbeTimeout = scanTimeout
	}
	if scanConcurrency > 0 {
		opts.Concurrency = scanConcurrency
	}
	if scanNoBanner {
		opts.EnableBannerGrab = false
	}

	engine, err := scan.NewEngine(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.InfoScan("Starting port scan", targetHost,
		"ports", portSpec,
		"concurrency", opts.Concurrency,
		"timeout", opts.PerProbeTimeout)
	start := time.Now()

	summary, err := engine.ScanPorts(ctx, targetHost, portSpec)
	if err != nil {
		logging.ErrorScan("Port scan failed", targetHost, err)
		return err
	}

	logging.InfoScan("Port scan complete", targetHost,
		"scan_id", summary.ScanID,
		"open", summary.TargetsResponsive,
		"scanned", summary.TargetsTotal,
		"elapsed", time.Since(start).Round(time.Millisecond),
		"incomplete", summary.Incomplete)

	if err := renderSummary(summary, scanJSON); err != nil {
		return err
	}
	if summary.Incomplete {
		fmt.Fprintln(os.Stderr, "netsweep: scan was interrupted; results are partial")
	}
	return nil
}
