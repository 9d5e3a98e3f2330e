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
	discoverJSON        bool
	discoverTimeout     time.Duration
	discoverConcurrency int
	discoverNoICMP      bool
)

// discoverCmd represents the discover command.
var discoverCmd = &cobra.Command{
	Use:   "discover <network>",
	Short: "Discover responsive hosts on a network",
	Long: `Discover probes every usable address in a CIDR block. Each host is
checked against a list of common TCP ports; hosts that answer none of them
get a single ICMP echo as a fallback. Responsive hosts are enriched with
reverse DNS names, MAC addresses, and hardware vendor information.

The network argument is CIDR notation (e.g. 192.168.1.0/24) or a single
IP address. Blocks wider than /16 are refused.`,
	Example: `  netsweep discover 192.168.1.0/24
  netsweep discover 10.0.0.0/28 --json
  netsweep discover 192.168.1.10 --timeout 2s --no-icmp`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "emit the scan summary as JSON")
	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", 0, "per-probe timeout (default from config)")
	discoverCmd.Flags().IntVar(&discoverConcurrency, "concurrency", 0, "worker pool size (default from config)")
	discoverCmd.Flags().BoolVar(&discoverNoICMP, "no-icmp", false, "disable the ICMP echo fallback")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	network := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	stopMetrics := startMetricsServer(cfg)
	defer stopMetrics()

	opts := cfg.DiscoveryOptions()
	if discoverTimeout > 0 {
		opts.PerProbeTimeout = discoverTimeout
	}
	if discoverConcurrency > 0 {
		opts.Concurrency = discoverConcurrency
	}
	if discoverNoICMP {
		opts.EnableICMPFallback = false
	}

	engine, err := scan.NewEngine(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.InfoDiscovery("Starting host discovery", network,
		"concurrency", opts.Concurrency,
		"timeout", opts.PerProbeTimeout)
	start := time.Now()

	summary, err := engine.DiscoverHosts(ctx, network)
	if err != nil {
		logging.ErrorDiscovery("Host discovery failed", network, err)
		return err
	}

	logging.InfoDiscovery("Host discovery complete", network,
		"scan_id", summary.ScanID,
		"responsive", summary.TargetsResponsive,
		"total", summary.TargetsTotal,
		"elapsed", time.Since(start).Round(time.Millisecond),
		"incomplete", summary.Incomplete)

	if err := renderSummary(summary, discoverJSON); err != nil {
		return err
	}
	if summary.Incomplete {
		fmt.Fprintln(os.Stderr, "netsweep: discovery was interrupted; results are partial")
	}
	return nil
}
