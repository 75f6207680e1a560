package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/banshee-data/scanalign/internal/config"
	"github.com/banshee-data/scanalign/internal/monitoring"
	"github.com/banshee-data/scanalign/internal/registration"
	"github.com/banshee-data/scanalign/internal/scanfile"
)

type solveFlags struct {
	configPath  string
	minOverlap  int
	workers     int
	reference   int
	timeout     string
	verbose     bool
	metrics     bool
	listBeacons bool
	listOrigins bool
}

func newSolveCmd() *cobra.Command {
	var f solveFlags
	cmd := &cobra.Command{
		Use:   "solve FILE",
		Short: "Assemble the scans in FILE and print the beacon count and maximum scanner distance",
		Long: `Assemble the scans in FILE ("-" reads standard input) into the frame of the
reference scan, then print the number of distinct beacons and the largest
Manhattan distance between two scanners. Fails if any scan cannot be
connected to the reference through overlapping beacons.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, args[0], f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "JSON assembly config (see "+config.DefaultConfigPath+")")
	fl.IntVar(&f.minOverlap, "min-overlap", config.DefaultMinOverlap, "shared beacons required to register a scan")
	fl.IntVar(&f.workers, "workers", 0, "concurrent candidate matches (0 = one per CPU)")
	fl.IntVar(&f.reference, "reference", config.DefaultReferenceScan, "input position of the scan that anchors the global frame")
	fl.StringVar(&f.timeout, "timeout", "", "abort assembly after this duration, e.g. 30s")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log every seed/candidate attempt and progress")
	fl.BoolVar(&f.metrics, "metrics", false, "write Prometheus metrics to stderr after the run")
	fl.BoolVar(&f.listBeacons, "list-beacons", false, "print every distinct beacon in the global frame")
	fl.BoolVar(&f.listOrigins, "list-origins", false, "print every scanner origin in the global frame")
	return cmd
}

// resolveConfig layers defaults, the defaults file when present, the
// --config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command, f solveFlags) (*config.AssemblyConfig, error) {
	cfg, err := config.LoadBaseConfig(config.DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	if f.configPath != "" {
		fileCfg, err := config.LoadAssemblyConfig(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileCfg)
	}

	fl := cmd.Flags()
	overrides := config.EmptyAssemblyConfig()
	if fl.Changed("min-overlap") {
		overrides.MinOverlap = &f.minOverlap
	}
	if fl.Changed("workers") {
		overrides.Workers = &f.workers
	}
	if fl.Changed("reference") {
		overrides.ReferenceScan = &f.reference
	}
	if fl.Changed("timeout") {
		overrides.Timeout = &f.timeout
	}
	if f.verbose {
		verbose := true
		overrides.LogProgress = &verbose
	}
	cfg.Merge(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func readScans(cmd *cobra.Command, path string) ([]registration.Scan, error) {
	if path == "-" {
		return scanfile.Parse(cmd.InOrStdin())
	}
	return scanfile.ParseFile(path)
}

func runSolve(cmd *cobra.Command, path string, f solveFlags) error {
	cfg, err := resolveConfig(cmd, f)
	if err != nil {
		return err
	}
	scans, err := readScans(cmd, path)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	monitoring.SetLogger(log.New(stderr, "", log.LstdFlags).Printf)

	var observers registration.Observers
	if cfg.GetLogProgress() {
		observers = append(observers, monitoring.ProgressLogger{Verbose: f.verbose})
	}
	var registry *prometheus.Registry
	if f.metrics {
		registry = prometheus.NewRegistry()
		m, err := monitoring.NewMetrics(registry)
		if err != nil {
			return err
		}
		observers = append(observers, m)
	}

	opts := registration.Options{
		MinOverlap:      cfg.GetMinOverlap(),
		Workers:         cfg.GetWorkers(),
		Reference:       cfg.GetReferenceScan(),
		MaxMatcherCalls: cfg.GetMaxMatcherCalls(),
	}
	if len(observers) > 0 {
		opts.Observer = observers
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if d := cfg.GetTimeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	monitoring.Logf("[Assembler] assembling %d scans from %s (min overlap %d, reference #%d)",
		len(scans), path, opts.MinOverlap, opts.Reference)
	res, err := registration.NewAssembler(opts).Assemble(ctx, scans)

	if registry != nil {
		if werr := monitoring.WriteMetrics(stderr, registry); werr != nil {
			monitoring.Logf("[Assembler] %v", werr)
		}
	}
	if err != nil {
		return err
	}
	return printSummary(cmd.OutOrStdout(), res, f)
}

func printSummary(w io.Writer, res *registration.Result, f solveFlags) error {
	sum := res.Summary()
	if f.listOrigins {
		for _, o := range sum.Origins {
			if _, err := fmt.Fprintf(w, "scanner %d: %d,%d,%d\n", o.ScanID, o.Origin.DX, o.Origin.DY, o.Origin.DZ); err != nil {
				return err
			}
		}
	}
	if f.listBeacons {
		for _, b := range sum.Beacons {
			if _, err := fmt.Fprintln(w, b.String()); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "beacons: %d\nmax distance: %d\n", sum.BeaconCount, sum.MaxDistance)
	return err
}
