package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/crossrank"
	"github.com/hupe1980/crossrank/blobstore"
	miniostore "github.com/hupe1980/crossrank/blobstore/minio"
	s3store "github.com/hupe1980/crossrank/blobstore/s3"
	"github.com/hupe1980/crossrank/distance"
	"github.com/hupe1980/crossrank/internal/config"
	promcollector "github.com/hupe1980/crossrank/metrics/prometheus"
	"github.com/hupe1980/crossrank/model"
	"github.com/hupe1980/crossrank/report"
)

type flags struct {
	configPath      string
	indices         []string
	k               int
	measure         string
	format          string
	workers         int
	noNormalize     bool
	includeClass    bool
	store           string
	root            string
	bucket          string
	prefix          string
	endpoint        string
	region          string
	secure          bool
	memoryLimit     int64
	ioLimit         int64
	logLevel        string
	logFormat       string
	metricsTextfile string
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "crossrank [flags] QUERY...",
		Short: "Cross-index top-k document retrieval and ranking",
		Long: `crossrank finds, for every query document, the k most similar documents in
each index and ranks the candidates by how many indices returned them, their
average rank and their average distance.

Query documents are given as "<class>/<document>". Indices are ARFF files,
optionally gzip, zstd or lz4 compressed.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), f.logLevel, f.logFormat)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cfg, logger, args)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	fs.StringArrayVarP(&f.indices, "index", "i", nil, "Index files or glob patterns, comma separated (default: every index file in the store root)")
	fs.IntVarP(&f.k, "k", "k", crossrank.DefaultK, "Number of neighbors per index and query")
	fs.StringVarP(&f.measure, "measure", "m", distance.L1.String(), "Distance measure (L1|L2)")
	fs.StringVar(&f.format, "format", config.FormatText, "Report format (text|table)")
	fs.IntVar(&f.workers, "workers", 0, "Concurrency bound (0 = GOMAXPROCS)")
	fs.BoolVar(&f.noNormalize, "no-normalize", false, "Disable min/max normalization of numeric attributes")
	fs.BoolVar(&f.includeClass, "include-class", false, "Count the class attribute as a feature in the distance")
	fs.StringVar(&f.store, "store", config.StoreLocal, "Index store (local|s3|minio)")
	fs.StringVar(&f.root, "root", ".", "Root directory of the local store")
	fs.StringVar(&f.bucket, "bucket", "", "Bucket of the s3 or minio store")
	fs.StringVar(&f.prefix, "prefix", "", "Key prefix within the bucket")
	fs.StringVar(&f.endpoint, "endpoint", "", "Endpoint of an S3-compatible service")
	fs.StringVar(&f.region, "region", "", "Bucket region")
	fs.BoolVar(&f.secure, "secure", false, "Use TLS for the minio store")
	fs.Int64Var(&f.memoryLimit, "memory-limit", 0, "Memory budget for loaded indices in bytes (0 = unlimited)")
	fs.Int64Var(&f.ioLimit, "io-limit", 0, "Index read throughput in bytes per second (0 = unlimited)")
	fs.StringVar(&f.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log format (text|json)")
	fs.StringVar(&f.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file after the run")

	return cmd
}

// resolveConfig layers explicitly set flags over the config file over defaults.
func resolveConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("index") {
		cfg.Indices = f.indices
	}
	if changed("k") {
		cfg.K = f.k
	}
	if changed("measure") {
		cfg.Measure = f.measure
	}
	if changed("format") {
		cfg.Format = f.format
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("no-normalize") {
		cfg.Normalize = !f.noNormalize
	}
	if changed("include-class") {
		cfg.IncludeClass = f.includeClass
	}
	if changed("store") {
		cfg.Store.Type = f.store
	}
	if changed("root") {
		cfg.Store.Root = f.root
	}
	if changed("bucket") {
		cfg.Store.Bucket = f.bucket
	}
	if changed("prefix") {
		cfg.Store.Prefix = f.prefix
	}
	if changed("endpoint") {
		cfg.Store.Endpoint = f.endpoint
	}
	if changed("region") {
		cfg.Store.Region = f.region
	}
	if changed("secure") {
		cfg.Store.Secure = f.secure
	}
	if changed("memory-limit") {
		cfg.Limits.MemoryBytes = f.memoryLimit
	}
	if changed("io-limit") {
		cfg.Limits.IOBytesPerSec = f.ioLimit
	}
	if changed("metrics-textfile") {
		cfg.MetricsTextfile = f.metricsTextfile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, level, format string) (*crossrank.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%w: log level %q", crossrank.ErrConfiguration, level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return crossrank.NewLogger(slog.NewTextHandler(w, opts)), nil
	case "json":
		return crossrank.NewLogger(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: log format %q", crossrank.ErrConfiguration, format)
	}
}

func openStore(ctx context.Context, s config.Store) (blobstore.BlobStore, error) {
	switch s.Type {
	case config.StoreS3:
		return s3store.New(ctx, s.Bucket,
			s3store.WithPrefix(s.Prefix),
			s3store.WithRegion(s.Region),
			s3store.WithEndpoint(s.Endpoint),
		)
	case config.StoreMinio:
		return miniostore.New(s.Endpoint, s.Bucket, func(o *miniostore.Options) {
			o.Prefix = s.Prefix
			o.Region = s.Region
			o.Secure = s.Secure
		})
	default:
		return blobstore.NewLocalStore(s.Root), nil
	}
}

func run(ctx context.Context, stdout io.Writer, cfg *config.Config, logger *crossrank.Logger, args []string) error {
	measure, err := distance.ParseMeasure(cfg.Measure)
	if err != nil {
		return err
	}
	rw, err := report.New(cfg.Format)
	if err != nil {
		return err
	}

	var collector crossrank.MetricsCollector = crossrank.NoopMetricsCollector{}
	var prom *promcollector.Collector
	if cfg.MetricsTextfile != "" {
		prom = promcollector.NewCollector()
		collector = prom
	}

	eng, err := crossrank.New(
		crossrank.WithK(cfg.K),
		crossrank.WithMeasure(measure),
		crossrank.WithNormalization(cfg.Normalize),
		crossrank.WithClassFeature(cfg.IncludeClass),
		crossrank.WithWorkers(cfg.Workers),
		crossrank.WithLimits(cfg.Limits.MemoryBytes, cfg.Limits.IOBytesPerSec),
		crossrank.WithLogger(logger),
		crossrank.WithMetricsCollector(collector),
	)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Type, err)
	}

	indices, err := eng.LoadIndices(ctx, store, cfg.Indices)
	if err != nil {
		return err
	}
	defer eng.Release(indices...)

	queries := make([]model.DocumentKey, 0, len(args))
	for _, q := range trimArgs(args) {
		queries = append(queries, model.DocumentKey(q))
	}

	results, err := eng.Run(ctx, indices, queries)
	if err != nil {
		return err
	}

	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = idx.Name()
	}

	// Render fully before writing so a failed run prints nothing.
	var buf bytes.Buffer
	status := report.Status{K: cfg.K, Measure: measure.String(), Indices: names, Queries: queries}
	if err := report.Write(&buf, rw, status, results); err != nil {
		return err
	}
	if _, err := buf.WriteTo(stdout); err != nil {
		return err
	}

	if prom != nil {
		if err := prom.WriteTextfile(cfg.MetricsTextfile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// trimArgs trims the query arguments and drops empty ones.
func trimArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
