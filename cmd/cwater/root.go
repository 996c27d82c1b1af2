package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hupe1980/cwater"
	"github.com/hupe1980/cwater/blobstore"
	miniostore "github.com/hupe1980/cwater/blobstore/minio"
	s3store "github.com/hupe1980/cwater/blobstore/s3"
	"github.com/hupe1980/cwater/codec"
	"github.com/hupe1980/cwater/internal/config"
	cwprom "github.com/hupe1980/cwater/metric/prometheus"
	"github.com/hupe1980/cwater/report"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "cwater",
		Short: "Find conserved water molecules of a protein chain",
		Long: "cwater clusters the water oxygens of superimposed homologous structures\n" +
			"and reports the waters of the query chain that recur across them.",
		Example: "  cwater --pdb 1abc --chain A --data-dir ./superposed\n" +
			"  cwater --pdb 1abc --chain A --structures 2xyz_A,3pqr_B --probability 0.8",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	d := config.Default()
	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (YAML)")
	f.StringP("pdb", "p", "", "query PDB id")
	f.String("chain", "", "query chain id")
	f.Int("seq-identity", d.SeqIdentity, "sequence identity cutoff (30, 40, 50, 70, 90, 95, 100)")
	f.Float64("resolution", d.Resolution, "resolution cutoff in Å (at most 3.0)")
	f.String("structures", "", "custom structure list, e.g. 2xyz_A,3pqr_B")
	f.String("refinement", d.Refinement, "refinement filter (mobility, normalized-bfactor, none)")
	f.String("linkage", d.Linkage, "linkage method (single, complete, average)")
	f.Float64("inconsistency", d.Inconsistency, "cluster cut distance in Å (0 to 2.8)")
	f.Float64("probability", d.Probability, "minimum conservation score (0.4 to 1.0)")
	f.Bool("strict", false, "require scores strictly above the probability")
	f.Bool("refine-query", false, "apply the refinement filter to the query waters too")
	f.String("source", d.Source.Kind, "structure source (local, minio, s3)")
	f.String("data-dir", d.Source.Dir, "directory of superimposed structure files")
	f.String("prefix", "", "key prefix of the structure files in the source")
	f.String("bucket", "", "bucket of a minio or s3 source")
	f.StringP("output-dir", "o", d.Output.Dir, "directory for result files")
	f.String("codec", d.Output.Codec, "JSON codec for the summary (go-json, json)")
	f.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")
	f.String("log-format", d.Log.Format, "log format (text, json)")
	f.Int("concurrency", 0, "parallel structure loads (0 uses GOMAXPROCS)")
	f.Int("max-waters", d.Resources.MaxWaters, "maximum merged water count")
	f.Int64("memory-limit", 0, "distance matrix memory budget in bytes (0 disables)")
	f.Int64("read-limit", 0, "structure read rate in bytes per second (0 disables)")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	req, err := cfg.Request()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	metrics, stopMetrics, err := newMetrics(cfg.Metrics, logger)
	if err != nil {
		return err
	}
	defer stopMetrics()

	c, ok := codec.ByName(cfg.Output.Codec)
	if !ok {
		return fmt.Errorf("unknown codec %q", cfg.Output.Codec)
	}
	opts := []cwater.Option{
		cwater.WithLogger(logger),
		cwater.WithMetricsCollector(metrics),
		cwater.WithCodec(c),
		cwater.WithConcurrency(cfg.Resources.Concurrency),
		cwater.WithMaxWaters(cfg.Resources.MaxWaters),
		cwater.WithMemoryLimit(cfg.Resources.MemoryLimit),
		cwater.WithReadLimit(cfg.Resources.ReadLimit),
	}
	if cfg.Strict {
		opts = append(opts, cwater.WithStrictThreshold())
	}
	if cfg.RefineQuery {
		opts = append(opts, cwater.WithQueryRefinement())
	}
	finder := cwater.New(opts...)

	store, err := newStore(ctx, cfg.Source)
	if err != nil {
		return err
	}

	var src cwater.ChainSource
	if len(req.Structures) == 0 {
		src = cwater.StoreChains{Store: store, Prefix: cfg.Source.Prefix}
	}

	res, err := finder.Run(ctx, req, src, store, cfg.Source.Prefix)
	if err != nil {
		return err
	}

	if err := finder.Publish(ctx, res, blobstore.NewLocalStore(cfg.Output.Dir)); err != nil {
		return err
	}

	return printResult(out, res)
}

func newLogger(cfg config.LogConfig) (*cwater.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Format == "json" {
		return cwater.NewJSONLogger(level), nil
	}
	return cwater.NewTextLogger(level), nil
}

func newMetrics(cfg config.MetricsConfig, logger *cwater.Logger) (cwater.MetricsCollector, func(), error) {
	if cfg.Addr == "" {
		return cwater.NoopMetricsCollector{}, func() {}, nil
	}

	reg := prometheus.NewRegistry()
	collector, err := cwprom.NewCollector(reg)
	if err != nil {
		return nil, nil, err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", cfg.Addr, "error", err)
		}
	}()

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return collector, stop, nil
}

func newStore(ctx context.Context, cfg config.SourceConfig) (blobstore.Store, error) {
	switch cfg.Kind {
	case config.SourceMinIO:
		client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
			Region: cfg.MinIO.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return miniostore.NewStore(client, cfg.MinIO.Bucket, ""), nil
	case config.SourceS3:
		var opts []s3store.Option
		if cfg.S3.Region != "" {
			opts = append(opts, s3store.WithRegion(cfg.S3.Region))
		}
		if cfg.S3.Endpoint != "" {
			opts = append(opts, s3store.WithEndpoint(cfg.S3.Endpoint))
		}
		return s3store.New(ctx, cfg.S3.Bucket, opts...)
	default:
		return blobstore.NewLocalStore(cfg.Dir), nil
	}
}

func printResult(w io.Writer, res *cwater.Result) error {
	if _, err := fmt.Fprintln(w, res.Status.Message(res.Query)); err != nil {
		return err
	}
	for _, e := range res.Excluded {
		fmt.Fprintf(w, "excluded\t%s\t%s\n", e.Key, e.Reason)
	}
	for _, water := range res.Conserved {
		fmt.Fprintf(w, "%s\t%s\n", water.ID, report.FormatScore(water.Score))
	}
	return nil
}
