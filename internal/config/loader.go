package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "CWATER"

// newViper returns a viper instance with YAML files, CWATER_ environment
// variables and "." mapped to "_" so that "source.dir" resolves to
// CWATER_SOURCE_DIR.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())
	return v
}

// setDefaults registers every key so that AutomaticEnv can resolve it
// during Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("pdb", d.PDB)
	v.SetDefault("chain", d.Chain)
	v.SetDefault("query", d.Query)
	v.SetDefault("seq_identity", d.SeqIdentity)
	v.SetDefault("resolution", d.Resolution)
	v.SetDefault("structures", d.Structures)
	v.SetDefault("refinement", d.Refinement)
	v.SetDefault("linkage", d.Linkage)
	v.SetDefault("inconsistency", d.Inconsistency)
	v.SetDefault("probability", d.Probability)
	v.SetDefault("strict", d.Strict)
	v.SetDefault("refine_query", d.RefineQuery)

	v.SetDefault("source.kind", d.Source.Kind)
	v.SetDefault("source.dir", d.Source.Dir)
	v.SetDefault("source.prefix", d.Source.Prefix)
	v.SetDefault("source.minio.endpoint", d.Source.MinIO.Endpoint)
	v.SetDefault("source.minio.access_key", d.Source.MinIO.AccessKey)
	v.SetDefault("source.minio.secret_key", d.Source.MinIO.SecretKey)
	v.SetDefault("source.minio.bucket", d.Source.MinIO.Bucket)
	v.SetDefault("source.minio.region", d.Source.MinIO.Region)
	v.SetDefault("source.minio.use_ssl", d.Source.MinIO.UseSSL)
	v.SetDefault("source.s3.bucket", d.Source.S3.Bucket)
	v.SetDefault("source.s3.region", d.Source.S3.Region)
	v.SetDefault("source.s3.endpoint", d.Source.S3.Endpoint)

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.codec", d.Output.Codec)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("resources.concurrency", d.Resources.Concurrency)
	v.SetDefault("resources.max_waters", d.Resources.MaxWaters)
	v.SetDefault("resources.memory_limit", d.Resources.MemoryLimit)
	v.SetDefault("resources.read_limit", d.Resources.ReadLimit)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"pdb":           "pdb",
	"chain":         "chain",
	"seq-identity":  "seq_identity",
	"resolution":    "resolution",
	"structures":    "structures",
	"refinement":    "refinement",
	"linkage":       "linkage",
	"inconsistency": "inconsistency",
	"probability":   "probability",
	"strict":        "strict",
	"refine-query":  "refine_query",
	"source":        "source.kind",
	"data-dir":      "source.dir",
	"prefix":        "source.prefix",
	"bucket":        "source.s3.bucket",
	"output-dir":    "output.dir",
	"codec":         "output.codec",
	"log-level":     "log.level",
	"log-format":    "log.format",
	"concurrency":   "resources.concurrency",
	"max-waters":    "resources.max_waters",
	"memory-limit":  "resources.memory_limit",
	"read-limit":    "resources.read_limit",
	"metrics-addr":  "metrics.addr",
}

// Load merges, in increasing precedence, the defaults, the YAML file at
// path (optional), CWATER_* environment variables and the flags of fs
// that were set explicitly. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file %q: %w", path, err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("config: bind flag %q: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	// --bucket applies to whichever object store is selected.
	if cfg.Source.Kind == SourceMinIO && cfg.Source.MinIO.Bucket == "" {
		cfg.Source.MinIO.Bucket = cfg.Source.S3.Bucket
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.New("config: log level must be debug, info, warn or error")
	}
	return level, nil
}
