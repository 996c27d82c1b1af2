// Package config loads cwater run settings from YAML files, CWATER_*
// environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/cwater"
	"github.com/hupe1980/cwater/codec"
	"github.com/hupe1980/cwater/structure"
)

// Source kinds.
const (
	SourceLocal = "local"
	SourceMinIO = "minio"
	SourceS3    = "s3"
)

// Config is the complete settings of one cwater invocation.
type Config struct {
	// PDB and Chain name the query. Query ("1abc_A") is accepted as a
	// shorthand for both.
	PDB   string `mapstructure:"pdb"`
	Chain string `mapstructure:"chain"`
	Query string `mapstructure:"query"`

	SeqIdentity int     `mapstructure:"seq_identity"`
	Resolution  float64 `mapstructure:"resolution"`
	// Structures is a comma separated custom list such as "2xyz_A,3pqr_B".
	Structures string `mapstructure:"structures"`

	Refinement    string  `mapstructure:"refinement"`
	Linkage       string  `mapstructure:"linkage"`
	Inconsistency float64 `mapstructure:"inconsistency"`
	Probability   float64 `mapstructure:"probability"`
	Strict        bool    `mapstructure:"strict"`
	RefineQuery   bool    `mapstructure:"refine_query"`

	Source    SourceConfig    `mapstructure:"source"`
	Output    OutputConfig    `mapstructure:"output"`
	Log       LogConfig       `mapstructure:"log"`
	Resources ResourcesConfig `mapstructure:"resources"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// SourceConfig locates the superimposed structure files.
type SourceConfig struct {
	Kind   string      `mapstructure:"kind"`
	Dir    string      `mapstructure:"dir"`
	Prefix string      `mapstructure:"prefix"`
	MinIO  MinIOConfig `mapstructure:"minio"`
	S3     S3Config    `mapstructure:"s3"`
}

// MinIOConfig holds the MinIO connection settings.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// S3Config holds the S3 bucket settings. Credentials come from the default
// AWS credential chain.
type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

// OutputConfig selects where result files are written.
type OutputConfig struct {
	Dir   string `mapstructure:"dir"`
	Codec string `mapstructure:"codec"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ResourcesConfig bounds a run.
type ResourcesConfig struct {
	Concurrency int   `mapstructure:"concurrency"`
	MaxWaters   int   `mapstructure:"max_waters"`
	MemoryLimit int64 `mapstructure:"memory_limit"`
	ReadLimit   int64 `mapstructure:"read_limit"`
}

// MetricsConfig enables the Prometheus exporter.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the settings of an invocation without flags, file or
// environment.
func Default() *Config {
	p := cwater.DefaultParams()
	return &Config{
		SeqIdentity:   95,
		Resolution:    2.0,
		Refinement:    string(p.Refinement),
		Linkage:       string(p.Linkage),
		Inconsistency: p.Inconsistency,
		Probability:   p.Probability,
		Source:        SourceConfig{Kind: SourceLocal, Dir: "."},
		Output:        OutputConfig{Dir: ".", Codec: "go-json"},
		Log:           LogConfig{Level: "info", Format: "text"},
		Resources:     ResourcesConfig{MaxWaters: 50000},
	}
}

// QueryKey returns the query chain.
func (c *Config) QueryKey() (structure.Key, error) {
	if c.Query != "" {
		return structure.ParseKey(c.Query)
	}
	k := structure.NewKey(c.PDB, c.Chain)
	if err := k.Validate(); err != nil {
		return structure.Key{}, err
	}
	return k, nil
}

// Request builds the run request. Invalid parameters are reported by
// cwater.Request.Validate.
func (c *Config) Request() (cwater.Request, error) {
	query, err := c.QueryKey()
	if err != nil {
		return cwater.Request{}, &cwater.InputValidationError{
			Field:  "query",
			Value:  c.PDB + "_" + c.Chain,
			Reason: "must be a 4 character PDB id and a 1 character chain",
		}
	}

	req := cwater.DefaultRequest(query)
	req.SeqIdentity = c.SeqIdentity
	req.Resolution = c.Resolution
	req.Refinement = cwater.Refinement(c.Refinement)
	req.Linkage = cwater.Linkage(c.Linkage)
	req.Inconsistency = c.Inconsistency
	req.Probability = c.Probability

	if strings.TrimSpace(c.Structures) != "" {
		keys, err := cwater.ParseStructureList(c.Structures)
		if err != nil {
			return cwater.Request{}, err
		}
		req.Structures = keys
	}

	return req, req.Validate()
}

// Validate checks the settings that are not part of the run request.
func (c *Config) Validate() error {
	var errs []error

	switch c.Source.Kind {
	case SourceLocal:
		if c.Source.Dir == "" {
			errs = append(errs, errors.New("source.dir is required for a local source"))
		}
	case SourceMinIO:
		if c.Source.MinIO.Endpoint == "" || c.Source.MinIO.Bucket == "" {
			errs = append(errs, errors.New("source.minio.endpoint and source.minio.bucket are required"))
		}
	case SourceS3:
		if c.Source.S3.Bucket == "" {
			errs = append(errs, errors.New("source.s3.bucket is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source kind %q", c.Source.Kind))
	}

	if c.Output.Dir == "" {
		errs = append(errs, errors.New("output.dir is required"))
	}
	if _, ok := codec.ByName(c.Output.Codec); !ok {
		errs = append(errs, fmt.Errorf("unknown codec %q, want one of %s", c.Output.Codec, strings.Join(codec.Names(), ", ")))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if c.Resources.Concurrency < 0 || c.Resources.MaxWaters < 0 || c.Resources.MemoryLimit < 0 || c.Resources.ReadLimit < 0 {
		errs = append(errs, errors.New("resource limits must not be negative"))
	}

	return errors.Join(errs...)
}
