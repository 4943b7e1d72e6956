// Package config holds the settings shared by the command-line tool and the
// server. Values come from Default, optionally overlaid by a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aria-lang/seqalign-go/internal/alignment"
	"github.com/aria-lang/seqalign-go/internal/scoring"
)

// Defaults
const (
	DefaultMode       = "local"
	DefaultMatrix     = scoring.BLOSUM62
	DefaultGapCost    = -4
	DefaultBlockWidth = 60
	DefaultTrials     = 1000
	DefaultBaseURL    = "https://rest.uniprot.org/uniprotkb"
	DefaultSeqDir     = "Sequences"
)

// Config is the full set of settings.
type Config struct {
	Mode       string          `yaml:"mode"`
	Matrix     string          `yaml:"matrix"`
	MatrixDir  string          `yaml:"matrix_dir"`
	GapCost    int             `yaml:"gap_cost"`
	BlockWidth int             `yaml:"block_width"`
	PValue     PValueConfig    `yaml:"pvalue"`
	Sequences  SequencesConfig `yaml:"sequences"`
	Server     ServerConfig    `yaml:"server"`
}

// PValueConfig configures the permutation test.
type PValueConfig struct {
	Trials  int   `yaml:"trials"`
	Workers int   `yaml:"workers"`
	Seed    int64 `yaml:"seed"`
}

// SequencesConfig tells the retriever where FASTA files live.
type SequencesConfig struct {
	Dir     string `yaml:"dir"`
	BaseURL string `yaml:"base_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// MaxTrials caps the trial count a single request may ask for.
	MaxTrials int `yaml:"max_trials"`
	// MaxLength caps the length of each sequence in a request. A traced
	// alignment holds (MaxLength+1)^2 cells of 8 bytes, so the default of
	// 2000 bounds one request at about 32 MB.
	MaxLength int `yaml:"max_length"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Mode:       DefaultMode,
		Matrix:     DefaultMatrix,
		GapCost:    DefaultGapCost,
		BlockWidth: DefaultBlockWidth,
		PValue: PValueConfig{
			Trials:  DefaultTrials,
			Workers: 1,
		},
		Sequences: SequencesConfig{
			Dir:     DefaultSeqDir,
			BaseURL: DefaultBaseURL,
		},
		Server: ServerConfig{
			Host:           "",
			Port:           8080,
			RequestTimeout: 60 * time.Second,
			MaxTrials:      10000,
			MaxLength:      2000,
		},
	}
}

// Load reads path over the defaults and validates the result. Keys that do
// not belong to Config are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field that has a restricted range.
func (c *Config) Validate() error {
	if _, err := alignment.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Matrix == "" {
		return fmt.Errorf("matrix must be set")
	}
	if c.GapCost > 0 {
		return fmt.Errorf("gap_cost must be zero or negative, got %d", c.GapCost)
	}
	if c.BlockWidth <= 0 {
		return fmt.Errorf("block_width must be positive, got %d", c.BlockWidth)
	}
	if c.PValue.Trials < 1 {
		return fmt.Errorf("pvalue.trials must be at least 1, got %d", c.PValue.Trials)
	}
	if c.PValue.Workers < 1 {
		return fmt.Errorf("pvalue.workers must be at least 1, got %d", c.PValue.Workers)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}
	if c.Server.MaxTrials < 1 {
		return fmt.Errorf("server.max_trials must be at least 1, got %d", c.Server.MaxTrials)
	}
	if c.Server.MaxLength < 1 {
		return fmt.Errorf("server.max_length must be at least 1, got %d", c.Server.MaxLength)
	}
	return nil
}

// AlignmentMode returns Mode parsed.
func (c *Config) AlignmentMode() alignment.Mode {
	m, _ := alignment.ParseMode(c.Mode)
	return m
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
