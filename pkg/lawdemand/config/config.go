package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/lawdemand/pkg/lawdemand/internalerr"
)

// Config is the top-level engine configuration.
type Config struct {
	Sources Sources `yaml:"sources"`
	Fetch   Fetch   `yaml:"fetch"`
	Extract Extract `yaml:"extract"`
	Metrics Metrics `yaml:"metrics"`
	Log     Log     `yaml:"log"`
}

// Sources names where the two raw documents live. Each value is either an
// http(s) URL or a local file path.
type Sources struct {
	Social string `yaml:"social"`
	News   string `yaml:"news"`
}

// Fetch controls raw document retrieval.
type Fetch struct {
	// Attempts is the maximum number of tries per document. Default: 3
	Attempts int `yaml:"attempts"`
	// Backoff is the base delay; attempt n waits n*Backoff. Default: 500ms
	Backoff time.Duration `yaml:"backoff"`
	// Timeout bounds a single HTTP request. Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// Extract controls how the raw taxonomies are flattened.
type Extract struct {
	// Granularities lists which period granularities are walked.
	// Default: [daily]
	Granularities []string `yaml:"granularities"`
	// Location is the IANA zone compact timestamps are written in.
	// Default: Asia/Seoul
	Location string `yaml:"location"`
}

// Metrics tunes the metric computers.
type Metrics struct {
	TopN               int     `yaml:"top_n"`
	HotGrowthThreshold float64 `yaml:"hot_growth_threshold"`
	TrendMaxDays       int     `yaml:"trend_max_days"`
	// Placeholders enables canned illustrative results when a computer has
	// nothing real to show.
	Placeholders bool    `yaml:"placeholders"`
	Network      Network `yaml:"network"`
}

// Network holds the node and link scaling parameters.
type Network struct {
	TopArticles     int     `yaml:"top_articles"`
	LegalMinSize    float64 `yaml:"legal_min_size"`
	LegalMaxSize    float64 `yaml:"legal_max_size"`
	LegalScale      float64 `yaml:"legal_scale"`
	IncidentMinSize float64 `yaml:"incident_min_size"`
	IncidentMaxSize float64 `yaml:"incident_max_size"`
	IncidentScale   float64 `yaml:"incident_scale"`
	LinkMin         float64 `yaml:"link_min"`
	LinkMax         float64 `yaml:"link_max"`
	LinkScale       float64 `yaml:"link_scale"`
}

// Log configures the zap logger built by the command-line tools.
type Log struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Fetch: Fetch{
			Attempts: 3,
			Backoff:  500 * time.Millisecond,
			Timeout:  30 * time.Second,
		},
		Extract: Extract{
			Granularities: []string{"daily"},
			Location:      "Asia/Seoul",
		},
		Metrics: Metrics{
			TopN:               5,
			HotGrowthThreshold: 50,
			TrendMaxDays:       90,
			Placeholders:       true,
			Network: Network{
				TopArticles:     5,
				LegalMinSize:    20,
				LegalMaxSize:    60,
				LegalScale:      8,
				IncidentMinSize: 8,
				IncidentMaxSize: 30,
				IncidentScale:   4,
				LinkMin:         1,
				LinkMax:         10,
				LinkScale:       1.5,
			},
		},
		Log: Log{Level: "info"},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	if c.Fetch.Attempts < 1 {
		return fmt.Errorf("%w: fetch.attempts must be >= 1", internalerr.ErrInvalidConfig)
	}
	if c.Fetch.Backoff < 0 || c.Fetch.Timeout < 0 {
		return fmt.Errorf("%w: fetch durations must not be negative", internalerr.ErrInvalidConfig)
	}
	if len(c.Extract.Granularities) == 0 {
		return fmt.Errorf("%w: extract.granularities is empty", internalerr.ErrInvalidConfig)
	}
	for _, g := range c.Extract.Granularities {
		switch strings.ToLower(g) {
		case "daily", "weekly", "monthly":
		default:
			return fmt.Errorf("%w: unknown granularity %q", internalerr.ErrInvalidConfig, g)
		}
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: extract.location: %v", internalerr.ErrInvalidConfig, err)
	}
	if c.Metrics.TopN < 1 || c.Metrics.TrendMaxDays < 1 {
		return fmt.Errorf("%w: metrics.top_n and metrics.trend_max_days must be >= 1", internalerr.ErrInvalidConfig)
	}
	n := c.Metrics.Network
	if n.LegalMinSize > n.LegalMaxSize || n.IncidentMinSize > n.IncidentMaxSize || n.LinkMin > n.LinkMax {
		return fmt.Errorf("%w: network min sizes exceed max sizes", internalerr.ErrInvalidConfig)
	}
	return nil
}

// Location resolves Extract.Location. Hosts without tzdata still get KST for
// the default zone.
func (c Config) Location() (*time.Location, error) {
	name := c.Extract.Location
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		if name == "Asia/Seoul" {
			return time.FixedZone("KST", 9*60*60), nil
		}
		return nil, err
	}
	return loc, nil
}
