package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full tracker configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Paths    PathsConfig    `yaml:"paths"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// APIConfig holds the venue base URL.
type APIConfig struct {
	DataBase string `yaml:"data_base"`
}

// PathsConfig locates the input and output files.
type PathsConfig struct {
	Roster   string `yaml:"roster"`   // trader roster JSON (required input)
	RawDir   string `yaml:"raw_dir"`  // per-wallet raw fill archive
	JSONDir  string `yaml:"json_dir"` // dashboard JSON output
	Markdown string `yaml:"markdown"` // reanalysis report output
}

// AnalysisConfig carries every analysis tunable. Values flow into the domain
// config structs; nothing is read from globals at computation time.
type AnalysisConfig struct {
	AsOf                string   `yaml:"as_of"`      // RFC3339; empty = now
	AllAnchor           string   `yaml:"all_anchor"` // YYYY-MM-DD start of the ALL window
	Workers             int      `yaml:"workers"`
	TopN                int      `yaml:"top_n"`
	MinRankTrades       int      `yaml:"min_rank_trades"`
	MinDivergenceTrades int      `yaml:"min_divergence_trades"`
	NoisePattern        string   `yaml:"noise_pattern"`
	StartingCapital     float64  `yaml:"starting_capital"`
	BasePosition        float64  `yaml:"base_position"`
	CapFraction         float64  `yaml:"cap_fraction"`
	MaxFills            int      `yaml:"max_fills"` // per-wallet fetch cap
	ActiveClusters      []string `yaml:"active_clusters"`
	PlayedOutClusters   []string `yaml:"played_out_clusters"`
}

// StorageConfig controls run-history persistence.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // SQLite path, or ":memory:"
}

// LogConfig controls logging format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML config plus a .env file if present. Environment
// variables override matching YAML keys.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// AsOfTime parses the configured as-of instant, defaulting to now.
func (c *Config) AsOfTime() (time.Time, error) {
	if c.Analysis.AsOf == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, c.Analysis.AsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("config.AsOfTime: parse %q: %w", c.Analysis.AsOf, err)
	}
	return t.UTC(), nil
}

// AllAnchorTime parses the ALL-window anchor date.
func (c *Config) AllAnchorTime() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.Analysis.AllAnchor)
	if err != nil {
		return time.Time{}, fmt.Errorf("config.AllAnchorTime: parse %q: %w", c.Analysis.AllAnchor, err)
	}
	return t.UTC(), nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TRACKER_DATA_API"); v != "" {
		cfg.API.DataBase = v
	}
	if v := os.Getenv("TRACKER_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.API.DataBase == "" {
		cfg.API.DataBase = "https://data-api.polymarket.com"
	}
	if cfg.Paths.Roster == "" {
		cfg.Paths.Roster = "data/traders.json"
	}
	if cfg.Paths.RawDir == "" {
		cfg.Paths.RawDir = "data/raw-trades"
	}
	if cfg.Paths.JSONDir == "" {
		cfg.Paths.JSONDir = "data/out"
	}
	if cfg.Paths.Markdown == "" {
		cfg.Paths.Markdown = "data/out/strategy-reanalysis.md"
	}
	if cfg.Analysis.AllAnchor == "" {
		cfg.Analysis.AllAnchor = "2020-01-01"
	}
	if cfg.Analysis.TopN <= 0 {
		cfg.Analysis.TopN = 20
	}
	if cfg.Analysis.MinRankTrades <= 0 {
		cfg.Analysis.MinRankTrades = 3
	}
	if cfg.Analysis.MinDivergenceTrades <= 0 {
		cfg.Analysis.MinDivergenceTrades = 5
	}
	if cfg.Analysis.NoisePattern == "" {
		cfg.Analysis.NoisePattern = `Up or Down.*\d+:\d+(AM|PM)`
	}
	if cfg.Analysis.StartingCapital <= 0 {
		cfg.Analysis.StartingCapital = 10000
	}
	if cfg.Analysis.BasePosition <= 0 {
		cfg.Analysis.BasePosition = 1000
	}
	if cfg.Analysis.CapFraction <= 0 {
		cfg.Analysis.CapFraction = 0.10
	}
	if cfg.Analysis.MaxFills <= 0 {
		cfg.Analysis.MaxFills = 500
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "tracker.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
