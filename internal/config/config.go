package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/partnerpay/partnerpay/internal/log"
	"github.com/partnerpay/partnerpay/internal/partners"
)

// FileName is the project configuration file in the project root.
const FileName = "partnerpay.yaml"

// DefaultDBPath is the store location relative to the project root.
const DefaultDBPath = "data/partnerpay.db"

// Import modes.
const (
	ModeAppend  = "append"
	ModeReplace = "replace"
)

// DefaultPlayerGuarantee is the overview's default guaranteed total.
const DefaultPlayerGuarantee = "30439528.20"

// Config represents the top-level partnerpay.yaml configuration.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`
	Matching  MatchingConfig  `yaml:"matching"`
	Import    ImportConfig    `yaml:"import"`
	Store     StoreConfig     `yaml:"store"`
	Log       LogConfig       `yaml:"log"`
}

// DashboardConfig names the dashboard and its overview target.
type DashboardConfig struct {
	Name            string `yaml:"name"`
	PlayerGuarantee string `yaml:"player_guarantee"` // decimal string
}

// MatchingConfig selects how sheet company names resolve to partners.
type MatchingConfig struct {
	Strategy      string  `yaml:"strategy"`       // "contains" or "closest"
	MinLength     int     `yaml:"min_length"`     // 0 disables the containment length guard
	MinSimilarity float64 `yaml:"min_similarity"` // closest strategy only, in (0, 1]
}

// ImportConfig controls how uploads are persisted.
type ImportConfig struct {
	Mode    string `yaml:"mode"`    // "append" or "replace"
	Workers int    `yaml:"workers"` // workbooks loaded in parallel
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path"` // relative paths resolve against the project root
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Load reads a partnerpay.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(dashboardName string) *Config {
	return &Config{
		Dashboard: DashboardConfig{
			Name:            dashboardName,
			PlayerGuarantee: DefaultPlayerGuarantee,
		},
		Matching: MatchingConfig{
			Strategy:      partners.StrategyContains,
			MinSimilarity: partners.DefaultMinSimilarity,
		},
		Import: ImportConfig{
			Mode:    ModeAppend,
			Workers: 4,
		},
		Store: StoreConfig{
			Path: DefaultDBPath,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Guarantee parses the configured player guarantee.
func (c *Config) Guarantee() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(c.Dashboard.PlayerGuarantee))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing player_guarantee %q: %w", c.Dashboard.PlayerGuarantee, err)
	}
	return d, nil
}

// DBPath resolves the store path against the project root.
func (c *Config) DBPath(root string) string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(root, c.Store.Path)
}

// LoggerConfig converts the log section into a logger configuration.
func (c *Config) LoggerConfig() log.Config {
	lc := log.DefaultConfig()
	if level, err := log.ParseLevel(c.Log.Level); err == nil {
		lc.Level = level
	}
	if c.Log.Format != "" {
		lc.Format = c.Log.Format
	}
	return lc
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if _, err := c.Guarantee(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid dashboard.player_guarantee %q: must be a decimal number", c.Dashboard.PlayerGuarantee))
	}

	switch c.Matching.Strategy {
	case partners.StrategyContains, partners.StrategyClosest:
	default:
		problems = append(problems, fmt.Sprintf("invalid matching.strategy %q: must be one of [%s %s]",
			c.Matching.Strategy, partners.StrategyContains, partners.StrategyClosest))
	}
	if c.Matching.MinLength < 0 {
		problems = append(problems, fmt.Sprintf("invalid matching.min_length %d: must not be negative", c.Matching.MinLength))
	}
	if c.Matching.MinSimilarity <= 0 || c.Matching.MinSimilarity > 1 {
		problems = append(problems, fmt.Sprintf("invalid matching.min_similarity %g: must be greater than 0 and at most 1", c.Matching.MinSimilarity))
	}

	switch c.Import.Mode {
	case ModeAppend, ModeReplace:
	default:
		problems = append(problems, fmt.Sprintf("invalid import.mode %q: must be one of [%s %s]", c.Import.Mode, ModeAppend, ModeReplace))
	}
	if c.Import.Workers < 1 || c.Import.Workers > 64 {
		problems = append(problems, fmt.Sprintf("invalid import.workers %d: must be between 1 and 64", c.Import.Workers))
	}

	if strings.TrimSpace(c.Store.Path) == "" {
		problems = append(problems, "store.path cannot be empty")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log.level %q: must be one of [debug info warn error]", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log.format %q: must be one of [text json]", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
