package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvFile is the optional overrides file in the project root.
const EnvFile = ".env"

// Environment variables that override partnerpay.yaml.
const (
	EnvDBPath        = "PARTNERPAY_DB_PATH"
	EnvLogLevel      = "PARTNERPAY_LOG_LEVEL"
	EnvLogFormat     = "PARTNERPAY_LOG_FORMAT"
	EnvMatchStrategy = "PARTNERPAY_MATCH_STRATEGY"
	EnvMatchMinLen   = "PARTNERPAY_MATCH_MIN_LENGTH"
	EnvMatchMinSim   = "PARTNERPAY_MATCH_MIN_SIMILARITY"
	EnvImportMode    = "PARTNERPAY_IMPORT_MODE"
	EnvImportWorkers = "PARTNERPAY_IMPORT_WORKERS"
)

// ApplyEnv overlays <root>/.env and then the process environment onto c.
// Process variables win over .env values; a missing .env is ignored.
func (c *Config) ApplyEnv(root string) error {
	fileVals, err := godotenv.Read(filepath.Join(root, EnvFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", EnvFile, err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVals[key]
		return v, ok && v != ""
	}

	if v, ok := lookup(EnvDBPath); ok {
		c.Store.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.Log.Format = v
	}
	if v, ok := lookup(EnvMatchStrategy); ok {
		c.Matching.Strategy = v
	}
	if v, ok := lookup(EnvImportMode); ok {
		c.Import.Mode = v
	}
	if v, ok := lookup(EnvMatchMinLen); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", EnvMatchMinLen, v, err)
		}
		c.Matching.MinLength = n
	}
	if v, ok := lookup(EnvMatchMinSim); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", EnvMatchMinSim, v, err)
		}
		c.Matching.MinSimilarity = f
	}
	if v, ok := lookup(EnvImportWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", EnvImportWorkers, v, err)
		}
		c.Import.Workers = n
	}
	return nil
}
