package model

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds all clipsift configuration
type Config struct {
	Dedup       DedupConfig       `yaml:"dedup" mapstructure:"dedup"`
	Match       MatchConfig       `yaml:"match" mapstructure:"match"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// DedupConfig controls the duplicate-detection entry points
type DedupConfig struct {
	TimeTolerance   int64 `yaml:"time_tolerance" mapstructure:"time_tolerance"`       // Seconds between captures still considered close
	ClauseMinLength int   `yaml:"clause_min_length" mapstructure:"clause_min_length"` // Minimum clause length (runes) for clause matching
	Trace           bool  `yaml:"trace" mapstructure:"trace"`                         // Emit decision-path diagnostics; never changes results
}

// MatchConfig names the similarity thresholds used by the duplicate
// classifier. Corroborated pairs (overlapping location ranges, close
// capture times) get the relaxed values; uncorroborated pairs get the
// strict ones. All length floors count runes, not bytes.
type MatchConfig struct {
	LocationTolerance    int     `yaml:"location_tolerance" mapstructure:"location_tolerance"`           // Units each range is widened by before the overlap test
	RatioShortFloor      int     `yaml:"ratio_short_floor" mapstructure:"ratio_short_floor"`             // Below this length ratios degrade to exact equality
	OverlapSubsetFloor   int     `yaml:"overlap_subset_floor" mapstructure:"overlap_subset_floor"`       // Subset floor when ranges overlap
	OverlapRatio         float64 `yaml:"overlap_ratio" mapstructure:"overlap_ratio"`                     // Ratio threshold when ranges overlap
	SubsetFloor          int     `yaml:"subset_floor" mapstructure:"subset_floor"`                       // Subset floor without corroboration
	SubsetFloorTimeClose int     `yaml:"subset_floor_time_close" mapstructure:"subset_floor_time_close"` // Subset floor when capture times are close
	Ratio                float64 `yaml:"ratio" mapstructure:"ratio"`                                     // Ratio threshold without corroboration
	RatioTimeClose       float64 `yaml:"ratio_time_close" mapstructure:"ratio_time_close"`               // Ratio threshold when capture times are close
	ClauseRatio          float64 `yaml:"clause_ratio" mapstructure:"clause_ratio"`                       // Clause ratio threshold
	ClauseRatioTimeClose float64 `yaml:"clause_ratio_time_close" mapstructure:"clause_ratio_time_close"` // Clause ratio threshold when capture times are close
}

// CacheConfig controls the digest cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
}

// ConcurrencyConfig controls worker counts
type ConcurrencyConfig struct {
	Workers         int `yaml:"workers" mapstructure:"workers"`                   // Batch-mode export file workers
	DocumentWorkers int `yaml:"document_workers" mapstructure:"document_workers"` // Per-document dedup fan-out; <=1 runs serial
}

// OutputConfig controls rendered output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	BOM     bool `yaml:"bom" mapstructure:"bom"` // Start markdown digests with a UTF-8 byte-order mark
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Dedup: DedupConfig{
			TimeTolerance:   300,
			ClauseMinLength: 12,
			Trace:           false,
		},
		Match: MatchConfig{
			LocationTolerance:    8,
			RatioShortFloor:      8,
			OverlapSubsetFloor:   12,
			OverlapRatio:         0.90,
			SubsetFloor:          16,
			SubsetFloorTimeClose: 10,
			Ratio:                0.95,
			RatioTimeClose:       0.92,
			ClauseRatio:          0.92,
			ClauseRatioTimeClose: 0.88,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			TTL:       7 * 24 * time.Hour,
			MemoryTTL: 30 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers:         runtime.NumCPU(),
			DocumentWorkers: 1,
		},
		Output: OutputConfig{
			Verbose: false,
			BOM:     true,
		},
	}
}

// defaultCacheDir returns the cache directory under the user's home
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clipsift-cache"
	}
	return filepath.Join(home, ".clipsift", "cache")
}
