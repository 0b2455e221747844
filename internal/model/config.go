package model

import "time"

// Config is the complete runtime configuration.
// Hierarchy: CLI flags > PREDSCAN_* env vars > config file > defaults.
type Config struct {
	Corpus      CorpusConfig      `yaml:"corpus" mapstructure:"corpus"`
	Registry    RegistryConfig    `yaml:"registry" mapstructure:"registry"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Review      ReviewConfig      `yaml:"review" mapstructure:"review"`
	Lineage     LineageConfig     `yaml:"lineage" mapstructure:"lineage"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Draft       DraftConfig       `yaml:"draft" mapstructure:"draft"`
}

// CorpusConfig locates the local document corpus
type CorpusConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"` // Directory of <IDENTIFIER>.txt/.html files
}

// RegistryConfig configures the external device registry client
type RegistryConfig struct {
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxRetries        int           `yaml:"max_retries" mapstructure:"max_retries"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size" mapstructure:"burst_size"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy           string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig configures registry record caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ReviewConfig configures the decision policy
type ReviewConfig struct {
	Mode          ReviewMode `yaml:"mode" mapstructure:"mode"`
	AutoThreshold int        `yaml:"auto_threshold" mapstructure:"auto_threshold"`
	ExclusionFile string     `yaml:"exclusion_file,omitempty" mapstructure:"exclusion_file"`
	ReReview      bool       `yaml:"re_review" mapstructure:"re_review"`
}

// LineageConfig configures chain traversal
type LineageConfig struct {
	MaxDepth int `yaml:"max_depth" mapstructure:"max_depth"`
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	Workers       int `yaml:"workers" mapstructure:"workers"`               // Per-document classification
	LookupWorkers int `yaml:"lookup_workers" mapstructure:"lookup_workers"` // Registry lookups
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
	Color         bool `yaml:"color" mapstructure:"color"`
}

// DraftConfig configures the optional memo drafter
type DraftConfig struct {
	Provider        string `yaml:"provider,omitempty" mapstructure:"provider"` // openai, ollama, "" = disabled
	Model           string `yaml:"model,omitempty" mapstructure:"model"`
	APIKey          string `yaml:"-" mapstructure:"api_key"` // Never written to config files
	BaseURL         string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout         int    `yaml:"timeout" mapstructure:"timeout"` // Seconds
	MaxTokens       int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	StrictGrounding bool   `yaml:"strict_grounding" mapstructure:"strict_grounding"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Dir: "./corpus",
		},
		Registry: RegistryConfig{
			BaseURL:           "https://api.fda.gov/device",
			Timeout:           15 * time.Second,
			UserAgent:         "predscan/0.1 (+https://github.com/predscan)",
			MaxRetries:        3,
			RequestsPerSecond: 4,
			BurstSize:         4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Review: ReviewConfig{
			Mode:          ModeAuto,
			AutoThreshold: DefaultAutoThreshold,
		},
		Lineage: LineageConfig{
			MaxDepth: 2,
		},
		Concurrency: ConcurrencyConfig{
			Workers:       8,
			LookupWorkers: 4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
			Color:         true,
		},
		Draft: DraftConfig{
			Timeout:         30,
			MaxTokens:       1000,
			StrictGrounding: true,
		},
	}
}
