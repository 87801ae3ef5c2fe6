package model

import "time"

// Config is the complete runtime configuration.
// Defaults come from DefaultConfig; the CLI layers flags, GARMEA_* env vars
// and ~/.garmea/config.yaml on top.
type Config struct {
	Similarity  SimilarityConfig  `yaml:"similarity"`
	Resolver    ResolverConfig    `yaml:"resolver"`
	Chronology  ChronologyConfig  `yaml:"chronology"`
	Analyze     AnalyzeConfig     `yaml:"analyze"`
	Cache       CacheConfig       `yaml:"cache"`
	LLM         LLMConfig         `yaml:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// SimilarityConfig tunes the name similarity engine.
type SimilarityConfig struct {
	Threshold    float64 `yaml:"threshold"`      // minimum score to consider two names a match
	MemoCapacity int     `yaml:"memo_capacity"`  // bounded memoization of comparisons
}

// ResolverConfig tunes candidate search and merge behavior.
type ResolverConfig struct {
	MaxLengthDelta  int     `yaml:"max_length_delta"`  // fuzzy scan skips names whose lengths differ by more
	ContextBonusCap float64 `yaml:"context_bonus_cap"` // cap on the shared profession/land/title bonus
	PlaceholderName string  `yaml:"placeholder_name"`  // substituted for unusable name parts
}

// ChronologyConfig holds the plausibility bounds.
type ChronologyConfig struct {
	MaxAge         int `yaml:"max_age"`          // warning above this age at death
	MinMarriageAge int `yaml:"min_marriage_age"` // error below
	MaxMarriageAge int `yaml:"max_marriage_age"` // warning above
}

// AnalyzeConfig tunes the page-quality scorer.
type AnalyzeConfig struct {
	MinWordCount     int     `yaml:"min_word_count"`    // bonus threshold for substantial pages
	QualityThreshold float64 `yaml:"quality_threshold"` // pages below are not recommended
	TopPages         int     `yaml:"top_pages"`         // how many pages to recommend
}

// CacheConfig controls the in-memory and disk caches.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// LLMConfig configures the optional LLM mention extractor.
// The extractor is an alternative mention source only; the core treats its
// output exactly like regex-extracted mentions.
type LLMConfig struct {
	Provider  string  `yaml:"provider"` // "openai", "ollama", "" (disabled)
	Model     string  `yaml:"model"`
	APIKey    string  `yaml:"-"` // environment only, never serialized
	BaseURL   string  `yaml:"base_url"`
	Timeout   int     `yaml:"timeout_seconds"`
	MaxTokens int     `yaml:"max_tokens"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second toward the provider
}

// ConcurrencyConfig bounds the upstream page-analysis workers. The core
// itself is single-writer; only page analysis fans out.
type ConcurrencyConfig struct {
	AnalysisWorkers int `yaml:"analysis_workers"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Similarity: SimilarityConfig{
			Threshold:    0.85,
			MemoCapacity: 2000,
		},
		Resolver: ResolverConfig{
			MaxLengthDelta:  3,
			ContextBonusCap: 0.3,
			PlaceholderName: "Inconnu",
		},
		Chronology: ChronologyConfig{
			MaxAge:         100,
			MinMarriageAge: 12,
			MaxMarriageAge: 60,
		},
		Analyze: AnalyzeConfig{
			MinWordCount:     50,
			QualityThreshold: 4.0,
			TopPages:         20,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskDir:   "",
			DiskTTL:   24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			Timeout:   30,
			MaxTokens: 2000,
			RateLimit: 1.0,
		},
		Concurrency: ConcurrencyConfig{
			AnalysisWorkers: 4,
		},
		Output: OutputConfig{},
	}
}
