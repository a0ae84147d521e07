// Package config loads application configuration and initializes logging.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	License   LicenseConfig   `yaml:"license" mapstructure:"license"`
	History   HistoryConfig   `yaml:"history" mapstructure:"history"`
	Score     ScoreConfig     `yaml:"score" mapstructure:"score"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DiscoveryConfig configures candidate discovery.
type DiscoveryConfig struct {
	TargetCandidates int      `yaml:"target_candidates" mapstructure:"target_candidates"`
	MaxRetries       int      `yaml:"max_retries" mapstructure:"max_retries"`
	TimeoutSecs      int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	DomainBlocklist  []string `yaml:"domain_blocklist" mapstructure:"domain_blocklist"`
}

// FetchConfig configures the shared HTTP fetcher.
type FetchConfig struct {
	UserAgent     string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries    int    `yaml:"max_retries" mapstructure:"max_retries"`
	CacheTTLMins  int    `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
	CacheEntries  int    `yaml:"cache_entries" mapstructure:"cache_entries"`
	HostRateLimit int    `yaml:"host_rate_limit" mapstructure:"host_rate_limit"`
}

// ExtractConfig configures profile extraction.
type ExtractConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// LicenseConfig configures the license registry verifier.
type LicenseConfig struct {
	RegistryPath   string `yaml:"registry_path" mapstructure:"registry_path"`
	MatchThreshold int    `yaml:"match_threshold" mapstructure:"match_threshold"`
	PartialCutoff  int    `yaml:"partial_cutoff" mapstructure:"partial_cutoff"`
	MatchWorkers   int    `yaml:"match_workers" mapstructure:"match_workers"`
}

// HistoryConfig configures project history enrichment.
type HistoryConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	MaxLinks    int `yaml:"max_links" mapstructure:"max_links"`
	RecentYears int `yaml:"recent_years" mapstructure:"recent_years"`
	WindowChars int `yaml:"window_chars" mapstructure:"window_chars"`
}

// ScoreConfig holds the scoring component weights. Weights must sum to 1.0.
type ScoreConfig struct {
	ExperienceWeight float64 `yaml:"experience_weight" mapstructure:"experience_weight"`
	LicenseWeight    float64 `yaml:"license_weight" mapstructure:"license_weight"`
	BondingWeight    float64 `yaml:"bonding_weight" mapstructure:"bonding_weight"`
	GeographyWeight  float64 `yaml:"geography_weight" mapstructure:"geography_weight"`
	ReputationWeight float64 `yaml:"reputation_weight" mapstructure:"reputation_weight"`
	WeightsFile      string  `yaml:"weights_file" mapstructure:"weights_file"`
}

// PipelineConfig configures orchestration.
type PipelineConfig struct {
	BudgetSecs int `yaml:"budget_secs" mapstructure:"budget_secs"`
}

// StoreConfig configures result persistence.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the jobs API server.
type ServerConfig struct {
	Port       int `yaml:"port" mapstructure:"port"`
	MaxWorkers int `yaml:"max_workers" mapstructure:"max_workers"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Budget returns the overall wall-clock budget for one research run.
func (p PipelineConfig) Budget() time.Duration {
	if p.BudgetSecs <= 0 {
		return 300 * time.Second
	}
	return time.Duration(p.BudgetSecs) * time.Second
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SUBRECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("discovery.target_candidates", 20)
	v.SetDefault("discovery.max_retries", 2)
	v.SetDefault("discovery.timeout_secs", 15)
	v.SetDefault("discovery.domain_blocklist", []string{
		"facebook.com", "instagram.com", "linkedin.com", "twitter.com", "x.com",
		"youtube.com", "pinterest.com", "tiktok.com",
		"yelp.com", "bbb.org", "angi.com", "houzz.com", "thumbtack.com",
		"yellowpages.com", "manta.com", "mapquest.com", "bizapedia.com",
		"indeed.com", "ziprecruiter.com", "glassdoor.com", "monster.com",
		"wikipedia.org", "reddit.com",
	})
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; SubreconBot/1.0)")
	v.SetDefault("fetch.timeout_secs", 25)
	v.SetDefault("fetch.max_retries", 2)
	v.SetDefault("fetch.cache_ttl_mins", 60)
	v.SetDefault("fetch.cache_entries", 2000)
	v.SetDefault("fetch.host_rate_limit", 4)
	v.SetDefault("extract.concurrency", 20)
	v.SetDefault("license.registry_path", "registry.csv")
	v.SetDefault("license.match_threshold", 85)
	v.SetDefault("license.partial_cutoff", 90)
	v.SetDefault("license.match_workers", 4)
	v.SetDefault("history.concurrency", 10)
	v.SetDefault("history.max_links", 12)
	v.SetDefault("history.recent_years", 5)
	v.SetDefault("history.window_chars", 250)
	v.SetDefault("score.experience_weight", 0.30)
	v.SetDefault("score.license_weight", 0.25)
	v.SetDefault("score.bonding_weight", 0.20)
	v.SetDefault("score.geography_weight", 0.15)
	v.SetDefault("score.reputation_weight", 0.10)
	v.SetDefault("pipeline.budget_secs", 300)
	v.SetDefault("store.path", "subrecon.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_workers", 4)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
