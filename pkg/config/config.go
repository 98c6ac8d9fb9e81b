// Package config loads gjoin's TOML configuration.
//
// Every field has a default, so an absent file is the same as an empty one.
// The lookup order is: the --config flag, then
// $XDG_CONFIG_HOME/gjoin/config.toml (or ~/.config/gjoin/config.toml).
// Command-line flags are applied on top by the CLI.
//
//	[workers]
//	count = 4
//
//	[join]
//	crossover = 4
//
//	[pagerank]
//	iterations = 20
//	damping = 0.85
//
//	[cache]
//	backend = "file"   # "none", "file" or "redis"
//	dir = ""           # default: $XDG_CACHE_HOME/gjoin
//	redis_addr = "localhost:6379"
//	ttl = "720h"
//
//	[metrics]
//	addr = ""          # e.g. ":9090" to serve /metrics
//
//	[log]
//	level = "info"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gjoin/pkg/errors"
	"github.com/matzehuels/gjoin/pkg/intersect"
	"github.com/matzehuels/gjoin/pkg/pagerank"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Default values.
const (
	DefaultWorkers   = 1
	DefaultCache     = CacheFile
	DefaultRedisAddr = "localhost:6379"
	DefaultCacheTTL  = 30 * 24 * time.Hour
	DefaultLogLevel  = "info"
)

// Config is the full configuration file.
type Config struct {
	Workers  WorkersConfig  `toml:"workers"`
	Join     JoinConfig     `toml:"join"`
	PageRank PageRankConfig `toml:"pagerank"`
	Cache    CacheConfig    `toml:"cache"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Log      LogConfig      `toml:"log"`
}

type WorkersConfig struct {
	Count int `toml:"count"`
}

type JoinConfig struct {
	// Crossover is the gallop/merge ratio; nil means intersect.DefaultCrossover.
	// Zero disables galloping.
	Crossover *int `toml:"crossover"`
}

type PageRankConfig struct {
	Iterations int     `toml:"iterations"`
	Damping    float64 `toml:"damping"`
	Tolerance  float64 `toml:"tolerance"`
}

type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	Prefix    string   `toml:"prefix"`
	TTL       Duration `toml:"ttl"`
}

type MetricsConfig struct {
	Addr string `toml:"addr"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a Go duration string ("90m").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills every zero field with its default.
func (c *Config) SetDefaults() {
	if c.Workers.Count == 0 {
		c.Workers.Count = DefaultWorkers
	}
	if c.Join.Crossover == nil {
		v := intersect.DefaultCrossover
		c.Join.Crossover = &v
	}
	if c.PageRank.Iterations == 0 {
		c.PageRank.Iterations = pagerank.DefaultIterations
	}
	if c.PageRank.Damping == 0 {
		c.PageRank.Damping = pagerank.DefaultDamping
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = DefaultCache
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = DefaultCacheDir()
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = DefaultRedisAddr
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = DefaultCacheTTL
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate checks a configuration after SetDefaults.
func (c *Config) Validate() error {
	if err := errors.ValidateWorkerCount(c.Workers.Count); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[workers] count")
	}
	if *c.Join.Crossover < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[join] crossover must not be negative, got %d", *c.Join.Crossover)
	}
	if c.PageRank.Iterations < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "[pagerank] iterations must be at least 1, got %d", c.PageRank.Iterations)
	}
	if c.PageRank.Damping <= 0 || c.PageRank.Damping >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "[pagerank] damping must be in (0, 1), got %v", c.PageRank.Damping)
	}
	if c.PageRank.Tolerance < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[pagerank] tolerance must not be negative")
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		for _, addr := range strings.Split(c.Cache.RedisAddr, ",") {
			if err := errors.ValidateHostAddress(strings.TrimSpace(addr)); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[cache] redis_addr")
			}
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] backend must be %q, %q or %q, got %q", CacheNone, CacheFile, CacheRedis, c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] ttl must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[log] level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// Intersector returns the configured intersection strategy.
func (c *Config) Intersector() intersect.Intersector {
	if c.Join.Crossover == nil {
		return intersect.Default
	}
	return intersect.Intersector{Crossover: *c.Join.Crossover}
}

// Load reads path, applies defaults, and validates. An empty path loads the
// default location, where a missing file is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) && !explicit:
		return Default(), nil
	case os.IsNotExist(err):
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
	}

	c, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return c, nil
}

// Parse decodes a TOML document, applies defaults, and validates. Unknown
// keys are rejected.
func Parse(data string) (*Config, error) {
	c := &Config{}
	md, err := toml.Decode(data, c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultPath returns the per-user config file location, or "" when no
// home directory can be determined.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "gjoin", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gjoin", "config.toml")
}

// DefaultCacheDir returns the per-user cache directory.
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "gjoin")
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "gjoin")
	}
	return filepath.Join(os.TempDir(), "gjoin-cache")
}
