// Package config loads facilitymap settings.
//
// Settings are layered, later sources winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file, by default $XDG_CONFIG_HOME/facilitymap/config.toml
//  3. A .env file in the working directory, which never overrides variables
//     already set in the environment
//  4. FACILITYMAP_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// # File format
//
//	[backend]
//	base_url = "https://maintenance.example.edu/api"
//	rooms_path = "/rooms/by_building_floor/"
//	timeout = "5s"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/matzehuels/facilitymap/pkg/backend"
	"github.com/matzehuels/facilitymap/pkg/errors"
)

const appName = "facilitymap"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheMongo = "mongo"
	CacheNone  = "none"
)

// Environment variables.
const (
	EnvAPIURL    = "FACILITYMAP_API_URL"
	EnvAPIToken  = "FACILITYMAP_API_TOKEN"
	EnvCache     = "FACILITYMAP_CACHE"
	EnvRedisAddr = "FACILITYMAP_REDIS_ADDR"
	EnvMongoURI  = "FACILITYMAP_MONGO_URI"
	EnvAddr      = "FACILITYMAP_ADDR"
	EnvTimeout   = "FACILITYMAP_TIMEOUT"
)

// Config is the complete settings tree.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
}

// BackendConfig points at the maintenance backend. An empty BaseURL means
// offline: floors show their generated defaults.
type BackendConfig struct {
	BaseURL      string            `toml:"base_url"`
	RoomsPath    string            `toml:"rooms_path"`
	RequestsPath string            `toml:"requests_path"`
	Timeout      time.Duration     `toml:"timeout"`
	Token        string            `toml:"token"`
	Headers      map[string]string `toml:"headers"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"` // file backend; empty means the user cache dir
	Prefix  string `toml:"prefix"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig configures `facilitymap serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Backend: BackendConfig{
			RoomsPath:    backend.DefaultRoomsPath,
			RequestsPath: backend.DefaultRequestsPath,
			Timeout:      backend.DefaultTimeout,
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns the config file location following XDG
// (~/.config/facilitymap/config.toml).
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load builds the configuration from defaults, the TOML file at path, .env
// and the environment. An empty path uses [DefaultPath], which may be absent;
// an explicit path must exist.
func Load(path string, logger *log.Logger) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config file")
		}
		path = p
	}
	if err := cfg.loadFile(path, explicit, logger); err != nil {
		return cfg, err
	}

	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read .env")
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string, required bool, logger *log.Logger) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if !required && stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 && logger != nil {
		logger.Warn("unknown config keys", "file", path, "keys", fmt.Sprint(undecoded))
	}
	if logger != nil {
		logger.Debug("loaded config", "file", path)
	}
	return nil
}

// ApplyEnv overrides settings from FACILITYMAP_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIURL); ok {
		c.Backend.BaseURL = v
	}
	if v, ok := lookup(EnvAPIToken); ok {
		c.Backend.Token = v
	}
	if v, ok := lookup(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			// Bare numbers are seconds.
			secs, nerr := strconv.Atoi(v)
			if nerr != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvTimeout)
			}
			d = time.Duration(secs) * time.Second
		}
		c.Backend.Timeout = d
	}
	if v, ok := lookup(EnvCache); ok {
		c.Cache.Backend = v
	}
	if v, ok := lookup(EnvRedisAddr); ok {
		c.Cache.RedisAddr = v
	}
	if v, ok := lookup(EnvMongoURI); ok {
		c.Cache.MongoURI = v
	}
	if v, ok := lookup(EnvAddr); ok {
		c.Server.Addr = v
	}
	return nil
}

var cacheBackends = []string{CacheFile, CacheRedis, CacheMongo, CacheNone}

// Validate checks the settings. All errors carry [errors.ErrCodeInvalidConfig].
func (c Config) Validate() error {
	b := c.Backend
	if b.BaseURL != "" {
		if err := errors.ValidateURL(b.BaseURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "backend.base_url")
		}
	}
	if err := errors.ValidatePath(b.RoomsPath); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "backend.rooms_path")
	}
	if err := errors.ValidatePath(b.RequestsPath); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "backend.requests_path")
	}
	if b.Timeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "backend.timeout must be positive")
	}

	switch c.Cache.Backend {
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis cache")
		}
	case CacheMongo:
		if c.Cache.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.mongo_uri is required for the mongo cache")
		}
	default:
		if !slices.Contains(cacheBackends, c.Cache.Backend) {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q is not one of %v", c.Cache.Backend, cacheBackends)
		}
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}
	return nil
}

// Offline reports whether no backend is configured.
func (c Config) Offline() bool { return c.Backend.BaseURL == "" }

// BackendOptions converts the backend settings into client options. A token
// is sent as a bearer Authorization header unless one is set explicitly.
func (c Config) BackendOptions(logger *log.Logger) backend.Options {
	headers := make(map[string]string, len(c.Backend.Headers)+1)
	for k, v := range c.Backend.Headers {
		headers[k] = v
	}
	if c.Backend.Token != "" {
		if _, ok := headers["Authorization"]; !ok {
			headers["Authorization"] = "Bearer " + c.Backend.Token
		}
	}
	return backend.Options{
		BaseURL:      c.Backend.BaseURL,
		RoomsPath:    c.Backend.RoomsPath,
		RequestsPath: c.Backend.RequestsPath,
		Timeout:      c.Backend.Timeout,
		Headers:      headers,
		Logger:       logger,
	}
}
