package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/notationkit/stave/pkg/layout"
	"github.com/notationkit/stave/pkg/pipeline"
)

// Cache backends selectable in the config file.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

// Score store backends selectable for the serve command.
const (
	storeBackendMemory = "memory"
	storeBackendMongo  = "mongo"
)

// configFileName is the config file looked up under the config dir.
const configFileName = "stave.toml"

// Config is the stave.toml file contents. All fields have working
// defaults, so a missing file or empty section is fine.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig sets default engraving parameters. Command-line flags
// override these per invocation.
type LayoutConfig struct {
	MaxSystemWidth float64 `toml:"max_system_width"`
	UnitsPerSpace  float64 `toml:"units_per_space"`
	SystemSpacing  float64 `toml:"system_spacing"`
	SystemHeight   float64 `toml:"system_height"`
}

// CacheConfig selects the layout cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig selects the score store backend for the serve command.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig sets serve command defaults.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Layout: LayoutConfig{
			MaxSystemWidth: layout.DefaultMaxSystemWidth,
			UnitsPerSpace:  layout.DefaultUnitsPerSpace,
			SystemSpacing:  layout.DefaultSystemSpacing,
			SystemHeight:   layout.DefaultSystemHeight,
		},
		Cache: CacheConfig{
			Backend:   cacheBackendFile,
			RedisAddr: "localhost:6379",
		},
		Store: StoreConfig{
			Backend:       storeBackendMemory,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// LoadConfig reads a TOML config file and fills unset fields with
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadConfigOrDefault loads the config from the standard location,
// falling back to defaults when the file is absent. A malformed file is
// logged and otherwise ignored.
func LoadConfigOrDefault(logger *log.Logger) Config {
	dir, err := configDir()
	if err != nil {
		return DefaultConfig()
	}
	path := filepath.Join(dir, configFileName)
	cfg, err := LoadConfig(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("ignoring config file", "path", path, "err", err)
		}
		return DefaultConfig()
	}
	return cfg
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Layout.MaxSystemWidth == 0 {
		c.Layout.MaxSystemWidth = def.Layout.MaxSystemWidth
	}
	if c.Layout.UnitsPerSpace == 0 {
		c.Layout.UnitsPerSpace = def.Layout.UnitsPerSpace
	}
	if c.Layout.SystemSpacing == 0 {
		c.Layout.SystemSpacing = def.Layout.SystemSpacing
	}
	if c.Layout.SystemHeight == 0 {
		c.Layout.SystemHeight = def.Layout.SystemHeight
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = def.Cache.Backend
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = def.Cache.RedisAddr
	}
	if c.Store.Backend == "" {
		c.Store.Backend = def.Store.Backend
	}
	if c.Store.MongoURI == "" {
		c.Store.MongoURI = def.Store.MongoURI
	}
	if c.Store.MongoDatabase == "" {
		c.Store.MongoDatabase = def.Store.MongoDatabase
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
}

// layoutOptions builds pipeline options from the config defaults.
func (c *CLI) layoutOptions() pipeline.Options {
	return pipeline.Options{
		MaxSystemWidth: c.Config.Layout.MaxSystemWidth,
		UnitsPerSpace:  c.Config.Layout.UnitsPerSpace,
		SystemSpacing:  c.Config.Layout.SystemSpacing,
		SystemHeight:   c.Config.Layout.SystemHeight,
	}
}
