// Package config loads canvaskit settings.
//
// Values come from, in increasing priority: built-in defaults, an optional
// TOML file, and CANVASKIT_* environment variables. The result is validated
// before use:
//
//	[server]
//	addr = ":8080"
//
//	[store]
//	backend = "redis"
//
//	[store.redis]
//	addr = "localhost:6379"
//
//	[cache]
//	backend = "file"
//	ttl = "12h"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/canvaskit/pkg/cache"
	"github.com/matzehuels/canvaskit/pkg/service"
	"github.com/matzehuels/canvaskit/pkg/store"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CANVASKIT_"

// Config is the complete configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Render RenderConfig `toml:"render"`
}

// ServerConfig configures `canvaskit serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// StoreConfig selects the document backend.
type StoreConfig struct {
	// Backend is memory, file, redis or mongo.
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CacheConfig selects the export cache.
type CacheConfig struct {
	// Backend is none, file or redis. The redis cache shares the store's
	// redis settings.
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
}

// RenderConfig sets the default raster export size.
type RenderConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Default returns the built-in configuration. Empty directories resolve to
// the XDG locations used by the store and cache.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080", AllowedOrigins: []string{"*"}},
		Store: StoreConfig{
			Backend: "file",
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "canvaskit:"},
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "canvaskit",
				Collection: "canvases",
			},
		},
		Cache:  CacheConfig{Backend: "file", TTL: cache.DefaultTTL},
		Render: RenderConfig{Width: service.DefaultRenderWidth, Height: service.DefaultRenderHeight},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/canvaskit/config.toml, falling back
// to ~/.config.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "canvaskit", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "canvaskit", "config.toml")
}

// Load reads path over the defaults, applies environment overrides and
// validates. An empty path means DefaultPath, which may be absent; an
// explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults without consulting the
// environment.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ADDR":             &c.Server.Addr,
		"STORE":            &c.Store.Backend,
		"STORE_DIR":        &c.Store.Dir,
		"REDIS_ADDR":       &c.Store.Redis.Addr,
		"REDIS_PASSWORD":   &c.Store.Redis.Password,
		"REDIS_PREFIX":     &c.Store.Redis.Prefix,
		"MONGO_URI":        &c.Store.Mongo.URI,
		"MONGO_DATABASE":   &c.Store.Mongo.Database,
		"MONGO_COLLECTION": &c.Store.Mongo.Collection,
		"CACHE":            &c.Cache.Backend,
		"CACHE_DIR":        &c.Cache.Dir,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"REDIS_DB":      &c.Store.Redis.DB,
		"RENDER_WIDTH":  &c.Render.Width,
		"RENDER_HEIGHT": &c.Render.Height,
	}
	for key, dst := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %q is not an integer", EnvPrefix, key, v)
		}
		*dst = n
	}

	if v, ok := lookup(EnvPrefix + "CACHE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sCACHE_TTL: %w", EnvPrefix, err)
		}
		c.Cache.TTL = d
	}
	if v, ok := lookup(EnvPrefix + "ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case "memory", "file", "redis", "mongo":
	default:
		return fmt.Errorf("store.backend: unknown backend %q (want memory, file, redis or mongo)", c.Store.Backend)
	}
	switch c.Cache.Backend {
	case "none", "file", "redis":
	default:
		return fmt.Errorf("cache.backend: unknown backend %q (want none, file or redis)", c.Cache.Backend)
	}
	if c.Store.Backend == "redis" || c.Cache.Backend == "redis" {
		if c.Store.Redis.Addr == "" {
			return errors.New("store.redis.addr: required by the redis backend")
		}
	}
	if c.Store.Backend == "mongo" && (c.Store.Mongo.URI == "" || c.Store.Mongo.Database == "" || c.Store.Mongo.Collection == "") {
		return errors.New("store.mongo: uri, database and collection are required")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl: must not be negative, got %s", c.Cache.TTL)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 || c.Render.Width > service.MaxRenderSize || c.Render.Height > service.MaxRenderSize {
		return fmt.Errorf("render: size %dx%d out of range 1..%d", c.Render.Width, c.Render.Height, service.MaxRenderSize)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr: required")
	}
	return nil
}

// StoreOptions converts the store section for [store.Open].
func (c Config) StoreOptions() store.Config {
	return store.Config{
		Backend: c.Store.Backend,
		Dir:     expandHome(c.Store.Dir),
		Redis: store.RedisConfig{
			Addr:     c.Store.Redis.Addr,
			Password: c.Store.Redis.Password,
			DB:       c.Store.Redis.DB,
			Prefix:   c.Store.Redis.Prefix,
		},
		Mongo: store.MongoConfig{
			URI:        c.Store.Mongo.URI,
			Database:   c.Store.Mongo.Database,
			Collection: c.Store.Mongo.Collection,
		},
	}
}

// CacheDir returns the export cache directory, defaulting to
// $XDG_CACHE_HOME/canvaskit (or ~/.cache/canvaskit).
func (c Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return expandHome(c.Cache.Dir)
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "canvaskit")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "canvaskit")
	}
	return filepath.Join(home, ".cache", "canvaskit")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
