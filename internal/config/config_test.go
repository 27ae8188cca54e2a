package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[server]
addr = "127.0.0.1:9000"

[store]
backend = "redis"

[store.redis]
addr = "cache:6379"
db = 2

[cache]
backend = "none"
ttl = "90m"

[render]
width = 640
height = 480
`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Store.Backend != "redis" || cfg.Store.Redis.Addr != "cache:6379" || cfg.Store.Redis.DB != 2 {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Store.Redis.Prefix != "canvaskit:" {
		t.Errorf("Store.Redis.Prefix = %q, want default kept", cfg.Store.Redis.Prefix)
	}
	if cfg.Cache.Backend != "none" || cfg.Cache.TTL != 90*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Render.Width != 640 || cfg.Render.Height != 480 {
		t.Errorf("Render = %+v", cfg.Render)
	}

	sc := cfg.StoreOptions()
	if sc.Backend != "redis" || sc.Redis.DB != 2 || sc.Mongo.Database != "canvaskit" {
		t.Errorf("StoreOptions() = %+v", sc)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{"unknown store", "[store]\nbackend = \"sqlite\"", "store.backend"},
		{"unknown cache", "[cache]\nbackend = \"memcached\"", "cache.backend"},
		{"unknown key", "[server]\nport = 80", "unknown key"},
		{"render too big", "[render]\nwidth = 100000", "render"},
		{"zero height", "[render]\nheight = 0", "render"},
		{"negative ttl", "[cache]\nttl = \"-1h\"", "cache.ttl"},
		{"empty mongo db", "[store]\nbackend = \"mongo\"\n[store.mongo]\ndatabase = \"\"", "store.mongo"},
		{"syntax", "[server\naddr = 1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.toml)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CANVASKIT_ADDR":            ":7000",
		"CANVASKIT_STORE":           "memory",
		"CANVASKIT_REDIS_DB":        "5",
		"CANVASKIT_CACHE_TTL":       "30s",
		"CANVASKIT_ALLOWED_ORIGINS": "http://a.test, http://b.test,",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.applyEnv(lookup); err != nil {
		t.Fatalf("applyEnv() error: %v", err)
	}
	if cfg.Server.Addr != ":7000" || cfg.Store.Backend != "memory" || cfg.Store.Redis.DB != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("Cache.TTL = %v, want 30s", cfg.Cache.TTL)
	}
	if got := strings.Join(cfg.Server.AllowedOrigins, " "); got != "http://a.test http://b.test" {
		t.Errorf("AllowedOrigins = %q", got)
	}

	env = map[string]string{"CANVASKIT_RENDER_WIDTH": "wide"}
	cfg = Default()
	if err := cfg.applyEnv(lookup); err == nil {
		t.Error("expected error for non-integer width")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("CANVASKIT_STORE", "")
	os.Unsetenv("CANVASKIT_STORE")

	// Missing default file is fine.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Store.Backend != "file" {
		t.Errorf("Store.Backend = %q, want file", cfg.Store.Backend)
	}

	// Missing explicit file is not.
	if _, err := Load(filepath.Join(dir, "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config")
	}

	path := DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[store]\nbackend = \"memory\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend = %q, want memory", cfg.Store.Backend)
	}

	t.Setenv("CANVASKIT_STORE", "mongo")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load(path) error: %v", err)
	}
	if cfg.Store.Backend != "mongo" {
		t.Errorf("Store.Backend = %q, want env override mongo", cfg.Store.Backend)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	if got, want := Default().CacheDir(), filepath.Join("/tmp/xdg-cache", "canvaskit"); got != want {
		t.Errorf("CacheDir() = %q, want %q", got, want)
	}
	cfg := Default()
	cfg.Cache.Dir = "/srv/exports"
	if got := cfg.CacheDir(); got != "/srv/exports" {
		t.Errorf("CacheDir() = %q, want /srv/exports", got)
	}
}
