package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/canvaskit/pkg/canvas"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestContentHash(t *testing.T) {
	build := func(id string, created time.Time, label string) *canvas.Document {
		doc, err := canvas.New(id, "Plan", canvas.DocumentFreeform)
		if err != nil {
			t.Fatal(err)
		}
		doc.CreatedAt, doc.UpdatedAt = created, created
		if _, err := doc.AddNode(canvas.NodeSpec{ID: "n1", Label: label}); err != nil {
			t.Fatal(err)
		}
		return doc
	}

	h1, err := ContentHash(build("a", time.Unix(0, 0), "Root"))
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := ContentHash(build("b", time.Unix(100, 0), "Root"))
	if h1 != h2 {
		t.Error("id and timestamps should not affect the content hash")
	}
	h3, _ := ContentHash(build("a", time.Unix(0, 0), "Other"))
	if h1 == h3 {
		t.Error("label change should change the content hash")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	svg := k.ExportKey("hash123", ExportKeyOpts{Format: "svg"})
	if !strings.HasPrefix(svg, "export:svg:") {
		t.Errorf("ExportKey unexpected: %s", svg)
	}
	if svg != k.ExportKey("hash123", ExportKeyOpts{Format: "svg"}) {
		t.Error("ExportKey should be deterministic")
	}

	p1 := k.ExportKey("hash123", ExportKeyOpts{Format: "png", Width: 800, Height: 600})
	p2 := k.ExportKey("hash123", ExportKeyOpts{Format: "png", Width: 1200, Height: 600})
	if p1 == p2 {
		t.Error("Different ExportKeyOpts should produce different keys")
	}
	if k.ExportKey("other", ExportKeyOpts{Format: "svg"}) == svg {
		t.Error("Different content should produce different keys")
	}
	if k.ExportKey("hash123", ExportKeyOpts{Format: "svg", Curves: true}) == svg {
		t.Error("Curves should change the key")
	}
	if got := len(strings.TrimPrefix(svg, "export:svg:")); got != 64 {
		t.Errorf("key hash length = %d, want 64 hex chars", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "v1:")
	key := scoped.ExportKey("h", ExportKeyOpts{Format: "dot"})
	if !strings.HasPrefix(key, "v1:export:dot:") {
		t.Errorf("ScopedKeyer key should be prefixed: %s", key)
	}

	// Should use DefaultKeyer when inner is nil
	if got := NewScopedKeyer(nil, "v1:").ExportKey("h", ExportKeyOpts{Format: "dot"}); got != key {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("empty cache Get = %v, %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("svg"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "svg" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of absent key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	if err := c.Set(ctx, "k", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Fatalf("Clear = %d, %v; want 3", n, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestFileCacheClockExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("png"), time.Hour); err != nil {
		t.Fatal(err)
	}
	now = now.Add(59 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("entry expired early")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry outlived its ttl")
	}
	if n, _ := c.Clear(); n != 0 {
		t.Errorf("expired entry not removed on Get; Clear removed %d", n)
	}
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry Get = %v, %v; want miss", hit, err)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("CANVASKIT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CANVASKIT_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := NewRedisCache(ctx, &redis.Options{Addr: addr}, "canvaskit-test:"+t.Name()+":")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("svg"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "svg" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
}
