package driver

import (
	"testing"
)

func TestDiskCacheRoundtrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	key := SourceDigest([]byte("fn main() -> i32 { return 0; }"))

	if _, ok, err := cache.Get(key); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	if err := cache.Put(key, "module text"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := cache.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get after Put: ok=%v err=%v", ok, err)
	}
	if got != "module text" {
		t.Fatalf("Get = %q", got)
	}
}

func TestDiskCacheNilIsMiss(t *testing.T) {
	var cache *DiskCache
	key := SourceDigest([]byte("x"))
	if _, ok, err := cache.Get(key); err != nil || ok {
		t.Fatalf("nil cache Get: ok=%v err=%v", ok, err)
	}
	if err := cache.Put(key, "x"); err != nil {
		t.Fatalf("nil cache Put: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("nil cache DropAll: %v", err)
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	key := SourceDigest([]byte("src"))
	if err := cache.Put(key, "m"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, err := cache.Get(key); err != nil || ok {
		t.Fatalf("entry survived DropAll: ok=%v err=%v", ok, err)
	}
}

func TestCompileUsesCache(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	const src = "fn main() -> i32 { return 7; }"

	cold := compileSource(t, src, Options{Cache: cache})
	if cold.CacheHit {
		t.Fatal("first compile reported a cache hit")
	}
	warm := compileSource(t, src, Options{Cache: cache})
	if !warm.CacheHit {
		t.Fatal("second compile missed the cache")
	}
	if warm.Module != cold.Module {
		t.Fatalf("cached module differs:\n--- cold\n%s\n--- warm\n%s", cold.Module, warm.Module)
	}
}

func TestCompileKeyMatchesSourceDigest(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	src := []byte("fn main() -> i32 { return 3; }")
	if err := cache.Put(SourceDigest(src), "seeded module"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	res := compileSource(t, string(src), Options{Cache: cache})
	if !res.CacheHit {
		t.Fatal("pipeline key does not match SourceDigest")
	}
	if res.Module != "seeded module" {
		t.Fatalf("module = %q", res.Module)
	}
}
