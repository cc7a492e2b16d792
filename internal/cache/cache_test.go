package cache

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"reqtrace/internal/config"
	"reqtrace/internal/discovery"
	"reqtrace/internal/domain"
)

func newTestManager(t *testing.T) (*Manager, *config.Config, string) {
	t.Helper()
	tmpDir := t.TempDir()
	cfg := config.New()
	cfg.ProjectPath = tmpDir
	scanner := discovery.NewScanner(cfg.SkipDirs, 2)
	return NewManager(cfg, scanner), cfg, tmpDir
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create file %s: %v", rel, err)
	}
}

const passingTest = `it("works", () => {
  expect(1).toBe(1);
});
`

func TestBuild(t *testing.T) {
	tests := []domain.TestRecord{
		{File: "a.test.js", Identifier: "one", Body: "{ x }", Hash: "h1"},
		{File: "b.test.js", Identifier: "two", Body: "{ y }", Hash: "h2"},
	}
	mtimes := map[string]int64{"a.test.js": 100, "b.test.js": 200}

	cache := Build(tests, mtimes)

	if cache.Version != domain.CacheVersion {
		t.Errorf("expected version %d, got %d", domain.CacheVersion, cache.Version)
	}
	if cache.GeneratedAt == "" {
		t.Error("GeneratedAt must be set")
	}
	if cache.Tests["a.test.js:one"] != "h1" || cache.Tests["b.test.js:two"] != "h2" {
		t.Errorf("fingerprint map wrong: %v", cache.Tests)
	}
	if !reflect.DeepEqual(cache.FileMtimes, mtimes) {
		t.Errorf("expected mtimes %v, got %v", mtimes, cache.FileMtimes)
	}
}

func TestManager_RoundTrip(t *testing.T) {
	// Build immediately followed by IsValid against the same filesystem
	// state must hold.
	manager, cfg, tmpDir := newTestManager(t)
	writeFile(t, tmpDir, "src/a.test.js", passingTest)

	result, _, err := manager.GetTests(tmpDir, cfg.TestGlob, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FromCache {
		t.Error("first run must be a cache miss")
	}
	if !result.BodiesLoaded {
		t.Error("fresh scan must load bodies")
	}

	cache, err := manager.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache == nil {
		t.Fatal("cache must be persisted after a miss")
	}
	if !manager.IsValid(cache, tmpDir, cfg.TestGlob) {
		t.Error("freshly built cache must be valid against unchanged tree")
	}
}

func TestManager_CacheHitIsLossy(t *testing.T) {
	manager, cfg, tmpDir := newTestManager(t)
	writeFile(t, tmpDir, "src/a.test.js", passingTest)

	fresh, _, err := manager.GetTests(tmpDir, cfg.TestGlob, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hit, _, err := manager.GetTests(tmpDir, cfg.TestGlob, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hit.FromCache {
		t.Fatal("second run against unchanged tree must hit the cache")
	}
	if hit.BodiesLoaded {
		t.Error("cache hits must report BodiesLoaded=false")
	}

	if len(hit.Records) != len(fresh.Records) {
		t.Fatalf("expected %d records, got %d", len(fresh.Records), len(hit.Records))
	}
	for i := range hit.Records {
		if hit.Records[i].Key() != fresh.Records[i].Key() {
			t.Errorf("record %d: key %q != %q", i, hit.Records[i].Key(), fresh.Records[i].Key())
		}
		if hit.Records[i].Hash != fresh.Records[i].Hash {
			t.Errorf("record %d: fingerprint drifted on a cache hit", i)
		}
		if hit.Records[i].Body != "" {
			t.Errorf("record %d: body must be empty on a cache hit", i)
		}
	}
}

func TestManager_ForceFresh(t *testing.T) {
	manager, cfg, tmpDir := newTestManager(t)
	writeFile(t, tmpDir, "src/a.test.js", passingTest)

	if _, _, err := manager.GetTests(tmpDir, cfg.TestGlob, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, _, err := manager.GetTests(tmpDir, cfg.TestGlob, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FromCache {
		t.Error("forceFresh must bypass a valid cache")
	}
	if !result.BodiesLoaded {
		t.Error("forceFresh must load bodies")
	}
}

func TestManager_Idempotence(t *testing.T) {
	// Rescanning an unchanged tree yields identical fingerprints every run.
	manager, cfg, tmpDir := newTestManager(t)
	writeFile(t, tmpDir, "src/a.test.js", passingTest)
	writeFile(t, tmpDir, "src/b.test.js", `test("other", () => { other(); });`)

	first, _, err := manager.GetTests(tmpDir, cfg.TestGlob, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for run := 0; run < 3; run++ {
		again, _, err := manager.GetTests(tmpDir, cfg.TestGlob, run%2 == 0)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
		if len(again.Records) != len(first.Records) {
			t.Fatalf("run %d: record count drifted", run)
		}
		for i := range again.Records {
			if again.Records[i].Hash != first.Records[i].Hash {
				t.Errorf("run %d: fingerprint drifted for %s", run, again.Records[i].Key())
			}
		}
	}
}

func TestManager_IsValid_Invalidation(t *testing.T) {
	manager, cfg, tmpDir := newTestManager(t)
	writeFile(t, tmpDir, "src/a.test.js", passingTest)
	writeFile(t, tmpDir, "src/b.test.js", passingTest)

	if _, _, err := manager.GetTests(tmpDir, cfg.TestGlob, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cache, err := manager.Load()
	if err != nil || cache == nil {
		t.Fatalf("cache load failed: %v", err)
	}

	t.Run("valid against unchanged tree", func(t *testing.T) {
		if !manager.IsValid(cache, tmpDir, cfg.TestGlob) {
			t.Error("expected valid cache")
		}
	})

	t.Run("touching one mtime invalidates", func(t *testing.T) {
		target := filepath.Join(tmpDir, "src/a.test.js")
		later := time.Now().Add(3 * time.Second)
		if err := os.Chtimes(target, later, later); err != nil {
			t.Fatalf("chtimes failed: %v", err)
		}
		if manager.IsValid(cache, tmpDir, cfg.TestGlob) {
			t.Error("expected invalid cache after mtime change")
		}
		// Restore for the following subtests.
		if _, _, err := manager.GetTests(tmpDir, cfg.TestGlob, true); err != nil {
			t.Fatalf("rescan failed: %v", err)
		}
		if cache, err = manager.Load(); err != nil || cache == nil {
			t.Fatalf("cache reload failed: %v", err)
		}
	})

	t.Run("adding a matching file invalidates", func(t *testing.T) {
		writeFile(t, tmpDir, "src/c.test.js", passingTest)
		if manager.IsValid(cache, tmpDir, cfg.TestGlob) {
			t.Error("expected invalid cache after file addition")
		}
	})

	t.Run("removing a matching file invalidates", func(t *testing.T) {
		if _, _, err := manager.GetTests(tmpDir, cfg.TestGlob, true); err != nil {
			t.Fatalf("rescan failed: %v", err)
		}
		if cache, err = manager.Load(); err != nil || cache == nil {
			t.Fatalf("cache reload failed: %v", err)
		}
		if err := os.Remove(filepath.Join(tmpDir, "src/c.test.js")); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if manager.IsValid(cache, tmpDir, cfg.TestGlob) {
			t.Error("expected invalid cache after file removal")
		}
	})

	t.Run("schema version mismatch invalidates", func(t *testing.T) {
		if _, _, err := manager.GetTests(tmpDir, cfg.TestGlob, true); err != nil {
			t.Fatalf("rescan failed: %v", err)
		}
		stale, err := manager.Load()
		if err != nil || stale == nil {
			t.Fatalf("cache reload failed: %v", err)
		}
		stale.Version = domain.CacheVersion + 1
		if manager.IsValid(stale, tmpDir, cfg.TestGlob) {
			t.Error("expected invalid cache on version mismatch")
		}
	})

	t.Run("nil cache is invalid", func(t *testing.T) {
		if manager.IsValid(nil, tmpDir, cfg.TestGlob) {
			t.Error("nil cache must be invalid")
		}
	})
}

func TestManager_CorruptCacheForcesRescan(t *testing.T) {
	manager, cfg, tmpDir := newTestManager(t)
	writeFile(t, tmpDir, "src/a.test.js", passingTest)

	if _, _, err := manager.GetTests(tmpDir, cfg.TestGlob, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(cfg.GetCachePath(), []byte("{ not json"), 0644); err != nil {
		t.Fatalf("corrupt write failed: %v", err)
	}

	result, _, err := manager.GetTests(tmpDir, cfg.TestGlob, false)
	if err != nil {
		t.Fatalf("corrupt cache must not surface as an error: %v", err)
	}
	if result.FromCache {
		t.Error("corrupt cache must force a rescan")
	}
}

func TestManager_MissingCache(t *testing.T) {
	manager, _, _ := newTestManager(t)
	cache, err := manager.Load()
	if err != nil {
		t.Fatalf("missing cache is not an error: %v", err)
	}
	if cache != nil {
		t.Error("expected nil cache when the file does not exist")
	}
}
