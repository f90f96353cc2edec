package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/facilitymap/pkg/config"
)

func TestCachePath(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "file", want: appName},
		{name: "redis", env: map[string]string{config.EnvCache: config.CacheRedis, config.EnvRedisAddr: "cache:6379"}, want: "redis://cache:6379/0"},
		{name: "mongo", env: map[string]string{config.EnvCache: config.CacheMongo, config.EnvMongoURI: "mongodb://db:27017"}, want: "mongodb://db:27017"},
		{name: "none", env: map[string]string{config.EnvCache: config.CacheNone}, want: "caching disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cacheHome := isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			out, err := execute(t, "cache", "path")
			if err != nil {
				t.Fatal(err)
			}
			out = strings.TrimSpace(out)
			if tt.name == "file" {
				if out != filepath.Join(cacheHome, appName) {
					t.Errorf("cache path = %q", out)
				}
				return
			}
			if out != tt.want {
				t.Errorf("cache path = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestCacheClear(t *testing.T) {
	cacheHome := isolate(t)

	// Populate the cache with a render.
	outDir := t.TempDir()
	if _, err := execute(t, "render", "--offline", "DFA BUILDING", "2ND FLOOR", "-o", filepath.Join(outDir, "plan.svg")); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(cacheHome, appName)
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("expected cached artifacts in %s (err %v)", dir, err)
	}

	out, err := execute(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared") {
		t.Errorf("output = %q", out)
	}
	entries, _ = os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d entries left after clear", len(entries))
	}
}

func TestCacheClearNonFile(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvCache, config.CacheNone)

	out, err := execute(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "cannot be cleared") {
		t.Errorf("output = %q", out)
	}
}
