package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	// Clear XDG_CACHE_HOME to test default behavior
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Unsetenv("XDG_CACHE_HOME")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Setenv("XDG_CACHE_HOME", customCache)
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		} else {
			os.Unsetenv("XDG_CACHE_HOME")
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestConfigDirXDG(t *testing.T) {
	customConfig := "/tmp/custom-config"
	oldXdg := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", customConfig)
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CONFIG_HOME", oldXdg)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
	}()

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}

	expected := filepath.Join(customConfig, appName)
	if dir != expected {
		t.Errorf("configDir() with XDG_CONFIG_HOME = %q, want %q", dir, expected)
	}
}

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != appName {
		t.Errorf("root.Use = %q, want %q", root.Use, appName)
	}

	want := []string{"validate", "inspect", "layout", "view", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if strings.HasPrefix(sub.Use, name) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestNewCacheNone(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Backend = cacheBackendNone

	store, err := c.newCache(false)
	if err != nil {
		t.Fatalf("newCache() error: %v", err)
	}
	if store == nil {
		t.Fatal("newCache() returned nil")
	}
}

func TestNewCacheNoCacheFlag(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Backend = cacheBackendFile

	// The flag wins over the configured backend.
	store, err := c.newCache(true)
	if err != nil {
		t.Fatalf("newCache(true) error: %v", err)
	}
	if store == nil {
		t.Fatal("newCache(true) returned nil")
	}
}

func TestNewCacheFileDir(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Backend = cacheBackendFile
	c.Config.Cache.Dir = t.TempDir()

	store, err := c.newCache(false)
	if err != nil {
		t.Fatalf("newCache() error: %v", err)
	}
	if store == nil {
		t.Fatal("newCache() returned nil")
	}
	defer store.Close()
}

func TestNewStoreUnknownBackend(t *testing.T) {
	c := New(io.Discard, LogInfo)
	_, err := c.newStore(context.Background(), "cassandra", "", "")
	if err == nil {
		t.Error("newStore() should reject unknown backends")
	}
}
