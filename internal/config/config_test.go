package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 5, cfg.RecentPosts)
	assert.Equal(t, CacheBackendMemory, cfg.CacheBackend)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "Bearer", cfg.GraphQLAuthScheme)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BLOG_LISTEN_ADDR", ":9090")
	t.Setenv("BLOG_ROOT_URL", "https://example.com/")
	t.Setenv("BLOG_PAGE_SIZE", "25")
	t.Setenv("BLOG_CACHE_BACKEND", "Redis")
	t.Setenv("BLOG_CACHE_TTL", "90s")
	t.Setenv("BLOG_SITE_TITLE", "  Notes  ")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "https://example.com", cfg.RootURL)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, CacheBackendRedis, cfg.CacheBackend)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, "Notes", cfg.SiteTitle)
}

func TestLoadFromFileWithEnvironmentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.yaml")
	content := "site_title: From File\npage_size: 7\nlog_format: console\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("BLOG_PAGE_SIZE", "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "From File", cfg.SiteTitle)
	assert.Equal(t, 3, cfg.PageSize)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"page size":     {"BLOG_PAGE_SIZE": "0"},
		"cache backend": {"BLOG_CACHE_BACKEND": "memcached"},
		"endpoint":      {"BLOG_GRAPHQL_ENDPOINT": "not a url"},
		"log level":     {"BLOG_LOG_LEVEL": "verbose"},
		"redis url":     {"BLOG_CACHE_BACKEND": "redis", "BLOG_REDIS_URL": " "},
		"auth scheme":   {"BLOG_GRAPHQL_AUTH_SCHEME": "Bear er"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for key, value := range env {
				t.Setenv(key, value)
			}

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
