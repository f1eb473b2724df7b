package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "BLOG"

const (
	CacheBackendNone   = "none"
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	ListenAddr string `mapstructure:"listen_addr" validate:"required"`
	StaticDir  string `mapstructure:"static_dir"`

	RootURL         string `mapstructure:"root_url" validate:"omitempty,url"`
	SiteTitle       string `mapstructure:"site_title" validate:"required"`
	SiteDescription string `mapstructure:"site_description"`

	GraphQLEndpoint   string `mapstructure:"graphql_endpoint" validate:"required,url"`
	GraphQLAuthToken  string `mapstructure:"graphql_auth_token"`
	GraphQLAuthScheme string `mapstructure:"graphql_auth_scheme" validate:"required,alphanum"`

	PageSize    int `mapstructure:"page_size" validate:"min=1,max=100"`
	RecentPosts int `mapstructure:"recent_posts" validate:"min=1,max=50"`
	RankedPosts int `mapstructure:"ranked_posts" validate:"min=1,max=50"`

	CacheBackend string        `mapstructure:"cache_backend" validate:"oneof=none memory redis"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl" validate:"min=0"`
	RedisURL     string        `mapstructure:"redis_url" validate:"required_if=CacheBackend redis"`

	CacheControl string `mapstructure:"cache_control"`

	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=json console"`
}

// Load reads configuration from BLOG_* environment variables and, when path is
// not empty, from a config file. Environment values win over the file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %q: %w", path, err)
		}
	}

	cfg := Config{
		ListenAddr:        v.GetString("listen_addr"),
		StaticDir:         v.GetString("static_dir"),
		RootURL:           strings.TrimRight(strings.TrimSpace(v.GetString("root_url")), "/"),
		SiteTitle:         strings.TrimSpace(v.GetString("site_title")),
		SiteDescription:   strings.TrimSpace(v.GetString("site_description")),
		GraphQLEndpoint:   strings.TrimSpace(v.GetString("graphql_endpoint")),
		GraphQLAuthToken:  strings.TrimSpace(v.GetString("graphql_auth_token")),
		GraphQLAuthScheme: strings.TrimSpace(v.GetString("graphql_auth_scheme")),
		PageSize:          v.GetInt("page_size"),
		RecentPosts:       v.GetInt("recent_posts"),
		RankedPosts:       v.GetInt("ranked_posts"),
		CacheBackend:      strings.ToLower(strings.TrimSpace(v.GetString("cache_backend"))),
		CacheTTL:          v.GetDuration("cache_ttl"),
		RedisURL:          strings.TrimSpace(v.GetString("redis_url")),
		CacheControl:      strings.TrimSpace(v.GetString("cache_control")),
		LogLevel:          strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		LogFormat:         strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("static_dir", "internal/web/static")
	v.SetDefault("root_url", "")
	v.SetDefault("site_title", "Blog")
	v.SetDefault("site_description", "")
	v.SetDefault("graphql_endpoint", "http://localhost:3000/api/graphql")
	v.SetDefault("graphql_auth_token", "")
	v.SetDefault("graphql_auth_scheme", "Bearer")
	v.SetDefault("page_size", 10)
	v.SetDefault("recent_posts", 5)
	v.SetDefault("ranked_posts", 10)
	v.SetDefault("cache_backend", CacheBackendMemory)
	v.SetDefault("cache_ttl", time.Hour)
	v.SetDefault("redis_url", "redis://localhost:6379/0")
	v.SetDefault("cache_control", "public, max-age=3600, s-maxage=3600")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}
