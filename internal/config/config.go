// Package config loads the application directory configuration from config
// files, environment variables, and .env files using viper.
package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/appdirectory/pkg/constants"
	"github.com/agentstation/appdirectory/pkg/errors"
	"github.com/agentstation/appdirectory/pkg/fetch"
	"github.com/agentstation/appdirectory/pkg/store"
)

// Config holds the application configuration.
type Config struct {
	// SourceURL is where the catalog is fetched from.
	SourceURL string `mapstructure:"source_url"`

	Store   StoreConfig   `mapstructure:"store"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Server  ServerConfig  `mapstructure:"server"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Log     LogConfig     `mapstructure:"log"`

	// ConfigFile is the config file that was read, if any.
	ConfigFile string `mapstructure:"-"`
}

// StoreConfig selects where the cache record is persisted.
type StoreConfig struct {
	Backend       string `mapstructure:"backend"`
	Path          string `mapstructure:"path"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	Prefix        string `mapstructure:"prefix"`
}

// FetchConfig tunes catalog downloads.
type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
	APIKey  string        `mapstructure:"api_key"`

	// AuthScheme is bearer, header, query or none. AuthName names the
	// header or query parameter for the header and query schemes.
	AuthScheme string `mapstructure:"auth_scheme"`
	AuthName   string `mapstructure:"auth_name"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	PathPrefix string `mapstructure:"path_prefix"`
}

// RefreshConfig configures background refresh. A zero interval disables it.
type RefreshConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// StoreOptions converts the store section for store.Open.
func (c *Config) StoreOptions() store.Config {
	return store.Config{
		Backend:       c.Store.Backend,
		Path:          c.Store.Path,
		RedisAddr:     c.Store.RedisAddr,
		RedisPassword: c.Store.RedisPassword,
		RedisDB:       c.Store.RedisDB,
		Prefix:        c.Store.Prefix,
	}
}

// Loader reads configuration and can watch the config file for changes.
type Loader struct {
	v  *viper.Viper
	mu sync.Mutex
}

// NewLoader creates a Loader with defaults and environment bindings applied.
// Environment variables use the key with dots replaced by underscores, e.g.
// SOURCE_URL or STORE_BACKEND.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	return &Loader{v: v}
}

// Viper exposes the underlying viper instance so command flags can be bound.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source_url", "")
	v.SetDefault("store.backend", store.BackendFile)
	v.SetDefault("store.path", defaultStorePath())
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_password", "")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.prefix", "appdir:")
	v.SetDefault("fetch.timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("fetch.retries", constants.MaxRetries)
	v.SetDefault("fetch.api_key", "")
	v.SetDefault("fetch.auth_scheme", fetch.AuthBearer)
	v.SetDefault("fetch.auth_name", "")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.path_prefix", "/api/v1")
	v.SetDefault("refresh.interval", time.Duration(0))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".appdir/store.yaml"
	}
	return home + "/.appdir/store.yaml"
}

// Load reads configuration in order of precedence:
//  1. Command-line flags bound to the loader
//  2. Environment variables
//  3. .env files
//  4. Config file (configFile, or .appdir.yaml in $HOME or the working directory)
//  5. Defaults
func (l *Loader) Load(configFile string) (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	loadEnvFiles()

	if configFile != "" {
		l.v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(home)
		}
		l.v.AddConfigPath(".")
		l.v.SetConfigType("yaml")
		l.v.SetConfigName(".appdir")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicitly named file must exist
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("file", "failed to read config", err)
		}
	}

	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, errors.NewConfigError("", "failed to decode config", err)
	}
	cfg.ConfigFile = l.v.ConfigFileUsed()
	return cfg, nil
}

// Watch re-reads the config file whenever it changes and calls fn with the
// new configuration. Invalid configurations are passed to onError instead.
// Watch is a no-op when no config file was read.
func (l *Loader) Watch(fn func(*Config), onError func(error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}

	l.v.OnConfigChange(func(fsnotify.Event) {
		l.mu.Lock()
		cfg, err := l.decode()
		l.mu.Unlock()

		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		fn(cfg)
	})
	l.v.WatchConfig()
}

// Validate checks the configuration for values the application cannot run
// with.
func (c *Config) Validate() error {
	if c.SourceURL == "" {
		return errors.NewConfigError("source_url", "source URL is required", nil)
	}

	switch c.Store.Backend {
	case store.BackendMemory:
	case store.BackendFile, store.BackendSQLite:
		if c.Store.Path == "" {
			return errors.NewConfigError("store", "path is required for the "+c.Store.Backend+" backend", nil)
		}
	case store.BackendRedis:
		if c.Store.RedisAddr == "" {
			return errors.NewConfigError("store", "redis_addr is required for the redis backend", nil)
		}
	default:
		return errors.NewConfigError("store", "unknown backend "+c.Store.Backend, nil)
	}

	if c.Fetch.Timeout < 0 {
		return errors.NewConfigError("fetch", "timeout must not be negative", nil)
	}
	if c.Fetch.Retries < 0 {
		return errors.NewConfigError("fetch", "retries must not be negative", nil)
	}
	if _, err := fetch.NewAuthenticator(c.Fetch.AuthScheme, c.Fetch.AuthName); err != nil {
		return errors.NewConfigError("fetch", "unknown auth_scheme "+c.Fetch.AuthScheme, err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.NewConfigError("server", "port out of range", nil)
	}
	if c.Server.PathPrefix != "" && !strings.HasPrefix(c.Server.PathPrefix, "/") {
		return errors.NewConfigError("server", "path_prefix must start with /", nil)
	}
	if c.Refresh.Interval < 0 {
		return errors.NewConfigError("refresh", "interval must not be negative", nil)
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		// godotenv.Load never overrides variables that are already set, so
		// the file loaded first wins
		_ = godotenv.Load(envFile)
	}
}
