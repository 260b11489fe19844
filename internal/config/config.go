package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vitrio/internal/errors"
)

const (
	// JSONFileName is the JSON configuration file name.
	JSONFileName = "vitrio.json"

	// YAMLFileName is the YAML configuration file name.
	YAMLFileName = "vitrio.yaml"

	// DefaultPort is the default server port.
	DefaultPort = 8787

	// DefaultHost is the default bind host. Empty binds all interfaces.
	DefaultHost = ""

	// DefaultAssetsDir is the default static asset directory.
	DefaultAssetsDir = "public"

	// DefaultPollInterval is the default development file watch interval.
	DefaultPollInterval = 500 * time.Millisecond

	// EnvProduction is the env value that enables production mode.
	EnvProduction = "production"

	// EnvDevelopment is the default env.
	EnvDevelopment = "development"
)

// Config represents the complete Vitrio configuration.
type Config struct {
	// Name is the application name, used in the default document title.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Port is the server port.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Host is the bind host.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Origin is the public origin (scheme://host[:port]). When set, form
	// posts from any other origin are rejected.
	Origin string `json:"origin,omitempty" yaml:"origin,omitempty"`

	// BasePath mounts the application under a path prefix, e.g. "/app".
	BasePath string `json:"basePath,omitempty" yaml:"basePath,omitempty"`

	// Env is "development" or "production".
	Env string `json:"env,omitempty" yaml:"env,omitempty"`

	// CSRFSecret signs CSRF tokens when set.
	CSRFSecret string `json:"csrfSecret,omitempty" yaml:"csrfSecret,omitempty"`

	// Assets configures static asset delivery.
	Assets AssetsConfig `json:"assets,omitempty" yaml:"assets,omitempty"`

	// Dev configures development-only behavior.
	Dev DevConfig `json:"dev,omitempty" yaml:"dev,omitempty"`

	// Log configures logging.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// AssetsConfig selects and configures the static asset store. Exactly one
// of Dir or Bucket is used; Dir is the default.
type AssetsConfig struct {
	// Dir is a local directory of static files.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Bucket is an S3 bucket holding the static files.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// Region is the S3 bucket region.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Prefix is the key prefix inside the bucket.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Manifest names the fingerprint manifest within the store, if any.
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"`

	// ClientScript is the logical name of the client enhancement script.
	ClientScript string `json:"clientScript,omitempty" yaml:"clientScript,omitempty"`

	// StyleSheets are logical names of stylesheets linked from every page.
	StyleSheets []string `json:"styleSheets,omitempty" yaml:"styleSheets,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Watch lists directories whose changes trigger a browser reload.
	Watch []string `json:"watch,omitempty" yaml:"watch,omitempty"`

	// PollInterval is the file watch interval (e.g. "500ms").
	PollInterval string `json:"pollInterval,omitempty" yaml:"pollInterval,omitempty"`

	// DisableReload turns the live-reload socket off.
	DisableReload bool `json:"disableReload,omitempty" yaml:"disableReload,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is "text" or "json". Defaults to json in production.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from dir. It looks for vitrio.json, then
// vitrio.yaml (or vitrio.yml). When neither exists the defaults are returned.
func Load(dir string) (*Config, error) {
	for _, name := range []string{JSONFileName, YAMLFileName, "vitrio.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from path. The format follows the extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap("V200", err).WithDetail(path)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.Wrap("V201", err).WithDetail(path)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// ApplyEnv overrides fields from environment variables. lookup is usually
// os.LookupEnv. Malformed numeric values are reported by Validate.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			n = -1
		}
		c.Port = n
	}
	str("HOST", &c.Host)
	str("ORIGIN", &c.Origin)
	str("BASE_PATH", &c.BasePath)
	str("NODE_ENV", &c.Env)
	str("VITRIO_CSRF_SECRET", &c.CSRFSecret)
	str("VITRIO_ASSETS_DIR", &c.Assets.Dir)
	str("VITRIO_ASSETS_BUCKET", &c.Assets.Bucket)
	str("VITRIO_ASSETS_REGION", &c.Assets.Region)
	str("VITRIO_LOG_LEVEL", &c.Log.Level)

	// A bucket from the environment replaces the default directory.
	if v, ok := lookup("VITRIO_ASSETS_BUCKET"); ok && v != "" {
		if d, ok := lookup("VITRIO_ASSETS_DIR"); !ok || d == "" {
			c.Assets.Dir = ""
		}
	}
	c.BasePath = normalizeBasePath(c.BasePath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "Vitrio"
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Env == "" {
		c.Env = EnvDevelopment
	}
	if c.Assets.Dir == "" && c.Assets.Bucket == "" {
		c.Assets.Dir = DefaultAssetsDir
	}
	if c.Assets.ClientScript == "" {
		c.Assets.ClientScript = "client.js"
	}
	if c.Dev.PollInterval == "" {
		c.Dev.PollInterval = DefaultPollInterval.String()
	}
	if c.Dev.Watch == nil && c.Assets.Dir != "" {
		c.Dev.Watch = []string{c.Assets.Dir}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.BasePath = normalizeBasePath(c.BasePath)
}

// normalizeBasePath turns "", "/" into "" and "app/" into "/app".
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("V202").WithDetail("port %d", c.Port)
	}
	if c.BasePath != "" && (!strings.HasPrefix(c.BasePath, "/") || strings.HasSuffix(c.BasePath, "/")) {
		return errors.New("V203").WithDetail("basePath %q", c.BasePath)
	}
	if c.Origin != "" {
		u, err := url.Parse(c.Origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" || (u.Path != "" && u.Path != "/") {
			return errors.New("V204").WithDetail("origin %q", c.Origin)
		}
	}
	if c.Assets.Dir != "" && c.Assets.Bucket != "" {
		return errors.New("V205").WithDetail("dir %q, bucket %q", c.Assets.Dir, c.Assets.Bucket)
	}
	if _, err := time.ParseDuration(c.Dev.PollInterval); err != nil {
		return errors.Newf(errors.CategoryConfig, "invalid dev.pollInterval %q: %v", c.Dev.PollInterval, err)
	}
	return nil
}

// IsProduction reports whether production mode is enabled.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Address returns the listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NormalizedOrigin returns the origin without a trailing slash.
func (c *Config) NormalizedOrigin() string {
	return strings.TrimRight(c.Origin, "/")
}

// PollInterval returns the parsed watch interval, or the default when invalid.
func (c *Config) PollInterval() time.Duration {
	d, err := time.ParseDuration(c.Dev.PollInterval)
	if err != nil || d <= 0 {
		return DefaultPollInterval
	}
	return d
}

// Exists reports whether a configuration file exists in dir.
func Exists(dir string) bool {
	for _, name := range []string{JSONFileName, YAMLFileName, "vitrio.yml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
