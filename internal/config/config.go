// Package config handles the XDG configuration directory, the config file and
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "taskmgr"

	// ConfigFile is the settings filename inside the config directory.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename (googletasks).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename (googletasks).
	TokenFile = "token.json"

	// EnvPrefix prefixes environment overrides, e.g. TASKMGR_REST_API_KEY.
	EnvPrefix = "TASKMGR"
)

// Backend names.
const (
	BackendREST        = "rest"
	BackendGoogleTasks = "googletasks"
	BackendMySQL       = "mysql"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging to stderr.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Backend selects the remote table accessor.
	Backend string

	REST    RESTConfig
	MySQL   MySQLConfig
	Google  GoogleConfig
	Logging LoggingConfig
}

// RESTConfig configures the hosted REST table backend.
type RESTConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	Table  string `mapstructure:"table"`
}

// MySQLConfig configures the MySQL backend.
type MySQLConfig struct {
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

// GoogleConfig configures the Google Tasks backend.
type GoogleConfig struct {
	ListID string `mapstructure:"list_id"`
}

// LoggingConfig configures the structured log.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type settings struct {
	Backend string        `mapstructure:"backend"`
	REST    RESTConfig    `mapstructure:"rest"`
	MySQL   MySQLConfig   `mapstructure:"mysql"`
	Google  GoogleConfig  `mapstructure:"google"`
	Logging LoggingConfig `mapstructure:"logging"`
}

func defaultSettings() settings {
	return settings{
		Backend: BackendREST,
		REST:    RESTConfig{Table: "tasks"},
		MySQL:   MySQLConfig{Table: "tasks"},
		Google:  GoogleConfig{ListID: "@default"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// New creates a new Config with the default or specified config directory
// and default settings. Call Load to read the config file and environment.
// If configDir is empty, uses XDG_CONFIG_HOME/taskmgr or $HOME/.config/taskmgr.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	c := &Config{Dir: dir}
	c.apply(defaultSettings())
	return c, nil
}

// Load reads config.yaml from the config directory (when present) and
// TASKMGR_* environment variables on top of the defaults.
func (c *Config) Load() error {
	v := viper.New()
	setDefaults(v, defaultSettings())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(c.FilePath()); err == nil {
		v.SetConfigFile(c.FilePath())
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	c.apply(s)
	return nil
}

func setDefaults(v *viper.Viper, d settings) {
	v.SetDefault("backend", d.Backend)
	v.SetDefault("rest.url", d.REST.URL)
	v.SetDefault("rest.api_key", d.REST.APIKey)
	v.SetDefault("rest.table", d.REST.Table)
	v.SetDefault("mysql.dsn", d.MySQL.DSN)
	v.SetDefault("mysql.table", d.MySQL.Table)
	v.SetDefault("google.list_id", d.Google.ListID)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
}

func (c *Config) apply(s settings) {
	c.Backend = s.Backend
	c.REST = s.REST
	c.MySQL = s.MySQL
	c.Google = s.Google
	c.Logging = s.Logging
}

// Validate checks that the selected backend has what it needs.
// Returned errors are user-facing.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendREST:
		if c.REST.URL == "" {
			return invalid("rest.url not set (config.yaml or TASKMGR_REST_URL)")
		}
		if c.REST.APIKey == "" {
			return invalid("rest.api_key not set (config.yaml or TASKMGR_REST_API_KEY)")
		}
		if c.REST.Table == "" {
			return invalid("rest.table not set")
		}
	case BackendMySQL:
		if c.MySQL.DSN == "" {
			return invalid("mysql.dsn not set (config.yaml or TASKMGR_MYSQL_DSN)")
		}
	case BackendGoogleTasks:
		if !c.HasOAuthClient() {
			return invalid("oauth_client.json not found in %s", c.Dir)
		}
		if !c.HasToken() {
			return invalid("not logged in (run: taskmgr login)")
		}
	default:
		return invalid("unknown backend: %s", c.Backend)
	}
	return nil
}

// ValidationError reports a missing or invalid setting.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// LogPath returns the log file path. Relative paths resolve against Dir.
// Empty when file logging is off.
func (c *Config) LogPath() string {
	if c.Logging.File == "" || filepath.IsAbs(c.Logging.File) {
		return c.Logging.File
	}
	return filepath.Join(c.Dir, c.Logging.File)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
