package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"logview/internal/app/errors"
)

// Config represents the application configuration
type Config struct {
	API struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`
	Refresh struct {
		Interval time.Duration `yaml:"interval"`
	} `yaml:"refresh"`
	Display struct {
		Timezone string `yaml:"timezone"`
	} `yaml:"display"`
	Server struct {
		Listen string `yaml:"listen"`
	} `yaml:"server"`
	Elastic struct {
		URL     string        `yaml:"url"`
		Index   string        `yaml:"index"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"elastic"`
	Sentry struct {
		DSN         string `yaml:"dsn"`
		Environment string `yaml:"environment"`
	} `yaml:"sentry"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"logging"`
	// Fields maps friendly source keys to backend field names, merged over the built-in table
	Fields  map[string]string `yaml:"fields" mapstructure:"-"`
	Version int               `yaml:"version"`

	path string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	cfg := &Config{
		Fields:  make(map[string]string),
		Version: 1,
		path:    FileName,
	}

	cfg.API.URL = DefaultAPIURL
	cfg.API.Timeout = DefaultAPITimeout

	cfg.Refresh.Interval = DefaultRefreshInterval

	cfg.Display.Timezone = DefaultTimezone

	cfg.Server.Listen = DefaultListenAddr

	cfg.Elastic.URL = DefaultElasticURL
	cfg.Elastic.Index = DefaultIndexPattern
	cfg.Elastic.Timeout = DefaultSearchTimeout

	cfg.Logging.Level = DefaultLogLevel
	cfg.Logging.Format = DefaultLogFormat

	return cfg
}

// Path returns the file the configuration was loaded from (or would be)
func (c *Config) Path() string {
	return c.path
}

// Load loads the configuration from logview.yaml in the working directory
func Load() (*Config, error) {
	return LoadFile(FileName)
}

// LoadFile loads the configuration from the given file, .env and LOGVIEW_* environment variables
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToReadConfig, err)
	}

	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToReadConfig, err)
	}

	if err := cfg.decode(data); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	return cfg, nil
}

// Reload re-reads the file the configuration came from, leaving c untouched on failure
func (c *Config) Reload() (*Config, error) {
	return LoadFile(c.path)
}

// decode merges yaml data and environment overrides into the config
func (c *Config) decode(data []byte) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, c)

	if len(data) > 0 {
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return errors.ErrFailedToReadConfig
		}
	}

	if err := v.Unmarshal(c); err != nil {
		return errors.ErrFailedToParseConfig
	}

	fields, err := parseFields(data)
	if err != nil {
		return errors.ErrFailedToParseConfig
	}

	for name, target := range fields {
		c.Fields[name] = target
	}

	return nil
}

// setDefaults registers every key so AutomaticEnv can override it without a config file
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("api.url", c.API.URL)
	v.SetDefault("api.timeout", c.API.Timeout)
	v.SetDefault("refresh.interval", c.Refresh.Interval)
	v.SetDefault("display.timezone", c.Display.Timezone)
	v.SetDefault("server.listen", c.Server.Listen)
	v.SetDefault("elastic.url", c.Elastic.URL)
	v.SetDefault("elastic.index", c.Elastic.Index)
	v.SetDefault("elastic.timeout", c.Elastic.Timeout)
	v.SetDefault("sentry.dsn", c.Sentry.DSN)
	v.SetDefault("sentry.environment", c.Sentry.Environment)
	v.SetDefault("logging.level", c.Logging.Level)
	v.SetDefault("logging.format", c.Logging.Format)
	v.SetDefault("logging.file", c.Logging.File)
	v.SetDefault("version", c.Version)
}

// parseFields reads the fields table with yaml.v3 since viper lowercases map keys
func parseFields(data []byte) (map[string]string, error) {
	fields := make(map[string]string)

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fields, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return fields, nil
	}

	for i := 0; i < len(doc.Content); i += 2 {
		key := doc.Content[i]
		value := doc.Content[i+1]

		if key.Value != "fields" || value.Kind != yaml.MappingNode {
			continue
		}

		for j := 0; j < len(value.Content); j += 2 {
			name := strings.TrimSpace(value.Content[j].Value)
			target := strings.TrimSpace(value.Content[j+1].Value)

			if name == "" || target == "" {
				continue
			}

			fields[name] = target
		}
	}

	return fields, nil
}

// Location returns the time zone used to display timestamps
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}

	if c.Refresh.Interval <= 0 {
		return errors.ErrInvalidRefresh
	}

	if _, err := time.LoadLocation(c.Display.Timezone); err != nil {
		return fmt.Errorf("%w: '%s'", errors.ErrInvalidTimezone, c.Display.Timezone)
	}

	return c.validateServer()
}

// validateAPI validates the logs endpoint settings
func (c *Config) validateAPI() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.ErrInvalidAPIURL
	}

	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	return nil
}

// validateServer validates the backend settings
func (c *Config) validateServer() error {
	if strings.TrimSpace(c.Server.Listen) == "" {
		return errors.ErrInvalidListenAddr
	}

	if strings.TrimSpace(c.Elastic.URL) == "" {
		return errors.ErrInvalidElasticURL
	}

	if strings.TrimSpace(c.Elastic.Index) == "" {
		return errors.ErrInvalidIndexPattern
	}

	if c.Elastic.Timeout <= 0 {
		c.Elastic.Timeout = DefaultSearchTimeout
	}

	return nil
}
