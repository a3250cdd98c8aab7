package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

var (
	apiPrefixPattern = regexp.MustCompile(`^(/[A-Za-z0-9._-]+)*/?$`)
	originPattern    = regexp.MustCompile(`^https?://[^/]+$`)
)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Store StoreConfig       `yaml:"store"`
	CORS  CORSConfig        `yaml:"cors"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return c.CORS.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	Env       string     `yaml:"env"`
	LogLevel  slog.Level `yaml:"log_level"`
	HTTP      HTTPConfig `yaml:"http"`
	APIPrefix string     `yaml:"api_prefix"`
	// AccessLog enables per-request logging.
	AccessLog bool `yaml:"access_log"`
	// Metrics enables GET /metrics.
	Metrics bool `yaml:"metrics"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Env, validation.Required, validation.In(EnvDevelopment, EnvProduction, EnvTest)),
		validation.Field(&c.APIPrefix, validation.Match(apiPrefixPattern)),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// Development reports whether errors should expose stacks and verbose logs.
func (c *ApplicationConfig) Development() bool {
	return c.Env == EnvDevelopment
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig holds the SQLite database location.
type StoreConfig struct {
	DSN string `yaml:"dsn"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DSN, validation.Required),
	)
}

// CORSConfig lists the origins allowed to call the API.
type CORSConfig struct {
	// Origin is a comma-separated list; "*" allows any origin.
	Origin string `yaml:"origin"`
}

// Validate validates the CORS configuration. "*" must stand alone; any other
// entry must be an http(s) origin without a path.
func (c *CORSConfig) Validate() error {
	if c.AnyOrigin() {
		return nil
	}
	if err := validation.Validate(c.Origins(),
		validation.Each(is.URL, validation.Match(originPattern).Error("must be an http(s) origin without a path")),
	); err != nil {
		return fmt.Errorf("cors origin: %w", err)
	}
	return nil
}

// AnyOrigin reports whether every origin is allowed, either explicitly with
// "*" or by leaving the list empty.
func (c *CORSConfig) AnyOrigin() bool {
	origins := c.Origins()
	return len(origins) == 0 || (len(origins) == 1 && origins[0] == "*")
}

// Origins splits Origin into trimmed, non-empty entries.
func (c *CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.Origin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			Env:      EnvProduction,
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
			APIPrefix: "/api",
			AccessLog: true,
			Metrics:   true,
		},
		Store: StoreConfig{
			DSN: "./resources.db",
		},
		CORS: CORSConfig{
			Origin: "*",
		},
	}
}
