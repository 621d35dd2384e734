package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name            string   `envconfig:"APP_NAME" default:"Spendlog"`
		Port            int      `envconfig:"PORT" default:"3000"`
		CORSOrigins     []string `envconfig:"CORS_ORIGINS" default:"*"`
		DefaultCurrency string   `envconfig:"DEFAULT_CURRENCY" default:"INR"`
	}

	DB struct {
		Driver   string `envconfig:"DB_DRIVER" default:"sqlite"`
		Path     string `envconfig:"DB_PATH" default:"data/expenses.db"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"spendlog"`
	}

	Server struct {
		Timeout         time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	}

	Parser struct {
		Timeout     time.Duration `envconfig:"PARSER_TIMEOUT" default:"15s"`
		SplitErrors bool          `envconfig:"PARSER_SPLIT_ERRORS" default:"false"`
	}

	Gemini struct {
		APIKey          string `envconfig:"GEMINI_API_KEY"`
		Model           string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
		Endpoint        string `envconfig:"GEMINI_ENDPOINT"`
		MaxOutputTokens int64  `envconfig:"GEMINI_MAX_OUTPUT_TOKENS" default:"1024"`
	}

	Client struct {
		APIURL  string        `envconfig:"API_URL" default:"http://localhost:3000"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	}
}

// DSN returns the data source for the configured driver: a file path for
// sqlite, a connection URL for postgres.
func (c *Config) DSN() string {
	if c.DB.Driver == "postgres" {
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
	}

	return c.DB.Path
}

// Validate checks the settings the API server needs and reports every
// problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Port < 1 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d: must be between 1 and 65535", c.App.Port))
	}

	if len(c.App.DefaultCurrency) != 3 {
		errs = append(errs, fmt.Errorf("invalid default currency %q: must be a 3-letter code", c.App.DefaultCurrency))
	}

	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Path == "" {
			errs = append(errs, errors.New("DB_PATH cannot be empty when using sqlite"))
		}
	case "postgres":
		if c.DB.Host == "" || c.DB.Name == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required when using postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid database driver %q: must be sqlite or postgres", c.DB.Driver))
	}

	if c.Gemini.APIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required"))
	}

	if c.Parser.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid parser timeout %s: must be positive", c.Parser.Timeout))
	}

	return errors.Join(errs...)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
