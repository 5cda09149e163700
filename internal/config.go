package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"http_server"`
	Store       StoreConfig       `mapstructure:"store"`
	StoreServer StoreServerConfig `mapstructure:"store_server"`
	Security    SecurityConfig    `mapstructure:"security"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

// StoreConfig points the app at the remote bill store.
type StoreConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// StoreServerConfig configures the bundled development store.
type StoreServerConfig struct {
	Port       int    `mapstructure:"port"`
	Driver     string `mapstructure:"driver"`
	DSN        string `mapstructure:"dsn"`
	StorageDir string `mapstructure:"storage_dir"`
	PublicURL  string `mapstructure:"public_url"`

	MaxOpenConns int `mapstructure:"max_open_conns"`
	MaxIdleConns int `mapstructure:"max_idle_conns"`
}

type SecurityConfig struct {
	JWTSecret           string        `mapstructure:"jwt_secret"`
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration"`
	BCryptCost          int           `mapstructure:"bcrypt_cost"`

	// Employees that may log in, "email:bcrypt-hash" pairs. The original
	// application keeps users in its backend; the service only needs a way
	// to bootstrap a session, so a static list is enough here.
	Employees []string `mapstructure:"employees"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds the config from environment variables, used for
// container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("SERVER_PORT", 8080),
			BaseURL:           getEnv("SERVER_BASE_URL", "http://localhost:8080"),
			AllowedOrigins:    getEnv("SERVER_ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Store: StoreConfig{
			BaseURL:        getEnv("STORE_BASE_URL", "http://localhost:5678"),
			RequestTimeout: 30 * time.Second,
		},
		StoreServer: StoreServerConfig{
			Port:         getEnvAsInt("STORE_SERVER_PORT", 5678),
			Driver:       getEnv("STORE_DRIVER", "sqlite"),
			DSN:          getEnv("STORE_DSN", "billed.db"),
			StorageDir:   getEnv("STORE_STORAGE_DIR", "uploads"),
			PublicURL:    getEnv("STORE_PUBLIC_URL", "http://localhost:5678"),
			MaxOpenConns: getEnvAsInt("STORE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("STORE_MAX_IDLE_CONNS", 5),
		},
		Security: SecurityConfig{
			JWTSecret:           getEnv("JWT_SECRET", ""),
			AccessTokenDuration: 15 * time.Minute,
			BCryptCost:          12,
			Employees:           strings.Split(getEnv("EMPLOYEES", ""), ","),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Store.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("store config: %v", err))
	}

	if err := c.StoreServer.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("store server config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *StoreConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	return nil
}

func (c *StoreServerConfig) Validate() error {
	if c.Driver != "sqlite" && c.Driver != "postgres" {
		return fmt.Errorf("unsupported store driver %q", c.Driver)
	}
	if c.DSN == "" {
		return errors.New("dsn is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	for _, entry := range c.Employees {
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, ":") {
			return fmt.Errorf("employee entry %q must be email:hash", entry)
		}
	}
	return nil
}

// EmployeeHashes splits the configured employees into an email to bcrypt hash map.
func (c *SecurityConfig) EmployeeHashes() map[string]string {
	out := make(map[string]string, len(c.Employees))
	for _, entry := range c.Employees {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) == 2 {
			out[parts[0]] = parts[1]
		}
	}
	return out
}
