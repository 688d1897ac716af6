package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	Addr     string `env:"ADDR,      default=127.0.0.1:8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
	UI    UIConfig
}

type StoreConfig struct {
	Driver     string `env:"STORE_DRIVER,  default=sqlite"`
	SQLitePath string `env:"SQLITE_PATH,   default=cafeteria.db"`
	// Timeout bounds every store call. Zero disables it.
	Timeout      time.Duration `env:"STORE_TIMEOUT, default=0s"`
	PasswordMode string        `env:"PASSWORD_MODE, default=plain"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=cafeteria"`
}

// RedisConfig is optional; an empty Addr disables the bootstrap lock.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type UIConfig struct {
	ViewsDir           string        `env:"VIEWS_DIR"`
	FullScreenExitKey  string        `env:"FULLSCREEN_EXIT_KEY,  default=ESCAPE"`
	CSRFKey            string        `env:"CSRF_KEY"`
	StudentIdleTimeout time.Duration `env:"STUDENT_IDLE_TIMEOUT, default=0s"`
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("config: failed to read .env: %v", err))
	}

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return &cfg
}

// LoadFrom resolves configuration from an explicit key/value map.
func LoadFrom(ctx context.Context, env map[string]string) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(env),
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Store.Timeout < 0 {
		return fmt.Errorf("STORE_TIMEOUT must not be negative")
	}
	switch strings.ToLower(c.Store.PasswordMode) {
	case "plain", "bcrypt":
	default:
		return fmt.Errorf("unsupported PASSWORD_MODE %q", c.Store.PasswordMode)
	}
	return nil
}
