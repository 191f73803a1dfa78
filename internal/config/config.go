package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

const (
	SessionStoreCookie = "cookie"
	SessionStoreRedis  = "redis"
)

// DefaultSessionSecret is the SESSION_SECRET fallback. Only allowed outside prod.
const DefaultSessionSecret = "default-secret-key-change-me"

type Config struct {
	Env      string `env:"APP_ENV" env-default:"local"`
	GinMode  string `env:"GIN_MODE" env-default:"debug"`
	HTTP     HTTPConfig
	Database DatabaseConfig
	Session  SessionConfig
	JWT      JWTConfig
	Bcrypt   BcryptConfig
	OpenAI   OpenAIConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER" env-default:"postgres"`
	Host       string `env:"DB_HOST" env-default:"localhost"`
	Port       string `env:"DB_PORT" env-default:"5432"`
	User       string `env:"DB_USER" env-default:"zen"`
	Password   string `env:"DB_PASSWORD" env-default:"zen"`
	Name       string `env:"DB_NAME" env-default:"zen_tasks"`
	SSLMode    string `env:"DB_SSL_MODE" env-default:"disable"`
	SQLitePath string `env:"DB_SQLITE_PATH" env-default:"zen_tasks.db"`
}

type SessionConfig struct {
	Store     string        `env:"SESSION_STORE" env-default:"cookie"`
	Secret    string        `env:"SESSION_SECRET" env-default:"default-secret-key-change-me"`
	RedisHost string        `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort string        `env:"REDIS_PORT" env-default:"6379"`
	MaxAge    time.Duration `env:"SESSION_MAX_AGE" env-default:"168h"`
}

type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET" env-required:"true"`
	Issuer     string        `env:"JWT_ISSUER" env-default:"zen-task-api"`
	Expiration time.Duration `env:"JWT_EXPIRATION" env-default:"168h"`
}

type BcryptConfig struct {
	Cost int `env:"BCRYPT_COST" env-default:"10"`
}

type OpenAIConfig struct {
	APIKey string `env:"OPENAI_API_KEY"`
	Model  string `env:"OPENAI_MODEL" env-default:"gpt-4o"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	switch c.Session.Store {
	case SessionStoreCookie, SessionStoreRedis:
	default:
		return fmt.Errorf("unsupported session store: %s", c.Session.Store)
	}

	if c.IsProduction() && (c.Session.Secret == "" || c.Session.Secret == DefaultSessionSecret) {
		return fmt.Errorf("SESSION_SECRET must be set in production")
	}

	return nil
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProd
}
