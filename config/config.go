package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSessionSecret = "bookswap-dev-session-secret"
	defaultJWTSecret     = "bookswap-dev-jwt-secret"
)

// Config holds all configuration for the application
type Config struct {
	Env  string
	Port string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	SessionSecret string
	SessionMaxAge int
	JWTSecret     string
	JWTTTL        time.Duration
	BcryptCost    int

	LogLevel  string
	LogFormat string
	LogDir    string

	LoginMaxFailures        int
	LoginWindow             time.Duration
	TransferRequireInterest bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "bookswap")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_PATH", "data/books.db")
	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("SESSION_MAX_AGE", 60*60*24)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("LOGIN_MAX_FAILURES", 5)
	v.SetDefault("LOGIN_WINDOW", "15m")
	v.SetDefault("TRANSFER_REQUIRE_INTEREST", true)
}

// LoadConfig loads configuration from an optional .env file and the environment.
// envFiles default to ".env"; a missing file is not an error.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s file: %w", f, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		Env:                     v.GetString("ENV"),
		Port:                    v.GetString("PORT"),
		DBDriver:                strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:                  v.GetString("DB_HOST"),
		DBPort:                  v.GetString("DB_PORT"),
		DBUser:                  v.GetString("DB_USER"),
		DBPassword:              v.GetString("DB_PASSWORD"),
		DBName:                  v.GetString("DB_NAME"),
		DBSSLMode:               v.GetString("DB_SSLMODE"),
		DBPath:                  v.GetString("DB_PATH"),
		SessionSecret:           v.GetString("SESSION_SECRET"),
		SessionMaxAge:           v.GetInt("SESSION_MAX_AGE"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		JWTTTL:                  v.GetDuration("JWT_TTL"),
		BcryptCost:              v.GetInt("BCRYPT_COST"),
		LogLevel:                v.GetString("LOG_LEVEL"),
		LogFormat:               v.GetString("LOG_FORMAT"),
		LogDir:                  v.GetString("LOG_DIR"),
		LoginMaxFailures:        v.GetInt("LOGIN_MAX_FAILURES"),
		LoginWindow:             v.GetDuration("LOGIN_WINDOW"),
		TransferRequireInterest: v.GetBool("TRANSFER_REQUIRE_INTEREST"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// IsProduction reports whether the app runs with ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate checks the values that cannot be defaulted safely
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.IsProduction() {
		if c.SessionSecret == defaultSessionSecret || len(c.SessionSecret) < 32 {
			return errors.New("SESSION_SECRET must be set to at least 32 characters in production")
		}
		if c.JWTSecret == defaultJWTSecret || c.JWTSecret == "" {
			return errors.New("JWT_SECRET must be set in production")
		}
	}
	return nil
}

// DSN returns the connection string for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
	}
	// Immediate transactions serialize writers instead of failing lock upgrades.
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1&_txlock=immediate", c.DBPath)
}
