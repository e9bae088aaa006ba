package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Store       StoreConfig
	Redis       RedisConfig
	Journal     JournalConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxConn      int
}

// StoreConfig selects the document store backing tasks and reward ledgers.
// Driver is one of "mongo", "postgres" or "memory".
type StoreConfig struct {
	Driver   string
	Mongo    MongoConfig
	Postgres PostgresConfig
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type PostgresConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
	FeedSize int
}

// JournalConfig tunes the on-disk ledger of reward credits that could not
// be applied when their task was completed.
type JournalConfig struct {
	Path         string
	SyncInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "taskledger"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:      getInt("SERVER_MAX_CONN", 0),
		},
		Store: StoreConfig{
			Driver: getString("STORE_DRIVER", "mongo"),
			Mongo: MongoConfig{
				URI:            getString("MONGODB_URI", "mongodb://localhost:27017"),
				Database:       getString("MONGODB_DATABASE", "taskledger"),
				ConnectTimeout: getDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
			},
			Postgres: PostgresConfig{
				URL:             os.Getenv("DATABASE_URL"),
				Host:            getString("DB_HOST", "localhost"),
				Port:            getString("DB_PORT", "5432"),
				Name:            getString("DB_NAME", "taskledger_db"),
				User:            getString("DB_USER", "taskledger_user"),
				Password:        os.Getenv("DB_PASSWORD"),
				MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
				MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
				SSLMode:         getString("DB_SSLMODE", "disable"),
			},
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
			FeedSize: getInt("ACTIVITY_FEED_SIZE", 100),
		},
		Journal: JournalConfig{
			Path:         getString("BOLTDB_PATH", "./data/journal.db"),
			SyncInterval: getDuration("SYNC_INTERVAL_SECONDS", 30*time.Second),
			BatchSize:    getInt("JOURNAL_BATCH_SIZE", 50),
			MaxAttempts:  getInt("MAX_RETRY_ATTEMPTS", 3),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
	}

	if cfg.Store.Postgres.URL == "" {
		cfg.Store.Postgres.URL = buildPostgresURL(cfg)
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Store.Postgres.User,
		cfg.Store.Postgres.Password,
		cfg.Store.Postgres.Host,
		cfg.Store.Postgres.Port,
		cfg.Store.Postgres.Name,
		cfg.Store.Postgres.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
