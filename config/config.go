package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"storefront/repository"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	CatalogStatic   = "static"
	CatalogDatabase = "database"
)

type Config struct {
	HTTPAddr       string
	StorageBackend string
	BasketKey      string
	BasketTTL      time.Duration
	CatalogSource  string
	LogLevel       string
	FingerprintKey string

	RedisHost string
	RedisPort string
	RedisDB   int

	SQLitePath string

	DatabaseHost     string
	DatabasePort     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
}

// Load reads an optional .env file and then the environment.
func Load(envFiles ...string) (Config, error) {
	// a missing .env is normal; the environment alone is enough
	_ = godotenv.Load(envFiles...)
	return LoadFromEnv()
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		StorageBackend: getenv("STORAGE_BACKEND", BackendMemory),
		BasketKey:      getenv("BASKET_KEY", repository.DefaultBasketKey),
		CatalogSource:  getenv("CATALOG_SOURCE", CatalogStatic),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		FingerprintKey: os.Getenv("FINGERPRINT_KEY"),

		RedisHost: getenv("REDIS_HOST", "localhost"),
		RedisPort: getenv("REDIS_PORT", "6379"),

		SQLitePath: getenv("SQLITE_PATH", "storefront.db"),

		DatabaseHost:     getenv("DATABASE_HOST", "localhost"),
		DatabasePort:     getenv("DATABASE_PORT", "5432"),
		DatabaseUser:     os.Getenv("DATABASE_USER"),
		DatabasePassword: os.Getenv("DATABASE_PASSWORD"),
		DatabaseName:     getenv("DATABASE_NAME", "storefront"),
	}

	var err error
	cfg.RedisDB, err = getenvInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.BasketTTL, err = getenvDuration("BASKET_TTL", 0)
	if err != nil {
		return Config{}, err
	}
	if cfg.BasketTTL < 0 {
		return Config{}, fmt.Errorf("BASKET_TTL must not be negative")
	}
	if len(cfg.FingerprintKey) > 64 {
		return Config{}, fmt.Errorf("FINGERPRINT_KEY must be at most 64 bytes")
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendRedis, BackendSQLite, BackendPostgres:
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	switch cfg.CatalogSource {
	case CatalogStatic:
	case CatalogDatabase:
		if cfg.StorageBackend != BackendSQLite && cfg.StorageBackend != BackendPostgres {
			return Config{}, fmt.Errorf("CATALOG_SOURCE=database needs a sqlite or postgres STORAGE_BACKEND")
		}
	default:
		return Config{}, fmt.Errorf("unknown CATALOG_SOURCE %q", cfg.CatalogSource)
	}
	return cfg, nil
}

func (c Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DatabaseUser, c.DatabasePassword, c.DatabaseHost, c.DatabasePort, c.DatabaseName)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func getenvDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}
