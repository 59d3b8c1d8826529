package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Store    StoreConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Matching MatchingConfig
	Batch    BatchConfig
	Log      LogConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type StoreConfig struct {
	Driver string
	// SeedOnStart loads the default skill catalog into the memory store.
	SeedOnStart bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiresIn time.Duration
}

type MatchingConfig struct {
	PersonRoleMin int
	RolePeopleMin int
	Workers       int
}

type BatchConfig struct {
	ChunkSize int
}

type LogConfig struct {
	Level    string
	Encoding string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads the process environment, after merging a .env file when one
// exists in the working directory.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing, invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	optInt := func(key string, def int) int {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optDur := func(key string, def time.Duration) time.Duration {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	optBool := func(key string, def bool) bool {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return b
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Store = StoreConfig{
		Driver:      strings.ToLower(opt("STORE_DRIVER", StoreDriverPostgres)),
		SeedOnStart: optBool("STORE_SEED_ON_START", true),
	}
	switch cfg.Store.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		invalid = append(invalid, "STORE_DRIVER")
	}

	dbReq := func(key string) string {
		if cfg.Store.Driver == StoreDriverPostgres {
			return req(key)
		}
		return opt(key, "")
	}
	cfg.Database = DatabaseConfig{
		DBHost:     dbReq("DB_HOST"),
		DBPort:     opt("DB_PORT", "5432"),
		DBName:     dbReq("DB_NAME"),
		DBUser:     dbReq("DB_USER"),
		DBPassword: opt("DB_PASSWORD", ""),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:        optDur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDur("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   optDur("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: optDur("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),
	}

	cfg.Redis = RedisConfig{
		Enabled:  optBool("REDIS_ENABLED", true),
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD", ""),
		TTL:      time.Duration(optInt("REDIS_TTL", 600)) * time.Second,
	}

	cfg.JWT = JWTConfig{
		AccessSecret:    req("JWT_ACCESS_SECRET"),
		AccessExpiresIn: optDur("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
	}

	cfg.Matching = MatchingConfig{
		PersonRoleMin: optInt("MATCH_PERSON_ROLE_MIN", 3),
		RolePeopleMin: optInt("MATCH_ROLE_PEOPLE_MIN", 0),
		Workers:       optInt("MATCH_WORKERS", 8),
	}

	cfg.Batch = BatchConfig{
		ChunkSize: optInt("BATCH_CHUNK_SIZE", 500),
	}

	cfg.Log = LogConfig{
		Level:    strings.ToLower(opt("LOG_LEVEL", "info")),
		Encoding: strings.ToLower(opt("LOG_ENCODING", "json")),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}
