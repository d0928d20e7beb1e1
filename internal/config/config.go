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

type Config struct {
	App         AppConfig
	Data        DataConfig
	Preferences PreferencesConfig
	Redis       RedisConfig
	Database    DatabaseConfig
	Offline     OfflineConfig
	Client      ClientConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DataConfig struct {
	// DatasetURL wins over DatasetFile; with neither set the embedded dataset is used.
	DatasetURL   string
	DatasetFile  string
	FetchTimeout time.Duration
	LoadDelay    time.Duration
}

type PreferencesConfig struct {
	Backend string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	DBHost         string
	DBPort         string
	DBName         string
	DBUser         string
	DBPassword     string
	DBSSLMode      string
	ConnectTimeout time.Duration
	PoolMaxConns   int32
	// MigrationsDir replaces the embedded migrations when set.
	MigrationsDir  string
}

type OfflineConfig struct {
	HTTPPort      string
	OriginURL     string
	ManifestPath  string
	BucketBackend string
	FetchTimeout  time.Duration
}

type ClientConfig struct {
	// ClientID keys the saved jobs and theme. Empty means a fresh id per run.
	ClientID      string
	StartFragment string
}

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

type reader struct {
	missing []string
	invalid []string
}

func (r *reader) req(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		r.missing = append(r.missing, key)
	}
	return v
}

func (r *reader) opt(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		r.invalid = append(r.invalid, key)
		return def
	}
	return d
}

func (r *reader) integer(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		r.invalid = append(r.invalid, key)
		return def
	}
	return v
}

func (r *reader) err() error {
	if len(r.missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(r.missing, ", "))
	}
	if len(r.invalid) > 0 {
		return fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(r.invalid, ", "))
	}
	return nil
}

func (r *reader) backend(key string, def string, allowed ...string) string {
	v := strings.ToLower(r.opt(key, def))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	r.invalid = append(r.invalid, key)
	return def
}

func loadShared(r *reader) Config {
	cfg := Config{}

	cfg.App = AppConfig{
		AppName:     r.opt("APP_NAME", "jobfinder"),
		Environment: r.opt("APP_ENV", "development"),
	}

	cfg.Preferences = PreferencesConfig{
		Backend: r.backend("PREFERENCES_BACKEND", BackendMemory, BackendMemory, BackendRedis, BackendPostgres),
	}

	cfg.Redis = RedisConfig{
		Host:     r.opt("REDIS_HOST", "localhost"),
		Port:     r.opt("REDIS_PORT", "6379"),
		Password: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		DB:       r.integer("REDIS_DB", 0),
	}

	cfg.Database = DatabaseConfig{
		DBHost:         r.opt("DB_HOST", "localhost"),
		DBPort:         r.opt("DB_PORT", "5432"),
		DBName:         r.opt("DB_NAME", "jobfinder"),
		DBUser:         r.opt("DB_USER", "postgres"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBSSLMode:      r.opt("DB_SSL_MODE", "disable"),
		ConnectTimeout: r.duration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:   int32(r.integer("DB_POOL_MAX_CONNS", 0)),
		MigrationsDir:  r.opt("MIGRATIONS_DIR", ""),
	}
	return cfg
}

// Load reads the origin server configuration. A .env file in the working directory is
// applied first; variables already set in the environment win.
func Load() (Config, error) {
	_ = godotenv.Load()

	r := &reader{}
	cfg := loadShared(r)
	cfg.App.HTTPPort = r.req("HTTP_PORT")
	cfg.Data = DataConfig{
		DatasetFile: r.opt("DATASET_FILE", ""),
		LoadDelay:   r.duration("JOBS_LOAD_DELAY", 0),
	}

	if err := r.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOffline reads the offline cache proxy configuration.
func LoadOffline() (Config, error) {
	_ = godotenv.Load()

	r := &reader{}
	cfg := loadShared(r)
	cfg.Offline = OfflineConfig{
		HTTPPort:      r.req("OFFLINE_PORT"),
		OriginURL:     r.req("ORIGIN_URL"),
		ManifestPath:  r.opt("OFFLINE_MANIFEST", ""),
		BucketBackend: r.backend("OFFLINE_BUCKET_BACKEND", BackendMemory, BackendMemory, BackendRedis),
		FetchTimeout:  r.duration("OFFLINE_FETCH_TIMEOUT", 10*time.Second),
	}

	if err := r.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadClient reads the terminal client configuration.
func LoadClient() (Config, error) {
	_ = godotenv.Load()

	r := &reader{}
	cfg := loadShared(r)
	cfg.Data = DataConfig{
		DatasetURL:   r.opt("DATASET_URL", "http://localhost:8080/data/jobs.json"),
		FetchTimeout: r.duration("DATASET_FETCH_TIMEOUT", 10*time.Second),
		LoadDelay:    r.duration("JOBS_LOAD_DELAY", 0),
	}
	cfg.Client = ClientConfig{
		ClientID:      r.opt("CLIENT_ID", ""),
		StartFragment: r.opt("START_FRAGMENT", "#/"),
	}

	if err := r.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
