package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers.
const (
	StoreDriverBolt     = "bolt"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Blob drivers.
const (
	BlobDriverFilesystem = "filesystem"
	BlobDriverMemory     = "memory"
)

type Config struct {
	Env string

	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Blob     BlobConfig
	Auth     AuthConfig
	Log      LogConfig
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Driver   string
	BoltPath string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int

	// Table holds one row per slot.
	Table          string
	ConnectTimeout time.Duration
}

type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
	Timeout   time.Duration
}

// BlobConfig selects and tunes the blob store.
type BlobConfig struct {
	Driver          string
	Dir             string
	SignedURLSecret string
	SignedURLTTL    time.Duration

	// SweepMinAge protects blobs uploaded by operations that have not committed yet.
	SweepMinAge time.Duration
}

// AuthConfig governs login behaviour and session pointer signing.
type AuthConfig struct {
	AdminEmail        string
	BootstrapPassword string
	LoginDelay        time.Duration
	SessionSecret     string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	cfg.Env = v.GetString("ENV")

	cfg.Store = StoreConfig{
		Driver:   strings.ToLower(v.GetString("STORE_DRIVER")),
		BoltPath: v.GetString("STORE_BOLT_PATH"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),

		Table:          v.GetString("DB_TABLE"),
		ConnectTimeout: parseDuration(v.GetString("DB_CONNECT_TIMEOUT"), 5*time.Second),
	}

	cfg.Redis = RedisConfig{
		Host:      v.GetString("REDIS_HOST"),
		Port:      v.GetInt("REDIS_PORT"),
		Password:  v.GetString("REDIS_PASSWORD"),
		DB:        v.GetInt("REDIS_DB"),
		KeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
		Timeout:   parseDuration(v.GetString("REDIS_TIMEOUT"), 5*time.Second),
	}

	cfg.Blob = BlobConfig{
		Driver:          strings.ToLower(v.GetString("BLOB_DRIVER")),
		Dir:             v.GetString("BLOB_DIR"),
		SignedURLSecret: v.GetString("BLOB_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("BLOB_SIGNED_URL_TTL"), 30*time.Minute),
		SweepMinAge:     parseDuration(v.GetString("BLOB_SWEEP_MIN_AGE"), time.Hour),
	}

	cfg.Auth = AuthConfig{
		AdminEmail:        strings.ToLower(strings.TrimSpace(v.GetString("AUTH_ADMIN_EMAIL"))),
		BootstrapPassword: v.GetString("AUTH_BOOTSTRAP_PASSWORD"),
		LoginDelay:        parseDuration(v.GetString("AUTH_LOGIN_DELAY"), 500*time.Millisecond),
		SessionSecret:     v.GetString("SESSION_SECRET"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverBolt, StoreDriverRedis, StoreDriverPostgres, StoreDriverMemory:
	default:
		return errors.New("unsupported STORE_DRIVER: " + c.Store.Driver)
	}
	switch c.Blob.Driver {
	case BlobDriverFilesystem, BlobDriverMemory:
	default:
		return errors.New("unsupported BLOB_DRIVER: " + c.Blob.Driver)
	}
	if c.Env == EnvProduction && c.Auth.SessionSecret == "dev_session_secret" {
		return errors.New("SESSION_SECRET must be set in production")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("STORE_DRIVER", StoreDriverBolt)
	v.SetDefault("STORE_BOLT_PATH", "./data/classroom.db")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "classroom")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 4)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_TABLE", "documents")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "classroom:")
	v.SetDefault("REDIS_TIMEOUT", "5s")

	v.SetDefault("BLOB_DRIVER", BlobDriverFilesystem)
	v.SetDefault("BLOB_DIR", "./data/blobs")
	v.SetDefault("BLOB_SIGNED_URL_SECRET", "dev_blob_secret")
	v.SetDefault("BLOB_SIGNED_URL_TTL", "30m")
	v.SetDefault("BLOB_SWEEP_MIN_AGE", "1h")

	v.SetDefault("AUTH_ADMIN_EMAIL", "admin@classroom.local")
	v.SetDefault("AUTH_BOOTSTRAP_PASSWORD", "admin")
	v.SetDefault("AUTH_LOGIN_DELAY", "500ms")
	v.SetDefault("SESSION_SECRET", "dev_session_secret")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
