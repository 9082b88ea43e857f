package config

import (
	"time"

	"github.com/maxviazov/catalog-service/internal/logger"
)

type Config struct {
	App        AppConfig           `mapstructure:"app"`
	Logger     logger.LoggerConfig `mapstructure:"logger" validate:"-"`
	Storage    StorageConfig       `mapstructure:"storage"`
	Postgres   PostgresConfig      `mapstructure:"postgres"`
	Cache      CacheConfig         `mapstructure:"cache"`
	CORS       CORSConfig          `mapstructure:"cors"`
	Pagination PaginationConfig    `mapstructure:"pagination"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name" validate:"required"`
	Version         string        `mapstructure:"version"`
	Env             string        `mapstructure:"env"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// StorageConfig picks the repository backend. "memory" keeps everything in
// process and is meant for local runs and demos.
type StorageConfig struct {
	Driver  string `mapstructure:"driver" validate:"oneof=postgres memory"`
	Migrate bool   `mapstructure:"migrate"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port" validate:"min=1,max=65535"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"db"`
	SSLMode           string `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxConns          int32  `mapstructure:"max_conns" validate:"gte=0"`
	MinConns          int32  `mapstructure:"min_conns" validate:"gte=0"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime" validate:"gte=0"`   // seconds
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time" validate:"gte=0"`  // seconds
	HealthCheckPeriod int    `mapstructure:"health_check_period" validate:"gte=0"` // seconds
}

// CacheConfig tunes the single-item lookup cache.
type CacheConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	Capacity           int           `mapstructure:"capacity" validate:"gt=0"`
	NumShards          int           `mapstructure:"num_shards" validate:"gt=0"`
	TTL                time.Duration `mapstructure:"ttl" validate:"gt=0"`
	EvictionPercentage int           `mapstructure:"eviction_percentage" validate:"min=1,max=100"`
}

// PaginationConfig holds listing defaults applied when a request omits them.
type PaginationConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size" validate:"min=1,max=500"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}
