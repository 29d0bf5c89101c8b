package config

import (
	"time"

	pkgconfig "github.com/weiawesome/wes-io-live/chatroom-service/pkg/config"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/database"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/pubsub"
)

type Config struct {
	Server   ServerConfig
	Database database.Config
	Redis    RedisConfig
	Cache    CacheConfig
	PubSub   pubsub.Config `mapstructure:"pubsub"`
	Auth     AuthConfig
	IDGen    IDGenConfig `mapstructure:"idgen"`
	Log      LogConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type CacheConfig struct {
	Enabled bool
	Prefix  string
	TTL     time.Duration
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	Issuer         string        `mapstructure:"issuer"`
	AccessDuration time.Duration `mapstructure:"access_duration"`
}

// IDGenConfig selects the generator kind for each store.
// Kinds: uuid, ulid, ksuid, nanoid, cuid2.
type IDGenConfig struct {
	Room        string `mapstructure:"room"`
	Message     string `mapstructure:"message"`
	NanoIDSize  int    `mapstructure:"nanoid_size"`
	CUID2Length int    `mapstructure:"cuid2_length"`
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	pkgconfig.SetDefaults(v, map[string]any{
		"server.host":                "0.0.0.0",
		"server.port":                8090,
		"server.shutdown_timeout":    "10s",
		"database.driver":            "sqlite",
		"database.host":              "localhost",
		"database.port":              5432,
		"database.user":              "postgres",
		"database.password":          "postgres",
		"database.dbname":            "chatroom_service",
		"database.sslmode":           "disable",
		"database.file_path":         "./data/chatroom.db",
		"database.max_idle_conns":    10,
		"database.max_open_conns":    100,
		"database.conn_max_lifetime": 60,
		"database.log_level":         "warn",
		"redis.address":              "localhost:6379",
		"redis.password":             "",
		"redis.db":                   0,
		"cache.enabled":              false,
		"cache.prefix":               "chatroom",
		"cache.ttl":                  "5m",
		"pubsub.enabled":             false,
		"pubsub.redis.address":       "localhost:6379",
		"pubsub.redis.pool_size":     10,
		"pubsub.redis.read_timeout":  "3s",
		"pubsub.redis.write_timeout": "3s",
		"auth.issuer":                "wes-io-live",
		"auth.access_duration":       "15m",
		"idgen.room":                 "uuid",
		"idgen.message":              "ulid",
		"idgen.nanoid_size":          21,
		"idgen.cuid2_length":         24,
		"log.level":                  "info",
		"log.pretty":                 false,
	})

	if err := pkgconfig.BindEnvs(v, map[string]string{
		"server.port":                "PORT",
		"database.driver":            "DB_DRIVER",
		"database.host":              "DB_HOST",
		"database.port":              "DB_PORT",
		"database.user":              "DB_USER",
		"database.password":          "DB_PASSWORD",
		"database.dbname":            "DB_NAME",
		"database.sslmode":           "DB_SSLMODE",
		"database.file_path":         "DB_FILE_PATH",
		"database.max_idle_conns":    "DB_MAX_IDLE_CONNS",
		"database.max_open_conns":    "DB_MAX_OPEN_CONNS",
		"database.conn_max_lifetime": "DB_CONN_MAX_LIFETIME",
		"redis.address":              "REDIS_ADDRESS",
		"redis.password":             "REDIS_PASSWORD",
		"cache.enabled":              "CACHE_ENABLED",
		"pubsub.enabled":             "PUBSUB_ENABLED",
		"pubsub.redis.address":       "PUBSUB_REDIS_ADDRESS",
		"auth.jwt_secret":            "JWT_SECRET",
		"auth.issuer":                "JWT_ISSUER",
		"idgen.room":                 "ROOM_ID_KIND",
		"idgen.message":              "MESSAGE_ID_KIND",
		"log.level":                  "LOG_LEVEL",
	}); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
