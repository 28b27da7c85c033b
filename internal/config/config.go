package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
)

type Config struct {
	Server struct {
		Port                   int `mapstructure:"port" validate:"gt=0,lt=65536"`
		ReadTimeoutSeconds     int `mapstructure:"read_timeout_seconds" validate:"gte=0"`
		WriteTimeoutSeconds    int `mapstructure:"write_timeout_seconds" validate:"gte=0"`
		ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
	} `mapstructure:"server"`

	Storage struct {
		Backend string `mapstructure:"backend" validate:"oneof=mongo postgres memory"`
	} `mapstructure:"storage"`

	Mongo struct {
		URI        string `mapstructure:"uri"`
		Database   string `mapstructure:"database"`
		Collection string `mapstructure:"collection"`
	} `mapstructure:"mongo"`

	Postgres struct {
		URL      string `mapstructure:"url"`
		MaxConns int32  `mapstructure:"max_conns" validate:"gte=0"`
	} `mapstructure:"postgres"`

	Redis struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
		DB   int    `mapstructure:"db" validate:"gte=0"`
	} `mapstructure:"redis"`

	Session struct {
		Backend    string `mapstructure:"backend" validate:"oneof=redis memory"`
		CookieName string `mapstructure:"cookie_name" validate:"required"`
		TTLMinutes int    `mapstructure:"ttl_minutes" validate:"gt=0"`
	} `mapstructure:"session"`

	Log struct {
		Level  string `mapstructure:"level"`
		Pretty bool   `mapstructure:"pretty"`
	} `mapstructure:"log"`

	Build BuildInfo `mapstructure:"-"`
}

// BuildInfo carries the build identifiers reported by /version.
// A nil field means the value was not provided.
type BuildInfo struct {
	BuildID  *string
	CommitID *string
}

// LoadConfig loads the configuration from file, environment variables, and command-line arguments.
// Order of precedence: defaults < config file < .env / env vars < cmd flags.
func LoadConfig(configPath string, args []string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 15)
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("storage.backend", BackendMongo)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "visits")
	v.SetDefault("mongo.collection", "visits")
	v.SetDefault("postgres.url", "postgres://postgres@localhost:5432/visits?sslmode=disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("session.backend", BackendRedis)
	v.SetDefault("session.cookie_name", "JSESSIONID")
	v.SetDefault("session.ttl_minutes", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Read from config file if present
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			log.Warn().Err(err).Str("config_path", configPath).Msg("Failed to read config file, relying on defaults, env, and flags")
		}
	}

	// .env is optional; variables already present in the environment win.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded variables from .env")
	}

	// Explicitly bind environment variables
	bindEnvOrPanic(v, "server.port", "PORT")
	bindEnvOrPanic(v, "storage.backend", "STORAGE_BACKEND")
	bindEnvOrPanic(v, "mongo.uri", "MONGO_URI")
	bindEnvOrPanic(v, "mongo.database", "MONGO_DATABASE")
	bindEnvOrPanic(v, "mongo.collection", "MONGO_COLLECTION")
	bindEnvOrPanic(v, "postgres.url", "DATABASE_URL")
	bindEnvOrPanic(v, "redis.host", "REDIS_HOST")
	bindEnvOrPanic(v, "redis.port", "REDIS_PORT")
	bindEnvOrPanic(v, "session.backend", "SESSION_BACKEND")
	bindEnvOrPanic(v, "session.ttl_minutes", "SESSION_TTL_MINUTES")
	bindEnvOrPanic(v, "log.level", "LOG_LEVEL")

	// Parse command-line flags
	fs := pflag.NewFlagSet("visit-recorder", pflag.ContinueOnError)
	fs.Int("port", 0, "Override HTTP listen port")
	fs.String("storage-backend", "", "Override storage backend (mongo, postgres, memory)")
	fs.String("session-backend", "", "Override session backend (redis, memory)")
	fs.String("log-level", "", "Override log level")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	// Apply command-line flags if provided
	bindFlagIfChanged(v, fs, "server.port", "port")
	bindFlagIfChanged(v, fs, "storage.backend", "storage-backend")
	bindFlagIfChanged(v, fs, "session.backend", "session-backend")
	bindFlagIfChanged(v, fs, "log.level", "log-level")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Build = BuildInfo{
		BuildID:  optionalEnv("BUILD_ID"),
		CommitID: optionalEnv("GIT_COMMIT_ID"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func bindEnvOrPanic(v *viper.Viper, key, env string) {
	if err := v.BindEnv(key, env); err != nil {
		log.Fatal().Err(err).Msgf("Failed to bind environment variable %s to key %s", env, key)
	}
}

func bindFlagIfChanged(v *viper.Viper, fs *pflag.FlagSet, key, flag string) {
	f := fs.Lookup(flag)
	if f == nil || !f.Changed {
		return
	}
	if err := v.BindPFlag(key, f); err != nil {
		log.Fatal().Err(err).Msgf("Failed to bind flag --%s to key %s", flag, key)
	}
}

// optionalEnv reads the environment directly because viper treats an empty
// variable as unset. Set-but-empty is reported as "".
func optionalEnv(name string) *string {
	s, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	return &s
}

func validateConfig(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch cfg.Storage.Backend {
	case BackendMongo:
		if cfg.Mongo.URI == "" || cfg.Mongo.Database == "" || cfg.Mongo.Collection == "" {
			return fmt.Errorf("mongo storage requires uri, database and collection")
		}
	case BackendPostgres:
		if cfg.Postgres.URL == "" {
			return fmt.Errorf("postgres storage requires postgres.url")
		}
	}

	if cfg.Session.Backend == BackendRedis {
		if cfg.Redis.Host == "" {
			return fmt.Errorf("redis sessions require redis.host")
		}
		if cfg.Redis.Port <= 0 {
			return fmt.Errorf("redis port must be > 0, got %d", cfg.Redis.Port)
		}
	}

	return nil
}
