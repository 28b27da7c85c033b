package helpers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cankoe/visit-recorder/internal/config"
	"github.com/cankoe/visit-recorder/internal/database"
	"github.com/cankoe/visit-recorder/internal/session"
	"github.com/cankoe/visit-recorder/internal/visits"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppComponents holds the configured backends. Only the clients for the
// selected backends are non-nil.
type AppComponents struct {
	Config       *config.Config
	MongoClient  *mongo.Client
	PostgresPool *pgxpool.Pool
	RedisClient  *redis.Client
	VisitStore   visits.Store
	SessionStore session.Store
}

func InitializeCommonComponents(ctx context.Context, serviceName string) (*AppComponents, error) {
	cfg, err := config.LoadConfig("config/config.yaml", os.Args[1:])
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	SetupLogging(cfg)
	log.Info().Msgf("Starting %s service with log level %s...", serviceName, zerolog.GlobalLevel().String())

	c := &AppComponents{Config: cfg}
	if err := c.openVisitStore(ctx); err != nil {
		c.CloseAll(context.Background())
		return nil, err
	}
	if err := c.openSessionStore(ctx); err != nil {
		c.CloseAll(context.Background())
		return nil, err
	}
	return c, nil
}

// SetupLogging applies the configured level and output format to the global logger.
func SetupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || cfg.Log.Level == "" {
		log.Warn().Msgf("Invalid log level '%s', defaulting to info", cfg.Log.Level)
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func (c *AppComponents) openVisitStore(ctx context.Context) error {
	cfg := c.Config
	switch cfg.Storage.Backend {
	case config.BackendMongo:
		client, err := database.NewMongoClient(ctx, cfg.Mongo.URI)
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		c.MongoClient = client
		c.VisitStore = visits.NewMongoStore(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
	case config.BackendPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.Postgres.URL, cfg.Postgres.MaxConns)
		if err != nil {
			return fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		c.PostgresPool = pool
		if err := database.RunMigrations(ctx, pool); err != nil {
			return fmt.Errorf("failed to migrate Postgres: %w", err)
		}
		c.VisitStore = visits.NewPostgresStore(pool)
	case config.BackendMemory:
		log.Warn().Msg("Using in-memory visit store, visits are lost on restart")
		c.VisitStore = visits.NewMemoryStore()
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	log.Info().Str("backend", cfg.Storage.Backend).Msg("Visit store ready")
	return nil
}

func (c *AppComponents) openSessionStore(ctx context.Context) error {
	cfg := c.Config
	switch cfg.Session.Backend {
	case config.BackendRedis:
		client, err := session.NewRedisClient(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.RedisClient = client
		c.SessionStore = session.NewRedisStore(client)
	case config.BackendMemory:
		c.SessionStore = session.NewMemoryStore()
	default:
		return fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
	log.Info().Str("backend", cfg.Session.Backend).Msg("Session store ready")
	return nil
}

func (c *AppComponents) CloseAll(ctx context.Context) {
	if c.MongoClient != nil {
		if err := c.MongoClient.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect MongoDB client")
		}
	}
	if c.PostgresPool != nil {
		c.PostgresPool.Close()
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Redis client")
		}
	}
}
