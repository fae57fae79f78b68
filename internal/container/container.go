package container

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/audit"
	auditstore "github.com/serroba/shortlink/internal/audit/store"
	"github.com/serroba/shortlink/internal/handlers"
	"github.com/serroba/shortlink/internal/health"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/middleware"
	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Storage backends selectable with --storage.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
)

// AuditConsumerGroup is the Redis Streams consumer group of cmd/consumer.
const AuditConsumerGroup = "audit"

type Options struct {
	Port        int    `default:"8888"           doc:"Port to listen on"                                      short:"p"`
	BaseURL     string `doc:"Public base URL of short links (default http://localhost:<port>)" name:"base-url"`
	CodeLength  int    `default:"8"              doc:"Length of generated short codes (3-15)"                 short:"c"`
	MaxAttempts int    `default:"5"              doc:"Insert attempts before a generated code gives up"`
	Storage     string `default:"memory"         doc:"Storage backend: memory, postgres, redis or sqlite"     short:"s"`
	DatabaseURL string `doc:"PostgreSQL connection string"                                                      name:"database-url"`
	SQLitePath  string `default:"shortlink.db"   doc:"SQLite database file"                                   name:"sqlite-path"`
	RedisAddr   string `default:"localhost:6379" doc:"Redis server address"                                   short:"r"`
	CacheTTL    int    `default:"0"              doc:"Redis read-through cache TTL in seconds, 0 disables it" name:"cache-ttl"`
	Events      bool   `default:"false"          doc:"Publish link.created audit events to Redis Streams"`
	CORSOrigins string `default:"*"              doc:"Comma separated list of allowed CORS origins"           name:"cors-origins"`
	LogFormat   string `default:"console"        doc:"Log format: console or json"`
	LogLevel    string `default:"info"           doc:"Log level: debug, info, warn or error"`
}

// PublicBaseURL returns the configured base URL or the localhost default.
func (o *Options) PublicBaseURL() string {
	if o.BaseURL != "" {
		return strings.TrimRight(o.BaseURL, "/")
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

// AllowedOrigins splits CORSOrigins into a list.
func (o *Options) AllowedOrigins() []string {
	var origins []string

	for _, origin := range strings.Split(o.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return origins
}

// RedisClient closes the client on injector shutdown.
type RedisClient struct {
	*redis.Client
}

func (c *RedisClient) Shutdown() error {
	return c.Close()
}

// PostgresPool closes the pool on injector shutdown.
type PostgresPool struct {
	*pgxpool.Pool
}

func (p *PostgresPool) Shutdown() error {
	p.Close()

	return nil
}

// HealthCheckers lists the dependencies reported by /health.
type HealthCheckers map[string]health.Checker

func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		cfg := zap.NewDevelopmentConfig()
		if opts.LogFormat == "json" {
			cfg = zap.NewProductionConfig()
		}

		if opts.LogLevel != "" {
			level, err := zapcore.ParseLevel(opts.LogLevel)
			if err != nil {
				return nil, fmt.Errorf("log level: %w", err)
			}

			cfg.Level = zap.NewAtomicLevelAt(level)
		}

		return cfg.Build()
	})
}

func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisClient{Client: redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr,
		})}, nil
	})
}

func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*PostgresPool, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.DatabaseURL == "" {
			return nil, errors.New("--database-url is required for postgres storage")
		}

		if err := store.MigratePostgres(opts.DatabaseURL, logger); err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		return &PostgresPool{Pool: pool}, nil
	})
}

func SQLitePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*store.SQLiteStore, error) {
		opts := do.MustInvoke[*Options](i)

		db, err := store.OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}

		return store.NewSQLiteStore(db), nil
	})
}

// RepositoryPackage selects the storage backend and wraps it with the Redis
// cache when a TTL is configured. It also provides the matching health checkers.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var repo shortener.Repository

		switch opts.Storage {
		case StorageMemory:
			repo = store.NewMemoryStore()
		case StoragePostgres:
			pool, err := do.Invoke[*PostgresPool](i)
			if err != nil {
				return nil, err
			}

			repo = store.NewPostgresStore(pool.Pool)
		case StorageRedis:
			repo = store.NewRedisStore(do.MustInvoke[*RedisClient](i).Client)
		case StorageSQLite:
			sqliteStore, err := do.Invoke[*store.SQLiteStore](i)
			if err != nil {
				return nil, err
			}

			repo = sqliteStore
		default:
			return nil, fmt.Errorf("unknown storage %q", opts.Storage)
		}

		if opts.CacheTTL > 0 {
			client := do.MustInvoke[*RedisClient](i).Client
			repo = store.NewRedisCacheRepository(repo, client, time.Duration(opts.CacheTTL)*time.Second, logger)
		}

		logger.Info("repository ready",
			zap.String("storage", opts.Storage),
			zap.Int("cacheTtlSeconds", opts.CacheTTL),
		)

		return repo, nil
	})

	do.Provide(injector, func(i *do.Injector) (HealthCheckers, error) {
		opts := do.MustInvoke[*Options](i)
		checkers := HealthCheckers{}

		switch opts.Storage {
		case StoragePostgres:
			pool := do.MustInvoke[*PostgresPool](i)
			checkers["postgres"] = health.CheckerFunc(pool.Ping)
		case StorageSQLite:
			checkers["sqlite"] = do.MustInvoke[*store.SQLiteStore](i)
		}

		if opts.Storage == StorageRedis || opts.CacheTTL > 0 || opts.Events {
			checkers["redis"] = health.NewRedisChecker(do.MustInvoke[*RedisClient](i).Client)
		}

		return checkers, nil
	})
}

func ServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)
		repo := do.MustInvoke[shortener.Repository](i)

		if opts.CodeLength < shortener.MinAliasLength || opts.CodeLength > shortener.MaxAliasLength {
			return nil, fmt.Errorf("code length must be between %d and %d, got %d",
				shortener.MinAliasLength, shortener.MaxAliasLength, opts.CodeLength)
		}

		generator, err := nanoid.Standard(opts.CodeLength)
		if err != nil {
			return nil, fmt.Errorf("code generator: %w", err)
		}

		return shortener.NewService(repo, map[shortener.StrategyName]shortener.Strategy{
			shortener.StrategyToken: shortener.NewTokenStrategy(repo, generator, opts.MaxAttempts),
			shortener.StrategyHash:  shortener.NewHashStrategy(repo, opts.CodeLength, opts.MaxAttempts),
		}), nil
	})
}

// PublisherGroupPackage provides the audit publish function. Without --events
// it drops every event and never touches Redis.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*RedisClient](i)
		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:     client.Client,
			Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
		}, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[audit.LinkCreatedEvent], error) {
		opts := do.MustInvoke[*Options](i)
		if !opts.Events {
			return messaging.NoopPublish[audit.LinkCreatedEvent](), nil
		}

		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublishFunc[audit.LinkCreatedEvent](group.Publisher(), audit.TopicLinkCreated), nil
	})
}

// HTTPPackage provides the router and the huma API. Invoking huma.API registers
// every route and middleware on the router.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		opts := do.MustInvoke[*Options](i)

		router := chi.NewMux()
		router.Use(chimiddleware.Recoverer)
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins(),
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)

		service, err := do.Invoke[*shortener.Service](i)
		if err != nil {
			return nil, err
		}

		publish, err := do.Invoke[messaging.Publish[audit.LinkCreatedEvent]](i)
		if err != nil {
			return nil, err
		}

		checkers, err := do.Invoke[HealthCheckers](i)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("URL Shortener", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))
		api.UseMiddleware(middleware.AccessLog(logger))

		urlHandler := handlers.NewURLHandler(service, opts.PublicBaseURL(), publish, logger)

		health.RegisterRoutes(api, health.NewHandler(checkers))
		handlers.RegisterRoutes(api, urlHandler)

		return api, nil
	})
}

// ConsumerGroupPackage wires the audit consumers onto a Redis Streams subscriber.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*RedisClient](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client.Client,
			Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: AuditConsumerGroup,
		}, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(audit.NewLinkCreatedConsumer(subscriber, auditstore.NewLog(logger), logger))

		return group, nil
	})
}
