package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	appconfig "github.com/GabrielASF2/lead-cental/config"
	"github.com/GabrielASF2/lead-cental/internal/handlers"
	"github.com/GabrielASF2/lead-cental/internal/repositories"
	"github.com/GabrielASF2/lead-cental/internal/server"
	connectionsvc "github.com/GabrielASF2/lead-cental/internal/services/connection"
	"github.com/GabrielASF2/lead-cental/pkg/auth"
	"github.com/GabrielASF2/lead-cental/pkg/crypto"
	"github.com/GabrielASF2/lead-cental/pkg/database"
	"github.com/GabrielASF2/lead-cental/pkg/events"
	"github.com/GabrielASF2/lead-cental/pkg/health"
	"github.com/GabrielASF2/lead-cental/pkg/httpclient"
	"github.com/GabrielASF2/lead-cental/pkg/kafka"
	"github.com/GabrielASF2/lead-cental/pkg/redis"
	"github.com/GabrielASF2/lead-cental/pkg/rowstore"
	"github.com/GabrielASF2/lead-cental/pkg/schema"
	"github.com/GabrielASF2/lead-cental/pkg/startup"
	"github.com/GabrielASF2/lead-cental/pkg/tracing"
	"github.com/GabrielASF2/lead-cental/pkg/tracing/exporters"
)

func main() {
	_ = godotenv.Load()

	var cfg appconfig.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(&cfg)

	if err := run(&cfg, logger); err != nil {
		logger.WithError(err).Error("service exited with error")
		os.Exit(1)
	}
}

func newLogger(cfg *appconfig.Config) ectologger.Logger {
	var zapLogger *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func run(cfg *appconfig.Config, logger ectologger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initTracing(ctx, cfg, logger)

	sealer, err := crypto.NewSealer(cfg.KeySealingSecret)
	if err != nil {
		return err
	}

	// Database
	var db *database.DatabaseInstance
	manager := startup.NewManager(logger, cfg.StartupMaxAttempts)
	manager.Add(dependency{
		name: "postgres",
		start: func(ctx context.Context) error {
			db, err = database.Connect(database.Config{
				Host:            cfg.DatabaseHost,
				Port:            cfg.DatabasePort,
				User:            cfg.DatabaseUserName,
				Password:        cfg.DatabasePassword,
				Name:            cfg.DatabaseName,
				SSLMode:         cfg.DatabaseSSLMode,
				MaxOpenConns:    cfg.DatabaseMaxOpenConns,
				MaxIdleConns:    cfg.DatabaseMaxIdleConns,
				ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
			}, logger)
			return err
		},
		stop: func(ctx context.Context) error {
			if db != nil {
				return db.Close()
			}
			return nil
		},
	})

	manager.Add(dependency{
		name:      "migrations",
		dependsOn: []string{"postgres"},
		start: func(ctx context.Context) error {
			migrations := database.NewMigrationService(logger, &database.MigrationConfig{
				MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
				Version:             uint(cfg.DatabaseMigrationVersion),
				Force:               cfg.DatabaseMigrationForce,
			})
			return migrations.Migrate(cfg.DatabaseName, db.Sqlx())
		},
		stop: func(ctx context.Context) error { return nil },
	})

	var redisClient *redis.Client
	if cfg.RedisEnabled {
		manager.Add(dependency{
			name: "redis",
			start: func(ctx context.Context) error {
				redisClient, err = redis.NewClient(redis.Config{
					Host:     cfg.RedisHost,
					Port:     cfg.RedisPort,
					Password: cfg.RedisPassword,
					DB:       cfg.RedisDB,
				}, logger)
				return err
			},
			stop: func(ctx context.Context) error {
				if redisClient != nil {
					return redisClient.Close()
				}
				return nil
			},
		})
	}

	if err := manager.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := manager.Stop(stopCtx); err != nil {
			logger.WithError(err).Error("failed to stop dependencies")
		}
	}()

	var producer *kafka.Producer
	if cfg.KafkaEnabled {
		producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers: strings.Split(cfg.KafkaBrokers, ","),
			Topic:   cfg.KafkaEventTopic,
		}, logger)
		defer producer.Close()
	}
	emitter := events.NewEmitter(producer, logger)

	// Remote row store
	httpClient := httpclient.NewClient(httpclient.Config{
		Timeout:         cfg.RowStoreTimeout,
		MaxIdleConns:    100,
		IdleConnTimeout: 90 * time.Second,
	}, logger)
	store := rowstore.NewClient(httpClient, logger)
	detector := schema.NewDetector(store, logger)

	// Persistence
	userRepo := repositories.NewUserRepository(db, logger)
	connectionRepo := repositories.NewConnectionRepository(db, logger)

	var cache connectionsvc.SchemaCache
	if redisClient != nil {
		cache = redis.NewSchemaCache(redisClient, cfg.SchemaCacheTTL)
	}

	service := connectionsvc.NewService(connectionsvc.Config{
		AllowedDomain: cfg.ConnectionAllowedDomain,
		DefaultTable:  cfg.ConnectionDefaultTable,
		OrderColumn:   cfg.ConnectionOrderColumn,
		PageSize:      cfg.ConnectionPageSize,
	}, detector, store, connectionRepo, userRepo, sealer, cache, emitter, logger)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	checker := health.NewChecker(cfg.AppName)
	checker.Register("database", health.PingerFunc(db.PingContext))
	if redisClient != nil {
		checker.RegisterOptional("redis", redisClient)
	}

	authHandler := handlers.NewAuthHandler(userRepo, issuer, emitter, logger)
	connectionHandler := handlers.NewConnectionHandler(service)

	srv := server.New(cfg, logger, issuer, checker, authHandler, connectionHandler)

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Start()
	}()
	checker.SetReady(true)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	checker.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func initTracing(ctx context.Context, cfg *appconfig.Config, logger ectologger.Logger) {
	if !cfg.OTLPEnabled {
		exporter, err := exporters.NewConsoleExporter()
		if err != nil {
			logger.WithError(err).Warn("failed to create console trace exporter")
			return
		}
		tracing.Init(cfg.AppName, exporter)
		return
	}

	exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
		Endpoint: cfg.OTLPEndpoint,
		Protocol: cfg.OTLPProtocol,
		Insecure: cfg.OTLPInsecure,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		logger.WithError(err).Warn("failed to create OTLP trace exporter")
		return
	}
	tracing.Init(cfg.AppName, exporter)
}

// dependency adapts closures to the startup.Dependency interface
type dependency struct {
	name      string
	dependsOn []string
	start     func(ctx context.Context) error
	stop      func(ctx context.Context) error
}

func (d dependency) Name() string                    { return d.name }
func (d dependency) DependsOn() []string             { return d.dependsOn }
func (d dependency) Start(ctx context.Context) error { return d.start(ctx) }
func (d dependency) Stop(ctx context.Context) error  { return d.stop(ctx) }
