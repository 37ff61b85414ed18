package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	_ "github.com/lib/pq" // PostgreSQL driver

	"kassa/internal/audit"
	"kassa/internal/config"
	"kassa/internal/constants"
	"kassa/internal/dedup"
	"kassa/internal/docai"
	"kassa/internal/extraction"
	"kassa/internal/logger"
	"kassa/internal/processing"
	"kassa/internal/receipt"
	"kassa/internal/webhook"
	"kassa/pkg/bootstrap"
	"kassa/pkg/health"
	"kassa/pkg/metrics"
	"kassa/pkg/middleware"
	"kassa/pkg/migrations"
	"kassa/pkg/ratelimit"
	"kassa/pkg/tracing"
)

const retentionInterval = 24 * time.Hour

type App struct {
	*bootstrap.Base
	dbConnector    *bootstrap.DatabaseConnector
	mongoClient    *mongo.Client
	redis          *redis.Client
	db             *sql.DB
	auditService   audit.Service
	server         *http.Server
	tracerProvider *tracing.TracerProvider
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		Base:        bootstrap.NewBase(cfg, log),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.initDatabases(ctx); err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}

	if a.Config.Database.RunMigrations {
		if err := a.runMigrations(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if err := a.InitBroker(); err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	tp, err := tracing.Init(a.Config.Tracing, "ingest-service")
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	metrics.RegisterIngestMetrics()
	metrics.RegisterBrokerMetrics()
	if a.Config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	if err := a.initHTTPServer(); err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	return nil
}

func (a *App) initDatabases(ctx context.Context) error {
	mongoClient, err := a.dbConnector.InitMongoDB(ctx)
	if err != nil {
		return err
	}
	a.mongoClient = mongoClient

	rdb, err := a.dbConnector.InitRedis(ctx)
	if err != nil {
		return err
	}
	a.redis = rdb

	db, err := a.dbConnector.InitPostgreSQL(ctx)
	if err != nil {
		return err
	}
	a.db = db

	return nil
}

func (a *App) runMigrations(ctx context.Context) error {
	if err := migrations.EnsureReceiptIndexes(ctx, a.mongoDatabase()); err != nil {
		return err
	}
	if a.db != nil {
		if err := migrations.RunPostgres(a.db); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) mongoDatabase() *mongo.Database {
	dbName := a.Config.Database.MongoDB.Database
	if dbName == "" {
		dbName = constants.DefaultMongoDBName
	}
	return a.mongoClient.Database(dbName)
}

func (a *App) initHTTPServer() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if a.Config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware("ingest-service"))
	}

	router.Use(middleware.RecoveryMiddleware(a.Logger))
	router.Use(middleware.LoggerMiddleware(a.Logger))
	router.Use(middleware.RequestIDMiddleware())

	if a.Config.Webhook.RateLimit.Enabled {
		rlConfig := ratelimit.Config{
			RPS:             a.Config.Webhook.RateLimit.RPS,
			Burst:           a.Config.Webhook.RateLimit.Burst,
			CleanupInterval: time.Duration(a.Config.Webhook.RateLimit.CleanupInterval) * time.Second,
			MaxAge:          time.Duration(a.Config.Webhook.RateLimit.MaxAge) * time.Second,
		}
		router.Use(ratelimit.Middleware(rlConfig))
		a.Logger.Infow("Rate limiting enabled", "rps", rlConfig.RPS, "burst", rlConfig.Burst)
	}

	receiptService := receipt.NewService(receipt.NewRepository(a.mongoDatabase()), a.Logger)

	var dedupRepo dedup.Repository
	if a.redis != nil {
		dedupRepo = dedup.NewRepository(a.redis)
	}
	dedupService := dedup.NewService(dedupRepo, a.Config.Deduplication, a.Logger)

	var auditRepo audit.Repository
	if a.db != nil {
		auditRepo = audit.NewRepository(a.db)
	}
	a.auditService = audit.NewService(auditRepo, a.Config.Audit, a.Logger)

	docaiService := docai.NewService(a.Config.DocAI, a.Config.CircuitBreaker, a.Logger)
	extractionService := extraction.NewService(a.Logger)

	processor := processing.NewService(
		receiptService,
		extractionService,
		docaiService,
		dedupService,
		a.auditService,
		a.Producer,
		a.Logger,
	)

	webhook.NewHandler(processor, a.Logger).RegisterRoutes(router)
	receipt.NewHandler(receiptService, a.Logger).RegisterRoutes(router)
	audit.NewHandler(a.auditService, a.Logger).RegisterRoutes(router)

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewMongoDBChecker(a.mongoClient))
	if a.redis != nil {
		healthRegistry.Register(health.NewRedisChecker(a.redis))
	}
	if a.db != nil {
		healthRegistry.Register(health.NewPostgreSQLChecker(a.db))
	}

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(a.Config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(a.Config.Server.WriteTimeoutSeconds) * time.Second,
	}

	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	if a.db != nil && a.Config.Audit.RetentionDays > 0 {
		g.Go(func() error {
			a.auditService.RunRetention(gCtx)

			ticker := time.NewTicker(retentionInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					a.auditService.RunRetention(gCtx)
				case <-gCtx.Done():
					return nil
				}
			}
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		return a.ShutdownAll(context.Background())
	})

	return g.Wait()
}

func (a *App) ShutdownAll(ctx context.Context) error {
	additionalShutdown := func(ctx context.Context) []error {
		var errs []error

		if a.server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("HTTP server shutdown error: %w", err))
			}
		}

		if a.tracerProvider != nil {
			if err := a.tracerProvider.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
			}
		}

		errs = append(errs, a.dbConnector.ShutdownDatabases(ctx, a.redis, a.db, a.mongoClient)...)

		return errs
	}

	return a.Base.Shutdown(ctx, additionalShutdown)
}
