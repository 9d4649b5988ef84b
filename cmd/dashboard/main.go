package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richxcame/devcert-dashboard/internal/csvimport"
	"github.com/richxcame/devcert-dashboard/internal/dashboard"
	"github.com/richxcame/devcert-dashboard/internal/developers"
	"github.com/richxcame/devcert-dashboard/internal/fraud"
	"github.com/richxcame/devcert-dashboard/internal/users"
	"github.com/richxcame/devcert-dashboard/pkg/common"
	"github.com/richxcame/devcert-dashboard/pkg/config"
	fb "github.com/richxcame/devcert-dashboard/pkg/firebase"
	"github.com/richxcame/devcert-dashboard/pkg/health"
	"github.com/richxcame/devcert-dashboard/pkg/logger"
	"github.com/richxcame/devcert-dashboard/pkg/middleware"
	"github.com/richxcame/devcert-dashboard/pkg/redis"
	"github.com/richxcame/devcert-dashboard/pkg/resilience"
	"github.com/richxcame/devcert-dashboard/pkg/secrets"
	"github.com/richxcame/devcert-dashboard/pkg/storage"
	"go.uber.org/zap"
)

const (
	serviceName    = "devcert-dashboard"
	serviceVersion = "1.0.0"
)

// app holds the wired handlers and auth collaborators the router is built from
type app struct {
	cfg        *config.Config
	verifier   middleware.TokenVerifier
	roles      middleware.RoleResolver
	developers *developers.Handler
	imports    *csvimport.Handler
	fraud      *fraud.Handler
	dashboard  *dashboard.Handler
	users      *users.Handler
	readiness  map[string]func() error
}

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.Init("dashboard", cfg.Server.Environment); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.Info("Starting dashboard service",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
		zap.String("environment", cfg.Server.Environment),
	)

	ctx := context.Background()
	if cfg.Secrets.Provider != "" {
		resolver, err := secrets.New(ctx, secrets.FromConfig(cfg))
		if err != nil {
			logger.Fatal("Failed to initialize secret store", zap.Error(err))
		}
		if err := secrets.Apply(ctx, resolver, cfg); err != nil {
			logger.Fatal("Failed to resolve secrets", zap.Error(err))
		}
		_ = resolver.Close()
		logger.Info("Secrets resolved", zap.String("provider", cfg.Secrets.Provider))
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Environment,
			Release:     serviceName + "@" + serviceVersion,
		}); err != nil {
			logger.Warn("Failed to initialize Sentry", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if !cfg.Firebase.Enabled {
		logger.Fatal("FIREBASE_ENABLED=false leaves the dashboard without a record store")
	}

	clients, err := fb.NewClients(ctx, cfg.Firebase)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase", zap.Error(err))
	}
	defer clients.Close()

	rules := fraud.DefaultRules()
	if cfg.Fraud.RulesPath != "" {
		rules, err = fraud.LoadRules(cfg.Fraud.RulesPath)
		if err != nil {
			logger.Fatal("Failed to load fraud rules", zap.Error(err))
		}
		logger.Info("Loaded fraud rules", zap.String("path", cfg.Fraud.RulesPath))
	}
	engine := fraud.NewEngine(rules)

	readiness := map[string]func() error{
		"firestore": health.FirestoreChecker(clients.Firestore, "developers"),
	}

	var cache redis.ClientInterface
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, dashboard cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cache = redisClient
			readiness["redis"] = health.RedisChecker(redisClient)
			logger.Info("Connected to Redis")
		}
	}

	devService := developers.NewService(developers.NewRepository(clients.Firestore), engine)
	devService.SetCircuitBreaker(resilience.NewCircuitBreaker(resilience.SettingsFromConfig("firestore-developers", cfg.Breaker)))

	dashService := dashboard.NewService(devService, cache, cfg.Dashboard.CacheTTL)
	devService.SetCacheInvalidator(dashService)

	fraudService := fraud.NewService(engine, devService)

	importService := csvimport.NewService(csvimport.NewImporter(), fraudService, devService)
	if cfg.Import.Archive {
		archive, err := storage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			logger.Fatal("Failed to initialize import archive", zap.Error(err))
		}
		importService.SetArchive(archive)
		logger.Info("Import archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	usersService := users.NewService(users.NewRepository(clients.Firestore), cfg.Auth.SuperAdminEmails)

	router := newRouter(&app{
		cfg:        cfg,
		verifier:   clients.Auth,
		roles:      usersService,
		developers: developers.NewHandler(devService),
		imports:    csvimport.NewHandler(importService),
		fraud:      fraud.NewHandler(fraudService),
		dashboard:  dashboard.NewHandler(dashService),
		users:      users.NewHandler(usersService),
		readiness:  readiness,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout+cfg.Server.RequestTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newRouter(a *app) *gin.Engine {
	if a.cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	if a.cfg.Sentry.DSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.SecurityHeaders(a.cfg.Server.Environment))
	router.Use(cors.New(corsConfig(a.cfg.Server.CORSOrigins)))

	router.GET("/healthz", common.HealthCheck(serviceName, serviceVersion))
	router.GET("/readyz", common.HealthCheckWithDeps(serviceName, serviceVersion, a.readiness))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(a.verifier, a.roles))

	admin := api.Group("")
	admin.Use(middleware.RequireAdmin())
	{
		a.developers.RegisterRoutes(admin)
		a.fraud.RegisterRoutes(admin)
		a.dashboard.RegisterRoutes(admin)
		a.imports.RegisterRoutes(admin,
			middleware.MaxBodySize(a.cfg.Import.MaxUploadBytes()),
			importTimeout(time.Duration(a.cfg.Server.RequestTimeout)*time.Second),
		)
	}

	superAdmin := api.Group("")
	superAdmin.Use(middleware.RequireRole(middleware.RoleSuperAdmin))
	a.users.RegisterRoutes(superAdmin)

	return router
}

func corsConfig(origins string) cors.Config {
	cfg := cors.DefaultConfig()
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", middleware.CorrelationIDHeader}
	return cfg
}

func importTimeout(d time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(d),
		timeout.WithResponse(func(c *gin.Context) {
			common.ErrorResponse(c, http.StatusGatewayTimeout, "import timed out")
		}),
	)
}
