package main

import (
	"fmt"
	"net/http"

	"fleetdesk/internal/config"
	"fleetdesk/internal/handlers"
	"fleetdesk/internal/middleware"
	"fleetdesk/internal/repositories/mongodb"
	"fleetdesk/internal/services"
	"fleetdesk/pkg/cache"
	"fleetdesk/pkg/database"
	"fleetdesk/pkg/logger"
	"fleetdesk/pkg/routing"
	"fleetdesk/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Default().Fatalf("failed to load config: %v", err)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		logger.Default().Fatalf("failed to initialize logger: %v", err)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	redisClient, err := cache.NewClient(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	cacheService := services.NewCacheService(redisClient)

	// Repositories
	userRepo := mongodb.NewUserRepository(db.Database)
	driverRepo := mongodb.NewDriverRepository(db.Database, cacheService)
	vehicleRepo := mongodb.NewVehicleRepository(db.Client, db.Database)
	locationRepo := mongodb.NewLocationRepository(db.Database)
	tripRepo := mongodb.NewTripRepository(db.Database, cacheService)
	requestRepo := mongodb.NewRequestRepository(db.Database)
	notificationRepo := mongodb.NewNotificationRepository(db.Database)
	activityRepo := mongodb.NewActivityLogRepository(db.Database)

	// Route estimation falls back to the haversine approximation when no
	// maps API key is configured.
	var estimator routing.RouteEstimator = routing.NewStaticEstimator()
	if cfg.Maps.Provider == "google" && cfg.Maps.GoogleMaps.APIKey != "" {
		google, err := routing.NewGoogleEstimator(cfg.Maps.GoogleMaps.APIKey)
		if err != nil {
			log.Fatalf("failed to initialize maps client: %v", err)
		}
		estimator = google
	}

	// Services
	activityService := services.NewActivityService(activityRepo, log)
	notificationService := services.NewNotificationService(notificationRepo, log)
	authService := services.NewAuthService(userRepo, cfg.Security.JWTSecret, cfg.Security.JWTAccessTokenTTL)
	requestService := services.NewRequestService(requestRepo, driverRepo, vehicleRepo, tripRepo, userRepo, notificationService, activityService, log)
	tripService := services.NewTripService(tripRepo, driverRepo, vehicleRepo, locationRepo, requestService, notificationService, activityService, estimator, log)
	driverService := services.NewDriverService(driverRepo, userRepo, tripRepo, requestService, activityService, log)
	vehicleService := services.NewVehicleService(vehicleRepo, driverRepo, requestService, activityService, log)
	analyticsService := services.NewAnalyticsService(tripRepo, driverRepo, requestRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	requestHandler := handlers.NewRequestHandler(requestService)
	tripHandler := handlers.NewTripHandler(tripService, driverService)
	driverHandler := handlers.NewDriverHandler(driverService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, activityService)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			log.Fatalf("failed to set trusted proxies: %v", err)
		}
	}

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, authHandler, authService)
		routes.SetupRequestRoutes(v1, requestHandler, authService)
		routes.SetupTripRoutes(v1, tripHandler, authService)
		routes.SetupDriverRoutes(v1, driverHandler, authService)
		routes.SetupVehicleRoutes(v1, vehicleHandler, authService)
		routes.SetupNotificationRoutes(v1, notificationHandler, authService)
		routes.SetupAnalyticsRoutes(v1, analyticsHandler, authService)
	}

	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"version": cfg.App.Version,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	log.Infof("starting %s on %s", cfg.App.Name, addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
