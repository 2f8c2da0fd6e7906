package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"localpro/config"
	"localpro/cron"
	"localpro/database"
	availabilityRepo "localpro/database/repository/availability"
	categoryRepo "localpro/database/repository/category"
	listingRepo "localpro/database/repository/listing"
	matchRepo "localpro/database/repository/match"
	providerRepo "localpro/database/repository/provider"
	"localpro/handlers"
	"localpro/middleware"
	"localpro/routes"
	"localpro/services/availability"
	"localpro/services/matching"
	"localpro/services/media"
	"localpro/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	mediaResolver, err := media.NewCloudinaryResolver()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize media resolver: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	listings := listingRepo.NewMongoListingRepo()
	categories := categoryRepo.NewMongoCategoryRepo()
	matches := matchRepo.NewMongoMatchRepo()
	providers := providerRepo.NewMongoProviderRepo()
	availabilities := availabilityRepo.NewMongoAvailabilityRepo()

	// services.
	matchingService := &matching.DefaultMatchingService{
		ListingRepo:  listings,
		CategoryRepo: categories,
		MatchRepo:    matches,
		CacheClient:  utils.GetCacheClient(),
	}
	availabilityService := &availability.DefaultAvailabilityService{
		Repo: availabilities,
	}

	matchHandler := handlers.NewMatchHandler(matchingService, providers, mediaResolver, logger)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)

	routes.RegisterRoutes(router, matchHandler, availabilityHandler)

	// Background reconciliation of partially written match requests.
	cron.InitReconcileWorker(matches)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
