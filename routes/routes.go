package routes

import (
	"net/http"
	"time"

	"localpro/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterMatchRoutes registers the discovery endpoints.
func RegisterMatchRoutes(r *gin.Engine, mh *handlers.MatchHandler) {
	api := r.Group("/api/match")
	{
		api.POST("", mh.CreateMatchHandler)
		api.GET("/:id", mh.GetMatchHandler)
	}
}

// RegisterListingRoutes registers listing search and the listing-scoped
// availability endpoints.
func RegisterListingRoutes(r *gin.Engine, mh *handlers.MatchHandler, ah *handlers.AvailabilityHandler) {
	api := r.Group("/api/listings")
	{
		api.POST("/search", mh.SearchListingsHandler)

		api.POST("/:listingId/availability", ah.CreateAvailabilityHandler)
		api.GET("/:listingId/availability/available-on", ah.AvailableOnHandler)
		api.GET("/:listingId/availability/check", ah.CheckAvailabilityHandler)
		api.POST("/:listingId/availability/block-dates", ah.BlockDatesHandler)
	}

	avail := r.Group("/api/availability")
	{
		avail.PATCH("/:id", ah.UpdateAvailabilityHandler)
		avail.DELETE("/:id", ah.DeleteAvailabilityHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Localpro"})
	})
}

// RegisterRoutes wires up middleware-independent route groups.
func RegisterRoutes(r *gin.Engine, mh *handlers.MatchHandler, ah *handlers.AvailabilityHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterMatchRoutes(r, mh)
	RegisterListingRoutes(r, mh, ah)
}
