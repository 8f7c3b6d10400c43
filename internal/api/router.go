// Package api wires together all HTTP routes for the reference-data registry.
//
// All entity routes live under /api/v1/. The health endpoint sits at the root
// so load balancers can probe it without the /api prefix. Prometheus metrics
// are NOT served here; they live on a dedicated side-channel port started by
// cmd/server so the scrape path stays off the public ingress and outside the
// rate limiter.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/geodata-registry/geodata-registry/internal/cache"
	"github.com/geodata-registry/geodata-registry/internal/config"
	"github.com/geodata-registry/geodata-registry/internal/middleware"
	"github.com/geodata-registry/geodata-registry/internal/services"
)

// Resources holds references that must be released during graceful shutdown.
// The caller (cmd/server) calls Shutdown after the HTTP server has drained.
type Resources struct {
	rateLimiter     *middleware.RateLimiter
	mutationLimiter *middleware.RateLimiter
}

// Shutdown stops background goroutines owned by the router
func (r *Resources) Shutdown() {
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}
	if r.mutationLimiter != nil {
		r.mutationLimiter.Stop()
	}
}

// SetupRouter constructs the Gin engine with all middleware and routes
func SetupRouter(cfg *config.Config, db *sqlx.DB, c *cache.Cache) (*gin.Engine, *Resources) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))

	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())
	router.Use(middleware.RateLimitMiddleware(limiter))

	// Writes get a tighter budget than reads. The route-level middleware runs
	// after the global limiter, so a mutation draws from both buckets.
	mutationLimiter := middleware.NewRateLimiter(middleware.MutationRateLimitConfig())
	mutationLimit := middleware.RateLimitMiddleware(mutationLimiter)

	countrySvc := services.NewCountryService(db, c)
	stateSvc := services.NewStateService(db, c)
	citySvc := services.NewCityService(db, c)

	countryHandlers := NewCountryHandlers(countrySvc, stateSvc)
	stateHandlers := NewStateHandlers(stateSvc, citySvc)
	cityHandlers := NewCityHandlers(citySvc)
	eventLogHandlers := NewEventLogHandlers(db)

	router.GET("/health", healthCheckHandler(db))

	v1 := router.Group("/api/v1")
	{
		countries := v1.Group("/countries")
		{
			countries.POST("", mutationLimit, countryHandlers.CreateCountryHandler())
			countries.GET("", countryHandlers.ListCountriesHandler())
			countries.GET("/:id", countryHandlers.GetCountryHandler())
			countries.PUT("/:id", mutationLimit, countryHandlers.UpdateCountryHandler())
			countries.DELETE("/:id", mutationLimit, countryHandlers.DeleteCountryHandler())
			countries.GET("/:id/states", countryHandlers.ListCountryStatesHandler())
		}

		states := v1.Group("/states")
		{
			states.POST("", mutationLimit, stateHandlers.CreateStateHandler())
			states.GET("", stateHandlers.ListStatesHandler())
			states.GET("/:id", stateHandlers.GetStateHandler())
			states.PUT("/:id", mutationLimit, stateHandlers.UpdateStateHandler())
			states.DELETE("/:id", mutationLimit, stateHandlers.DeleteStateHandler())
			states.GET("/:id/cities", stateHandlers.ListStateCitiesHandler())
		}

		cities := v1.Group("/cities")
		{
			cities.POST("", mutationLimit, cityHandlers.CreateCityHandler())
			cities.GET("", cityHandlers.ListCitiesHandler())
			cities.GET("/:id", cityHandlers.GetCityHandler())
			cities.PUT("/:id", mutationLimit, cityHandlers.UpdateCityHandler())
			cities.DELETE("/:id", mutationLimit, cityHandlers.DeleteCityHandler())
		}

		eventLogs := v1.Group("/event-logs")
		{
			eventLogs.GET("", eventLogHandlers.ListEventLogsHandler())
			eventLogs.GET("/:id", eventLogHandlers.GetEventLogHandler())
		}
	}

	return router, &Resources{rateLimiter: limiter, mutationLimiter: mutationLimiter}
}

// @Summary      Health check
// @Description  Returns the health status of the service, including database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status: healthy, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "status: unhealthy, error: database connection failed"
// @Router       /health [get]
// healthCheckHandler returns the health status of the service
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
