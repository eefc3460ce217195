// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	_ "quickshow/docs"
	"quickshow/internal/analytics"
	"quickshow/internal/auth"
	"quickshow/internal/bookings"
	"quickshow/internal/movies"
	"quickshow/internal/notifications"
	"quickshow/internal/payments"
	"quickshow/internal/scheduler"
	"quickshow/internal/seats"
	"quickshow/internal/shared/config"
	"quickshow/internal/shared/database"
	"quickshow/internal/shows"
	"quickshow/internal/users"
	"quickshow/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB

	cacheService cache.Service
	gateway      payments.Gateway
	processor    *scheduler.JobProcessor

	movieService     movies.Service
	showService      shows.Service
	seatService      seats.Service
	bookingService   bookings.Service
	userService      users.Service
	analyticsService analytics.Service
}

// NewRouter wires every service against the shared connections. The
// notification producer falls back to logging when no broker is configured.
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.NotificationProducer) *Router {
	r := &Router{
		config:       cfg,
		db:           db,
		cacheService: cache.NewService(db.GetRedisClient()),
		gateway:      payments.NewStripeGateway(cfg.Stripe),
	}

	pg := db.GetPostgreSQL()
	usersRepo := users.NewRepository(pg)
	publisher := notifications.NewNotificationPublisher(producer, auth.NewUserServiceAdapter(usersRepo))

	catalog := movies.NewCatalogClient(cfg.Catalog, r.cacheService)
	r.movieService = movies.NewService(movies.NewRepository(pg), catalog)

	showsRepo := shows.NewRepository(pg)
	r.showService = shows.NewService(showsRepo, r.movieService, publisher)
	r.seatService = seats.NewService(showsRepo)

	timers := scheduler.NewRedisStore(db.GetRedisClient(), cfg.Scheduler.KeyPrefix)
	r.processor = scheduler.NewJobProcessor(timers, &scheduler.JobConfig{
		PollInterval: cfg.Scheduler.PollInterval,
		BatchSize:    cfg.Scheduler.BatchSize,
	})

	r.bookingService = bookings.NewService(
		bookings.NewRepository(pg),
		r.seatService,
		r.showService,
		r.gateway,
		timers,
		publisher,
		r.cacheService,
		cfg.Booking,
	)
	r.processor.Register(bookings.ReleaseJobKind, r.bookingService.HandleReleaseJob)

	r.userService = users.NewService(usersRepo, users.NewRedisFavorites(db.GetRedisClient()), r.movieService)
	r.analyticsService = analytics.NewService(analytics.NewRepository(pg), r.showService, r.bookingService, r.cacheService)

	return r
}

// Processor exposes the release timer loop so main can start and stop it
func (r *Router) Processor() *scheduler.JobProcessor {
	return r.processor
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupWebhookRoutes(api)
		r.setupCatalogRoutes(api)
		r.setupBookingRoutes(api)
		r.setupUserRoutes(api)
		r.setupAdminRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "quickshow-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "quickshow-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "operational",
			"api_version":   r.config.APIVersion,
			"timestamp":     time.Now(),
			"release_queue": r.processor.GetJobStatus(c.Request.Context()),
		})
	})
}

// setupWebhookRoutes mounts the payment and identity provider callbacks.
// Both verify their own signatures and carry no bearer token.
func (r *Router) setupWebhookRoutes(rg *gin.RouterGroup) {
	webhookController := payments.NewWebhookController(r.gateway, r.bookingService, r.config.Stripe.WebhookSecret)
	payments.SetupWebhookRoutes(rg, webhookController)

	authService := auth.NewService(r.config.Auth.WebhookSecret, r.userService)
	authRouter := auth.NewRouter(auth.NewController(authService))
	authRouter.SetupRoutes(rg)
}

// setupCatalogRoutes configures movie and show browsing plus show creation
func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	movies.SetupMovieRoutes(rg, movies.NewController(r.movieService))
	shows.SetupShowRoutes(rg, shows.NewController(r.showService))
}

// setupBookingRoutes configures seat lookup and booking creation
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	seats.SetupSeatRoutes(rg, seats.NewController(r.seatService))
	bookings.SetupBookingRoutes(rg, bookings.NewController(r.bookingService))
}

// setupUserRoutes configures favorites
func (r *Router) setupUserRoutes(rg *gin.RouterGroup) {
	users.SetupUserRoutes(rg, users.NewController(r.userService))
}

// setupAdminRoutes configures the admin dashboard
func (r *Router) setupAdminRoutes(rg *gin.RouterGroup) {
	analytics.SetupAnalyticsRoutes(rg, analytics.NewController(r.analyticsService))
}
