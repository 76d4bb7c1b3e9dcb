package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/giftregistry/server/internal/module/auth"
	"github.com/giftregistry/server/internal/shared/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if a.metrics != nil {
		r.Use(middleware.Metrics(a.metrics))
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	}

	r.GET("/health", a.health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	// Stripe posts here with the raw signed body.
	a.webhookHandler.RegisterRoutes(r.Group("/webhooks"))

	a.registerRoutes(r.Group("/api/v1"))

	return r
}

func (a *App) registerRoutes(api *gin.RouterGroup) {
	rl := a.config.RateLimit
	checkoutLimit := middleware.WritesOnly(middleware.RateLimitByEndpoint(a.limiter, rl.CheckoutRequests, rl.CheckoutWindow))
	guestLimit := middleware.WritesOnly(middleware.RateLimitByEndpoint(a.limiter, rl.GuestRequests, rl.GuestWindow))

	// Public
	checkoutIdempotency := middleware.Idempotency(a.redis, a.config.Stripe.CheckoutIdempotencyTTL)
	a.paymentHandler.RegisterRoutes(api.Group("", auth.OptionalAdmin(a.authService), checkoutLimit, checkoutIdempotency))
	a.giftHandler.RegisterRoutes(api)
	a.weddingHandler.RegisterRoutes(api)

	guests := api.Group("", guestLimit)
	a.guestbookHandler.RegisterRoutes(guests)
	a.galleryHandler.RegisterRoutes(guests)

	// Admin
	admin := api.Group("/admin")
	a.authHandler.RegisterRoutes(admin)

	protected := admin.Group("", auth.RequireAdmin(a.authService))
	a.authHandler.RegisterProtectedRoutes(protected)
	a.paymentHandler.RegisterAdminRoutes(protected)
	a.giftHandler.RegisterAdminRoutes(protected)
	a.guestbookHandler.RegisterAdminRoutes(protected)
	a.galleryHandler.RegisterAdminRoutes(protected)
	a.weddingHandler.RegisterAdminRoutes(protected)
	a.dashboardHandler.RegisterAdminRoutes(protected)
}

// health reports whether the database is reachable.
func (a *App) health(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		a.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
