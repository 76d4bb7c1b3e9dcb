package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/giftregistry/server/internal/module/auth"
	"github.com/giftregistry/server/internal/module/dashboard"
	"github.com/giftregistry/server/internal/module/gallery"
	"github.com/giftregistry/server/internal/module/gift"
	"github.com/giftregistry/server/internal/module/guestbook"
	"github.com/giftregistry/server/internal/module/payment"
	paymentprovider "github.com/giftregistry/server/internal/module/payment/provider"
	"github.com/giftregistry/server/internal/module/wedding"
	sharedcache "github.com/giftregistry/server/internal/shared/cache"
	"github.com/giftregistry/server/internal/shared/config"
	"github.com/giftregistry/server/internal/shared/database"
	"github.com/giftregistry/server/internal/shared/httpclient"
	"github.com/giftregistry/server/internal/shared/logger"
	"github.com/giftregistry/server/internal/shared/metrics"
	"github.com/giftregistry/server/internal/shared/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the connections the application is built on.
type Deps struct {
	DB     *gorm.DB
	Redis  redis.UniversalClient // optional
	Logger *zap.Logger

	// StripeBackends overrides the Stripe API endpoints; nil uses the live API.
	StripeBackends *stripe.Backends
}

// App represents the application.
type App struct {
	config   *config.Config
	db       *gorm.DB
	redis    redis.UniversalClient
	router   *gin.Engine
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	limiter  ratelimit.Limiter

	stopCleanup context.CancelFunc

	// Modules
	authService      *auth.Service
	authHandler      *auth.Handler
	paymentHandler   *payment.Handler
	webhookHandler   *payment.WebhookHandler
	giftHandler      *gift.Handler
	guestbookHandler *guestbook.Handler
	galleryHandler   *gallery.Handler
	weddingHandler   *wedding.Handler
	dashboardHandler *dashboard.Handler
}

// New creates a new application instance, opening the database and
// the optional Redis connection from configuration.
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	// Redis is optional; without it the limiters run in memory.
	var redisClient redis.UniversalClient
	if cfg.Redis.Address != "" {
		redisClient, err = sharedcache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn("redis connection failed, falling back to in-memory rate limiting",
				zap.String("address", cfg.Redis.Address),
				zap.Error(err),
			)
			redisClient = nil
		}
	}

	return NewWithDeps(cfg, &Deps{DB: db, Redis: redisClient, Logger: log})
}

// NewWithDeps builds the application on already opened connections.
func NewWithDeps(cfg *config.Config, deps *Deps) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := &App{
		config: cfg,
		db:     deps.DB,
		redis:  deps.Redis,
		logger: log,
	}

	if err := database.Migrate(app.db, models()...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	app.initMetrics()
	app.initLimiter()

	if err := app.initModules(deps); err != nil {
		return nil, fmt.Errorf("init modules: %w", err)
	}

	app.router = app.setupRouter()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.authService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapEmail, cfg.Auth.BootstrapPassword); err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	return app, nil
}

func models() []any {
	var all []any
	all = append(all, payment.Models()...)
	all = append(all, gift.Models()...)
	all = append(all, guestbook.Models()...)
	all = append(all, gallery.Models()...)
	all = append(all, wedding.Models()...)
	all = append(all, auth.Models()...)
	return all
}

func (a *App) initMetrics() {
	if !a.config.Metrics.Enabled {
		return
	}
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(a.config.Metrics.Namespace, a.registry)
}

func (a *App) initLimiter() {
	if a.redis != nil {
		a.limiter = ratelimit.NewRedisLimiter(a.redis)
		return
	}

	mem := ratelimit.NewMemoryLimiter()
	ctx, cancel := context.WithCancel(context.Background())
	mem.StartCleanup(ctx, time.Minute)
	a.stopCleanup = cancel
	a.limiter = mem
}

// initModules initializes all application modules.
func (a *App) initModules(deps *Deps) error {
	a.initAuthModule()
	a.initPaymentModule(deps.StripeBackends)

	giftService := gift.NewService(gift.NewRepository(a.db), a.logger)
	a.giftHandler = gift.NewHandler(giftService)

	a.guestbookHandler = guestbook.NewHandler(guestbook.NewService(guestbook.NewRepository(a.db), a.logger))
	a.galleryHandler = gallery.NewHandler(gallery.NewService(gallery.NewRepository(a.db), a.logger))

	if err := a.initWeddingModule(); err != nil {
		return fmt.Errorf("init wedding module: %w", err)
	}

	if err := a.initDashboardModule(giftService); err != nil {
		return fmt.Errorf("init dashboard module: %w", err)
	}

	return nil
}

func (a *App) initAuthModule() {
	jwtConfig := auth.DefaultJWTConfig()
	jwtConfig.Secret = a.config.Auth.JWTSecret
	if a.config.Auth.AccessTokenExpiry > 0 {
		jwtConfig.AccessTokenExpiry = a.config.Auth.AccessTokenExpiry
	}

	a.authService = auth.NewService(
		auth.NewRepository(a.db),
		auth.NewJWTManager(jwtConfig),
		a.limiter,
		&auth.Config{
			LoginMaxAttempts: a.config.Auth.LoginMaxAttempts,
			LoginWindow:      a.config.Auth.LoginWindow,
		},
		a.metrics,
		a.logger.Named("auth"),
	)
	a.authHandler = auth.NewHandler(a.authService)
}

func (a *App) initPaymentModule(backends *stripe.Backends) {
	cfg := a.config.Stripe
	if cfg.SecretKey == "" {
		a.logger.Warn("stripe secret key not configured, checkout requests will fail")
	}
	if cfg.WebhookSecret == "" {
		a.logger.Warn("stripe webhook secret not configured, webhook events will be rejected")
	}

	repo := payment.NewRepository(a.db)
	provider := paymentprovider.NewStripeProvider(&paymentprovider.StripeConfig{
		APIKey:                  cfg.SecretKey,
		Backends:                backends,
		HTTPClient:              httpclient.New(a.config.HTTPClient),
		BreakerFailureThreshold: cfg.BreakerFailureThreshold,
		BreakerTimeout:          cfg.BreakerTimeout,
	})

	log := a.logger.Named("payment")
	service := payment.NewService(repo, provider, &payment.Config{
		Currency:           cfg.Currency,
		ProductName:        cfg.ProductName,
		ProductDescription: cfg.ProductDescription,
		DefaultOrigin:      a.config.Server.PublicOrigin,
	}, a.metrics, log)

	reconciler := payment.NewReconciler(repo, cfg.WebhookSecret, a.metrics, log)

	a.paymentHandler = payment.NewHandler(service)
	a.webhookHandler = payment.NewWebhookHandler(reconciler, repo, a.metrics, log)
}

func (a *App) initWeddingModule() error {
	crypto, err := wedding.NewCryptoManager(a.config.Security.EncryptionKey)
	if err != nil {
		return err
	}
	service := wedding.NewService(wedding.NewRepository(a.db), crypto, a.logger)
	a.weddingHandler = wedding.NewHandler(service)
	return nil
}

func (a *App) initDashboardModule(products dashboard.ProductLookup) error {
	cfg := dashboard.DefaultConfig()
	if a.config.Dashboard.TopGifts > 0 {
		cfg.TopGifts = a.config.Dashboard.TopGifts
	}
	if a.config.Dashboard.RecentLimit > 0 {
		cfg.RecentLimit = a.config.Dashboard.RecentLimit
	}
	if tz := a.config.Dashboard.Timezone; tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("load timezone %q: %w", tz, err)
		}
		cfg.Location = loc
	}

	var cache *dashboard.SummaryCache
	if a.redis != nil && a.config.Dashboard.CacheTTL > 0 {
		cache = dashboard.NewSummaryCache(a.redis, a.config.Dashboard.CacheTTL)
	}

	service := dashboard.NewService(dashboard.NewRepository(a.db), products, cache, cfg, a.logger)
	a.dashboardHandler = dashboard.NewHandler(service)
	return nil
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Stop releases background workers and connections.
func (a *App) Stop() {
	if a.stopCleanup != nil {
		a.stopCleanup()
	}
	if a.redis != nil {
		if err := sharedcache.Close(a.redis); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Warn("close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
