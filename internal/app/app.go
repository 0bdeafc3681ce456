package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/catalog"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/config"
	handler "github.com/ridwaanalimubasheer/Rapid-Volt/internal/handler/http"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/mailer"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/mailer/emailjs"
	mockmailer "github.com/ridwaanalimubasheer/Rapid-Volt/internal/mailer/mock"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/matcher"
	redisrepo "github.com/ridwaanalimubasheer/Rapid-Volt/internal/repository/redis"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/service"
	"github.com/ridwaanalimubasheer/Rapid-Volt/pkg/health"
	"github.com/ridwaanalimubasheer/Rapid-Volt/pkg/httpclient"
	"github.com/ridwaanalimubasheer/Rapid-Volt/pkg/middleware"
	"github.com/ridwaanalimubasheer/Rapid-Volt/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	chatService     *service.ChatService
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Tracing.
	traceCfg := tracing.DefaultConfig("storefront")
	traceCfg.Environment = cfg.Environment
	traceCfg.OTLPEndpoint = cfg.OTLPEndpoint
	traceCfg.SampleRate = cfg.TraceSampleRate
	traceCfg.Enabled = cfg.TracingEnabled
	tracingShutdown, err := tracing.InitTracer(ctx, traceCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Catalog and matcher.
	cat := catalog.Load(cfg.CatalogPath, logger)
	m := matcher.New(cfg.MatchThreshold)

	// Mailer: EmailJS when an account is configured, logged mock otherwise.
	var mail mailer.Mailer
	if cfg.EmailJSConfigured() {
		httpClient := httpclient.New(httpclient.DefaultConfig())
		cbClient := httpclient.NewCircuitBreakerClient(
			httpClient,
			httpclient.DefaultCircuitBreakerConfig("emailjs"),
			logger,
		)
		mail = emailjs.New(cbClient, emailjs.Config{
			BaseURL:    cfg.EmailJSBaseURL,
			ServiceID:  cfg.EmailJSServiceID,
			TemplateID: cfg.EmailJSTemplateID,
			PublicKey:  cfg.EmailJSPublicKey,
		}, logger)
	} else {
		logger.Warn("no EmailJS account configured, using mock mailer")
		mail = mockmailer.NewMockMailer(logger)
	}

	// Build the dependency graph.
	cartTTL := time.Duration(cfg.CartTTL) * time.Hour
	repo := redisrepo.NewCartRepository(rdb, cartTTL)
	notifier := service.NewLogNotifier(logger)
	cartService := service.NewCartService(repo, cat, notifier, logger)
	chatService := service.NewChatService(cat, m, mail, logger, cfg.ChatIdleTimeout(), cfg.OrderRecipient)
	checkoutService := service.NewCheckoutService(cartService, chatService, mail, logger, cfg.OrderRecipient)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	// HTTP router.
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(handler.RouterDeps{
		Catalog:         cat,
		Matcher:         m,
		CartService:     cartService,
		ChatService:     chatService,
		CheckoutService: checkoutService,
		HealthHandler:   healthHandler,
		Logger:          logger,
		CORS:            corsCfg,
		PprofCIDRs:      cfg.PprofAllowedCIDRs,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		chatService:     chatService,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Stop pending chat idle timers.
	a.chatService.Close()

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
