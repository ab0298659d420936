// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/tablebell/restaurant-api/internal/auth"
	"github.com/tablebell/restaurant-api/internal/category"
	categorypostgres "github.com/tablebell/restaurant-api/internal/category/postgres"
	"github.com/tablebell/restaurant-api/internal/config"
	"github.com/tablebell/restaurant-api/internal/dish"
	dishpostgres "github.com/tablebell/restaurant-api/internal/dish/postgres"
	"github.com/tablebell/restaurant-api/internal/graph"
	"github.com/tablebell/restaurant-api/internal/identity"
	identitypostgres "github.com/tablebell/restaurant-api/internal/identity/postgres"
	"github.com/tablebell/restaurant-api/internal/mail"
	"github.com/tablebell/restaurant-api/internal/mail/smtp"
	"github.com/tablebell/restaurant-api/internal/migrate"
	"github.com/tablebell/restaurant-api/internal/pkg/ctxlog"
	"github.com/tablebell/restaurant-api/internal/pkg/httputil"
	"github.com/tablebell/restaurant-api/internal/pkg/metrics"
	"github.com/tablebell/restaurant-api/internal/pkg/postgres"
	"github.com/tablebell/restaurant-api/internal/pkg/redis"
	"github.com/tablebell/restaurant-api/internal/ratelimit"
	"github.com/tablebell/restaurant-api/internal/restaurant"
	restaurantpostgres "github.com/tablebell/restaurant-api/internal/restaurant/postgres"
	"github.com/tablebell/restaurant-api/internal/verification"
	verificationpostgres "github.com/tablebell/restaurant-api/internal/verification/postgres"
	"github.com/tablebell/restaurant-api/internal/version"
)

const dbMetricsInterval = 15 * time.Second

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	db            *pgxpool.Pool
	redis         *goredis.Client
	mail          *mail.Dispatcher
	server        *http.Server
	metricsServer *http.Server
	metricsCancel context.CancelFunc
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log)
	slog.SetDefault(logger)

	if cfg.Database.AutoMigrate {
		if err := migrate.Up(cfg.Database.URL); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer connectCancel()

	db, err := postgres.Connect(connectCtx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	metricsCtx, metricsCancel := context.WithCancel(context.Background())

	app := &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		metricsCancel: metricsCancel,
	}

	go metrics.CollectDBPoolMetrics(metricsCtx, db, dbMetricsInterval)

	router, err := app.setupRouter(connectCtx)
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("setup router: %w", err)
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP servers.
func (a *App) Run() error {
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	// Requests are drained; let queued mail finish before closing the pool.
	if a.mail != nil {
		if err := a.mail.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain mail: %w", err))
		}
	}

	a.closeResources()

	return errors.Join(errs...)
}

func (a *App) closeResources() {
	a.metricsCancel()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis client", "error", err)
		}
	}
	a.db.Close()
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

// DB returns the connection pool. Used by integration tests.
func (a *App) DB() *pgxpool.Pool {
	return a.db
}

func (a *App) setupRouter(ctx context.Context) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)

	// CORS must be early to handle preflight requests before other middleware
	r.Use(httputil.CORSMiddleware(a.config.CORS.AllowedOrigins, auth.TokenHeader))
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger, "/healthz", "/readyz"))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", a.healthzHandler)
	r.Get("/readyz", a.readyzHandler)
	r.Get("/version", a.versionHandler)

	sender, err := smtp.NewSender(smtp.Config{
		Enabled:     a.config.Mail.Enabled,
		Host:        a.config.Mail.SMTPHost,
		Port:        a.config.Mail.SMTPPort,
		User:        a.config.Mail.SMTPUser,
		Password:    a.config.Mail.SMTPPassword,
		FromAddress: a.config.Mail.FromAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("create smtp sender: %w", err)
	}
	if !a.config.Mail.Enabled {
		a.logger.Warn("mail is disabled: verification codes will not be sent")
	}
	a.mail = mail.NewDispatcher(sender, a.config.Mail.SendTimeout, a.logger)

	limiter, err := a.loginLimiter(ctx)
	if err != nil {
		return nil, err
	}

	tx := postgres.NewTxManager(a.db)
	tokens := auth.NewTokenCodec(a.config.JWT.SecretKey, a.config.JWT.TokenTTL)

	identityRepo := identitypostgres.NewRepository(a.db)
	restaurantRepo := restaurantpostgres.NewRepository(a.db)

	verificationService := verification.NewService(verificationpostgres.NewRepository(a.db), a.mail)
	identityService := identity.NewService(identityRepo, tokens, verificationService, limiter)
	categoryService := category.NewService(categorypostgres.NewRepository(a.db), restaurantRepo)
	restaurantService := restaurant.NewService(restaurantRepo, categoryService, tx)
	dishService := dish.NewService(dishpostgres.NewRepository(a.db), restaurantService, tx)

	server, err := graph.NewServer(graph.Services{
		Accounts:      identityService,
		Verifications: verificationService,
		Categories:    categoryService,
		Restaurants:   restaurantService,
		Dishes:        dishService,
	}, auth.NewGate(), a.logger)
	if err != nil {
		return nil, fmt.Errorf("build graphql server: %w", err)
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.NewIdentityResolver(tokens, identityRepo).Middleware)
		graph.NewHandler(server, graph.HandlerConfig{
			MaxBodyBytes: a.config.GraphQL.MaxBodyBytes,
			Playground:   a.config.GraphQL.Playground,
		}).RegisterRoutes(r)
	})

	return r, nil
}

func (a *App) loginLimiter(ctx context.Context) (ratelimit.Limiter, error) {
	cfg := ratelimit.Config{
		Attempts: a.config.LoginLimit.Attempts,
		Window:   a.config.LoginLimit.Window,
	}

	a.logger.Info("login limiter configured",
		"backend", a.config.LoginLimit.Backend,
		"attempts", cfg.Attempts,
		"window", cfg.Window,
	)

	switch a.config.LoginLimit.Backend {
	case "redis":
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     a.config.Redis.Addr,
			Password: a.config.Redis.Password,
			DB:       a.config.Redis.DB,
			Timeout:  a.config.Redis.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		return ratelimit.NewRedis(client, cfg), nil
	case "memory":
		return ratelimit.NewMemory(cfg), nil
	default:
		return ratelimit.Noop{}, nil
	}
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) readyzHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		ctxlog.FromContext(r.Context()).Error("readiness check failed", "error", err)
		httputil.Text(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	if a.redis != nil {
		if err := a.redis.Ping(ctx).Err(); err != nil {
			ctxlog.FromContext(r.Context()).Error("readiness check failed", "error", err)
			httputil.Text(w, http.StatusServiceUnavailable, "Redis unavailable")
			return
		}
	}

	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, version.Info())
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
