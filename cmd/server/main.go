// Package main is the entry point for the ERIO dashboard API server.
//
// The server exposes the public landing-page endpoints (stats, partner map,
// activity feed, visitor counter) and the authenticated admin CRUD surface
// for the External Relations and International Office.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: pure business logic without external dependencies
// - Application: use case orchestration (Commands/Queries/Event handlers)
// - Infrastructure: repositories, caches, external geocoding
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/erio-hub/erio-dashboard/config"
	"github.com/erio-hub/erio-dashboard/internal/application/command"
	"github.com/erio-hub/erio-dashboard/internal/application/eventhandler"
	"github.com/erio-hub/erio-dashboard/internal/application/query"
	"github.com/erio-hub/erio-dashboard/internal/infrastructure/auth"
	"github.com/erio-hub/erio-dashboard/internal/infrastructure/external/geocode"
	"github.com/erio-hub/erio-dashboard/internal/infrastructure/messaging"
	"github.com/erio-hub/erio-dashboard/internal/infrastructure/persistence/postgres"
	"github.com/erio-hub/erio-dashboard/internal/infrastructure/persistence/redis"
	"github.com/erio-hub/erio-dashboard/internal/infrastructure/scheduler"
	"github.com/erio-hub/erio-dashboard/internal/infrastructure/scheduler/jobs"
	httpserver "github.com/erio-hub/erio-dashboard/internal/interface/http"
	"github.com/erio-hub/erio-dashboard/internal/interface/http/handlers"
	"github.com/erio-hub/erio-dashboard/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────

	// A missing .env file is fine; the environment may be set by the host.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	slogLog := setupSlog(cfg)
	appLog := setupAppLogger(cfg)

	slogLog.Info("starting ERIO dashboard server",
		"env", string(cfg.App.Environment),
		"debug", cfg.App.Debug,
		"timezone", cfg.App.Timezone,
		"version", cfg.App.Version,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	slogLog.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		slogLog.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	slogLog.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	slogLog.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		slogLog.Warn("failed to get migration status", "error", err)
	} else {
		appliedCount := 0
		for _, m := range status {
			if m.IsApplied {
				appliedCount++
			}
		}
		slogLog.Info("migrations completed", "applied", appliedCount, "total", len(status))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (view counter + stats payload cache)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var viewTracker *redis.ViewTracker
	var statsCache *redis.StatsCache

	trackViews := cfg.Features.ViewTrackingEnabled(nil)
	cacheStats := cfg.Features.IsEnabled(config.FeatureDashboardCache, nil)

	if !cfg.Redis.Disabled && (trackViews || cacheStats) {
		slogLog.Info("connecting to Redis...")
		redisCache, err = redis.NewCache(redisConfigFrom(cfg.Redis))
		if err != nil {
			slogLog.Warn("failed to connect to Redis, view counter and stats cache disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			if trackViews {
				viewTracker = redis.NewViewTracker(redisCache)
			} else {
				slogLog.Info("view tracking disabled by feature flag")
			}
			if cacheStats {
				statsCache = redis.NewStatsCache(redisCache)
			} else {
				slogLog.Info("stats payload cache disabled by feature flag")
			}
			slogLog.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. EVENT BUS + DISPATCHER
	// ─────────────────────────────────────────────────────────────────────────
	slogLog.Info("initializing event bus...")
	eventBus := messaging.NewEventBus(8, slogLog)
	defer func() {
		slogLog.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	dispatcher := messaging.NewDispatcher(eventBus, messaging.DispatcherConfig{Logger: slogLog})

	var recentChanges *eventhandler.RecentChanges
	if cfg.Features.IsEnabled(config.FeatureAdminChangeFeed, nil) {
		recentChanges = eventhandler.NewRecentChanges(20, appLog)
		for _, t := range eventhandler.EntityChangeEventTypes() {
			if err := dispatcher.Register(t, "recent-changes", recentChanges.Handle); err != nil {
				return fmt.Errorf("failed to register change feed: %w", err)
			}
		}
	} else {
		slogLog.Info("admin change feed disabled by feature flag")
	}

	if statsCache != nil {
		invalidator := eventhandler.NewStatsCacheInvalidator(statsCache, appLog)
		for _, t := range eventhandler.EntityChangeEventTypes() {
			if err := dispatcher.Register(t, "stats-cache-invalidator", invalidator.Handle); err != nil {
				return fmt.Errorf("failed to register cache invalidator: %w", err)
			}
		}
	}

	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	defer func() {
		_ = dispatcher.Stop()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 7. EXTERNAL CLIENTS (Nominatim geocoding)
	// ─────────────────────────────────────────────────────────────────────────
	var geocoder command.Geocoder
	if cfg.Geocoding.Enabled && cfg.Features.GeocodingEnabled(nil) {
		geoConfig := geocode.DefaultClientConfig()
		geoConfig.BaseURL = cfg.Geocoding.BaseURL
		geoConfig.UserAgent = cfg.Geocoding.UserAgent
		geoConfig.Email = cfg.Geocoding.Email
		geoConfig.Timeout = cfg.Geocoding.RequestTimeout
		geoConfig.RateLimiterConfig.RequestsPerSecond = cfg.Geocoding.RateLimit
		geoConfig.RateLimiterConfig.BurstSize = cfg.Geocoding.RateLimitBurst
		geoConfig.Logger = slogLog
		geoConfig.Debug = cfg.App.Debug
		geocoder = geocode.NewClient(geoConfig)
		slogLog.Info("geocoding client initialized", "base_url", cfg.Geocoding.BaseURL)
	} else {
		slogLog.Info("geocoding disabled, partner coordinates must be set manually")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. AUTHENTICATION
	// ─────────────────────────────────────────────────────────────────────────
	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		// Tolerated in development only; config validation rejects this
		// in production.
		jwtSecret = "erio-dev-secret-do-not-use-in-production"
		slogLog.Warn("AUTH_JWT_SECRET not set, using an insecure development secret")
	}

	jwtManager, err := auth.NewJWTManager(jwtSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to create token manager: %w", err)
	}
	passwordVerifier := auth.NewBcryptVerifier()

	// ─────────────────────────────────────────────────────────────────────────
	// 9. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	slogLog.Info("initializing repositories...")
	partnerRepo := postgres.NewPartnerRepository(dbConn)
	activityRepo := postgres.NewActivityRepository(dbConn)
	eventRepo := postgres.NewEventRepository(dbConn)
	mobilityRepo := postgres.NewMobilityRepository(dbConn)
	programmeRepo := postgres.NewProgrammeRepository(dbConn)
	statsRepo := postgres.NewStatsRepository(dbConn)
	adminRepo := postgres.NewAdminRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. APPLICATION LAYER (Queries)
	// ─────────────────────────────────────────────────────────────────────────
	slogLog.Info("initializing application layer...")

	var statsQuery *query.GetDashboardStatsHandler
	if cfg.Features.IsEnabled(config.FeatureDashboardLiveStats, nil) {
		statsQuery = query.NewGetDashboardStatsHandler(
			partnerRepo, eventRepo, programmeRepo, activityRepo, statsRepo, appLog)
	} else {
		// Snapshot-only mode: the dashboard serves the stored figures
		// without deriving from live data.
		slogLog.Info("live stats derivation disabled by feature flag")
		statsQuery = query.NewGetDashboardStatsHandler(nil, nil, nil, nil, statsRepo, appLog)
	}

	var statsReader query.DashboardStatsReader = statsQuery
	if statsCache != nil {
		statsReader = query.NewCachedDashboardStats(statsQuery, statsCache, appLog)
	}

	browsePartnersQuery := query.NewBrowsePartnersHandler(partnerRepo)
	getPartnerQuery := query.NewGetPartnerHandler(partnerRepo)
	listActivitiesQuery := query.NewListActivitiesHandler(activityRepo)
	listEventsQuery := query.NewListEventsHandler(eventRepo)
	listMobilityQuery := query.NewListMobilityHandler(mobilityRepo)
	listProgrammesQuery := query.NewListProgrammesHandler(programmeRepo)
	verifyQuery := query.NewVerifyAdminHandler(adminRepo)

	var viewTotalQuery *query.GetViewTotalHandler
	if viewTracker != nil {
		viewTotalQuery = query.NewGetViewTotalHandler(viewTracker)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. APPLICATION LAYER (Commands)
	// ─────────────────────────────────────────────────────────────────────────
	savePartnerCmd := command.NewSavePartnerHandler(partnerRepo, geocoder, eventBus, appLog)
	deletePartnerCmd := command.NewDeletePartnerHandler(partnerRepo, eventBus, appLog)
	saveActivityCmd := command.NewSaveActivityHandler(activityRepo, eventBus, appLog)
	deleteActivityCmd := command.NewDeleteActivityHandler(activityRepo, eventBus)
	saveEventCmd := command.NewSaveEventHandler(eventRepo, eventBus, appLog)
	deleteEventCmd := command.NewDeleteEventHandler(eventRepo, eventBus)
	saveMobilityCmd := command.NewSaveMobilityHandler(mobilityRepo, eventBus, appLog)
	deleteMobilityCmd := command.NewDeleteMobilityHandler(mobilityRepo, eventBus)
	saveProgrammeCmd := command.NewSaveProgrammeHandler(programmeRepo, eventBus, appLog)
	deleteProgrammeCmd := command.NewDeleteProgrammeHandler(programmeRepo, eventBus)
	updateStatsCmd := command.NewUpdateStatsHandler(statsRepo, eventBus, appLog)
	loginCmd := command.NewLoginAdminHandler(adminRepo, passwordVerifier, jwtManager, eventBus, appLog)

	var recordViewCmd *command.RecordViewHandler
	if viewTracker != nil {
		recordViewCmd = command.NewRecordViewHandler(viewTracker, appLog)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 12. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	healthChecker.AddCheck("database", handlers.NewDatabaseCheck(dbConn))
	if redisCache != nil {
		healthChecker.AddCheck("redis", handlers.NewCacheCheck(redisCache))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 13. BACKGROUND JOBS
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Jobs.Enabled {
		jobScheduler := scheduler.New(cfg.App.Location, slogLog)

		if viewTracker != nil {
			rollupSchedule, err := scheduler.ParseCron(cfg.Jobs.ViewRollupCron)
			if err != nil {
				return fmt.Errorf("invalid JOBS_VIEW_ROLLUP_CRON: %w", err)
			}
			rollupStore := postgres.NewViewRollupRepository(dbConn)
			rollupJob := jobs.NewRollupViewsJob(viewTracker, rollupStore, slogLog)
			if err := jobScheduler.Register(rollupJob, rollupSchedule); err != nil {
				return fmt.Errorf("failed to register rollup job: %w", err)
			}
		}

		if geocoder != nil {
			backfillConfig := jobs.DefaultGeocodeBackfillConfig()
			backfillConfig.MaxPerRun = cfg.Jobs.GeocodeMaxPerRun
			backfillJob := jobs.NewGeocodeBackfillJob(partnerRepo, geocoder, slogLog, backfillConfig)
			if err := jobScheduler.Register(backfillJob, scheduler.NewIntervalSchedule(cfg.Jobs.GeocodeBackfillInterval)); err != nil {
				return fmt.Errorf("failed to register backfill job: %w", err)
			}
		}

		if statsCache != nil {
			warmJob := jobs.NewWarmStatsCacheJob(&statsWarmer{reader: statsReader}, slogLog)
			if err := jobScheduler.Register(warmJob, scheduler.NewIntervalSchedule(cfg.Jobs.WarmStatsInterval)); err != nil {
				return fmt.Errorf("failed to register cache warm job: %w", err)
			}
		}

		if err := jobScheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start job scheduler: %w", err)
		}
		defer func() {
			_ = jobScheduler.Stop()
		}()
		slogLog.Info("job scheduler started")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 14. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	slogLog.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpConfig.TrustedProxies = cfg.HTTP.TrustedProxies

	httpDeps := httpserver.Dependencies{
		GetDashboardStatsHandler: statsReader,
		BrowsePartnersHandler:    browsePartnersQuery,
		GetPartnerHandler:        getPartnerQuery,
		ListActivitiesHandler:    listActivitiesQuery,
		ListEventsHandler:        listEventsQuery,
		ListMobilityHandler:      listMobilityQuery,
		ListProgrammesHandler:    listProgrammesQuery,
		GetViewTotalHandler:      viewTotalQuery,
		VerifyAdminHandler:       verifyQuery,

		SavePartnerHandler:     savePartnerCmd,
		DeletePartnerHandler:   deletePartnerCmd,
		SaveActivityHandler:    saveActivityCmd,
		DeleteActivityHandler:  deleteActivityCmd,
		SaveEventHandler:       saveEventCmd,
		DeleteEventHandler:     deleteEventCmd,
		SaveMobilityHandler:    saveMobilityCmd,
		DeleteMobilityHandler:  deleteMobilityCmd,
		SaveProgrammeHandler:   saveProgrammeCmd,
		DeleteProgrammeHandler: deleteProgrammeCmd,
		UpdateStatsHandler:     updateStatsCmd,
		LoginAdminHandler:      loginCmd,
		RecordViewHandler:      recordViewCmd,

		TokenValidator: &jwtTokenValidator{manager: jwtManager},
		RecentChanges:  recentChanges,
		Logger:         appLog,
		HealthChecker:  healthChecker,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 15. START + GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)

	go func() {
		slogLog.Info("starting HTTP server", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	slogLog.Info("ERIO dashboard server is running", "address", httpServer.Address())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		slogLog.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		slogLog.Error("service error", "error", err)
		return err
	}

	slogLog.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slogLog.Error("failed to stop HTTP server gracefully", "error", err)
		return err
	}

	// Scheduler, dispatcher, event bus, Redis and the database close via defers.

	slogLog.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupSlog configures the structured logger used by infrastructure packages.
func setupSlog(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

// setupAppLogger configures the application-layer logger.
func setupAppLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}

// redisConfigFrom maps the application Redis settings onto the client
// config, favouring REDIS_URL when it is set.
func redisConfigFrom(rc config.RedisConfig) redis.Config {
	cfg := redis.DefaultConfig()
	cfg.Host = rc.Host
	cfg.Port = rc.Port
	cfg.Password = rc.Password
	cfg.DB = rc.DB
	cfg.PoolSize = rc.PoolSize
	cfg.MinIdleConns = rc.MinIdleConns
	cfg.DialTimeout = rc.DialTimeout
	cfg.ReadTimeout = rc.ReadTimeout
	cfg.WriteTimeout = rc.WriteTimeout

	if rc.URL != "" {
		if opts, err := goredis.ParseURL(rc.URL); err == nil {
			if host, port, err := net.SplitHostPort(opts.Addr); err == nil {
				cfg.Host = host
				if p, err := strconv.Atoi(port); err == nil {
					cfg.Port = p
				}
			}
			cfg.Password = opts.Password
			cfg.DB = opts.DB
		}
	}

	return cfg
}

// ══════════════════════════════════════════════════════════════════════════════
// ADAPTERS
// ══════════════════════════════════════════════════════════════════════════════

// statsWarmer adapts the dashboard stats reader to the cache warming job.
type statsWarmer struct {
	reader query.DashboardStatsReader
}

// Warm implements jobs.DashboardWarmer.
func (w *statsWarmer) Warm(ctx context.Context) error {
	_, err := w.reader.Handle(ctx, query.GetDashboardStatsQuery{})
	return err
}

// jwtTokenValidator adapts auth.JWTManager to the HTTP layer's TokenValidator.
type jwtTokenValidator struct {
	manager *auth.JWTManager
}

// ValidateToken implements httpserver.TokenValidator.
func (v *jwtTokenValidator) ValidateToken(token string) (httpserver.AuthClaims, error) {
	claims, err := v.manager.Validate(token)
	if err != nil {
		return httpserver.AuthClaims{}, err
	}
	return httpserver.AuthClaims{
		AdminID: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}, nil
}
