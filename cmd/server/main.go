package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"smartlink/internal/cache"
	"smartlink/internal/config"
	"smartlink/internal/handlers"
	"smartlink/internal/handlers/render"
	"smartlink/internal/models"
	"smartlink/internal/repositories"
	"smartlink/internal/services"
	"smartlink/internal/templates"
)

const profileWatchInterval = 5 * time.Second

// storage bundles the selected backends so main can close them on shutdown
type storage struct {
	db          *models.Database
	cache       cache.Cache
	songRepo    repositories.SongLinkRepository
	profileRepo repositories.ProfileLinkRepository
}

func (s *storage) Close(ctx context.Context) {
	if err := s.cache.Close(); err != nil {
		slog.Warn("Failed to close cache", "error", err)
	}
	if s.db != nil {
		if err := s.db.Close(ctx); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}
}

func (s *storage) healthChecks() map[string]handlers.HealthChecker {
	checks := map[string]handlers.HealthChecker{"cache": s.cache}
	if s.db != nil {
		checks["database"] = s.db
	}
	return checks
}

func main() {
	// Load .env file for local development
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	if err := templates.Preload(); err != nil {
		slog.Error("Failed to parse templates", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	profile := config.GetProfileConfig()
	config.StartProfileConfigWatcher(ctx, profileWatchInterval)

	store, err := openStorage(ctx, cfg, profile)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())

	fetcher := newMetadataFetcher(cfg, store.cache)

	collision := services.CollisionOverwrite
	if cfg.SlugCollision == config.SlugCollisionReject {
		collision = services.CollisionReject
	}
	var opts []services.SongLinkServiceOption
	if cfg.AccentColors {
		opts = append(opts, services.WithAccentColors(services.NewCoverColorService(cfg.MetadataTimeout)))
	}
	service := services.NewSongLinkService(store.songRepo, store.profileRepo, fetcher, collision, opts...)

	if !cfg.AdminAuthEnabled() {
		slog.Warn("ADMIN_JWT_SECRET is not set; admin routes are unauthenticated")
	}

	renderer := render.NewSongRenderer(handlers.GetPlatformUIConfig, handlers.GetPlatformCSS())
	router := handlers.NewRouter(handlers.Handlers{
		Songs:       handlers.NewSongLinkHandler(service, renderer, cfg),
		Profile:     handlers.NewProfileHandler(service, renderer, cfg.BaseURL, config.GetProfileConfig),
		Admin:       handlers.NewAdminHandler(service, store.db, cfg.BaseURL),
		Health:      handlers.NewHealthHandler(store.healthChecks()),
		AdminSecret: cfg.AdminJWTSecret,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting",
			"port", cfg.Port,
			"redirectMode", cfg.RedirectMode,
			"metadataSource", fetcher.Name(),
			"persistent", store.db != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	slog.Info("Server stopped")
}

// openStorage picks MongoDB when MONGODB_URL is set and the memory store otherwise
func openStorage(ctx context.Context, cfg *config.Config, profile *config.ProfileConfig) (*storage, error) {
	seed := profileLinks(profile)

	if !cfg.PersistentStorage() {
		slog.Warn("MONGODB_URL is not set; song links are kept in memory and lost on restart")
		c := cache.NewMemoryCache(cfg.CacheMaxItems)
		return &storage{
			cache:       c,
			songRepo:    repositories.NewMemorySongLinkRepository(),
			profileRepo: repositories.NewMemoryProfileLinkRepository(seed),
		}, nil
	}

	db, err := models.NewDatabase(ctx, cfg.MongodbURL, cfg.MongodbDatabase)
	if err != nil {
		return nil, err
	}
	if err := db.CreateIndexes(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}

	var c cache.Cache
	if cfg.ValkeyURL != "" {
		c, err = cache.NewMultiLevelCache(cfg.ValkeyURL, cfg.CacheMaxItems)
		if err != nil {
			db.Close(ctx)
			return nil, err
		}
	} else {
		c = cache.NewMemoryCache(cfg.CacheMaxItems)
	}

	profileRepo := repositories.NewMongoProfileLinkRepository(db)
	if existing, err := profileRepo.GetLinks(ctx); err == nil && len(existing) == 0 && len(seed) > 0 {
		if err := profileRepo.ReplaceLinks(ctx, seed); err != nil {
			slog.Warn("Failed to seed profile links", "error", err)
		}
	}

	return &storage{
		db:          db,
		cache:       c,
		songRepo:    repositories.NewCachedSongLinkRepository(repositories.NewMongoSongLinkRepository(db), c),
		profileRepo: profileRepo,
	}, nil
}

// newMetadataFetcher prefers the Web API when credentials exist and falls back to oEmbed
func newMetadataFetcher(cfg *config.Config, c cache.Cache) services.MetadataFetcher {
	var fetchers []services.MetadataFetcher
	if cfg.SpotifyAPIEnabled() {
		fetchers = append(fetchers, services.NewSpotifyAPIService(
			cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.MetadataTimeout, cfg.MetadataRetryCount))
	}
	fetchers = append(fetchers, services.NewOEmbedService(cfg.OEmbedURL, cfg.MetadataTimeout, cfg.MetadataRetryCount))

	return services.NewCachedMetadataFetcher(services.NewFallbackFetcher(fetchers...), c, cfg.MetadataCacheTTL)
}

func profileLinks(profile *config.ProfileConfig) []models.ProfileLink {
	links := make([]models.ProfileLink, 0, len(profile.Links))
	for _, link := range profile.Links {
		links = append(links, models.ProfileLink{Label: link.Label, URL: link.URL})
	}
	return links
}
