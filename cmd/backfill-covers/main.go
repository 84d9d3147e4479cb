package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"smartlink/internal/cache"
	"smartlink/internal/config"
	"smartlink/internal/models"
	"smartlink/internal/repositories"
	"smartlink/internal/services"
)

func main() {
	limit := flag.Int("limit", 0, "maximum number of songs to process (0 for all)")
	flag.Parse()

	// Load .env file for local development
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.PersistentStorage() {
		slog.Error("MONGODB_URL is required; the memory store has nothing to backfill")
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := models.NewDatabase(ctx, cfg.MongodbURL, cfg.MongodbDatabase)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close(ctx)

	// Lookups are one-off, so an in-process cache is enough
	metadataCache := cache.NewMemoryCache(cfg.CacheMaxItems)
	defer metadataCache.Close()

	var fetchers []services.MetadataFetcher
	if cfg.SpotifyAPIEnabled() {
		fetchers = append(fetchers, services.NewSpotifyAPIService(
			cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.MetadataTimeout, cfg.MetadataRetryCount))
	}
	fetchers = append(fetchers, services.NewOEmbedService(cfg.OEmbedURL, cfg.MetadataTimeout, cfg.MetadataRetryCount))
	fetcher := services.NewCachedMetadataFetcher(services.NewFallbackFetcher(fetchers...), metadataCache, cfg.MetadataCacheTTL)

	songRepo := repositories.NewMongoSongLinkRepository(db)
	if cfg.ValkeyURL != "" {
		// Saves go through the cached repository so the server never serves a stale record
		valkey, err := cache.NewValkeyCache(cfg.ValkeyURL)
		if err != nil {
			slog.Error("Failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkey.Close()
		songRepo = repositories.NewCachedSongLinkRepository(songRepo, valkey)
	}

	var opts []services.SongLinkServiceOption
	if cfg.AccentColors {
		opts = append(opts, services.WithAccentColors(services.NewCoverColorService(cfg.MetadataTimeout)))
	}
	service := services.NewSongLinkService(songRepo, repositories.NewMongoProfileLinkRepository(db), fetcher, services.CollisionOverwrite, opts...)

	slog.Info("Starting cover backfill", "limit", *limit, "source", fetcher.Name())

	result, err := service.BackfillCovers(ctx, *limit)
	if err != nil {
		slog.Error("Cover backfill failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Cover backfill completed",
		"processed", result.Processed,
		"updated", result.Updated,
		"failed", result.Failed)

	fmt.Println("Backfill process completed!")
	fmt.Printf("Processed: %d songs\n", result.Processed)
	fmt.Printf("Updated: %d songs\n", result.Updated)
	fmt.Printf("Failed: %d songs\n", result.Failed)
}
