package repositories

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"smartlink/internal/cache"
	"smartlink/internal/models"
)

// cachedSongLinkRepository wraps a SongLinkRepository with read-through caching
type cachedSongLinkRepository struct {
	repository SongLinkRepository
	cache      cache.Cache
}

// NewCachedSongLinkRepository creates a new cached song link repository
func NewCachedSongLinkRepository(repository SongLinkRepository, cache cache.Cache) SongLinkRepository {
	return &cachedSongLinkRepository{
		repository: repository,
		cache:      cache,
	}
}

// Cache key generators
func songLinkSlugKey(slug string) string { return "songlink:slug:" + slug }

const songLinkListKey = "songlink:list"

// Cache TTL constants
const (
	songLinkCacheTTL = 1 * time.Hour
	listCacheTTL     = 1 * time.Minute
	negativeCacheTTL = 30 * time.Second // unknown slugs are cheap to re-check
)

// Save writes through and invalidates cached entries
func (r *cachedSongLinkRepository) Save(ctx context.Context, song *models.SongLink) error {
	if err := r.repository.Save(ctx, song); err != nil {
		return err
	}

	r.cache.Delete(ctx, songLinkSlugKey(song.Slug))
	r.cache.Delete(ctx, songLinkListKey)
	return nil
}

// FindBySlug checks cache first, then repository
func (r *cachedSongLinkRepository) FindBySlug(ctx context.Context, slug string) (*models.SongLink, error) {
	cacheKey := songLinkSlugKey(slug)

	if data, err := r.cache.Get(ctx, cacheKey); err == nil && data != nil {
		// Negative cache marker
		if string(data) == "null" {
			return nil, nil
		}
		var song models.SongLink
		if err := json.Unmarshal(data, &song); err == nil {
			return &song, nil
		}
		slog.Error("Failed to unmarshal song link from cache", "key", cacheKey)
		r.cache.Delete(ctx, cacheKey)
	} else if err != nil {
		slog.Warn("Song link cache read failed", "key", cacheKey, "error", err)
	}

	song, err := r.repository.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	r.cacheResult(ctx, cacheKey, song)
	return song, nil
}

// List caches the full listing briefly
func (r *cachedSongLinkRepository) List(ctx context.Context) ([]*models.SongLink, error) {
	if data, err := r.cache.Get(ctx, songLinkListKey); err == nil && data != nil {
		var songs []*models.SongLink
		if err := json.Unmarshal(data, &songs); err == nil {
			return songs, nil
		}
		r.cache.Delete(ctx, songLinkListKey)
	}

	songs, err := r.repository.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(songs); err == nil {
		if err := r.cache.Set(ctx, songLinkListKey, data, listCacheTTL); err != nil {
			slog.Error("Failed to cache song link list", "error", err)
		}
	}
	return songs, nil
}

// Count - not cached
func (r *cachedSongLinkRepository) Count(ctx context.Context) (int64, error) {
	return r.repository.Count(ctx)
}

// cacheResult caches a single lookup, including misses
func (r *cachedSongLinkRepository) cacheResult(ctx context.Context, key string, song *models.SongLink) {
	data := []byte("null")
	ttl := negativeCacheTTL

	if song != nil {
		var err error
		data, err = json.Marshal(song)
		if err != nil {
			slog.Error("Failed to marshal song link for cache", "key", key, "error", err)
			return
		}
		ttl = songLinkCacheTTL
	}

	if err := r.cache.Set(ctx, key, data, ttl); err != nil {
		slog.Error("Failed to cache song link", "key", key, "error", err)
	}
}
