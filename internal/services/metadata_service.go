package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"

	"smartlink/internal/cache"
)

// TrackMetadata is the track information needed to build a song link
type TrackMetadata struct {
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
	Cover  string `json:"cover,omitempty"`
}

// MetadataFetcher resolves a Spotify track URL into display metadata
type MetadataFetcher interface {
	// Name identifies the source in logs
	Name() string

	FetchTrackMetadata(ctx context.Context, spotifyURL string) (*TrackMetadata, error)
}

// DefaultOEmbedURL is Spotify's public oEmbed endpoint
const DefaultOEmbedURL = "https://open.spotify.com/oembed"

// oEmbedService fetches track metadata from the public oEmbed endpoint (no auth)
type oEmbedService struct {
	client   *resty.Client
	endpoint string
}

// oEmbedResponse is the subset of the oEmbed payload we use
type oEmbedResponse struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
	ProviderName string `json:"provider_name"`
}

// NewOEmbedService creates an oEmbed-backed metadata fetcher
func NewOEmbedService(endpoint string, timeout time.Duration, retryCount int) MetadataFetcher {
	if endpoint == "" {
		endpoint = DefaultOEmbedURL
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError || r.StatusCode() == http.StatusTooManyRequests
		})

	return &oEmbedService{
		client:   client,
		endpoint: endpoint,
	}
}

// Name returns the source name
func (s *oEmbedService) Name() string {
	return "spotify_oembed"
}

// FetchTrackMetadata calls the oEmbed endpoint for the track URL
func (s *oEmbedService) FetchTrackMetadata(ctx context.Context, spotifyURL string) (*TrackMetadata, error) {
	trackID, err := ParseSpotifyTrackID(spotifyURL)
	if err != nil {
		return nil, err
	}
	trackURL := CanonicalSpotifyTrackURL(trackID)

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("url", trackURL).
		SetHeader("Accept", "application/json").
		Get(s.endpoint)

	if err != nil {
		return nil, &PlatformError{
			Platform:  "spotify",
			Operation: "oembed",
			Message:   "request failed",
			URL:       trackURL,
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &PlatformError{
			Platform:   "spotify",
			Operation:  "oembed",
			Message:    fmt.Sprintf("endpoint returned status %d", resp.StatusCode()),
			URL:        trackURL,
			StatusCode: resp.StatusCode(),
		}
	}

	var embed oEmbedResponse
	if err := json.Unmarshal(resp.Body(), &embed); err != nil {
		return nil, &PlatformError{
			Platform:  "spotify",
			Operation: "oembed",
			Message:   "invalid response body",
			URL:       trackURL,
			Err:       err,
		}
	}

	return &TrackMetadata{
		Title: strings.TrimSpace(embed.Title),
		Cover: embed.ThumbnailURL,
	}, nil
}

// fallbackFetcher tries each fetcher in order until one succeeds
type fallbackFetcher struct {
	fetchers []MetadataFetcher
}

// NewFallbackFetcher chains fetchers; the first success wins
func NewFallbackFetcher(fetchers ...MetadataFetcher) MetadataFetcher {
	if len(fetchers) == 1 {
		return fetchers[0]
	}
	return &fallbackFetcher{fetchers: fetchers}
}

func (f *fallbackFetcher) Name() string {
	names := make([]string, len(f.fetchers))
	for i, fetcher := range f.fetchers {
		names[i] = fetcher.Name()
	}
	return strings.Join(names, ",")
}

func (f *fallbackFetcher) FetchTrackMetadata(ctx context.Context, spotifyURL string) (*TrackMetadata, error) {
	var errs []error
	for _, fetcher := range f.fetchers {
		meta, err := fetcher.FetchTrackMetadata(ctx, spotifyURL)
		if err == nil {
			return meta, nil
		}
		// Input errors will not improve with another source
		if errors.Is(err, ErrInvalidSpotifyURL) {
			return nil, err
		}
		slog.Warn("Metadata source failed, trying next", "source", fetcher.Name(), "url", spotifyURL, "error", err)
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// cachedMetadataFetcher caches successful lookups and collapses concurrent ones
type cachedMetadataFetcher struct {
	fetcher MetadataFetcher
	cache   cache.Cache
	ttl     time.Duration
	group   singleflight.Group
}

// NewCachedMetadataFetcher wraps a fetcher with a cache keyed by track ID
func NewCachedMetadataFetcher(fetcher MetadataFetcher, c cache.Cache, ttl time.Duration) MetadataFetcher {
	return &cachedMetadataFetcher{
		fetcher: fetcher,
		cache:   c,
		ttl:     ttl,
	}
}

func metadataCacheKey(trackID string) string { return "metadata:spotify:" + trackID }

func (f *cachedMetadataFetcher) Name() string {
	return f.fetcher.Name()
}

func (f *cachedMetadataFetcher) FetchTrackMetadata(ctx context.Context, spotifyURL string) (*TrackMetadata, error) {
	trackID, err := ParseSpotifyTrackID(spotifyURL)
	if err != nil {
		return nil, err
	}
	cacheKey := metadataCacheKey(trackID)

	if cached, err := f.cache.Get(ctx, cacheKey); err == nil && cached != nil {
		var meta TrackMetadata
		if err := json.Unmarshal(cached, &meta); err == nil {
			return &meta, nil
		}
		f.cache.Delete(ctx, cacheKey)
	}

	// Waiters share one lookup, so it must outlive the caller that started it
	sharedCtx := context.WithoutCancel(ctx)
	v, err, _ := f.group.Do(trackID, func() (interface{}, error) {
		meta, err := f.fetcher.FetchTrackMetadata(sharedCtx, spotifyURL)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(meta); err == nil {
			if err := f.cache.Set(sharedCtx, cacheKey, data, f.ttl); err != nil {
				slog.Warn("Failed to cache track metadata", "key", cacheKey, "error", err)
			}
		}
		return meta, nil
	})
	if err != nil {
		return nil, err
	}

	meta := *v.(*TrackMetadata)
	return &meta, nil
}
