package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2/clientcredentials"
)

// spotifyAPIService fetches track metadata from the Spotify Web API using client credentials
type spotifyAPIService struct {
	client      *resty.Client
	apiURL      string
	tokenSource *clientcredentials.Config
	accessToken string
	tokenExpiry time.Time
	mu          sync.RWMutex
}

// Spotify API endpoints
const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyAPIURL   = "https://api.spotify.com/v1"
)

// SpotifyAPIOption customizes the Web API fetcher
type SpotifyAPIOption func(*spotifyAPIService)

// WithSpotifyEndpoints points the fetcher at different API and token URLs
func WithSpotifyEndpoints(apiURL, tokenURL string) SpotifyAPIOption {
	return func(s *spotifyAPIService) {
		s.apiURL = strings.TrimRight(apiURL, "/")
		s.tokenSource.TokenURL = tokenURL
	}
}

// NewSpotifyAPIService creates a Web API backed metadata fetcher
func NewSpotifyAPIService(clientID, clientSecret string, timeout time.Duration, retryCount int, opts ...SpotifyAPIOption) MetadataFetcher {
	tokenSource := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	s := &spotifyAPIService{
		client:      client,
		apiURL:      spotifyAPIURL,
		tokenSource: tokenSource,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source name
func (s *spotifyAPIService) Name() string {
	return "spotify_api"
}

// FetchTrackMetadata looks the track up by ID
func (s *spotifyAPIService) FetchTrackMetadata(ctx context.Context, spotifyURL string) (*TrackMetadata, error) {
	trackID, err := ParseSpotifyTrackID(spotifyURL)
	if err != nil {
		return nil, err
	}

	if err := s.ensureValidToken(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	token := s.accessToken
	s.mu.RUnlock()

	var spotifyTrack SpotifyTrack
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&spotifyTrack).
		Get(fmt.Sprintf("%s/tracks/%s", s.apiURL, trackID))

	if err != nil {
		return nil, &PlatformError{
			Platform:  "spotify",
			Operation: "get_track",
			Message:   "request failed",
			URL:       spotifyURL,
			Err:       err,
		}
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, &PlatformError{
			Platform:   "spotify",
			Operation:  "get_track",
			Message:    "track not found",
			URL:        spotifyURL,
			StatusCode: resp.StatusCode(),
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &PlatformError{
			Platform:   "spotify",
			Operation:  "get_track",
			Message:    fmt.Sprintf("API returned status %d", resp.StatusCode()),
			URL:        spotifyURL,
			StatusCode: resp.StatusCode(),
		}
	}

	return convertSpotifyTrack(&spotifyTrack), nil
}

// ensureValidToken ensures we have a valid access token
func (s *spotifyAPIService) ensureValidToken(ctx context.Context) error {
	s.mu.RLock()
	if s.accessToken != "" && time.Now().Before(s.tokenExpiry) {
		s.mu.RUnlock()
		return nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if s.accessToken != "" && time.Now().Before(s.tokenExpiry) {
		return nil
	}

	token, err := s.tokenSource.Token(ctx)
	if err != nil {
		return &PlatformError{
			Platform:  "spotify",
			Operation: "auth",
			Message:   "failed to get access token",
			Err:       err,
		}
	}

	s.accessToken = token.AccessToken
	s.tokenExpiry = token.Expiry
	if s.tokenExpiry.IsZero() {
		s.tokenExpiry = time.Now().Add(time.Hour)
	}

	slog.Info("Spotify access token refreshed", "expires_at", s.tokenExpiry)

	return nil
}

// convertSpotifyTrack maps the API response onto TrackMetadata
func convertSpotifyTrack(track *SpotifyTrack) *TrackMetadata {
	artists := make([]string, len(track.Artists))
	for i, artist := range track.Artists {
		artists[i] = artist.Name
	}

	// Prefer a medium sized image
	var imageURL string
	if len(track.Album.Images) > 0 {
		imageURL = track.Album.Images[0].URL
		for _, img := range track.Album.Images {
			if img.Width >= 300 && img.Width <= 640 {
				imageURL = img.URL
				break
			}
		}
	}

	return &TrackMetadata{
		Title:  strings.TrimSpace(track.Name),
		Artist: strings.Join(artists, ", "),
		Cover:  imageURL,
	}
}

// Spotify API response structures
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	Album   SpotifyAlbum    `json:"album"`
}

type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
}

type SpotifyImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
