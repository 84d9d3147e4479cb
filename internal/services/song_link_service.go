package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"smartlink/internal/models"
	"smartlink/internal/repositories"
)

var (
	// ErrMissingFields is returned when a submission lacks a required URL
	ErrMissingFields = errors.New("spotifyUrl and appleMusicUrl are required")

	// ErrSlugConflict is returned under the reject policy when the slug is taken
	ErrSlugConflict = errors.New("a song with this slug already exists")

	// ErrSongNotFound is returned when no record exists for a slug
	ErrSongNotFound = errors.New("song not found")

	// ErrUnknownPlatform is returned for platform segments we cannot redirect to
	ErrUnknownPlatform = errors.New("unknown platform")
)

// CollisionPolicy decides what happens when a new submission derives an existing slug
type CollisionPolicy int

const (
	CollisionOverwrite CollisionPolicy = iota // last write wins
	CollisionReject
)

// CreateSongLinkInput is an admin submission
type CreateSongLinkInput struct {
	SpotifyURL    string
	AppleMusicURL string
}

// SongLinkService ingests submissions and resolves fan links
type SongLinkService struct {
	songRepo    repositories.SongLinkRepository
	profileRepo repositories.ProfileLinkRepository
	fetcher     MetadataFetcher
	collision   CollisionPolicy
	accent      AccentColorExtractor // optional

	// serializes check-then-save under the reject policy
	writeMu sync.Mutex
}

// SongLinkServiceOption configures optional service behaviour
type SongLinkServiceOption func(*SongLinkService)

// WithAccentColors enables cover-derived accent colors for new records
func WithAccentColors(extractor AccentColorExtractor) SongLinkServiceOption {
	return func(s *SongLinkService) {
		s.accent = extractor
	}
}

// NewSongLinkService creates a new song link service
func NewSongLinkService(songRepo repositories.SongLinkRepository, profileRepo repositories.ProfileLinkRepository, fetcher MetadataFetcher, collision CollisionPolicy, opts ...SongLinkServiceOption) *SongLinkService {
	s := &SongLinkService{
		songRepo:    songRepo,
		profileRepo: profileRepo,
		fetcher:     fetcher,
		collision:   collision,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// applyAccentColor sets the record's accent color from its cover. Failures
// only cost the theming, so they are logged and ignored.
func (s *SongLinkService) applyAccentColor(ctx context.Context, song *models.SongLink) {
	if s.accent == nil || song.Cover == nil {
		return
	}
	color, err := s.accent.ExtractAccentColor(ctx, *song.Cover)
	if err != nil {
		slog.Warn("Failed to extract accent color", "slug", song.Slug, "error", err)
		return
	}
	song.AccentColor = color
}

// CreateSongLink fetches metadata for the Spotify URL, derives a slug from
// the title and stores the record. Nothing is stored when any step fails.
func (s *SongLinkService) CreateSongLink(ctx context.Context, input CreateSongLinkInput) (*models.SongLink, error) {
	spotifyURL := strings.TrimSpace(input.SpotifyURL)
	appleMusicURL := strings.TrimSpace(input.AppleMusicURL)
	if spotifyURL == "" || appleMusicURL == "" {
		return nil, ErrMissingFields
	}

	if _, err := ValidateSpotifyTrackLink(spotifyURL); err != nil {
		return nil, err
	}

	meta, err := s.fetcher.FetchTrackMetadata(ctx, spotifyURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch track metadata: %w", err)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = models.UntitledTrack
	}
	slug := Slugify(title)

	song := models.NewSongLink(slug, title, spotifyURL, appleMusicURL)
	song.Artist = meta.Artist
	song.SetCover(meta.Cover)
	s.applyAccentColor(ctx, song)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	existing, err := s.songRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing slug: %w", err)
	}
	if existing != nil {
		if s.collision == CollisionReject {
			return nil, ErrSlugConflict
		}
		slog.Info("Overwriting song link with same slug",
			"slug", slug,
			"previousSpotifyUrl", existing.SpotifyURL)
		song.CreatedAt = existing.CreatedAt
	}

	if err := s.songRepo.Save(ctx, song); err != nil {
		return nil, fmt.Errorf("failed to save song link: %w", err)
	}

	slog.Info("Song link saved",
		"slug", song.Slug,
		"title", song.Title,
		"source", s.fetcher.Name())

	return song, nil
}

// GetSongLink returns the record for a slug or ErrSongNotFound
func (s *SongLinkService) GetSongLink(ctx context.Context, slug string) (*models.SongLink, error) {
	if slug == "" {
		return nil, ErrSongNotFound
	}

	song, err := s.songRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to find song link: %w", err)
	}
	if song == nil {
		return nil, ErrSongNotFound
	}
	return song, nil
}

// ListSongLinks returns every record, newest first
func (s *SongLinkService) ListSongLinks(ctx context.Context) ([]*models.SongLink, error) {
	songs, err := s.songRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list song links: %w", err)
	}
	return songs, nil
}

// ResolveTarget returns the record and the URL to send a fan to on the given platform
func (s *SongLinkService) ResolveTarget(ctx context.Context, slug, platform string) (*models.SongLink, string, error) {
	p, ok := models.ParsePlatform(platform)
	if !ok {
		return nil, "", ErrUnknownPlatform
	}

	song, err := s.GetSongLink(ctx, slug)
	if err != nil {
		return nil, "", err
	}

	target := song.URLFor(p)
	if target == "" {
		return song, "", ErrUnknownPlatform
	}
	return song, target, nil
}

// ProfileLinks returns the profile page's main links
func (s *SongLinkService) ProfileLinks(ctx context.Context) ([]models.ProfileLink, error) {
	links, err := s.profileRepo.GetLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile links: %w", err)
	}
	return links, nil
}

// ReplaceProfileLinks swaps the whole main links list
func (s *SongLinkService) ReplaceProfileLinks(ctx context.Context, links []models.ProfileLink) error {
	if err := s.profileRepo.ReplaceLinks(ctx, links); err != nil {
		return fmt.Errorf("failed to replace profile links: %w", err)
	}
	slog.Info("Profile links replaced", "count", len(links))
	return nil
}

// Count returns the number of stored records
func (s *SongLinkService) Count(ctx context.Context) (int64, error) {
	return s.songRepo.Count(ctx)
}
