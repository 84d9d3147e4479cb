package testutil

import (
	"time"

	"smartlink/internal/models"
	"smartlink/internal/services"
)

// SongLinkBuilder provides a fluent interface for creating test song links
type SongLinkBuilder struct {
	song *models.SongLink
}

// NewSongLinkBuilder creates a builder with the "Sunset Drive" defaults
func NewSongLinkBuilder() *SongLinkBuilder {
	return &SongLinkBuilder{
		song: models.NewSongLink("sunset-drive", "Sunset Drive", SpotifyURL1, AppleMusicURL1),
	}
}

// WithTitle sets the title and derives the slug from it
func (b *SongLinkBuilder) WithTitle(title string) *SongLinkBuilder {
	b.song.Title = title
	b.song.Slug = services.Slugify(title)
	return b
}

// WithSlug overrides the slug
func (b *SongLinkBuilder) WithSlug(slug string) *SongLinkBuilder {
	b.song.Slug = slug
	return b
}

// WithArtist sets the artist
func (b *SongLinkBuilder) WithArtist(artist string) *SongLinkBuilder {
	b.song.Artist = artist
	return b
}

// WithCover sets the artwork URL
func (b *SongLinkBuilder) WithCover(cover string) *SongLinkBuilder {
	b.song.SetCover(cover)
	return b
}

// WithURLs sets both platform targets
func (b *SongLinkBuilder) WithURLs(spotifyURL, appleMusicURL string) *SongLinkBuilder {
	b.song.SpotifyURL = spotifyURL
	b.song.AppleMusicURL = appleMusicURL
	return b
}

// WithCreatedAt sets both timestamps
func (b *SongLinkBuilder) WithCreatedAt(t time.Time) *SongLinkBuilder {
	b.song.CreatedAt = t
	b.song.UpdatedAt = t
	return b
}

// Build returns the constructed song link
func (b *SongLinkBuilder) Build() *models.SongLink {
	return b.song
}

// Common test data
var (
	SpotifyTrackID1 = "4iV5W9uYEdYUVa79Axb7Rh"
	SpotifyTrackID2 = "1YLJVMUFYjwdAF4lDPqH7G"

	SpotifyURL1    = "https://open.spotify.com/track/" + SpotifyTrackID1
	SpotifyURL2    = "https://open.spotify.com/track/" + SpotifyTrackID2
	AppleMusicURL1 = "https://music.apple.com/us/song/sunset-drive/1440857781"
	AppleMusicURL2 = "https://music.apple.com/us/album/night-swim/123456789?i=1440857782"

	CoverURL1 = "https://i.scdn.co/image/ab67616d0000b273sunset"
)

// CreateTestSongLink creates a basic test song link with a cover
func CreateTestSongLink() *models.SongLink {
	return NewSongLinkBuilder().
		WithCover(CoverURL1).
		Build()
}

// CreateTestMetadata creates metadata matching CreateTestSongLink
func CreateTestMetadata() *services.TrackMetadata {
	return &services.TrackMetadata{
		Title: "Sunset Drive",
		Cover: CoverURL1,
	}
}
