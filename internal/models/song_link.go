package models

import (
	"time"
)

const CurrentSchemaVersion = 1

// UntitledTrack is used when metadata returns an empty title
const UntitledTrack = "Untitled Track"

// SongLink is a fan-facing smart link for a single track
type SongLink struct {
	Slug          string `bson:"slug" json:"slug"`
	SchemaVersion int    `bson:"schema_version" json:"-"`

	Title  string  `bson:"title" json:"title"`
	Artist string  `bson:"artist,omitempty" json:"artist,omitempty"`
	Cover  *string `bson:"cover" json:"cover"` // nil when metadata had no artwork

	// Dominant cover color ("#RRGGBB"), empty when unknown
	AccentColor string `bson:"accent_color,omitempty" json:"accentColor,omitempty"`

	// Platform targets, supplied by the admin
	SpotifyURL    string `bson:"spotify_url" json:"spotifyUrl"`
	AppleMusicURL string `bson:"apple_music_url" json:"appleMusicUrl"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// NewSongLink creates a new SongLink with default values
func NewSongLink(slug, title, spotifyURL, appleMusicURL string) *SongLink {
	now := time.Now()
	if title == "" {
		title = UntitledTrack
	}
	return &SongLink{
		Slug:          slug,
		SchemaVersion: CurrentSchemaVersion,
		Title:         title,
		SpotifyURL:    spotifyURL,
		AppleMusicURL: appleMusicURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// SetCover stores the artwork URL, keeping nil for empty values
func (s *SongLink) SetCover(cover string) {
	if cover == "" {
		s.Cover = nil
		return
	}
	s.Cover = &cover
}

// CoverURL returns the artwork URL or an empty string
func (s *SongLink) CoverURL() string {
	if s.Cover == nil {
		return ""
	}
	return *s.Cover
}

// URLFor returns the stored target URL for a platform
func (s *SongLink) URLFor(platform Platform) string {
	switch platform {
	case PlatformSpotify:
		return s.SpotifyURL
	case PlatformApple:
		return s.AppleMusicURL
	default:
		return ""
	}
}

// ProfileLink is one of the profile page's static "main links"
type ProfileLink struct {
	Label string `bson:"label" json:"label" binding:"required"`
	URL   string `bson:"url" json:"url" binding:"required,url"`
}
