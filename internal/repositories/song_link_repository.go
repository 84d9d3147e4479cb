package repositories

import (
	"context"
	"errors"

	"smartlink/internal/models"
)

// ErrInvalidSlug is returned when a record is saved without a slug
var ErrInvalidSlug = errors.New("song link slug is required")

// SongLinkRepository defines the interface for song link storage
type SongLinkRepository interface {
	// Save inserts or replaces the record stored under song.Slug
	Save(ctx context.Context, song *models.SongLink) error

	// FindBySlug returns nil, nil when no record exists
	FindBySlug(ctx context.Context, slug string) (*models.SongLink, error)

	// List returns every record, newest first
	List(ctx context.Context) ([]*models.SongLink, error)

	Count(ctx context.Context) (int64, error)
}

// ProfileLinkRepository stores the profile page's main links
type ProfileLinkRepository interface {
	GetLinks(ctx context.Context) ([]models.ProfileLink, error)
	ReplaceLinks(ctx context.Context, links []models.ProfileLink) error
}
