package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"smartlink/internal/models"
)

// memorySongLinkRepository keeps song links in a mutex-guarded map
type memorySongLinkRepository struct {
	songs map[string]models.SongLink
	mu    sync.RWMutex
}

// NewMemorySongLinkRepository creates an empty in-memory repository
func NewMemorySongLinkRepository() SongLinkRepository {
	return &memorySongLinkRepository{
		songs: make(map[string]models.SongLink),
	}
}

// Save stores a copy of the record; an existing slug is overwritten
func (r *memorySongLinkRepository) Save(ctx context.Context, song *models.SongLink) error {
	if song.Slug == "" {
		return ErrInvalidSlug
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	song.SchemaVersion = models.CurrentSchemaVersion
	song.UpdatedAt = now
	if existing, ok := r.songs[song.Slug]; ok && song.CreatedAt.IsZero() {
		song.CreatedAt = existing.CreatedAt
	}
	if song.CreatedAt.IsZero() {
		song.CreatedAt = now
	}

	r.songs[song.Slug] = copySongLink(song)
	return nil
}

// FindBySlug returns a copy of the stored record
func (r *memorySongLinkRepository) FindBySlug(ctx context.Context, slug string) (*models.SongLink, error) {
	r.mu.RLock()
	song, ok := r.songs[slug]
	r.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	found := copySongLink(&song)
	return &found, nil
}

// List returns all records sorted by creation time, newest first
func (r *memorySongLinkRepository) List(ctx context.Context) ([]*models.SongLink, error) {
	r.mu.RLock()
	songs := make([]*models.SongLink, 0, len(r.songs))
	for _, song := range r.songs {
		s := copySongLink(&song)
		songs = append(songs, &s)
	}
	r.mu.RUnlock()

	sortNewestFirst(songs)
	return songs, nil
}

// Count returns the number of stored records
func (r *memorySongLinkRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.songs)), nil
}

// copySongLink detaches the cover pointer so callers cannot mutate stored state
func copySongLink(song *models.SongLink) models.SongLink {
	c := *song
	if song.Cover != nil {
		cover := *song.Cover
		c.Cover = &cover
	}
	return c
}

func sortNewestFirst(songs []*models.SongLink) {
	sort.SliceStable(songs, func(i, j int) bool {
		if songs[i].CreatedAt.Equal(songs[j].CreatedAt) {
			return songs[i].Slug < songs[j].Slug
		}
		return songs[i].CreatedAt.After(songs[j].CreatedAt)
	})
}

// memoryProfileLinkRepository keeps the profile links in memory
type memoryProfileLinkRepository struct {
	links []models.ProfileLink
	mu    sync.RWMutex
}

// NewMemoryProfileLinkRepository creates a profile link store seeded with links
func NewMemoryProfileLinkRepository(seed []models.ProfileLink) ProfileLinkRepository {
	return &memoryProfileLinkRepository{
		links: append([]models.ProfileLink(nil), seed...),
	}
}

func (r *memoryProfileLinkRepository) GetLinks(ctx context.Context) ([]models.ProfileLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.ProfileLink{}, r.links...), nil
}

func (r *memoryProfileLinkRepository) ReplaceLinks(ctx context.Context, links []models.ProfileLink) error {
	r.mu.Lock()
	r.links = append([]models.ProfileLink{}, links...)
	r.mu.Unlock()
	return nil
}
