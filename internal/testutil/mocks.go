package testutil

import (
	"context"

	"smartlink/internal/models"
	"smartlink/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockSongLinkRepository is a mock implementation of SongLinkRepository for testing
type MockSongLinkRepository struct {
	mock.Mock
}

func (m *MockSongLinkRepository) Save(ctx context.Context, song *models.SongLink) error {
	args := m.Called(ctx, song)
	return args.Error(0)
}

func (m *MockSongLinkRepository) FindBySlug(ctx context.Context, slug string) (*models.SongLink, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SongLink), args.Error(1)
}

func (m *MockSongLinkRepository) List(ctx context.Context) ([]*models.SongLink, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SongLink), args.Error(1)
}

func (m *MockSongLinkRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockMetadataFetcher is a mock implementation of MetadataFetcher for testing
type MockMetadataFetcher struct {
	mock.Mock
}

func (m *MockMetadataFetcher) Name() string {
	return "mock"
}

func (m *MockMetadataFetcher) FetchTrackMetadata(ctx context.Context, spotifyURL string) (*services.TrackMetadata, error) {
	args := m.Called(ctx, spotifyURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TrackMetadata), args.Error(1)
}

// Helper functions for setting up mock expectations

// ExpectFetchMetadata sets up expectation for FetchTrackMetadata
func ExpectFetchMetadata(fetcher *MockMetadataFetcher, spotifyURL string, meta *services.TrackMetadata, err error) *mock.Call {
	return fetcher.On("FetchTrackMetadata", mock.Anything, spotifyURL).Return(meta, err)
}

// ExpectSongLinkRepositorySave sets up expectation for Save
func ExpectSongLinkRepositorySave(repo *MockSongLinkRepository, err error) *mock.Call {
	return repo.On("Save", mock.Anything, mock.AnythingOfType("*models.SongLink")).Return(err)
}

// MockAccentColorExtractor is a mock implementation of AccentColorExtractor for testing
type MockAccentColorExtractor struct {
	mock.Mock
}

func (m *MockAccentColorExtractor) ExtractAccentColor(ctx context.Context, imageURL string) (string, error) {
	args := m.Called(ctx, imageURL)
	return args.String(0), args.Error(1)
}
