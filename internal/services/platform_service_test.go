package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpotifyTrackID(t *testing.T) {
	testCases := []struct {
		name            string
		url             string
		expectedTrackID string
		expectError     bool
	}{
		{
			name:            "Spotify URL with https",
			url:             "https://open.spotify.com/track/4iV5W9uYEdYUVa79Axb7Rh",
			expectedTrackID: "4iV5W9uYEdYUVa79Axb7Rh",
		},
		{
			name:            "Spotify URL without protocol",
			url:             "open.spotify.com/track/4iV5W9uYEdYUVa79Axb7Rh",
			expectedTrackID: "4iV5W9uYEdYUVa79Axb7Rh",
		},
		{
			name:            "Spotify URL with share query",
			url:             "https://open.spotify.com/track/4iV5W9uYEdYUVa79Axb7Rh?si=abc123",
			expectedTrackID: "4iV5W9uYEdYUVa79Axb7Rh",
		},
		{
			name:            "Localized Spotify URL",
			url:             "https://open.spotify.com/intl-pt-BR/track/4iV5W9uYEdYUVa79Axb7Rh",
			expectedTrackID: "4iV5W9uYEdYUVa79Axb7Rh",
		},
		{
			name:            "Spotify URI",
			url:             "spotify:track:4iV5W9uYEdYUVa79Axb7Rh",
			expectedTrackID: "4iV5W9uYEdYUVa79Axb7Rh",
		},
		{
			name:            "Surrounding whitespace",
			url:             "  https://open.spotify.com/track/abc  ",
			expectedTrackID: "abc",
		},
		{
			name:        "Spotify album URL",
			url:         "https://open.spotify.com/album/4aawyAB9vmqN3uQ7FjRGTy",
			expectError: true,
		},
		{
			name:        "Apple Music URL",
			url:         "https://music.apple.com/us/song/bohemian-rhapsody/1440857781",
			expectError: true,
		},
		{
			name:        "Empty",
			url:         "",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			trackID, err := ParseSpotifyTrackID(tc.url)
			if tc.expectError {
				assert.ErrorIs(t, err, ErrInvalidSpotifyURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedTrackID, trackID)
		})
	}
}

func TestCanonicalSpotifyTrackURL(t *testing.T) {
	assert.Equal(t, "https://open.spotify.com/track/abc", CanonicalSpotifyTrackURL("abc"))
}

func TestPlatformError(t *testing.T) {
	underlying := errors.New("connection reset")
	err := &PlatformError{
		Platform:  "spotify",
		Operation: "oembed",
		Message:   "request failed",
		URL:       "https://open.spotify.com/track/abc",
		Err:       underlying,
	}

	assert.Equal(t, "spotify oembed failed: request failed (URL: https://open.spotify.com/track/abc) - connection reset", err.Error())
	assert.ErrorIs(t, err, underlying)

	bare := &PlatformError{Platform: "spotify", Operation: "auth"}
	assert.Equal(t, "spotify auth failed", bare.Error())
}

func TestValidateSpotifyTrackLink(t *testing.T) {
	testCases := []struct {
		name        string
		url         string
		expectError bool
	}{
		{"https link", "https://open.spotify.com/track/abc", false},
		{"http link with share query", "http://open.spotify.com/track/abc?si=1", false},
		{"no scheme", "open.spotify.com/track/abc", true},
		{"uri", "spotify:track:abc", true},
		{"album link", "https://open.spotify.com/album/abc", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			trackID, err := ValidateSpotifyTrackLink(tc.url)
			if tc.expectError {
				assert.ErrorIs(t, err, ErrInvalidSpotifyURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "abc", trackID)
		})
	}
}

func BenchmarkParseSpotifyTrackID(b *testing.B) {
	urls := []string{
		"https://open.spotify.com/track/4iV5W9uYEdYUVa79Axb7Rh",
		"https://open.spotify.com/intl-es/track/4iV5W9uYEdYUVa79Axb7Rh?si=x",
		"spotify:track:4iV5W9uYEdYUVa79Axb7Rh",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseSpotifyTrackID(urls[i%len(urls)]); err != nil {
			b.Fatal(err)
		}
	}
}
