package services

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidSpotifyURL is returned for URLs that are not Spotify track links
var ErrInvalidSpotifyURL = errors.New("invalid Spotify track URL")

// URLPattern represents a URL pattern for parsing platform URLs
type URLPattern struct {
	Regex        *regexp.Regexp
	Platform     string
	TrackIDIndex int // Index of the track ID capture group
}

var (
	// SpotifyURLPattern matches open.spotify.com track links, including localized /intl-xx/ paths
	SpotifyURLPattern = URLPattern{
		Regex:        regexp.MustCompile(`^(?:https?://)?(?:open\.)?spotify\.com/(?:intl-[a-zA-Z]{2}(?:-[a-zA-Z]{2})?/)?track/([a-zA-Z0-9]+)`),
		Platform:     "spotify",
		TrackIDIndex: 1,
	}

	// SpotifyURIPattern matches spotify:track:<id> URIs
	SpotifyURIPattern = URLPattern{
		Regex:        regexp.MustCompile(`^spotify:track:([a-zA-Z0-9]+)$`),
		Platform:     "spotify",
		TrackIDIndex: 1,
	}
)

// ParseSpotifyTrackID extracts the track ID from a Spotify track URL or URI
func ParseSpotifyTrackID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	for _, pattern := range []URLPattern{SpotifyURLPattern, SpotifyURIPattern} {
		matches := pattern.Regex.FindStringSubmatch(rawURL)
		if len(matches) > pattern.TrackIDIndex && matches[pattern.TrackIDIndex] != "" {
			return matches[pattern.TrackIDIndex], nil
		}
	}
	return "", ErrInvalidSpotifyURL
}

// ValidateSpotifyTrackLink accepts only absolute http(s) Spotify track links,
// since the stored value is used verbatim as a redirect target
func ValidateSpotifyTrackLink(rawURL string) (string, error) {
	trackID, err := ParseSpotifyTrackID(rawURL)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidSpotifyURL
	}
	return trackID, nil
}

// CanonicalSpotifyTrackURL builds the canonical open.spotify.com URL for a track ID
func CanonicalSpotifyTrackURL(trackID string) string {
	return "https://open.spotify.com/track/" + trackID
}

// PlatformError represents an error from an upstream platform call
type PlatformError struct {
	Platform   string
	Operation  string
	Message    string
	URL        string
	StatusCode int
	Err        error
}

func (e *PlatformError) Error() string {
	msg := e.Platform + " " + e.Operation + " failed"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.URL != "" {
		msg += " (URL: " + e.URL + ")"
	}
	if e.Err != nil {
		msg += " - " + e.Err.Error()
	}
	return msg
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}
