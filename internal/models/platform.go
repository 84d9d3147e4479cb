package models

import "strings"

// Platform identifies a streaming platform a fan link can point to
type Platform string

const (
	PlatformSpotify Platform = "spotify"
	PlatformApple   Platform = "apple"
)

// Platforms lists the supported platforms in display order
var Platforms = []Platform{PlatformSpotify, PlatformApple}

// ParsePlatform maps a path segment to a Platform
func ParsePlatform(s string) (Platform, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spotify":
		return PlatformSpotify, true
	case "apple", "apple-music", "apple_music", "applemusic":
		return PlatformApple, true
	default:
		return "", false
	}
}

// appleDeviceMarkers are user-agent fragments that indicate an Apple device
var appleDeviceMarkers = []string{"iphone", "ipad", "ipod", "mac"}

// DetectPlatform picks Apple Music for Apple devices and Spotify for everything else
func DetectPlatform(userAgent string) Platform {
	ua := strings.ToLower(userAgent)
	for _, marker := range appleDeviceMarkers {
		if strings.Contains(ua, marker) {
			return PlatformApple
		}
	}
	return PlatformSpotify
}

// DisplayName returns the human readable platform name
func (p Platform) DisplayName() string {
	switch p {
	case PlatformSpotify:
		return "Spotify"
	case PlatformApple:
		return "Apple Music"
	default:
		return string(p)
	}
}
