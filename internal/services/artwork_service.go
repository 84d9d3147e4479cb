package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // Spotify artwork is JPEG
	_ "image/png"
	"net/http"
	"time"

	"github.com/cenkalti/dominantcolor"
	"github.com/go-resty/resty/v2"
)

// AccentColorExtractor derives a theme color from cover artwork
type AccentColorExtractor interface {
	ExtractAccentColor(ctx context.Context, imageURL string) (string, error)
}

// coverColorService downloads artwork and picks its dominant color
type coverColorService struct {
	client *resty.Client
}

// NewCoverColorService creates an extractor that fetches covers over HTTP
func NewCoverColorService(timeout time.Duration) AccentColorExtractor {
	return &coverColorService{
		client: resty.New().SetTimeout(timeout),
	}
}

// ExtractAccentColor returns the cover's dominant color as "#rrggbb"
func (s *coverColorService) ExtractAccentColor(ctx context.Context, imageURL string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(imageURL)
	if err != nil {
		return "", &PlatformError{
			Platform:  "artwork",
			Operation: "download",
			Message:   "request failed",
			URL:       imageURL,
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return "", &PlatformError{
			Platform:   "artwork",
			Operation:  "download",
			Message:    fmt.Sprintf("image returned status %d", resp.StatusCode()),
			URL:        imageURL,
			StatusCode: resp.StatusCode(),
		}
	}

	img, _, err := image.Decode(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", fmt.Errorf("failed to decode cover image: %w", err)
	}

	return dominantcolor.Hex(dominantcolor.Find(img)), nil
}
