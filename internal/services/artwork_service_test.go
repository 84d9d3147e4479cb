package services

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, c color.RGBA) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		img := image.NewRGBA(image.Rect(0, 0, 16, 16))
		for x := 0; x < 16; x++ {
			for y := 0; y < 16; y++ {
				img.Set(x, y, c)
			}
		}
		w.Header().Set("Content-Type", "image/png")
		require.NoError(t, png.Encode(w, img))
	}
}

func TestCoverColorService_ExtractAccentColor(t *testing.T) {
	server := httptest.NewServer(solidPNG(t, color.RGBA{R: 200, G: 30, B: 40, A: 255}))
	defer server.Close()

	svc := NewCoverColorService(5 * time.Second)
	hex, err := svc.ExtractAccentColor(context.Background(), server.URL+"/cover.png")
	require.NoError(t, err)
	assert.Regexp(t, `^#[0-9A-Fa-f]{6}$`, hex)
}

func TestCoverColorService_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		_, err := NewCoverColorService(5*time.Second).ExtractAccentColor(context.Background(), server.URL)
		require.Error(t, err)

		var platformErr *PlatformError
		require.ErrorAs(t, err, &platformErr)
		assert.Equal(t, http.StatusNotFound, platformErr.StatusCode)
	})

	t.Run("not an image", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("definitely not a jpeg"))
		}))
		defer server.Close()

		_, err := NewCoverColorService(5*time.Second).ExtractAccentColor(context.Background(), server.URL)
		assert.Error(t, err)
	})
}
