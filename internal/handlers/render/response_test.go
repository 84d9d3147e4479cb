package render

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"smartlink/internal/models"
)

func testUIConfig(platform models.Platform) *PlatformUIConfig {
	return &PlatformUIConfig{
		Name:       platform.DisplayName(),
		Color:      "#123456",
		ButtonText: "Listen on " + platform.DisplayName(),
	}
}

func TestBuildURLs(t *testing.T) {
	urls := BuildURLs("https://links.example.com", "sunset-drive")
	assert.Equal(t, "https://links.example.com/sunset-drive/spotify", urls.Spotify)
	assert.Equal(t, "https://links.example.com/sunset-drive/apple", urls.Apple)
	assert.Equal(t, "https://links.example.com/t/sunset-drive", urls.Smart)
	assert.Equal(t, "https://links.example.com/sunset-drive", urls.Page)
}

func TestWantsJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		accept   string
		expected bool
	}{
		{"application/json", true},
		{"text/html,application/xhtml+xml,application/json;q=0.9", false},
		{"", false},
		{"*/*", false},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.Header.Set("Accept", tt.accept)
			assert.Equal(t, tt.expected, WantsJSON(c))
		})
	}
}

func TestAccentCSS(t *testing.T) {
	assert.Equal(t, ":root { --accent: #C81E28; }", string(accentCSS("#C81E28")))
	assert.Empty(t, accentCSS(""))
	assert.Empty(t, accentCSS("red; } body { display:none"))
}

func TestRenderSongPage_Accent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	renderer := NewSongRenderer(testUIConfig, "")

	song := models.NewSongLink("sunset-drive", "Sunset Drive", "https://open.spotify.com/track/abc", "https://music.apple.com/track/xyz")
	song.AccentColor = "#C81E28"

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/sunset-drive", nil)
	renderer.RenderSongPage(c, song, "https://links.example.com")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "--accent: #C81E28")
	assert.Contains(t, w.Body.String(), "Apple Music")
}

func TestRenderInterstitial_Delay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	renderer := NewSongRenderer(testUIConfig, "")
	song := models.NewSongLink("sunset-drive", "Sunset Drive", "https://open.spotify.com/track/abc", "https://music.apple.com/track/xyz")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/sunset-drive/spotify", nil)
	renderer.RenderInterstitial(c, song, models.PlatformSpotify, song.SpotifyURL, 1500*time.Millisecond)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1500")
	assert.Contains(t, w.Body.String(), `content="2;url=`)
}

func TestRenderNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	renderer := NewSongRenderer(testUIConfig, "")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/missing", nil)
	renderer.RenderNotFound(c, "Song not found", "https://links.example.com", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Song not found")
	assert.NotContains(t, w.Body.String(), "Did you mean")
}
