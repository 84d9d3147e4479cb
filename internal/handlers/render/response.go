package render

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"smartlink/internal/models"
	"smartlink/internal/templates"
)

// SongLinkURLs are the fan-facing URLs generated for a song link
type SongLinkURLs struct {
	Spotify string `json:"spotify"`
	Apple   string `json:"apple"`
	Smart   string `json:"smart"`
	Page    string `json:"page"`
}

// SongLinkResponse is the JSON representation of a song link
type SongLinkResponse struct {
	Slug   string       `json:"slug"`
	Title  string       `json:"title"`
	Artist string       `json:"artist,omitempty"`
	Cover  *string      `json:"cover"`
	URLs   SongLinkURLs `json:"urls"`
}

// PlatformUIConfig represents UI configuration for a platform
type PlatformUIConfig struct {
	Name        string // Display name (e.g., "Apple Music", "Spotify")
	IconURL     string
	Color       string // Brand color (hex code)
	ButtonText  string
	BadgeClass  string // CSS class for buttons
	Description string // Accessibility description
}

// PlatformDisplayData contains platform information for templates
type PlatformDisplayData struct {
	Platform    string
	URL         string
	Name        string
	IconURL     string
	ButtonText  string
	Description string
	Color       string
	CSSClass    string
}

// SongCard is one song on the profile page
type SongCard struct {
	Title   string
	Artist  string
	Cover   string
	PageURL string
}

// ProfilePageData is everything the profile page shows
type ProfilePageData struct {
	ArtistName  string
	Tagline     string
	AvatarURL   string
	Links       []models.ProfileLink
	Songs       []SongCard
	PlatformCSS template.CSS
}

// accentColorPattern guards colors before they are emitted as raw CSS
var accentColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// accentCSS returns a CSS custom property for a stored accent color, or ""
func accentCSS(color string) template.CSS {
	if !accentColorPattern.MatchString(color) {
		return ""
	}
	return template.CSS(":root { --accent: " + color + "; }")
}

// SongRenderer handles rendering song responses in different formats
type SongRenderer struct {
	getPlatformUIConfig func(models.Platform) *PlatformUIConfig
	platformCSS         template.CSS
}

// NewSongRenderer creates a new song renderer
func NewSongRenderer(getPlatformUIConfig func(models.Platform) *PlatformUIConfig, platformCSS template.CSS) *SongRenderer {
	return &SongRenderer{
		getPlatformUIConfig: getPlatformUIConfig,
		platformCSS:         platformCSS,
	}
}

// WantsJSON reports whether the client prefers JSON over HTML
func WantsJSON(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// BuildURLs builds the fan-facing URLs for a slug under baseURL
func BuildURLs(baseURL, slug string) SongLinkURLs {
	return SongLinkURLs{
		Spotify: baseURL + "/" + slug + "/" + string(models.PlatformSpotify),
		Apple:   baseURL + "/" + slug + "/" + string(models.PlatformApple),
		Smart:   baseURL + "/t/" + slug,
		Page:    baseURL + "/" + slug,
	}
}

// NewSongLinkResponse converts a record into its JSON form
func NewSongLinkResponse(song *models.SongLink, baseURL string) SongLinkResponse {
	return SongLinkResponse{
		Slug:   song.Slug,
		Title:  song.Title,
		Artist: song.Artist,
		Cover:  song.Cover,
		URLs:   BuildURLs(baseURL, song.Slug),
	}
}

// RenderSongJSON renders a song link as JSON
func (r *SongRenderer) RenderSongJSON(c *gin.Context, status int, song *models.SongLink, baseURL string) {
	c.JSON(status, NewSongLinkResponse(song, baseURL))
}

// RenderSongPage renders the song detail page with one button per platform
func (r *SongRenderer) RenderSongPage(c *gin.Context, song *models.SongLink, baseURL string) {
	urls := BuildURLs(baseURL, song.Slug)
	fanURLs := map[models.Platform]string{
		models.PlatformSpotify: urls.Spotify,
		models.PlatformApple:   urls.Apple,
	}

	data := struct {
		Song        *models.SongLink
		Cover       string
		Platforms   []PlatformDisplayData
		ProfileURL  string
		PlatformCSS template.CSS
		AccentCSS   template.CSS
	}{
		Song:        song,
		Cover:       song.CoverURL(),
		ProfileURL:  baseURL + "/",
		PlatformCSS: r.platformCSS,
		AccentCSS:   accentCSS(song.AccentColor),
	}

	for _, platform := range models.Platforms {
		if song.URLFor(platform) == "" {
			continue
		}
		uiConfig := r.getPlatformUIConfig(platform)
		data.Platforms = append(data.Platforms, PlatformDisplayData{
			Platform:    string(platform),
			URL:         fanURLs[platform],
			Name:        uiConfig.Name,
			IconURL:     uiConfig.IconURL,
			ButtonText:  uiConfig.ButtonText,
			Description: uiConfig.Description,
			Color:       uiConfig.Color,
			CSSClass:    uiConfig.BadgeClass,
		})
	}

	r.renderHTML(c, http.StatusOK, templates.SongPage, data)
}

// RenderInterstitial renders the loading page that forwards to target after delay
func (r *SongRenderer) RenderInterstitial(c *gin.Context, song *models.SongLink, platform models.Platform, target string, delay time.Duration) {
	uiConfig := r.getPlatformUIConfig(platform)

	data := struct {
		Title        string
		Cover        string
		PlatformName string
		Color        string
		TargetURL    string
		DelayMs      int64
		DelaySeconds int64
		AccentCSS    template.CSS
	}{
		Title:        song.Title,
		Cover:        song.CoverURL(),
		PlatformName: uiConfig.Name,
		Color:        uiConfig.Color,
		TargetURL:    target,
		DelayMs:      delay.Milliseconds(),
		DelaySeconds: int64(delay.Round(time.Second) / time.Second),
		AccentCSS:    accentCSS(song.AccentColor),
	}

	r.renderHTML(c, http.StatusOK, templates.InterstitialPage, data)
}

// RenderProfilePage renders the artist profile page
func (r *SongRenderer) RenderProfilePage(c *gin.Context, data ProfilePageData) {
	data.PlatformCSS = r.platformCSS
	r.renderHTML(c, http.StatusOK, templates.ProfilePage, data)
}

// RenderNotFound answers 404 as JSON for API clients and as a page for browsers.
// A non-empty suggestion is a slug worth offering instead.
func (r *SongRenderer) RenderNotFound(c *gin.Context, message, baseURL, suggestion string) {
	suggestionURL := ""
	if suggestion != "" {
		suggestionURL = baseURL + "/" + suggestion
	}

	if WantsJSON(c) {
		body := gin.H{"error": message}
		if suggestionURL != "" {
			body["suggestion"] = suggestionURL
		}
		c.JSON(http.StatusNotFound, body)
		return
	}

	data := struct {
		Message       string
		ProfileURL    string
		SuggestionURL string
	}{
		Message:       message,
		ProfileURL:    baseURL + "/",
		SuggestionURL: suggestionURL,
	}
	r.renderHTML(c, http.StatusNotFound, templates.NotFoundPage, data)
}

func (r *SongRenderer) renderHTML(c *gin.Context, status int, page string, data interface{}) {
	var buf bytes.Buffer
	if err := templates.Render(&buf, page, data); err != nil {
		slog.Error("Failed to render page", "page", page, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Render error"})
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
