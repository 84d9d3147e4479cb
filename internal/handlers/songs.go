package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"smartlink/internal/config"
	"smartlink/internal/handlers/render"
	"smartlink/internal/models"
	"smartlink/internal/services"
)

// CreateSongLinkRequest is the admin submission body
type CreateSongLinkRequest struct {
	SpotifyURL    string `json:"spotifyUrl" binding:"required,url"`
	AppleMusicURL string `json:"appleMusicUrl" binding:"required,url"`
}

// SongLinkHandler handles admin ingestion and fan redirects
type SongLinkHandler struct {
	service       *services.SongLinkService
	renderer      *render.SongRenderer
	baseURL       string
	redirectMode  config.RedirectMode
	redirectDelay time.Duration
}

// NewSongLinkHandler creates a new song link handler
func NewSongLinkHandler(service *services.SongLinkService, renderer *render.SongRenderer, cfg *config.Config) *SongLinkHandler {
	return &SongLinkHandler{
		service:       service,
		renderer:      renderer,
		baseURL:       cfg.BaseURL,
		redirectMode:  cfg.RedirectMode,
		redirectDelay: cfg.RedirectDelay,
	}
}

// requestBaseURL returns the configured base URL or one built from the request
func requestBaseURL(c *gin.Context, configured string) string {
	if configured != "" {
		return configured
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}

	return scheme + "://" + c.Request.Host
}

// suggest finds a stored slug close to the requested one
func (h *SongLinkHandler) suggest(c *gin.Context) string {
	suggestion, err := h.service.SuggestSlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		slog.Warn("Failed to build slug suggestion", "slug", c.Param("slug"), "error", err)
		return ""
	}
	return suggestion
}

// CreateSongLink handles POST /api/songs
func (h *SongLinkHandler) CreateSongLink(c *gin.Context) {
	var req CreateSongLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "spotifyUrl and appleMusicUrl are required",
			"details": err.Error(),
		})
		return
	}

	song, err := h.service.CreateSongLink(c.Request.Context(), services.CreateSongLinkInput{
		SpotifyURL:    req.SpotifyURL,
		AppleMusicURL: req.AppleMusicURL,
	})
	if err != nil {
		var platformErr *services.PlatformError
		switch {
		case errors.Is(err, services.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidSpotifyURL):
			c.JSON(http.StatusBadRequest, gin.H{"error": "spotifyUrl must be a Spotify track link"})
		case errors.Is(err, services.ErrSlugConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.As(err, &platformErr):
			slog.Error("Failed to fetch track metadata", "url", req.SpotifyURL, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch track metadata"})
		default:
			slog.Error("Failed to create song link", "url", req.SpotifyURL, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create song link"})
		}
		return
	}

	h.renderer.RenderSongJSON(c, http.StatusOK, song, requestBaseURL(c, h.baseURL))
}

// RedirectToPlatform handles GET /:slug/:platform
func (h *SongLinkHandler) RedirectToPlatform(c *gin.Context) {
	baseURL := requestBaseURL(c, h.baseURL)

	song, target, err := h.service.ResolveTarget(c.Request.Context(), c.Param("slug"), c.Param("platform"))
	if err != nil {
		if errors.Is(err, services.ErrSongNotFound) {
			h.renderer.RenderNotFound(c, "Song not found", baseURL, h.suggest(c))
			return
		}
		if errors.Is(err, services.ErrUnknownPlatform) {
			h.renderer.RenderNotFound(c, "Song not found", baseURL, "")
			return
		}
		slog.Error("Failed to resolve redirect", "slug", c.Param("slug"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if h.redirectMode == config.RedirectModeInterstitial {
		platform, _ := models.ParsePlatform(c.Param("platform"))
		h.renderer.RenderInterstitial(c, song, platform, target, h.redirectDelay)
		return
	}

	c.Redirect(http.StatusFound, target)
}

// SmartRedirect handles GET /t/:slug by choosing the platform from the User-Agent
func (h *SongLinkHandler) SmartRedirect(c *gin.Context) {
	song, err := h.service.GetSongLink(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, services.ErrSongNotFound) {
			h.renderer.RenderNotFound(c, "Track not found", requestBaseURL(c, h.baseURL), h.suggest(c))
			return
		}
		slog.Error("Failed to load song link", "slug", c.Param("slug"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	platform := models.DetectPlatform(c.GetHeader("User-Agent"))
	c.Redirect(http.StatusFound, song.URLFor(platform))
}

// GetSongPage handles GET /:slug
func (h *SongLinkHandler) GetSongPage(c *gin.Context) {
	baseURL := requestBaseURL(c, h.baseURL)

	song, err := h.service.GetSongLink(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, services.ErrSongNotFound) {
			h.renderer.RenderNotFound(c, "Song not found", baseURL, h.suggest(c))
			return
		}
		slog.Error("Failed to load song link", "slug", c.Param("slug"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if render.WantsJSON(c) {
		h.renderer.RenderSongJSON(c, http.StatusOK, song, baseURL)
		return
	}
	h.renderer.RenderSongPage(c, song, baseURL)
}
