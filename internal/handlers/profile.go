package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartlink/internal/config"
	"smartlink/internal/handlers/render"
	"smartlink/internal/models"
	"smartlink/internal/services"
)

// ReplaceLinksRequest is the PUT /api/links body
type ReplaceLinksRequest struct {
	Links []models.ProfileLink `json:"links" binding:"required,dive"`
}

// ProfileHandler serves the artist profile page and its main links
type ProfileHandler struct {
	service  *services.SongLinkService
	renderer *render.SongRenderer
	baseURL  string
	profile  func() *config.ProfileConfig
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service *services.SongLinkService, renderer *render.SongRenderer, baseURL string, profile func() *config.ProfileConfig) *ProfileHandler {
	return &ProfileHandler{
		service:  service,
		renderer: renderer,
		baseURL:  baseURL,
		profile:  profile,
	}
}

// ProfilePage handles GET /
func (h *ProfileHandler) ProfilePage(c *gin.Context) {
	baseURL := requestBaseURL(c, h.baseURL)
	profile := h.profile()

	if render.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{
			"name":   profile.ArtistName,
			"status": "ok",
			"endpoints": gin.H{
				"createSong":   "POST " + baseURL + "/api/songs",
				"listSongs":    "GET " + baseURL + "/api/songs",
				"links":        "GET|PUT " + baseURL + "/api/links",
				"songPage":     "GET " + baseURL + "/:slug",
				"redirect":     "GET " + baseURL + "/:slug/:platform",
				"smartLink":    "GET " + baseURL + "/t/:slug",
				"healthStatus": "GET " + baseURL + "/health",
			},
		})
		return
	}

	songs, err := h.service.ListSongLinks(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list songs for profile page", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load songs"})
		return
	}

	links, err := h.service.ProfileLinks(c.Request.Context())
	if err != nil {
		slog.Warn("Failed to load profile links", "error", err)
		links = nil
	}

	data := render.ProfilePageData{
		ArtistName: profile.ArtistName,
		Tagline:    profile.Tagline,
		AvatarURL:  profile.AvatarURL,
		Links:      links,
		Songs:      make([]render.SongCard, 0, len(songs)),
	}
	for _, song := range songs {
		data.Songs = append(data.Songs, render.SongCard{
			Title:   song.Title,
			Artist:  song.Artist,
			Cover:   song.CoverURL(),
			PageURL: baseURL + "/" + song.Slug,
		})
	}

	h.renderer.RenderProfilePage(c, data)
}

// GetLinks handles GET /api/links
func (h *ProfileHandler) GetLinks(c *gin.Context) {
	links, err := h.service.ProfileLinks(c.Request.Context())
	if err != nil {
		slog.Error("Failed to load profile links", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load links"})
		return
	}
	if links == nil {
		links = []models.ProfileLink{}
	}

	c.JSON(http.StatusOK, gin.H{"links": links})
}

// ReplaceLinks handles PUT /api/links
func (h *ProfileHandler) ReplaceLinks(c *gin.Context) {
	var req ReplaceLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.service.ReplaceProfileLinks(c.Request.Context(), req.Links); err != nil {
		slog.Error("Failed to replace profile links", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save links"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": req.Links})
}
