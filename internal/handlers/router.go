package handlers

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	Songs       *SongLinkHandler
	Profile     *ProfileHandler
	Admin       *AdminHandler
	Health      *HealthHandler
	AdminSecret string
}

// NewRouter builds the gin engine with every route registered
func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(), gin.Recovery())

	admin := AdminAuth(h.AdminSecret)

	router.GET("/health", h.Health.Health)

	api := router.Group("/api")
	{
		api.POST("/songs", admin, h.Songs.CreateSongLink)
		api.GET("/songs", admin, h.Admin.ListSongs)
		api.GET("/links", h.Profile.GetLinks)
		api.PUT("/links", admin, h.Profile.ReplaceLinks)
		api.GET("/admin/stats", admin, h.Admin.GetStats)
	}
	router.POST("/songs", admin, h.Songs.CreateSongLink)

	router.GET("/", h.Profile.ProfilePage)
	router.GET("/t/:slug", h.Songs.SmartRedirect)
	router.GET("/:slug", h.Songs.GetSongPage)
	router.GET("/:slug/:platform", h.Songs.RedirectToPlatform)

	return router
}
