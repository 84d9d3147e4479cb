package handlers

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"smartlink/internal/handlers/render"
	"smartlink/internal/models"
)

// platformUIRegistry holds UI configuration for the platforms fans can be sent to
var platformUIRegistry = map[models.Platform]*render.PlatformUIConfig{
	models.PlatformSpotify: {
		Name:        "Spotify",
		IconURL:     "https://upload.wikimedia.org/wikipedia/commons/8/84/Spotify_icon.svg",
		Color:       "#1DB954",
		ButtonText:  "Listen on Spotify",
		BadgeClass:  "platform-spotify",
		Description: "Listen on Spotify",
	},
	models.PlatformApple: {
		Name:        "Apple Music",
		IconURL:     "https://upload.wikimedia.org/wikipedia/commons/5/5f/Apple_Music_icon.svg",
		Color:       "#FA233B",
		ButtonText:  "Listen on Apple Music",
		BadgeClass:  "platform-apple-music",
		Description: "Listen on Apple Music",
	},
}

// GetPlatformUIConfig returns UI configuration for a platform
func GetPlatformUIConfig(platform models.Platform) *render.PlatformUIConfig {
	if config, exists := platformUIRegistry[platform]; exists {
		return config
	}

	name := platform.DisplayName()
	return &render.PlatformUIConfig{
		Name:        name,
		Color:       "#666666",
		ButtonText:  fmt.Sprintf("Listen on %s", name),
		BadgeClass:  fmt.Sprintf("platform-%s", strings.ReplaceAll(string(platform), "_", "-")),
		Description: fmt.Sprintf("Listen on %s", name),
	}
}

// GetPlatformCSS generates CSS variables for platform colors
func GetPlatformCSS() template.CSS {
	platforms := make([]string, 0, len(platformUIRegistry))
	for platform := range platformUIRegistry {
		platforms = append(platforms, string(platform))
	}
	sort.Strings(platforms)

	var css strings.Builder
	css.WriteString(":root {\n")
	for _, platform := range platforms {
		config := platformUIRegistry[models.Platform(platform)]
		fmt.Fprintf(&css, "  --color-%s: %s;\n", strings.ReplaceAll(platform, "_", "-"), config.Color)
	}
	css.WriteString("}\n")

	return template.CSS(css.String())
}
