package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port) // default value
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, "https://open.spotify.com/oembed", cfg.OEmbedURL)
	assert.Equal(t, RedirectModeDirect, cfg.RedirectMode)
	assert.Equal(t, 2*time.Second, cfg.RedirectDelay)
	assert.Equal(t, SlugCollisionOverwrite, cfg.SlugCollision)
	assert.False(t, cfg.PersistentStorage())
	assert.False(t, cfg.AdminAuthEnabled())
	assert.False(t, cfg.SpotifyAPIEnabled())
	assert.True(t, cfg.AccentColors)
}

func TestLoad_FromEnvironment(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		verify func(t *testing.T, cfg *Config)
	}{
		{
			name: "port and base URL",
			env: map[string]string{
				"PORT":     "8081",
				"BASE_URL": "https://links.example.com/",
			},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "8081", cfg.Port)
				assert.Equal(t, "https://links.example.com", cfg.BaseURL)
			},
		},
		{
			name: "interstitial mode is case-insensitive",
			env: map[string]string{
				"REDIRECT_MODE":  "Interstitial",
				"REDIRECT_DELAY": "3s",
			},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, RedirectModeInterstitial, cfg.RedirectMode)
				assert.Equal(t, 3*time.Second, cfg.RedirectDelay)
			},
		},
		{
			name: "storage and credentials",
			env: map[string]string{
				"MONGODB_URL":           "mongodb://localhost:27017",
				"VALKEY_URL":            "valkey://localhost:6379",
				"SPOTIFY_CLIENT_ID":     "client-id",
				"SPOTIFY_CLIENT_SECRET": "client-secret",
				"ADMIN_JWT_SECRET":      "s3cret",
				"SLUG_COLLISION":        "reject",
			},
			verify: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.PersistentStorage())
				assert.True(t, cfg.SpotifyAPIEnabled())
				assert.True(t, cfg.AdminAuthEnabled())
				assert.Equal(t, "smartlink", cfg.MongodbDatabase)
				assert.Equal(t, SlugCollisionReject, cfg.SlugCollision)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.NoError(t, err)
			tt.verify(t, cfg)
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		errMsg string
	}{
		{"unknown redirect mode", "REDIRECT_MODE", "teleport", "unsupported redirect mode"},
		{"unknown collision policy", "SLUG_COLLISION", "merge", "unsupported slug collision policy"},
		{"negative delay", "REDIRECT_DELAY", "-1s", "redirect delay cannot be negative"},
		{"malformed duration", "METADATA_TIMEOUT", "soon", "METADATA_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadProfileConfigFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.toml")

	content := `
artist_name = "Nova Lane"
tagline = "Synthwave from the coast"

[[links]]
label = "Instagram"
url = "https://instagram.com/novalane"

[[links]]
label = ""
url = "https://skipped.example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	fileCfg, err := loadProfileConfigFromPath(path)
	require.NoError(t, err)
	require.NotNil(t, fileCfg)

	cfg := DefaultProfileConfig()
	mergeProfileConfig(cfg, fileCfg)

	assert.Equal(t, "Nova Lane", cfg.ArtistName)
	assert.Equal(t, "Synthwave from the coast", cfg.Tagline)
	require.Len(t, cfg.Links, 1)
	assert.Equal(t, "Instagram", cfg.Links[0].Label)
}

func TestLoadProfileConfigFromPath_Missing(t *testing.T) {
	cfg, err := loadProfileConfigFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadProfileConfigFromPath_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(path, []byte("artist_name = "), 0o600))

	_, err := loadProfileConfigFromPath(path)
	assert.Error(t, err)
}

func TestProfileConfigPaths_ExplicitPath(t *testing.T) {
	t.Setenv("PROFILE_CONFIG_PATH", "/tmp/custom.toml")
	assert.Equal(t, []string{"/tmp/custom.toml"}, profileConfigPaths())
}
