package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// RedirectMode controls how fan links reach the streaming platform
type RedirectMode string

const (
	RedirectModeDirect       RedirectMode = "direct"       // 302 straight to the platform
	RedirectModeInterstitial RedirectMode = "interstitial" // loading page with a delayed client-side redirect
)

// SlugCollisionPolicy decides what happens when a new song derives an existing slug
type SlugCollisionPolicy string

const (
	SlugCollisionOverwrite SlugCollisionPolicy = "overwrite"
	SlugCollisionReject    SlugCollisionPolicy = "reject"
)

// Config holds all configuration for the application
type Config struct {
	// Application settings
	Port            string        `envconfig:"PORT" default:"3000"`
	GinMode         string        `envconfig:"GIN_MODE" default:"release"`
	BaseURL         string        `envconfig:"BASE_URL"` // empty means derive from the request
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Storage (both optional, memory store is used otherwise)
	MongodbURL      string `envconfig:"MONGODB_URL"`
	MongodbDatabase string `envconfig:"MONGODB_DATABASE" default:"smartlink"`
	ValkeyURL       string `envconfig:"VALKEY_URL"`
	CacheMaxItems   int    `envconfig:"CACHE_MAX_ITEMS" default:"1000"`

	// Metadata
	OEmbedURL           string        `envconfig:"OEMBED_URL" default:"https://open.spotify.com/oembed"`
	MetadataTimeout     time.Duration `envconfig:"METADATA_TIMEOUT" default:"10s"`
	MetadataRetryCount  int           `envconfig:"METADATA_RETRY_COUNT" default:"2"`
	MetadataCacheTTL    time.Duration `envconfig:"METADATA_CACHE_TTL" default:"24h"`
	SpotifyClientID     string        `envconfig:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string        `envconfig:"SPOTIFY_CLIENT_SECRET"`
	AccentColors        bool          `envconfig:"ACCENT_COLORS" default:"true"` // theme pages from cover art

	// Fan links
	RedirectMode  RedirectMode        `envconfig:"REDIRECT_MODE" default:"direct"`
	RedirectDelay time.Duration       `envconfig:"REDIRECT_DELAY" default:"2s"`
	SlugCollision SlugCollisionPolicy `envconfig:"SLUG_COLLISION" default:"overwrite"`

	// Admin
	AdminJWTSecret string        `envconfig:"ADMIN_JWT_SECRET"`
	AdminTokenTTL  time.Duration `envconfig:"ADMIN_TOKEN_TTL" default:"720h"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}

	cfg.RedirectMode = RedirectMode(strings.ToLower(string(cfg.RedirectMode)))
	cfg.SlugCollision = SlugCollisionPolicy(strings.ToLower(string(cfg.SlugCollision)))
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks enum-like settings and ranges
func (c *Config) Validate() error {
	switch c.RedirectMode {
	case RedirectModeDirect, RedirectModeInterstitial:
	default:
		return fmt.Errorf("unsupported redirect mode: %s", c.RedirectMode)
	}

	switch c.SlugCollision {
	case SlugCollisionOverwrite, SlugCollisionReject:
	default:
		return fmt.Errorf("unsupported slug collision policy: %s", c.SlugCollision)
	}

	if c.RedirectDelay < 0 {
		return fmt.Errorf("redirect delay cannot be negative")
	}
	if c.MetadataRetryCount < 0 {
		return fmt.Errorf("metadata retry count cannot be negative")
	}
	if c.OEmbedURL == "" {
		return fmt.Errorf("oembed URL is required")
	}

	return nil
}

// SpotifyAPIEnabled reports whether Web API credentials are present
func (c *Config) SpotifyAPIEnabled() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

// AdminAuthEnabled reports whether admin routes require a bearer token
func (c *Config) AdminAuthEnabled() bool {
	return c.AdminJWTSecret != ""
}

// PersistentStorage reports whether MongoDB backs the repositories
func (c *Config) PersistentStorage() bool {
	return c.MongodbURL != ""
}
