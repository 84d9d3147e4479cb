package config

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// ProfileConfig describes the artist profile page
type ProfileConfig struct {
	ArtistName string `toml:"artist_name"`
	Tagline    string `toml:"tagline"`
	AvatarURL  string `toml:"avatar_url"`

	// Seed for the profile "main links" when the link store is empty
	Links []ProfileLinkConfig `toml:"links"`
}

// ProfileLinkConfig is a single main link entry in the profile file
type ProfileLinkConfig struct {
	Label string `toml:"label"`
	URL   string `toml:"url"`
}

// DefaultProfileConfig returns hard-coded defaults
func DefaultProfileConfig() *ProfileConfig {
	return &ProfileConfig{
		ArtistName: "Artist",
		Tagline:    "New music out now",
	}
}

var (
	profileCfg     *ProfileConfig
	profileCfgOnce sync.Once
	profileCfgMu   sync.RWMutex
)

// GetProfileConfig loads the profile config from the first TOML file found in
// profileConfigPaths. Falls back to defaults when no file can be read or parsed.
func GetProfileConfig() *ProfileConfig {
	profileCfgOnce.Do(func() {
		cfg := DefaultProfileConfig()
		for _, p := range profileConfigPaths() {
			fileCfg, err := loadProfileConfigFromPath(p)
			if err != nil {
				slog.Warn("Failed to read profile config", "path", p, "error", err)
				continue
			}
			if fileCfg != nil {
				mergeProfileConfig(cfg, fileCfg)
				break
			}
		}
		profileCfgMu.Lock()
		profileCfg = cfg
		profileCfgMu.Unlock()
	})
	profileCfgMu.RLock()
	cfg := profileCfg
	profileCfgMu.RUnlock()
	return cfg
}

func loadProfileConfigFromPath(path string) (*ProfileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var cfg ProfileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func mergeProfileConfig(base, override *ProfileConfig) {
	if override == nil || base == nil {
		return
	}
	if override.ArtistName != "" {
		base.ArtistName = override.ArtistName
	}
	if override.Tagline != "" {
		base.Tagline = override.Tagline
	}
	if override.AvatarURL != "" {
		base.AvatarURL = override.AvatarURL
	}
	for _, link := range override.Links {
		if link.Label == "" || link.URL == "" {
			continue
		}
		base.Links = append(base.Links, link)
	}
}

// profileConfigPaths returns the explicit path, or common locations to auto-discover it
func profileConfigPaths() []string {
	if explicit := os.Getenv("PROFILE_CONFIG_PATH"); explicit != "" {
		return []string{explicit}
	}

	paths := []string{
		"profile.toml",
		filepath.Join("config", "profile.toml"),
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "smartlink", "profile.toml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", "smartlink", "profile.toml"))
	}

	paths = append(paths, filepath.Join(string(os.PathSeparator), "etc", "smartlink", "profile.toml"))
	return paths
}

// StartProfileConfigWatcher polls the profile file for changes and reloads it.
// If no file exists, the watcher is a no-op.
func StartProfileConfigWatcher(ctx context.Context, interval time.Duration) {
	var watchPath string
	var lastModTime time.Time
	for _, p := range profileConfigPaths() {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			watchPath = p
			lastModTime = fi.ModTime()
			break
		}
	}
	if watchPath == "" {
		slog.Info("profile config watcher: no config file found; using defaults")
		return
	}

	slog.Info("profile config watcher: watching file", "path", watchPath)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info("profile config watcher: stopped")
				return
			case <-ticker.C:
				fi, err := os.Stat(watchPath)
				if err != nil || fi.IsDir() {
					continue
				}
				if !fi.ModTime().After(lastModTime) {
					continue
				}
				fileCfg, err := loadProfileConfigFromPath(watchPath)
				if err != nil || fileCfg == nil {
					slog.Warn("profile config reload failed", "path", watchPath, "error", err)
					continue
				}
				newCfg := DefaultProfileConfig()
				mergeProfileConfig(newCfg, fileCfg)
				setProfileConfig(newCfg)
				lastModTime = fi.ModTime()
				slog.Info("profile config reloaded", "path", watchPath, "mtime", lastModTime)
			}
		}
	}()
}

// setProfileConfig replaces the active profile config
func setProfileConfig(cfg *ProfileConfig) {
	profileCfgOnce.Do(func() {})
	profileCfgMu.Lock()
	profileCfg = cfg
	profileCfgMu.Unlock()
}
