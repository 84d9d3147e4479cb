package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"smartlink/internal/handlers/render"
	"smartlink/internal/models"
	"smartlink/internal/services"
)

// AdminHandler handles administrative requests
type AdminHandler struct {
	service *services.SongLinkService
	db      *models.Database // nil when running on the memory store
	baseURL string
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service *services.SongLinkService, db *models.Database, baseURL string) *AdminHandler {
	return &AdminHandler{
		service: service,
		db:      db,
		baseURL: baseURL,
	}
}

// StorageStats represents storage statistics
type StorageStats struct {
	Backend        string            `json:"backend"`
	TotalSongs     int64             `json:"total_songs"`
	DatabaseName   string            `json:"database_name,omitempty"`
	TotalSize      float64           `json:"total_size_mb,omitempty"`
	StorageSize    float64           `json:"storage_size_mb,omitempty"`
	IndexSize      float64           `json:"index_size_mb,omitempty"`
	Collections    []CollectionStats `json:"collections,omitempty"`
	RecentActivity []RecentSong      `json:"recent_activity"`
	LastUpdated    time.Time         `json:"last_updated"`
}

// CollectionStats represents statistics for a single collection
type CollectionStats struct {
	Name       string  `json:"name"`
	Documents  int64   `json:"documents"`
	DataSize   float64 `json:"data_size_mb"`
	IndexSize  float64 `json:"index_size_mb"`
	AvgDocSize float64 `json:"avg_doc_size_bytes"`
}

// RecentSong represents a recently added song link
type RecentSong struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// recentActivityLimit caps the songs listed in stats
const recentActivityLimit = 5

// ListSongs handles GET /api/songs, a dump of every stored record
func (h *AdminHandler) ListSongs(c *gin.Context) {
	songs, err := h.service.ListSongLinks(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list song links", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list songs"})
		return
	}

	baseURL := requestBaseURL(c, h.baseURL)
	response := make([]render.SongLinkResponse, 0, len(songs))
	for _, song := range songs {
		response = append(response, render.NewSongLinkResponse(song, baseURL))
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(response),
		"songs": response,
	})
}

// GetStats handles GET /api/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	stats, err := h.collectStats(ctx)
	if err != nil {
		slog.Error("Failed to collect storage stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to collect storage statistics",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// collectStats gathers song counts plus MongoDB sizes when available
func (h *AdminHandler) collectStats(ctx context.Context) (*StorageStats, error) {
	stats := &StorageStats{
		Backend:        "memory",
		RecentActivity: []RecentSong{},
		LastUpdated:    time.Now(),
	}

	count, err := h.service.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count songs: %w", err)
	}
	stats.TotalSongs = count

	songs, err := h.service.ListSongLinks(ctx)
	if err != nil {
		slog.Warn("Failed to get recent activity", "error", err)
	} else {
		for i, song := range songs {
			if i == recentActivityLimit {
				break
			}
			stats.RecentActivity = append(stats.RecentActivity, RecentSong{
				Slug:      song.Slug,
				Title:     song.Title,
				CreatedAt: song.CreatedAt,
			})
		}
	}

	if h.db == nil {
		return stats, nil
	}

	stats.Backend = "mongodb"
	if err := h.collectDatabaseStats(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// collectDatabaseStats fills in MongoDB size information
func (h *AdminHandler) collectDatabaseStats(ctx context.Context, stats *StorageStats) error {
	database := h.db.DB
	stats.DatabaseName = database.Name()

	var dbStats bson.M
	if err := database.RunCommand(ctx, bson.D{{Key: "dbStats", Value: 1}}).Decode(&dbStats); err != nil {
		return fmt.Errorf("failed to get database stats: %w", err)
	}

	stats.TotalSize = megabytes(dbStats["dataSize"])
	stats.StorageSize = megabytes(dbStats["storageSize"])
	stats.IndexSize = megabytes(dbStats["indexSize"])

	for _, collName := range []string{models.SongLinksCollection, models.ProfileCollection} {
		var collStats bson.M
		err := database.RunCommand(ctx, bson.D{{Key: "collStats", Value: collName}}).Decode(&collStats)
		if err != nil {
			slog.Warn("Failed to get collection stats", "collection", collName, "error", err)
			continue
		}

		collectionStat := CollectionStats{
			Name:      collName,
			Documents: int64(toFloat(collStats["count"])),
			DataSize:  megabytes(collStats["size"]),
			IndexSize: megabytes(collStats["totalIndexSize"]),
		}
		if collectionStat.Documents > 0 {
			collectionStat.AvgDocSize = toFloat(collStats["size"]) / float64(collectionStat.Documents)
		}

		stats.Collections = append(stats.Collections, collectionStat)
	}

	return nil
}

// toFloat converts the numeric types MongoDB returns for stats
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

func megabytes(v interface{}) float64 {
	return toFloat(v) / 1024 / 1024
}
