package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// BackfillResult summarizes a cover backfill run
type BackfillResult struct {
	Processed int
	Updated   int
	Failed    int
}

// BackfillCovers re-fetches metadata for records stored without cover art
// and saves the ones that now have a cover. Per-record failures are logged
// and counted; only a failure to list records aborts the run.
func (s *SongLinkService) BackfillCovers(ctx context.Context, limit int) (*BackfillResult, error) {
	songs, err := s.songRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list song links: %w", err)
	}

	result := &BackfillResult{}
	for _, song := range songs {
		if song.Cover != nil {
			continue
		}
		if limit > 0 && result.Processed >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Processed++

		meta, err := s.fetcher.FetchTrackMetadata(ctx, song.SpotifyURL)
		if err != nil {
			slog.Warn("Failed to fetch metadata for backfill", "slug", song.Slug, "error", err)
			result.Failed++
			continue
		}
		if strings.TrimSpace(meta.Cover) == "" {
			continue
		}

		song.SetCover(meta.Cover)
		s.applyAccentColor(ctx, song)
		if song.Artist == "" {
			song.Artist = meta.Artist
		}
		if err := s.songRepo.Save(ctx, song); err != nil {
			slog.Warn("Failed to save backfilled song link", "slug", song.Slug, "error", err)
			result.Failed++
			continue
		}

		slog.Info("Backfilled cover", "slug", song.Slug, "cover", meta.Cover)
		result.Updated++
	}

	return result, nil
}
