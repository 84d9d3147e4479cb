package services

import (
	"context"
	"fmt"

	"github.com/xrash/smetrics"
)

// minSuggestionScore is the similarity (0-100) a slug needs to be suggested
const minSuggestionScore = 60

// slugSimilarity scores two slugs from 0 to 100 using edit distance
func slugSimilarity(a, b string) int {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 100
	}
	distance := smetrics.WagnerFischer(a, b, 1, 1, 2)
	score := 100 - distance*100/maxLen
	if score < 0 {
		return 0
	}
	return score
}

// SuggestSlug returns the stored slug closest to a mistyped one, or "" when
// nothing is similar enough
func (s *SongLinkService) SuggestSlug(ctx context.Context, slug string) (string, error) {
	if slug == "" {
		return "", nil
	}

	songs, err := s.songRepo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list song links: %w", err)
	}

	best, bestScore := "", minSuggestionScore-1
	for _, song := range songs {
		if song.Slug == slug {
			return "", nil
		}
		if score := slugSimilarity(slug, song.Slug); score > bestScore {
			best, bestScore = song.Slug, score
		}
	}
	return best, nil
}
