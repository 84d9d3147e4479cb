package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	testCases := []struct {
		title    string
		expected string
	}{
		{"Sunset Drive", "sunset-drive"},
		{"SUNSET   DRIVE", "sunset-drive"},
		{"  Sunset Drive  ", "sunset-drive"},
		{"Don't Stop (Café Mix)", "dont-stop-cafe-mix"},
		{"Sunset Drive - Remix", "sunset-drive-remix"},
		{"snake_case_title", "snake-case-title"},
		{"Beyoncé", "beyonce"},
		{"Track #9!", "track-9"},
		{"2024", "2024"},
		{"", "track"},
		{"!!!", "track"},
		{"日本語", "track"},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.expected, Slugify(tc.title))
		})
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	titles := []string{"Sunset Drive", "Night Swim (feat. Someone)", "Ça va"}
	for _, title := range titles {
		assert.Equal(t, Slugify(title), Slugify(title))
	}
}

func BenchmarkSlugify(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Slugify("Don't Stop (Café Mix) - Extended Version")
	}
}
