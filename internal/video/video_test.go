package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short url", "https://youtu.be/abc123XYZ09", "abc123XYZ09"},
		{"bare id", "M7lc1UVf-VE", "M7lc1UVf-VE"},
		{"bare id with spaces", "  M7lc1UVf-VE ", "M7lc1UVf-VE"},
		{"embed url", "https://www.youtube.com/embed/u4Oza3X9Nno?rel=0", "u4Oza3X9Nno"},
		{"shorts url", "https://m.youtube.com/shorts/SJ2rEpCJNQk", "SJ2rEpCJNQk"},
		{"other host", "https://example.com/video.mp4", ""},
		{"too short", "abc", ""},
		{"empty", "", ""},
		{"youtube without id", "https://youtube.com/feed", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseID(tt.input))
		})
	}
}

func TestBuildCandidates_PrimaryFirstAndDeduped(t *testing.T) {
	got := BuildCandidates("M7lc1UVf-VE", []string{
		"M7lc1UVf-VE",
		"diQatYOQLV8",
		"bad-value",
		"u4Oza3X9Nno",
	})
	assert.Equal(t, []string{"M7lc1UVf-VE", "diQatYOQLV8", "u4Oza3X9Nno"}, got)
}

func TestBuildCandidates_InvalidPrimary(t *testing.T) {
	got := BuildCandidates("nope", DefaultFallbacks)
	assert.Equal(t, DefaultFallbacks, got)
}

func TestBuildCandidates_Empty(t *testing.T) {
	assert.Empty(t, BuildCandidates("", nil))
}

func TestErrorReason(t *testing.T) {
	assert.Contains(t, ErrorReason(101), "embedded")
	assert.Equal(t, ErrorReason(101), ErrorReason(150))
	assert.Contains(t, ErrorReason(5), "HTML5")
	assert.Contains(t, ErrorReason(100), "removed")
	assert.Contains(t, ErrorReason(2), "invalid")
	assert.Contains(t, ErrorReason(999), "unknown")
}

func TestNormalizePosition(t *testing.T) {
	tests := []struct {
		name     string
		in       Position
		fallback string
		want     Position
	}{
		{"url id", Position{"https://youtu.be/u4Oza3X9Nno", 125}, "diQatYOQLV8", Position{"u4Oza3X9Nno", 125}},
		{"invalid id uses fallback", Position{"bad", 10}, "diQatYOQLV8", Position{"diQatYOQLV8", 10}},
		{"negative seconds", Position{"diQatYOQLV8", -4}, "", Position{"diQatYOQLV8", 0}},
		{"over six hours", Position{"diQatYOQLV8", MaxPlaybackSeconds + 1}, "", Position{"diQatYOQLV8", MaxPlaybackSeconds}},
		{"nothing valid", Position{"", 3}, "", Position{"", 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePosition(tt.in, tt.fallback))
		})
	}
}

func TestResolveStart(t *testing.T) {
	candidates := []string{"diQatYOQLV8", "u4Oza3X9Nno", "SJ2rEpCJNQk"}

	tests := []struct {
		name   string
		stored *Position
		cands  []string
		want   Start
	}{
		{"matching candidate", &Position{"u4Oza3X9Nno", 88}, candidates, Start{Index: 1, TimeSeconds: 88}},
		{"first candidate", &Position{"diQatYOQLV8", 12}, candidates, Start{Index: 0, TimeSeconds: 12}},
		{"unknown id", &Position{"M7lc1UVf-VE", 40}, candidates, Start{}},
		{"invalid id", &Position{"bad", 40}, candidates, Start{}},
		{"no stored position", nil, candidates, Start{}},
		{"no candidates", &Position{"u4Oza3X9Nno", 88}, nil, Start{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStart(tt.stored, tt.cands))
		})
	}
}
