// Package video validates embedded-player video references and derives the
// ordered candidate list a reward session plays through.
package video

import (
	"net/url"
	"regexp"
	"strings"
)

// MaxPlaybackSeconds caps a stored resume offset (6 hours).
const MaxPlaybackSeconds = 6 * 60 * 60

// DefaultFallbacks are tried, in order, after the configured primary video.
var DefaultFallbacks = []string{
	"diQatYOQLV8",
	"u4Oza3X9Nno",
	"SJ2rEpCJNQk",
	"M7lc1UVf-VE",
}

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// IsID reports whether s has the 11-character video token shape.
func IsID(s string) bool {
	return idPattern.MatchString(s)
}

// ParseID extracts a video id from a bare token or a YouTube URL.
// It returns "" when no id can be found.
func ParseID(input string) string {
	value := strings.TrimSpace(input)
	if IsID(value) {
		return value
	}

	u, err := url.Parse(value)
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	segments := splitPath(u.Path)

	switch host {
	case "youtube.com", "m.youtube.com":
		if v := u.Query().Get("v"); IsID(v) {
			return v
		}
		for i, part := range segments {
			if (part == "embed" || part == "shorts") && i+1 < len(segments) && IsID(segments[i+1]) {
				return segments[i+1]
			}
		}
	case "youtu.be":
		if len(segments) > 0 && IsID(segments[0]) {
			return segments[0]
		}
	}
	return ""
}

func splitPath(p string) []string {
	var out []string
	for _, part := range strings.Split(p, "/") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// BuildCandidates returns primary followed by fallbacks, each normalized
// through ParseID, with invalid entries dropped and duplicates removed.
func BuildCandidates(primary string, fallbacks []string) []string {
	seen := make(map[string]bool, len(fallbacks)+1)
	candidates := make([]string, 0, len(fallbacks)+1)
	for _, raw := range append([]string{primary}, fallbacks...) {
		id := ParseID(raw)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		candidates = append(candidates, id)
	}
	return candidates
}

// ErrorReason maps an embedded-player error code to a user-facing reason.
func ErrorReason(code int) string {
	switch code {
	case 2:
		return "The video parameters are invalid."
	case 5:
		return "The video cannot be played in the HTML5 player right now."
	case 100:
		return "The video does not exist or has been removed."
	case 101, 150:
		return "The video does not allow embedded playback, trying the next one."
	default:
		return "An unknown error occurred while playing the video."
	}
}

// Position is the last-known resume point for the embedded player.
type Position struct {
	VideoID     string `json:"videoId"`
	TimeSeconds int    `json:"timeSeconds"`
}

// NormalizePosition validates the video id (falling back to fallbackID) and
// clamps the offset into [0, MaxPlaybackSeconds]. Fractional seconds are
// truncated by the caller before reaching here.
func NormalizePosition(p Position, fallbackID string) Position {
	id := ParseID(p.VideoID)
	if id == "" {
		id = ParseID(fallbackID)
	}
	secs := p.TimeSeconds
	if secs < 0 {
		secs = 0
	}
	if secs > MaxPlaybackSeconds {
		secs = MaxPlaybackSeconds
	}
	return Position{VideoID: id, TimeSeconds: secs}
}

// Start is where a session begins playback.
type Start struct {
	Index       int
	TimeSeconds int
}

// ResolveStart matches the stored position against candidates. The stored
// offset is returned only when the stored id is found in the list; any other
// case starts the first candidate from 0.
func ResolveStart(stored *Position, candidates []string) Start {
	if len(candidates) == 0 || stored == nil {
		return Start{}
	}
	storedID := ParseID(stored.VideoID)
	if storedID == "" {
		return Start{}
	}
	pos := NormalizePosition(*stored, storedID)
	for i, id := range candidates {
		if id == storedID {
			return Start{Index: i, TimeSeconds: pos.TimeSeconds}
		}
	}
	return Start{}
}
