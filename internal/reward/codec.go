package reward

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/abhisek/abcadventure/internal/letters"
	"github.com/abhisek/abcadventure/internal/video"
)

// Encode serializes s for storage.
func Encode(s State) ([]byte, error) {
	if s.LearnedLetters == nil {
		s.LearnedLetters = []string{}
	}
	return json.Marshal(s)
}

// Decode rebuilds a State from a stored blob, re-validating every field.
// It never fails: malformed JSON yields the first-run state, and each field
// that is missing, mistyped, or out of range falls back or is clamped. This
// lets hand-edited and older records load.
func Decode(raw []byte) State {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return NewState(DefaultSettings())
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return NewState(DefaultSettings())
	}

	settings := decodeSettings(root.Get("settings"))
	s := NewState(settings)
	s.LearnedLetters = decodeLetters(root.Get("learnedLetters"))
	s.WatchedSessions = nonNegative(root.Get("watchedSessions"))
	s.Score = nonNegative(root.Get("score"))
	s.Streak = nonNegative(root.Get("streak"))
	if last := root.Get("lastLearnedLetter"); last.Type == gjson.String {
		if item, ok := letters.Lookup(last.Str); ok {
			s.LastLearnedLetter = item.Letter
		}
	}

	pb := root.Get("rewardPlayback")
	secs, _ := number(pb.Get("timeSeconds"))
	s.RewardPlayback = video.NormalizePosition(video.Position{
		VideoID:     pb.Get("videoId").String(),
		TimeSeconds: int(math.Floor(secs)),
	}, settings.YouTubeVideoID)

	ar := root.Get("activeReward")
	remaining, _ := number(ar.Get("remainingSeconds"))
	s.ActiveReward = ActiveReward{
		InProgress:       truthy(ar.Get("inProgress")),
		RemainingSeconds: int(remaining),
		Consumed:         truthy(ar.Get("consumed")),
	}.Normalize()

	return s
}

// DecodeSettings normalizes a standalone settings document.
func DecodeSettings(raw []byte) Settings {
	if !gjson.ValidBytes(raw) {
		return DefaultSettings()
	}
	return decodeSettings(gjson.ParseBytes(raw))
}

func decodeSettings(r gjson.Result) Settings {
	def := DefaultSettings()
	if !r.IsObject() {
		return def
	}

	out := def
	if n, ok := number(r.Get("lettersPerReward")); ok && n != 0 {
		out.LettersPerReward = clamp(int(n), MinLettersPerReward, MaxLettersPerReward)
	}

	// Older records stored whole minutes.
	secsField := r.Get("rewardSeconds")
	if !secsField.Exists() || secsField.Type == gjson.Null {
		if m, ok := number(r.Get("rewardMinutes")); ok && m != 0 {
			out.RewardSeconds = clamp(int(m*60), MinRewardSeconds, MaxRewardSeconds)
		}
	} else if n, ok := number(secsField); ok && n != 0 {
		out.RewardSeconds = clamp(int(n), MinRewardSeconds, MaxRewardSeconds)
	}

	if id := video.ParseID(r.Get("youtubeVideoId").String()); id != "" {
		out.YouTubeVideoID = id
	}
	out.RewardOrientation = NormalizeOrientation(r.Get("rewardOrientation").String())

	if pin := r.Get("parentPin"); pin.Exists() && ValidPIN(pin.String()) {
		out.ParentPIN = pin.String()
	}

	// Only an explicit false disables rewards.
	out.RewardEnabled = r.Get("rewardEnabled").Type != gjson.False
	return out
}

func decodeLetters(r gjson.Result) []string {
	out := []string{}
	if !r.IsArray() {
		return out
	}
	seen := make(map[string]bool)
	for _, el := range r.Array() {
		if el.Type != gjson.String {
			continue
		}
		l := strings.ToUpper(el.Str)
		if !letterPattern.MatchString(l) || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// maxDecoded keeps absurd stored numbers inside int range.
const maxDecoded = 1 << 40

// number reads r as a finite number, accepting numeric strings.
func number(r gjson.Result) (float64, bool) {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Num
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		v = f
	case gjson.True:
		v = 1
	case gjson.False, gjson.Null:
		return 0, true
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return math.Max(-maxDecoded, math.Min(maxDecoded, v)), true
}

func nonNegative(r gjson.Result) int {
	n, ok := number(r)
	if !ok || n < 0 {
		return 0
	}
	return int(n)
}

func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		return true
	default:
		return false
	}
}
