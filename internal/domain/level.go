package domain

import "strings"

// Level is the habit priority. Canonical values are High, Medium and Low;
// anything else read from storage is classified as Unknown rather than
// silently coerced.
type Level string

const (
	LevelHigh    Level = "High"
	LevelMedium  Level = "Medium"
	LevelLow     Level = "Low"
	LevelUnknown Level = "Unknown"
)

// ParseLevel normalizes raw input to a canonical Level. Matching is
// case-insensitive and tolerates the legacy "hight" spelling found in old
// records. ok is false for empty or unrecognized input.
func ParseLevel(raw string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high", "hight":
		return LevelHigh, true
	case "medium":
		return LevelMedium, true
	case "low":
		return LevelLow, true
	default:
		return LevelUnknown, false
	}
}

// Color maps a level to its display color. Total: unrecognized values
// (including whatever historical data contains) fall back to gray.
func (l Level) Color() string {
	switch strings.ToLower(string(l)) {
	case "high", "hight":
		return "#FF0000"
	case "medium":
		return "#FFD700"
	case "low":
		return "#32CD32"
	default:
		return "#808080"
	}
}
