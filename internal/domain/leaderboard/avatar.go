package leaderboard

import (
	"hash/fnv"
	"strings"
	"unicode"
)

// avatarPalette is the fixed set of glyph colors. Collisions between
// different users are fine; the glyph is cosmetic only.
var avatarPalette = []string{
	"coral",
	"mint",
	"sunflower",
	"lavender",
	"sky",
	"peach",
	"lime",
	"berry",
}

// DeriveAvatar computes a stable avatar glyph from a user's ID and display
// name: the initials of the name plus a palette color selected by hashing
// the ID. Same input always yields the same glyph; no stored assets.
func DeriveAvatar(userID, displayName string) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	color := avatarPalette[h.Sum32()%uint32(len(avatarPalette))]

	return initials(displayName) + ":" + color
}

// initials extracts up to two uppercase initials from a display name.
// Falls back to "?" for blank names so the glyph is always renderable.
func initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			out = append(out, unicode.ToUpper(r))
			break
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}
