package gateway

import "strings"

// Skin-tone modifiers occupy U+1F3FB through U+1F3FF.
const (
	skinToneFirst = 0x1F3FB
	skinToneLast  = 0x1F3FF
)

// NormalizeEmoji strips skin-tone modifier runes so visually equivalent
// reaction variants (e.g. 👍 and 👍🏽) compare equal.
func NormalizeEmoji(emoji string) string {
	return strings.Map(func(r rune) rune {
		if r >= skinToneFirst && r <= skinToneLast {
			return -1
		}
		return r
	}, emoji)
}

// EmojiEqual reports whether two reaction symbols are the same after
// normalization.
func EmojiEqual(a, b string) bool {
	return NormalizeEmoji(a) == NormalizeEmoji(b)
}
