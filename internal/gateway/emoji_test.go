package gateway

import "testing"

func TestNormalizeEmoji(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		want  string
	}{
		{"Plain", "👍", "👍"},
		{"MediumSkinTone", "👍🏽", "👍"},
		{"LightSkinTone", "👋🏻", "👋"},
		{"DarkSkinTone", "🙆🏿", "🙆"},
		{"NonEmoji", "ok", "ok"},
		{"Empty", "", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeEmoji(tc.input); got != tc.want {
				t.Errorf("NormalizeEmoji(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestEmojiEqual(t *testing.T) {
	for _, tc := range []struct {
		a, b string
		want bool
	}{
		{"👍", "👍🏽", true},
		{"👍🏻", "👍🏿", true},
		{"👋", "👋", true},
		{"👍", "👎", false},
		{"👍🏽", "👎🏽", false},
	} {
		if got := EmojiEqual(tc.a, tc.b); got != tc.want {
			t.Errorf("EmojiEqual(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
