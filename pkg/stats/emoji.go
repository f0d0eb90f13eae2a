package stats

import (
	"sort"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// Emojis counts every emoji across the selected messages, most frequent
// first. Ties keep the order in which the emoji first appeared.
// Multi-code-point emoji (skin tones, flags, ZWJ sequences) count as one.
func (e *Engine) Emojis(selector string, msgs []parser.Message) []EmojiCount {
	selected := Select(selector, msgs)

	counts := make(map[string]int)
	order := make([]string, 0)
	for i := range selected {
		for _, emoji := range extractEmojis(selected[i].Text) {
			if _, ok := counts[emoji]; !ok {
				order = append(order, emoji)
			}
			counts[emoji]++
		}
	}

	result := make([]EmojiCount, 0, len(order))
	for _, emoji := range order {
		result = append(result, EmojiCount{Emoji: emoji, Count: counts[emoji]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

// extractEmojis returns the emoji grapheme clusters in text, in order.
func extractEmojis(text string) []string {
	var found []string

	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		// Plain ASCII ("#", digits) is never an emoji on its own
		if len(cluster) == 1 {
			continue
		}
		if gomoji.ContainsEmoji(cluster) {
			found = append(found, cluster)
		}
	}
	return found
}
