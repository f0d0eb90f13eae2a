package stats

import (
	"strings"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// FetchStats returns the message, word, media and link counts for a
// selection. Words are whitespace-separated tokens; a message may
// contribute any number of links.
func (e *Engine) FetchStats(selector string, msgs []parser.Message) Summary {
	selected := Select(selector, msgs)

	s := Summary{Messages: len(selected)}
	for i := range selected {
		text := selected[i].Text
		s.Words += len(strings.Fields(text))
		if e.IsMedia(text) {
			s.Media++
		}
		s.Links += len(e.urls.FindAllString(text, -1))
	}
	return s
}

// IsMedia reports whether text is the omitted-media placeholder.
func (e *Engine) IsMedia(text string) bool {
	return strings.TrimSpace(text) == e.mediaPlaceholder
}
