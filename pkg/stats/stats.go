package stats

import (
	"regexp"

	"mvdan.cc/xurls/v2"

	"github.com/ccollicutt/chatstat/pkg/parser"
	"github.com/ccollicutt/chatstat/pkg/sentiment"
)

// Engine computes statistics over message slices. It holds only
// configuration, so a single Engine can serve any number of chats.
type Engine struct {
	mediaPlaceholder string
	topUsers         int
	urls             *regexp.Regexp
	scorer           *sentiment.Scorer
}

// Option configures the Engine.
type Option func(*Engine)

// WithMediaPlaceholder sets the text that marks an omitted media message.
func WithMediaPlaceholder(placeholder string) Option {
	return func(e *Engine) {
		if placeholder != "" {
			e.mediaPlaceholder = placeholder
		}
	}
}

// WithTopUsers sets how many participants MostBusyUsers returns in Top.
func WithTopUsers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topUsers = n
		}
	}
}

// WithStrictURLs only counts links that carry a scheme (https://...).
// By default bare domains such as example.com are counted too.
func WithStrictURLs() Option {
	return func(e *Engine) {
		e.urls = xurls.Strict()
	}
}

// WithScorer sets the sentiment scorer.
func WithScorer(s *sentiment.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		mediaPlaceholder: DefaultMediaPlaceholder,
		topUsers:         DefaultTopUsers,
		urls:             xurls.Relaxed(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.scorer == nil {
		e.scorer = sentiment.NewScorer()
	}
	return e
}

// Select returns the messages a selector refers to: all of them for
// Overall, otherwise those sent by the named participant.
func Select(selector string, msgs []parser.Message) []parser.Message {
	if selector == Overall {
		return msgs
	}
	return parser.FilterBySender(msgs, selector)
}
