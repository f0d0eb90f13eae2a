package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

// Parser converts exported chat text into an ordered slice of messages.
// Header formats are tried in order; lines that match none continue the
// previous message.
type Parser struct {
	formats []*HeaderFormat
	ts      *TimestampParser

	order DateOrder
	loc   *time.Location
}

// Option configures the Parser.
type Option func(*Parser)

// WithFormats replaces the header formats tried for each line.
func WithFormats(formats ...*HeaderFormat) Option {
	return func(p *Parser) {
		if len(formats) > 0 {
			p.formats = formats
		}
	}
}

// WithDateOrder sets how ambiguous numeric dates are read.
func WithDateOrder(order DateOrder) Option {
	return func(p *Parser) {
		p.order = order
	}
}

// WithLocation sets the time zone timestamps are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		p.loc = loc
	}
}

// New creates a Parser with the default header formats.
func New(opts ...Option) *Parser {
	p := &Parser{
		formats: DefaultHeaderFormats(),
		order:   DateOrderAuto,
		loc:     time.UTC,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.ts = NewTimestampParser(p.order, p.loc)
	return p
}

// Parse parses a complete chat export held in memory. It never fails:
// lines before the first header are dropped and headers whose timestamp
// cannot be parsed are treated as continuation text.
func Parse(text string) []Message {
	return New().Parse(text)
}

// Parse parses a complete chat export held in memory.
func (p *Parser) Parse(text string) []Message {
	t := p.newTokenizer()
	if text == "" {
		return t.finish()
	}
	for i, line := range strings.Split(text, "\n") {
		t.feed(line, i+1)
	}
	return t.finish()
}

// ParseReader reads an export from r and parses it. Lines of any length
// are accepted. Only read errors and context cancellation are returned.
func (p *Parser) ParseReader(ctx context.Context, r io.Reader) ([]Message, error) {
	t := p.newTokenizer()
	reader := bufio.NewReader(r)

	lineNum := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if len(line) > 0 || err == nil {
			lineNum++
			t.feed(strings.TrimSuffix(line, "\n"), lineNum)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading chat export: %w", err)
		}
	}

	return t.finish(), nil
}

// tokenizer accumulates messages line by line.
type tokenizer struct {
	p        *Parser
	messages []Message
	current  *Message
	body     strings.Builder
}

func (p *Parser) newTokenizer() *tokenizer {
	return &tokenizer{p: p, messages: make([]Message, 0)}
}

func (t *tokenizer) feed(raw string, lineNum int) {
	raw = strings.TrimRight(raw, "\r")
	line := NormalizeLine(raw)

	for _, f := range t.p.formats {
		h, ok := f.Match(line)
		if !ok {
			continue
		}

		ts, err := t.p.ts.Parse(h.Date, h.Clock)
		if err != nil {
			// Looks like a header but is not a valid date; keep as text
			break
		}

		t.flush()
		sender, text := splitSender(h.Rest)
		// Headers are matched on the normalized line; the body stays raw
		text = rawSuffix(raw, text)
		msg := newMessage(ts, sender, text)
		msg.LineNum = lineNum
		msg.Format = f.Name
		t.current = &msg
		t.body.WriteString(text)
		return
	}

	if t.current == nil {
		return
	}
	t.body.WriteByte('\n')
	t.body.WriteString(raw)
}

// rawSuffix returns the tail of raw that normalized was derived from.
// NormalizeLine only trims a prefix and replaces rune for rune, so the
// tail has the same number of runes.
func rawSuffix(raw, normalized string) string {
	i := len(raw)
	for n := utf8.RuneCountInString(normalized); n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(raw[:i])
		i -= size
	}
	return raw[i:]
}

func (t *tokenizer) flush() {
	if t.current == nil {
		return
	}
	t.current.Text = strings.TrimRight(t.body.String(), "\n")
	t.messages = append(t.messages, *t.current)
	t.current = nil
	t.body.Reset()
}

func (t *tokenizer) finish() []Message {
	t.flush()
	return t.messages
}
