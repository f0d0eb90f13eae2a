package parser

import (
	"regexp"
	"strings"
)

// HeaderFormat describes one variant of the per-message header line.
// The pattern must define the named groups "date", "time" and "rest" and
// may define "ampm".
type HeaderFormat struct {
	Name       string         // Human-readable name
	Pattern    *regexp.Regexp // Compiled regex (set by DefaultHeaderFormats)
	PatternStr string         // Pattern source
	Examples   []string       // Example header lines
}

// Header holds the pieces captured from a header line.
type Header struct {
	Date  string
	Clock string
	Rest  string
}

// Match tests a line against the format.
func (f *HeaderFormat) Match(line string) (Header, bool) {
	m := f.Pattern.FindStringSubmatch(line)
	if m == nil {
		return Header{}, false
	}

	var h Header
	var ampm string
	for i, name := range f.Pattern.SubexpNames() {
		switch name {
		case "date":
			h.Date = m[i]
		case "time":
			h.Clock = m[i]
		case "ampm":
			ampm = m[i]
		case "rest":
			h.Rest = m[i]
		}
	}
	if ampm != "" {
		h.Clock = strings.TrimSpace(h.Clock) + " " + ampm
	}
	return h, true
}

const (
	datePattern  = `(?P<date>\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4})`
	clockPattern = `(?P<time>\d{1,2}:\d{2}(?::\d{2})?)`
	ampmPattern  = `(?P<ampm>[AaPp]\.?\s?[Mm]\.?)`
)

// DefaultHeaderFormats returns the built-in header formats in the order
// they are tried. Lines are normalized (no-break spaces replaced, leading
// direction marks removed) before matching.
func DefaultHeaderFormats() []*HeaderFormat {
	formats := []*HeaderFormat{
		{
			Name:       "Android 12-hour",
			PatternStr: `^` + datePattern + `,?\s` + clockPattern + `\s?` + ampmPattern + `\s-\s(?P<rest>.*)$`,
			Examples:   []string{"31/12/22, 11:59 PM - Alice: hi", "12/31/22, 11:59\u202fpm - Alice: hi"},
		},
		{
			Name:       "Android 24-hour",
			PatternStr: `^` + datePattern + `,?\s` + clockPattern + `\s-\s(?P<rest>.*)$`,
			Examples:   []string{"31/12/22, 23:59 - Alice: hi", "31.12.2022, 23:59 - Alice: hi"},
		},
		{
			Name:       "iOS bracketed",
			PatternStr: `^\[` + datePattern + `,?\s` + clockPattern + `(?:\s?` + ampmPattern + `)?\]\s(?P<rest>.*)$`,
			Examples:   []string{"[31/12/22, 23:59:01] Alice: hi", "[12/31/22, 11:59:01 PM] Alice: hi"},
		},
	}

	for _, f := range formats {
		f.Pattern = regexp.MustCompile(f.PatternStr)
	}

	return formats
}

var senderPattern = regexp.MustCompile(`^(.+?):\s(.*)$`)

// splitSender separates "Sender: text". Remainders without a sender are
// group notifications and keep the whole remainder as text.
func splitSender(rest string) (string, string) {
	m := senderPattern.FindStringSubmatch(rest)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return GroupNotification, rest
	}
	return strings.TrimSpace(m[1]), m[2]
}

// NormalizeLine strips the byte-order and direction marks exports insert
// and replaces no-break spaces.
func NormalizeLine(line string) string {
	line = strings.TrimRight(line, "\r")
	line = strings.TrimLeft(line, "\ufeff\u200e\u200f")
	return normalizeSpaces(line)
}
