package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateOrder selects how the first two numeric date components are read.
type DateOrder string

const (
	// DateOrderAuto reads day-first and falls back to month-first when the
	// day-first reading is not a valid date.
	DateOrderAuto DateOrder = "auto"
	// DateOrderDMY reads dates as day/month/year.
	DateOrderDMY DateOrder = "dmy"
	// DateOrderMDY reads dates as month/day/year.
	DateOrderMDY DateOrder = "mdy"
)

// Valid returns true if o is a known date order.
func (o DateOrder) Valid() bool {
	switch o {
	case DateOrderAuto, DateOrderDMY, DateOrderMDY:
		return true
	}
	return false
}

var (
	dateSeparators = regexp.MustCompile(`[.\-]`)
	meridiemSuffix = regexp.MustCompile(`(?i)\s*([ap])\.?\s?m\.?$`)
)

var (
	dmyLayouts = []string{"2/1/06", "2/1/2006"}
	mdyLayouts = []string{"1/2/06", "1/2/2006"}

	clock24Layouts = []string{"15:04", "15:04:05"}
	clock12Layouts = []string{"3:04 PM", "3:04:05 PM"}
)

// TimestampParser parses the date and time captured from a chat header.
type TimestampParser struct {
	order DateOrder
	loc   *time.Location
}

// NewTimestampParser creates a timestamp parser. A nil location means UTC.
func NewTimestampParser(order DateOrder, loc *time.Location) *TimestampParser {
	if !order.Valid() {
		order = DateOrderAuto
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TimestampParser{order: order, loc: loc}
}

// Parse combines a captured date and clock string into a time.
// The clock may carry an AM/PM marker in any of the forms exports use
// ("PM", "pm", "p.m.", with or without a separating space).
func (p *TimestampParser) Parse(date, clock string) (time.Time, error) {
	date = dateSeparators.ReplaceAllString(strings.TrimSpace(date), "/")
	clock, twelveHour := normalizeClock(clock)

	clockLayouts := clock24Layouts
	if twelveHour {
		clockLayouts = clock12Layouts
	}

	value := date + " " + clock
	for _, dateLayout := range p.dateLayouts() {
		for _, clockLayout := range clockLayouts {
			ts, err := time.ParseInLocation(dateLayout+" "+clockLayout, value, p.loc)
			if err == nil {
				return ts, nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

func (p *TimestampParser) dateLayouts() []string {
	switch p.order {
	case DateOrderDMY:
		return dmyLayouts
	case DateOrderMDY:
		return mdyLayouts
	default:
		return append(append([]string{}, dmyLayouts...), mdyLayouts...)
	}
}

// normalizeClock rewrites no-break spaces and meridiem variants so the
// result matches the standard library's "PM" layout element.
func normalizeClock(clock string) (string, bool) {
	clock = strings.TrimSpace(normalizeSpaces(clock))

	m := meridiemSuffix.FindStringSubmatchIndex(clock)
	if m == nil {
		return clock, false
	}

	marker := strings.ToUpper(clock[m[2]:m[3]]) + "M"
	return strings.TrimSpace(clock[:m[0]]) + " " + marker, true
}

// normalizeSpaces replaces the narrow and regular no-break spaces exports
// insert before AM/PM markers with plain spaces.
func normalizeSpaces(s string) string {
	return strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(s)
}
