// Package stats computes descriptive statistics over parsed chat messages.
//
// Every operation takes a participant selector and the message slice. The
// selector is either Overall or an exact sender name; a sender name limits
// the computation to that sender's messages. Inputs are never modified.
package stats

import (
	"sort"
	"time"
)

// Overall selects every message instead of a single participant.
const Overall = "Overall"

// DefaultMediaPlaceholder is the text exports put in place of omitted media.
const DefaultMediaPlaceholder = "<Media omitted>"

// DefaultTopUsers is the number of participants MostBusyUsers ranks in Top.
const DefaultTopUsers = 5

// Weekdays lists weekday names in calendar-week order.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Months lists month names in calendar order.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Summary holds the headline counts for a selection.
type Summary struct {
	Messages int `json:"messages"`
	Words    int `json:"words"`
	Media    int `json:"media"`
	Links    int `json:"links"`
}

// MonthCount is one point of the monthly timeline.
type MonthCount struct {
	Year      int    `json:"year"`
	MonthNum  int    `json:"month_num"`
	MonthName string `json:"month_name"`
	Label     string `json:"label"`
	Count     int    `json:"count"`
}

// DateCount is one point of the daily timeline.
type DateCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// LabelCount pairs a label with a message count.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Counts maps a label (weekday or month name) to a message count.
type Counts map[string]int

// Total returns the sum of all counts.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Ordered projects the counts onto labels, in the given order. Labels
// without messages are reported with a zero count.
func (c Counts) Ordered(labels []string) []LabelCount {
	result := make([]LabelCount, 0, len(labels))
	for _, label := range labels {
		result = append(result, LabelCount{Label: label, Count: c[label]})
	}
	return result
}

// Ranked returns the non-zero counts sorted by count descending, then label.
func (c Counts) Ranked() []LabelCount {
	result := make([]LabelCount, 0, len(c))
	for label, n := range c {
		if n > 0 {
			result = append(result, LabelCount{Label: label, Count: n})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Label < result[j].Label
	})
	return result
}

// UserCount is a participant with their message count.
type UserCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// UserShare is a participant's share of all participant messages.
type UserShare struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// BusyUsers ranks participants by activity.
type BusyUsers struct {
	// Top holds the most active participants, at most the configured limit.
	Top []UserCount `json:"top"`

	// Shares holds every participant's percentage, in the same ranking.
	Shares []UserShare `json:"shares"`
}

// EmojiCount is an emoji with the number of times it occurs.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}
