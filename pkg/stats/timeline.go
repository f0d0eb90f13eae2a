package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

type monthKey struct {
	year  int
	month int
}

// MonthlyTimeline counts messages per calendar month, oldest first.
// Each point is labeled "MonthName-Year", e.g. "January-2024".
func (e *Engine) MonthlyTimeline(selector string, msgs []parser.Message) []MonthCount {
	selected := Select(selector, msgs)

	counts := make(map[monthKey]int)
	for i := range selected {
		counts[monthKey{year: selected[i].Year, month: selected[i].MonthNum}]++
	}

	keys := make([]monthKey, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	result := make([]MonthCount, 0, len(keys))
	for _, k := range keys {
		name := time.Month(k.month).String()
		result = append(result, MonthCount{
			Year:      k.year,
			MonthNum:  k.month,
			MonthName: name,
			Label:     fmt.Sprintf("%s-%d", name, k.year),
			Count:     counts[k],
		})
	}
	return result
}

// DailyTimeline counts messages per calendar date, oldest first.
func (e *Engine) DailyTimeline(selector string, msgs []parser.Message) []DateCount {
	selected := Select(selector, msgs)

	counts := make(map[time.Time]int)
	dates := make([]time.Time, 0)
	for i := range selected {
		d := selected[i].Date
		if _, ok := counts[d]; !ok {
			dates = append(dates, d)
		}
		counts[d]++
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	result := make([]DateCount, 0, len(dates))
	for _, d := range dates {
		result = append(result, DateCount{Date: d, Count: counts[d]})
	}
	return result
}
