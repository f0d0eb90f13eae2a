package stats

import (
	"fmt"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// WeekActivity counts messages per weekday name. Use
// Counts.Ordered(Weekdays) for calendar-week order.
func (e *Engine) WeekActivity(selector string, msgs []parser.Message) Counts {
	selected := Select(selector, msgs)

	counts := make(Counts)
	for i := range selected {
		counts[selected[i].DayName]++
	}
	return counts
}

// MonthActivity counts messages per month name across all years. Use
// Counts.Ordered(Months) for calendar order.
func (e *Engine) MonthActivity(selector string, msgs []parser.Message) Counts {
	selected := Select(selector, msgs)

	counts := make(Counts)
	for i := range selected {
		counts[selected[i].MonthName]++
	}
	return counts
}

// Periods lists the 24 one-hour heatmap columns: "00-01" ... "23-00".
var Periods = func() []string {
	periods := make([]string, 24)
	for h := range periods {
		periods[h] = PeriodLabel(h)
	}
	return periods
}()

// PeriodLabel returns the heatmap column label for an hour of the day.
func PeriodLabel(hour int) string {
	return fmt.Sprintf("%02d-%02d", hour, (hour+1)%24)
}

// Heatmap is a zero-filled table of message counts by weekday and hour.
// Rows follow Weekdays and columns follow Periods.
type Heatmap struct {
	Days    []string   `json:"days"`
	Periods []string   `json:"periods"`
	Cells   [7][24]int `json:"cells"`
}

// Count returns the cell for a weekday name and period label, or zero
// when either is unknown.
func (h *Heatmap) Count(day, period string) int {
	row, col := indexOf(h.Days, day), indexOf(h.Periods, period)
	if row < 0 || col < 0 {
		return 0
	}
	return h.Cells[row][col]
}

// Total returns the sum of all cells.
func (h *Heatmap) Total() int {
	total := 0
	for _, row := range h.Cells {
		for _, n := range row {
			total += n
		}
	}
	return total
}

// ActivityHeatmap counts messages by weekday and hour of day.
func (e *Engine) ActivityHeatmap(selector string, msgs []parser.Message) *Heatmap {
	selected := Select(selector, msgs)

	h := &Heatmap{
		Days:    append([]string(nil), Weekdays...),
		Periods: append([]string(nil), Periods...),
	}
	for i := range selected {
		row := indexOf(h.Days, selected[i].DayName)
		if row < 0 {
			continue
		}
		h.Cells[row][selected[i].Hour]++
	}
	return h
}

func indexOf(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}
