package stats

import (
	"math"
	"sort"

	"github.com/ccollicutt/chatstat/pkg/parser"
)

// MostBusyUsers ranks participants by message count, descending, with ties
// broken by name. Group notifications are not participants and are left
// out of both the ranking and the percentage base. It is meant for the
// Overall selector; a single participant simply ranks alone.
func (e *Engine) MostBusyUsers(selector string, msgs []parser.Message) *BusyUsers {
	selected := Select(selector, msgs)

	counts := make(map[string]int)
	total := 0
	for i := range selected {
		if selected[i].IsNotification() {
			continue
		}
		counts[selected[i].Sender]++
		total++
	}

	ranked := make([]UserCount, 0, len(counts))
	for name, n := range counts {
		ranked = append(ranked, UserCount{Name: name, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})

	result := &BusyUsers{
		Top:    make([]UserCount, 0, e.topUsers),
		Shares: make([]UserShare, 0, len(ranked)),
	}
	for i, u := range ranked {
		if i < e.topUsers {
			result.Top = append(result.Top, u)
		}
		result.Shares = append(result.Shares, UserShare{
			Name:    u.Name,
			Percent: round2(float64(u.Count) / float64(total) * 100),
		})
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
