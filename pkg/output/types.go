// Package output builds analysis reports and renders them as text or JSON.
package output

import (
	"time"

	"github.com/ccollicutt/chatstat/pkg/parser"
	"github.com/ccollicutt/chatstat/pkg/sentiment"
	"github.com/ccollicutt/chatstat/pkg/stats"
)

// Report is the complete analysis output for one selector.
type Report struct {
	// Selector is "Overall" or the participant the report covers.
	Selector string `json:"selector"`

	// Summary provides the headline counts.
	Summary stats.Summary `json:"summary"`

	MonthlyTimeline []stats.MonthCount `json:"monthly_timeline"`
	DailyTimeline   []stats.DateCount  `json:"daily_timeline"`

	// BusiestDays follows calendar-week order, BusiestMonths calendar order.
	BusiestDays   []stats.LabelCount `json:"busiest_days"`
	BusiestMonths []stats.LabelCount `json:"busiest_months"`

	Heatmap *stats.Heatmap `json:"heatmap"`

	// BusyUsers is only computed for the Overall selector.
	BusyUsers *stats.BusyUsers `json:"busy_users,omitempty"`

	Emojis []stats.EmojiCount `json:"emojis"`

	// Sentiment holds the mean profile of every participant in the selection.
	Sentiment        map[string]sentiment.Profile `json:"sentiment"`
	OverallSentiment *sentiment.Profile           `json:"overall_sentiment,omitempty"`
	SentimentLabel   string                       `json:"sentiment_label"`

	// Metadata provides context about the analysis.
	Metadata Metadata `json:"metadata"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// ConfigFile is the path to the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	// Source is the chat export that was analyzed.
	Source string `json:"source"`

	// Format is the header format of the first message.
	Format string `json:"format,omitempty"`

	// Participants lists every sender in the chat, sorted.
	Participants []string `json:"participants"`

	// FirstMessage and LastMessage bound the chat's timestamps.
	FirstMessage time.Time `json:"first_message,omitempty"`
	LastMessage  time.Time `json:"last_message,omitempty"`

	// AnalyzedAt is when the analysis was performed.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the analysis took.
	Duration time.Duration `json:"duration"`
}

// Build computes every statistic for selector into a Report. The
// participants, format and time bounds in the metadata are taken from
// the full chat, not the selection.
func Build(engine *stats.Engine, selector string, msgs []parser.Message, meta Metadata) *Report {
	start := time.Now()

	report := &Report{
		Selector:        selector,
		Summary:         engine.FetchStats(selector, msgs),
		MonthlyTimeline: engine.MonthlyTimeline(selector, msgs),
		DailyTimeline:   engine.DailyTimeline(selector, msgs),
		BusiestDays:     engine.WeekActivity(selector, msgs).Ordered(stats.Weekdays),
		BusiestMonths:   engine.MonthActivity(selector, msgs).Ordered(stats.Months),
		Heatmap:         engine.ActivityHeatmap(selector, msgs),
		Emojis:          engine.Emojis(selector, msgs),
		Sentiment:       engine.AnalyzeSentiment(selector, msgs),
	}

	if selector == stats.Overall {
		report.BusyUsers = engine.MostBusyUsers(selector, msgs)
		if avg, ok := stats.OverallSentiment(report.Sentiment); ok {
			report.OverallSentiment = &avg
		}
	}
	report.SentimentLabel = stats.SentimentScore(report.Sentiment, selector)

	meta.Participants = parser.Participants(msgs)
	if len(msgs) > 0 {
		meta.Format = msgs[0].Format
		meta.FirstMessage = msgs[0].Timestamp
		meta.LastMessage = msgs[len(msgs)-1].Timestamp
	}
	if meta.AnalyzedAt.IsZero() {
		meta.AnalyzedAt = time.Now()
	}
	meta.Duration += time.Since(start)
	report.Metadata = meta

	return report
}

// HasMessages returns true if the selection contains at least one message.
func (r *Report) HasMessages() bool {
	return r.Summary.Messages > 0
}
