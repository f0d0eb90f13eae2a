package stats

import (
	"github.com/ccollicutt/chatstat/pkg/parser"
	"github.com/ccollicutt/chatstat/pkg/sentiment"
)

// AnalyzeSentiment returns the mean sentiment profile of each participant
// in the selection. Group notifications are not scored. Participants
// without messages do not appear in the result.
func (e *Engine) AnalyzeSentiment(selector string, msgs []parser.Message) map[string]sentiment.Profile {
	selected := Select(selector, msgs)

	texts := make(map[string][]string)
	for i := range selected {
		if selected[i].IsNotification() {
			continue
		}
		texts[selected[i].Sender] = append(texts[selected[i].Sender], selected[i].Text)
	}

	result := make(map[string]sentiment.Profile, len(texts))
	for sender, t := range texts {
		if p, ok := e.scorer.ScoreAll(t); ok {
			result[sender] = p
		}
	}
	return result
}

// OverallSentiment averages the participant profiles field by field.
// It returns false when there are no profiles.
func OverallSentiment(profiles map[string]sentiment.Profile) (sentiment.Profile, bool) {
	all := make([]sentiment.Profile, 0, len(profiles))
	for _, p := range profiles {
		all = append(all, p)
	}
	return sentiment.Average(all)
}

// SentimentScore labels the selection's sentiment as "Positive",
// "Negative" or "Neutral". For Overall the compound score is averaged
// across all participants; a participant missing from profiles is Neutral.
func SentimentScore(profiles map[string]sentiment.Profile, selector string) string {
	if selector == Overall {
		avg, ok := OverallSentiment(profiles)
		if !ok {
			return sentiment.LabelNeutral
		}
		return avg.Label()
	}

	p, ok := profiles[selector]
	if !ok {
		return sentiment.LabelNeutral
	}
	return p.Label()
}
