// Package sentiment scores chat text with the VADER lexicon and rule set.
package sentiment

import "github.com/jonreiter/govader"

// Label thresholds on the compound score.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Categorical labels returned by Label.
const (
	LabelPositive = "Positive"
	LabelNegative = "Negative"
	LabelNeutral  = "Neutral"
)

// Profile holds the proportions of positive, neutral and negative
// sentiment in a text and its normalized compound score in [-1, 1].
type Profile struct {
	Pos      float64 `json:"pos" yaml:"pos"`
	Neu      float64 `json:"neu" yaml:"neu"`
	Neg      float64 `json:"neg" yaml:"neg"`
	Compound float64 `json:"compound" yaml:"compound"`
}

// Label returns the categorical label for the profile's compound score.
func (p Profile) Label() string {
	return Label(p.Compound)
}

// Label maps a compound score to "Positive", "Negative" or "Neutral".
func Label(compound float64) string {
	switch {
	case compound >= PositiveThreshold:
		return LabelPositive
	case compound <= NegativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Scorer computes sentiment profiles. It handles negation ("not good"),
// punctuation emphasis ("good!!!"), capitalization and intensity
// modifiers ("very good").
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewScorer creates a Scorer backed by the built-in VADER lexicon.
func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the sentiment profile of a single text.
func (s *Scorer) Score(text string) Profile {
	scores := s.analyzer.PolarityScores(text)
	return Profile{
		Pos:      scores.Positive,
		Neu:      scores.Neutral,
		Neg:      scores.Negative,
		Compound: scores.Compound,
	}
}

// ScoreAll returns the mean profile over texts, and false when texts is empty.
func (s *Scorer) ScoreAll(texts []string) (Profile, bool) {
	profiles := make([]Profile, 0, len(texts))
	for _, text := range texts {
		profiles = append(profiles, s.Score(text))
	}
	return Average(profiles)
}

// Average returns the field-wise mean of profiles, and false when there
// are none.
func Average(profiles []Profile) (Profile, bool) {
	if len(profiles) == 0 {
		return Profile{}, false
	}

	var sum Profile
	for _, p := range profiles {
		sum.Pos += p.Pos
		sum.Neu += p.Neu
		sum.Neg += p.Neg
		sum.Compound += p.Compound
	}

	n := float64(len(profiles))
	return Profile{
		Pos:      sum.Pos / n,
		Neu:      sum.Neu / n,
		Neg:      sum.Neg / n,
		Compound: sum.Compound / n,
	}, true
}
