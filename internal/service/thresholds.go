package service

import "formlens/internal/config"

// Thresholds holds the tunable constants of the feedback engine
type Thresholds struct {
	SkipWeight          float64 // difficulty points per skip
	SimilarityThreshold float64 // cosine similarity above which two questions are redundant
	MaxQuestionLength   int     // characters; longer questions are flagged
	PreviewLength       int     // characters of a long question quoted in feedback
	SlowAvgSeconds      float64
	FastAvgSeconds      float64
	LowCompletionRate   float64
	SuggestionCount     int
}

// DefaultThresholds returns the stock engine constants
func DefaultThresholds() Thresholds {
	return Thresholds{
		SkipWeight:          5,
		SimilarityThreshold: 0.85,
		MaxQuestionLength:   80,
		PreviewLength:       50,
		SlowAvgSeconds:      15,
		FastAvgSeconds:      5,
		LowCompletionRate:   0.5,
		SuggestionCount:     3,
	}
}

// ThresholdSource yields the thresholds in effect for one analysis run
type ThresholdSource interface {
	Current() Thresholds
}

// Current lets a fixed set of thresholds serve as its own source
func (t Thresholds) Current() Thresholds {
	return t
}

// LiveThresholds follows the most recently loaded configuration, so a reloaded
// config file applies from the next analysis run. Fallback is used until a
// configuration has been loaded.
type LiveThresholds struct {
	Fallback Thresholds
}

// Current implements ThresholdSource
func (l LiveThresholds) Current() Thresholds {
	if cfg := config.Current(); cfg != nil {
		return ThresholdsFromConfig(cfg.Analysis)
	}
	return l.Fallback
}

// ThresholdsFromConfig overlays configured values on the defaults; zero values keep the default
func ThresholdsFromConfig(c config.AnalysisConfig) Thresholds {
	t := DefaultThresholds()
	if c.SkipWeight > 0 {
		t.SkipWeight = c.SkipWeight
	}
	if c.SimilarityThreshold > 0 {
		t.SimilarityThreshold = c.SimilarityThreshold
	}
	if c.MaxQuestionLength > 0 {
		t.MaxQuestionLength = c.MaxQuestionLength
	}
	if c.PreviewLength > 0 {
		t.PreviewLength = c.PreviewLength
	}
	if c.SlowAvgSeconds > 0 {
		t.SlowAvgSeconds = c.SlowAvgSeconds
	}
	if c.FastAvgSeconds > 0 {
		t.FastAvgSeconds = c.FastAvgSeconds
	}
	if c.LowCompletionRate > 0 {
		t.LowCompletionRate = c.LowCompletionRate
	}
	if c.SuggestionCount > 0 {
		t.SuggestionCount = c.SuggestionCount
	}
	return t
}
