package service

const (
	MaxQualityScore = 100
	MinQualityScore = 50

	slowPenalty    = 10
	skippedPenalty = 10
	hardestPenalty = 5

	skippedQuestionsLimit = 2
	// With a fixed top-3 hardest list this fires whenever three or more questions
	// exist. Kept literal for parity with existing reports.
	hardestQuestionsLimit = 2
)

// ScoreQuality computes the bounded form quality score from run aggregates
func ScoreQuality(avgTimeSpent float64, skippedQuestions, hardestCount int, th Thresholds) int {
	score := MaxQualityScore
	if avgTimeSpent > th.SlowAvgSeconds {
		score -= slowPenalty
	}
	if skippedQuestions > skippedQuestionsLimit {
		score -= skippedPenalty
	}
	if hardestCount > hardestQuestionsLimit {
		score -= hardestPenalty
	}
	return clampQuality(score)
}

func clampQuality(score int) int {
	if score < MinQualityScore {
		return MinQualityScore
	}
	if score > MaxQualityScore {
		return MaxQualityScore
	}
	return score
}
