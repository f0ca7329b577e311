package service

import (
	"sort"

	"formlens/internal/model"
)

// rankSize is how many questions the hardest/easiest/time/skip lists hold
const rankSize = 3

// DifficultyScore is mean time spent plus skipWeight points per skip
func DifficultyScore(qs *model.QuestionStats, skipWeight float64) float64 {
	return qs.MeanTimeSpent() + float64(qs.SkippedCount)*skipWeight
}

// DifficultyScores scores every question in first-seen order
func DifficultyScores(stats *BehaviorStats, skipWeight float64) []model.DifficultyScore {
	scores := make([]model.DifficultyScore, 0, len(stats.Order))
	for _, q := range stats.Order {
		scores = append(scores, model.DifficultyScore{
			QuestionText: q,
			Score:        DifficultyScore(stats.Questions[q], skipWeight),
		})
	}
	return scores
}

// RankDifficulty returns the n hardest questions (descending score) and the n easiest
// (ascending score). Ties keep first-seen order. With fewer than 2n questions the two
// lists overlap.
func RankDifficulty(stats *BehaviorStats, skipWeight float64, n int) (hardest, easiest []model.DifficultyScore) {
	scores := DifficultyScores(stats, skipWeight)

	desc := append([]model.DifficultyScore(nil), scores...)
	sort.SliceStable(desc, func(i, j int) bool { return desc[i].Score > desc[j].Score })

	asc := append([]model.DifficultyScore(nil), scores...)
	sort.SliceStable(asc, func(i, j int) bool { return asc[i].Score < asc[j].Score })

	return desc[:min(n, len(desc))], asc[:min(n, len(asc))]
}

func questionRefs(scores []model.DifficultyScore) []model.QuestionRef {
	refs := make([]model.QuestionRef, 0, len(scores))
	for _, s := range scores {
		refs = append(refs, model.QuestionRef{Question: s.QuestionText})
	}
	return refs
}
