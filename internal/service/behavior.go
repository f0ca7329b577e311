package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"formlens/internal/model"
)

// Sentinel and narrative feedback produced by the behavior analysis
const (
	MsgNoBehaviorData = "No user behavior data available."
	MsgScoreBasis     = "Score is based on clarity, redundancy, and form complexity."
)

// BehaviorAnalyzer turns submission logs into the behavioral half of a FeedbackReport
type BehaviorAnalyzer struct {
	thresholds ThresholdSource
	log        *zap.Logger
}

// NewBehaviorAnalyzer creates a new behavior analyzer
func NewBehaviorAnalyzer(thresholds ThresholdSource, log *zap.Logger) *BehaviorAnalyzer {
	return &BehaviorAnalyzer{
		thresholds: thresholds,
		log:        log,
	}
}

// Analyze aggregates logs, ranks questions and scores the form.
// Empty input yields a report holding only the no-data sentinel.
func (a *BehaviorAnalyzer) Analyze(logs []model.SubmissionLog) *model.FeedbackReport {
	report := model.NewFeedbackReport()

	stats, err := AggregateStats(logs)
	if err != nil {
		a.log.Debug("Behavior analysis skipped", zap.Error(err))
		report.Feedback = append(report.Feedback, MsgNoBehaviorData)
		return report
	}

	th := a.thresholds.Current()
	report.TimeConsumingQuestions = stats.TopTimeConsuming(rankSize)
	report.FrequentlySkippedQuestions = stats.TopSkipped(rankSize)

	hardest, easiest := RankDifficulty(stats, th.SkipWeight, rankSize)
	report.DifficultQuestions = questionRefs(hardest)
	report.EasiestQuestions = questionRefs(easiest)

	report.FormQualityScore = ScoreQuality(stats.AvgTimeSpent, stats.SkippedQuestionCount(), len(hardest), th)

	report.Feedback = narrate(stats, report, th)

	a.log.Debug("Behavior analysis complete",
		zap.Int("forms", stats.TotalForms),
		zap.Int("questions", len(stats.Order)),
		zap.Float64("avg_time_spent", stats.AvgTimeSpent),
		zap.Float64("completion_rate", stats.CompletionRate),
		zap.Int("quality_score", report.FormQualityScore),
	)
	return report
}

func narrate(stats *BehaviorStats, report *model.FeedbackReport, th Thresholds) []string {
	feedback := []string{
		fmt.Sprintf("Average response time: %.1f seconds per question across %d submissions (%.0f%% completed).",
			stats.AvgTimeSpent, stats.TotalForms, stats.CompletionRate*100),
	}

	if stats.AvgTimeSpent > th.SlowAvgSeconds {
		feedback = append(feedback, fmt.Sprintf("Users spend an average of %.1f seconds per question. Consider simplifying or rewording questions.", stats.AvgTimeSpent))
	} else if stats.AvgTimeSpent < th.FastAvgSeconds {
		feedback = append(feedback, fmt.Sprintf("Users answer questions very quickly (%.1f sec/question). Ensure they are not skipping important details.", stats.AvgTimeSpent))
	}

	if stats.CompletionRate < th.LowCompletionRate {
		feedback = append(feedback, "More than half of users do not complete the form. Consider reducing the number of questions or making them clearer.")
	}

	if len(report.TimeConsumingQuestions) > 0 {
		lines := make([]string, 0, len(report.TimeConsumingQuestions))
		for _, q := range report.TimeConsumingQuestions {
			lines = append(lines, fmt.Sprintf("- %s (%s)", q.Question, q.Time))
		}
		feedback = append(feedback, "Time-Consuming Questions:\n"+strings.Join(lines, "\n"))
	}

	if len(report.FrequentlySkippedQuestions) > 0 {
		lines := make([]string, 0, len(report.FrequentlySkippedQuestions))
		for _, q := range report.FrequentlySkippedQuestions {
			lines = append(lines, fmt.Sprintf("- %s (Skipped %d times)", q.Question, q.SkippedCount))
		}
		feedback = append(feedback, "Frequently Skipped Questions:\n"+strings.Join(lines, "\n"))
	}

	if len(report.DifficultQuestions) > 0 {
		feedback = append(feedback, "Difficult Questions:\n"+bulletList(report.DifficultQuestions))
	}
	if len(report.EasiestQuestions) > 0 {
		feedback = append(feedback, "Easiest Questions:\n"+bulletList(report.EasiestQuestions))
	}

	feedback = append(feedback,
		fmt.Sprintf("Final Form Quality Score: %d/100", report.FormQualityScore),
		MsgScoreBasis,
	)
	return feedback
}

func bulletList(refs []model.QuestionRef) string {
	lines := make([]string, 0, len(refs))
	for _, r := range refs {
		lines = append(lines, "- "+r.Question)
	}
	return strings.Join(lines, "\n")
}
