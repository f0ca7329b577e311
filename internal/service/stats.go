package service

import (
	"errors"
	"fmt"
	"sort"

	"formlens/internal/model"
)

// ErrNoBehaviorData is returned when there are no submission logs to aggregate
var ErrNoBehaviorData = errors.New("no user behavior data available")

// BehaviorStats is the aggregate of one analysis run over a set of submission logs
type BehaviorStats struct {
	Questions      map[string]*model.QuestionStats // keyed by question text, case-sensitive
	Order          []string                        // question texts in first-seen order
	AvgTimeSpent   float64
	CompletionRate float64
	TotalForms     int
	CompletedForms int
}

// AggregateStats reduces submission logs into per-question statistics and form-level rates
func AggregateStats(logs []model.SubmissionLog) (*BehaviorStats, error) {
	if len(logs) == 0 {
		return nil, ErrNoBehaviorData
	}

	stats := &BehaviorStats{
		Questions:  make(map[string]*model.QuestionStats),
		TotalForms: len(logs),
	}

	totalTime := 0.0
	events := 0
	for _, entry := range logs {
		if entry.FormCompleted {
			stats.CompletedForms++
		}

		for _, response := range entry.Responses {
			totalTime += response.TimeSpent
			events++

			qs, ok := stats.Questions[response.QuestionText]
			if !ok {
				qs = &model.QuestionStats{TimeSpentSamples: []float64{}}
				stats.Questions[response.QuestionText] = qs
				stats.Order = append(stats.Order, response.QuestionText)
			}
			qs.TimeSpentSamples = append(qs.TimeSpentSamples, response.TimeSpent)
			if response.Skipped {
				qs.SkippedCount++
			}
		}
	}

	if events > 0 {
		stats.AvgTimeSpent = totalTime / float64(events)
	}
	stats.CompletionRate = completionRate(stats.CompletedForms, stats.TotalForms)

	return stats, nil
}

// completionRate defaults to 1.0 when there are no forms
func completionRate(completed, total int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(completed) / float64(total)
}

// SkippedQuestionCount is the number of distinct questions skipped at least once
func (s *BehaviorStats) SkippedQuestionCount() int {
	n := 0
	for _, qs := range s.Questions {
		if qs.SkippedCount > 0 {
			n++
		}
	}
	return n
}

// TopTimeConsuming returns up to n questions by descending mean time spent
func (s *BehaviorStats) TopTimeConsuming(n int) []model.TimeConsumingQuestion {
	order := append([]string(nil), s.Order...)
	sort.SliceStable(order, func(i, j int) bool {
		return s.Questions[order[i]].MeanTimeSpent() > s.Questions[order[j]].MeanTimeSpent()
	})

	result := []model.TimeConsumingQuestion{}
	for _, q := range order[:min(n, len(order))] {
		result = append(result, model.TimeConsumingQuestion{
			Question: q,
			Time:     fmt.Sprintf("%.1f sec", s.Questions[q].MeanTimeSpent()),
		})
	}
	return result
}

// TopSkipped returns the questions among the n most-skipped that were skipped at least once
func (s *BehaviorStats) TopSkipped(n int) []model.SkippedQuestion {
	order := append([]string(nil), s.Order...)
	sort.SliceStable(order, func(i, j int) bool {
		return s.Questions[order[i]].SkippedCount > s.Questions[order[j]].SkippedCount
	})

	result := []model.SkippedQuestion{}
	for _, q := range order[:min(n, len(order))] {
		if count := s.Questions[q].SkippedCount; count > 0 {
			result = append(result, model.SkippedQuestion{Question: q, SkippedCount: count})
		}
	}
	return result
}
