package service

import (
	"errors"
	"math"
	"testing"

	"formlens/internal/model"
)

func TestAggregateStats_EmptyInput(t *testing.T) {
	for name, logs := range map[string][]model.SubmissionLog{
		"nil":   nil,
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			stats, err := AggregateStats(logs)
			if !errors.Is(err, ErrNoBehaviorData) {
				t.Fatalf("AggregateStats() error = %v, want ErrNoBehaviorData", err)
			}
			if stats != nil {
				t.Errorf("AggregateStats() stats = %+v, want nil", stats)
			}
		})
	}
}

func TestAggregateStats_Accumulates(t *testing.T) {
	logs := []model.SubmissionLog{
		submission(true, event("Q1", 10, false), event("Q2", 4, true)),
		submission(false, event("Q1", 20, false), event("Q3", 0, true)),
		submission(true, event("Q2", 6, true)),
	}

	stats, err := AggregateStats(logs)
	if err != nil {
		t.Fatalf("AggregateStats() error = %v", err)
	}

	wantOrder := []string{"Q1", "Q2", "Q3"}
	if len(stats.Order) != len(wantOrder) {
		t.Fatalf("Order = %v, want %v", stats.Order, wantOrder)
	}
	for i, q := range wantOrder {
		if stats.Order[i] != q {
			t.Errorf("Order[%d] = %q, want %q", i, stats.Order[i], q)
		}
	}

	if got := stats.Questions["Q1"].MeanTimeSpent(); got != 15 {
		t.Errorf("Q1 mean = %v, want 15", got)
	}
	if got := stats.Questions["Q2"].SkippedCount; got != 2 {
		t.Errorf("Q2 skipped = %d, want 2", got)
	}
	if got := len(stats.Questions["Q2"].TimeSpentSamples); got != 2 {
		t.Errorf("Q2 samples = %d, want 2", got)
	}

	// (10+4+20+0+6)/5
	if math.Abs(stats.AvgTimeSpent-8) > 1e-9 {
		t.Errorf("AvgTimeSpent = %v, want 8", stats.AvgTimeSpent)
	}
	if math.Abs(stats.CompletionRate-2.0/3.0) > 1e-9 {
		t.Errorf("CompletionRate = %v, want 2/3", stats.CompletionRate)
	}
	if stats.SkippedQuestionCount() != 2 {
		t.Errorf("SkippedQuestionCount() = %d, want 2", stats.SkippedQuestionCount())
	}
}

func TestAggregateStats_LogsWithoutResponses(t *testing.T) {
	stats, err := AggregateStats([]model.SubmissionLog{{FormCompleted: false}, {FormCompleted: true}})
	if err != nil {
		t.Fatalf("AggregateStats() error = %v", err)
	}
	if stats.AvgTimeSpent != 0 {
		t.Errorf("AvgTimeSpent = %v, want 0 when no events", stats.AvgTimeSpent)
	}
	if stats.CompletionRate != 0.5 {
		t.Errorf("CompletionRate = %v, want 0.5", stats.CompletionRate)
	}
	if len(stats.Questions) != 0 {
		t.Errorf("Questions = %v, want none", stats.Questions)
	}
}

func TestAggregateStats_QuestionTextIsCaseSensitive(t *testing.T) {
	stats, err := AggregateStats([]model.SubmissionLog{
		submission(true, event("Email", 1, false), event("email", 1, false)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(stats.Questions) != 2 {
		t.Errorf("got %d questions, want 2 distinct keys", len(stats.Questions))
	}
}

func TestCompletionRate_ZeroTotalGuard(t *testing.T) {
	if got := completionRate(0, 0); got != 1.0 {
		t.Errorf("completionRate(0, 0) = %v, want 1.0", got)
	}
	if got := completionRate(1, 4); got != 0.25 {
		t.Errorf("completionRate(1, 4) = %v, want 0.25", got)
	}
}

func TestTopTimeConsuming(t *testing.T) {
	stats, err := AggregateStats([]model.SubmissionLog{
		submission(true,
			event("fast", 1, false),
			event("slow", 30, false),
			event("medium", 12.25, false),
			event("slower", 40, false),
		),
	})
	if err != nil {
		t.Fatal(err)
	}

	top := stats.TopTimeConsuming(3)
	want := []model.TimeConsumingQuestion{
		{Question: "slower", Time: "40.0 sec"},
		{Question: "slow", Time: "30.0 sec"},
		{Question: "medium", Time: "12.2 sec"},
	}
	if len(top) != len(want) {
		t.Fatalf("TopTimeConsuming() = %v, want %v", top, want)
	}
	for i := range want {
		if top[i] != want[i] {
			t.Errorf("TopTimeConsuming()[%d] = %+v, want %+v", i, top[i], want[i])
		}
	}
}

func TestTopSkipped_FiltersUnskipped(t *testing.T) {
	stats, err := AggregateStats([]model.SubmissionLog{
		submission(false, event("A", 1, true), event("B", 1, false), event("C", 1, false)),
		submission(false, event("A", 1, true), event("B", 1, true), event("C", 1, false)),
	})
	if err != nil {
		t.Fatal(err)
	}

	top := stats.TopSkipped(3)
	if len(top) != 2 {
		t.Fatalf("TopSkipped() = %v, want 2 entries", top)
	}
	if top[0].Question != "A" || top[0].SkippedCount != 2 {
		t.Errorf("TopSkipped()[0] = %+v, want A skipped 2", top[0])
	}
	if top[1].Question != "B" || top[1].SkippedCount != 1 {
		t.Errorf("TopSkipped()[1] = %+v, want B skipped 1", top[1])
	}
}
