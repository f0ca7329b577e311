package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"go.uber.org/zap"

	"formlens/internal/model"
)

func newChecks(embedder Embedder) *FormFeedbackService {
	return NewFormFeedbackService(embedder, DefaultThresholds(), zap.NewNop())
}

func TestDetectLongQuestions_Boundary(t *testing.T) {
	s := newChecks(nil)

	exactly80 := strings.Repeat("a", 80)
	if got := s.DetectLongQuestions([]string{exactly80}); len(got) != 0 {
		t.Errorf("80-character question flagged: %v", got)
	}

	eightyOne := strings.Repeat("b", 81)
	got := s.DetectLongQuestions([]string{eightyOne})
	if len(got) != 1 {
		t.Fatalf("81-character question not flagged: %v", got)
	}
	want := "Question '" + strings.Repeat("b", 50) + "...' is too long. Consider making it more concise."
	if got[0] != want {
		t.Errorf("item = %q, want %q", got[0], want)
	}
}

func TestDetectLongQuestions_CountsCharactersNotBytes(t *testing.T) {
	s := newChecks(nil)

	q := strings.Repeat("é", 80)
	if got := s.DetectLongQuestions([]string{q}); len(got) != 0 {
		t.Errorf("80 multi-byte characters flagged: %v", got)
	}
}

func TestDetectLongQuestions_OnePerQuestion(t *testing.T) {
	s := newChecks(nil)
	long := strings.Repeat("x", 100)

	got := s.DetectLongQuestions([]string{long, "short", long})
	if len(got) != 2 {
		t.Errorf("got %d items, want 2", len(got))
	}
}

func TestDetectRedundantQuestions_IdenticalStrings(t *testing.T) {
	s := newChecks(newOneHotEmbedder())

	got := s.DetectRedundantQuestions(context.Background(), []string{"What is your email?", "Where do you live?", "What is your email?"})

	want := "'What is your email?' and 'What is your email?' are too similar. Consider merging or removing one."
	if len(got) != 1 || got[0] != want {
		t.Errorf("DetectRedundantQuestions() = %v, want [%q]", got, want)
	}
}

func TestDetectRedundantQuestions_DistinctQuestions(t *testing.T) {
	s := newChecks(newOneHotEmbedder())

	got := s.DetectRedundantQuestions(context.Background(), []string{"A?", "B?", "C?"})
	if got == nil || len(got) != 0 {
		t.Errorf("DetectRedundantQuestions() = %v, want empty", got)
	}
}

func TestDetectRedundantQuestions_Unavailable(t *testing.T) {
	tests := []struct {
		name      string
		embedder  Embedder
		questions []string
	}{
		{"no embedder", nil, []string{"A?", "B?"}},
		{"not started", &notReadyEmbedder{}, []string{"A?", "B?"}},
		{"empty input", newOneHotEmbedder(), []string{}},
		{"embedding error", failingEmbedder{err: errors.New("quota exceeded")}, []string{"A?", "B?"}},
		{"embedding count mismatch", shortEmbedder{}, []string{"A?", "B?"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newChecks(tt.embedder).DetectRedundantQuestions(context.Background(), tt.questions)
			if len(got) != 1 || got[0] != MsgSimilarityUnavailable {
				t.Errorf("DetectRedundantQuestions() = %v, want only the unavailable sentinel", got)
			}
		})
	}
}

func TestDetectMissingFields(t *testing.T) {
	s := newChecks(nil)

	got := s.DetectMissingFields([]model.FormField{{Name: "email", Type: "email"}})

	want := []string{
		"Consider adding a 'address' field to ensure completeness.",
		"Consider adding a 'phone' field to ensure completeness.",
		"Consider adding a 'zip' field to ensure completeness.",
	}
	sort.Strings(got)
	if len(got) != len(want) {
		t.Fatalf("DetectMissingFields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDetectMissingFields_ExactCaseInsensitiveMatch(t *testing.T) {
	s := newChecks(nil)

	got := s.DetectMissingFields([]model.FormField{
		{Name: "EMAIL"}, {Name: "Phone"}, {Name: "Address"}, {Name: "Zip"},
	})
	if len(got) != 0 {
		t.Errorf("DetectMissingFields() = %v, want none", got)
	}

	got = s.DetectMissingFields([]model.FormField{{Name: "email address"}, {Name: "phone number"}})
	if len(got) != 4 {
		t.Errorf("substring names must not count, got %v", got)
	}
}

func TestAnalyzeQuestionFlow(t *testing.T) {
	s := newChecks(nil)

	if got := s.AnalyzeQuestionFlow(nil); len(got) != 1 || got[0] != MsgFlowUnavailable {
		t.Errorf("empty input = %v, want flow sentinel", got)
	}
	if got := s.AnalyzeQuestionFlow([]string{"How did you hear about us?", "Rate our service"}); len(got) != 1 || got[0] != MsgEarlyPersonalInfo {
		t.Errorf("no personal info = %v, want recommendation", got)
	}
	if got := s.AnalyzeQuestionFlow([]string{"Rate our service", "Your FULL NAME"}); len(got) != 0 {
		t.Errorf("substring match anywhere should satisfy the check, got %v", got)
	}
}
