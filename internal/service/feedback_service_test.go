package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"

	"formlens/internal/model"
)

func newFeedback(embedder Embedder, recorder *fakeRecorder) *FeedbackService {
	if recorder == nil {
		recorder = &fakeRecorder{}
	}
	th := DefaultThresholds()
	log := zap.NewNop()
	return NewFeedbackService(NewBehaviorAnalyzer(th, log), NewFormFeedbackService(embedder, th, log), recorder, log)
}

func indexOf(items []string, prefix string) int {
	for i, item := range items {
		if strings.HasPrefix(item, prefix) {
			return i
		}
	}
	return -1
}

func TestFeedbackService_DetectorOrder(t *testing.T) {
	s := newFeedback(newOneHotEmbedder(), &fakeRecorder{})
	long := strings.Repeat("Please tell us ", 8)

	report := s.Analyze(context.Background(), FeedbackInput{
		Logs:      []model.SubmissionLog{submission(true, event("Rate us", 8, false))},
		Questions: []string{long, "Rate us", "Rate us"},
		Fields:    []model.FormField{{Name: long}, {Name: "Rate us"}},
	})

	behavior := indexOf(report.Feedback, "Average response time")
	longIdx := indexOf(report.Feedback, "Question '")
	redundant := indexOf(report.Feedback, "'Rate us' and 'Rate us'")
	missing := indexOf(report.Feedback, "Consider adding a 'email'")
	flow := indexOf(report.Feedback, MsgEarlyPersonalInfo)

	for name, idx := range map[string]int{"behavior": behavior, "long": longIdx, "redundant": redundant, "missing": missing, "flow": flow} {
		if idx < 0 {
			t.Fatalf("%s feedback missing from %v", name, report.Feedback)
		}
	}
	if !(behavior < longIdx && longIdx < redundant && redundant < missing && missing < flow) {
		t.Errorf("feedback out of order: behavior=%d long=%d redundant=%d missing=%d flow=%d",
			behavior, longIdx, redundant, missing, flow)
	}
}

func TestFeedbackService_EmptyInputSentinels(t *testing.T) {
	recorder := &fakeRecorder{}
	s := newFeedback(newOneHotEmbedder(), recorder)

	report := s.Analyze(context.Background(), FeedbackInput{})

	want := []string{
		MsgNoBehaviorData,
		MsgSimilarityUnavailable,
		"Consider adding a 'email' field to ensure completeness.",
		"Consider adding a 'phone' field to ensure completeness.",
		"Consider adding a 'address' field to ensure completeness.",
		"Consider adding a 'zip' field to ensure completeness.",
		MsgFlowUnavailable,
	}
	if len(report.Feedback) != len(want) {
		t.Fatalf("Feedback = %v, want %v", report.Feedback, want)
	}
	for i := range want {
		if report.Feedback[i] != want[i] {
			t.Errorf("Feedback[%d] = %q, want %q", i, report.Feedback[i], want[i])
		}
	}
	if recorder.analyses != 1 || recorder.withData != 0 {
		t.Errorf("recorder = %+v, want one analysis without data", recorder)
	}
}

func TestFeedbackService_NothingActionable(t *testing.T) {
	s := newFeedback(newOneHotEmbedder(), &fakeRecorder{})

	fields := []model.FormField{{Name: "Name"}, {Name: "email"}, {Name: "phone"}, {Name: "address"}, {Name: "zip"}}
	got := s.StructuralFeedback(context.Background(), model.QuestionTexts(fields), fields)

	if len(got) != 1 || got[0] != MsgNoMeaningfulFeedback {
		t.Errorf("StructuralFeedback() = %v, want only the fallback item", got)
	}
}

func TestFeedbackService_RecoversDetectorPanic(t *testing.T) {
	recorder := &fakeRecorder{}
	s := newFeedback(panickingEmbedder{}, recorder)

	report := s.Analyze(context.Background(), FeedbackInput{
		Logs:      []model.SubmissionLog{submission(true, event("Q1", 8, false))},
		Questions: []string{"What is your name?", "Q1"},
		Fields:    []model.FormField{{Name: "email"}},
	})

	if indexOf(report.Feedback, "Could not generate feedback for the redundancy check.") < 0 {
		t.Errorf("missing redundancy failure item in %v", report.Feedback)
	}
	if indexOf(report.Feedback, "Consider adding a 'phone'") < 0 {
		t.Error("checks after the failing one must still run")
	}
	if report.FormQualityScore != 100 {
		t.Errorf("behavior half lost: score = %d", report.FormQualityScore)
	}
	if len(recorder.failures) != 1 || recorder.failures[0] != "redundancy" {
		t.Errorf("failures = %v, want [redundancy]", recorder.failures)
	}
}

func TestFeedbackService_MergesSuggestionsVerbatim(t *testing.T) {
	s := newFeedback(nil, nil)

	report := s.Analyze(context.Background(), FeedbackInput{
		Questions:   []string{"What is your name?"},
		Suggestions: []string{"How old are you?", "How old are you?"},
	})

	if len(report.SuggestedQuestions) != 2 {
		t.Errorf("SuggestedQuestions = %v, want both entries without dedup", report.SuggestedQuestions)
	}
}

func TestFeedbackService_ReportJSONShape(t *testing.T) {
	s := newFeedback(nil, nil)

	t.Run("no data omits score", func(t *testing.T) {
		data, err := json.Marshal(s.Analyze(context.Background(), FeedbackInput{}))
		if err != nil {
			t.Fatal(err)
		}
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatal(err)
		}
		if _, ok := raw["form_quality_score"]; ok {
			t.Errorf("form_quality_score present without data: %s", data)
		}
		for _, key := range []string{"time_consuming_questions", "frequently_skipped_questions", "difficult_questions", "easiest_questions"} {
			if string(raw[key]) != "[]" {
				t.Errorf("%s = %s, want []", key, raw[key])
			}
		}
	})

	t.Run("with data", func(t *testing.T) {
		report := s.Analyze(context.Background(), FeedbackInput{
			Logs: []model.SubmissionLog{submission(true, event("Q1", 20, false), event("Q2", 2, true))},
		})
		data, err := json.Marshal(report)
		if err != nil {
			t.Fatal(err)
		}
		var decoded struct {
			Time    []map[string]string      `json:"time_consuming_questions"`
			Skipped []map[string]interface{} `json:"frequently_skipped_questions"`
			Score   int                      `json:"form_quality_score"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatal(err)
		}
		if decoded.Time[0]["question"] != "Q1" || decoded.Time[0]["time"] != "20.0 sec" {
			t.Errorf("time_consuming_questions[0] = %v", decoded.Time[0])
		}
		if decoded.Skipped[0]["skipped_count"] != float64(1) {
			t.Errorf("frequently_skipped_questions[0] = %v", decoded.Skipped[0])
		}
		if decoded.Score != 100 {
			t.Errorf("form_quality_score = %d, want 100", decoded.Score)
		}
	})
}
