package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"formlens/internal/metrics"
	"formlens/internal/model"
)

const (
	MsgNoMeaningfulFeedback = "Could not generate meaningful feedback. Check if the input data is correct."
	msgCheckFailed          = "Could not generate feedback for the %s check."
)

// FeedbackInput is everything one analysis run looks at
type FeedbackInput struct {
	Logs        []model.SubmissionLog
	Questions   []string
	Fields      []model.FormField
	Suggestions []string // opaque candidate questions, merged without deduplication
}

// FeedbackService runs the behavior analysis and every structural check and
// merges them into one report. It never fails: a check that errors or panics
// contributes its sentinel item instead.
type FeedbackService struct {
	behavior *BehaviorAnalyzer
	checks   *FormFeedbackService
	recorder metrics.Recorder
	log      *zap.Logger
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(behavior *BehaviorAnalyzer, checks *FormFeedbackService, recorder metrics.Recorder, log *zap.Logger) *FeedbackService {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &FeedbackService{
		behavior: behavior,
		checks:   checks,
		recorder: recorder,
		log:      log,
	}
}

type detector struct {
	name string
	run  func() []string
}

// Analyze builds the full report: behavioral feedback first, then long,
// redundant, missing-field and flow feedback in that order.
func (s *FeedbackService) Analyze(ctx context.Context, in FeedbackInput) *model.FeedbackReport {
	report := s.analyzeBehavior(in.Logs)

	structural := s.StructuralFeedback(ctx, in.Questions, in.Fields)
	report.Feedback = append(report.Feedback, structural...)

	if len(in.Suggestions) > 0 {
		report.SuggestedQuestions = append(report.SuggestedQuestions, in.Suggestions...)
	}

	s.recorder.RecordAnalysis(ctx, report.FormQualityScore > 0, report.FormQualityScore)
	return report
}

// StructuralFeedback runs the form checks. When every check ran and none
// found anything, a single fallback item is returned.
func (s *FeedbackService) StructuralFeedback(ctx context.Context, questions []string, fields []model.FormField) []string {
	detectors := []detector{
		{name: "long question", run: func() []string { return s.checks.DetectLongQuestions(questions) }},
		{name: "redundancy", run: func() []string { return s.checks.DetectRedundantQuestions(ctx, questions) }},
		{name: "missing field", run: func() []string { return s.checks.DetectMissingFields(fields) }},
		{name: "question flow", run: func() []string { return s.checks.AnalyzeQuestionFlow(questions) }},
	}

	feedback := []string{}
	for _, d := range detectors {
		feedback = append(feedback, s.runDetector(ctx, d)...)
	}

	if len(feedback) == 0 {
		s.log.Info("No structural feedback generated",
			zap.Int("questions", len(questions)),
			zap.Int("fields", len(fields)),
		)
		return []string{MsgNoMeaningfulFeedback}
	}
	return feedback
}

func (s *FeedbackService) runDetector(ctx context.Context, d detector) (items []string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Feedback check failed", zap.String("check", d.name), zap.Any("panic", r))
			s.recorder.RecordDetectorFailure(ctx, d.name)
			items = []string{fmt.Sprintf(msgCheckFailed, d.name)}
		}
	}()
	return d.run()
}

func (s *FeedbackService) analyzeBehavior(logs []model.SubmissionLog) (report *model.FeedbackReport) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Behavior analysis failed", zap.Any("panic", r))
			report = model.NewFeedbackReport()
			report.Feedback = append(report.Feedback, fmt.Sprintf(msgCheckFailed, "user behavior"))
		}
	}()
	return s.behavior.Analyze(logs)
}
