package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"formlens/internal/model"
)

// Sentinel feedback items for detectors that cannot run
const (
	MsgSimilarityUnavailable = "Similarity analysis is unavailable."
	MsgFlowUnavailable       = "Question flow analysis unavailable."
	MsgEarlyPersonalInfo     = "Consider adding basic personal information questions at the beginning."
)

var (
	// requiredFields are matched case-insensitively against whole field names
	requiredFields = []string{"email", "phone", "address", "zip"}
	// personalInfoTerms are matched case-insensitively as substrings of question text
	personalInfoTerms = []string{"name", "email", "phone", "address"}
)

// FormFeedbackService runs the structural checks over a form's questions and fields
type FormFeedbackService struct {
	embedder   Embedder
	thresholds ThresholdSource
	log        *zap.Logger
}

// NewFormFeedbackService creates a new form feedback service. embedder may be nil.
func NewFormFeedbackService(embedder Embedder, thresholds ThresholdSource, log *zap.Logger) *FormFeedbackService {
	return &FormFeedbackService{
		embedder:   embedder,
		thresholds: thresholds,
		log:        log,
	}
}

// DetectLongQuestions flags questions longer than the configured maximum
func (s *FormFeedbackService) DetectLongQuestions(questions []string) []string {
	th := s.thresholds.Current()
	suggestions := []string{}
	for _, q := range questions {
		runes := []rune(q)
		if len(runes) > th.MaxQuestionLength {
			preview := string(runes[:min(th.PreviewLength, len(runes))])
			suggestions = append(suggestions, fmt.Sprintf("Question '%s...' is too long. Consider making it more concise.", preview))
		}
	}
	return suggestions
}

// DetectRedundantQuestions flags every pair of questions whose embeddings are
// more similar than the threshold. Comparison is pairwise, O(n²) in the number
// of questions.
func (s *FormFeedbackService) DetectRedundantQuestions(ctx context.Context, questions []string) []string {
	if !s.similarityReady() || len(questions) == 0 {
		return []string{MsgSimilarityUnavailable}
	}

	embeddings, err := s.embedder.Embed(ctx, questions)
	if err != nil {
		s.log.Warn("Similarity analysis unavailable", zap.Error(err))
		return []string{MsgSimilarityUnavailable}
	}
	if len(embeddings) != len(questions) {
		s.log.Warn("Similarity analysis unavailable",
			zap.Int("questions", len(questions)),
			zap.Int("embeddings", len(embeddings)),
		)
		return []string{MsgSimilarityUnavailable}
	}

	threshold := s.thresholds.Current().SimilarityThreshold
	suggestions := []string{}
	for i := 0; i < len(questions); i++ {
		for j := i + 1; j < len(questions); j++ {
			if CosineSimilarity(embeddings[i], embeddings[j]) > threshold {
				suggestions = append(suggestions, fmt.Sprintf("'%s' and '%s' are too similar. Consider merging or removing one.", questions[i], questions[j]))
			}
		}
	}
	return suggestions
}

func (s *FormFeedbackService) similarityReady() bool {
	if s.embedder == nil {
		return false
	}
	if r, ok := s.embedder.(readiness); ok {
		return r.Ready()
	}
	return true
}

// DetectMissingFields recommends each canonical field absent from the form
func (s *FormFeedbackService) DetectMissingFields(fields []model.FormField) []string {
	existing := make(map[string]bool, len(fields))
	for _, f := range fields {
		existing[strings.ToLower(f.Name)] = true
	}

	suggestions := []string{}
	for _, name := range requiredFields {
		if !existing[name] {
			suggestions = append(suggestions, fmt.Sprintf("Consider adding a '%s' field to ensure completeness.", name))
		}
	}
	return suggestions
}

// AnalyzeQuestionFlow recommends an early personal-information question when none exists
func (s *FormFeedbackService) AnalyzeQuestionFlow(questions []string) []string {
	if len(questions) == 0 {
		return []string{MsgFlowUnavailable}
	}

	for _, q := range questions {
		lower := strings.ToLower(q)
		for _, term := range personalInfoTerms {
			if strings.Contains(lower, term) {
				return []string{}
			}
		}
	}
	return []string{MsgEarlyPersonalInfo}
}
