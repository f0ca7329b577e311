package model

import "time"

// QuestionStats is the per-question aggregate built fresh for each analysis run
type QuestionStats struct {
	TimeSpentSamples []float64 `json:"time_spent_samples"`
	SkippedCount     int       `json:"skipped_count"`
}

// MeanTimeSpent returns the arithmetic mean of the samples, 0 when there are none
func (s *QuestionStats) MeanTimeSpent() float64 {
	if len(s.TimeSpentSamples) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range s.TimeSpentSamples {
		sum += t
	}
	return sum / float64(len(s.TimeSpentSamples))
}

// DifficultyScore ranks question hardness
type DifficultyScore struct {
	QuestionText string  `json:"question"`
	Score        float64 `json:"score"`
}

// TimeConsumingQuestion is a question with its mean time, formatted e.g. "12.5 sec"
type TimeConsumingQuestion struct {
	Question string `json:"question" bson:"question" yaml:"question"`
	Time     string `json:"time" bson:"time" yaml:"time"`
}

// SkippedQuestion is a question with its skip count
type SkippedQuestion struct {
	Question     string `json:"question" bson:"question" yaml:"question"`
	SkippedCount int    `json:"skipped_count" bson:"skippedCount" yaml:"skipped_count"`
}

// QuestionRef names a question without exposing its score
type QuestionRef struct {
	Question string `json:"question" bson:"question" yaml:"question"`
}

// FeedbackReport is the external-facing analysis result.
// FormQualityScore is omitted when no behavior data was available.
type FeedbackReport struct {
	TimeConsumingQuestions     []TimeConsumingQuestion `json:"time_consuming_questions" bson:"timeConsumingQuestions" yaml:"time_consuming_questions"`
	FrequentlySkippedQuestions []SkippedQuestion       `json:"frequently_skipped_questions" bson:"frequentlySkippedQuestions" yaml:"frequently_skipped_questions"`
	DifficultQuestions         []QuestionRef           `json:"difficult_questions" bson:"difficultQuestions" yaml:"difficult_questions"`
	EasiestQuestions           []QuestionRef           `json:"easiest_questions" bson:"easiestQuestions" yaml:"easiest_questions"`
	FormQualityScore           int                     `json:"form_quality_score,omitempty" bson:"formQualityScore,omitempty" yaml:"form_quality_score,omitempty"`
	Feedback                   []string                `json:"feedback" bson:"feedback" yaml:"feedback"`

	// SuggestedQuestions are externally generated candidates, appended as received
	SuggestedQuestions []string `json:"suggested_questions,omitempty" bson:"suggestedQuestions,omitempty" yaml:"suggested_questions,omitempty"`
}

// NewFeedbackReport returns a report with non-nil slices so it always renders as JSON arrays
func NewFeedbackReport() *FeedbackReport {
	return &FeedbackReport{
		TimeConsumingQuestions:     []TimeConsumingQuestion{},
		FrequentlySkippedQuestions: []SkippedQuestion{},
		DifficultQuestions:         []QuestionRef{},
		EasiestQuestions:           []QuestionRef{},
		Feedback:                   []string{},
	}
}

// StoredReport is a FeedbackReport persisted for a form
type StoredReport struct {
	ID              string         `json:"id" bson:"reportId"`
	FormID          string         `json:"formId" bson:"formId"`
	Report          FeedbackReport `json:"report" bson:"report"`
	SubmissionCount int            `json:"submissionCount" bson:"submissionCount"`
	GeneratedAt     time.Time      `json:"generatedAt" bson:"generatedAt"`
}
