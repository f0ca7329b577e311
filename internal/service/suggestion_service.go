package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"formlens/internal/config"
)

const (
	DefaultFormPurpose   = "General Inquiry Form"
	UnknownFormPurpose   = "Unknown"
	defaultVariant       = "Could you please provide more details on this topic?"
	NoGeneratedQuestions = "No relevant AI-generated questions."
	maxPurposeLength     = 120
)

// ErrSuggestionUnavailable is returned when no generation model is configured
var ErrSuggestionUnavailable = errors.New("suggestion service unavailable")

// Suggester produces free-text question suggestions for a form
type Suggester interface {
	GenerateQuestions(ctx context.Context, category string, existing []string, n int) []string
	SuggestVariant(ctx context.Context, userQuestion, formPurpose string) []string
	ClassifyIntent(ctx context.Context, title string, questions []string) string
}

// SuggestionService generates questions with Gemini, falling back to the
// category template table when the model is disabled or unhelpful
type SuggestionService struct {
	gemini     *geminiClient
	model      string
	categories *config.CategoryTable
	log        *zap.Logger
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(cfg *config.AIConfig, categories *config.CategoryTable, log *zap.Logger) *SuggestionService {
	return &SuggestionService{
		gemini: &geminiClient{
			config: cfg,
			client: &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
		},
		model:      cfg.GenerationModel,
		categories: categories,
		log:        log,
	}
}

// GenerateQuestions returns up to n new questions for the category that the form does not already ask
func (s *SuggestionService) GenerateQuestions(ctx context.Context, category string, existing []string, n int) []string {
	fallback := func() []string {
		return firstN(excludeExisting(s.categories.Fallback(category), existing), n)
	}

	response, err := s.complete(ctx, buildQuestionsPrompt(category, n))
	if err != nil {
		s.logFailure("Question generation failed, using fallback", err, zap.String("category", category))
		return fallback()
	}

	generated := excludeExisting(parseNumberedQuestions(response), existing)
	if len(generated) == 0 {
		s.log.Info("Generated questions overlap existing ones, using fallback", zap.String("category", category))
		return fallback()
	}
	return firstN(generated, n)
}

// SuggestVariant returns a single question derived from the user's draft
func (s *SuggestionService) SuggestVariant(ctx context.Context, userQuestion, formPurpose string) []string {
	if formPurpose == "" {
		formPurpose = DefaultFormPurpose
	}
	response, err := s.complete(ctx, buildVariantPrompt(userQuestion, formPurpose))
	if err != nil {
		s.logFailure("Question variant generation failed", err)
		return []string{defaultVariant}
	}
	if q := firstQuestionLine(response); q != "" {
		return []string{q}
	}
	return []string{defaultVariant}
}

// ClassifyIntent guesses the form's purpose from its title and questions
func (s *SuggestionService) ClassifyIntent(ctx context.Context, title string, questions []string) string {
	response, err := s.complete(ctx, buildIntentPrompt(title, questions))
	if err != nil {
		s.logFailure("Intent classification failed", err)
		return UnknownFormPurpose
	}

	purpose := response
	if idx := strings.LastIndex(purpose, "Purpose:"); idx >= 0 {
		purpose = purpose[idx+len("Purpose:"):]
	}
	purpose = strings.TrimSpace(strings.SplitN(strings.TrimSpace(purpose), "\n", 2)[0])
	if purpose == "" {
		return UnknownFormPurpose
	}
	return truncate(purpose, maxPurposeLength)
}

func (s *SuggestionService) complete(ctx context.Context, prompt string) (string, error) {
	if !s.gemini.config.IsEnabled() {
		return "", ErrSuggestionUnavailable
	}
	return s.gemini.generate(ctx, s.model, prompt)
}

func (s *SuggestionService) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if errors.Is(err, ErrSuggestionUnavailable) {
		s.log.Debug(msg, fields...)
		return
	}
	s.log.Warn(msg, fields...)
}

func buildQuestionsPrompt(category string, n int) string {
	return fmt.Sprintf(`Generate %d unique, relevant questions specifically for a form titled "%s".
The questions should match the purpose of the form and provide useful input from the user.

Ensure that:
- Each question is clearly written and numbered (1., 2., 3., etc.).
- The response contains ONLY the questions (no additional text or explanations).`, n, category)
}

func buildVariantPrompt(userQuestion, formPurpose string) string {
	return fmt.Sprintf(`The user has asked: "%s".
Generate a single, unique question that can be added to a form titled "%s".
Your response should ONLY contain the question and nothing else.
- Do NOT provide explanations.
- Do NOT include answer choices.
- Do NOT use labels like "Question:", "Options:", or "Explanation:".
- The output should be a single, well-formed question ending with a question mark (?).`, userQuestion, formPurpose)
}

func buildIntentPrompt(title string, questions []string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following form and determine its purpose:\n\n")
	if title != "" {
		sb.WriteString("Form Title: " + title + "\n")
	}
	if len(questions) > 0 {
		sb.WriteString("Form Questions:\n" + strings.Join(questions, "\n") + "\n")
	}
	sb.WriteString("Purpose:")
	return sb.String()
}

var numberPrefix = regexp.MustCompile(`^\d+[.)]\s*`)

// parseNumberedQuestions keeps lines that start with a digit, without their numbering
func parseNumberedQuestions(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "-• "))
		if line == "" || line[0] < '0' || line[0] > '9' {
			continue
		}
		if q := strings.TrimSpace(numberPrefix.ReplaceAllString(line, "")); q != "" {
			questions = append(questions, q)
		}
	}
	return questions
}

// firstQuestionLine returns the first line ending with a question mark
func firstQuestionLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "-• "))
		if strings.HasSuffix(line, "?") {
			return line
		}
	}
	return ""
}

// excludeExisting drops candidates already asked, compared case-insensitively and trimmed
func excludeExisting(candidates, existing []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, q := range existing {
		seen[normalizeQuestion(q)] = true
	}
	result := []string{}
	for _, c := range candidates {
		if !seen[normalizeQuestion(c)] {
			result = append(result, c)
		}
	}
	return result
}

func normalizeQuestion(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func firstN(items []string, n int) []string {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
