package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"formlens/internal/cache"
	"formlens/internal/model"
	"formlens/internal/repository"
)

var (
	ErrReportNotFound = errors.New("report not found")
	// ErrNothingToAnalyze rejects a request carrying neither fields nor a user question
	ErrNothingToAnalyze = errors.New("form fields or user question are required")
)

// AnalysisService runs the feedback engine for ad-hoc requests and stored forms
type AnalysisService struct {
	feedback    *FeedbackService
	suggester   Suggester
	forms       repository.FormRepo
	submissions repository.SubmissionRepo
	reports     repository.ReportRepo
	reportCache cache.ReportCache
	broadcaster Broadcaster
	thresholds  ThresholdSource
	log         *zap.Logger
}

// NewAnalysisService creates a new analysis service. broadcaster may be nil.
func NewAnalysisService(
	feedback *FeedbackService,
	suggester Suggester,
	forms repository.FormRepo,
	submissions repository.SubmissionRepo,
	reports repository.ReportRepo,
	reportCache cache.ReportCache,
	broadcaster Broadcaster,
	thresholds ThresholdSource,
	log *zap.Logger,
) *AnalysisService {
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	return &AnalysisService{
		feedback:    feedback,
		suggester:   suggester,
		forms:       forms,
		submissions: submissions,
		reports:     reports,
		reportCache: reportCache,
		broadcaster: broadcaster,
		thresholds:  thresholds,
		log:         log,
	}
}

// Analyze reviews a form definition sent inline. When req.FormID is set the
// stored submissions of that form are used as behavior data, which requires
// hostID to own the form.
func (s *AnalysisService) Analyze(ctx context.Context, hostID string, req *model.AnalyzeRequest) (*model.AnalyzeResponse, error) {
	title := strings.TrimSpace(req.FormTitle)
	userQuestion := strings.TrimSpace(req.UserQuestion)
	if len(req.Questions) == 0 && userQuestion == "" {
		return nil, ErrNothingToAnalyze
	}

	fields := req.Questions
	if fields == nil {
		fields = []model.FormField{}
	}
	questions := model.QuestionTexts(fields)

	logs := []model.SubmissionLog{}
	if req.FormID != "" {
		form, err := s.forms.GetByID(ctx, req.FormID)
		if err != nil {
			return nil, err
		}
		if form == nil || form.HostID != hostID {
			return nil, ErrFormNotFound
		}

		stored, err := s.submissions.ListByForm(ctx, req.FormID)
		if err != nil {
			s.log.Warn("Failed to load submissions, analyzing without behavior data",
				zap.String("formId", req.FormID), zap.Error(err))
		} else {
			logs = stored
		}
	}

	purpose := title
	if purpose == "" {
		purpose = UnknownFormPurpose
		if len(questions) > 0 {
			purpose = s.suggester.ClassifyIntent(ctx, title, questions)
		}
	}

	generated := s.suggester.GenerateQuestions(ctx, purpose, questions, s.thresholds.Current().SuggestionCount)
	report := s.feedback.Analyze(ctx, FeedbackInput{
		Logs:        logs,
		Questions:   questions,
		Fields:      fields,
		Suggestions: generated,
	})

	suggested := generated
	if len(suggested) == 0 {
		suggested = []string{NoGeneratedQuestions}
	}

	assistant := []string{}
	if userQuestion != "" {
		assistant = s.suggester.SuggestVariant(ctx, userQuestion, purpose)
	}

	return &model.AnalyzeResponse{
		FormPurpose:        purpose,
		CategorizedFields:  fields,
		Suggestions:        report.Feedback,
		SuggestedQuestions: suggested,
		QuestionAssistant:  assistant,
		Report:             report,
	}, nil
}

// SuggestVariants proposes a rewording of a single draft question
func (s *AnalysisService) SuggestVariants(ctx context.Context, question, formPurpose string) []string {
	return s.suggester.SuggestVariant(ctx, question, formPurpose)
}

// GenerateReport analyzes every stored submission of a form, persists the
// report as the form's latest and pushes it to watchers
func (s *AnalysisService) GenerateReport(ctx context.Context, formID string) (*model.StoredReport, error) {
	form, err := s.forms.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}

	logs, err := s.submissions.ListByForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	questions := form.Questions()
	category := form.Category
	if category == "" {
		category = form.Title
	}
	report := s.feedback.Analyze(ctx, FeedbackInput{
		Logs:        logs,
		Questions:   questions,
		Fields:      form.Fields,
		Suggestions: s.suggester.GenerateQuestions(ctx, category, questions, s.thresholds.Current().SuggestionCount),
	})

	stored := &model.StoredReport{
		ID:              uuid.NewString(),
		FormID:          formID,
		Report:          *report,
		SubmissionCount: len(logs),
		GeneratedAt:     time.Now(),
	}
	if err := s.reports.Save(ctx, stored); err != nil {
		return nil, err
	}
	if err := s.reportCache.Set(ctx, stored); err != nil {
		s.log.Warn("Failed to cache report", zap.String("formId", formID), zap.Error(err))
	}

	s.log.Info("Report generated",
		zap.String("formId", formID),
		zap.Int("submissions", len(logs)),
		zap.Int("qualityScore", report.FormQualityScore),
	)
	s.broadcaster.BroadcastToForm(formID, MsgTypeReportReady, stored)
	return stored, nil
}

// GetReport returns the latest report of a form, from cache when possible
func (s *AnalysisService) GetReport(ctx context.Context, formID string) (*model.StoredReport, error) {
	cached, err := s.reportCache.Get(ctx, formID)
	if err != nil {
		s.log.Warn("Report cache read failed", zap.String("formId", formID), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	stored, err := s.reports.GetByFormID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrReportNotFound
	}
	if err := s.reportCache.Set(ctx, stored); err != nil {
		s.log.Warn("Failed to cache report", zap.String("formId", formID), zap.Error(err))
	}
	return stored, nil
}
