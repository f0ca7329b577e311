package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"formlens/internal/cache"
	"formlens/internal/model"
	"formlens/internal/repository"
)

var (
	ErrFormNotFound = errors.New("form not found")
	ErrInvalidForm  = errors.New("form title is required")
)

// FormService handles form CRUD and submission ingestion
type FormService struct {
	forms       repository.FormRepo
	submissions repository.SubmissionRepo
	reports     repository.ReportRepo
	reportCache cache.ReportCache
	broadcaster Broadcaster
	log         *zap.Logger
}

// NewFormService creates a new form service. broadcaster may be nil.
func NewFormService(
	forms repository.FormRepo,
	submissions repository.SubmissionRepo,
	reports repository.ReportRepo,
	reportCache cache.ReportCache,
	broadcaster Broadcaster,
	log *zap.Logger,
) *FormService {
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	return &FormService{
		forms:       forms,
		submissions: submissions,
		reports:     reports,
		reportCache: reportCache,
		broadcaster: broadcaster,
		log:         log,
	}
}

// Create stores a new form owned by hostID
func (s *FormService) Create(ctx context.Context, hostID string, form *model.Form) (string, error) {
	form.Title = strings.TrimSpace(form.Title)
	if form.Title == "" {
		return "", ErrInvalidForm
	}
	form.HostID = hostID
	return s.forms.Create(ctx, form)
}

// GetByID retrieves a form by ID
func (s *FormService) GetByID(ctx context.Context, id string) (*model.Form, error) {
	form, err := s.forms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// GetOwned retrieves a form only if hostID owns it
func (s *FormService) GetOwned(ctx context.Context, hostID, id string) (*model.Form, error) {
	form, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if form.HostID != hostID {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// ListByHost retrieves all forms for a host
func (s *FormService) ListByHost(ctx context.Context, hostID string) ([]*model.Form, error) {
	return s.forms.GetByHostID(ctx, hostID)
}

// Update replaces a form's title, category and fields
func (s *FormService) Update(ctx context.Context, hostID string, form *model.Form) error {
	existing, err := s.GetOwned(ctx, hostID, form.ID)
	if err != nil {
		return err
	}
	form.Title = strings.TrimSpace(form.Title)
	if form.Title == "" {
		return ErrInvalidForm
	}

	form.HostID = existing.HostID
	form.CreatedAt = existing.CreatedAt
	if err := s.forms.Update(ctx, form); err != nil {
		return err
	}
	s.invalidateReport(ctx, form.ID)
	return nil
}

// Delete removes a form with its submissions and report
func (s *FormService) Delete(ctx context.Context, hostID, id string) error {
	if _, err := s.GetOwned(ctx, hostID, id); err != nil {
		return err
	}
	if err := s.forms.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.submissions.DeleteByForm(ctx, id); err != nil {
		s.log.Warn("Failed to delete submissions", zap.String("formId", id), zap.Error(err))
	}
	if err := s.reports.DeleteByFormID(ctx, id); err != nil {
		s.log.Warn("Failed to delete report", zap.String("formId", id), zap.Error(err))
	}
	s.invalidateReport(ctx, id)

	s.broadcaster.BroadcastToForm(id, MsgTypeFormDeleted, map[string]string{"formId": id})
	s.broadcaster.DisconnectForm(id)
	return nil
}

// RecordSubmission stores one respondent's log for a form and tells watchers
func (s *FormService) RecordSubmission(ctx context.Context, formID string, entry model.SubmissionLog) (*model.SubmissionRecord, error) {
	if _, err := s.GetByID(ctx, formID); err != nil {
		return nil, err
	}

	entry = entry.Sanitized()
	record := &model.SubmissionRecord{
		FormID:        formID,
		FormCompleted: entry.FormCompleted,
		Responses:     entry.Responses,
	}
	if _, err := s.submissions.Insert(ctx, record); err != nil {
		return nil, err
	}
	s.invalidateReport(ctx, formID)

	s.broadcaster.BroadcastToForm(formID, MsgTypeSubmissionReceived, map[string]interface{}{
		"formId":        formID,
		"submissionId":  record.ID,
		"formCompleted": record.FormCompleted,
		"responses":     len(record.Responses),
	})
	return record, nil
}

func (s *FormService) invalidateReport(ctx context.Context, formID string) {
	if err := s.reportCache.Invalidate(ctx, formID); err != nil {
		s.log.Warn("Failed to invalidate cached report", zap.String("formId", formID), zap.Error(err))
	}
}
