package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"formlens/internal/model"
)

// oneHotEmbedder gives each distinct text its own axis, so identical texts
// have similarity 1 and distinct texts 0
type oneHotEmbedder struct {
	mu    sync.Mutex
	index map[string]int
	dim   int
	calls int
}

func newOneHotEmbedder() *oneHotEmbedder {
	return &oneHotEmbedder{index: map[string]int{}, dim: 64}
}

func (e *oneHotEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++

	vectors := make([][]float64, len(texts))
	for i, t := range texts {
		idx, ok := e.index[t]
		if !ok {
			idx = len(e.index)
			e.index[t] = idx
		}
		v := make([]float64, e.dim)
		v[idx%e.dim] = 1
		vectors[i] = v
	}
	return vectors, nil
}

type failingEmbedder struct{ err error }

func (e failingEmbedder) Embed(context.Context, []string) ([][]float64, error) {
	return nil, e.err
}

type shortEmbedder struct{}

func (shortEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	return [][]float64{{1, 0}}, nil
}

type panickingEmbedder struct{}

func (panickingEmbedder) Embed(context.Context, []string) ([][]float64, error) {
	panic("embedding backend crashed")
}

type notReadyEmbedder struct{ oneHotEmbedder }

func (*notReadyEmbedder) Ready() bool { return false }

type fakeRecorder struct {
	mu       sync.Mutex
	analyses int
	withData int
	scores   []int
	failures []string
}

func (r *fakeRecorder) RecordAnalysis(_ context.Context, hasBehaviorData bool, score int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses++
	if hasBehaviorData {
		r.withData++
	}
	r.scores = append(r.scores, score)
}

func (r *fakeRecorder) RecordDetectorFailure(_ context.Context, check string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, check)
}

type fakeSuggester struct {
	questions []string
	variants  []string
	purpose   string

	lastCategory     string
	lastExisting     []string
	lastUserQuestion string
	classified       int
}

func (s *fakeSuggester) GenerateQuestions(_ context.Context, category string, existing []string, n int) []string {
	s.lastCategory = category
	s.lastExisting = existing
	return firstN(excludeExisting(s.questions, existing), n)
}

func (s *fakeSuggester) SuggestVariant(_ context.Context, userQuestion, _ string) []string {
	s.lastUserQuestion = userQuestion
	return s.variants
}

func (s *fakeSuggester) ClassifyIntent(context.Context, string, []string) string {
	s.classified++
	return s.purpose
}

type memFormRepo struct {
	mu    sync.Mutex
	forms map[string]*model.Form
	next  int
}

func newMemFormRepo() *memFormRepo {
	return &memFormRepo{forms: map[string]*model.Form{}}
}

func (r *memFormRepo) Create(_ context.Context, form *model.Form) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	form.ID = fmt.Sprintf("form-%d", r.next)
	stored := *form
	r.forms[form.ID] = &stored
	return form.ID, nil
}

func (r *memFormRepo) GetByID(_ context.Context, id string) (*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	form, ok := r.forms[id]
	if !ok {
		return nil, nil
	}
	out := *form
	return &out, nil
}

func (r *memFormRepo) GetByHostID(_ context.Context, hostID string) ([]*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	forms := []*model.Form{}
	for _, f := range r.forms {
		if f.HostID == hostID {
			out := *f
			forms = append(forms, &out)
		}
	}
	return forms, nil
}

func (r *memFormRepo) Update(_ context.Context, form *model.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forms[form.ID]; !ok {
		return errors.New("no such form")
	}
	stored := *form
	r.forms[form.ID] = &stored
	return nil
}

func (r *memFormRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.forms, id)
	return nil
}

type memSubmissionRepo struct {
	mu      sync.Mutex
	records []*model.SubmissionRecord
	listErr error
}

func (r *memSubmissionRepo) Insert(_ context.Context, record *model.SubmissionRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = fmt.Sprintf("sub-%d", len(r.records)+1)
	stored := *record
	r.records = append(r.records, &stored)
	return record.ID, nil
}

func (r *memSubmissionRepo) ListByForm(_ context.Context, formID string) ([]model.SubmissionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	logs := []model.SubmissionLog{}
	for _, rec := range r.records {
		if rec.FormID == formID {
			logs = append(logs, rec.Log())
		}
	}
	return logs, nil
}

func (r *memSubmissionRepo) CountByForm(ctx context.Context, formID string) (int64, error) {
	logs, err := r.ListByForm(ctx, formID)
	return int64(len(logs)), err
}

func (r *memSubmissionRepo) DeleteByForm(_ context.Context, formID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.FormID != formID {
			kept = append(kept, rec)
		}
	}
	r.records = kept
	return nil
}

type memReportRepo struct {
	mu      sync.Mutex
	reports map[string]*model.StoredReport
	gets    int
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{reports: map[string]*model.StoredReport{}}
}

func (r *memReportRepo) Save(_ context.Context, report *model.StoredReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *report
	r.reports[report.FormID] = &stored
	return nil
}

func (r *memReportRepo) GetByFormID(_ context.Context, formID string) (*model.StoredReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	report, ok := r.reports[formID]
	if !ok {
		return nil, nil
	}
	out := *report
	return &out, nil
}

func (r *memReportRepo) DeleteByFormID(_ context.Context, formID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reports, formID)
	return nil
}

type memReportCache struct {
	mu          sync.Mutex
	reports     map[string]*model.StoredReport
	invalidated []string
}

func newMemReportCache() *memReportCache {
	return &memReportCache{reports: map[string]*model.StoredReport{}}
}

func (c *memReportCache) Get(_ context.Context, formID string) (*model.StoredReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reports[formID], nil
}

func (c *memReportCache) Set(_ context.Context, report *model.StoredReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[report.FormID] = report
	return nil
}

func (c *memReportCache) Invalidate(_ context.Context, formID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.reports, formID)
	c.invalidated = append(c.invalidated, formID)
	return nil
}

type broadcastCall struct {
	formID  string
	msgType string
	payload interface{}
}

type recordingBroadcaster struct {
	mu           sync.Mutex
	calls        []broadcastCall
	disconnected []string
}

func (b *recordingBroadcaster) BroadcastToForm(formID string, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcastCall{formID: formID, msgType: msgType, payload: payload})
}

func (b *recordingBroadcaster) DisconnectForm(formID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnected = append(b.disconnected, formID)
}

type memEmbeddingCache struct {
	mu      sync.Mutex
	vectors map[string][]float64
	hits    int
}

func newMemEmbeddingCache() *memEmbeddingCache {
	return &memEmbeddingCache{vectors: map[string][]float64{}}
}

func (c *memEmbeddingCache) GetMany(_ context.Context, model string, texts []string) ([][]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]float64, len(texts))
	for i, t := range texts {
		if v, ok := c.vectors[model+"|"+t]; ok {
			out[i] = v
			c.hits++
		}
	}
	return out, nil
}

func (c *memEmbeddingCache) SetMany(_ context.Context, model string, texts []string, vectors [][]float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range texts {
		c.vectors[model+"|"+t] = vectors[i]
	}
	return nil
}

// submission builds one log from (question, time, skipped) triples
func submission(completed bool, events ...model.InteractionEvent) model.SubmissionLog {
	return model.SubmissionLog{FormCompleted: completed, Responses: events}
}

func event(question string, timeSpent float64, skipped bool) model.InteractionEvent {
	return model.InteractionEvent{QuestionText: question, TimeSpent: timeSpent, Skipped: skipped}
}
