package repository

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"formlens/internal/model"
)

func TestLogFileStore_MissingFileLoadsEmpty(t *testing.T) {
	store := NewLogFileStore(filepath.Join(t.TempDir(), "form_logs.json"), zap.NewNop())

	logs := store.Load()
	if logs == nil || len(logs) != 0 {
		t.Fatalf("Load() = %v, want empty non-nil slice", logs)
	}
}

func TestLogFileStore_CorruptFileLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form_logs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if logs := NewLogFileStore(path, zap.NewNop()).Load(); len(logs) != 0 {
		t.Errorf("Load() returned %d logs for a corrupt file, want 0", len(logs))
	}
}

func TestLogFileStore_LoadDefaultsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form_logs.json")
	data := `[{"form_completed": true, "responses": [{"question_text": "Q1"}, {"question_text": "Q2", "time_spent": 4.5, "skipped": true}]}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	logs := NewLogFileStore(path, zap.NewNop()).Load()
	if len(logs) != 1 {
		t.Fatalf("Load() returned %d logs, want 1", len(logs))
	}
	first := logs[0].Responses[0]
	if first.TimeSpent != 0 || first.Skipped {
		t.Errorf("missing keys decoded to %+v, want zero time and not skipped", first)
	}
	second := logs[0].Responses[1]
	if second.TimeSpent != 4.5 || !second.Skipped {
		t.Errorf("second response = %+v", second)
	}
}

func TestLogFileStore_AppendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "form_logs.json")
	store := NewLogFileStore(path, zap.NewNop())

	entries := []model.SubmissionLog{
		{FormCompleted: true, Responses: []model.InteractionEvent{{QuestionID: 1, QuestionText: "Q1", TimeSpent: 10}}},
		{FormCompleted: false, Responses: []model.InteractionEvent{{QuestionID: 1, QuestionText: "Q1", Skipped: true}}},
	}
	for _, e := range entries {
		if err := store.Append(e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	logs := store.Load()
	if len(logs) != 2 {
		t.Fatalf("Load() returned %d logs, want 2", len(logs))
	}
	if !logs[0].FormCompleted || logs[1].FormCompleted {
		t.Errorf("completion flags not preserved: %+v", logs)
	}
	if !logs[1].Responses[0].Skipped {
		t.Errorf("skip flag not preserved: %+v", logs[1])
	}
}
