package repository

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"formlens/internal/model"
)

// LogFileStore keeps submission logs in a single JSON array file.
// A missing or unreadable file loads as an empty collection.
type LogFileStore struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex
}

// NewLogFileStore creates a store backed by path
func NewLogFileStore(path string, log *zap.Logger) *LogFileStore {
	return &LogFileStore{path: path, log: log}
}

// Load reads every stored log. It never fails.
func (s *LogFileStore) Load() []model.SubmissionLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *LogFileStore) load() []model.SubmissionLog {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info("Log file not found, starting empty", zap.String("path", s.path))
		return []model.SubmissionLog{}
	}
	if err != nil {
		s.log.Warn("Failed to read log file", zap.String("path", s.path), zap.Error(err))
		return []model.SubmissionLog{}
	}

	logs := []model.SubmissionLog{}
	if err := json.Unmarshal(data, &logs); err != nil {
		s.log.Warn("Failed to parse log file", zap.String("path", s.path), zap.Error(err))
		return []model.SubmissionLog{}
	}
	return logs
}

// Append adds one log and rewrites the file
func (s *LogFileStore) Append(entry model.SubmissionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := append(s.load(), entry)
	data, err := json.MarshalIndent(logs, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
