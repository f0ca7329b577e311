package service

import (
	"context"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"

	"formlens/internal/cache"
	"formlens/internal/config"
)

// EmbeddingService is the similarity capability backing redundancy detection.
// It is loaded once with Start and shared by all requests; embedding has no
// side effects so no locking is needed. Calls carry the caller's context but
// no timeout or retry of their own.
type EmbeddingService struct {
	gemini *geminiClient
	model  string
	cache  cache.EmbeddingCache
	log    *zap.Logger
	ready  atomic.Bool
}

// NewEmbeddingService creates an embedding service; embCache may be nil
func NewEmbeddingService(cfg *config.AIConfig, embCache cache.EmbeddingCache, log *zap.Logger) *EmbeddingService {
	return &EmbeddingService{
		gemini: &geminiClient{config: cfg, client: &http.Client{}},
		model:  cfg.EmbeddingModel,
		cache:  embCache,
		log:    log,
	}
}

// Start verifies the embedding model answers and marks the service ready.
// On failure the service stays unavailable and redundancy checks report so.
func (s *EmbeddingService) Start(ctx context.Context) error {
	if !s.gemini.config.IsEnabled() {
		s.log.Warn("Embedding service disabled: AI API key not set")
		return ErrSimilarityUnavailable
	}
	if _, err := s.gemini.batchEmbed(ctx, s.model, []string{"ping"}); err != nil {
		s.log.Warn("Embedding service failed to start", zap.String("model", s.model), zap.Error(err))
		return err
	}
	s.ready.Store(true)
	s.log.Info("Embedding service ready", zap.String("model", s.model))
	return nil
}

// Close marks the service unavailable and releases idle connections
func (s *EmbeddingService) Close() error {
	s.ready.Store(false)
	s.gemini.client.CloseIdleConnections()
	return nil
}

// Ready reports whether Start succeeded and Close has not been called
func (s *EmbeddingService) Ready() bool {
	return s.ready.Load()
}

// Embed returns one embedding per text, serving cached vectors where possible
func (s *EmbeddingService) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if !s.Ready() {
		return nil, ErrSimilarityUnavailable
	}

	vectors := make([][]float64, len(texts))
	if s.cache != nil {
		cached, err := s.cache.GetMany(ctx, s.model, texts)
		if err != nil {
			s.log.Warn("Embedding cache read failed", zap.Error(err))
		} else {
			copy(vectors, cached)
		}
	}

	var missTexts []string
	var missIdx []int
	for i, v := range vectors {
		if v == nil {
			missTexts = append(missTexts, texts[i])
			missIdx = append(missIdx, i)
		}
	}
	if len(missTexts) == 0 {
		return vectors, nil
	}

	fresh, err := s.gemini.batchEmbed(ctx, s.model, missTexts)
	if err != nil {
		return nil, err
	}
	for i, idx := range missIdx {
		vectors[idx] = fresh[i]
	}

	if s.cache != nil {
		if err := s.cache.SetMany(ctx, s.model, missTexts, fresh); err != nil {
			s.log.Warn("Embedding cache write failed", zap.Error(err))
		}
	}
	return vectors, nil
}
