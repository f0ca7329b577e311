package service

import (
	"context"
	"errors"
	"math"
)

// ErrSimilarityUnavailable is returned when the embedding service is not configured or not started
var ErrSimilarityUnavailable = errors.New("similarity service unavailable")

// Embedder maps texts to fixed-length embeddings, one per input, in input order.
// Implementations must be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// readiness is implemented by embedders with an explicit lifecycle
type readiness interface {
	Ready() bool
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths and zero vectors yield 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
