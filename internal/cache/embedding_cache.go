package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EmbeddingCache stores text embeddings so repeated analyses skip the embedding API
type EmbeddingCache interface {
	// GetMany returns one entry per text; misses are nil
	GetMany(ctx context.Context, model string, texts []string) ([][]float64, error)
	SetMany(ctx context.Context, model string, texts []string, vectors [][]float64) error
}

type embeddingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEmbeddingCache creates a new embedding cache
func NewEmbeddingCache(client *redis.Client) EmbeddingCache {
	return &embeddingCache{
		client: client,
		ttl:    7 * 24 * time.Hour,
	}
}

func (c *embeddingCache) key(model, text string) string {
	return fmt.Sprintf("emb:%s:%x", model, sha256.Sum256([]byte(text)))
}

func (c *embeddingCache) GetMany(ctx context.Context, model string, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}
	keys := make([]string, 0, len(texts))
	for _, t := range texts {
		keys = append(keys, c.key(model, t))
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	vectors := make([][]float64, len(texts))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var vec []float64
		if err := json.Unmarshal([]byte(s), &vec); err != nil {
			continue
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (c *embeddingCache) SetMany(ctx context.Context, model string, texts []string, vectors [][]float64) error {
	if len(texts) != len(vectors) {
		return fmt.Errorf("embedding cache: %d texts for %d vectors", len(texts), len(vectors))
	}
	pipe := c.client.Pipeline()
	for i, t := range texts {
		data, err := json.Marshal(vectors[i])
		if err != nil {
			return err
		}
		pipe.Set(ctx, c.key(model, t), data, c.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}
