package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"formlens/internal/model"
)

// ReportCache holds the latest generated report per form
type ReportCache interface {
	Get(ctx context.Context, formID string) (*model.StoredReport, error)
	Set(ctx context.Context, report *model.StoredReport) error
	Invalidate(ctx context.Context, formID string) error
}

type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache
func NewReportCache(client *redis.Client) ReportCache {
	return &reportCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *reportCache) key(formID string) string {
	return fmt.Sprintf("form:%s:report", formID)
}

func (c *reportCache) Get(ctx context.Context, formID string) (*model.StoredReport, error) {
	data, err := c.client.Get(ctx, c.key(formID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report model.StoredReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *reportCache) Set(ctx context.Context, report *model.StoredReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(report.FormID), data, c.ttl).Err()
}

func (c *reportCache) Invalidate(ctx context.Context, formID string) error {
	return c.client.Del(ctx, c.key(formID)).Err()
}
