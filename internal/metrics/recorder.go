package metrics

import "context"

// Recorder receives analysis metrics
type Recorder interface {
	RecordAnalysis(ctx context.Context, hasBehaviorData bool, qualityScore int)
	RecordDetectorFailure(ctx context.Context, check string)
}

// Noop discards all metrics
type Noop struct{}

func (Noop) RecordAnalysis(context.Context, bool, int)     {}
func (Noop) RecordDetectorFailure(context.Context, string) {}
