package extraction

import (
	"context"
	"time"

	"resume-review/internal/intake"
	"resume-review/resume/model"
)

// DefaultMockDelay simulates processing time.
const DefaultMockDelay = 1500 * time.Millisecond

// Mock returns the sample record after Delay, whatever the file contains.
type Mock struct {
	Delay time.Duration
}

// NewMock constructs a Mock with the given delay.
func NewMock(delay time.Duration) *Mock {
	return &Mock{Delay: delay}
}

// Extract waits for the delay and returns the sample record.
func (m *Mock) Extract(ctx context.Context, _ intake.File) (Result, error) {
	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}
	data := model.Sample()
	return Result{Data: &data}, nil
}

var _ Extractor = (*Mock)(nil)
