// Package extraction turns an accepted upload into resume data, either by a
// canned mock or by delegating to a remote extraction service.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-review/internal/intake"
	"resume-review/resume/model"
)

// FallbackMessage is shown in place of a result when extraction fails.
const FallbackMessage = "Error uploading or processing file"

// ErrExtractionFailed wraps every remote failure: transport, status or decoding.
var ErrExtractionFailed = errors.New("extraction failed")

// Result holds either raw text or a structured record.
type Result struct {
	Text string
	Data *model.ResumeData
}

// Structured reports whether the result carries a structured record.
func (r Result) Structured() bool { return r.Data != nil }

// Extractor converts a file into a Result.
type Extractor interface {
	Extract(ctx context.Context, f intake.File) (Result, error)
}

// DisplayText returns the text to show for an extraction outcome.
func DisplayText(res Result, err error) string {
	if err != nil {
		return FallbackMessage
	}
	return res.Text
}

// Mode names an extraction strategy.
type Mode string

const (
	ModeMock   Mode = "mock"
	ModeRemote Mode = "remote"
)

// ParseMode parses a strategy name; empty defaults to mock.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(ModeMock):
		return ModeMock, nil
	case string(ModeRemote):
		return ModeRemote, nil
	default:
		return "", fmt.Errorf("unknown extractor mode %q", raw)
	}
}
