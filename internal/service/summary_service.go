package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/canvas-assistant-api/internal/upstream"
)

// SummaryMode selects how a description is condensed.
type SummaryMode string

const (
	// SummaryModeSkip returns an empty summary without any work; used when
	// the caller trades summaries for throughput.
	SummaryModeSkip SummaryMode = "skip"
	// SummaryModeLocal uses the deterministic truncation fallback only.
	SummaryModeLocal SummaryMode = "local"
	// SummaryModeRemote asks the generative-language API, falling back to
	// local on any failure.
	SummaryModeRemote SummaryMode = "remote"
)

const (
	// Descriptions shorter than this are returned unchanged; there is
	// nothing to compress.
	summaryMinLength = 100
	// Hard truncation offset when no sentence boundary is found.
	summaryTruncateAt = 200

	summaryClippedMarker = "..."

	summaryPrompt = "Summarize the following assignment description concisely, highlighting key requirements and deadlines:\n\n%s"
)

var attendanceDatePattern = regexp.MustCompile(
	`\d{1,2}[/.-]\d{1,2}(?:[/.-]\d{2,4})?` +
		`|(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:,\s*\d{4})?`,
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, opts upstream.GenerateOptions) (string, error)
}

// SummaryService condenses assignment descriptions. Summarize never fails:
// remote errors degrade to the local heuristic, so a broken generative API
// can never fail an assignment listing.
type SummaryService struct {
	generator contentGenerator
	logger    *zap.Logger
}

// NewSummaryService constructs the service. A nil generator forces local
// mode for remote requests.
func NewSummaryService(generator contentGenerator, logger *zap.Logger) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{generator: generator, logger: logger}
}

// Summarize produces a short synopsis of description according to mode.
func (s *SummaryService) Summarize(ctx context.Context, description string, mode SummaryMode) string {
	if mode == SummaryModeSkip {
		return ""
	}
	if len(description) < summaryMinLength {
		return description
	}

	if mode == SummaryModeRemote && s.generator != nil {
		text, err := s.generator.GenerateContent(ctx, fmt.Sprintf(summaryPrompt, description), upstream.GenerateOptions{})
		if err == nil && text != "" {
			return text
		}
		s.logger.Warn("remote_summary_failed", zap.Error(err))
	}

	return localSummary(description)
}

// localSummary is the deterministic fallback. Attendance-style descriptions
// collapse to a fixed phrase; everything else is truncated at the first
// sentence boundary between offsets 100 and 200.
func localSummary(description string) string {
	if strings.Contains(strings.ToLower(description), "attendance") {
		if date := attendanceDatePattern.FindString(description); date != "" {
			return "Attendance for class on " + date
		}
		return "Attendance assignment"
	}

	if len(description) <= summaryTruncateAt {
		return description
	}
	window := description[summaryMinLength:summaryTruncateAt]
	if idx := strings.IndexByte(window, '.'); idx >= 0 {
		return description[:summaryMinLength+idx+1] + summaryClippedMarker
	}
	return description[:summaryTruncateAt] + summaryClippedMarker
}
