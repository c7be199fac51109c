package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/canvas-assistant-api/internal/upstream"
)

type fakeGenerator struct {
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) GenerateContent(_ context.Context, prompt string, _ upstream.GenerateOptions) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestSummarizeSkipMode(t *testing.T) {
	svc := NewSummaryService(&fakeGenerator{text: "never used"}, zap.NewNop())

	long := strings.Repeat("a", 500)
	assert.Equal(t, "", svc.Summarize(context.Background(), long, SummaryModeSkip))
}

func TestSummarizeEmptyDescription(t *testing.T) {
	svc := NewSummaryService(nil, zap.NewNop())

	assert.Equal(t, "", svc.Summarize(context.Background(), "", SummaryModeLocal))
}

func TestSummarizeShortPassthrough(t *testing.T) {
	svc := NewSummaryService(&fakeGenerator{text: "never used"}, zap.NewNop())

	short := strings.Repeat("x", 99)
	assert.Equal(t, short, svc.Summarize(context.Background(), short, SummaryModeLocal))
	assert.Equal(t, short, svc.Summarize(context.Background(), short, SummaryModeRemote))
}

func TestSummarizeLocalMediumPassthrough(t *testing.T) {
	svc := NewSummaryService(nil, zap.NewNop())

	medium := strings.Repeat("y", 180)
	assert.Equal(t, medium, svc.Summarize(context.Background(), medium, SummaryModeLocal))
}

func TestSummarizeLocalSentenceBoundary(t *testing.T) {
	svc := NewSummaryService(nil, zap.NewNop())

	// 300 chars with the only period at index 150.
	desc := strings.Repeat("a", 150) + "." + strings.Repeat("b", 149)
	require.Len(t, desc, 300)

	got := svc.Summarize(context.Background(), desc, SummaryModeLocal)
	assert.Equal(t, desc[:151]+"...", got)
}

func TestSummarizeLocalHardTruncate(t *testing.T) {
	svc := NewSummaryService(nil, zap.NewNop())

	desc := strings.Repeat("z", 300)
	got := svc.Summarize(context.Background(), desc, SummaryModeLocal)
	assert.Equal(t, desc[:200]+"...", got)
}

func TestSummarizeLocalIgnoresEarlyPeriod(t *testing.T) {
	svc := NewSummaryService(nil, zap.NewNop())

	// A period before offset 100 is not a usable boundary.
	desc := strings.Repeat("a", 50) + "." + strings.Repeat("b", 249)
	got := svc.Summarize(context.Background(), desc, SummaryModeLocal)
	assert.Equal(t, desc[:200]+"...", got)
}

func TestSummarizeAttendanceWithDate(t *testing.T) {
	svc := NewSummaryService(nil, zap.NewNop())

	desc := "Attendance will be taken for the lecture on 11/14/2024. " + strings.Repeat("Please be present. ", 10)
	got := svc.Summarize(context.Background(), desc, SummaryModeLocal)
	assert.Equal(t, "Attendance for class on 11/14/2024", got)
}

func TestSummarizeAttendanceWithoutDate(t *testing.T) {
	svc := NewSummaryService(nil, zap.NewNop())

	desc := strings.Repeat("This assignment records your attendance for the weekly seminar session. ", 3)
	got := svc.Summarize(context.Background(), desc, SummaryModeLocal)
	assert.Equal(t, "Attendance assignment", got)
}

func TestSummarizeRemoteSuccess(t *testing.T) {
	gen := &fakeGenerator{text: "a concise summary"}
	svc := NewSummaryService(gen, zap.NewNop())

	long := strings.Repeat("d", 250)
	got := svc.Summarize(context.Background(), long, SummaryModeRemote)
	assert.Equal(t, "a concise summary", got)
	assert.Equal(t, 1, gen.calls)
}

func TestSummarizeRemoteFailureFallsBackToLocal(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc := NewSummaryService(gen, zap.NewNop())

	desc := strings.Repeat("e", 300)
	got := svc.Summarize(context.Background(), desc, SummaryModeRemote)
	assert.Equal(t, desc[:200]+"...", got)
	assert.Equal(t, 1, gen.calls)
}

func TestSummarizeRemoteWithoutGeneratorUsesLocal(t *testing.T) {
	svc := NewSummaryService(nil, zap.NewNop())

	desc := strings.Repeat("f", 300)
	got := svc.Summarize(context.Background(), desc, SummaryModeRemote)
	assert.Equal(t, desc[:200]+"...", got)
}
