package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/llm"
)

// ErrGenerationFailed is returned when no report could be drafted.
var ErrGenerationFailed = errors.New("report generation failed")

// ReportService drafts the full review report from the uploaded documents.
type ReportService struct {
	client llm.LLMClient
	log    *zap.Logger
	now    func() time.Time
}

func NewReportService(client llm.LLMClient, log *zap.Logger) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportService{client: client, log: log.Named("report"), now: time.Now}
}

// Generate returns the model's draft. The draft is partial by nature; merge
// it over report.Default before display.
func (s *ReportService) Generate(ctx context.Context, docs []domain.Document, feeDescription string) (*domain.ReportData, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, ErrNoDocuments)
	}

	year := s.now().Year()
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskReport,
		SystemPrompt: reportSystemPrompt,
		Parts:        []string{buildReportInstructions(year-1, year, feeDescription)},
		Attachments:  attachments(docs),
		JSON:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	draft, err := decodeValidated[domain.ReportData](resp.Text, reportSchema)
	if err != nil {
		s.log.Warn("report draft rejected", zap.Error(err), zap.Int("response_len", len(resp.Text)))
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	s.log.Info("report drafted", zap.Int("documents", len(docs)), zap.Int64("latency_ms", resp.LatencyMs))
	return &draft, nil
}
