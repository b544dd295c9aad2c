package analysis

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/llm"
)

// ErrExtractionFailed is returned when basic-info extraction could not run
// or its output was unusable. Form fields must be left as they were.
var ErrExtractionFailed = errors.New("basic info extraction failed")

// ErrNoDocuments is returned when there is nothing to read.
var ErrNoDocuments = errors.New("no readable documents")

// ExtractionService pulls the four headline form fields out of the uploads.
type ExtractionService struct {
	client llm.LLMClient
	log    *zap.Logger
}

func NewExtractionService(client llm.LLMClient, log *zap.Logger) *ExtractionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExtractionService{client: client, log: log.Named("extract")}
}

// Extract returns whatever fields the model found. Missing fields are not
// an error.
func (s *ExtractionService) Extract(ctx context.Context, docs []domain.Document) (domain.BasicInfo, error) {
	if len(docs) == 0 {
		return domain.BasicInfo{}, ErrNoDocuments
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskExtract,
		SystemPrompt: extractSystemPrompt,
		Parts:        []string{extractIntro},
		Attachments:  attachments(docs),
		JSON:         true,
	})
	if err != nil {
		return domain.BasicInfo{}, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	info, err := decodeValidated[domain.BasicInfo](resp.Text, basicInfoSchema)
	if err != nil {
		return domain.BasicInfo{}, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	s.log.Debug("basic info extracted",
		zap.Bool("project_name", info.ProjectName != ""),
		zap.Bool("customer_name", info.CustomerName != ""),
		zap.Bool("amount", info.Amount != ""),
		zap.Bool("beneficiary", info.Beneficiary != ""))
	return info, nil
}
