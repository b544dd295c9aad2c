// Package analysis turns uploaded documents into checklist suggestions,
// basic form fields and a drafted review report using an LLM.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/llm"
	"github.com/suretydesk/suretydesk/internal/reconcile"
)

type classificationResponse struct {
	Results []domain.Classification `json:"results"`
}

// ClassificationService asks the model to file each document under a
// checklist item. Results are positional.
type ClassificationService struct {
	client llm.LLMClient
	log    *zap.Logger
}

var _ reconcile.Classifier = (*ClassificationService)(nil)

func NewClassificationService(client llm.LLMClient, log *zap.Logger) *ClassificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ClassificationService{client: client, log: log.Named("classify")}
}

func (s *ClassificationService) Classify(ctx context.Context, docs []domain.Document, items []domain.ItemDescriptor) ([]domain.Classification, error) {
	req := llm.GenerateRequest{
		Task:         llm.TaskClassify,
		SystemPrompt: buildClassifySystemPrompt(items),
		JSON:         true,
	}
	for i, d := range docs {
		text := fmt.Sprintf("\n[文件 %d] 原名: %s", i+1, d.Name)
		if i == 0 {
			text = classifyIntro + text
		}
		req.Parts = append(req.Parts, text)
		req.Attachments = append(req.Attachments, attachment(d))
	}

	resp, err := s.client.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("classify %d files: %w", len(docs), err)
	}

	parsed, err := decodeValidated[classificationResponse](resp.Text, classificationSchema)
	if err != nil {
		return nil, fmt.Errorf("classify %d files: %w", len(docs), err)
	}
	if len(parsed.Results) != len(docs) {
		s.log.Warn("classifier result count mismatch",
			zap.Int("files", len(docs)), zap.Int("results", len(parsed.Results)))
	}
	return parsed.Results, nil
}

// FallbackClassifier routes every document to the catch-all bucket under
// its original name when the wrapped classifier fails. Cancellation is not
// a classifier failure and is returned as is.
type FallbackClassifier struct {
	Inner reconcile.Classifier
	Log   *zap.Logger
}

func (f FallbackClassifier) Classify(ctx context.Context, docs []domain.Document, items []domain.ItemDescriptor) ([]domain.Classification, error) {
	results, err := f.Inner.Classify(ctx, docs, items)
	if err == nil {
		return results, nil
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	if f.Log != nil {
		f.Log.Warn("classification failed, filing batch as unclassified",
			zap.Int("files", len(docs)), zap.Error(err))
	}
	out := make([]domain.Classification, len(docs))
	for i, d := range docs {
		out[i] = domain.Classification{
			OriginalFileName: d.Name,
			SuggestedName:    d.Name,
			CategoryID:       domain.CatchAllItemID,
		}
	}
	return out, nil
}

func attachment(d domain.Document) llm.Attachment {
	return llm.Attachment{
		Name:     d.Name,
		MIMEType: domain.FirstNonEmpty(d.MIMEType, domain.DefaultMIMEType),
		Data:     d.Data,
	}
}

func attachments(docs []domain.Document) []llm.Attachment {
	out := make([]llm.Attachment, len(docs))
	for i, d := range docs {
		out[i] = attachment(d)
	}
	return out
}
