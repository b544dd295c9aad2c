package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/suretydesk/suretydesk/internal/checklist"
	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/llm"
)

func TestClassify_BuildsMultimodalRequest(t *testing.T) {
	client := &mockLLMClient{response: `{"results":[
		{"originalFileName":"a.jpg","suggestedName":"营业执照.jpg","categoryId":"license"},
		{"originalFileName":"b.jpg","suggestedName":"2023年审计报告.pdf","categoryId":"finance_last_year"}]}`}
	svc := NewClassificationService(client, zaptest.NewLogger(t))
	items := checklist.Generate(domain.BondBid, domain.CreditEntity).Descriptors()

	got, err := svc.Classify(context.Background(), testDocs("a.jpg", "b.jpg"), items)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "license", got[0].CategoryID)
	assert.Equal(t, "2023年审计报告.pdf", got[1].SuggestedName)

	req := client.lastReq
	assert.Equal(t, llm.TaskClassify, req.Task)
	assert.True(t, req.JSON)
	assert.Contains(t, req.SystemPrompt, `- ID: "credit_report" | 名称: "征信报告及授权书" (说明: 最近2个月内)`)
	assert.Contains(t, req.SystemPrompt, `"other_materials"`)
	require.Len(t, req.Attachments, 2)
	require.Len(t, req.Parts, 2)
	assert.Contains(t, req.Parts[0], classifyIntro)
	assert.Contains(t, req.Parts[1], "[文件 2] 原名: b.jpg")
}

func TestClassify_LLMErrorPropagates(t *testing.T) {
	svc := NewClassificationService(&mockLLMClient{err: llm.ErrTimeout}, nil)
	_, err := svc.Classify(context.Background(), testDocs("a.jpg"), nil)
	assert.ErrorIs(t, err, llm.ErrTimeout)
}

func TestClassify_SchemaViolation(t *testing.T) {
	svc := NewClassificationService(&mockLLMClient{response: `{"results":[{"suggestedName":"x"}]}`}, nil)
	_, err := svc.Classify(context.Background(), testDocs("a.jpg"), nil)
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
	assert.Contains(t, err.Error(), "categoryId")
}

func TestClassify_CountMismatchStillReturned(t *testing.T) {
	svc := NewClassificationService(&mockLLMClient{response: `{"results":[{"categoryId":"license"}]}`}, nil)
	got, err := svc.Classify(context.Background(), testDocs("a.jpg", "b.jpg"), nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFallbackClassifier_FilesEverythingUnclassified(t *testing.T) {
	inner := NewClassificationService(&mockLLMClient{err: llm.ErrProviderUnavailable}, nil)
	fc := FallbackClassifier{Inner: inner, Log: zaptest.NewLogger(t)}

	got, err := fc.Classify(context.Background(), testDocs("a.jpg", "b.pdf"), nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i, name := range []string{"a.jpg", "b.pdf"} {
		assert.Equal(t, domain.CatchAllItemID, got[i].CategoryID)
		assert.Equal(t, name, got[i].SuggestedName)
		assert.Equal(t, name, got[i].OriginalFileName)
	}
}

func TestFallbackClassifier_CancellationIsNotAFallback(t *testing.T) {
	inner := NewClassificationService(&mockLLMClient{err: context.Canceled}, nil)
	fc := FallbackClassifier{Inner: inner}

	_, err := fc.Classify(context.Background(), testDocs("a.jpg"), nil)
	assert.ErrorIs(t, err, context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inner = NewClassificationService(&mockLLMClient{err: llm.ErrProviderUnavailable}, nil)
	got, err := FallbackClassifier{Inner: inner}.Classify(ctx, testDocs("a.jpg"), nil)
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestFallbackClassifier_PassesThroughSuccess(t *testing.T) {
	inner := NewClassificationService(&mockLLMClient{response: `{"results":[{"categoryId":"articles"}]}`}, nil)
	got, err := FallbackClassifier{Inner: inner}.Classify(context.Background(), testDocs("a"), nil)
	require.NoError(t, err)
	assert.Equal(t, "articles", got[0].CategoryID)
}
