package analysis

import (
	"context"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/llm"
)

type mockLLMClient struct {
	response string
	err      error
	lastReq  llm.GenerateRequest
	calls    int
}

func (m *mockLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "gemini-2.5-flash"}, nil
}

func (m *mockLLMClient) Available(context.Context) bool { return m.err == nil }

func testDocs(names ...string) []domain.Document {
	docs := make([]domain.Document, len(names))
	for i, n := range names {
		docs[i] = domain.Document{Name: n, MIMEType: "image/jpeg", Data: []byte(n)}
	}
	return docs
}
