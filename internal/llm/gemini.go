package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// geminiClient implements LLMClient on the Gemini API. Attachments are sent
// inline, so PDFs and images are read by the model directly.
type geminiClient struct {
	cfg      LLMConfig
	client   *genai.Client
	observer Observer
}

// NewGeminiClient creates an LLMClient backed by google.golang.org/genai.
// cfg.Endpoint, when set to something other than the Ollama default, is used
// as the API base URL.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.Provider = ProviderGemini

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" && cfg.Endpoint != DefaultConfig().Endpoint {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &geminiClient{cfg: cfg, client: client, observer: observer}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	temp, maxTok, _ := c.cfg.settings(req)

	gc := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temp)),
		MaxOutputTokens: int32(maxTok),
	}
	if req.SystemPrompt != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.JSON {
		gc.ResponseMIMEType = "application/json"
	}
	contents := []*genai.Content{genai.NewContentFromParts(geminiParts(req), genai.RoleUser)}

	return invoke(ctx, c.cfg, c.observer, req, func(ctx context.Context) (string, string, error) {
		resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, contents, gc)
		if err != nil {
			return "", "", err
		}
		text := resp.Text()
		if text == "" {
			return "", "", fmt.Errorf("%w: empty candidate", ErrInvalidOutput)
		}
		return text, resp.ModelVersion, nil
	})
}

func geminiParts(req GenerateRequest) []*genai.Part {
	var parts []*genai.Part
	n := max(len(req.Parts), len(req.Attachments))
	for i := 0; i < n; i++ {
		if i < len(req.Parts) {
			parts = append(parts, genai.NewPartFromText(req.Parts[i]))
		}
		if i < len(req.Attachments) {
			a := req.Attachments[i]
			parts = append(parts, genai.NewPartFromBytes(a.Data, a.MIMEType))
		}
	}
	return parts
}

// Available reports whether an API key is configured. The Gemini API has no
// cheap health endpoint, so reachability is left to the first call.
func (c *geminiClient) Available(context.Context) bool {
	return c.cfg.APIKey != ""
}
