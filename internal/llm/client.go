package llm

import (
	"context"
	"errors"
	"time"
)

// Attachment is a binary document sent alongside the prompt.
type Attachment struct {
	Name     string
	MIMEType string
	Data     []byte
}

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	// Parts are interleaved with attachments: Parts[i] precedes
	// Attachments[i]; surplus parts follow the last attachment.
	Parts       []string
	Attachments []Attachment
	JSON        bool     // ask the backend for a JSON response
	Temperature *float64 // nil uses task default
	MaxTokens   *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a multimodal language model.
type LLMClient interface {
	// Generate sends a prompt with attachments and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the backend is reachable and configured.
	Available(ctx context.Context) bool
}

// settings resolves per-call overrides against the task defaults.
func (c LLMConfig) settings(req GenerateRequest) (temp float64, maxTok int, timeout time.Duration) {
	tc := c.Tasks[req.Task]
	temp, maxTok = tc.Temperature, tc.MaxTokens
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	return temp, maxTok, time.Duration(c.TaskTimeout(req.Task)) * time.Millisecond
}

// callFunc performs one attempt and returns the text and model version.
type callFunc func(ctx context.Context) (text, model string, err error)

// invoke runs call with the configured retries and reports the outcome to
// the observer. Each attempt gets the full task timeout; a cancelled parent
// context stops retrying. Errors are mapped onto the package sentinels.
func invoke(ctx context.Context, cfg LLMConfig, obs Observer, req GenerateRequest, call callFunc) (*GenerateResponse, error) {
	start := time.Now()
	_, _, timeout := cfg.settings(req)

	event := LLMCallEvent{
		Provider:    cfg.Provider,
		Task:        req.Task,
		Model:       cfg.Model,
		Attachments: len(req.Attachments),
	}

	var lastErr error
	timedOut := false
	for i := 0; i <= cfg.MaxRetries && ctx.Err() == nil; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		text, model, err := call(attemptCtx)
		timedOut = errors.Is(attemptCtx.Err(), context.DeadlineExceeded)
		cancel()
		if err == nil {
			event.LatencyMs = time.Since(start).Milliseconds()
			event.Success = true
			obs.OnCallComplete(event)
			return &GenerateResponse{Text: text, Model: model, LatencyMs: event.LatencyMs}, nil
		}
		lastErr = err
		if errors.Is(err, ErrMissingAPIKey) {
			break
		}
	}

	var err error
	switch {
	case timedOut || ctx.Err() != nil:
		err = ErrTimeout
	case isConnectionError(lastErr):
		err = ErrProviderUnavailable
	case errors.Is(lastErr, ErrMissingAPIKey):
		err = lastErr
	default:
		err = errors.Join(ErrRetryExhausted, lastErr)
	}
	event.LatencyMs = time.Since(start).Milliseconds()
	event.ErrorCode = errorCode(err)
	obs.OnCallComplete(event)
	return nil, err
}

// New builds the client for cfg.Provider.
func New(ctx context.Context, cfg LLMConfig, obs Observer) (LLMClient, error) {
	switch cfg.Provider {
	case ProviderOllama:
		return NewOllamaClient(cfg, obs), nil
	default:
		return NewGeminiClient(ctx, cfg, obs)
	}
}
