package llm

import "go.uber.org/zap"

// LLMCallEvent records metadata about a single LLM invocation.
type LLMCallEvent struct {
	Provider    Provider
	Task        TaskType
	Model       string
	Attachments int
	LatencyMs   int64
	Success     bool
	ErrorCode   string
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes LLM call events to a zap logger.
type LogObserver struct {
	log *zap.Logger
}

func NewLogObserver(log *zap.Logger) *LogObserver {
	return &LogObserver{log: log.Named("llm")}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	fields := []zap.Field{
		zap.String("provider", string(event.Provider)),
		zap.String("task", string(event.Task)),
		zap.String("model", event.Model),
		zap.Int("attachments", event.Attachments),
		zap.Int64("latency_ms", event.LatencyMs),
	}
	if !event.Success {
		o.log.Warn("llm call failed", append(fields, zap.String("error_code", event.ErrorCode))...)
		return
	}
	o.log.Info("llm call", fields...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}

// Observers fans an event out to several observers.
type Observers []Observer

func (obs Observers) OnCallComplete(event LLMCallEvent) {
	for _, o := range obs {
		o.OnCallComplete(event)
	}
}
