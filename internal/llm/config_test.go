package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_TaskTimeouts(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, 180000, cfg.TaskTimeout(TaskReport))
	assert.Equal(t, 60000, cfg.TaskTimeout("unknown"))
}

func TestWithTaskTimeout_DoesNotAliasDefaults(t *testing.T) {
	base := DefaultConfig()
	cfg := base.WithTaskTimeout(TaskClassify, 1234)

	assert.Equal(t, 1234, cfg.TaskTimeout(TaskClassify))
	assert.Equal(t, 90000, base.TaskTimeout(TaskClassify))
	assert.InDelta(t, 0.1, cfg.Tasks[TaskClassify].Temperature, 1e-9)
}

func TestWithTaskTimeout_IgnoresNonPositive(t *testing.T) {
	cfg := DefaultConfig().WithTaskTimeout(TaskExtract, 0)
	assert.Equal(t, 60000, cfg.TaskTimeout(TaskExtract))
}
