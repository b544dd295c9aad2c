package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/llm"
	"github.com/suretydesk/suretydesk/internal/reconcile"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return New(reg), reg
}

func TestOnCallComplete(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.OnCallComplete(llm.LLMCallEvent{Provider: llm.ProviderGemini, Task: llm.TaskClassify, LatencyMs: 1500, Success: true})
	m.OnCallComplete(llm.LLMCallEvent{Provider: llm.ProviderGemini, Task: llm.TaskClassify, Success: false, ErrorCode: "timeout"})
	m.OnCallComplete(llm.LLMCallEvent{Provider: llm.ProviderOllama, Task: llm.TaskReport, Success: false})

	assert.InDelta(t, 1, testutil.ToFloat64(m.LLMCalls.WithLabelValues("gemini", "classify", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LLMCalls.WithLabelValues("gemini", "classify", "timeout")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LLMCalls.WithLabelValues("ollama", "report", "error")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.LLMLatency))
}

func TestObserveBatch(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.ObserveBatch(reconcile.Result{Filed: map[string][]domain.FileRecord{
		"license":             {{}, {}},
		domain.CatchAllItemID: {{}},
	}}, nil)
	m.ObserveBatch(reconcile.Result{}, fmt.Errorf("%w: boom", reconcile.ErrBatchFailed))
	m.ObserveBatch(reconcile.Result{}, errors.New("other"))

	assert.InDelta(t, 1, testutil.ToFloat64(m.Batches.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Batches.WithLabelValues("failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Batches.WithLabelValues("error")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.BatchFiles.WithLabelValues("checklist")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.BatchFiles.WithLabelValues("catch_all")), 0)
}

func TestObserveFileAndProjects(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.ObserveFile(domain.FileRecord{Status: domain.FileDone})
	m.ObserveFile(domain.FileRecord{Status: domain.FileError})
	m.ObserveProjectCreated(domain.BondBid)
	m.ObserveStatusChange(domain.ProjectApproved)
	m.ObserveHTTP("GET", "/api/v1/projects", 200, 20*time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(m.FilesRead.WithLabelValues("done")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.FilesRead.WithLabelValues("error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ProjectsCreated.WithLabelValues("BID")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.StatusChanges.WithLabelValues("Approved")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequests))
}

func TestNew_SeparateRegistries(t *testing.T) {
	require.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
