// Package metrics exposes Prometheus collectors for LLM calls, intake and
// project activity.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/llm"
	"github.com/suretydesk/suretydesk/internal/reconcile"
)

const namespace = "suretydesk"

type Metrics struct {
	LLMCalls        *prometheus.CounterVec
	LLMLatency      *prometheus.HistogramVec
	FilesRead       *prometheus.CounterVec
	Batches         *prometheus.CounterVec
	BatchFiles      *prometheus.CounterVec
	ProjectsCreated *prometheus.CounterVec
	StatusChanges   *prometheus.CounterVec
	HTTPRequests    *prometheus.HistogramVec
}

// New registers every collector on reg. Pass prometheus.NewRegistry() in
// tests to keep registrations isolated.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LLMCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_calls_total",
				Help:      "Total number of LLM calls by task and outcome",
			},
			[]string{"provider", "task", "outcome"},
		),
		LLMLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_call_duration_seconds",
				Help:      "Duration of LLM calls in seconds",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 240},
			},
			[]string{"provider", "task"},
		),
		FilesRead: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "intake_files_total",
				Help:      "Uploaded files by final read status",
			},
			[]string{"status"},
		),
		Batches: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classification_batches_total",
				Help:      "Batch classifications by outcome",
			},
			[]string{"outcome"},
		),
		BatchFiles: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classification_files_total",
				Help:      "Files filed by batch classification, split by destination",
			},
			[]string{"destination"},
		),
		ProjectsCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "projects_created_total",
				Help:      "Projects created from submitted reports",
			},
			[]string{"category"},
		),
		StatusChanges: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "project_status_changes_total",
				Help:      "Project status updates by target status",
			},
			[]string{"status"},
		),
		HTTPRequests: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route and status code",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "code"},
		),
	}
}

var _ llm.Observer = (*Metrics)(nil)

func (m *Metrics) OnCallComplete(e llm.LLMCallEvent) {
	outcome := "success"
	if !e.Success {
		outcome = e.ErrorCode
		if outcome == "" {
			outcome = "error"
		}
	}
	m.LLMCalls.WithLabelValues(string(e.Provider), string(e.Task), outcome).Inc()
	m.LLMLatency.WithLabelValues(string(e.Provider), string(e.Task)).
		Observe(float64(e.LatencyMs) / 1000)
}

// ObserveFile is meant for intake.Tracker.OnComplete.
func (m *Metrics) ObserveFile(rec domain.FileRecord) {
	m.FilesRead.WithLabelValues(string(rec.Status)).Inc()
}

func (m *Metrics) ObserveBatch(res reconcile.Result, err error) {
	if err != nil {
		outcome := "error"
		if errors.Is(err, reconcile.ErrBatchFailed) {
			outcome = "failed"
		}
		m.Batches.WithLabelValues(outcome).Inc()
		return
	}
	m.Batches.WithLabelValues("ok").Inc()
	for itemID, files := range res.Filed {
		dest := "checklist"
		if itemID == domain.CatchAllItemID {
			dest = "catch_all"
		}
		m.BatchFiles.WithLabelValues(dest).Add(float64(len(files)))
	}
}

func (m *Metrics) ObserveProjectCreated(category domain.BondCategory) {
	m.ProjectsCreated.WithLabelValues(string(category)).Inc()
}

func (m *Metrics) ObserveStatusChange(status domain.ProjectStatus) {
	m.StatusChanges.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, code int, took time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Observe(took.Seconds())
}
