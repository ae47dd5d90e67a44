// Package metrics provides a Prometheus-based Observer for the engine.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/petrijr/convo/pkg/api"
)

// PrometheusObserver implements api.Observer with Prometheus collectors.
type PrometheusObserver struct {
	flowsStarted   *prometheus.CounterVec
	flowsCompleted *prometheus.CounterVec
	flowsCancelled prometheus.Counter
	stepsAdvanced  prometheus.Counter
	inputsRejected *prometheus.CounterVec
	commitsFailed  *prometheus.CounterVec
	stepDuration   prometheus.Histogram
}

var _ api.Observer = (*PrometheusObserver)(nil)

// NewPrometheusObserver registers the engine's collectors with reg and
// returns the observer. Pass prometheus.DefaultRegisterer for the usual
// process-wide registry, or a private registry in tests.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	factory := promauto.With(reg)
	return &PrometheusObserver{
		flowsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "convo_flows_started_total",
				Help: "Total number of flows started, by flow kind",
			},
			[]string{"flow"},
		),
		flowsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "convo_flows_completed_total",
				Help: "Total number of flows committed, by flow kind",
			},
			[]string{"flow"},
		),
		flowsCancelled: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "convo_flows_cancelled_total",
				Help: "Total number of flows cancelled by the user",
			},
		),
		stepsAdvanced: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "convo_steps_advanced_total",
				Help: "Total number of accepted step transitions",
			},
		),
		inputsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "convo_inputs_rejected_total",
				Help: "Total number of rejected inputs, by validation reason",
			},
			[]string{"reason"},
		),
		commitsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "convo_commits_failed_total",
				Help: "Total number of failed commit attempts, by flow kind",
			},
			[]string{"flow"},
		),
		stepDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "convo_step_duration_seconds",
				Help:    "Duration of accepted step transitions in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (o *PrometheusObserver) OnFlowStarted(ctx context.Context, userID int64, flow api.FlowKind) {
	o.flowsStarted.WithLabelValues(string(flow)).Inc()
}

func (o *PrometheusObserver) OnStepAdvanced(ctx context.Context, userID int64, from, to string, d time.Duration) {
	o.stepsAdvanced.Inc()
	o.stepDuration.Observe(d.Seconds())
}

func (o *PrometheusObserver) OnInputRejected(ctx context.Context, userID int64, stateID, reason string) {
	o.inputsRejected.WithLabelValues(reason).Inc()
}

func (o *PrometheusObserver) OnFlowCompleted(ctx context.Context, userID int64, flow api.FlowKind, agreementID string) {
	o.flowsCompleted.WithLabelValues(string(flow)).Inc()
}

func (o *PrometheusObserver) OnFlowCancelled(ctx context.Context, userID int64, stateID string) {
	o.flowsCancelled.Inc()
}

func (o *PrometheusObserver) OnCommitFailed(ctx context.Context, userID int64, flow api.FlowKind, err error) {
	o.commitsFailed.WithLabelValues(string(flow)).Inc()
}
