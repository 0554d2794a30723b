// Package metrics provides Prometheus counters for drill sessions.
//
// lexdrill is a short-lived CLI, so metrics are exported with
// WriteTextfile for a node_exporter textfile collector rather than served.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/abhisek/lexdrill/internal/mastery"
	"github.com/abhisek/lexdrill/internal/progress"
	"github.com/abhisek/lexdrill/internal/session"
)

const namespace = "lexdrill"

// Collector owns a private registry and the drill metrics registered in it.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	// AnswersTotal counts graded answers.
	// Labels: tier (1, 2, 3), result (correct, wrong), timing
	AnswersTotal *prometheus.CounterVec

	// TierTransitionsTotal counts durable tier changes.
	// Labels: direction (promote, demote), trigger
	TierTransitionsTotal *prometheus.CounterVec

	// CategoryDemotionsTotal counts category pressure demotions.
	CategoryDemotionsTotal prometheus.Counter

	// SessionsTotal counts finished sessions.
	// Labels: recommendation (advance, repeat, fall_back)
	SessionsTotal *prometheus.CounterVec

	// SessionAccuracy is the accuracy of the most recent session (0-1).
	SessionAccuracy prometheus.Gauge
}

var _ session.Recorder = (*Collector)(nil)

// New creates a Collector with its own registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		AnswersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "drill",
				Name:      "answers_total",
				Help:      "Total number of graded answers",
			},
			[]string{"tier", "result", "timing"},
		),
		TierTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mastery",
				Name:      "tier_transitions_total",
				Help:      "Total number of tier promotions and demotions",
			},
			[]string{"direction", "trigger"},
		),
		CategoryDemotionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mastery",
				Name:      "category_demotions_total",
				Help:      "Total number of category pressure demotions",
			},
		),
		SessionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "drill",
				Name:      "sessions_total",
				Help:      "Total number of completed sessions by recommendation",
			},
			[]string{"recommendation"},
		),
		SessionAccuracy: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "drill",
				Name:      "session_accuracy_ratio",
				Help:      "Accuracy of the most recent session",
			},
		),
	}
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveAnswer implements session.Recorder.
func (c *Collector) ObserveAnswer(tier progress.Tier, correct bool, timing mastery.Timing) {
	if c == nil {
		return
	}
	result := "wrong"
	if correct {
		result = "correct"
	}
	c.AnswersTotal.WithLabelValues(strconv.Itoa(int(tier)), result, string(timing)).Inc()
}

// ObserveTransition implements session.Recorder. Nil transitions are ignored.
func (c *Collector) ObserveTransition(tr *mastery.Transition) {
	if c == nil || tr == nil {
		return
	}
	switch {
	case tr.Promoted():
		c.TierTransitionsTotal.WithLabelValues("promote", tr.Trigger).Inc()
	case tr.Demoted():
		c.TierTransitionsTotal.WithLabelValues("demote", tr.Trigger).Inc()
	}
}

// ObserveCategoryDemotion implements session.Recorder.
func (c *Collector) ObserveCategoryDemotion(string) {
	if c == nil {
		return
	}
	c.CategoryDemotionsTotal.Inc()
}

// ObserveSession records a finished session.
func (c *Collector) ObserveSession(summary *session.SessionSummary, rec *session.Recommendation) {
	if c == nil || summary == nil {
		return
	}
	c.SessionAccuracy.Set(summary.Accuracy)
	if rec != nil {
		c.SessionsTotal.WithLabelValues(string(rec.Kind)).Inc()
	}
}

// WriteTextfile writes every metric to path in the Prometheus text format.
// The file is written atomically.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
