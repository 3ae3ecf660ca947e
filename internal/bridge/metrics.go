package bridge

import (
	"time"

	"github.com/muurk/iqrfgw/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
)

// Call outcome labels
const (
	OutcomeOK        = "ok"
	OutcomeEmpty     = "empty"
	OutcomeDpaError  = "dpa_error"
	OutcomeUserError = "user_error"
	OutcomeJSONError = "json_error"
	OutcomeInvalid   = "invalid"
)

// Metrics records bridge call counts and latencies
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the bridge collectors and registers them with reg.
// A nil reg leaves them unregistered, which is handy in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "iqrfgw",
				Subsystem: "bridge",
				Name:      "calls_total",
				Help:      "Synchronous daemon calls by message type and outcome.",
			},
			[]string{"mtype", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "iqrfgw",
				Subsystem: "bridge",
				Name:      "call_duration_seconds",
				Help:      "Synchronous daemon call duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"mtype"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.calls, m.duration)
	}
	return m
}

// observe is safe on a nil receiver
func (m *Metrics) observe(mType string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(mType, outcomeLabel(err)).Inc()
	m.duration.WithLabelValues(mType).Observe(elapsed.Seconds())
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case protocol.IsEmptyResponse(err):
		return OutcomeEmpty
	case protocol.IsDpaError(err):
		return OutcomeDpaError
	case protocol.IsUserError(err):
		return OutcomeUserError
	case protocol.IsJSONError(err):
		return OutcomeJSONError
	default:
		return OutcomeInvalid
	}
}
