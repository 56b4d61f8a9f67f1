package metrics

import "github.com/prometheus/client_golang/prometheus"

// Trigger labels who caused a status change.
const (
	TriggerLeader    = "leader"
	TriggerSystem    = "system"
	TriggerScheduler = "scheduler"
)

// CampaignMetrics tracks lifecycle and pledge activity.
type CampaignMetrics struct {
	transitions   *prometheus.CounterVec
	pledgeRetries prometheus.Counter
	sinkFailures  *prometheus.CounterVec
}

func NewCampaignMetrics(reg prometheus.Registerer) *CampaignMetrics {
	if reg == nil {
		return &CampaignMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "campaign_transitions_total",
		Help:      "Campaign status changes by source status, target status and trigger.",
	}, []string{"from", "to", "trigger"})
	pledgeRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pledge_conflict_retries_total",
		Help:      "Pledge changes retried after losing a concurrent write on the same campaign.",
	})
	sinkFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_sink_failures_total",
		Help:      "Notification deliveries dropped by a sink.",
	}, []string{"sink"})
	reg.MustRegister(transitions, pledgeRetries, sinkFailures)
	return &CampaignMetrics{
		transitions:   transitions,
		pledgeRetries: pledgeRetries,
		sinkFailures:  sinkFailures,
	}
}

func (m *CampaignMetrics) IncTransition(from, to, trigger string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to), normalizeLabel(trigger)).Inc()
}

func (m *CampaignMetrics) IncPledgeRetry() {
	if m == nil || m.pledgeRetries == nil {
		return
	}
	m.pledgeRetries.Inc()
}

func (m *CampaignMetrics) IncSinkFailure(sink string) {
	if m == nil || m.sinkFailures == nil {
		return
	}
	m.sinkFailures.WithLabelValues(normalizeLabel(sink)).Inc()
}

// AddTransitions records n identical status changes made by one bulk write.
func (m *CampaignMetrics) AddTransitions(from, to, trigger string, n int64) {
	if m == nil || m.transitions == nil || n <= 0 {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to), normalizeLabel(trigger)).Add(float64(n))
}
