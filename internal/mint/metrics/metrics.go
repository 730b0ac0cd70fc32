package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	MintRequests    *prometheus.CounterVec
	MintRejections  *prometheus.CounterVec
	TokensMinted    *prometheus.CounterVec
	MintLatency     prometheus.Histogram
	Compensations   prometheus.Counter
	TransfersPaused prometheus.Gauge
	AdminActions    *prometheus.CounterVec
}

// New registers the mint metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		MintRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mintgate_mint_requests_total",
			Help: "Mint requests by outcome",
		}, []string{"outcome"}),
		MintRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mintgate_mint_rejections_total",
			Help: "Rejected mint requests by reason",
		}, []string{"reason"}),
		TokensMinted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mintgate_tokens_minted_total",
			Help: "Tokens issued, by stage (owner for owner mints)",
		}, []string{"stage"}),
		MintLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mintgate_mint_duration_seconds",
			Help:    "Time spent authorizing and committing a mint",
			Buckets: prometheus.DefBuckets,
		}),
		Compensations: f.NewCounter(prometheus.CounterOpts{
			Name: "mintgate_mint_compensations_total",
			Help: "Reservations released after the asset ledger failed",
		}),
		TransfersPaused: f.NewGauge(prometheus.GaugeOpts{
			Name: "mintgate_transfers_paused",
			Help: "1 while the transfer gate is paused",
		}),
		AdminActions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mintgate_admin_actions_total",
			Help: "Administrative operations by action and outcome",
		}, []string{"action", "outcome"}),
	}
}

func (m *Metrics) ObserveMint(outcome string, d time.Duration) {
	m.MintRequests.WithLabelValues(outcome).Inc()
	m.MintLatency.Observe(d.Seconds())
}

func (m *Metrics) IncrementRejection(reason string) {
	m.MintRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) AddTokensMinted(stage string, count uint64) {
	m.TokensMinted.WithLabelValues(stage).Add(float64(count))
}

func (m *Metrics) IncrementCompensations() {
	m.Compensations.Inc()
}

func (m *Metrics) SetPaused(paused bool) {
	if paused {
		m.TransfersPaused.Set(1)
		return
	}
	m.TransfersPaused.Set(0)
}

func (m *Metrics) IncrementAdminAction(action, outcome string) {
	m.AdminActions.WithLabelValues(action, outcome).Inc()
}
