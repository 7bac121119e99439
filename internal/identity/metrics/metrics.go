package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the identity module.
type Metrics struct {
	IdentitiesRegistered prometheus.Counter
	AgreementsCreated    prometheus.Counter
	ScoreUpdates         prometheus.Counter
}

// New creates a Metrics instance with all identity metrics registered.
func New() *Metrics {
	return &Metrics{
		IdentitiesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propdesk_identities_registered_total",
			Help: "Total number of identities registered",
		}),
		AgreementsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propdesk_trust_agreements_created_total",
			Help: "Total number of trust agreements created",
		}),
		ScoreUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propdesk_trust_score_updates_total",
			Help: "Total number of verified trust score updates",
		}),
	}
}

func (m *Metrics) IncrementIdentitiesRegistered() {
	m.IdentitiesRegistered.Inc()
}

func (m *Metrics) IncrementAgreementsCreated() {
	m.AgreementsCreated.Inc()
}

func (m *Metrics) IncrementScoreUpdates() {
	m.ScoreUpdates.Inc()
}
