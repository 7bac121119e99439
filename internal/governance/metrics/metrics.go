package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the governance module. Vote weight is
// tracked as a counter so dashboards can watch for tally domination by a
// single heavy vote.
type Metrics struct {
	VotesSubmitted    *prometheus.CounterVec
	VoteWeight        *prometheus.CounterVec
	StatusValidations prometheus.Counter
	PoolsCreated      prometheus.Counter
	Donations         prometheus.Counter
	Allocations       prometheus.Counter
}

// New creates a Metrics instance with all governance metrics registered.
func New() *Metrics {
	return &Metrics{
		VotesSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "propdesk_votes_submitted_total",
			Help: "Total number of accepted votes by direction",
		}, []string{"direction"}),
		VoteWeight: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "propdesk_vote_weight_total",
			Help: "Accumulated vote weight by direction",
		}, []string{"direction"}),
		StatusValidations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propdesk_status_validations_total",
			Help: "Total number of successful admin status validations",
		}),
		PoolsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propdesk_pools_created_total",
			Help: "Total number of donation pools created",
		}),
		Donations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propdesk_pool_donations_total",
			Help: "Total number of accepted pool donations",
		}),
		Allocations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propdesk_beginner_allocations_total",
			Help: "Total number of successful beginner allocations",
		}),
	}
}

// ObserveVote records one accepted vote and its weight.
func (m *Metrics) ObserveVote(positive bool, weight uint64) {
	direction := "negative"
	if positive {
		direction = "positive"
	}
	m.VotesSubmitted.WithLabelValues(direction).Inc()
	m.VoteWeight.WithLabelValues(direction).Add(float64(weight))
}
