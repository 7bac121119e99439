package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the desk orchestrator.
type Metrics struct {
	UsersRegistered     prometheus.Counter
	AdminsAuthorized    prometheus.Counter
	TradesExecuted      prometheus.Counter
	TradeVolume         prometheus.Counter
	AuthorizationDenied prometheus.Counter
}

// New creates a Metrics instance with all desk metrics registered.
func New() *Metrics {
	return &Metrics{
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propdesk_users_registered_total",
			Help: "Total number of users registered through the platform",
		}),
		AdminsAuthorized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propdesk_admins_authorized_total",
			Help: "Total number of successful admin authorizations",
		}),
		TradesExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propdesk_trades_executed_total",
			Help: "Total number of executed trades",
		}),
		TradeVolume: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propdesk_trade_volume_total",
			Help: "Accumulated trade amounts recorded as metadata",
		}),
		AuthorizationDenied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propdesk_trade_authorization_denied_total",
			Help: "Total number of trades rejected for missing authorization",
		}),
	}
}
