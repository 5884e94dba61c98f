package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	GuestsRegistered prometheus.Counter
	GuestsRemoved    prometheus.Counter
	CheckIns         prometheus.Counter
	CheckInReplays   prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		GuestsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doorlist_guests_registered_total",
			Help: "Total number of guests registered across all events",
		}),
		GuestsRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doorlist_guests_removed_total",
			Help: "Total number of guests removed across all events",
		}),
		CheckIns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doorlist_checkins_total",
			Help: "Total number of successful guest check-ins",
		}),
		CheckInReplays: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doorlist_checkin_replays_total",
			Help: "Total number of check-in attempts on already checked-in guests",
		}),
	}
}
