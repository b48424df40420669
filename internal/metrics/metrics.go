// Package metrics exposes Prometheus counters for the RSVP workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK        = "ok"
	ResultInvalid   = "invalid"
	ResultDuplicate = "duplicate"
	ResultError     = "error"
	ResultAlready   = "already_checked_in"
	ResultNotFound  = "not_found"
	ResultRejected  = "rejected"
	ResultFailed    = "failed"
)

var (
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsvp_submissions_total",
			Help: "RSVP submissions by result.",
		},
		[]string{"result"},
	)
	CheckIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsvp_checkins_total",
			Help: "Check-in attempts by result.",
		},
		[]string{"result"},
	)
	WADeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsvp_wa_deliveries_total",
			Help: "WhatsApp gateway deliveries by result.",
		},
		[]string{"result"},
	)
	WADuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rsvp_wa_delivery_duration_seconds",
			Help:    "Duration of WhatsApp gateway requests.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"result"},
	)
)
