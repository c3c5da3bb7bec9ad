package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "marketplace"

var (
	bookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created",
	})

	bookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "booking_transitions_total",
		Help:      "Total number of booking status changes by target status",
	}, []string{"status"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts by result",
	}, []string{"result"})
)
