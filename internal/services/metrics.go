package services

import "github.com/prometheus/client_golang/prometheus"

// Reservation outcomes. Label values are fixed to keep cardinality bounded.
const (
	outcomeConfirmed       = "confirmed"
	outcomeReplayed        = "replayed"
	outcomeInvalid         = "invalid"
	outcomeUnknownIdentity = "unknown_identity"
	outcomeConflict        = "conflict"
	outcomeShopNotFound    = "shop_not_found"
	outcomeKeyReused       = "key_reused"
	outcomeError           = "error"
)

var (
	// reservationsTotal counts reservation attempts by outcome.
	reservationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barber_reservations_total",
			Help: "Reservation attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// bookingTransitions counts cancellations and owner blocks.
	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barber_booking_transitions_total",
			Help: "Booking status changes other than reservations.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(reservationsTotal, bookingTransitions)
}
