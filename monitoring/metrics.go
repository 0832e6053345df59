package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rsvpResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsvp_responses_total",
			Help: "RSVP submissions by resulting status",
		},
		[]string{"event_id", "status"},
	)

	waitlistPromotions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_promotions_total",
			Help: "Invites promoted from the waitlist after a cancellation",
		},
		[]string{"event_id"},
	)

	seatsConfirmed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "seats_confirmed",
			Help: "Currently confirmed seats per event",
		},
		[]string{"event_id"},
	)

	waitlistLength = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "waitlist_length",
			Help: "Currently waitlisted invites per event",
		},
		[]string{"event_id"},
	)

	bulkInvites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulk_invites_total",
			Help: "Invites touched by bulk imports",
		},
		[]string{"event_id", "action"},
	)

	metadataFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "letterboxd_fetch_duration_seconds",
			Help:    "Duration of Letterboxd metadata fetches",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)
)

// TrackRSVP counts one RSVP submission and its final status.
func TrackRSVP(eventID, status string) {
	rsvpResponses.WithLabelValues(eventID, status).Inc()
}

// TrackPromotions counts waitlist promotions triggered by one cancellation.
func TrackPromotions(eventID string, n int) {
	if n > 0 {
		waitlistPromotions.WithLabelValues(eventID).Add(float64(n))
	}
}

// SetOccupancy records the post-mutation seat occupancy of an event.
func SetOccupancy(eventID string, confirmed, waitlisted int) {
	seatsConfirmed.WithLabelValues(eventID).Set(float64(confirmed))
	waitlistLength.WithLabelValues(eventID).Set(float64(waitlisted))
}

// TrackBulkInvites counts created and updated invites from a bulk import.
func TrackBulkInvites(eventID string, created, updated int) {
	if created > 0 {
		bulkInvites.WithLabelValues(eventID, "created").Add(float64(created))
	}
	if updated > 0 {
		bulkInvites.WithLabelValues(eventID, "updated").Add(float64(updated))
	}
}

// TrackMetadataFetch records the duration of one Letterboxd page fetch.
func TrackMetadataFetch(duration time.Duration) {
	metadataFetchDuration.Observe(duration.Seconds())
}
