package client

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	errs "github.com/Polystyreeni/NoteOnline/client/internal/errors"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "noteonline_client",
			Name:      "requests_total",
			Help:      "API calls by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "noteonline_client",
			Name:      "request_duration_seconds",
			Help:      "API call latency including retries.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

// outcome buckets an error for the requests_total label.
func outcome(err error) string {
	var classified *errs.ClassifiedError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &classified) && classified.StatusCode > 0:
		return "http_error"
	case errors.As(err, &classified):
		return "network_error"
	default:
		return "rejected"
	}
}

func observe(op string, start time.Time, err error) {
	requestsTotal.WithLabelValues(op, outcome(err)).Inc()
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
