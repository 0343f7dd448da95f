package devserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "noteonline",
		Subsystem: "devserver",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "noteonline",
		Subsystem: "devserver",
		Name:      "http_request_duration_seconds",
		Help:      "Time spent serving HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "noteonline",
		Subsystem: "devserver",
		Name:      "logins_total",
		Help:      "Login attempts by outcome (success, bad_credentials, locked).",
	}, []string{"outcome"})

	accountLocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "noteonline",
		Subsystem: "devserver",
		Name:      "account_locks_total",
		Help:      "Times an account was locked after repeated failed logins.",
	})
)
